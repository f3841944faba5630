package board_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/crossboard/pkg/board"
	"github.com/matzehuels/crossboard/pkg/layout"
)

func ExampleBoard() {
	data := mat.NewDense(4, 3, []float64{
		1, 2, 3,
		9, 8, 7,
		1, 2, 4,
		9, 8, 6,
	})
	b, _ := board.New("heatmap", 3, 2, board.WithData(data))
	_ = b.GroupRows([]string{"lo", "hi", "lo", "hi"}, []string{"lo", "hi"}, 0.1)
	_ = b.AddDendrogram(layout.Left, board.DendrogramOptions{Name: "tree"})

	rec := layout.NewRecorder()
	if err := b.Render(rec, 1); err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, key := range rec.Keys() {
		fmt.Println(key)
	}
	order, _ := b.Deformation().RowOrder()
	fmt.Println("rows:", order)
	// Output:
	// heatmap/heatmap/0
	// heatmap/heatmap/1
	// heatmap/tree/0
	// rows: [0 2 1 3]
}
