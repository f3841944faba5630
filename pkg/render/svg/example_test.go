package svg_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/crossboard/pkg/layout"
	"github.com/matzehuels/crossboard/pkg/render/svg"
)

func ExampleCanvas() {
	l, _ := layout.NewCrossLayout("heatmap", 3, 2)
	_ = l.AddAx(layout.Left, "tree", 0.5, 0.1)

	c := svg.New()
	if err := l.Freeze(c, 1); err != nil {
		fmt.Println("Error:", err)
		return
	}
	p, _ := l.GetAx("heatmap", "tree")
	if d, ok := p.Region().(layout.LineDrawer); ok {
		d.DrawLine([]float64{1, 0.5, 0.5, 1}, []float64{0.25, 0.25, 0.75, 0.75}, "dendrogram base")
	}

	w, h := c.Size()
	fmt.Printf("%.0f x %.0f px\n", w, h)
	fmt.Println(c.Keys())
	fmt.Println(strings.Count(string(c.Bytes()), "<polyline"))
	// Output:
	// 302 x 173 px
	// [heatmap/heatmap/0 heatmap/tree/0]
	// 1
}
