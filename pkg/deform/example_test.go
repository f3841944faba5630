package deform_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/crossboard/pkg/deform"
)

func ExampleDeformation_Transform() {
	data := mat.NewDense(4, 2, []float64{
		0, 0,
		10, 10,
		1, 1,
		11, 11,
	})
	d, _ := deform.New(data)
	_ = d.SetRowCluster(deform.ClusterOptions{})

	chunks, _ := d.Transform(data)
	fmt.Println(chunks.Shape())
	fmt.Println(mat.Col(nil, 0, chunks.Matrix()))
	// Output:
	// whole
	// [0 1 10 11]
}

func ExampleDeformation_GroupRows() {
	data := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
	d, _ := deform.New(data)
	_ = d.GroupRows([]string{"b", "a", "b", "a", "c"}, nil)

	keys, _ := d.ChunkKeys(deform.Rows)
	sizes, _ := d.RowChunkSizes()
	labels, _ := deform.TransformRowSlice(d, []string{"r0", "r1", "r2", "r3", "r4"})
	fmt.Println(keys, sizes)
	fmt.Println(labels)
	// Output:
	// [a b c] [2 2 1]
	// [[r1 r3] [r0 r2] [r4]]
}
