package cluster

import (
	"gonum.org/v1/gonum/mat"
)

// Tree holds the drawing coordinates of a linkage matrix.
type Tree struct {
	// Leaves is the leaf order from left to right.
	Leaves []int
	// Icoord holds the x of the four points of each U segment.
	Icoord [][4]float64
	// Dcoord holds the matching heights. The last segment is the root.
	Dcoord [][4]float64
	// MaxHeight is the largest merge distance.
	MaxHeight float64
}

// Walk computes the leaf order and U segments of a linkage matrix with
// n-1 rows. The left child of each merge is drawn first. z must be valid
// (see [ValidateLinkage]).
func Walk(z mat.Matrix) Tree {
	r, _ := z.Dims()
	n := r + 1
	t := Tree{
		Leaves: make([]int, 0, n),
		Icoord: make([][4]float64, 0, r),
		Dcoord: make([][4]float64, 0, r),
	}
	w := walker{z: z, n: n, t: &t}
	_, _, _, t.MaxHeight = w.visit(2*n-2, 0)
	return t
}

type walker struct {
	z mat.Matrix
	n int
	t *Tree
}

// visit returns the x of node i, the width it occupies, its height and the
// largest height below it.
func (w walker) visit(i int, iv float64) (x, width, h, maxH float64) {
	if i < w.n {
		w.t.Leaves = append(w.t.Leaves, i)
		return iv + 5, 10, 0, 0
	}
	row := i - w.n
	left := int(w.z.At(row, 0))
	right := int(w.z.At(row, 1))
	h = w.z.At(row, 2)

	xa, wa, ha, ma := w.visit(left, iv)
	xb, wb, hb, mb := w.visit(right, iv+wa)

	w.t.Icoord = append(w.t.Icoord, [4]float64{xa, xa, xb, xb})
	w.t.Dcoord = append(w.t.Dcoord, [4]float64{ha, h, h, hb})
	return (xa + xb) / 2, wa + wb, h, max(ma, mb, h)
}
