package dendrogram

// LineKind tells renderers which part of a tree a line belongs to.
type LineKind int

const (
	// KindBase is a segment of a dendrogram built from data rows.
	KindBase LineKind = iota
	// KindMeta is a segment of the meta tree over chunk centroids.
	KindMeta
	// KindRoot is the stub from a tree root to the panel edge.
	KindRoot
	// KindDivider separates the meta tree from the chunk trees.
	KindDivider
)

func (k LineKind) String() string {
	switch k {
	case KindBase:
		return "base"
	case KindMeta:
		return "meta"
	case KindRoot:
		return "root"
	case KindDivider:
		return "divider"
	}
	return "unknown"
}

// Line is a polyline in panel space.
type Line struct {
	Kind LineKind
	// Chunk is the index of the chunk the line belongs to, or -1 for meta
	// and divider lines and for lines of a plain dendrogram.
	Chunk int
	X, Y  []float64
}

// Drawing is the output of [Tree.Draw].
type Drawing struct {
	Orient Orient
	Lines  []Line
}

// Filter returns the lines of one kind in drawing order.
func (d Drawing) Filter(kind LineKind) []Line {
	var out []Line
	for _, l := range d.Lines {
		if l.Kind == kind {
			out = append(out, l)
		}
	}
	return out
}

// DrawOptions controls [Tree.Draw].
type DrawOptions struct {
	// AddRoot appends a stub from the root to the far panel edge.
	// Only plain dendrograms use it; groups add stubs under the meta tree.
	AddRoot bool
	// Group applies to [Group] only.
	Group GroupOptions
}

// Tree is implemented by [Dendrogram] and [Group].
type Tree interface {
	// LeafCount is the number of data rows the tree orders.
	LeafCount() int
	// Draw returns the tree in normalized panel space.
	Draw(o Orient, opts DrawOptions) (Drawing, error)
}

// canvas normalizes tree space into panel space.
type canvas struct {
	orient Orient
	xmax   float64
	ymax   float64
}

func newCanvas(o Orient, xmax, ymax float64) canvas {
	if xmax <= 0 {
		xmax = 1
	}
	if ymax <= 0 {
		ymax = 1
	}
	return canvas{orient: o, xmax: xmax, ymax: ymax}
}

func (c canvas) line(kind LineKind, chunk int, xs, ys []float64) Line {
	l := Line{Kind: kind, Chunk: chunk, X: make([]float64, len(xs)), Y: make([]float64, len(xs))}
	for i := range xs {
		l.X[i], l.Y[i] = c.orient.project(xs[i]/c.xmax, ys[i]/c.ymax)
	}
	return l
}

func (c canvas) segments(kind LineKind, chunk int, xs, ys [][4]float64) []Line {
	out := make([]Line, len(xs))
	for i := range xs {
		out[i] = c.line(kind, chunk, xs[i][:], ys[i][:])
	}
	return out
}
