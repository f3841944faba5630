package layout

import "slices"

// CellID is the handle of a cell in a cross layout.
type CellID int

// Cell is a panel of a cross layout. Cells on the top and bottom take the
// width of the main cell, cells on the left and right its height.
type Cell struct {
	Name   string
	Side   Side
	Size   float64 // length along the growth axis of Side, unused for Main
	Canvas bool    // pads are not canvases

	rows, cols *chunks
	anchor     Point
}

// IsSplit reports whether either axis of the cell is split.
func (c Cell) IsSplit() bool { return c.rows != nil || c.cols != nil }

// RowRatios returns the row lengths as fractions of the cell height, top to
// bottom. It is nil when the cell has no horizontal split.
func (c Cell) RowRatios() []float64 {
	if c.rows == nil {
		return nil
	}
	return slices.Clone(c.rows.ratios)
}

// ColRatios returns the column lengths as fractions of the cell width, left
// to right. It is nil when the cell has no vertical split.
func (c Cell) ColRatios() []float64 {
	if c.cols == nil {
		return nil
	}
	return slices.Clone(c.cols.ratios)
}

// Anchor returns the bottom-left corner of the cell from the last freeze.
func (c Cell) Anchor() Point { return c.anchor }

var whole = chunks{ratios: []float64{1}, anchors: []float64{0}}

// rects cuts a w×h cell at its anchor into row-major chunk rectangles.
func (c *Cell) rects(w, h float64) []Rect {
	rows, cols := whole, whole
	if c.rows != nil {
		rows = *c.rows
	}
	if c.cols != nil {
		cols = *c.cols
	}
	out := make([]Rect, 0, len(rows.ratios)*len(cols.ratios))
	for i, rr := range rows.ratios {
		// Rows are stored top to bottom.
		y := c.anchor.Y + h*(1-rows.anchors[i]-rr)
		for j, cr := range cols.ratios {
			out = append(out, Rect{
				X: c.anchor.X + w*cols.anchors[j],
				Y: y,
				W: w * cr,
				H: h * rr,
			})
		}
	}
	return out
}
