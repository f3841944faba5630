package deform

import (
	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/crossboard/pkg/errors"
)

// Shape describes how a transformed matrix is chunked.
type Shape int

const (
	// Whole is one matrix: neither axis is split.
	Whole Shape = iota
	// RowChunks is a list of row blocks.
	RowChunks
	// ColChunks is a list of column blocks.
	ColChunks
	// Grid is a row-major grid of blocks.
	Grid
)

func (s Shape) String() string {
	switch s {
	case Whole:
		return "whole"
	case RowChunks:
		return "rows"
	case ColChunks:
		return "cols"
	case Grid:
		return "grid"
	}
	return "unknown"
}

// Chunks is a transformed matrix.
type Chunks struct {
	shape  Shape
	blocks [][]*mat.Dense
}

// Shape reports which accessor fits the result.
func (c *Chunks) Shape() Shape { return c.shape }

// Matrix returns the single block of a Whole result.
func (c *Chunks) Matrix() *mat.Dense { return c.blocks[0][0] }

// Rows returns the row blocks of a RowChunks result.
func (c *Chunks) Rows() []*mat.Dense {
	out := make([]*mat.Dense, len(c.blocks))
	for i, row := range c.blocks {
		out[i] = row[0]
	}
	return out
}

// Cols returns the column blocks of a ColChunks result.
func (c *Chunks) Cols() []*mat.Dense { return append([]*mat.Dense(nil), c.blocks[0]...) }

// Grid returns all blocks indexed by row chunk, then column chunk.
func (c *Chunks) Grid() [][]*mat.Dense {
	out := make([][]*mat.Dense, len(c.blocks))
	for i, row := range c.blocks {
		out[i] = append([]*mat.Dense(nil), row...)
	}
	return out
}

// Flatten returns every block in row-major order.
func (c *Chunks) Flatten() []*mat.Dense {
	var out []*mat.Dense
	for _, row := range c.blocks {
		out = append(out, row...)
	}
	return out
}

// Size returns the number of elements across all blocks.
func (c *Chunks) Size() int {
	n := 0
	for _, row := range c.blocks {
		for _, b := range row {
			r, cc := b.Dims()
			n += r * cc
		}
	}
	return n
}

// Transform reorders and splits m, which must have the shape of the
// deformation's matrix.
func (d *Deformation) Transform(m mat.Matrix) (*Chunks, error) {
	r, c := m.Dims()
	if r != d.rows.n || c != d.cols.n {
		return nil, errors.New(errors.ErrCodeDataShape,
			"input shape (%d, %d) does not match cluster data (%d, %d)", r, c, d.rows.n, d.cols.n)
	}
	rowSegs, err := d.Segments(Rows)
	if err != nil {
		return nil, err
	}
	colSegs, err := d.Segments(Cols)
	if err != nil {
		return nil, err
	}

	out := &Chunks{blocks: make([][]*mat.Dense, len(rowSegs))}
	for i, rs := range rowSegs {
		out.blocks[i] = make([]*mat.Dense, len(colSegs))
		for j, cs := range colSegs {
			out.blocks[i][j] = block(m, rs, cs)
		}
	}
	switch rs, cs := d.rows.split(), d.cols.split(); {
	case rs && cs:
		out.shape = Grid
	case rs:
		out.shape = RowChunks
	case cs:
		out.shape = ColChunks
	default:
		out.shape = Whole
	}
	return out, nil
}

func block(m mat.Matrix, rows, cols []int) *mat.Dense {
	b := mat.NewDense(len(rows), len(cols), nil)
	for i, r := range rows {
		for j, c := range cols {
			b.Set(i, j, m.At(r, c))
		}
	}
	return b
}

// TransformRow reorders tracks of per-row values. m is k×R: one track per
// matrix row, one column per data row. It returns one k×len block per
// row chunk in display order.
func (d *Deformation) TransformRow(m mat.Matrix) ([]*mat.Dense, error) {
	return d.transformTracks(Rows, m)
}

// TransformCol reorders tracks of per-column values. m is k×C.
func (d *Deformation) TransformCol(m mat.Matrix) ([]*mat.Dense, error) {
	return d.transformTracks(Cols, m)
}

func (d *Deformation) transformTracks(a Axis, m mat.Matrix) ([]*mat.Dense, error) {
	k, n := m.Dims()
	if n != d.axis(a).n {
		return nil, errors.New(errors.ErrCodeDataShape, "got %d values per track, %s axis has %d", n, a, d.axis(a).n)
	}
	segs, err := d.Segments(a)
	if err != nil {
		return nil, err
	}
	tracks := make([]int, k)
	for i := range tracks {
		tracks[i] = i
	}
	out := make([]*mat.Dense, len(segs))
	for i, s := range segs {
		out[i] = block(m, tracks, s)
	}
	return out, nil
}

// TransformSlice reorders per-item values along an axis and splits them
// into chunks in display order. An unsplit axis yields one chunk.
func TransformSlice[T any](d *Deformation, a Axis, values []T) ([][]T, error) {
	if len(values) != d.axis(a).n {
		return nil, errors.New(errors.ErrCodeDataShape, "got %d values, %s axis has %d", len(values), a, d.axis(a).n)
	}
	segs, err := d.Segments(a)
	if err != nil {
		return nil, err
	}
	out := make([][]T, len(segs))
	for i, s := range segs {
		out[i] = make([]T, len(s))
		for j, ix := range s {
			out[i][j] = values[ix]
		}
	}
	return out, nil
}

// TransformRowSlice reorders per-row values.
func TransformRowSlice[T any](d *Deformation, values []T) ([][]T, error) {
	return TransformSlice(d, Rows, values)
}

// TransformColSlice reorders per-column values.
func TransformColSlice[T any](d *Deformation, values []T) ([][]T, error) {
	return TransformSlice(d, Cols, values)
}
