package layout

import (
	"github.com/matzehuels/crossboard/pkg/errors"
)

// Side is the edge of the main panel a panel is attached to.
type Side string

const (
	Main   Side = "main"
	Top    Side = "top"
	Bottom Side = "bottom"
	Left   Side = "left"
	Right  Side = "right"
)

// sides lists the four edges in the order they are walked.
var sides = [4]Side{Top, Bottom, Left, Right}

// ParseSide validates an edge name. Main is not an edge.
func ParseSide(s string) (Side, error) {
	switch side := Side(s); side {
	case Top, Bottom, Left, Right:
		return side, nil
	}
	return "", errors.New(errors.ErrCodeInvalidSide, "side must be one of top, bottom, left or right, got %q", s)
}

func (s Side) index() int {
	switch s {
	case Top:
		return 0
	case Bottom:
		return 1
	case Left:
		return 2
	case Right:
		return 3
	}
	return -1
}

// Horizontal reports whether panels on this side grow along x.
func (s Side) Horizontal() bool { return s == Left || s == Right }

// Rect is a rectangle anchored at its bottom-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Normalize converts a rectangle in inches to fractions of a figure.
func (r Rect) Normalize(figW, figH float64) Rect {
	return Rect{X: r.X / figW, Y: r.Y / figH, W: r.W / figW, H: r.H / figH}
}

// Scale converts a normalized rectangle back to inches.
func (r Rect) Scale(figW, figH float64) Rect {
	return Rect{X: r.X * figW, Y: r.Y * figH, W: r.W * figW, H: r.H * figH}
}

// Margin is the empty border around a figure, in inches.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// DefaultMargin is the margin of a layout created without WithMargin.
var DefaultMargin = UniformMargin(0.2)

// UniformMargin returns a margin of v on every edge.
func UniformMargin(v float64) Margin {
	return Margin{Top: v, Right: v, Bottom: v, Left: v}
}

func (m Margin) width() float64  { return m.Left + m.Right }
func (m Margin) height() float64 { return m.Top + m.Bottom }

func (m Margin) validate() error {
	for _, v := range []float64{m.Top, m.Right, m.Bottom, m.Left} {
		if err := errors.ValidateSize("margin", v); err != nil {
			return err
		}
	}
	return nil
}

// Point is a position in inches.
type Point struct {
	X, Y float64
}

// Region is a placed panel on a surface.
type Region interface {
	// Bounds returns the region as a fraction of the surface.
	Bounds() Rect
}

// Surface is the drawing target of [Layout.Freeze].
type Surface interface {
	// SetSize sets the physical size of the surface in inches.
	SetSize(w, h float64)
	// Place carves a region out of the surface. r is a fraction of the
	// surface. Placing an existing key replaces the region.
	Place(key string, r Rect) Region
}

// LineDrawer is implemented by regions that can draw polylines given in
// their own unit square, y pointing up.
type LineDrawer interface {
	DrawLine(xs, ys []float64, class string)
}
