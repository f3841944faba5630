package layout

import (
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/crossboard/pkg/errors"
	"github.com/matzehuels/crossboard/pkg/observability"
)

// Direction is the stacking direction of a [StackCrossLayout].
type Direction string

const (
	Horizontal Direction = "horizontal"
	Vertical   Direction = "vertical"
)

// Align is how stacked layouts line up across the stacking direction.
type Align string

const (
	AlignCenter Align = "center"
	AlignTop    Align = "top"
	AlignBottom Align = "bottom"
	AlignLeft   Align = "left"
	AlignRight  Align = "right"
)

func validateStack(d Direction, a Align) error {
	switch d {
	case Horizontal:
		if a == AlignCenter || a == AlignTop || a == AlignBottom {
			return nil
		}
		return errors.New(errors.ErrCodeInvalidInput, "horizontal stack can align center, top or bottom, got %q", a)
	case Vertical:
		if a == AlignCenter || a == AlignLeft || a == AlignRight {
			return nil
		}
		return errors.New(errors.ErrCodeInvalidInput, "vertical stack can align center, left or right, got %q", a)
	}
	return errors.New(errors.ErrCodeInvalidInput, "direction must be horizontal or vertical, got %q", d)
}

// StackCrossLayout places layouts next to each other. Horizontal stacks run
// left to right, vertical stacks top to bottom. The main panel of a stack is
// the bounding box of its elements' main panels.
type StackCrossLayout struct {
	name      string
	layouts   []Layout
	direction Direction
	align     Align
	spacing   float64
	margin    Margin
	legend    *legendSlot

	anchor *Point
	ownership
	frozen bool
}

// Stack creates a stack of layouts separated by spacing inches. Every
// layout becomes owned by the stack.
func Stack(layouts []Layout, direction Direction, align Align, spacing float64, opts ...Option) (*StackCrossLayout, error) {
	if len(layouts) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "stack requires at least one layout")
	}
	if err := validateStack(direction, align); err != nil {
		return nil, err
	}
	if err := errors.ValidateSize("spacing", spacing); err != nil {
		return nil, err
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	name := o.name
	if name == "" {
		name = "stack-" + uuid.NewString()
	}
	if err := errors.ValidateName(name); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for _, l := range layouts {
		if by := l.owner(); by != "" {
			return nil, errors.New(errors.ErrCodeAppendLayout, "layout %q is already part of %q", l.Name(), by)
		}
		for _, n := range l.layoutNames() {
			if seen[n] {
				return nil, errors.New(errors.ErrCodeDuplicateName, "layout with name %q already exists", n)
			}
			seen[n] = true
		}
	}
	for _, l := range layouts {
		if err := l.own(name); err != nil {
			return nil, err
		}
	}
	return &StackCrossLayout{
		name:      name,
		layouts:   slices.Clone(layouts),
		direction: direction,
		align:     align,
		spacing:   spacing,
		margin:    o.margin,
	}, nil
}

func (s *StackCrossLayout) Name() string         { return s.name }
func (s *StackCrossLayout) Layouts() []Layout    { return slices.Clone(s.layouts) }
func (s *StackCrossLayout) Direction() Direction { return s.direction }
func (s *StackCrossLayout) Align() Align         { return s.align }

// geometry is the arrangement of a stack relative to the bottom-left corner
// of its core box, which excludes the legend.
type geometry struct {
	w, h    float64
	anchors []Point
	offsets [4]float64
}

func (s *StackCrossLayout) geometry() geometry {
	n := len(s.layouts)
	g := geometry{anchors: make([]Point, n)}
	mains := make([]Point, n)
	for i, l := range s.layouts {
		mains[i] = Point{X: l.MainWidth(), Y: l.MainHeight()}
	}

	if s.direction == Horizontal {
		var x float64
		for i, l := range s.layouts {
			w, _ := l.BBoxSize()
			g.anchors[i].X = x + l.SideSize(Left)
			x += w + s.spacing
		}
		g.w = x - s.spacing
		ys, h := alignAcross(s.layouts, mains, Bottom, Top, s.align == AlignBottom, s.align == AlignTop)
		g.h = h
		for i := range g.anchors {
			g.anchors[i].Y = ys[i]
		}
	} else {
		var y float64
		for i := n - 1; i >= 0; i-- {
			l := s.layouts[i]
			_, h := l.BBoxSize()
			g.anchors[i].Y = y + l.SideSize(Bottom)
			y += h + s.spacing
		}
		g.h = y - s.spacing
		xs, w := alignAcross(s.layouts, mains, Left, Right, s.align == AlignLeft, s.align == AlignRight)
		g.w = w
		for i := range g.anchors {
			g.anchors[i].X = xs[i]
		}
	}

	lo, hi := Point{X: math.Inf(1), Y: math.Inf(1)}, Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for i, a := range g.anchors {
		lo.X, lo.Y = math.Min(lo.X, a.X), math.Min(lo.Y, a.Y)
		hi.X, hi.Y = math.Max(hi.X, a.X+mains[i].X), math.Max(hi.Y, a.Y+mains[i].Y)
	}
	g.offsets[Left.index()] = lo.X
	g.offsets[Bottom.index()] = lo.Y
	g.offsets[Right.index()] = g.w - hi.X
	g.offsets[Top.index()] = g.h - hi.Y
	return g
}

// alignAcross positions main panels across the stacking direction. low and
// high are the sides below and above the main panel on that axis. It
// returns the main anchor of every layout and the total extent.
func alignAcross(layouts []Layout, mains []Point, low, high Side, alignLow, alignHigh bool) ([]float64, float64) {
	length := func(i int) float64 {
		if low == Bottom {
			return mains[i].Y
		}
		return mains[i].X
	}
	pos := make([]float64, len(layouts))
	var below, above float64
	switch {
	case alignLow:
		for i, l := range layouts {
			below = math.Max(below, l.SideSize(low))
			above = math.Max(above, length(i)+l.SideSize(high))
		}
		for i := range pos {
			pos[i] = below
		}
	case alignHigh:
		for i, l := range layouts {
			below = math.Max(below, length(i)+l.SideSize(low))
			above = math.Max(above, l.SideSize(high))
		}
		for i := range pos {
			pos[i] = below - length(i)
		}
	default:
		for i, l := range layouts {
			below = math.Max(below, length(i)/2+l.SideSize(low))
			above = math.Max(above, length(i)/2+l.SideSize(high))
		}
		for i := range pos {
			pos[i] = below - length(i)/2
		}
	}
	return pos, below + above
}

func (s *StackCrossLayout) SideSize(side Side) float64 {
	ix := side.index()
	if ix < 0 {
		return 0
	}
	return s.geometry().offsets[ix] + s.legend.lengthOn(side)
}

func (s *StackCrossLayout) BBoxSize() (w, h float64) {
	g := s.geometry()
	w = g.w + s.legend.lengthOn(Left) + s.legend.lengthOn(Right)
	h = g.h + s.legend.lengthOn(Top) + s.legend.lengthOn(Bottom)
	return w, h
}

func (s *StackCrossLayout) MainWidth() float64 {
	g := s.geometry()
	return g.w - g.offsets[Left.index()] - g.offsets[Right.index()]
}

func (s *StackCrossLayout) MainHeight() float64 {
	g := s.geometry()
	return g.h - g.offsets[Bottom.index()] - g.offsets[Top.index()]
}

func (s *StackCrossLayout) FigureSize() (w, h float64) {
	w, h = s.BBoxSize()
	return w + s.margin.width(), h + s.margin.height()
}

func (s *StackCrossLayout) MainAnchor() Point {
	if s.anchor != nil {
		return *s.anchor
	}
	p := Point{X: s.SideSize(Left), Y: s.SideSize(Bottom)}
	if s.owner() == "" {
		p.X += s.margin.Left
		p.Y += s.margin.Bottom
	}
	return p
}

func (s *StackCrossLayout) SetAnchor(p Point) { s.anchor = &p }

// arrange anchors every element and returns the core box in inches.
func (s *StackCrossLayout) arrange() Rect {
	g := s.geometry()
	m := s.MainAnchor()
	origin := Point{X: m.X - g.offsets[Left.index()], Y: m.Y - g.offsets[Bottom.index()]}
	for i, l := range s.layouts {
		l.SetAnchor(Point{X: origin.X + g.anchors[i].X, Y: origin.Y + g.anchors[i].Y})
	}
	return Rect{X: origin.X, Y: origin.Y, W: g.w, H: g.h}
}

func (s *StackCrossLayout) Freeze(surface Surface, scale float64) error {
	if by := s.owner(); by != "" {
		return freezeOwned(s.name, by)
	}
	if err := validateScale(scale); err != nil {
		return err
	}
	if err := s.legend.check(s.name); err != nil {
		return err
	}
	w, h := s.FigureSize()
	surface.SetSize(w*scale, h*scale)
	n, err := s.place(surface, Point{X: w, Y: h})
	if err != nil {
		return err
	}
	observability.Layout().OnFreeze(s.name, n, w, h)
	return nil
}

func (s *StackCrossLayout) place(surface Surface, fig Point) (int, error) {
	if err := s.legend.check(s.name); err != nil {
		return 0, err
	}
	core := s.arrange()
	n := 0
	for _, l := range s.layouts {
		k, err := l.place(surface, fig)
		n += k
		if err != nil {
			return n, err
		}
	}
	if s.legend != nil {
		r := s.legendRect(core)
		s.legend.region = surface.Place(RegionKey(s.name, s.legend.name, 0), r.Normalize(fig.X, fig.Y))
		n++
	}
	s.frozen = true
	return n, nil
}

// legendRect places the legend pad away from the core box, spanning it.
func (s *StackCrossLayout) legendRect(core Rect) Rect {
	size, pad := s.legend.size, s.legend.pad
	switch s.legend.side {
	case Right:
		return Rect{X: core.X + core.W + pad, Y: core.Y, W: size, H: core.H}
	case Left:
		return Rect{X: core.X - pad - size, Y: core.Y, W: size, H: core.H}
	case Top:
		return Rect{X: core.X, Y: core.Y + core.H + pad, W: core.W, H: size}
	}
	return Rect{X: core.X, Y: core.Y - pad - size, W: core.W, H: size}
}

// GetAx searches the stacked layouts for the named cross layout.
func (s *StackCrossLayout) GetAx(layoutName, name string) (Panel, error) {
	for _, l := range s.layouts {
		if slices.Contains(l.layoutNames(), layoutName) {
			return l.GetAx(layoutName, name)
		}
	}
	return Panel{}, errors.New(errors.ErrCodeUnknownName, "no layout named %q in stack %q", layoutName, s.name)
}

// AddLegend reserves a legend slot on side of the stack.
func (s *StackCrossLayout) AddLegend(side Side, pad float64) error {
	if s.legend != nil {
		return duplicateLegend(s.name)
	}
	slot, err := newLegendSlot(s.name, side, pad)
	if err != nil {
		return err
	}
	s.legend = slot
	return nil
}

func (s *StackCrossLayout) ResolveLegend(m Measurer) error {
	if s.legend == nil {
		return noLegend(s.name)
	}
	return s.legend.resolve(m)
}

// Legend returns the placed legend panel.
func (s *StackCrossLayout) Legend() (Panel, error) {
	if s.legend == nil {
		return Panel{}, noLegend(s.name)
	}
	if !s.frozen {
		return Panel{}, unfrozen(s.name)
	}
	return Panel{
		Layout:  s.name,
		Name:    s.legend.name,
		Side:    s.legend.side,
		Regions: []Region{s.legend.region},
	}, nil
}

func (s *StackCrossLayout) own(owner string) error { return s.take(s.name, owner) }

func (s *StackCrossLayout) layoutNames() []string {
	var names []string
	for _, l := range s.layouts {
		names = append(names, l.layoutNames()...)
	}
	return names
}
