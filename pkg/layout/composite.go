package layout

import (
	"math"

	"github.com/google/uuid"

	"github.com/matzehuels/crossboard/pkg/errors"
	"github.com/matzehuels/crossboard/pkg/observability"
)

// CompositeCrossLayout concatenates cross layouts around a main cross
// layout. Layouts appended to a side are placed outward in append order.
type CompositeCrossLayout struct {
	main    *CrossLayout
	sides   [4][]*CrossLayout
	layouts map[string]*CrossLayout
	margin  Margin
	align   bool
	legend  *legendSlot

	anchor *Point
	ownership
	frozen bool
}

// Compose creates a composite around main. main is owned by the composite
// from then on.
func Compose(main *CrossLayout, opts ...Option) (*CompositeCrossLayout, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	c := &CompositeCrossLayout{
		main:    main,
		layouts: map[string]*CrossLayout{main.name: main},
		margin:  o.margin,
		align:   !o.noAlign,
	}
	if err := main.own(main.name); err != nil {
		return nil, err
	}
	main.anchor = nil
	return c, nil
}

func (c *CompositeCrossLayout) Name() string        { return c.main.name }
func (c *CompositeCrossLayout) Main() *CrossLayout  { return c.main }
func (c *CompositeCrossLayout) MainWidth() float64  { return c.main.mainW }
func (c *CompositeCrossLayout) MainHeight() float64 { return c.main.mainH }

// Layouts returns the layouts appended to side, from the main layout
// outward.
func (c *CompositeCrossLayout) Layouts(side Side) []*CrossLayout {
	ix := side.index()
	if ix < 0 {
		return nil
	}
	return append([]*CrossLayout(nil), c.sides[ix]...)
}

// Append adds a cross layout to side. Only cross layouts that are not part
// of another layout can be appended, and the composite itself must not be
// embedded in a stack yet.
func (c *CompositeCrossLayout) Append(side Side, other Layout) error {
	if by := c.owner(); by != "" {
		return errors.New(errors.ErrCodeAppendLayout, "composite %q is part of %q and cannot grow", c.Name(), by)
	}
	if _, err := ParseSide(string(side)); err != nil {
		return err
	}
	cl, ok := other.(*CrossLayout)
	if !ok {
		return errors.New(errors.ErrCodeAppendLayout, "only cross layouts can be appended, got %T", other)
	}
	if cl == c.main {
		return errors.New(errors.ErrCodeAppendLayout, "cannot append %q to itself", cl.name)
	}
	if by := cl.owner(); by != "" {
		return errors.New(errors.ErrCodeAppendLayout, "layout %q is already part of %q", cl.name, by)
	}
	if _, ok := c.layouts[cl.name]; ok {
		return errors.New(errors.ErrCodeDuplicateName, "layout with name %q already exists", cl.name)
	}
	if c.align {
		if side.Horizontal() {
			cl.mainH = c.main.mainH
		} else {
			cl.mainW = c.main.mainW
		}
	}
	if err := cl.own(c.Name()); err != nil {
		return err
	}
	cl.anchor = nil
	c.layouts[cl.name] = cl
	c.sides[side.index()] = append(c.sides[side.index()], cl)
	return nil
}

// AppendSpace appends an empty layout of the given size to side.
func (c *CompositeCrossLayout) AppendSpace(side Side, size float64) error {
	if _, err := ParseSide(string(side)); err != nil {
		return err
	}
	if err := errors.ValidateSize("space", size); err != nil {
		return err
	}
	w, h := size, c.main.mainH
	if !side.Horizontal() {
		w, h = c.main.mainW, size
	}
	space, err := NewCrossLayout("space-"+uuid.NewString(), w, h, WithoutMainCanvas())
	if err != nil {
		return err
	}
	return c.Append(side, space)
}

// SideSize is the larger of the main layout's side plus the bboxes appended
// to side and the side sizes of the orthogonal neighbours, plus the legend.
func (c *CompositeCrossLayout) SideSize(side Side) float64 {
	ix := side.index()
	if ix < 0 {
		return 0
	}
	size := c.main.SideSize(side)
	var others []*CrossLayout
	if side.Horizontal() {
		for _, g := range c.sides[ix] {
			size += g.BBoxWidth()
		}
		others = append(append(others, c.sides[Top.index()]...), c.sides[Bottom.index()]...)
	} else {
		for _, g := range c.sides[ix] {
			size += g.BBoxHeight()
		}
		others = append(append(others, c.sides[Left.index()]...), c.sides[Right.index()]...)
	}
	for _, g := range others {
		size = math.Max(size, g.SideSize(side))
	}
	return size + c.legend.lengthOn(side)
}

func (c *CompositeCrossLayout) BBoxWidth() float64 {
	return c.main.mainW + c.SideSize(Left) + c.SideSize(Right)
}

func (c *CompositeCrossLayout) BBoxHeight() float64 {
	return c.main.mainH + c.SideSize(Top) + c.SideSize(Bottom)
}

func (c *CompositeCrossLayout) BBoxSize() (w, h float64) {
	return c.BBoxWidth(), c.BBoxHeight()
}

func (c *CompositeCrossLayout) FigureSize() (w, h float64) {
	w, h = c.BBoxSize()
	return w + c.margin.width(), h + c.margin.height()
}

func (c *CompositeCrossLayout) MainAnchor() Point {
	if c.anchor != nil {
		return *c.anchor
	}
	p := Point{X: c.SideSize(Left), Y: c.SideSize(Bottom)}
	if c.owner() == "" {
		p.X += c.margin.Left
		p.Y += c.margin.Bottom
	}
	return p
}

func (c *CompositeCrossLayout) SetAnchor(p Point) { c.anchor = &p }

// arrange anchors the main layout, then walks outward per side.
func (c *CompositeCrossLayout) arrange() {
	m := c.MainAnchor()
	c.main.SetAnchor(m)
	mw, mh := c.main.mainW, c.main.mainH

	offset := m.X - c.main.SideSize(Left)
	for _, g := range c.sides[Left.index()] {
		offset -= g.SideSize(Right) + g.mainW
		g.SetAnchor(Point{X: offset, Y: m.Y})
		offset -= g.SideSize(Left)
	}
	offset = m.X + mw + c.main.SideSize(Right)
	for _, g := range c.sides[Right.index()] {
		offset += g.SideSize(Left)
		g.SetAnchor(Point{X: offset, Y: m.Y})
		offset += g.mainW + g.SideSize(Right)
	}
	offset = m.Y - c.main.SideSize(Bottom)
	for _, g := range c.sides[Bottom.index()] {
		offset -= g.SideSize(Top) + g.mainH
		g.SetAnchor(Point{X: m.X, Y: offset})
		offset -= g.SideSize(Bottom)
	}
	offset = m.Y + mh + c.main.SideSize(Top)
	for _, g := range c.sides[Top.index()] {
		offset += g.SideSize(Bottom)
		g.SetAnchor(Point{X: m.X, Y: offset})
		offset += g.mainH + g.SideSize(Top)
	}
}

func (c *CompositeCrossLayout) each(f func(*CrossLayout) error) error {
	if err := f(c.main); err != nil {
		return err
	}
	for _, side := range sides {
		for _, g := range c.sides[side.index()] {
			if err := f(g); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *CompositeCrossLayout) Freeze(s Surface, scale float64) error {
	if by := c.owner(); by != "" {
		return freezeOwned(c.Name(), by)
	}
	if err := validateScale(scale); err != nil {
		return err
	}
	w, h := c.FigureSize()
	if err := c.check(); err != nil {
		return err
	}
	s.SetSize(w*scale, h*scale)
	n, err := c.place(s, Point{X: w, Y: h})
	if err != nil {
		return err
	}
	observability.Layout().OnFreeze(c.Name(), n, w, h)
	return nil
}

func (c *CompositeCrossLayout) check() error {
	if err := c.legend.check(c.Name()); err != nil {
		return err
	}
	return c.each(func(g *CrossLayout) error { return g.legend.check(g.name) })
}

func (c *CompositeCrossLayout) place(s Surface, fig Point) (int, error) {
	if err := c.check(); err != nil {
		return 0, err
	}
	c.arrange()
	n := 0
	err := c.each(func(g *CrossLayout) error {
		k, err := g.place(s, fig)
		n += k
		return err
	})
	if err != nil {
		return n, err
	}
	if c.legend != nil {
		r := c.legendRect()
		c.legend.region = s.Place(RegionKey(c.Name(), c.legend.name, 0), r.Normalize(fig.X, fig.Y))
		n++
	}
	c.frozen = true
	return n, nil
}

// mainSpan is the union of the main cells of every layout after arrange.
func (c *CompositeCrossLayout) mainSpan() Rect {
	xmin, ymin := math.Inf(1), math.Inf(1)
	xmax, ymax := math.Inf(-1), math.Inf(-1)
	_ = c.each(func(g *CrossLayout) error {
		a := g.MainAnchor()
		xmin = math.Min(xmin, a.X)
		ymin = math.Min(ymin, a.Y)
		xmax = math.Max(xmax, a.X+g.mainW)
		ymax = math.Max(ymax, a.Y+g.mainH)
		return nil
	})
	return Rect{X: xmin, Y: ymin, W: xmax - xmin, H: ymax - ymin}
}

// legendRect places the legend at the outer edge of the bbox, spanning the
// main cells on the other axis.
func (c *CompositeCrossLayout) legendRect() Rect {
	m := c.MainAnchor()
	x0, y0 := m.X-c.SideSize(Left), m.Y-c.SideSize(Bottom)
	bw, bh := c.BBoxSize()
	span := c.mainSpan()
	size := c.legend.size
	switch c.legend.side {
	case Right:
		return Rect{X: x0 + bw - size, Y: span.Y, W: size, H: span.H}
	case Left:
		return Rect{X: x0, Y: span.Y, W: size, H: span.H}
	case Top:
		return Rect{X: span.X, Y: y0 + bh - size, W: span.W, H: size}
	}
	return Rect{X: span.X, Y: y0, W: span.W, H: size}
}

// GetAx looks a panel up in the named cross layout.
func (c *CompositeCrossLayout) GetAx(layoutName, name string) (Panel, error) {
	if layoutName == "" {
		layoutName = c.main.name
	}
	g, ok := c.layouts[layoutName]
	if !ok {
		return Panel{}, errors.New(errors.ErrCodeUnknownName, "no layout named %q in %q", layoutName, c.Name())
	}
	return g.GetAx(layoutName, name)
}

// AddLegend reserves a legend slot on side, outside every appended layout.
func (c *CompositeCrossLayout) AddLegend(side Side, pad float64) error {
	if c.legend != nil {
		return duplicateLegend(c.Name())
	}
	slot, err := newLegendSlot(c.Name(), side, pad)
	if err != nil {
		return err
	}
	c.legend = slot
	return nil
}

func (c *CompositeCrossLayout) ResolveLegend(m Measurer) error {
	if c.legend == nil {
		return noLegend(c.Name())
	}
	return c.legend.resolve(m)
}

// Legend returns the placed legend panel.
func (c *CompositeCrossLayout) Legend() (Panel, error) {
	if c.legend == nil {
		return Panel{}, noLegend(c.Name())
	}
	if !c.frozen {
		return Panel{}, unfrozen(c.Name())
	}
	return Panel{
		Layout:  c.Name(),
		Name:    c.legend.name,
		Side:    c.legend.side,
		Regions: []Region{c.legend.region},
	}, nil
}

func (c *CompositeCrossLayout) own(owner string) error { return c.take(c.Name(), owner) }

func (c *CompositeCrossLayout) layoutNames() []string {
	var names []string
	_ = c.each(func(g *CrossLayout) error {
		names = append(names, g.name)
		return nil
	})
	return names
}
