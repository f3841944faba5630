package layout

import (
	"github.com/google/uuid"

	"github.com/matzehuels/crossboard/pkg/errors"
	"github.com/matzehuels/crossboard/pkg/observability"
)

// CrossLayout is a main cell with side cells stacked outward on its four
// edges. The main cell is named after the layout.
type CrossLayout struct {
	name   string
	cells  []Cell
	index  map[string]CellID
	sides  [4][]CellID
	mainW  float64
	mainH  float64
	margin Margin

	legend     *legendSlot
	legendCell CellID

	anchor *Point
	ownership
	frozen  bool
	regions map[CellID][]Region
}

// NewCrossLayout creates a layout whose main cell is width×height inches.
func NewCrossLayout(name string, width, height float64, opts ...Option) (*CrossLayout, error) {
	if err := errors.ValidateName(name); err != nil {
		return nil, err
	}
	if err := errors.ValidateSize("width", width); err != nil {
		return nil, err
	}
	if err := errors.ValidateSize("height", height); err != nil {
		return nil, err
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	l := &CrossLayout{
		name:   name,
		index:  map[string]CellID{},
		mainW:  width,
		mainH:  height,
		margin: o.margin,
	}
	l.cells = append(l.cells, Cell{Name: name, Side: Main, Canvas: !o.noMainCanvas})
	l.index[name] = 0
	return l, nil
}

func (l *CrossLayout) Name() string        { return l.name }
func (l *CrossLayout) Margin() Margin      { return l.margin }
func (l *CrossLayout) MainWidth() float64  { return l.mainW }
func (l *CrossLayout) MainHeight() float64 { return l.mainH }

// SetMargin replaces the figure margin.
func (l *CrossLayout) SetMargin(m Margin) error {
	if err := m.validate(); err != nil {
		return err
	}
	l.margin = m
	return nil
}

// SetMainWidth resizes the main cell and every top and bottom cell.
func (l *CrossLayout) SetMainWidth(w float64) error {
	if err := errors.ValidateSize("width", w); err != nil {
		return err
	}
	l.mainW = w
	return nil
}

// SetMainHeight resizes the main cell and every left and right cell.
func (l *CrossLayout) SetMainHeight(h float64) error {
	if err := errors.ValidateSize("height", h); err != nil {
		return err
	}
	l.mainH = h
	return nil
}

func (l *CrossLayout) addCell(side Side, name string, size float64, canvas bool) CellID {
	id := CellID(len(l.cells))
	l.cells = append(l.cells, Cell{Name: name, Side: side, Size: size, Canvas: canvas})
	l.index[name] = id
	l.sides[side.index()] = append(l.sides[side.index()], id)
	return id
}

func (l *CrossLayout) checkSide(side Side) error {
	_, err := ParseSide(string(side))
	return err
}

// AddAx adds a canvas cell of the given size to side. A positive pad first
// adds an empty cell of that size between the new cell and the main cell.
func (l *CrossLayout) AddAx(side Side, name string, size, pad float64) error {
	if err := l.checkSide(side); err != nil {
		return err
	}
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	if err := errors.ValidateSize("size", size); err != nil {
		return err
	}
	if err := errors.ValidateSize("pad", pad); err != nil {
		return err
	}
	if _, ok := l.index[name]; ok {
		return errors.New(errors.ErrCodeDuplicateName, "axes with name %q already exists", name)
	}
	if pad > 0 {
		l.addCell(side, "pad-"+uuid.NewString(), pad, false)
	}
	l.addCell(side, name, size, true)
	return nil
}

// AddPad adds an empty cell to side.
func (l *CrossLayout) AddPad(side Side, size float64) error {
	if err := l.checkSide(side); err != nil {
		return err
	}
	if err := errors.ValidateSize("pad", size); err != nil {
		return err
	}
	l.addCell(side, "pad-"+uuid.NewString(), size, false)
	return nil
}

func (l *CrossLayout) lookup(name string) (CellID, error) {
	id, ok := l.index[name]
	if !ok {
		return 0, errors.New(errors.ErrCodeUnknownName, "no axes named %q in layout %q", name, l.name)
	}
	return id, nil
}

// Cell returns a copy of the named cell.
func (l *CrossLayout) Cell(name string) (Cell, error) {
	id, err := l.lookup(name)
	if err != nil {
		return Cell{}, err
	}
	return l.cells[id], nil
}

// SideNames returns the cell names on side, from the main cell outward.
// Pads are included.
func (l *CrossLayout) SideNames(side Side) []string {
	ix := side.index()
	if ix < 0 {
		return nil
	}
	names := make([]string, len(l.sides[ix]))
	for i, id := range l.sides[ix] {
		names[i] = l.cells[id].Name
	}
	return names
}

// SetSize changes the growth-axis size of a side cell, for panels sized
// after their content was measured.
func (l *CrossLayout) SetSize(name string, size float64) error {
	id, err := l.lookup(name)
	if err != nil {
		return err
	}
	if id == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "use SetMainWidth or SetMainHeight to resize the main cell")
	}
	if err := errors.ValidateSize("size", size); err != nil {
		return err
	}
	l.cells[id].Size = size
	return nil
}

// IsSplit reports whether the named cell is split on either axis.
func (l *CrossLayout) IsSplit(name string) (bool, error) {
	id, err := l.lookup(name)
	if err != nil {
		return false, err
	}
	return l.cells[id].IsSplit(), nil
}

// HSplit cuts a cell into rows. ratios run top to bottom. spacing holds one
// fraction of the cell height per gap, or a single value for every gap.
// groupRatios, when not nil, merges the rows into len(groupRatios) groups.
func (l *CrossLayout) HSplit(name string, ratios, spacing, groupRatios []float64) error {
	return l.split(name, true, ratios, spacing, groupRatios)
}

// VSplit cuts a cell into columns, left to right. See [CrossLayout.HSplit].
func (l *CrossLayout) VSplit(name string, ratios, spacing, groupRatios []float64) error {
	return l.split(name, false, ratios, spacing, groupRatios)
}

func (l *CrossLayout) split(name string, rows bool, ratios, spacing, groupRatios []float64) error {
	id, err := l.lookup(name)
	if err != nil {
		return err
	}
	c := &l.cells[id]
	target := &c.cols
	if rows {
		target = &c.rows
	}
	if *target != nil {
		kind := "vertically"
		if rows {
			kind = "horizontally"
		}
		return errors.New(errors.ErrCodeSplitTwice, "axes %q is already split %s", name, kind)
	}
	ch, err := splitAxis(ratios, spacing, groupRatios)
	if err != nil {
		return err
	}
	*target = &ch
	return nil
}

// SideSize returns the total size of the cells on side.
func (l *CrossLayout) SideSize(side Side) float64 {
	ix := side.index()
	if ix < 0 {
		return 0
	}
	var size float64
	for _, id := range l.sides[ix] {
		size += l.cells[id].Size
	}
	return size
}

func (l *CrossLayout) BBoxWidth() float64 {
	return l.mainW + l.SideSize(Left) + l.SideSize(Right)
}

func (l *CrossLayout) BBoxHeight() float64 {
	return l.mainH + l.SideSize(Top) + l.SideSize(Bottom)
}

func (l *CrossLayout) BBoxSize() (w, h float64) {
	return l.BBoxWidth(), l.BBoxHeight()
}

func (l *CrossLayout) FigureSize() (w, h float64) {
	w, h = l.BBoxSize()
	return w + l.margin.width(), h + l.margin.height()
}

// MainAnchor returns the bottom-left corner of the main cell. Inside a
// composite or stack the margins belong to the owner.
func (l *CrossLayout) MainAnchor() Point {
	if l.anchor != nil {
		return *l.anchor
	}
	p := Point{X: l.SideSize(Left), Y: l.SideSize(Bottom)}
	if l.owner() == "" {
		p.X += l.margin.Left
		p.Y += l.margin.Bottom
	}
	return p
}

func (l *CrossLayout) SetAnchor(p Point) { l.anchor = &p }

func (l *CrossLayout) cellSize(c *Cell) (w, h float64) {
	switch c.Side {
	case Main:
		return l.mainW, l.mainH
	case Top, Bottom:
		return l.mainW, c.Size
	}
	return c.Size, l.mainH
}

// arrange walks outward from the main anchor and sets every cell anchor.
func (l *CrossLayout) arrange() {
	a := l.MainAnchor()
	l.cells[0].anchor = a

	y := a.Y + l.mainH
	for _, id := range l.sides[Top.index()] {
		l.cells[id].anchor = Point{X: a.X, Y: y}
		y += l.cells[id].Size
	}
	y = a.Y
	for _, id := range l.sides[Bottom.index()] {
		y -= l.cells[id].Size
		l.cells[id].anchor = Point{X: a.X, Y: y}
	}
	x := a.X
	for _, id := range l.sides[Left.index()] {
		x -= l.cells[id].Size
		l.cells[id].anchor = Point{X: x, Y: a.Y}
	}
	x = a.X + l.mainW
	for _, id := range l.sides[Right.index()] {
		l.cells[id].anchor = Point{X: x, Y: a.Y}
		x += l.cells[id].Size
	}
}

// Rects returns the rectangles of a cell in inches from the last arrange,
// one per chunk, row-major.
func (l *CrossLayout) Rects(name string) ([]Rect, error) {
	id, err := l.lookup(name)
	if err != nil {
		return nil, err
	}
	l.arrange()
	c := &l.cells[id]
	w, h := l.cellSize(c)
	return c.rects(w, h), nil
}

func (l *CrossLayout) Freeze(s Surface, scale float64) error {
	if by := l.owner(); by != "" {
		return freezeOwned(l.name, by)
	}
	if err := validateScale(scale); err != nil {
		return err
	}
	if err := l.legend.check(l.name); err != nil {
		return err
	}
	w, h := l.FigureSize()
	s.SetSize(w*scale, h*scale)
	n, err := l.place(s, Point{X: w, Y: h})
	if err != nil {
		return err
	}
	observability.Layout().OnFreeze(l.name, n, w, h)
	return nil
}

func (l *CrossLayout) place(s Surface, fig Point) (int, error) {
	if err := l.legend.check(l.name); err != nil {
		return 0, err
	}
	l.arrange()
	l.regions = make(map[CellID][]Region)
	n := 0
	for i := range l.cells {
		c := &l.cells[i]
		if !c.Canvas {
			continue
		}
		w, h := l.cellSize(c)
		for j, r := range c.rects(w, h) {
			region := s.Place(RegionKey(l.name, c.Name, j), r.Normalize(fig.X, fig.Y))
			l.regions[CellID(i)] = append(l.regions[CellID(i)], region)
			n++
		}
	}
	l.frozen = true
	return n, nil
}

func (l *CrossLayout) GetAx(layoutName, name string) (Panel, error) {
	if layoutName != "" && layoutName != l.name {
		return Panel{}, errors.New(errors.ErrCodeUnknownName, "no layout named %q", layoutName)
	}
	id, err := l.lookup(name)
	if err != nil {
		return Panel{}, err
	}
	c := &l.cells[id]
	if !c.Canvas {
		return Panel{}, errors.New(errors.ErrCodeInvalidInput, "axes %q is not a canvas", name)
	}
	if !l.frozen {
		return Panel{}, unfrozen(l.name)
	}
	return Panel{
		Layout:  l.name,
		Name:    c.Name,
		Side:    c.Side,
		Split:   c.IsSplit(),
		Regions: l.regions[id],
	}, nil
}

// AddLegend reserves a legend cell on side, pad away from the last cell.
// The cell has no size until [CrossLayout.ResolveLegend] measures it.
func (l *CrossLayout) AddLegend(side Side, pad float64) error {
	if l.legend != nil {
		return duplicateLegend(l.name)
	}
	slot, err := newLegendSlot(l.name, side, pad)
	if err != nil {
		return err
	}
	if pad > 0 {
		l.addCell(side, "pad-"+uuid.NewString(), pad, false)
	}
	l.legendCell = l.addCell(side, slot.name, 0, true)
	l.legend = slot
	return nil
}

// ResolveLegend measures the legend and sizes its cell.
func (l *CrossLayout) ResolveLegend(m Measurer) error {
	if l.legend == nil {
		return noLegend(l.name)
	}
	if err := l.legend.resolve(m); err != nil {
		return err
	}
	l.cells[l.legendCell].Size = l.legend.size
	return nil
}

// LegendName returns the cell name of the legend, empty without one.
func (l *CrossLayout) LegendName() string {
	if l.legend == nil {
		return ""
	}
	return l.legend.name
}

// Legend returns the placed legend panel.
func (l *CrossLayout) Legend() (Panel, error) {
	if l.legend == nil {
		return Panel{}, noLegend(l.name)
	}
	return l.GetAx(l.name, l.legend.name)
}

// Append creates a composite with l as its main layout and appends other
// to side.
func (l *CrossLayout) Append(side Side, other Layout) (*CompositeCrossLayout, error) {
	c, err := Compose(l)
	if err != nil {
		return nil, err
	}
	if err := c.Append(side, other); err != nil {
		l.ownership = ownership{}
		return nil, err
	}
	return c, nil
}

func (l *CrossLayout) own(owner string) error { return l.take(l.name, owner) }
func (l *CrossLayout) layoutNames() []string  { return []string{l.name} }
