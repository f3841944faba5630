package board

import (
	"github.com/matzehuels/crossboard/pkg/errors"
	"github.com/matzehuels/crossboard/pkg/layout"
)

// Figure is a renderable arrangement of boards: a [Board], a [Composite]
// or a [Stacked].
type Figure interface {
	Render(s layout.Surface, scale float64) error
	FigureSize() (w, h float64)

	boards() []*Board
	frame() layout.Layout
	resolveLegend() error
}

func render(f Figure, s layout.Surface, scale float64) error {
	for _, b := range f.boards() {
		if err := b.prepare(); err != nil {
			return err
		}
	}
	if err := f.resolveLegend(); err != nil {
		return err
	}
	if err := f.frame().Freeze(s, scale); err != nil {
		return err
	}
	for _, b := range f.boards() {
		if err := b.draw(); err != nil {
			return err
		}
	}
	return nil
}

// Composite is boards concatenated around a main board.
type Composite struct {
	main   *Board
	all    []*Board
	layout *layout.CompositeCrossLayout
	legend *legend
}

// Append concatenates other to side of b. b and other cannot be appended
// anywhere else afterwards.
func (b *Board) Append(side layout.Side, other *Board) (*Composite, error) {
	l, err := b.layout.Append(side, other.layout)
	if err != nil {
		return nil, err
	}
	return &Composite{main: b, all: []*Board{b, other}, layout: l}, nil
}

// Compose starts a composite around main.
func Compose(main *Board, opts ...layout.Option) (*Composite, error) {
	l, err := layout.Compose(main.layout, opts...)
	if err != nil {
		return nil, err
	}
	return &Composite{main: main, all: []*Board{main}, layout: l}, nil
}

// Append concatenates other to side.
func (c *Composite) Append(side layout.Side, other *Board) error {
	if err := c.layout.Append(side, other.layout); err != nil {
		return err
	}
	c.all = append(c.all, other)
	return nil
}

// AppendSpace inserts empty space on side.
func (c *Composite) AppendSpace(side layout.Side, size float64) error {
	return c.layout.AppendSpace(side, size)
}

// AddLegend reserves a legend spanning the composite, measured by m.
func (c *Composite) AddLegend(side layout.Side, pad float64, m layout.Measurer) error {
	if err := c.layout.AddLegend(side, pad); err != nil {
		return err
	}
	c.legend = &legend{measurer: m}
	return nil
}

// Board returns a board of the composite by name.
func (c *Composite) Board(name string) (*Board, error) {
	return findBoard(c.all, name)
}

func (c *Composite) Layout() *layout.CompositeCrossLayout { return c.layout }
func (c *Composite) FigureSize() (w, h float64)           { return c.layout.FigureSize() }

func (c *Composite) Render(s layout.Surface, scale float64) error {
	return render(c, s, scale)
}

func (c *Composite) boards() []*Board     { return c.all }
func (c *Composite) frame() layout.Layout { return c.layout }

func (c *Composite) resolveLegend() error {
	if c.legend == nil {
		return nil
	}
	return c.layout.ResolveLegend(c.legend.measurer)
}

// Stacked is figures placed next to each other.
type Stacked struct {
	figures []Figure
	layout  *layout.StackCrossLayout
	legend  *legend
}

// Stack places figures in a row or column. See [layout.Stack].
func Stack(figures []Figure, direction layout.Direction, align layout.Align, spacing float64, opts ...layout.Option) (*Stacked, error) {
	layouts := make([]layout.Layout, len(figures))
	for i, f := range figures {
		layouts[i] = f.frame()
	}
	l, err := layout.Stack(layouts, direction, align, spacing, opts...)
	if err != nil {
		return nil, err
	}
	return &Stacked{figures: figures, layout: l}, nil
}

// AddLegend reserves a legend beside the stack, measured by m.
func (s *Stacked) AddLegend(side layout.Side, pad float64, m layout.Measurer) error {
	if err := s.layout.AddLegend(side, pad); err != nil {
		return err
	}
	s.legend = &legend{measurer: m}
	return nil
}

// Board returns a stacked board by name.
func (s *Stacked) Board(name string) (*Board, error) {
	return findBoard(s.boards(), name)
}

func (s *Stacked) Layout() *layout.StackCrossLayout { return s.layout }
func (s *Stacked) FigureSize() (w, h float64)       { return s.layout.FigureSize() }

func (s *Stacked) Render(surface layout.Surface, scale float64) error {
	return render(s, surface, scale)
}

func (s *Stacked) boards() []*Board {
	var out []*Board
	for _, f := range s.figures {
		out = append(out, f.boards()...)
	}
	return out
}

func (s *Stacked) frame() layout.Layout { return s.layout }

func (s *Stacked) resolveLegend() error {
	for _, f := range s.figures {
		if err := f.resolveLegend(); err != nil {
			return err
		}
	}
	if s.legend == nil {
		return nil
	}
	return s.layout.ResolveLegend(s.legend.measurer)
}

func findBoard(boards []*Board, name string) (*Board, error) {
	for _, b := range boards {
		if b.name == name {
			return b, nil
		}
	}
	return nil, errors.New(errors.ErrCodeUnknownName, "no board named %q", name)
}
