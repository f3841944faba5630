package board

import (
	"fmt"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/crossboard/pkg/deform"
	"github.com/matzehuels/crossboard/pkg/errors"
	"github.com/matzehuels/crossboard/pkg/layout"
)

// DefaultSize is the size of a side panel whose plan does not size itself.
const DefaultSize = 1.0

// DefaultSpacing is the gap between chunks as a fraction of the panel.
const DefaultSpacing = 0.01

// Board is a main panel with side panels, optionally driven by a matrix.
type Board struct {
	name    string
	layout  *layout.CrossLayout
	deform  *deform.Deformation
	logger  *log.Logger
	plots   []*plot
	layers  []*plot
	dens    []*denPanel
	spacing [2]float64
	legend  *legend
	split   bool
}

type plot struct {
	name  string
	side  layout.Side
	plan  Plan
	fixed bool
}

type legend struct {
	measurer layout.Measurer
}

// Option configures a Board.
type Option func(*config)

type config struct {
	data   mat.Matrix
	logger *log.Logger
	layout []layout.Option
}

// WithData attaches the matrix the board orders and splits.
func WithData(m mat.Matrix) Option {
	return func(c *config) { c.data = m }
}

// WithMargin sets the figure margin.
func WithMargin(m layout.Margin) Option {
	return func(c *config) { c.layout = append(c.layout, layout.WithMargin(m)) }
}

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a board whose main panel is width×height inches.
func New(name string, width, height float64, opts ...Option) (*Board, error) {
	cfg := config{logger: log.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	l, err := layout.NewCrossLayout(name, width, height, cfg.layout...)
	if err != nil {
		return nil, err
	}
	b := &Board{
		name:    name,
		layout:  l,
		logger:  cfg.logger,
		spacing: [2]float64{DefaultSpacing, DefaultSpacing},
	}
	if cfg.data != nil {
		d, err := deform.New(cfg.data, deform.WithLogger(cfg.logger))
		if err != nil {
			return nil, err
		}
		b.deform = d
	}
	return b, nil
}

func (b *Board) Name() string                     { return b.name }
func (b *Board) Layout() *layout.CrossLayout      { return b.layout }
func (b *Board) Deformation() *deform.Deformation { return b.deform }

func (b *Board) requireData() error {
	if b.deform == nil {
		return errors.New(errors.ErrCodeInvalidInput, "board %q has no cluster data", b.name)
	}
	return nil
}

func (b *Board) nextName(side layout.Side, kind string) string {
	return fmt.Sprintf("%s-%s-%d", side, kind, len(b.plots)+len(b.dens))
}

// PlotOptions places a plan on a side panel.
type PlotOptions struct {
	// Name defaults to "<side>-plot-<n>".
	Name string
	// Size in inches. Zero asks the plan through [Sizer], then falls back
	// to DefaultSize.
	Size float64
	Pad  float64
}

// AddPlot adds a side panel rendered by plan.
func (b *Board) AddPlot(side layout.Side, plan Plan, opts PlotOptions) error {
	name := opts.Name
	if name == "" {
		name = b.nextName(side, "plot")
	}
	size, fixed := opts.Size, opts.Size > 0
	if !fixed {
		size = DefaultSize
	}
	if err := b.layout.AddAx(side, name, size, opts.Pad); err != nil {
		return err
	}
	b.plots = append(b.plots, &plot{name: name, side: side, plan: plan, fixed: fixed})
	return nil
}

// AddLayer renders plan on the main panel, after earlier layers.
func (b *Board) AddLayer(plan Plan) {
	b.layers = append(b.layers, &plot{name: b.name, side: layout.Main, plan: plan, fixed: true})
}

// AddPad adds empty space to side.
func (b *Board) AddPad(side layout.Side, size float64) error {
	return b.layout.AddPad(side, size)
}

// AddCanvas adds a side panel with no plan, for callers that draw into it
// themselves after rendering.
func (b *Board) AddCanvas(side layout.Side, name string, size, pad float64) error {
	return b.layout.AddAx(side, name, size, pad)
}

// AddLegend reserves a legend on side, measured by m before freeze.
func (b *Board) AddLegend(side layout.Side, pad float64, m layout.Measurer) error {
	if err := b.layout.AddLegend(side, pad); err != nil {
		return err
	}
	b.legend = &legend{measurer: m}
	return nil
}

// CutRows splits the rows before each index in cut.
func (b *Board) CutRows(cut []int, spacing float64) error {
	return b.cut(deform.Rows, cut, spacing)
}

// CutCols splits the columns before each index in cut.
func (b *Board) CutCols(cut []int, spacing float64) error {
	return b.cut(deform.Cols, cut, spacing)
}

func (b *Board) cut(a deform.Axis, cut []int, spacing float64) error {
	if err := b.requireData(); err != nil {
		return err
	}
	if err := validateSpacing(spacing); err != nil {
		return err
	}
	if err := b.deform.SetSplit(a, cut, nil); err != nil {
		return err
	}
	b.spacing[a] = spacing
	return nil
}

// GroupRows reorders rows by label and splits where the label changes.
// order lists the labels in display order; nil sorts the unique labels.
func (b *Board) GroupRows(labels, order []string, spacing float64) error {
	return b.group(deform.Rows, labels, order, spacing)
}

// GroupCols reorders columns by label. See [Board.GroupRows].
func (b *Board) GroupCols(labels, order []string, spacing float64) error {
	return b.group(deform.Cols, labels, order, spacing)
}

func (b *Board) group(a deform.Axis, labels, order []string, spacing float64) error {
	if err := b.requireData(); err != nil {
		return err
	}
	if err := validateSpacing(spacing); err != nil {
		return err
	}
	if err := b.deform.Group(a, labels, order); err != nil {
		return err
	}
	b.spacing[a] = spacing
	return nil
}

func validateSpacing(v float64) error {
	if err := errors.ValidateSize("spacing", v); err != nil {
		return err
	}
	if v >= 1 {
		return errors.New(errors.ErrCodeInvalidRatios, "spacing must be below 1, got %v", v)
	}
	return nil
}

// Spacing returns the chunk spacing of an axis.
func (b *Board) Spacing(a deform.Axis) float64 { return b.spacing[a] }

// Panel returns a placed panel of the board.
func (b *Board) Panel(name string) (layout.Panel, error) {
	return b.layout.GetAx(b.name, name)
}

// TransformFor returns the data of plan in display order for a panel on
// side. Statistics on the main panel follow one axis; a split of the other
// axis is a SPLIT_CONFLICT.
func (b *Board) TransformFor(side layout.Side, plan Plan) (Blocks, error) {
	data := planData(plan)
	if data == nil {
		return Blocks{}, nil
	}
	if b.deform == nil {
		return Blocks{Raw: data}, nil
	}

	switch side {
	case layout.Main:
		o, ok := plan.(Oriented)
		if !ok {
			chunks, err := b.deform.Transform(data)
			return Blocks{Chunks: chunks}, err
		}
		switch o.Orientation() {
		case Vertical:
			if b.deform.IsSplit(deform.Rows) {
				return Blocks{}, errors.New(errors.ErrCodeSplitConflict,
					"%T is oriented vertically and should only be split vertically", plan)
			}
			tracks, err := b.deform.TransformCol(data)
			return Blocks{Tracks: tracks}, err
		case Horizontal:
			if b.deform.IsSplit(deform.Cols) {
				return Blocks{}, errors.New(errors.ErrCodeSplitConflict,
					"%T is oriented horizontally and should only be split horizontally", plan)
			}
			tracks, err := b.deform.TransformRow(data)
			return Blocks{Tracks: tracks}, err
		}
		return Blocks{}, errors.New(errors.ErrCodeInvalidInput, "unknown orientation %q", o.Orientation())
	case layout.Left, layout.Right:
		tracks, err := b.deform.TransformRow(data)
		return Blocks{Tracks: tracks}, err
	case layout.Top, layout.Bottom:
		tracks, err := b.deform.TransformCol(data)
		return Blocks{Tracks: tracks}, err
	}
	return Blocks{}, errors.New(errors.ErrCodeInvalidSide, "invalid side %q", side)
}

// measure resolves the legend and sizes panels that size themselves.
func (b *Board) measure() error {
	if b.legend != nil {
		if err := b.layout.ResolveLegend(b.legend.measurer); err != nil {
			return err
		}
	}
	for _, p := range b.plots {
		if p.fixed {
			continue
		}
		s, ok := p.plan.(Sizer)
		if !ok {
			continue
		}
		if size, ok := s.CanvasSize(b.layout.MainWidth(), b.layout.MainHeight()); ok {
			if err := b.layout.SetSize(p.name, size); err != nil {
				return err
			}
		}
	}
	return nil
}

// splitPanels splits the main panel and the side panels along each split
// axis. It runs once; the layout rejects a second split.
func (b *Board) splitPanels() error {
	if b.split || b.deform == nil {
		return nil
	}
	for _, a := range []deform.Axis{deform.Rows, deform.Cols} {
		sizes, err := b.deform.ChunkSizes(a)
		if err != nil {
			return err
		}
		if sizes == nil {
			continue
		}
		ratios := make([]float64, len(sizes))
		for i, n := range sizes {
			ratios[i] = float64(n)
		}
		spacing := []float64{b.spacing[a]}
		splitMain := b.layout.VSplit
		if a == deform.Rows {
			splitMain = b.layout.HSplit
		}
		if err := splitMain(b.name, ratios, spacing, nil); err != nil {
			return err
		}
		for _, p := range b.plots {
			if p.side.Horizontal() != (a == deform.Rows) || !allowSplit(p.plan) {
				continue
			}
			var groups []float64
			if r, ok := p.plan.(Regrouper); ok {
				groups = r.SplitRegroup()
			}
			split := b.layout.VSplit
			if a == deform.Rows {
				split = b.layout.HSplit
			}
			if err := split(p.name, ratios, spacing, groups); err != nil {
				return err
			}
		}
	}
	b.split = true
	return nil
}

func (b *Board) prepare() error {
	if err := b.measure(); err != nil {
		return err
	}
	return b.splitPanels()
}

// draw renders plans into their panels, then the dendrograms.
func (b *Board) draw() error {
	for _, p := range append(append([]*plot(nil), b.plots...), b.layers...) {
		panel, err := b.Panel(p.name)
		if err != nil {
			return err
		}
		data, err := b.TransformFor(p.side, p.plan)
		if err != nil {
			return err
		}
		ctx := &RenderContext{Board: b.name, Side: p.side, Panel: panel, Data: data}
		if err := p.plan.Render(ctx); err != nil {
			return fmt.Errorf("render %s: %w", p.name, err)
		}
	}
	for _, d := range b.dens {
		if err := b.drawDendrogram(d); err != nil {
			return err
		}
	}
	b.logger.Debug("board drawn", "board", b.name, "plots", len(b.plots), "layers", len(b.layers), "dendrograms", len(b.dens))
	return nil
}

// Render measures, freezes and draws the board on s.
func (b *Board) Render(s layout.Surface, scale float64) error {
	return render(b, s, scale)
}

func (b *Board) FigureSize() (w, h float64) { return b.layout.FigureSize() }

func (b *Board) boards() []*Board     { return []*Board{b} }
func (b *Board) frame() layout.Layout { return b.layout }
func (b *Board) resolveLegend() error { return nil }
