package layout

import (
	"strconv"

	"github.com/matzehuels/crossboard/pkg/errors"
)

// Layout is implemented by [CrossLayout], [CompositeCrossLayout] and
// [StackCrossLayout].
//
// Side sizes and main sizes are relative to the layout's main panel: for a
// composite that is the main cell of its main cross layout, for a stack the
// bounding box of its elements' main cells. BBoxSize always equals the main
// size plus the side sizes on both edges.
type Layout interface {
	Name() string
	BBoxSize() (w, h float64)
	SideSize(side Side) float64
	MainWidth() float64
	MainHeight() float64
	// MainAnchor returns the bottom-left corner of the main panel.
	MainAnchor() Point
	// SetAnchor fixes the main anchor, overriding the margin-derived one.
	SetAnchor(p Point)
	// FigureSize returns the bounding box plus margins.
	FigureSize() (w, h float64)
	// Freeze sizes s to FigureSize times scale and places every canvas.
	Freeze(s Surface, scale float64) error
	// GetAx returns a placed panel. layoutName selects the cross layout
	// inside a composite or stack and may be empty for a single layout.
	GetAx(layoutName, name string) (Panel, error)

	own(owner string) error
	owner() string
	place(s Surface, fig Point) (int, error)
	layoutNames() []string
}

// Panel is a placed cell. A split cell has one region per chunk, row-major.
type Panel struct {
	Layout  string
	Name    string
	Side    Side
	Split   bool
	Regions []Region
}

// Region returns the first region, or nil for a panel without regions.
func (p Panel) Region() Region {
	if len(p.Regions) == 0 {
		return nil
	}
	return p.Regions[0]
}

// RegionKey is the surface key of a region.
func RegionKey(layout, panel string, index int) string {
	return layout + "/" + panel + "/" + strconv.Itoa(index)
}

// Option configures a layout.
type Option func(*options)

type options struct {
	margin       Margin
	noMainCanvas bool
	noAlign      bool
	name         string
}

func defaultOptions() options {
	return options{margin: DefaultMargin}
}

// WithMargin sets the figure margin.
func WithMargin(m Margin) Option {
	return func(o *options) { o.margin = m }
}

// WithoutMainCanvas makes the main cell of a cross layout a placeholder
// that takes space but is not placed on the surface.
func WithoutMainCanvas() Option {
	return func(o *options) { o.noMainCanvas = true }
}

// WithoutAlignment keeps the main sizes of layouts appended to a composite.
// By default they take the main layout's height (left, right) or width
// (top, bottom).
func WithoutAlignment() Option {
	return func(o *options) { o.noAlign = true }
}

// WithName names a stack. Stacks are otherwise named after a random id.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

func buildOptions(opts []Option) (options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.margin.validate(); err != nil {
		return o, err
	}
	return o, nil
}

// ownership tracks the composite or stack a layout was embedded into.
type ownership struct {
	by string
}

func (o *ownership) take(name, owner string) error {
	if o.by != "" {
		return errors.New(errors.ErrCodeAppendLayout, "layout %q is already part of %q", name, o.by)
	}
	o.by = owner
	return nil
}

func (o *ownership) owner() string { return o.by }

func validateScale(scale float64) error {
	if err := errors.ValidateSize("scale", scale); err != nil {
		return err
	}
	if scale == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive")
	}
	return nil
}

func freezeOwned(name, by string) error {
	return errors.New(errors.ErrCodeInvalidInput, "layout %q is part of %q, freeze %q instead", name, by, by)
}
