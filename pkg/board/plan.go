package board

import (
	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/crossboard/pkg/deform"
	"github.com/matzehuels/crossboard/pkg/layout"
)

// Plan draws a chart into a board panel. Charts are not part of this
// module; the board only hands them their panel and data.
type Plan interface {
	Render(ctx *RenderContext) error
}

// RenderContext is what a [Plan] receives at draw time.
type RenderContext struct {
	Board string
	Side  layout.Side
	Panel layout.Panel
	Data  Blocks
}

// Blocks is plan data in display order.
type Blocks struct {
	// Chunks is set for plans on the main panel.
	Chunks *deform.Chunks
	// Tracks is set for side plans and oriented statistics, one block per
	// chunk of the axis the plan follows.
	Tracks []*mat.Dense
	// Raw is the data as given when the board has no deformation.
	Raw mat.Matrix
}

// DataPlan is a [Plan] with data aligned to the board matrix. Main panel
// plans carry an R×C matrix. Plans on the left and right carry k×R tracks,
// plans on the top and bottom k×C tracks.
type DataPlan interface {
	Plan
	Data() mat.Matrix
}

// Sizer is implemented by plans that size their own panel. CanvasSize is
// called before freeze for panels added without a size.
type Sizer interface {
	CanvasSize(mainW, mainH float64) (size float64, ok bool)
}

// Regrouper is implemented by side plans that show fewer groups than the
// axis has chunks. The ratios merge consecutive chunks of the split.
type Regrouper interface {
	SplitRegroup() []float64
}

// Splitter is implemented by side plans that opt out of chunk splitting.
type Splitter interface {
	AllowSplit() bool
}

// Orientation is the direction statistics run in.
type Orientation string

const (
	// Horizontal statistics have one value per row.
	Horizontal Orientation = "h"
	// Vertical statistics have one value per column.
	Vertical Orientation = "v"
)

// Oriented is implemented by statistics plans. On the main panel they
// follow one axis only and cannot be drawn when the other axis is split.
type Oriented interface {
	Orientation() Orientation
}

func allowSplit(p Plan) bool {
	if s, ok := p.(Splitter); ok {
		return s.AllowSplit()
	}
	return true
}

func planData(p Plan) mat.Matrix {
	if dp, ok := p.(DataPlan); ok {
		return dp.Data()
	}
	return nil
}
