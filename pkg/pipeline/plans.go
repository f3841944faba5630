package pipeline

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/crossboard/pkg/board"
	"github.com/matzehuels/crossboard/pkg/errors"
	"github.com/matzehuels/crossboard/pkg/layout"
	"github.com/matzehuels/crossboard/pkg/render/svg"
)

// Text metrics used to size label panels and legends, in inches at 8pt.
const (
	charWidth  = 0.07
	lineHeight = 0.16
	swatchSize = 0.12
	textGap    = 0.05
)

// painter is implemented by surfaces that can draw shapes. Surfaces that
// only record geometry, like layout.Recorder, skip drawing.
type painter interface {
	FillRect(x, y, w, h float64, fill, class string)
	Text(x, y float64, s string, opts svg.TextOptions)
}

// regionPainters returns the painters of a panel, or nil when the surface
// does not draw.
func regionPainters(p layout.Panel) []painter {
	out := make([]painter, 0, len(p.Regions))
	for _, r := range p.Regions {
		pt, ok := r.(painter)
		if !ok {
			return nil
		}
		out = append(out, pt)
	}
	return out
}

// heatmapPlan colors each cell of the main panel by value.
type heatmapPlan struct {
	data   *mat.Dense
	lo, hi float64
}

func newHeatmap(data *mat.Dense) *heatmapPlan {
	raw := data.RawMatrix().Data
	return &heatmapPlan{data: data, lo: slices.Min(raw), hi: slices.Max(raw)}
}

func (p *heatmapPlan) Data() mat.Matrix { return p.data }

func (p *heatmapPlan) Render(ctx *board.RenderContext) error {
	painters := regionPainters(ctx.Panel)
	if painters == nil {
		return nil
	}
	var blocks []*mat.Dense
	switch {
	case ctx.Data.Chunks != nil:
		blocks = ctx.Data.Chunks.Flatten()
	case ctx.Data.Raw != nil:
		blocks = []*mat.Dense{mat.DenseCopyOf(ctx.Data.Raw)}
	}
	if len(blocks) != len(painters) {
		return errors.New(errors.ErrCodeInternal, "heatmap has %d blocks for %d regions", len(blocks), len(painters))
	}
	for i, b := range blocks {
		r, c := b.Dims()
		for row := 0; row < r; row++ {
			for col := 0; col < c; col++ {
				painters[i].FillRect(float64(col)/float64(c), 1-float64(row+1)/float64(r),
					1/float64(c), 1/float64(r), sequential(p.scale(b.At(row, col))), "cell")
			}
		}
	}
	return nil
}

func (p *heatmapPlan) scale(v float64) float64 {
	if p.hi == p.lo {
		return 0.5
	}
	return (v - p.lo) / (p.hi - p.lo)
}

// track is a side plan with one value per item of the axis it follows.
// Items run top to bottom on left and right panels and left to right on
// top and bottom panels.
type track struct {
	side   layout.Side
	values *mat.Dense
}

func newTrack(side layout.Side, values []float64) track {
	return track{side: side, values: mat.NewDense(1, len(values), slices.Clone(values))}
}

func (t track) Data() mat.Matrix { return t.values }

// chunks pairs each painter with its slice of values.
func (t track) chunks(ctx *board.RenderContext) ([]painter, [][]float64, error) {
	painters := regionPainters(ctx.Panel)
	if painters == nil {
		return nil, nil, nil
	}
	var vals [][]float64
	switch {
	case ctx.Data.Tracks != nil:
		for _, b := range ctx.Data.Tracks {
			vals = append(vals, mat.Row(nil, 0, b))
		}
	case ctx.Data.Raw != nil:
		vals = [][]float64{mat.Row(nil, 0, ctx.Data.Raw)}
	}
	if len(vals) != len(painters) {
		return nil, nil, errors.New(errors.ErrCodeInternal, "%s panel has %d chunks for %d regions",
			ctx.Side, len(vals), len(painters))
	}
	return painters, vals, nil
}

// slot returns the cell of item i of n along the panel, as (x, y, w, h).
func (t track) slot(i, n int) (x, y, w, h float64) {
	f := 1 / float64(n)
	if t.side.Horizontal() {
		return 0, 1 - float64(i+1)*f, 1, f
	}
	return float64(i) * f, 0, f, 1
}

// barsPlan draws one bar per item, growing away from the main panel.
type barsPlan struct {
	track
	max float64
}

func newBars(side layout.Side, values []float64) *barsPlan {
	m := 0.0
	for _, v := range values {
		m = math.Max(m, v)
	}
	return &barsPlan{track: newTrack(side, values), max: m}
}

func (p *barsPlan) Render(ctx *board.RenderContext) error {
	painters, vals, err := p.chunks(ctx)
	if err != nil || painters == nil {
		return err
	}
	for ci, vs := range vals {
		for i, v := range vs {
			l := 0.0
			if p.max > 0 {
				l = math.Max(0, v) / p.max
			}
			x, y, w, h := p.slot(i, len(vs))
			switch p.side {
			case layout.Left:
				x, w = 1-l, l
			case layout.Right:
				w = l
			case layout.Top:
				h = l
			case layout.Bottom:
				y, h = 1-l, l
			}
			// Leave a hairline between neighboring bars.
			if p.side.Horizontal() {
				y, h = y+h*0.1, h*0.8
			} else {
				x, w = x+w*0.1, w*0.8
			}
			painters[ci].FillRect(x, y, w, h, palette[0], "bar")
		}
	}
	return nil
}

// categoryIndex assigns figure-wide codes to category names in order of
// first appearance, so a category has the same color on every panel.
type categoryIndex struct {
	names []string
	index map[string]int
}

func newCategoryIndex() *categoryIndex {
	return &categoryIndex{index: make(map[string]int)}
}

func (c *categoryIndex) code(name string) int {
	code, ok := c.index[name]
	if !ok {
		code = len(c.names)
		c.index[name] = code
		c.names = append(c.names, name)
	}
	return code
}

// colorsPlan draws one colored cell per item by category.
type colorsPlan struct {
	track
	names []string
}

func newColors(side layout.Side, labels []string, cats *categoryIndex) *colorsPlan {
	codes := make([]float64, len(labels))
	var names []string
	for i, l := range labels {
		codes[i] = float64(cats.code(l))
		if !slices.Contains(names, l) {
			names = append(names, l)
		}
	}
	return &colorsPlan{track: newTrack(side, codes), names: names}
}

func (p *colorsPlan) Render(ctx *board.RenderContext) error {
	painters, vals, err := p.chunks(ctx)
	if err != nil || painters == nil {
		return err
	}
	for ci, vs := range vals {
		for i, code := range vs {
			x, y, w, h := p.slot(i, len(vs))
			painters[ci].FillRect(x, y, w, h, categoryColor(int(code)), "category")
		}
	}
	return nil
}

// labelsPlan writes one label per item and sizes its panel to the longest
// label.
type labelsPlan struct {
	track
	labels []string
}

func newLabels(side layout.Side, labels []string) *labelsPlan {
	idx := make([]float64, len(labels))
	for i := range idx {
		idx[i] = float64(i)
	}
	return &labelsPlan{track: newTrack(side, idx), labels: labels}
}

func (p *labelsPlan) CanvasSize(_, _ float64) (float64, bool) {
	n := 0
	for _, l := range p.labels {
		n = max(n, len([]rune(l)))
	}
	if n == 0 {
		return 0, false
	}
	return float64(n)*charWidth + textGap, true
}

func (p *labelsPlan) Render(ctx *board.RenderContext) error {
	painters, vals, err := p.chunks(ctx)
	if err != nil || painters == nil {
		return err
	}
	for ci, vs := range vals {
		for i, ix := range vs {
			x, y, w, h := p.slot(i, len(vs))
			cx, cy := x+w/2, y+h/2
			opts := svg.TextOptions{Class: "label"}
			switch p.side {
			case layout.Left:
				cx, opts.Anchor = 0.95, svg.AnchorEnd
			case layout.Right:
				cx, opts.Anchor = 0.05, svg.AnchorStart
			case layout.Top:
				cy, opts.Anchor, opts.Rotate = 0.05, svg.AnchorStart, 90
			case layout.Bottom:
				cy, opts.Anchor, opts.Rotate = 0.95, svg.AnchorEnd, 90
			}
			painters[ci].Text(cx, cy, p.labels[int(ix)], opts)
		}
	}
	return nil
}

// legendContent lists categories with their colors.
type legendContent struct {
	title string
	names []string
	cats  *categoryIndex
}

func (l *legendContent) add(names []string) {
	for _, n := range names {
		if !slices.Contains(l.names, n) {
			l.names = append(l.names, n)
		}
	}
}

func (l *legendContent) entries() []string {
	if l.title == "" {
		return l.names
	}
	return append([]string{l.title}, l.names...)
}

// Measure implements layout.Measurer. Entries stack vertically on left and
// right legends and run in one line on top and bottom legends.
func (l *legendContent) Measure(side layout.Side) (float64, error) {
	if side.Horizontal() {
		n := 0
		for _, e := range l.entries() {
			n = max(n, len([]rune(e)))
		}
		return swatchSize + textGap + float64(n)*charWidth, nil
	}
	return lineHeight + textGap, nil
}

// draw writes the entries into the legend panel.
func (l *legendContent) draw(p layout.Panel, figW, figH float64) {
	painters := regionPainters(p)
	if len(painters) == 0 {
		return
	}
	pt := painters[0]
	b := p.Regions[0].Bounds()
	// Region-local lengths per inch.
	du, dv := 1/(b.W*figW), 1/(b.H*figH)

	x, y := 0.0, 1-dv*lineHeight/2
	step := func(e string) {
		if p.Side.Horizontal() {
			y -= dv * lineHeight
		} else {
			x += du * (swatchSize + 2*textGap + float64(len([]rune(e)))*charWidth)
		}
	}
	if l.title != "" {
		pt.Text(x, y, l.title, svg.TextOptions{Class: "legend-title"})
		step(l.title)
	}
	for _, name := range l.names {
		pt.FillRect(x, y-dv*swatchSize/2, du*swatchSize, dv*swatchSize, categoryColor(l.cats.code(name)), "legend-swatch")
		pt.Text(x+du*(swatchSize+textGap), y, name, svg.TextOptions{Class: "legend-label"})
		step(name)
	}
}

var (
	_ board.DataPlan = (*heatmapPlan)(nil)
	_ board.DataPlan = (*barsPlan)(nil)
	_ board.DataPlan = (*colorsPlan)(nil)
	_ board.DataPlan = (*labelsPlan)(nil)
	_ board.Sizer    = (*labelsPlan)(nil)
)
