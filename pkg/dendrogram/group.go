package dendrogram

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/crossboard/pkg/cluster"
	"github.com/matzehuels/crossboard/pkg/errors"
)

// DefaultMetaRatio is the height of the meta tree relative to the chunk trees.
const DefaultMetaRatio = 0.2

// Group is a meta tree over the dendrograms of the chunks of a split matrix.
type Group struct {
	dens    []*Dendrogram
	meta    *Dendrogram
	denXLim float64
	denYLim float64
	divider float64
}

// NewGroup clusters the centroids of dens. WithLinkage supplies the meta
// linkage; WithCentroid is ignored because the children already carry theirs.
func NewGroup(dens []*Dendrogram, method cluster.Method, metric cluster.Metric, opts ...Option) (*Group, error) {
	if len(dens) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "group needs at least one dendrogram")
	}
	width := len(dens[0].center)
	centers := mat.NewDense(len(dens), width, nil)
	for i, d := range dens {
		if len(d.center) != width {
			return nil, errors.New(errors.ErrCodeDataShape,
				"dendrogram %d centroid has %d values, want %d", i, len(d.center), width)
		}
		centers.SetRow(i, d.center)
	}

	var metaOpts []Option
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.linkage != nil {
		metaOpts = append(metaOpts, WithLinkage(cfg.linkage))
	}
	meta, err := New(centers, method, metric, metaOpts...)
	if err != nil {
		return nil, err
	}

	g := &Group{dens: slices.Clone(dens), meta: meta}
	for _, d := range dens {
		g.denXLim += d.xrange()
		g.denYLim = max(g.denYLim, d.yrange())
	}
	g.divider = g.denYLim * 1.05
	return g, nil
}

// Len returns the number of chunks.
func (g *Group) Len() int { return len(g.dens) }

// Dendrograms returns the chunk trees in their original order.
func (g *Group) Dendrograms() []*Dendrogram { return slices.Clone(g.dens) }

// Meta returns the tree over chunk centroids.
func (g *Group) Meta() *Dendrogram { return g.meta }

// Order returns the chunk order chosen by the meta tree.
func (g *Group) Order() []int { return g.meta.Leaves() }

// Linkage returns the meta linkage matrix, or nil for a single chunk.
func (g *Group) Linkage() *mat.Dense { return g.meta.Linkage() }

// LeafCount returns the total number of rows across chunks.
func (g *Group) LeafCount() int {
	n := 0
	for _, d := range g.dens {
		n += d.LeafCount()
	}
	return n
}

// Divider returns the height that separates chunk trees from the meta tree.
func (g *Group) Divider() float64 { return g.divider }

// GroupOptions controls how a [Group] is arranged.
type GroupOptions struct {
	// Spacing is the gap between chunks as a fraction of the panel length.
	// One value is applied to every gap; otherwise one per gap.
	Spacing []float64
	// SkipMeta hides the meta tree. Chunks keep their original order.
	SkipMeta bool
	// SkipBase hides the chunk trees and spreads the meta leaves instead.
	SkipBase bool
	// NoDivider hides the line between meta and chunk trees.
	NoDivider bool
	// MetaRatio is the meta tree height relative to the chunk trees.
	// Zero selects DefaultMetaRatio.
	MetaRatio float64
}

// Placement is one chunk tree moved into the shared coordinate space.
type Placement struct {
	Chunk     int
	X, Y      [][4]float64
	RootX     float64
	RootY     float64
	Singleton bool
}

// Arrangement is the shared coordinate space of a [Group].
type Arrangement struct {
	// Order is the chunk draw order.
	Order []int
	// Base holds the chunk trees in draw order. Empty with SkipBase.
	Base []Placement
	// MetaX and MetaY are the remapped meta segments.
	MetaX, MetaY [][4]float64
	// Divider is the height of the divider line; DividerFrom and DividerTo
	// its extent. All zero when no divider is drawn.
	Divider     float64
	DividerFrom float64
	DividerTo   float64
	// Ceiling is the height root stubs of chunk trees extend to.
	Ceiling float64
	// XLim and YLim bound every coordinate above.
	XLim, YLim [2]float64
	opts       GroupOptions
}

func (g *Group) spacing(s []float64) ([]float64, error) {
	gaps := len(g.dens) - 1
	out := make([]float64, gaps)
	switch {
	case len(s) == 0:
	case len(s) == 1:
		for i := range out {
			out[i] = s[0]
		}
	case len(s) == gaps:
		copy(out, s)
	default:
		return nil, errors.New(errors.ErrCodeInvalidRatios,
			"%d chunks need 1 or %d spacing values, got %d", len(g.dens), gaps, len(s))
	}
	var total float64
	for _, v := range out {
		if v < 0 {
			return nil, errors.New(errors.ErrCodeInvalidRatios, "spacing cannot be negative, got %v", v)
		}
		total += v
	}
	if total >= 1 {
		return nil, errors.New(errors.ErrCodeInvalidRatios, "total spacing %v leaves no room for chunks", total)
	}
	return out, nil
}

// Arrange places the chunk trees side by side and remaps the meta tree onto
// their roots. The group and its children are not modified.
func (g *Group) Arrange(opts GroupOptions) (*Arrangement, error) {
	spacing, err := g.spacing(opts.Spacing)
	if err != nil {
		return nil, err
	}
	if opts.MetaRatio == 0 {
		opts.MetaRatio = DefaultMetaRatio
	}
	var sumSpacing float64
	for _, s := range spacing {
		sumSpacing += s
	}
	renderX := g.denXLim / (1 - sumSpacing)

	a := &Arrangement{opts: opts, Ceiling: g.divider}
	if opts.SkipMeta {
		a.Order = make([]int, len(g.dens))
		for i := range a.Order {
			a.Order[i] = i
		}
	} else {
		a.Order = g.Order()
	}

	skeletonX := make([]float64, 0, len(g.dens))
	if !opts.SkipBase {
		var xStart float64
		for i, ci := range a.Order {
			d := g.dens[ci]
			p := Placement{Chunk: ci, X: make([][4]float64, len(d.x)), Y: slices.Clone(d.y), Singleton: d.singleton}
			for s, seg := range d.x {
				for j := range seg {
					p.X[s][j] = seg[j] + xStart
				}
			}
			p.RootX, p.RootY = rootOf(p.X[len(p.X)-1], p.Y[len(p.Y)-1])
			a.Base = append(a.Base, p)
			skeletonX = append(skeletonX, p.RootX)
			if i < len(spacing) {
				xStart += d.xrange() + spacing[i]*renderX
			}
		}
	} else {
		var x float64
		for i, ci := range a.Order {
			half := g.dens[ci].xrange() / 2
			if i == 0 {
				x += half
			} else {
				x += half + spacing[i-1]*renderX
			}
			skeletonX = append(skeletonX, x)
			x += half
		}
	}

	if a.MetaX, err = g.remapMeta(skeletonX); err != nil {
		return nil, err
	}
	a.MetaY = make([][4]float64, len(g.meta.y))
	var maxY float64
	for i, seg := range g.meta.y {
		for j, v := range seg {
			switch {
			case opts.SkipBase:
				v /= 5
			case opts.SkipMeta:
				v = g.denYLim
			default:
				v = v*(g.denYLim*opts.MetaRatio) + g.divider
			}
			a.MetaY[i][j] = v
			maxY = max(maxY, v)
		}
	}

	if !opts.NoDivider && !opts.SkipBase && !opts.SkipMeta {
		first, last := a.Base[0], a.Base[len(a.Base)-1]
		a.Divider = g.divider
		a.DividerFrom = minX(g.dens[first.Chunk].x)
		a.DividerTo = maxX(last.X)
	}

	a.XLim = [2]float64{0, renderX}
	a.YLim = [2]float64{0, maxY * 1.05}
	return a, nil
}

// remapMeta moves meta leaves onto skeletonX and interpolates the
// x values between them. Meta leaf i sits at x = 2i+1; merge tops never
// count as leaves, even at zero height.
func (g *Group) remapMeta(skeletonX []float64) ([][4]float64, error) {
	n := g.meta.LeafCount()
	if len(skeletonX) != n {
		return nil, errors.New(errors.ErrCodeInternal,
			"meta tree has %d leaves for %d chunk positions", n, len(skeletonX))
	}

	at := func(x float64) (float64, error) {
		pos := (x - 1) / 2
		if pos < 0 || pos > float64(n-1) {
			return 0, errors.New(errors.ErrCodeInternal, "meta coordinate %v outside leaf range", x)
		}
		k := int(math.Floor(pos))
		if k == n-1 {
			return skeletonX[k], nil
		}
		ratio := pos - float64(k)
		return skeletonX[k] + (skeletonX[k+1]-skeletonX[k])*ratio, nil
	}

	out := make([][4]float64, len(g.meta.x))
	for i, seg := range g.meta.x {
		for j, v := range seg {
			x, err := at(v)
			if err != nil {
				return nil, err
			}
			out[i][j] = x
		}
	}
	return out, nil
}

func minX(xs [][4]float64) float64 {
	m := xs[0][0]
	for _, seg := range xs {
		m = min(m, seg[0], seg[1], seg[2], seg[3])
	}
	return m
}

func maxX(xs [][4]float64) float64 {
	m := xs[0][0]
	for _, seg := range xs {
		m = max(m, seg[0], seg[1], seg[2], seg[3])
	}
	return m
}

// Draw arranges the group with opts.Group and returns meta lines, chunk
// lines, root stubs and the divider. Singleton chunks are only drawn under
// a meta tree.
func (g *Group) Draw(o Orient, opts DrawOptions) (Drawing, error) {
	a, err := g.Arrange(opts.Group)
	if err != nil {
		return Drawing{}, err
	}
	return a.Draw(o), nil
}

// Draw converts the arrangement to panel space.
func (a *Arrangement) Draw(o Orient) Drawing {
	cv := newCanvas(o, a.XLim[1], a.YLim[1])
	out := Drawing{Orient: o}
	showMeta := !a.opts.SkipMeta
	if showMeta {
		out.Lines = append(out.Lines, cv.segments(KindMeta, -1, a.MetaX, a.MetaY)...)
	}
	if a.Divider > 0 {
		out.Lines = append(out.Lines, cv.line(KindDivider, -1,
			[]float64{a.DividerFrom, a.DividerTo}, []float64{a.Divider, a.Divider}))
	}
	for _, p := range a.Base {
		if p.Singleton && !showMeta {
			continue
		}
		out.Lines = append(out.Lines, cv.segments(KindBase, p.Chunk, p.X, p.Y)...)
		if showMeta {
			out.Lines = append(out.Lines, cv.line(KindRoot, p.Chunk,
				[]float64{p.RootX, p.RootX}, []float64{p.RootY, a.Ceiling}))
		}
	}
	return out
}
