package dendrogram

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/crossboard/pkg/cluster"
	"github.com/matzehuels/crossboard/pkg/errors"
)

// CentroidFunc summarizes the rows of a chunk into one vector for the meta tree.
type CentroidFunc func(data mat.Matrix) []float64

// Option configures [New] and [NewGroup].
type Option func(*config)

type config struct {
	linkage  mat.Matrix
	centroid CentroidFunc
}

// WithLinkage uses a precomputed linkage matrix instead of clustering.
func WithLinkage(z mat.Matrix) Option {
	return func(c *config) { c.linkage = z }
}

// WithCentroid replaces the column mean used as the tree's centroid.
func WithCentroid(f CentroidFunc) Option {
	return func(c *config) { c.centroid = f }
}

// Dendrogram is the cluster tree of the rows of one matrix.
type Dendrogram struct {
	z         *mat.Dense
	leaves    []int
	x, y      [][4]float64
	xlim      [2]float64
	ylim      [2]float64
	center    []float64
	singleton bool
}

// New clusters the rows of data. A single row is not clustered.
// method and metric must be compatible (see [cluster.Method.RequiresEuclidean]).
func New(data mat.Matrix, method cluster.Method, metric cluster.Metric, opts ...Option) (*Dendrogram, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	r, c := data.Dims()
	if r == 0 || c == 0 {
		return nil, errors.New(errors.ErrCodeDataShape, "cannot cluster an empty %dx%d matrix", r, c)
	}

	d := &Dendrogram{}
	if r == 1 {
		d.singleton = true
		d.leaves = []int{0}
		d.x = [][4]float64{{1, 1, 1, 1}}
		d.y = [][4]float64{{0, .75, .75, 0}}
	} else {
		var z *mat.Dense
		if cfg.linkage != nil {
			if err := cluster.ValidateLinkage(cfg.linkage, r); err != nil {
				return nil, err
			}
			z = mat.DenseCopyOf(cfg.linkage)
		} else {
			var err error
			if z, err = cluster.Linkage(data, method, metric); err != nil {
				return nil, err
			}
		}
		d.z = z
		tree := cluster.Walk(z)
		d.leaves = tree.Leaves
		d.x = make([][4]float64, len(tree.Icoord))
		for i, seg := range tree.Icoord {
			for j := range seg {
				d.x[i][j] = seg[j] / 5
			}
		}
		d.y = normalizeHeights(tree.Dcoord)
	}

	var maxY float64
	for _, seg := range d.y {
		maxY = max(maxY, seg[0], seg[1], seg[2], seg[3])
	}
	d.xlim = [2]float64{0, float64(2 * len(d.leaves))}
	d.ylim = [2]float64{0, maxY * 1.05}

	if cfg.centroid != nil {
		d.center = cfg.centroid(data)
	} else {
		d.center = columnMeans(data)
	}
	return d, nil
}

// FromLinkage builds a dendrogram from a precomputed linkage matrix.
// data is only used for the centroid.
func FromLinkage(z, data mat.Matrix, opts ...Option) (*Dendrogram, error) {
	return New(data, cluster.DefaultMethod, cluster.DefaultMetric, append(opts, WithLinkage(z))...)
}

// normalizeHeights maps nonzero heights to [0.2, 1.2], keeping leaves at 0.
func normalizeHeights(dcoord [][4]float64) [][4]float64 {
	lo, hi := 0.0, 0.0
	found := false
	for _, seg := range dcoord {
		for _, v := range seg {
			if v == 0 {
				continue
			}
			if !found {
				lo, hi, found = v, v, true
				continue
			}
			lo, hi = min(lo, v), max(hi, v)
		}
	}
	out := make([][4]float64, len(dcoord))
	for i, seg := range dcoord {
		for j, v := range seg {
			switch {
			case v == 0:
			case hi == lo:
				out[i][j] = 1.2
			default:
				out[i][j] = (v-lo)/(hi-lo) + .2
			}
		}
	}
	return out
}

func columnMeans(data mat.Matrix) []float64 {
	_, c := data.Dims()
	out := make([]float64, c)
	for j := range out {
		out[j] = stat.Mean(mat.Col(nil, j, data), nil)
	}
	return out
}

// Leaves returns the leaf order: row indices from first to last drawn.
func (d *Dendrogram) Leaves() []int { return append([]int(nil), d.leaves...) }

// LeafCount returns the number of rows.
func (d *Dendrogram) LeafCount() int { return len(d.leaves) }

// Linkage returns a copy of the linkage matrix, or nil for a singleton.
func (d *Dendrogram) Linkage() *mat.Dense {
	if d.z == nil {
		return nil
	}
	return mat.DenseCopyOf(d.z)
}

// IsSingleton reports whether the tree was built from a single row.
func (d *Dendrogram) IsSingleton() bool { return d.singleton }

// Center returns the centroid used by meta trees.
func (d *Dendrogram) Center() []float64 { return append([]float64(nil), d.center...) }

// XLim returns the x range of the tree, [0, 2n].
func (d *Dendrogram) XLim() [2]float64 { return d.xlim }

// YLim returns the height range of the tree, [0, 1.05·max].
func (d *Dendrogram) YLim() [2]float64 { return d.ylim }

func (d *Dendrogram) xrange() float64 { return d.xlim[1] - d.xlim[0] }
func (d *Dendrogram) yrange() float64 { return d.ylim[1] - d.ylim[0] }

// Segments returns copies of the U segments. The last one is the root.
func (d *Dendrogram) Segments() (x, y [][4]float64) {
	return append([][4]float64(nil), d.x...), append([][4]float64(nil), d.y...)
}

// Root returns the top of the tree.
func (d *Dendrogram) Root() (x, y float64) {
	return rootOf(d.x[len(d.x)-1], d.y[len(d.y)-1])
}

func rootOf(xc, yc [4]float64) (float64, float64) {
	return (xc[2]-xc[1])/2 + xc[1], yc[1]
}

// Draw returns the tree segments and, with AddRoot, a stub from the root to
// the far edge of the panel.
func (d *Dendrogram) Draw(o Orient, opts DrawOptions) (Drawing, error) {
	cv := newCanvas(o, d.xlim[1], d.ylim[1])
	out := Drawing{Orient: o, Lines: cv.segments(KindBase, -1, d.x, d.y)}
	if opts.AddRoot {
		rx, ry := d.Root()
		out.Lines = append(out.Lines, cv.line(KindRoot, -1, []float64{rx, rx}, []float64{ry, cv.ymax}))
	}
	return out, nil
}
