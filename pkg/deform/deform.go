package deform

import (
	"slices"
	"sort"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/crossboard/pkg/cluster"
	"github.com/matzehuels/crossboard/pkg/dendrogram"
	"github.com/matzehuels/crossboard/pkg/errors"
	"github.com/matzehuels/crossboard/pkg/observability"
)

// Deformation holds the row and column order of one matrix.
type Deformation struct {
	data   *mat.Dense
	rows   *axis
	cols   *axis
	logger *log.Logger
}

// Option configures a Deformation.
type Option func(*Deformation)

// WithLogger sets the logger for clustering events. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(d *Deformation) {
		if l != nil {
			d.logger = l
		}
	}
}

// ClusterOptions configures clustering of one axis.
type ClusterOptions struct {
	// Method and Metric default to single and euclidean.
	Method cluster.Method
	Metric cluster.Metric
	// KeepChunkOrder clusters inside each chunk but does not reorder the
	// chunks by the meta tree.
	KeepChunkOrder bool
	// Linkage replaces clustering of an unsplit axis.
	Linkage mat.Matrix
	// ChunkLinkage replaces clustering of a split axis, keyed by chunk key.
	// Every chunk with more than one item needs an entry.
	ChunkLinkage map[string]mat.Matrix
	// MetaLinkage replaces clustering of the chunk centroids.
	MetaLinkage mat.Matrix
	// Centroid summarizes each chunk for the meta tree.
	Centroid dendrogram.CentroidFunc
}

// New creates a Deformation for data. The matrix is copied.
func New(data mat.Matrix, opts ...Option) (*Deformation, error) {
	r, c := data.Dims()
	if r == 0 || c == 0 {
		return nil, errors.New(errors.ErrCodeDataShape, "cannot deform an empty %dx%d matrix", r, c)
	}
	d := &Deformation{
		data:   mat.DenseCopyOf(data),
		rows:   newAxis(Rows, r),
		cols:   newAxis(Cols, c),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Dims returns the shape of the matrix.
func (d *Deformation) Dims() (r, c int) { return d.rows.n, d.cols.n }

func (d *Deformation) axis(a Axis) *axis {
	if a == Cols {
		return d.cols
	}
	return d.rows
}

// SetReindex applies an explicit permutation to an axis.
func (d *Deformation) SetReindex(a Axis, perm []int) error {
	ax := d.axis(a)
	if err := errors.ValidatePermutation(perm, ax.n); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidReindex, err, "%s reindex", a)
	}
	ax.reindex = slices.Clone(perm)
	ax.invalidate()
	return nil
}

// SetRowReindex applies an explicit row permutation.
func (d *Deformation) SetRowReindex(perm []int) error { return d.SetReindex(Rows, perm) }

// SetColReindex applies an explicit column permutation.
func (d *Deformation) SetColReindex(perm []int) error { return d.SetReindex(Cols, perm) }

// SetSplit splits an axis at breakpoints. keys name the chunks and default
// to "0", "1", ... An axis can only be split once.
func (d *Deformation) SetSplit(a Axis, breakpoints []int, keys []string) error {
	ax := d.axis(a)
	if ax.split() {
		return errors.New(errors.ErrCodeSplitTwice, "%s axis is already split", a)
	}
	bps := slices.Clone(breakpoints)
	sort.Ints(bps)
	if err := errors.ValidateBreakpoints(bps, ax.n); err != nil {
		return err
	}
	if keys != nil {
		if len(keys) != len(bps)+1 {
			return errors.New(errors.ErrCodeInvalidInput, "%d chunks need %d keys, got %d", len(bps)+1, len(bps)+1, len(keys))
		}
		if err := uniqueKeys(keys); err != nil {
			return err
		}
	}
	ax.bounds = append(append([]int{0}, bps...), ax.n)
	ax.keys = slices.Clone(keys)
	ax.invalidate()
	return nil
}

// SetSplitRow splits the rows.
func (d *Deformation) SetSplitRow(breakpoints []int, keys []string) error {
	return d.SetSplit(Rows, breakpoints, keys)
}

// SetSplitCol splits the columns.
func (d *Deformation) SetSplitCol(breakpoints []int, keys []string) error {
	return d.SetSplit(Cols, breakpoints, keys)
}

func uniqueKeys(keys []string) error {
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			return errors.New(errors.ErrCodeDuplicateName, "chunk key %q used twice", k)
		}
		seen[k] = true
	}
	return nil
}

// Group reorders an axis so equal labels are adjacent, following order,
// and splits it where the label changes. Chunk keys are the labels.
// A nil order uses the sorted unique labels.
func (d *Deformation) Group(a Axis, labels, order []string) error {
	ax := d.axis(a)
	if ax.split() {
		return errors.New(errors.ErrCodeSplitTwice, "%s axis is already split", a)
	}
	if len(labels) != ax.n {
		return errors.New(errors.ErrCodeDataShape, "got %d %s labels for %d items", len(labels), a, ax.n)
	}
	reindex, keys, err := ReorderIndex(labels, order)
	if err != nil {
		return err
	}
	ordered := make([]string, len(reindex))
	for i, ix := range reindex {
		ordered[i] = labels[ix]
	}
	ax.reindex = reindex
	ax.bounds = append(append([]int{0}, Breakpoints(ordered)...), ax.n)
	ax.keys = keys
	ax.invalidate()
	return nil
}

// GroupRows groups rows by label.
func (d *Deformation) GroupRows(labels, order []string) error { return d.Group(Rows, labels, order) }

// GroupCols groups columns by label.
func (d *Deformation) GroupCols(labels, order []string) error { return d.Group(Cols, labels, order) }

// SetChunkOrder sets the display order of chunks when the meta tree does
// not decide it. order is a permutation of chunk indices.
func (d *Deformation) SetChunkOrder(a Axis, order []int) error {
	ax := d.axis(a)
	if !ax.split() {
		return errors.New(errors.ErrCodeInvalidInput, "%s axis is not split", a)
	}
	if err := errors.ValidatePermutation(order, ax.chunkCount()); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s chunk order", a)
	}
	ax.chunkOrder = slices.Clone(order)
	return nil
}

// SetRowChunkOrder sets the row chunk order.
func (d *Deformation) SetRowChunkOrder(order []int) error { return d.SetChunkOrder(Rows, order) }

// SetColChunkOrder sets the column chunk order.
func (d *Deformation) SetColChunkOrder(order []int) error { return d.SetChunkOrder(Cols, order) }

// SetCluster requests clustering of an axis. Nothing is computed until the
// order is read.
func (d *Deformation) SetCluster(a Axis, opts ClusterOptions) error {
	method, err := cluster.ParseMethod(string(opts.Method))
	if err != nil {
		return err
	}
	metric, err := cluster.ParseMetric(string(opts.Metric))
	if err != nil {
		return err
	}
	if method.RequiresEuclidean() && metric != cluster.Euclidean {
		d.logger.Warn("metric substituted", "axis", a.String(), "method", method,
			"requested", metric, "used", cluster.Euclidean)
		observability.Cluster().OnSubstitution(a.String(), string(method), string(metric), string(cluster.Euclidean))
		metric = cluster.Euclidean
	}
	opts.Method, opts.Metric = method, metric
	d.axis(a).state = pending{opts: opts}
	return nil
}

// SetRowCluster requests row clustering.
func (d *Deformation) SetRowCluster(opts ClusterOptions) error { return d.SetCluster(Rows, opts) }

// SetColCluster requests column clustering.
func (d *Deformation) SetColCluster(opts ClusterOptions) error { return d.SetCluster(Cols, opts) }

// ClearCluster removes clustering from an axis.
func (d *Deformation) ClearCluster(a Axis) { d.axis(a).state = unclustered{} }

// IsSplit reports whether an axis is split.
func (d *Deformation) IsSplit(a Axis) bool { return d.axis(a).split() }

// IsClustered reports whether clustering was requested for an axis.
func (d *Deformation) IsClustered(a Axis) bool {
	_, ok := d.axis(a).state.options()
	return ok
}

// ClusterOptionsFor returns the effective options of a clustered axis,
// after metric substitution.
func (d *Deformation) ClusterOptionsFor(a Axis) (ClusterOptions, bool) {
	return d.axis(a).state.options()
}
