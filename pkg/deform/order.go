package deform

import (
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/crossboard/pkg/dendrogram"
)

// Segments returns the display order of an axis as one index slice per
// chunk. Indices refer to the original matrix.
func (d *Deformation) Segments(a Axis) ([][]int, error) {
	ax := d.axis(a)
	res, err := d.resolve(ax)
	if err != nil {
		return nil, err
	}
	segs, _ := ax.segments(res)
	return segs, nil
}

// Order returns the flattened display order of an axis. It is always a
// permutation of 0..n-1.
func (d *Deformation) Order(a Axis) ([]int, error) {
	segs, err := d.Segments(a)
	if err != nil {
		return nil, err
	}
	return slices.Concat(segs...), nil
}

// RowOrder returns the flattened row order.
func (d *Deformation) RowOrder() ([]int, error) { return d.Order(Rows) }

// ColOrder returns the flattened column order.
func (d *Deformation) ColOrder() ([]int, error) { return d.Order(Cols) }

// ChunkSizes returns the chunk lengths in display order, used as split
// ratios for panels aligned to the axis. It returns nil for an unsplit axis.
func (d *Deformation) ChunkSizes(a Axis) ([]int, error) {
	if !d.axis(a).split() {
		return nil, nil
	}
	segs, err := d.Segments(a)
	if err != nil {
		return nil, err
	}
	sizes := make([]int, len(segs))
	for i, s := range segs {
		sizes[i] = len(s)
	}
	return sizes, nil
}

// RowChunkSizes returns the row chunk lengths in display order.
func (d *Deformation) RowChunkSizes() ([]int, error) { return d.ChunkSizes(Rows) }

// ColChunkSizes returns the column chunk lengths in display order.
func (d *Deformation) ColChunkSizes() ([]int, error) { return d.ChunkSizes(Cols) }

// ChunkKeys returns the chunk keys in display order.
func (d *Deformation) ChunkKeys(a Axis) ([]string, error) {
	ax := d.axis(a)
	res, err := d.resolve(ax)
	if err != nil {
		return nil, err
	}
	_, order := ax.segments(res)
	keys := ax.chunkKeys()
	out := make([]string, len(order))
	for i, ci := range order {
		out[i] = keys[ci]
	}
	return out, nil
}

// Dendrogram returns the cluster tree of an axis: a *dendrogram.Dendrogram
// for an unsplit axis, a *dendrogram.Group for a split one, or nil when
// the axis is not clustered.
func (d *Deformation) Dendrogram(a Axis) (dendrogram.Tree, error) {
	res, err := d.resolve(d.axis(a))
	if err != nil || res == nil {
		return nil, err
	}
	return res.tree(), nil
}

// RowDendrogram returns the row cluster tree.
func (d *Deformation) RowDendrogram() (dendrogram.Tree, error) { return d.Dendrogram(Rows) }

// ColDendrogram returns the column cluster tree.
func (d *Deformation) ColDendrogram() (dendrogram.Tree, error) { return d.Dendrogram(Cols) }

// Linkages holds the linkage matrices of one axis.
type Linkages struct {
	// Whole is set for an unsplit axis.
	Whole *mat.Dense
	// ByChunk is set for a split axis, with one entry per chunk key.
	// Single-item chunks map to nil.
	ByChunk map[string]*mat.Dense
	// Meta is the linkage over chunk centroids of a split axis.
	Meta *mat.Dense
}

// Linkage returns the linkage matrices of a clustered axis. ok is false
// when the axis is not clustered.
func (d *Deformation) Linkage(a Axis) (l Linkages, ok bool, err error) {
	ax := d.axis(a)
	res, err := d.resolve(ax)
	if err != nil || res == nil {
		return Linkages{}, false, err
	}
	if res.group == nil {
		return Linkages{Whole: res.single.Linkage()}, true, nil
	}
	keys := ax.chunkKeys()
	l.ByChunk = make(map[string]*mat.Dense, len(keys))
	for i, den := range res.group.Dendrograms() {
		l.ByChunk[keys[i]] = den.Linkage()
	}
	l.Meta = res.group.Linkage()
	return l, true, nil
}

// RowLinkage returns the row linkage matrices.
func (d *Deformation) RowLinkage() (Linkages, bool, error) { return d.Linkage(Rows) }

// ColLinkage returns the column linkage matrices.
func (d *Deformation) ColLinkage() (Linkages, bool, error) { return d.Linkage(Cols) }
