package deform

import (
	"slices"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/crossboard/pkg/dendrogram"
	"github.com/matzehuels/crossboard/pkg/errors"
	"github.com/matzehuels/crossboard/pkg/observability"
)

// resolve returns the cluster result of an axis, computing it when pending.
// It returns nil for an unclustered axis.
func (d *Deformation) resolve(ax *axis) (*clusterResult, error) {
	switch s := ax.state.(type) {
	case clustered:
		return s.res, nil
	case pending:
		start := time.Now()
		observability.Cluster().OnClusterStart(ax.kind.String(), ax.chunkCount(), ax.n)
		res, err := d.compute(ax, s.opts)
		observability.Cluster().OnClusterComplete(ax.kind.String(), time.Since(start), err)
		if err != nil {
			return nil, err
		}
		d.logger.Debug("clustered", "axis", ax.kind.String(), "chunks", ax.chunkCount(),
			"method", s.opts.Method, "metric", s.opts.Metric, "elapsed", time.Since(start))
		ax.state = clustered{opts: s.opts, res: res}
		return res, nil
	}
	return nil, nil
}

// items returns the matrix whose rows are the items of an axis.
func (d *Deformation) items(a Axis) mat.Matrix {
	if a == Cols {
		return d.data.T()
	}
	return d.data
}

func (d *Deformation) compute(ax *axis, opts ClusterOptions) (*clusterResult, error) {
	items := d.items(ax.kind)
	chunks := ax.chunks()

	var denOpts []dendrogram.Option
	if opts.Centroid != nil {
		denOpts = append(denOpts, dendrogram.WithCentroid(opts.Centroid))
	}

	if !ax.split() {
		if opts.ChunkLinkage != nil {
			return nil, errors.New(errors.ErrCodeInvalidLinkage,
				"%s axis is not split, use a single linkage instead of per-chunk linkage", ax.kind)
		}
		o := slices.Clone(denOpts)
		if opts.Linkage != nil {
			o = append(o, dendrogram.WithLinkage(opts.Linkage))
		}
		den, err := dendrogram.New(selectRows(items, chunks[0]), opts.Method, opts.Metric, o...)
		if err != nil {
			return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInternal), err, "cluster %s axis", ax.kind)
		}
		return &clusterResult{single: den, within: [][]int{den.Leaves()}}, nil
	}

	if opts.Linkage != nil {
		return nil, errors.New(errors.ErrCodeInvalidLinkage,
			"%s axis is split, linkage must be given per chunk key", ax.kind)
	}
	keys := ax.chunkKeys()
	dens := make([]*dendrogram.Dendrogram, len(chunks))
	within := make([][]int, len(chunks))
	for i, c := range chunks {
		o := slices.Clone(denOpts)
		if opts.ChunkLinkage != nil && len(c) > 1 {
			z, ok := opts.ChunkLinkage[keys[i]]
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidLinkage, "linkage for chunk %q is not specified", keys[i])
			}
			o = append(o, dendrogram.WithLinkage(z))
		}
		den, err := dendrogram.New(selectRows(items, c), opts.Method, opts.Metric, o...)
		if err != nil {
			return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInternal), err, "cluster %s chunk %q", ax.kind, keys[i])
		}
		dens[i] = den
		within[i] = den.Leaves()
	}

	var metaOpts []dendrogram.Option
	if opts.MetaLinkage != nil {
		metaOpts = append(metaOpts, dendrogram.WithLinkage(opts.MetaLinkage))
	}
	group, err := dendrogram.NewGroup(dens, opts.Method, opts.Metric, metaOpts...)
	if err != nil {
		return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInternal), err, "cluster %s chunk centroids", ax.kind)
	}
	res := &clusterResult{group: group, within: within}
	if !opts.KeepChunkOrder {
		res.chunkOrder = group.Order()
	}
	return res, nil
}

func selectRows(m mat.Matrix, idx []int) *mat.Dense {
	_, c := m.Dims()
	out := mat.NewDense(len(idx), c, nil)
	for i, ix := range idx {
		out.SetRow(i, mat.Row(nil, ix, m))
	}
	return out
}
