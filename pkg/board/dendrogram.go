package board

import (
	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/crossboard/pkg/cluster"
	"github.com/matzehuels/crossboard/pkg/deform"
	"github.com/matzehuels/crossboard/pkg/dendrogram"
	"github.com/matzehuels/crossboard/pkg/errors"
	"github.com/matzehuels/crossboard/pkg/layout"
)

// DefaultDendrogramSize is the panel size of a dendrogram in inches.
const DefaultDendrogramSize = 0.5

// DendrogramOptions configures [Board.AddDendrogram].
type DendrogramOptions struct {
	// Name defaults to "<side>-dendrogram-<n>".
	Name   string
	Method cluster.Method
	Metric cluster.Metric
	// Linkage, ChunkLinkage and MetaLinkage replace computed linkages.
	Linkage      mat.Matrix
	ChunkLinkage map[string]mat.Matrix
	MetaLinkage  mat.Matrix
	Centroid     dendrogram.CentroidFunc
	// SkipMeta keeps the chunk order and hides the meta tree.
	SkipMeta bool
	// SkipBase hides the chunk trees.
	SkipBase  bool
	NoDivider bool
	MetaRatio float64
	AddRoot   bool
	// Size defaults to DefaultDendrogramSize.
	Size float64
	Pad  float64
	// Hide clusters the axis without adding a panel.
	Hide bool
}

type denPanel struct {
	name    string
	side    layout.Side
	axis    deform.Axis
	opts    DendrogramOptions
	drawing dendrogram.Drawing
}

// AddDendrogram clusters the axis that side follows and adds a panel that
// draws the tree. Left and right dendrograms cluster rows, top and bottom
// dendrograms columns. With both SkipMeta and SkipBase there is nothing to
// draw and no panel is added.
func (b *Board) AddDendrogram(side layout.Side, opts DendrogramOptions) error {
	if err := b.requireData(); err != nil {
		return err
	}
	if _, err := layout.ParseSide(string(side)); err != nil {
		return err
	}
	axis := deform.Cols
	if side.Horizontal() {
		axis = deform.Rows
	}
	show := !opts.Hide && !(opts.SkipMeta && opts.SkipBase)
	name := opts.Name
	if name == "" {
		name = b.nextName(side, "dendrogram")
	}
	size := opts.Size
	if size == 0 {
		size = DefaultDendrogramSize
	}
	if show {
		if err := b.checkPanel(name, size, opts.Pad); err != nil {
			return err
		}
	}
	err := b.deform.SetCluster(axis, deform.ClusterOptions{
		Method:         opts.Method,
		Metric:         opts.Metric,
		KeepChunkOrder: opts.SkipMeta,
		Linkage:        opts.Linkage,
		ChunkLinkage:   opts.ChunkLinkage,
		MetaLinkage:    opts.MetaLinkage,
		Centroid:       opts.Centroid,
	})
	if err != nil {
		return err
	}
	if show {
		if err := b.layout.AddAx(side, name, size, opts.Pad); err != nil {
			return err
		}
		b.dens = append(b.dens, &denPanel{name: name, side: side, axis: axis, opts: opts})
	}
	return nil
}

// checkPanel validates a new panel before any state changes.
func (b *Board) checkPanel(name string, size, pad float64) error {
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	if _, err := b.layout.Cell(name); err == nil {
		return errors.New(errors.ErrCodeDuplicateName, "axes with name %q already exists", name)
	}
	if err := errors.ValidateSize("size", size); err != nil {
		return err
	}
	return errors.ValidateSize("pad", pad)
}

func (b *Board) drawDendrogram(d *denPanel) error {
	tree, err := b.deform.Dendrogram(d.axis)
	if err != nil {
		return err
	}
	if tree == nil {
		return errors.New(errors.ErrCodeInternal, "axis %s of %q is not clustered", d.axis, b.name)
	}
	drawing, err := tree.Draw(dendrogram.Orient(d.side), dendrogram.DrawOptions{
		AddRoot: d.opts.AddRoot,
		Group: dendrogram.GroupOptions{
			Spacing:   []float64{b.spacing[d.axis]},
			SkipMeta:  d.opts.SkipMeta,
			SkipBase:  d.opts.SkipBase,
			NoDivider: d.opts.NoDivider,
			MetaRatio: d.opts.MetaRatio,
		},
	})
	if err != nil {
		return err
	}
	d.drawing = drawing

	panel, err := b.Panel(d.name)
	if err != nil {
		return err
	}
	ld, ok := panel.Region().(layout.LineDrawer)
	if !ok {
		return nil
	}
	for _, line := range drawing.Lines {
		ld.DrawLine(line.X, line.Y, "dendrogram "+line.Kind.String())
	}
	return nil
}

// Dendrogram returns the drawing of a dendrogram panel from the last render.
func (b *Board) Dendrogram(name string) (dendrogram.Drawing, error) {
	for _, d := range b.dens {
		if d.name == name {
			return d.drawing, nil
		}
	}
	return dendrogram.Drawing{}, errors.New(errors.ErrCodeUnknownName, "no dendrogram named %q on %q", name, b.name)
}

// RowLinkage returns the row linkages; ok is false when rows are not
// clustered.
func (b *Board) RowLinkage() (deform.Linkages, bool, error) {
	if err := b.requireData(); err != nil {
		return deform.Linkages{}, false, err
	}
	return b.deform.RowLinkage()
}

// ColLinkage returns the column linkages. See [Board.RowLinkage].
func (b *Board) ColLinkage() (deform.Linkages, bool, error) {
	if err := b.requireData(); err != nil {
		return deform.Linkages{}, false, err
	}
	return b.deform.ColLinkage()
}
