package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/crossboard/pkg/board"
	"github.com/matzehuels/crossboard/pkg/cache"
	"github.com/matzehuels/crossboard/pkg/cluster"
	"github.com/matzehuels/crossboard/pkg/deform"
	"github.com/matzehuels/crossboard/pkg/errors"
	"github.com/matzehuels/crossboard/pkg/layout"
)

// Keys of the matrices stored for one clustered axis.
const (
	linkageWhole = "whole"
	linkageMeta  = "meta"
	linkageChunk = "chunk/"
)

// figure is a built document ready to render.
type figure struct {
	board.Figure
	boards  []*built
	legends []*placedLegend
}

// built is one board of a figure.
type built struct {
	spec  *Spec
	board *board.Board
	data  *mat.Dense
	axes  []*clusteredAxis
}

// clusteredAxis tracks the linkage cache entry of one clustered axis.
type clusteredAxis struct {
	axis   deform.Axis
	key    string
	cached bool
	// keys and members are the chunks before clustering, used to label
	// linkage trees.
	keys    []string
	members [][]int
}

// placedLegend is a legend panel with its content.
type placedLegend struct {
	panel   func() (layout.Panel, error)
	content *legendContent
}

// builder turns a document into a figure.
type builder struct {
	ctx    context.Context
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger
	cats   *categoryIndex
	// refresh skips cached linkages but still writes fresh ones.
	refresh bool

	hits, misses int
}

func newBuilder(ctx context.Context, c cache.Cache, k cache.Keyer, logger *log.Logger) *builder {
	return &builder{ctx: ctx, cache: c, keyer: k, logger: logger, cats: newCategoryIndex()}
}

// build constructs the figure of doc.
func (bl *builder) build(doc *Document) (*figure, error) {
	f := &figure{}
	fig, err := bl.document(doc, f)
	if err != nil {
		return nil, err
	}
	f.Figure = fig
	return f, nil
}

func (bl *builder) document(doc *Document, f *figure) (board.Figure, error) {
	if doc.Stack != nil {
		return bl.stack(doc, f)
	}

	main, err := bl.board(doc.Board, f)
	if err != nil {
		return nil, err
	}
	if len(doc.Append) == 0 && doc.Legend == nil {
		return main.board, nil
	}

	c, err := board.Compose(main.board)
	if err != nil {
		return nil, err
	}
	for i, a := range doc.Append {
		side, err := layout.ParseSide(a.Side)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSide, err, "append %d", i)
		}
		if a.Board == nil {
			if err := c.AppendSpace(side, a.Space); err != nil {
				return nil, err
			}
			continue
		}
		other, err := bl.board(a.Board, f)
		if err != nil {
			return nil, err
		}
		if err := c.Append(side, other.board); err != nil {
			return nil, err
		}
	}
	if doc.Legend != nil {
		side, content, err := bl.legend(doc.Legend, f.boards)
		if err != nil {
			return nil, err
		}
		if err := c.AddLegend(side, doc.Legend.Pad, content); err != nil {
			return nil, err
		}
		f.legends = append(f.legends, &placedLegend{panel: c.Layout().Legend, content: content})
	}
	return c, nil
}

func (bl *builder) stack(doc *Document, f *figure) (board.Figure, error) {
	st := doc.Stack
	first := len(f.boards)
	items := make([]board.Figure, len(st.Items))
	for i := range st.Items {
		fig, err := bl.document(&st.Items[i], f)
		if err != nil {
			return nil, err
		}
		items[i] = fig
	}

	direction := layout.Direction(strings.ToLower(st.Direction))
	align := layout.Align(strings.ToLower(st.Align))
	if align == "" {
		align = layout.AlignCenter
	}
	s, err := board.Stack(items, direction, align, st.Spacing)
	if err != nil {
		return nil, err
	}
	if doc.Legend != nil {
		side, content, err := bl.legend(doc.Legend, f.boards[first:])
		if err != nil {
			return nil, err
		}
		if err := s.AddLegend(side, doc.Legend.Pad, content); err != nil {
			return nil, err
		}
		f.legends = append(f.legends, &placedLegend{panel: s.Layout().Legend, content: content})
	}
	return s, nil
}

// legend collects the categories of every colors panel of boards.
func (bl *builder) legend(spec *LegendSpec, boards []*built) (layout.Side, *legendContent, error) {
	side, err := layout.ParseSide(spec.Side)
	if err != nil {
		return "", nil, err
	}
	content := &legendContent{title: spec.Title, cats: bl.cats}
	for _, b := range boards {
		for _, p := range b.spec.Panels {
			if p.Kind == PanelColors {
				content.add(p.Labels)
			}
		}
	}
	return side, content, nil
}

// board builds one board spec.
func (bl *builder) board(spec *Spec, f *figure) (*built, error) {
	opts := []board.Option{board.WithLogger(bl.logger)}
	switch len(spec.Margin) {
	case 1:
		opts = append(opts, board.WithMargin(layout.UniformMargin(spec.Margin[0])))
	case 4:
		opts = append(opts, board.WithMargin(layout.Margin{
			Top: spec.Margin[0], Right: spec.Margin[1], Bottom: spec.Margin[2], Left: spec.Margin[3],
		}))
	}

	out := &built{spec: spec}
	if spec.hasData() {
		out.data = mat.NewDense(spec.rows(), spec.cols(), nil)
		for i, row := range spec.Data {
			out.data.SetRow(i, row)
		}
		opts = append(opts, board.WithData(out.data))
	}

	b, err := board.New(spec.Name, spec.Width, spec.Height, opts...)
	if err != nil {
		return nil, err
	}
	out.board = b

	if err := bl.split(b, deform.Rows, spec.Rows); err != nil {
		return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInvalidInput), err, "board %q rows", spec.Name)
	}
	if err := bl.split(b, deform.Cols, spec.Cols); err != nil {
		return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInvalidInput), err, "board %q cols", spec.Name)
	}

	if spec.hasData() && spec.Main != MainNone {
		b.AddLayer(newHeatmap(out.data))
	}

	colors := &legendContent{cats: bl.cats}
	for i, p := range spec.Panels {
		if err := bl.panel(b, spec, p, colors); err != nil {
			return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInvalidInput), err,
				"board %q panel %d", spec.Name, i)
		}
	}

	for i, d := range spec.Dendrograms {
		ax, err := bl.dendrogram(out, d)
		if err != nil {
			return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInvalidInput), err,
				"board %q dendrogram %d", spec.Name, i)
		}
		out.setAxis(ax)
	}

	if spec.Legend != nil {
		side, err := layout.ParseSide(spec.Legend.Side)
		if err != nil {
			return nil, err
		}
		colors.title = spec.Legend.Title
		if err := b.AddLegend(side, spec.Legend.Pad, colors); err != nil {
			return nil, err
		}
		f.legends = append(f.legends, &placedLegend{panel: b.Layout().Legend, content: colors})
	}

	f.boards = append(f.boards, out)
	return out, nil
}

// setAxis records a clustered axis. Clustering an axis again replaces the
// earlier request.
func (b *built) setAxis(ax *clusteredAxis) {
	for i, prev := range b.axes {
		if prev.axis == ax.axis {
			b.axes[i] = ax
			return
		}
	}
	b.axes = append(b.axes, ax)
}

func (bl *builder) split(b *board.Board, axis deform.Axis, spec AxisSpec) error {
	spacing := spec.Spacing
	if spacing == 0 {
		spacing = board.DefaultSpacing
	}
	switch {
	case len(spec.Cut) > 0 && len(spec.Groups) > 0:
		return errors.New(errors.ErrCodeInvalidInput, "axis can be cut or grouped, not both")
	case len(spec.Cut) > 0:
		if axis == deform.Rows {
			return b.CutRows(spec.Cut, spacing)
		}
		return b.CutCols(spec.Cut, spacing)
	case len(spec.Groups) > 0:
		if axis == deform.Rows {
			return b.GroupRows(spec.Groups, spec.Order, spacing)
		}
		return b.GroupCols(spec.Groups, spec.Order, spacing)
	}
	return nil
}

func (bl *builder) panel(b *board.Board, spec *Spec, p PanelSpec, colors *legendContent) error {
	side, err := layout.ParseSide(p.Side)
	if err != nil {
		return err
	}
	name := p.Name
	if name == "" {
		name = fmt.Sprintf("%s-%s-%d", side, p.Kind, len(b.Layout().SideNames(side)))
	}
	opts := board.PlotOptions{Name: name, Size: p.Size, Pad: p.Pad}

	switch p.Kind {
	case PanelPad:
		return b.AddPad(side, p.Size)
	case PanelCanvas:
		return b.AddCanvas(side, name, p.Size, p.Pad)
	case PanelBars:
		return b.AddPlot(side, newBars(side, p.Values), opts)
	case PanelColors:
		plan := newColors(side, p.Labels, bl.cats)
		colors.add(plan.names)
		return b.AddPlot(side, plan, opts)
	case PanelLabels:
		labels := p.Labels
		if len(labels) == 0 {
			labels = spec.ColLabels
			if side.Horizontal() {
				labels = spec.RowLabels
			}
		}
		if len(labels) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "labels panel on %s has no labels", side)
		}
		return b.AddPlot(side, newLabels(side, labels), opts)
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown panel kind %q", p.Kind)
}

// dendrogram adds a dendrogram, reusing cached linkages for the same data,
// chunks and clustering options.
func (bl *builder) dendrogram(out *built, spec DendrogramSpec) (*clusteredAxis, error) {
	side, err := layout.ParseSide(spec.Side)
	if err != nil {
		return nil, err
	}
	method, err := cluster.ParseMethod(spec.Method)
	if err != nil {
		return nil, err
	}
	metric, err := cluster.ParseMetric(spec.Metric)
	if err != nil {
		return nil, err
	}
	opts := board.DendrogramOptions{
		Name:      spec.Name,
		Method:    method,
		Metric:    metric,
		SkipMeta:  spec.SkipMeta,
		SkipBase:  spec.SkipBase,
		NoDivider: spec.NoDivider,
		MetaRatio: spec.MetaRatio,
		AddRoot:   spec.AddRoot,
		Size:      spec.Size,
		Pad:       spec.Pad,
		Hide:      spec.Hide,
	}

	axis := deform.Cols
	if side.Horizontal() {
		axis = deform.Rows
	}
	ax := &clusteredAxis{axis: axis}
	if out.data != nil {
		d := out.board.Deformation()
		if ax.members, err = d.Segments(axis); err != nil {
			return nil, err
		}
		if ax.keys, err = d.ChunkKeys(axis); err != nil {
			return nil, err
		}
		ax.key = bl.keyer.LinkageKey(cache.HashMatrix(out.data), cache.LinkageKeyOpts{
			Axis:   axis.String(),
			Method: string(method),
			Metric: string(metric),
			Chunks: ax.members,
		})
		ax.cached = bl.restore(ax.key, ax.keys, &opts)
	}

	if err := out.board.AddDendrogram(side, opts); err != nil {
		return nil, err
	}
	return ax, nil
}

// restore fills opts with cached linkages. It reports whether the entry
// was found with a matrix for every chunk in keys.
func (bl *builder) restore(key string, keys []string, opts *board.DendrogramOptions) bool {
	if bl.refresh {
		bl.misses++
		return false
	}
	ms, ok, err := cache.GetMatrices(bl.ctx, bl.cache, key, requiredLinkages(keys)...)
	if stderrors.Is(err, cache.ErrNotFound) {
		bl.logger.Debug("linkage cache entry incomplete", "key", key, "error", err)
		bl.misses++
		return false
	}
	if err != nil {
		bl.logger.Warn("linkage cache read failed", "key", key, "error", err)
		return false
	}
	if !ok {
		bl.misses++
		return false
	}
	for k, m := range ms {
		if m == nil {
			continue
		}
		switch {
		case k == linkageWhole:
			opts.Linkage = m
		case k == linkageMeta:
			opts.MetaLinkage = m
		case strings.HasPrefix(k, linkageChunk):
			if opts.ChunkLinkage == nil {
				opts.ChunkLinkage = make(map[string]mat.Matrix)
			}
			opts.ChunkLinkage[strings.TrimPrefix(k, linkageChunk)] = m
		}
	}
	bl.hits++
	bl.logger.Debug("linkage cache hit", "key", key)
	return true
}

// store writes the linkages computed while rendering to the cache.
func (bl *builder) store(f *figure) {
	for _, b := range f.boards {
		for _, ax := range b.axes {
			if ax.cached || ax.key == "" {
				continue
			}
			l, ok, err := b.board.Deformation().Linkage(ax.axis)
			if err != nil || !ok {
				continue
			}
			if err := cache.SetMatrices(bl.ctx, bl.cache, ax.key, linkageEntries(l), cache.TTLLinkage); err != nil {
				bl.logger.Warn("linkage cache write failed", "key", ax.key, "error", err)
			}
		}
	}
}

// requiredLinkages names the matrices a cached entry needs for an axis
// with the given chunk keys.
func requiredLinkages(keys []string) []string {
	if len(keys) <= 1 {
		return []string{linkageWhole}
	}
	names := make([]string, 0, len(keys)+1)
	names = append(names, linkageMeta)
	for _, k := range keys {
		names = append(names, linkageChunk+k)
	}
	return names
}

// linkageEntries flattens linkages into named matrices.
func linkageEntries(l deform.Linkages) map[string]*mat.Dense {
	out := make(map[string]*mat.Dense, len(l.ByChunk)+2)
	if l.Whole != nil {
		out[linkageWhole] = l.Whole
	}
	if l.Meta != nil {
		out[linkageMeta] = l.Meta
	}
	for k, m := range l.ByChunk {
		out[linkageChunk+k] = m
	}
	return out
}

// drawLegends writes legend entries after the figure is placed.
func (f *figure) drawLegends() error {
	w, h := f.FigureSize()
	for _, l := range f.legends {
		p, err := l.panel()
		if err != nil {
			return err
		}
		l.content.draw(p, w, h)
	}
	return nil
}
