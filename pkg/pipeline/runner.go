package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/crossboard/pkg/cache"
	"github.com/matzehuels/crossboard/pkg/deform"
	"github.com/matzehuels/crossboard/pkg/errors"
	"github.com/matzehuels/crossboard/pkg/observability"
	"github.com/matzehuels/crossboard/pkg/render/treedot"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to share caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different documents.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The cache is wrapped with [cache.Observe].
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  cache.Observe(c),
		Keyer:  keyer,
		Logger: logger,
	}
}

// Load reads a document file and reports it to the pipeline hooks.
func (r *Runner) Load(ctx context.Context, path string) (*Document, error) {
	observability.Pipeline().OnLoadStart(ctx, path)
	start := time.Now()
	doc, err := Load(path)
	rows, cols := docShape(doc)
	observability.Pipeline().OnLoadComplete(ctx, path, rows, cols, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("loaded document", "path", path, "boards", len(doc.Boards()), "rows", rows, "cols", cols)
	return doc, nil
}

// Parse decodes a document from memory, for example a request body.
func (r *Runner) Parse(ctx context.Context, source string, data []byte, format string) (*Document, error) {
	observability.Pipeline().OnLoadStart(ctx, source)
	start := time.Now()
	doc, err := Parse(data, format)
	rows, cols := docShape(doc)
	observability.Pipeline().OnLoadComplete(ctx, source, rows, cols, time.Since(start), err)
	return doc, err
}

// docShape returns the data shape of the first board with data.
func docShape(doc *Document) (rows, cols int) {
	if doc == nil {
		return 0, 0
	}
	for _, s := range doc.Boards() {
		if s.hasData() {
			return s.rows(), s.cols()
		}
	}
	return 0, 0
}

// Execute builds and renders a document with caching.
func (r *Runner) Execute(ctx context.Context, doc *Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Format: opts.Format}
	for _, s := range doc.Boards() {
		result.Boards = append(result.Boards, s.Name)
	}

	renderKey, cacheable := r.renderKey(doc, opts)
	if cacheable && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, renderKey); err == nil && hit {
			result.Output = data
			result.CacheInfo.RenderHit = true
			opts.Logger.Debug("render cache hit", "format", opts.Format)
			return result, nil
		}
	}

	buildStart := time.Now()
	bl := r.builder(ctx, opts)
	f, err := bl.build(doc)
	if err != nil {
		return nil, err
	}
	result.Stats.BuildTime = time.Since(buildStart)

	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Format)
	out, err := renderFigure(ctx, f, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Format, len(out), result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}

	bl.store(f)
	result.Output = out
	result.Width, result.Height = f.FigureSize()
	result.CacheInfo.LinkageHits = bl.hits
	result.CacheInfo.LinkageMisses = bl.misses

	if cacheable {
		if err := r.Cache.Set(ctx, renderKey, out, cache.TTLRender); err != nil {
			opts.Logger.Warn("render cache write failed", "error", err)
		}
	}

	opts.Logger.Info("rendered figure",
		"format", opts.Format,
		"boards", len(result.Boards),
		"size", fmt.Sprintf("%.2fx%.2fin", result.Width, result.Height),
		"duration", result.Stats.BuildTime+result.Stats.RenderTime)

	return result, nil
}

// Trees builds a document and returns the linkage trees of every board
// clustered along axis. Split axes give one tree per chunk with more than
// one item, plus the meta tree over chunks.
func (r *Runner) Trees(ctx context.Context, doc *Document, axis deform.Axis, opts Options) ([]treedot.Tree, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	bl := r.builder(ctx, opts)
	f, err := bl.build(doc)
	if err != nil {
		return nil, err
	}

	var trees []treedot.Tree
	for _, b := range f.boards {
		for _, ax := range b.axes {
			if ax.axis != axis {
				continue
			}
			l, ok, err := b.board.Deformation().Linkage(axis)
			if err != nil {
				return nil, err
			}
			if ok {
				trees = append(trees, b.trees(ax, l)...)
			}
		}
	}
	bl.store(f)

	if len(trees) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no board clusters %ss", axis)
	}
	return trees, nil
}

// trees labels the linkages of one clustered axis.
func (b *built) trees(ax *clusteredAxis, l deform.Linkages) []treedot.Tree {
	labels := b.spec.RowLabels
	if ax.axis == deform.Cols {
		labels = b.spec.ColLabels
	}
	label := func(i int) string {
		if i < len(labels) {
			return labels[i]
		}
		return fmt.Sprint(i)
	}

	if l.Whole != nil {
		var names []string
		if len(ax.members) == 1 {
			for _, i := range ax.members[0] {
				names = append(names, label(i))
			}
		}
		return []treedot.Tree{{Name: b.spec.Name, Linkage: l.Whole, Labels: names}}
	}

	var out []treedot.Tree
	for ci, key := range ax.keys {
		m := l.ByChunk[key]
		if m == nil || ci >= len(ax.members) {
			continue
		}
		names := make([]string, len(ax.members[ci]))
		for j, i := range ax.members[ci] {
			names[j] = label(i)
		}
		out = append(out, treedot.Tree{Name: b.spec.Name + "/" + key, Linkage: m, Labels: names})
	}
	if l.Meta != nil {
		out = append(out, treedot.Tree{Name: b.spec.Name + "/meta", Linkage: l.Meta, Labels: ax.keys})
	}
	return out
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) builder(ctx context.Context, opts Options) *builder {
	bl := newBuilder(ctx, r.Cache, r.Keyer, opts.Logger)
	bl.refresh = opts.Refresh
	return bl
}

// renderKey hashes the canonical JSON form of doc. Documents that do not
// encode, such as data with NaN values, are not cached.
func (r *Runner) renderKey(doc *Document, opts Options) (string, bool) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", false
	}
	return r.Keyer.RenderKey(cache.Hash(data), opts.RenderKeyOpts()), true
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
