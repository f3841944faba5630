package board

import (
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/crossboard/pkg/deform"
	"github.com/matzehuels/crossboard/pkg/dendrogram"
	"github.com/matzehuels/crossboard/pkg/errors"
	"github.com/matzehuels/crossboard/pkg/layout"
)

func sample(r, c int) *mat.Dense {
	m := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(i, j, math.Sin(float64(i*c+j))+float64(i%3))
		}
	}
	return m
}

// trackPlan records what it was asked to render.
type trackPlan struct {
	data mat.Matrix
	ctx  *RenderContext
}

func (p *trackPlan) Data() mat.Matrix { return p.data }

func (p *trackPlan) Render(ctx *RenderContext) error {
	p.ctx = ctx
	return nil
}

type statPlan struct {
	trackPlan
	orient Orientation
}

func (p *statPlan) Orientation() Orientation { return p.orient }

type sizedPlan struct {
	trackPlan
	size float64
}

func (p *sizedPlan) CanvasSize(_, _ float64) (float64, bool) { return p.size, true }

type regroupPlan struct {
	trackPlan
	groups []float64
}

func (p *regroupPlan) SplitRegroup() []float64 { return p.groups }

type fixedPlan struct {
	trackPlan
}

func (p *fixedPlan) AllowSplit() bool { return false }

// lineSurface collects the classes of lines drawn into any region.
type lineSurface struct {
	lines []string
}

type lineRegion struct {
	r     layout.Rect
	lines *[]string
}

func (r lineRegion) Bounds() layout.Rect { return r.r }

func (r lineRegion) DrawLine(_, _ []float64, class string) {
	*r.lines = append(*r.lines, class)
}

func (s *lineSurface) SetSize(_, _ float64) {}

func (s *lineSurface) Place(_ string, r layout.Rect) layout.Region {
	return lineRegion{r: r, lines: &s.lines}
}

func mustBoard(t *testing.T, name string, data mat.Matrix) *Board {
	t.Helper()
	var opts []Option
	if data != nil {
		opts = append(opts, WithData(data))
	}
	b, err := New(name, 4, 3, opts...)
	if err != nil {
		t.Fatalf("New(%q) error = %v", name, err)
	}
	return b
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func TestBoardSplitsPanels(t *testing.T) {
	b := mustBoard(t, "heatmap", sample(6, 4))
	must(t, b.CutRows([]int{2}, 0.1))
	left := &trackPlan{data: mat.NewDense(1, 6, []float64{0, 1, 2, 3, 4, 5})}
	top := &trackPlan{data: mat.NewDense(2, 4, nil)}
	main := &trackPlan{data: sample(6, 4)}
	must(t, b.AddPlot(layout.Left, left, PlotOptions{Name: "labels", Size: 0.5}))
	must(t, b.AddPlot(layout.Top, top, PlotOptions{Size: 0.5}))
	b.AddLayer(main)

	must(t, b.Render(layout.NewRecorder(), 1))

	for name, want := range map[string]int{"heatmap": 2, "labels": 2, "top-plot-1": 1} {
		p, err := b.Panel(name)
		must(t, err)
		if len(p.Regions) != want {
			t.Errorf("%s regions = %d, want %d", name, len(p.Regions), want)
		}
	}

	tracks := left.ctx.Data.Tracks
	if len(tracks) != 2 {
		t.Fatalf("left tracks = %d, want 2", len(tracks))
	}
	if _, c := tracks[0].Dims(); c != 2 {
		t.Errorf("first chunk has %d values, want 2", c)
	}
	if got := tracks[1].At(0, 0); got != 2 {
		t.Errorf("second chunk starts with %v, want 2", got)
	}
	if n := len(top.ctx.Data.Tracks); n != 1 {
		t.Errorf("top tracks = %d, want 1", n)
	}
	if s := main.ctx.Data.Chunks.Shape(); s != deform.RowChunks {
		t.Errorf("main shape = %v, want rows", s)
	}
	if main.ctx.Side != layout.Main || left.ctx.Board != "heatmap" {
		t.Errorf("context = %+v", main.ctx)
	}

	// A second render keeps the split.
	must(t, b.Render(layout.NewRecorder(), 2))
}

func TestBoardDendrogram(t *testing.T) {
	b := mustBoard(t, "heatmap", sample(6, 4))
	must(t, b.AddDendrogram(layout.Left, DendrogramOptions{}))
	must(t, b.AddDendrogram(layout.Top, DendrogramOptions{Name: "cols", AddRoot: true}))
	must(t, b.CutRows([]int{3}, 0.05))

	s := &lineSurface{}
	must(t, b.Render(s, 1))

	rows, err := b.Dendrogram("left-dendrogram-0")
	must(t, err)
	if len(rows.Filter(dendrogram.KindMeta)) == 0 {
		t.Error("split rows drew no meta tree")
	}
	if len(rows.Filter(dendrogram.KindBase)) == 0 {
		t.Error("split rows drew no chunk trees")
	}
	cols, err := b.Dendrogram("cols")
	must(t, err)
	if len(cols.Filter(dendrogram.KindRoot)) != 1 {
		t.Errorf("column dendrogram root stubs = %d, want 1", len(cols.Filter(dendrogram.KindRoot)))
	}
	if want := len(rows.Lines) + len(cols.Lines); len(s.lines) != want {
		t.Errorf("drawn lines = %d, want %d", len(s.lines), want)
	}
	for _, class := range s.lines {
		if !strings.HasPrefix(class, "dendrogram ") {
			t.Errorf("line class %q", class)
		}
	}

	l, ok, err := b.RowLinkage()
	must(t, err)
	if !ok || len(l.ByChunk) != 2 || l.Meta == nil {
		t.Errorf("row linkage = %+v, ok=%v, want two chunks and a meta linkage", l, ok)
	}
	if _, err := b.Dendrogram("nope"); !errors.Is(err, errors.ErrCodeUnknownName) {
		t.Errorf("Dendrogram(nope) error = %v, want UNKNOWN_NAME", err)
	}
}

func TestBoardDendrogramHidden(t *testing.T) {
	b := mustBoard(t, "heatmap", sample(5, 3))
	must(t, b.AddDendrogram(layout.Right, DendrogramOptions{SkipMeta: true, SkipBase: true}))
	if names := b.Layout().SideNames(layout.Right); len(names) != 0 {
		t.Errorf("right side = %v, want no panel", names)
	}
	if !b.Deformation().IsClustered(deform.Rows) {
		t.Error("rows are not clustered")
	}
}

func TestBoardDendrogramTiedGroups(t *testing.T) {
	// Both groups have column means (1.5, 1.5).
	data := mat.NewDense(4, 2, []float64{1, 2, 2, 1, 0, 3, 3, 0})
	b := mustBoard(t, "tied", data)
	must(t, b.GroupRows([]string{"a", "a", "b", "b"}, nil, 0.05))
	must(t, b.AddDendrogram(layout.Left, DendrogramOptions{}))
	must(t, b.Render(&lineSurface{}, 1))

	rows, err := b.Dendrogram("left-dendrogram-0")
	must(t, err)
	if len(rows.Filter(dendrogram.KindMeta)) == 0 {
		t.Error("tied groups drew no meta tree")
	}
	if len(rows.Filter(dendrogram.KindBase)) != 2 {
		t.Errorf("chunk tree lines = %d, want 2", len(rows.Filter(dendrogram.KindBase)))
	}
}

func TestBoardDendrogramDuplicate(t *testing.T) {
	b := mustBoard(t, "heatmap", sample(5, 3))
	must(t, b.AddCanvas(layout.Left, "taken", 1, 0))
	err := b.AddDendrogram(layout.Left, DendrogramOptions{Name: "taken"})
	if !errors.Is(err, errors.ErrCodeDuplicateName) {
		t.Fatalf("error = %v, want DUPLICATE_NAME", err)
	}
	if b.Deformation().IsClustered(deform.Rows) {
		t.Error("rejected dendrogram clustered the rows")
	}
}

func TestTransformFor(t *testing.T) {
	b := mustBoard(t, "heatmap", sample(6, 4))
	must(t, b.CutRows([]int{2}, 0.1))

	vertical := &statPlan{trackPlan: trackPlan{data: mat.NewDense(1, 4, nil)}, orient: Vertical}
	if _, err := b.TransformFor(layout.Main, vertical); !errors.Is(err, errors.ErrCodeSplitConflict) {
		t.Errorf("vertical stats on row split error = %v, want SPLIT_CONFLICT", err)
	}
	horizontal := &statPlan{trackPlan: trackPlan{data: mat.NewDense(1, 6, nil)}, orient: Horizontal}
	got, err := b.TransformFor(layout.Main, horizontal)
	must(t, err)
	if len(got.Tracks) != 2 {
		t.Errorf("horizontal stats tracks = %d, want 2", len(got.Tracks))
	}

	wrong := &trackPlan{data: mat.NewDense(1, 5, nil)}
	if _, err := b.TransformFor(layout.Left, wrong); !errors.Is(err, errors.ErrCodeDataShape) {
		t.Errorf("wrong track length error = %v, want DATA_SHAPE", err)
	}
	if got, err := b.TransformFor(layout.Top, &fixedPlan{}); err != nil || got.Tracks != nil {
		t.Errorf("plan without data = %+v, %v", got, err)
	}

	plain := mustBoard(t, "plain", nil)
	raw, err := plain.TransformFor(layout.Left, wrong)
	must(t, err)
	if raw.Raw == nil {
		t.Error("board without data did not pass raw data through")
	}
}

func TestBoardFlexibleSize(t *testing.T) {
	b := mustBoard(t, "heatmap", nil)
	must(t, b.AddPlot(layout.Top, &sizedPlan{size: 0.7}, PlotOptions{Name: "auto"}))
	must(t, b.AddPlot(layout.Top, &sizedPlan{size: 0.7}, PlotOptions{Name: "fixed", Size: 0.2}))
	must(t, b.AddPlot(layout.Bottom, &trackPlan{}, PlotOptions{Name: "default"}))
	must(t, b.Render(layout.NewRecorder(), 1))

	for name, want := range map[string]float64{"auto": 0.7, "fixed": 0.2, "default": DefaultSize} {
		c, err := b.Layout().Cell(name)
		must(t, err)
		if math.Abs(c.Size-want) > 1e-12 {
			t.Errorf("%s size = %v, want %v", name, c.Size, want)
		}
	}
}

func TestBoardRegroup(t *testing.T) {
	b := mustBoard(t, "heatmap", sample(8, 3))
	must(t, b.CutRows([]int{2, 4, 6}, 0.02))
	must(t, b.AddPlot(layout.Left, &regroupPlan{groups: []float64{1, 1}}, PlotOptions{Name: "groups"}))
	must(t, b.AddPlot(layout.Right, &fixedPlan{}, PlotOptions{Name: "whole"}))
	must(t, b.Render(layout.NewRecorder(), 1))

	for name, want := range map[string]int{"heatmap": 4, "groups": 2, "whole": 1} {
		p, err := b.Panel(name)
		must(t, err)
		if len(p.Regions) != want {
			t.Errorf("%s regions = %d, want %d", name, len(p.Regions), want)
		}
	}
}

func TestBoardLegend(t *testing.T) {
	b := mustBoard(t, "heatmap", nil)
	must(t, b.AddLegend(layout.Right, 0.1, layout.Fixed(0.5)))
	must(t, b.Render(layout.NewRecorder(), 1))
	if got := b.Layout().SideSize(layout.Right); math.Abs(got-0.6) > 1e-12 {
		t.Errorf("right side = %v, want 0.6", got)
	}
}

func TestBoardErrors(t *testing.T) {
	plain := mustBoard(t, "plain", nil)
	if err := plain.AddDendrogram(layout.Left, DendrogramOptions{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("dendrogram without data error = %v, want INVALID_INPUT", err)
	}
	if err := plain.CutRows([]int{1}, 0); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("cut without data error = %v, want INVALID_INPUT", err)
	}

	b := mustBoard(t, "heatmap", sample(6, 4))
	must(t, b.CutRows([]int{3}, 0.01))
	if err := b.CutRows([]int{2}, 0.01); !errors.Is(err, errors.ErrCodeSplitTwice) {
		t.Errorf("second cut error = %v, want SPLIT_TWICE", err)
	}
	labels := []string{"a", "b", "a", "b", "a", "b"}
	if err := b.GroupRows(labels, nil, 0.01); !errors.Is(err, errors.ErrCodeSplitTwice) {
		t.Errorf("group after cut error = %v, want SPLIT_TWICE", err)
	}
	if err := b.GroupCols([]string{"x", "y"}, nil, 0.01); !errors.Is(err, errors.ErrCodeInvalidInput) && !errors.Is(err, errors.ErrCodeDataShape) {
		t.Errorf("short labels error = %v, want a validation error", err)
	}
	if err := b.CutCols([]int{1}, 1.5); !errors.Is(err, errors.ErrCodeInvalidRatios) {
		t.Errorf("spacing 1.5 error = %v, want INVALID_RATIOS", err)
	}
	if err := b.AddDendrogram(layout.Main, DendrogramOptions{}); !errors.Is(err, errors.ErrCodeInvalidSide) {
		t.Errorf("main dendrogram error = %v, want INVALID_SIDE", err)
	}
}

func TestComposite(t *testing.T) {
	a := mustBoard(t, "a", sample(6, 4))
	b := mustBoard(t, "b", sample(6, 2))
	must(t, a.AddDendrogram(layout.Left, DendrogramOptions{}))
	must(t, b.AddPlot(layout.Top, &trackPlan{}, PlotOptions{Name: "bars", Size: 0.5}))

	c, err := a.Append(layout.Right, b)
	must(t, err)
	must(t, c.AppendSpace(layout.Right, 0.3))
	must(t, c.AddLegend(layout.Right, 0.1, layout.Fixed(0.4)))

	rec := layout.NewRecorder()
	must(t, c.Render(rec, 1))
	for _, key := range []string{"a/a/0", "b/b/0", "b/bars/0"} {
		if _, ok := rec.Rect(key); !ok {
			t.Errorf("region %q not placed", key)
		}
	}
	w, _ := c.FigureSize()
	if rw, _ := rec.Size(); math.Abs(rw-w) > 1e-9 {
		t.Errorf("surface width = %v, want %v", rw, w)
	}
	if got, err := c.Board("b"); err != nil || got != b {
		t.Errorf("Board(b) = %v, %v", got, err)
	}

	if _, err := b.Append(layout.Left, mustBoard(t, "z", nil)); !errors.Is(err, errors.ErrCodeAppendLayout) {
		t.Errorf("append to an appended board error = %v, want APPEND_LAYOUT", err)
	}
}

func TestStack(t *testing.T) {
	a := mustBoard(t, "a", sample(6, 4))
	b := mustBoard(t, "b", sample(5, 3))
	x := mustBoard(t, "x", nil)
	must(t, a.AddDendrogram(layout.Top, DendrogramOptions{}))
	c, err := b.Append(layout.Bottom, x)
	must(t, err)

	s, err := Stack([]Figure{a, c}, layout.Horizontal, layout.AlignCenter, 0.5)
	must(t, err)
	rec := layout.NewRecorder()
	must(t, s.Render(rec, 1))
	for _, key := range []string{"a/a/0", "b/b/0", "x/x/0"} {
		if _, ok := rec.Rect(key); !ok {
			t.Errorf("region %q not placed", key)
		}
	}
	if _, err := s.Board("x"); err != nil {
		t.Errorf("Board(x) error = %v", err)
	}
	if _, err := Stack([]Figure{a}, layout.Vertical, layout.AlignCenter, 0); !errors.Is(err, errors.ErrCodeAppendLayout) {
		t.Errorf("restack error = %v, want APPEND_LAYOUT", err)
	}
}
