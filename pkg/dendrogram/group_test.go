package dendrogram

import (
	"slices"
	"testing"

	"github.com/matzehuels/crossboard/pkg/cluster"
	"github.com/matzehuels/crossboard/pkg/errors"
)

// threeChunks builds chunks with centers 0.5, 11 and 2.5. Single linkage on
// the centers merges A and C first, so the meta order is B, A, C.
func threeChunks(t *testing.T) *Group {
	t.Helper()
	var dens []*Dendrogram
	for _, vs := range [][]float64{{0, 1}, {10, 11, 12}, {2, 3}} {
		d, err := New(column(vs...), cluster.Single, cluster.Euclidean)
		if err != nil {
			t.Fatal(err)
		}
		dens = append(dens, d)
	}
	g, err := NewGroup(dens, cluster.Single, cluster.Euclidean)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestNewGroup(t *testing.T) {
	g := threeChunks(t)
	if !slices.Equal(g.Order(), []int{1, 0, 2}) {
		t.Errorf("Order() = %v, want [1 0 2]", g.Order())
	}
	if g.Len() != 3 || g.LeafCount() != 7 {
		t.Errorf("Len() = %d, LeafCount() = %d", g.Len(), g.LeafCount())
	}
	if !near(g.Divider(), 1.26*1.05) {
		t.Errorf("Divider() = %v", g.Divider())
	}
	if r, _ := g.Linkage().Dims(); r != 2 {
		t.Errorf("meta linkage rows = %d, want 2", r)
	}
}

func TestArrange(t *testing.T) {
	g := threeChunks(t)
	a, err := g.Arrange(GroupOptions{})
	if err != nil {
		t.Fatal(err)
	}

	roots := []float64{2.5, 8, 12}
	for i, p := range a.Base {
		if p.RootX != roots[i] {
			t.Errorf("chunk %d root x = %v, want %v", p.Chunk, p.RootX, roots[i])
		}
	}
	wantMeta := [][4]float64{{8, 8, 12, 12}, {2.5, 2.5, 10, 10}}
	for i := range wantMeta {
		if a.MetaX[i] != wantMeta[i] {
			t.Errorf("MetaX[%d] = %v, want %v", i, a.MetaX[i], wantMeta[i])
		}
	}
	if a.XLim != [2]float64{0, 14} {
		t.Errorf("XLim = %v", a.XLim)
	}
	if a.DividerFrom != 1 || a.DividerTo != 13 || !near(a.Divider, g.Divider()) {
		t.Errorf("divider = %v from %v to %v", a.Divider, a.DividerFrom, a.DividerTo)
	}
	// The meta tree sits above every chunk tree.
	for _, seg := range a.MetaY {
		for _, v := range seg {
			if v < a.Divider {
				t.Fatalf("meta height %v below divider %v", v, a.Divider)
			}
		}
	}

	// Arrange does not move the children.
	x, _ := g.Dendrograms()[0].Segments()
	if x[0] != [4]float64{1, 1, 3, 3} {
		t.Errorf("child was modified: %v", x[0])
	}
}

func TestArrangeSpacingKeepsChunksApart(t *testing.T) {
	g := threeChunks(t)
	a, err := g.Arrange(GroupOptions{Spacing: []float64{0.125}})
	if err != nil {
		t.Fatal(err)
	}
	if !near(a.XLim[1], 14/0.75) {
		t.Errorf("XLim = %v", a.XLim)
	}
	var prevMax float64
	for i, p := range a.Base {
		lo, hi := minX(p.X), maxX(p.X)
		if i > 0 && lo <= prevMax {
			t.Errorf("chunk %d starts at %v, overlapping previous end %v", p.Chunk, lo, prevMax)
		}
		prevMax = hi
	}
	for _, seg := range a.MetaX {
		for _, v := range seg {
			if v < a.Base[0].RootX || v > a.Base[len(a.Base)-1].RootX {
				t.Errorf("meta x %v outside chunk roots", v)
			}
		}
	}
}

func TestArrangeOptions(t *testing.T) {
	g := threeChunks(t)

	t.Run("skip meta keeps order", func(t *testing.T) {
		a, err := g.Arrange(GroupOptions{SkipMeta: true})
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(a.Order, []int{0, 1, 2}) {
			t.Errorf("Order = %v", a.Order)
		}
		if a.Divider != 0 {
			t.Errorf("Divider = %v, want none", a.Divider)
		}
		if !near(a.YLim[1], g.Divider()) {
			t.Errorf("YLim = %v, want %v", a.YLim, g.Divider())
		}
	})

	t.Run("skip base spreads meta leaves", func(t *testing.T) {
		a, err := g.Arrange(GroupOptions{SkipBase: true})
		if err != nil {
			t.Fatal(err)
		}
		if len(a.Base) != 0 {
			t.Errorf("Base has %d chunks", len(a.Base))
		}
		if a.MetaX[1][0] != 3 || a.MetaX[0][0] != 8 || a.MetaX[0][3] != 12 {
			t.Errorf("MetaX = %v", a.MetaX)
		}
	})

	t.Run("bad spacing", func(t *testing.T) {
		_, err := g.Arrange(GroupOptions{Spacing: []float64{0.1, 0.1, 0.1}})
		if !errors.Is(err, errors.ErrCodeInvalidRatios) {
			t.Errorf("Arrange() error = %v", err)
		}
	})
}

func TestGroupDraw(t *testing.T) {
	g := threeChunks(t)
	drawing, err := g.Draw(Left, DrawOptions{})
	if err != nil {
		t.Fatal(err)
	}
	counts := map[LineKind]int{}
	for _, l := range drawing.Lines {
		counts[l.Kind]++
	}
	want := map[LineKind]int{KindMeta: 2, KindBase: 4, KindRoot: 3, KindDivider: 1}
	for k, n := range want {
		if counts[k] != n {
			t.Errorf("%s lines = %d, want %d", k, counts[k], n)
		}
	}
}

func TestGroupSingleChunk(t *testing.T) {
	d, _ := New(column(1, 2, 5), cluster.Single, cluster.Euclidean)
	g, err := NewGroup([]*Dendrogram{d}, cluster.Single, cluster.Euclidean)
	if err != nil {
		t.Fatal(err)
	}
	a, err := g.Arrange(GroupOptions{})
	if err != nil {
		t.Fatal(err)
	}
	rx, _ := d.Root()
	if a.MetaX[0][0] != rx {
		t.Errorf("meta leaf at %v, want chunk root %v", a.MetaX[0][0], rx)
	}
}

func TestGroupSingletonChunks(t *testing.T) {
	var dens []*Dendrogram
	for _, v := range []float64{0, 9, 1} {
		d, _ := New(column(v), cluster.Single, cluster.Euclidean)
		dens = append(dens, d)
	}
	g, err := NewGroup(dens, cluster.Single, cluster.Euclidean)
	if err != nil {
		t.Fatal(err)
	}
	with, _ := g.Draw(Top, DrawOptions{})
	without, _ := g.Draw(Top, DrawOptions{Group: GroupOptions{SkipMeta: true}})
	if len(with.Filter(KindBase)) != 3 {
		t.Errorf("singletons under a meta tree should be drawn")
	}
	if len(without.Filter(KindBase)) != 0 {
		t.Errorf("singletons without a meta tree should be hidden")
	}
}

// Chunks with equal centers merge at height zero in the meta tree. The merge
// top then sits at y=0 next to the meta leaves and must not be mistaken for one.
func TestArrangeTiedCenters(t *testing.T) {
	var dens []*Dendrogram
	for _, vs := range [][]float64{{1, 2}, {0, 3}, {10, 11}} {
		d, err := New(column(vs...), cluster.Single, cluster.Euclidean)
		if err != nil {
			t.Fatal(err)
		}
		dens = append(dens, d)
	}
	g, err := NewGroup(dens, cluster.Single, cluster.Euclidean)
	if err != nil {
		t.Fatal(err)
	}

	for _, opts := range []GroupOptions{{}, {SkipBase: true}, {SkipMeta: true}} {
		a, err := g.Arrange(opts)
		if err != nil {
			t.Fatalf("Arrange(%+v) error = %v", opts, err)
		}
		for i, seg := range a.MetaX {
			for _, x := range seg {
				if x < a.XLim[0] || x > a.XLim[1] {
					t.Errorf("Arrange(%+v): MetaX[%d] = %v outside %v", opts, i, seg, a.XLim)
				}
			}
		}
		if opts.SkipBase || opts.SkipMeta {
			continue
		}
		for _, p := range a.Base {
			found := false
			for i, seg := range a.MetaX {
				for j, x := range seg {
					if near(x, p.RootX) && near(a.MetaY[i][j], a.Ceiling) {
						found = true
					}
				}
			}
			if !found {
				t.Errorf("no meta leaf at root x %v of chunk %d", p.RootX, p.Chunk)
			}
		}
	}
}

func TestGroupDrawTiedCenters(t *testing.T) {
	var dens []*Dendrogram
	for _, vs := range [][]float64{{1, 2}, {0, 3}} {
		d, err := New(column(vs...), cluster.Single, cluster.Euclidean)
		if err != nil {
			t.Fatal(err)
		}
		dens = append(dens, d)
	}
	g, err := NewGroup(dens, cluster.Single, cluster.Euclidean)
	if err != nil {
		t.Fatal(err)
	}
	d, err := g.Draw(Left, DrawOptions{})
	if err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if len(d.Lines) == 0 {
		t.Error("Draw() returned no lines")
	}
}
