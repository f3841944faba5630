package layout

import (
	"testing"

	"github.com/matzehuels/crossboard/pkg/errors"
)

// newComposite builds a with b appended right and c appended below.
func newComposite(t *testing.T) (*CompositeCrossLayout, *CrossLayout, *CrossLayout, *CrossLayout) {
	t.Helper()
	a := mustCross(t, "a", 2, 2)
	must(t, a.AddAx(Left, "al", 1, 0))
	must(t, a.AddAx(Top, "at", 0.5, 0))
	b := mustCross(t, "b", 3, 5)
	must(t, b.AddAx(Right, "br", 0.5, 0))
	must(t, b.AddAx(Top, "bt", 1, 0))
	c := mustCross(t, "c", 1, 1)
	must(t, c.AddAx(Left, "cl", 2, 0))

	comp, err := a.Append(Right, b)
	must(t, err)
	must(t, comp.Append(Bottom, c))
	return comp, a, b, c
}

func TestCompositeAlignment(t *testing.T) {
	_, _, b, c := newComposite(t)
	if !near(b.MainHeight(), 2) {
		t.Errorf("right layout height = %v, want 2", b.MainHeight())
	}
	if !near(c.MainWidth(), 2) {
		t.Errorf("bottom layout width = %v, want 2", c.MainWidth())
	}

	a := mustCross(t, "a", 2, 2)
	d := mustCross(t, "d", 3, 5)
	comp, err := Compose(a, WithoutAlignment())
	must(t, err)
	must(t, comp.Append(Left, d))
	if !near(d.MainHeight(), 5) {
		t.Errorf("unaligned height = %v, want 5", d.MainHeight())
	}
}

func TestCompositeSizes(t *testing.T) {
	comp, _, _, _ := newComposite(t)
	sides := map[Side]float64{Left: 2, Right: 3.5, Top: 1, Bottom: 1}
	for side, want := range sides {
		if got := comp.SideSize(side); !near(got, want) {
			t.Errorf("SideSize(%s) = %v, want %v", side, got, want)
		}
	}
	if w, h := comp.BBoxSize(); !near(w, 7.5) || !near(h, 4) {
		t.Errorf("BBoxSize() = %v, %v, want 7.5, 4", w, h)
	}
	if w, h := comp.FigureSize(); !near(w, 7.9) || !near(h, 4.4) {
		t.Errorf("FigureSize() = %v, %v, want 7.9, 4.4", w, h)
	}
}

func TestCompositeFreeze(t *testing.T) {
	comp, _, _, _ := newComposite(t)
	rec := NewRecorder()
	must(t, comp.Freeze(rec, 1))

	tests := []struct {
		key  string
		want Rect
	}{
		{"a/a/0", Rect{2.2, 1.2, 2, 2}},
		{"a/al/0", Rect{1.2, 1.2, 1, 2}},
		{"a/at/0", Rect{2.2, 3.2, 2, 0.5}},
		{"b/b/0", Rect{4.2, 1.2, 3, 2}},
		{"b/br/0", Rect{7.2, 1.2, 0.5, 2}},
		{"b/bt/0", Rect{4.2, 3.2, 3, 1}},
		{"c/c/0", Rect{2.2, 0.2, 2, 1}},
		{"c/cl/0", Rect{0.2, 0.2, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := inches(t, rec, tt.key); !nearRect(got, tt.want) {
				t.Errorf("rect = %+v, want %+v", got, tt.want)
			}
		})
	}

	p, err := comp.GetAx("b", "br")
	must(t, err)
	if want := (Rect{7.2, 1.2, 0.5, 2}).Normalize(7.9, 4.4); !nearRect(p.Region().Bounds(), want) {
		t.Errorf("GetAx(b, br) = %+v, want %+v", p.Region().Bounds(), want)
	}
	if _, err := comp.GetAx("", "al"); err != nil {
		t.Errorf("GetAx with empty layout name error = %v", err)
	}
	if _, err := comp.GetAx("zz", "al"); !errors.Is(err, errors.ErrCodeUnknownName) {
		t.Errorf("GetAx(zz) error = %v, want UNKNOWN_NAME", err)
	}
}

func TestCompositeLegend(t *testing.T) {
	comp, _, _, _ := newComposite(t)
	must(t, comp.AddLegend(Right, 0.1))
	rec := NewRecorder()
	if err := comp.Freeze(rec, 1); !errors.Is(err, errors.ErrCodeLegendUnresolved) {
		t.Fatalf("Freeze() error = %v, want LEGEND_UNRESOLVED", err)
	}
	must(t, comp.ResolveLegend(Fixed(0.5)))
	if w, _ := comp.BBoxSize(); !near(w, 8.1) {
		t.Errorf("bbox width = %v, want 8.1", w)
	}
	must(t, comp.Freeze(rec, 1))
	p, err := comp.Legend()
	must(t, err)
	want := Rect{7.8, 0.2, 0.5, 3}.Normalize(8.5, 4.4)
	if got := p.Region().Bounds(); !nearRect(got, want) {
		t.Errorf("legend = %+v, want %+v", got, want)
	}
}

func TestCompositeAppendSpace(t *testing.T) {
	a := mustCross(t, "a", 2, 3, WithMargin(Margin{}))
	comp, err := Compose(a, WithMargin(Margin{}))
	must(t, err)
	must(t, comp.AppendSpace(Top, 0.5))
	must(t, comp.AppendSpace(Right, 0.25))
	b := mustCross(t, "b", 1, 1)
	must(t, comp.Append(Right, b))

	if w, h := comp.BBoxSize(); !near(w, 3.25) || !near(h, 3.5) {
		t.Errorf("BBoxSize() = %v, %v, want 3.25, 3.5", w, h)
	}
	rec := NewRecorder()
	must(t, comp.Freeze(rec, 1))
	if got := inches(t, rec, "b/b/0"); !nearRect(got, Rect{2.25, 0, 1, 3}) {
		t.Errorf("b = %+v, want right of the spacer", got)
	}
	if n := len(rec.Keys()); n != 2 {
		t.Errorf("regions = %d, want 2 (spacers are not canvases)", n)
	}
}

func TestCompositeAppendErrors(t *testing.T) {
	comp, a, b, _ := newComposite(t)
	other, err := Compose(mustCross(t, "o", 1, 1))
	must(t, err)

	tests := []struct {
		name string
		run  func() error
		want errors.Code
	}{
		{"Owned", func() error { return comp.Append(Left, b) }, errors.ErrCodeAppendLayout},
		{"Self", func() error { return comp.Append(Left, a) }, errors.ErrCodeAppendLayout},
		{"Composite", func() error { return comp.Append(Left, other) }, errors.ErrCodeAppendLayout},
		{"Duplicate", func() error { return comp.Append(Left, mustCross(t, "b", 1, 1)) }, errors.ErrCodeDuplicateName},
		{"Side", func() error { return comp.Append(Main, mustCross(t, "x", 1, 1)) }, errors.ErrCodeInvalidSide},
		{"FreezeOwned", func() error { return a.Freeze(NewRecorder(), 1) }, errors.ErrCodeInvalidInput},
		{"ComposeOwned", func() error { _, err := Compose(b); return err }, errors.ErrCodeAppendLayout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %s", err, tt.want)
			}
		})
	}
	if n := len(comp.Layouts(Left)); n != 0 {
		t.Errorf("left layouts = %d after rejected appends, want 0", n)
	}

	s, err := Stack([]Layout{comp}, Horizontal, AlignCenter, 0)
	must(t, err)
	if err := comp.Append(Top, mustCross(t, "late", 1, 1)); !errors.Is(err, errors.ErrCodeAppendLayout) {
		t.Errorf("append after stacking error = %v, want APPEND_LAYOUT", err)
	}
	if err := comp.Append(Top, s); !errors.Is(err, errors.ErrCodeAppendLayout) {
		t.Errorf("append stack error = %v, want APPEND_LAYOUT", err)
	}
}

func TestCrossLayoutAppendRollback(t *testing.T) {
	a := mustCross(t, "a", 1, 1)
	other, err := Compose(mustCross(t, "o", 1, 1))
	must(t, err)
	if _, err := a.Append(Right, other); !errors.Is(err, errors.ErrCodeAppendLayout) {
		t.Fatalf("Append(composite) error = %v, want APPEND_LAYOUT", err)
	}
	if err := a.Freeze(NewRecorder(), 1); err != nil {
		t.Errorf("Freeze() after failed append error = %v", err)
	}
}
