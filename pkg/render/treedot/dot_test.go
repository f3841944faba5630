package treedot

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/crossboard/pkg/errors"
)

// three leaves: (0,1) at 1, then (2,3) at 2.
func threeLeaves() *mat.Dense {
	return mat.NewDense(2, 4, []float64{
		0, 1, 1, 2,
		2, 3, 2, 3,
	})
}

func TestToDOT(t *testing.T) {
	dot := ToDOT([]Tree{{Name: "rows", Linkage: threeLeaves(), Labels: []string{"a", "b"}}}, Options{})

	for _, want := range []string{
		"digraph linkage {",
		"rankdir=TB;",
		"subgraph cluster_0 {",
		`label="rows";`,
		`t0_0 [shape=box, style=rounded, fontsize=10, label="a"];`,
		`t0_2 [shape=box, style=rounded, fontsize=10, label="2"];`,
		"t0_3 -> t0_0;",
		"t0_3 -> t0_1;",
		"t0_4 -> t0_2;",
		"t0_4 -> t0_3;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "shape=plaintext") {
		t.Error("heights should be hidden by default")
	}
}

func TestToDOTOptions(t *testing.T) {
	dot := ToDOT([]Tree{{Linkage: threeLeaves()}}, Options{Heights: true, LeftToRight: true})
	if !strings.Contains(dot, "rankdir=LR;") {
		t.Error("LeftToRight should set rankdir=LR")
	}
	if !strings.Contains(dot, `t0_4 [shape=plaintext, fontsize=8, label="2"];`) {
		t.Errorf("missing merge height label\n%s", dot)
	}
}

func TestToDOTForest(t *testing.T) {
	dot := ToDOT([]Tree{
		{Name: "lo", Linkage: threeLeaves()},
		{Name: "solo", Labels: []string{"x"}},
	}, Options{})

	if !strings.Contains(dot, "subgraph cluster_1 {") {
		t.Error("second tree should get its own subgraph")
	}
	if !strings.Contains(dot, `t1_0 [shape=box, style=rounded, fontsize=10, label="x"];`) {
		t.Error("a tree without linkage should draw its single leaf")
	}
	if strings.Contains(dot, "t1_1") {
		t.Error("a single leaf tree has no merge nodes")
	}
}

func TestValidate(t *testing.T) {
	if err := Validate([]Tree{{Linkage: threeLeaves()}, {}}); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	bad := mat.NewDense(1, 4, []float64{0, 0, 1, 2})
	err := Validate([]Tree{{Name: "bad", Linkage: bad}})
	if !errors.Is(err, errors.ErrCodeInvalidLinkage) {
		t.Errorf("Validate() = %v, want INVALID_LINKAGE", err)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox() = %s, want %s", out, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}
