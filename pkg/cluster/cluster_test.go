package cluster

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/crossboard/pkg/errors"
)

func points(vs ...float64) *mat.Dense {
	return mat.NewDense(len(vs), 1, vs)
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{"", Single, false},
		{"ward", Ward, false},
		{" Average ", Average, false},
		{"nearest", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMethod(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMethod(%q) error = %v", tt.in, err)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidMethod) {
				t.Errorf("code = %v", errors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseMethod(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseMetric(t *testing.T) {
	if m, err := ParseMetric(""); err != nil || m != Euclidean {
		t.Errorf("ParseMetric(\"\") = %q, %v", m, err)
	}
	if _, err := ParseMetric("hamming"); !errors.Is(err, errors.ErrCodeInvalidMetric) {
		t.Errorf("ParseMetric(hamming) error = %v", err)
	}
}

func TestMetricDistance(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 0, 3}
	tests := []struct {
		metric Metric
		want   float64
	}{
		{Euclidean, math.Sqrt(13)},
		{SqEuclidean, 13},
		{Cityblock, 5},
		{Chebyshev, 3},
		{BrayCurtis, 5.0 / 13.0},
		{Canberra, 3.0/5.0 + 1},
		{Cosine, 1 - 13/(math.Sqrt(14)*5)},
	}
	for _, tt := range tests {
		t.Run(string(tt.metric), func(t *testing.T) {
			if got := tt.metric.Distance(a, b); !scalar.EqualWithinAbs(got, tt.want, 1e-12) {
				t.Errorf("Distance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCorrelationOfScaledVectors(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	b := []float64{10, 20, 30, 40}
	if got := Correlation.Distance(a, b); !scalar.EqualWithinAbs(got, 0, 1e-12) {
		t.Errorf("Correlation.Distance() = %v, want 0", got)
	}
}

func TestLinkage(t *testing.T) {
	data := points(0, 1, 4, 10)
	tests := []struct {
		method Method
		want   []float64
	}{
		{Single, []float64{
			0, 1, 1, 2,
			2, 4, 3, 3,
			3, 5, 6, 4,
		}},
		{Complete, []float64{
			0, 1, 1, 2,
			2, 4, 4, 3,
			3, 5, 10, 4,
		}},
		{Average, []float64{
			0, 1, 1, 2,
			2, 4, 3.5, 3,
			3, 5, 25.0 / 3.0, 4,
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			z, err := Linkage(data, tt.method, Euclidean)
			if err != nil {
				t.Fatalf("Linkage() error = %v", err)
			}
			want := mat.NewDense(3, 4, tt.want)
			if !mat.EqualApprox(z, want, 1e-12) {
				t.Errorf("Linkage() =\n%v\nwant\n%v", mat.Formatted(z), mat.Formatted(want))
			}
			if err := ValidateLinkage(z, 4); err != nil {
				t.Errorf("ValidateLinkage() error = %v", err)
			}
		})
	}
}

func TestLinkageAllMethodsValid(t *testing.T) {
	data := mat.NewDense(6, 2, []float64{
		0, 0,
		0, 1,
		5, 5,
		5, 6,
		9, 0,
		9, 1,
	})
	for _, m := range Methods {
		t.Run(string(m), func(t *testing.T) {
			z, err := Linkage(data, m, Euclidean)
			if err != nil {
				t.Fatalf("Linkage() error = %v", err)
			}
			if err := ValidateLinkage(z, 6); err != nil {
				t.Fatalf("ValidateLinkage() error = %v", err)
			}
			// The three tight pairs merge first under every method.
			for s := 0; s < 3; s++ {
				if z.At(s, 3) != 2 {
					t.Errorf("step %d size = %v, want 2", s, z.At(s, 3))
				}
			}
		})
	}
}

func TestLinkageRejects(t *testing.T) {
	tests := []struct {
		name   string
		data   mat.Matrix
		method Method
		metric Metric
		code   errors.Code
	}{
		{"single row", points(1), Single, Euclidean, errors.ErrCodeDataShape},
		{"ward chebyshev", points(1, 2, 3), Ward, Chebyshev, errors.ErrCodeInvalidMetric},
		{"unknown method", points(1, 2), Method("nope"), Euclidean, errors.ErrCodeInvalidMethod},
		{"unknown metric", points(1, 2), Single, Metric("nope"), errors.ErrCodeInvalidMetric},
		{"nan", points(1, math.NaN()), Single, Euclidean, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Linkage(tt.data, tt.method, tt.metric)
			if !errors.Is(err, tt.code) {
				t.Errorf("Linkage() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestValidateLinkage(t *testing.T) {
	tests := []struct {
		name    string
		z       []float64
		n       int
		wantErr bool
	}{
		{"valid", []float64{0, 1, 1, 2, 2, 3, 2, 3}, 3, false},
		{"wrong rows", []float64{0, 1, 1, 2}, 3, true},
		{"future cluster", []float64{0, 4, 1, 2, 1, 2, 2, 3}, 3, true},
		{"reused cluster", []float64{0, 1, 1, 2, 0, 3, 2, 3}, 3, true},
		{"bad size", []float64{0, 1, 1, 2, 2, 3, 2, 4}, 3, true},
		{"negative distance", []float64{0, 1, -1, 2, 2, 3, 2, 3}, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := mat.NewDense(len(tt.z)/4, 4, tt.z)
			err := ValidateLinkage(z, tt.n)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLinkage() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWalk(t *testing.T) {
	z := mat.NewDense(3, 4, []float64{
		0, 1, 1, 2,
		2, 4, 3, 3,
		3, 5, 6, 4,
	})
	tree := Walk(z)

	wantLeaves := []int{3, 2, 0, 1}
	for i, l := range wantLeaves {
		if tree.Leaves[i] != l {
			t.Fatalf("Leaves = %v, want %v", tree.Leaves, wantLeaves)
		}
	}
	wantI := [][4]float64{{25, 25, 35, 35}, {15, 15, 30, 30}, {5, 5, 22.5, 22.5}}
	wantD := [][4]float64{{0, 1, 1, 0}, {0, 3, 3, 1}, {0, 6, 6, 3}}
	for i := range wantI {
		if tree.Icoord[i] != wantI[i] {
			t.Errorf("Icoord[%d] = %v, want %v", i, tree.Icoord[i], wantI[i])
		}
		if tree.Dcoord[i] != wantD[i] {
			t.Errorf("Dcoord[%d] = %v, want %v", i, tree.Dcoord[i], wantD[i])
		}
	}
	if tree.MaxHeight != 6 {
		t.Errorf("MaxHeight = %v, want 6", tree.MaxHeight)
	}
}

func TestPdist(t *testing.T) {
	d, err := Pdist(points(0, 3, 4), Cityblock)
	if err != nil {
		t.Fatal(err)
	}
	if d.At(0, 2) != 4 || d.At(2, 0) != 4 || d.At(1, 2) != 1 || d.At(1, 1) != 0 {
		t.Errorf("Pdist() = %v", mat.Formatted(d))
	}
}
