package dendrogram

import (
	"math"
	"slices"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/crossboard/pkg/cluster"
	"github.com/matzehuels/crossboard/pkg/errors"
)

func column(vs ...float64) *mat.Dense {
	return mat.NewDense(len(vs), 1, vs)
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestNew(t *testing.T) {
	d, err := New(column(0, 1, 4, 10), cluster.Single, cluster.Euclidean)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := d.Leaves(); !slices.Equal(got, []int{3, 2, 0, 1}) {
		t.Errorf("Leaves() = %v", got)
	}
	x, y := d.Segments()
	if x[2] != [4]float64{1, 1, 4.5, 4.5} {
		t.Errorf("root x = %v", x[2])
	}
	wantY := [][4]float64{{0, .2, .2, 0}, {0, .6, .6, .2}, {0, 1.2, 1.2, .6}}
	for i := range wantY {
		for j := range wantY[i] {
			if !near(y[i][j], wantY[i][j]) {
				t.Errorf("y[%d] = %v, want %v", i, y[i], wantY[i])
				break
			}
		}
	}
	if d.XLim() != [2]float64{0, 8} {
		t.Errorf("XLim() = %v", d.XLim())
	}
	if !near(d.YLim()[1], 1.26) {
		t.Errorf("YLim() = %v", d.YLim())
	}
	rx, ry := d.Root()
	if rx != 2.75 || ry != 1.2 {
		t.Errorf("Root() = %v, %v", rx, ry)
	}
	if c := d.Center(); len(c) != 1 || c[0] != 3.75 {
		t.Errorf("Center() = %v", c)
	}
	if z := d.Linkage(); z == nil {
		t.Error("Linkage() = nil")
	}
}

func TestNewSingleton(t *testing.T) {
	d, err := New(mat.NewDense(1, 3, []float64{1, 2, 3}), cluster.Ward, cluster.Chebyshev)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !d.IsSingleton() {
		t.Error("IsSingleton() = false")
	}
	if d.Linkage() != nil {
		t.Error("Linkage() should be nil for a singleton")
	}
	x, y := d.Segments()
	if x[0] != [4]float64{1, 1, 1, 1} || y[0] != [4]float64{0, .75, .75, 0} {
		t.Errorf("Segments() = %v, %v", x, y)
	}
	if !slices.Equal(d.Leaves(), []int{0}) {
		t.Errorf("Leaves() = %v", d.Leaves())
	}
}

func TestNewSingleMergeHeight(t *testing.T) {
	d, err := New(column(3, 7), cluster.Single, cluster.Euclidean)
	if err != nil {
		t.Fatal(err)
	}
	_, y := d.Segments()
	if y[0] != [4]float64{0, 1.2, 1.2, 0} {
		t.Errorf("y = %v, want [0 1.2 1.2 0]", y[0])
	}
}

func TestNewIdenticalRows(t *testing.T) {
	d, err := New(column(2, 2, 2), cluster.Average, cluster.Euclidean)
	if err != nil {
		t.Fatal(err)
	}
	drawing, err := d.Draw(Top, DrawOptions{})
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range drawing.Lines {
		for i := range l.Y {
			if math.IsNaN(l.Y[i]) || l.Y[i] != 0 {
				t.Fatalf("flat tree should draw on the leaf edge, got %v", l.Y)
			}
		}
	}
}

func TestFromLinkage(t *testing.T) {
	z := mat.NewDense(2, 4, []float64{
		1, 2, 0.5, 2,
		0, 3, 2, 3,
	})
	d, err := FromLinkage(z, column(5, 6, 7))
	if err != nil {
		t.Fatalf("FromLinkage() error = %v", err)
	}
	if !slices.Equal(d.Leaves(), []int{0, 1, 2}) {
		t.Errorf("Leaves() = %v", d.Leaves())
	}
	if !mat.Equal(d.Linkage(), z) {
		t.Error("Linkage() should return the supplied matrix")
	}

	_, err = FromLinkage(z, column(1, 2, 3, 4))
	if !errors.Is(err, errors.ErrCodeInvalidLinkage) {
		t.Errorf("FromLinkage() with wrong size error = %v", err)
	}
}

func TestWithCentroid(t *testing.T) {
	median := func(data mat.Matrix) []float64 {
		r, _ := data.Dims()
		vs := mat.Col(nil, 0, data)
		slices.Sort(vs)
		return []float64{vs[r/2]}
	}
	d, err := New(column(0, 1, 100), cluster.Single, cluster.Euclidean, WithCentroid(median))
	if err != nil {
		t.Fatal(err)
	}
	if c := d.Center(); c[0] != 1 {
		t.Errorf("Center() = %v, want [1]", c)
	}
}

func TestDrawOrientation(t *testing.T) {
	d, err := New(column(0, 1, 4, 10), cluster.Single, cluster.Euclidean)
	if err != nil {
		t.Fatal(err)
	}
	// First point of the first segment: leaf 0 at x=5 (of 8), height 0.
	tests := []struct {
		orient Orient
		x, y   float64
	}{
		{Top, 5.0 / 8, 0},
		{Bottom, 5.0 / 8, 1},
		{Left, 1, 3.0 / 8},
		{Right, 0, 3.0 / 8},
	}
	for _, tt := range tests {
		t.Run(string(tt.orient), func(t *testing.T) {
			drawing, err := d.Draw(tt.orient, DrawOptions{})
			if err != nil {
				t.Fatal(err)
			}
			l := drawing.Lines[0]
			if !near(l.X[0], tt.x) || !near(l.Y[0], tt.y) {
				t.Errorf("first point = (%v, %v), want (%v, %v)", l.X[0], l.Y[0], tt.x, tt.y)
			}
			for _, line := range drawing.Lines {
				for i := range line.X {
					if line.X[i] < 0 || line.X[i] > 1 || line.Y[i] < 0 || line.Y[i] > 1 {
						t.Fatalf("point (%v, %v) outside the unit square", line.X[i], line.Y[i])
					}
				}
			}
		})
	}
}

func TestDrawAddRoot(t *testing.T) {
	d, _ := New(column(0, 1, 4, 10), cluster.Single, cluster.Euclidean)
	drawing, _ := d.Draw(Top, DrawOptions{AddRoot: true})
	roots := drawing.Filter(KindRoot)
	if len(roots) != 1 {
		t.Fatalf("got %d root lines, want 1", len(roots))
	}
	if roots[0].Y[1] != 1 {
		t.Errorf("root stub should reach the panel edge, got %v", roots[0].Y)
	}
	if len(drawing.Filter(KindBase)) != 3 {
		t.Errorf("got %d base lines, want 3", len(drawing.Filter(KindBase)))
	}
}

func TestParseOrient(t *testing.T) {
	if _, err := ParseOrient("diagonal"); !errors.Is(err, errors.ErrCodeInvalidSide) {
		t.Errorf("ParseOrient() error = %v", err)
	}
	if o, err := ParseOrient("left"); err != nil || !o.Vertical() {
		t.Errorf("ParseOrient(left) = %v, %v", o, err)
	}
}
