package cluster

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/crossboard/pkg/errors"
)

// Method names the rule for the distance between a merged cluster and the rest.
type Method string

const (
	Single   Method = "single"
	Complete Method = "complete"
	Average  Method = "average"
	Weighted Method = "weighted"
	Ward     Method = "ward"
	Centroid Method = "centroid"
	Median   Method = "median"
)

// DefaultMethod is used when no method is given.
const DefaultMethod = Single

// Methods lists every supported linkage method.
var Methods = []Method{Single, Complete, Average, Weighted, Ward, Centroid, Median}

// ParseMethod resolves a method name. The empty string selects [DefaultMethod].
func ParseMethod(s string) (Method, error) {
	if s == "" {
		return DefaultMethod, nil
	}
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Methods {
		if m == known {
			return m, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidMethod, "unknown linkage method %q", s)
}

// RequiresEuclidean reports whether the method is only defined for euclidean distances.
func (m Method) RequiresEuclidean() bool {
	return m == Ward || m == Centroid || m == Median
}

// Linkage clusters the rows of data and returns the (n-1)×4 linkage matrix.
// data must have at least two rows. Callers that want the metric substitution
// for ward/centroid/median must apply it before calling; Linkage rejects the
// combination instead of overriding it.
func Linkage(data mat.Matrix, method Method, metric Metric) (*mat.Dense, error) {
	if _, err := ParseMethod(string(method)); err != nil {
		return nil, err
	}
	if method.RequiresEuclidean() && metric != Euclidean {
		return nil, errors.New(errors.ErrCodeInvalidMetric,
			"method %q requires the euclidean metric, got %q", method, metric)
	}
	r, _ := data.Dims()
	if r < 2 {
		return nil, errors.New(errors.ErrCodeDataShape, "linkage needs at least 2 observations, got %d", r)
	}
	d, err := Pdist(data, metric)
	if err != nil {
		return nil, err
	}
	return LinkageFromDistances(d, method)
}

// LinkageFromDistances clusters n observations from their distance matrix.
// The input is not modified.
func LinkageFromDistances(dist *mat.SymDense, method Method) (*mat.Dense, error) {
	n := dist.SymmetricDim()
	if n < 2 {
		return nil, errors.New(errors.ErrCodeDataShape, "linkage needs at least 2 observations, got %d", n)
	}

	d := mat.NewSymDense(n, nil)
	d.CopySym(dist)

	ids := make([]int, n)
	sizes := make([]float64, n)
	active := make([]bool, n)
	for i := range ids {
		ids[i] = i
		sizes[i] = 1
		active[i] = true
	}

	z := mat.NewDense(n-1, 4, nil)
	for step := 0; step < n-1; step++ {
		bi, bj := -1, -1
		best := math.Inf(1)
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if !active[j] {
					continue
				}
				if v := d.At(i, j); v < best || bi < 0 {
					best, bi, bj = v, i, j
				}
			}
		}

		lo, hi := ids[bi], ids[bj]
		if lo > hi {
			lo, hi = hi, lo
		}
		ni, nj := sizes[bi], sizes[bj]
		z.SetRow(step, []float64{float64(lo), float64(hi), best, ni + nj})

		// The merged cluster reuses slot bi.
		for k := 0; k < n; k++ {
			if !active[k] || k == bi || k == bj {
				continue
			}
			d.SetSym(bi, k, update(method, d.At(bi, k), d.At(bj, k), best, ni, nj, sizes[k]))
		}
		active[bj] = false
		ids[bi] = n + step
		sizes[bi] = ni + nj
	}
	return z, nil
}

// update is the Lance–Williams recurrence for d(k, i∪j).
func update(m Method, dki, dkj, dij, ni, nj, nk float64) float64 {
	switch m {
	case Single:
		return math.Min(dki, dkj)
	case Complete:
		return math.Max(dki, dkj)
	case Average:
		return (ni*dki + nj*dkj) / (ni + nj)
	case Weighted:
		return (dki + dkj) / 2
	case Ward:
		t := nk + ni + nj
		v := ((nk+ni)*dki*dki + (nk+nj)*dkj*dkj - nk*dij*dij) / t
		return math.Sqrt(math.Max(v, 0))
	case Centroid:
		s := ni + nj
		v := (ni*dki*dki+nj*dkj*dkj)/s - ni*nj*dij*dij/(s*s)
		return math.Sqrt(math.Max(v, 0))
	case Median:
		v := dki*dki/2 + dkj*dkj/2 - dij*dij/4
		return math.Sqrt(math.Max(v, 0))
	}
	panic("cluster: unknown method " + string(m))
}

// ValidateLinkage checks that z is a well-formed linkage matrix for n leaves.
// Every merge must reference existing, not yet merged clusters, and the size
// column must match the leaves below it.
func ValidateLinkage(z mat.Matrix, n int) error {
	if z == nil {
		return errors.New(errors.ErrCodeInvalidLinkage, "linkage matrix is nil")
	}
	r, c := z.Dims()
	if c != 4 {
		return errors.New(errors.ErrCodeInvalidLinkage, "linkage matrix must have 4 columns, got %d", c)
	}
	if r != n-1 {
		return errors.New(errors.ErrCodeInvalidLinkage, "linkage for %d leaves needs %d rows, got %d", n, n-1, r)
	}
	size := make([]float64, 2*n-1)
	used := make([]bool, 2*n-1)
	for i := 0; i < n; i++ {
		size[i] = 1
	}
	for s := 0; s < r; s++ {
		a, b := z.At(s, 0), z.At(s, 1)
		for _, v := range []float64{a, b} {
			id := int(v)
			if float64(id) != v || id < 0 || id >= n+s {
				return errors.New(errors.ErrCodeInvalidLinkage, "row %d references unknown cluster %v", s, v)
			}
			if used[id] {
				return errors.New(errors.ErrCodeInvalidLinkage, "row %d merges cluster %d twice", s, id)
			}
			used[id] = true
		}
		if a == b {
			return errors.New(errors.ErrCodeInvalidLinkage, "row %d merges cluster %v with itself", s, a)
		}
		if dist := z.At(s, 2); dist < 0 || math.IsNaN(dist) {
			return errors.New(errors.ErrCodeInvalidLinkage, "row %d has invalid distance %v", s, dist)
		}
		want := size[int(a)] + size[int(b)]
		if z.At(s, 3) != want {
			return errors.New(errors.ErrCodeInvalidLinkage, "row %d size is %v, want %v", s, z.At(s, 3), want)
		}
		size[n+s] = want
	}
	return nil
}
