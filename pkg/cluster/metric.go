package cluster

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/crossboard/pkg/errors"
)

// Metric names a pairwise distance between two observation vectors.
type Metric string

const (
	Euclidean   Metric = "euclidean"
	SqEuclidean Metric = "sqeuclidean"
	Cityblock   Metric = "cityblock"
	Chebyshev   Metric = "chebyshev"
	Cosine      Metric = "cosine"
	Correlation Metric = "correlation"
	BrayCurtis  Metric = "braycurtis"
	Canberra    Metric = "canberra"
)

// DefaultMetric is used when no metric is given.
const DefaultMetric = Euclidean

// Metrics lists every supported metric.
var Metrics = []Metric{Euclidean, SqEuclidean, Cityblock, Chebyshev, Cosine, Correlation, BrayCurtis, Canberra}

// ParseMetric resolves a metric name. The empty string selects [DefaultMetric].
func ParseMetric(s string) (Metric, error) {
	if s == "" {
		return DefaultMetric, nil
	}
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Metrics {
		if m == known {
			return m, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidMetric, "unknown metric %q", s)
}

// Distance returns the distance between a and b, which must have equal length.
func (m Metric) Distance(a, b []float64) float64 {
	switch m {
	case Euclidean:
		return floats.Distance(a, b, 2)
	case SqEuclidean:
		d := floats.Distance(a, b, 2)
		return d * d
	case Cityblock:
		return floats.Distance(a, b, 1)
	case Chebyshev:
		return floats.Distance(a, b, math.Inf(1))
	case Cosine:
		return cosineDistance(a, b)
	case Correlation:
		ca := centered(a)
		cb := centered(b)
		return cosineDistance(ca, cb)
	case BrayCurtis:
		var num, den float64
		for i := range a {
			num += math.Abs(a[i] - b[i])
			den += math.Abs(a[i] + b[i])
		}
		if den == 0 {
			return 0
		}
		return num / den
	case Canberra:
		var d float64
		for i := range a {
			den := math.Abs(a[i]) + math.Abs(b[i])
			if den == 0 {
				continue
			}
			d += math.Abs(a[i]-b[i]) / den
		}
		return d
	}
	panic("cluster: unknown metric " + string(m))
}

func cosineDistance(a, b []float64) float64 {
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	d := 1 - floats.Dot(a, b)/(na*nb)
	if d < 0 {
		return 0
	}
	return d
}

func centered(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	floats.AddConst(-stat.Mean(v, nil), out)
	return out
}

// Pdist computes the symmetric matrix of distances between the rows of data.
func Pdist(data mat.Matrix, metric Metric) (*mat.SymDense, error) {
	if _, err := ParseMetric(string(metric)); err != nil {
		return nil, err
	}
	r, c := data.Dims()
	if r == 0 || c == 0 {
		return nil, errors.New(errors.ErrCodeDataShape, "cannot compute distances of an empty %dx%d matrix", r, c)
	}
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = mat.Row(nil, i, data)
		for _, v := range rows[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.New(errors.ErrCodeInvalidInput, "row %d contains non-finite values", i)
			}
		}
	}
	d := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i + 1; j < r; j++ {
			d.SetSym(i, j, metric.Distance(rows[i], rows[j]))
		}
	}
	return d, nil
}
