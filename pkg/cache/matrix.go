package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
)

// matrixJSON is the stored form of a matrix. A nil matrix is stored as null.
type matrixJSON struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

func encodeMatrix(m *mat.Dense) *matrixJSON {
	if m == nil {
		return nil
	}
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		data = append(data, m.RawRowView(i)...)
	}
	return &matrixJSON{Rows: r, Cols: c, Data: data}
}

func (m *matrixJSON) decode() (*mat.Dense, error) {
	if m == nil {
		return nil, nil
	}
	if m.Rows <= 0 || m.Cols <= 0 || len(m.Data) != m.Rows*m.Cols {
		return nil, fmt.Errorf("%w: matrix %dx%d with %d values", ErrCorrupt, m.Rows, m.Cols, len(m.Data))
	}
	return mat.NewDense(m.Rows, m.Cols, m.Data), nil
}

// MarshalMatrices encodes named matrices. Nil entries are kept as nil.
func MarshalMatrices(ms map[string]*mat.Dense) ([]byte, error) {
	out := make(map[string]*matrixJSON, len(ms))
	for k, m := range ms {
		out[k] = encodeMatrix(m)
	}
	return json.Marshal(out)
}

// UnmarshalMatrices decodes matrices written by [MarshalMatrices].
func UnmarshalMatrices(data []byte) (map[string]*mat.Dense, error) {
	var raw map[string]*matrixJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	out := make(map[string]*mat.Dense, len(raw))
	for k, m := range raw {
		d, err := m.decode()
		if err != nil {
			return nil, fmt.Errorf("matrix %q: %w", k, err)
		}
		out[k] = d
	}
	return out, nil
}

// GetMatrices loads named matrices. Undecodable entries are deleted and
// reported as misses. An entry lacking any of the required names is deleted
// and reported as [ErrNotFound].
func GetMatrices(ctx context.Context, c Cache, key string, required ...string) (map[string]*mat.Dense, bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	ms, err := UnmarshalMatrices(data)
	if err != nil {
		_ = c.Delete(ctx, key)
		return nil, false, nil
	}
	for _, name := range required {
		if _, ok := ms[name]; !ok {
			_ = c.Delete(ctx, key)
			return nil, false, fmt.Errorf("matrix %q: %w", name, ErrNotFound)
		}
	}
	return ms, true, nil
}

// SetMatrices stores named matrices under key.
func SetMatrices(ctx context.Context, c Cache, key string, ms map[string]*mat.Dense, ttl time.Duration) error {
	data, err := MarshalMatrices(ms)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
