package layout

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Recorder is a [Surface] that only remembers what was placed on it.
type Recorder struct {
	width, height float64
	keys          []string
	rects         map[string]Rect
}

// NewRecorder returns an empty recording surface.
func NewRecorder() *Recorder {
	return &Recorder{rects: map[string]Rect{}}
}

type recorded struct {
	r Rect
}

func (r recorded) Bounds() Rect { return r.r }

func (r *Recorder) SetSize(w, h float64) { r.width, r.height = w, h }

func (r *Recorder) Place(key string, rect Rect) Region {
	if _, ok := r.rects[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.rects[key] = rect
	return recorded{rect}
}

// Size returns the surface size set by the last freeze.
func (r *Recorder) Size() (w, h float64) { return r.width, r.height }

// Keys returns the region keys in first-placed order.
func (r *Recorder) Keys() []string { return append([]string(nil), r.keys...) }

// Rect returns the region placed under key, as a fraction of the surface.
func (r *Recorder) Rect(key string) (Rect, bool) {
	rect, ok := r.rects[key]
	return rect, ok
}

// Inches returns the region placed under key in surface units.
func (r *Recorder) Inches(key string) (Rect, bool) {
	rect, ok := r.rects[key]
	if !ok {
		return Rect{}, false
	}
	return rect.Scale(r.width, r.height), true
}

// Snapshot is the JSON export of a frozen figure.
type Snapshot struct {
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Panels []PanelRecord `json:"panels"`
}

// PanelRecord is one placed region, in surface units.
type PanelRecord struct {
	Layout string  `json:"layout"`
	Panel  string  `json:"panel"`
	Index  int     `json:"index"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	W      float64 `json:"w"`
	H      float64 `json:"h"`
}

// Snapshot exports every region on the recorder.
func (r *Recorder) Snapshot() Snapshot {
	s := Snapshot{Width: r.width, Height: r.height, Panels: make([]PanelRecord, 0, len(r.keys))}
	for _, key := range r.keys {
		rect, _ := r.Inches(key)
		p := PanelRecord{X: rect.X, Y: rect.Y, W: rect.W, H: rect.H}
		parts := strings.SplitN(key, "/", 3)
		switch len(parts) {
		case 3:
			p.Index, _ = strconv.Atoi(parts[2])
			fallthrough
		case 2:
			p.Layout, p.Panel = parts[0], parts[1]
		default:
			p.Panel = key
		}
		s.Panels = append(s.Panels, p)
	}
	return s
}

// JSON encodes the snapshot with indentation.
func (s Snapshot) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
