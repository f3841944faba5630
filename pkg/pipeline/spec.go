package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/crossboard/pkg/errors"
)

// Document describes a figure: a single board, a board with boards
// appended around it, or a stack of documents.
//
//	[board]
//	name = "expr"
//	width = 4
//	height = 3
//	data = [[1, 2], [3, 4]]
//
//	[[board.dendrogram]]
//	side = "left"
//
//	[[append]]
//	side = "right"
//	[append.board]
//	name = "meta"
//	width = 0.5
//	height = 3
type Document struct {
	Board  *Spec        `toml:"board" json:"board,omitempty"`
	Append []AppendSpec `toml:"append" json:"append,omitempty"`
	Stack  *StackSpec   `toml:"stack" json:"stack,omitempty"`
	// Legend is the figure legend of a composite or a stack.
	Legend *LegendSpec `toml:"legend" json:"legend,omitempty"`
}

// Spec describes one board.
type Spec struct {
	Name   string  `toml:"name" json:"name"`
	Width  float64 `toml:"width" json:"width"`
	Height float64 `toml:"height" json:"height"`
	// Margin is one value for all edges or four values in the order top,
	// right, bottom, left. Nil keeps the default margin.
	Margin []float64 `toml:"margin" json:"margin,omitempty"`

	// Data is the matrix the board orders, one inner slice per row.
	Data      [][]float64 `toml:"data" json:"data,omitempty"`
	RowLabels []string    `toml:"row_labels" json:"row_labels,omitempty"`
	ColLabels []string    `toml:"col_labels" json:"col_labels,omitempty"`
	Rows      AxisSpec    `toml:"rows" json:"rows"`
	Cols      AxisSpec    `toml:"cols" json:"cols"`

	// Main is the main panel plan: "heatmap" (the default with data) or
	// "none".
	Main        string           `toml:"main" json:"main,omitempty"`
	Panels      []PanelSpec      `toml:"panel" json:"panels,omitempty"`
	Dendrograms []DendrogramSpec `toml:"dendrogram" json:"dendrograms,omitempty"`
	Legend      *LegendSpec      `toml:"legend" json:"legend,omitempty"`
}

// AxisSpec splits one axis of the board data, either by cut positions or
// by one group label per item.
type AxisSpec struct {
	Cut    []int    `toml:"cut" json:"cut,omitempty"`
	Groups []string `toml:"groups" json:"groups,omitempty"`
	// Order lists group labels in display order.
	Order []string `toml:"order" json:"order,omitempty"`
	// Spacing between chunks as a fraction of the panel. Zero keeps the
	// board default.
	Spacing float64 `toml:"spacing" json:"spacing,omitempty"`
}

// Panel kinds.
const (
	PanelLabels = "labels"
	PanelBars   = "bars"
	PanelColors = "colors"
	PanelCanvas = "canvas"
	PanelPad    = "pad"
)

// Main panel kinds.
const (
	MainHeatmap = "heatmap"
	MainNone    = "none"
)

// PanelSpec is a side panel.
type PanelSpec struct {
	Side string `toml:"side" json:"side"`
	Kind string `toml:"kind" json:"kind"`
	Name string `toml:"name" json:"name,omitempty"`
	// Size in inches. Zero lets labels size themselves.
	Size float64 `toml:"size" json:"size,omitempty"`
	Pad  float64 `toml:"pad" json:"pad,omitempty"`
	// Values are the bar lengths, one per item of the axis.
	Values []float64 `toml:"values" json:"values,omitempty"`
	// Labels are the text of a labels panel or the categories of a colors
	// panel, one per item. Labels panels default to the board labels.
	Labels []string `toml:"labels" json:"labels,omitempty"`
}

// DendrogramSpec clusters the axis a side follows and draws its tree.
type DendrogramSpec struct {
	Side      string  `toml:"side" json:"side"`
	Name      string  `toml:"name" json:"name,omitempty"`
	Method    string  `toml:"method" json:"method,omitempty"`
	Metric    string  `toml:"metric" json:"metric,omitempty"`
	Size      float64 `toml:"size" json:"size,omitempty"`
	Pad       float64 `toml:"pad" json:"pad,omitempty"`
	SkipMeta  bool    `toml:"skip_meta" json:"skip_meta,omitempty"`
	SkipBase  bool    `toml:"skip_base" json:"skip_base,omitempty"`
	NoDivider bool    `toml:"no_divider" json:"no_divider,omitempty"`
	MetaRatio float64 `toml:"meta_ratio" json:"meta_ratio,omitempty"`
	AddRoot   bool    `toml:"add_root" json:"add_root,omitempty"`
	Hide      bool    `toml:"hide" json:"hide,omitempty"`
}

// LegendSpec places a legend listing the categories of colors panels.
type LegendSpec struct {
	Side  string  `toml:"side" json:"side"`
	Pad   float64 `toml:"pad" json:"pad,omitempty"`
	Title string  `toml:"title" json:"title,omitempty"`
}

// AppendSpec concatenates a board, or empty space, to a side of the
// document's board.
type AppendSpec struct {
	Side  string  `toml:"side" json:"side"`
	Board *Spec   `toml:"board" json:"board,omitempty"`
	Space float64 `toml:"space" json:"space,omitempty"`
}

// StackSpec stacks documents in a row or a column.
type StackSpec struct {
	Direction string     `toml:"direction" json:"direction"`
	Align     string     `toml:"align" json:"align,omitempty"`
	Spacing   float64    `toml:"spacing" json:"spacing,omitempty"`
	Items     []Document `toml:"item" json:"items"`
}

// Document formats.
const (
	SpecTOML = "toml"
	SpecJSON = "json"
)

// Parse decodes a document. An empty format sniffs JSON by a leading brace
// and falls back to TOML.
func Parse(data []byte, format string) (*Document, error) {
	if format == "" {
		format = SpecTOML
		if t := bytes.TrimSpace(data); len(t) > 0 && t[0] == '{' {
			format = SpecJSON
		}
	}

	var doc Document
	switch format {
	case SpecTOML:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml")
		}
	case SpecJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown document format %q", format)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads and parses a document file. The format follows the extension.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format := ""
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		format = SpecTOML
	case ".json":
		format = SpecJSON
	}
	return Parse(data, format)
}

// Validate checks the document structure. Geometry and data errors are
// reported later by the layout and deformation engines.
func (d *Document) Validate() error {
	switch {
	case d.Board == nil && d.Stack == nil:
		return errors.New(errors.ErrCodeInvalidInput, "document needs a board or a stack")
	case d.Board != nil && d.Stack != nil:
		return errors.New(errors.ErrCodeInvalidInput, "document cannot have both a board and a stack")
	case d.Stack != nil && len(d.Append) > 0:
		return errors.New(errors.ErrCodeInvalidInput, "boards can only be appended to a board")
	}

	if d.Stack != nil {
		if len(d.Stack.Items) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "stack needs at least one item")
		}
		for i := range d.Stack.Items {
			if err := d.Stack.Items[i].Validate(); err != nil {
				return errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInvalidInput), err, "stack item %d", i)
			}
		}
		return nil
	}

	if err := d.Board.validate(); err != nil {
		return err
	}
	for i, a := range d.Append {
		if (a.Board == nil) == (a.Space == 0) {
			return errors.New(errors.ErrCodeInvalidInput, "append %d needs either a board or a space", i)
		}
		if a.Board != nil {
			if err := a.Board.validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Spec) validate() error {
	if err := errors.ValidateName(s.Name); err != nil {
		return err
	}
	if n := len(s.Margin); n != 0 && n != 1 && n != 4 {
		return errors.New(errors.ErrCodeInvalidInput, "board %q: margin needs 1 or 4 values, got %d", s.Name, n)
	}
	for i, row := range s.Data {
		if len(row) != len(s.Data[0]) {
			return errors.New(errors.ErrCodeDataShape, "board %q: data row %d has %d values, want %d",
				s.Name, i, len(row), len(s.Data[0]))
		}
	}
	if len(s.Data) > 0 && len(s.Data[0]) == 0 {
		return errors.New(errors.ErrCodeDataShape, "board %q: data rows are empty", s.Name)
	}
	switch s.Main {
	case "", MainHeatmap, MainNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "board %q: unknown main plan %q", s.Name, s.Main)
	}
	for _, p := range s.Panels {
		switch p.Kind {
		case PanelLabels, PanelBars, PanelColors, PanelCanvas, PanelPad:
		default:
			return errors.New(errors.ErrCodeInvalidInput, "board %q: unknown panel kind %q", s.Name, p.Kind)
		}
	}
	return nil
}

// rows returns the number of data rows.
func (s *Spec) rows() int { return len(s.Data) }

// cols returns the number of data columns.
func (s *Spec) cols() int {
	if len(s.Data) == 0 {
		return 0
	}
	return len(s.Data[0])
}

// hasData reports whether the board carries a matrix.
func (s *Spec) hasData() bool { return len(s.Data) > 0 }

// Boards returns every board spec in the document in build order.
func (d *Document) Boards() []*Spec {
	var out []*Spec
	if d.Board != nil {
		out = append(out, d.Board)
	}
	for _, a := range d.Append {
		if a.Board != nil {
			out = append(out, a.Board)
		}
	}
	if d.Stack != nil {
		for i := range d.Stack.Items {
			out = append(out, d.Stack.Items[i].Boards()...)
		}
	}
	return out
}
