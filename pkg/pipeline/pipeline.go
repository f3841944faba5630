// Package pipeline turns board documents into figures.
//
// A document (TOML or JSON, see [Document]) describes boards, the panels and
// dendrograms around them, and how boards are appended or stacked. The
// pipeline builds the boards, renders the figure and exports it. CLI and
// HTTP server both run documents through a [Runner] so they share caching
// and defaults.
//
// # Stages
//
//  1. Load: decode and validate the document
//  2. Build: create boards, split and cluster their axes, add panels
//  3. Render: freeze the layout onto a surface and draw every plan
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	doc, err := pipeline.Load("board.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, doc, pipeline.Options{Format: "svg"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("board.svg", result.Output, 0o644)
//
// # Caching
//
// Linkage matrices are cached per data matrix, axis chunks and clustering
// options, so re-rendering a document with a different layout reuses the
// clustering. Rendered outputs are cached per document and render options.
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/crossboard/pkg/cache"
	"github.com/matzehuels/crossboard/pkg/errors"
	"github.com/matzehuels/crossboard/pkg/render/svg"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

const (
	// DefaultFormat is the output format when none is given.
	DefaultFormat = FormatSVG

	// DefaultScale multiplies the figure size. Layout geometry is in inches;
	// the scale only changes the surface size.
	DefaultScale = 1.0

	// DefaultDPI is the SVG pixel density.
	DefaultDPI = svg.DefaultDPI
)

// Options configures a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Format string  `json:"format,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
	DPI    float64 `json:"dpi,omitempty"`
	// Debug outlines and labels every region.
	Debug bool `json:"debug,omitempty"`
	// Refresh ignores cached entries and overwrites them.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Output is the rendered figure in the requested format.
	Output []byte

	// Format of Output.
	Format string

	// Width and Height are the figure size in inches.
	Width, Height float64

	// Boards lists the board names in build order.
	Boards []string

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits of a run.
type CacheInfo struct {
	LinkageHits   int  // Clustered axes restored from cache
	LinkageMisses int  // Clustered axes computed
	RenderHit     bool // Whether the output came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// Formats returns the supported formats in sorted order.
func Formats() []string {
	out := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// ValidateAndSetDefaults checks options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if err := errors.ValidateSize("scale", o.Scale); err != nil {
		return err
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if err := errors.ValidateSize("dpi", o.DPI); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// RenderKeyOpts returns cache key options for the rendered output.
func (o *Options) RenderKeyOpts() cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Format: o.Format,
		Scale:  o.Scale,
		DPI:    o.DPI,
		Debug:  o.Debug,
	}
}
