// Package render turns frozen boards into files.
//
// # Overview
//
//   - [svg]: an SVG [layout.Surface] that boards render onto
//   - [treedot]: Graphviz diagrams of linkage trees
//   - [ToPDF] and [ToPNG]: conversion of any SVG through rsvg-convert
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions shell out to rsvg-convert (from
// librsvg), so they work for figures and tree diagrams alike:
//
//	c := svg.New()
//	_ = b.Render(c, 1)
//	pdf, err := render.ToPDF(ctx, c.Bytes())
//	png, err := render.ToPNG(ctx, c.Bytes(), 2.0) // 2x scale
//
// [svg]: github.com/matzehuels/crossboard/pkg/render/svg
// [treedot]: github.com/matzehuels/crossboard/pkg/render/treedot
// [layout.Surface]: github.com/matzehuels/crossboard/pkg/layout.Surface
package render
