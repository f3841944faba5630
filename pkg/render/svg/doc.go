// Package svg renders frozen layouts to SVG.
//
// [Canvas] implements [layout.Surface]: freezing a layout on a canvas creates
// one [Region] per panel chunk, and plans draw into regions in region-local
// coordinates, (0, 0) at the bottom-left corner and (1, 1) at the top-right.
// Regions implement [layout.LineDrawer], so dendrograms draw themselves.
//
//	c := svg.New(svg.WithDebug())
//	if err := b.Render(c, 1); err != nil {
//	    return err
//	}
//	out := c.Bytes()
//
// # Options
//
//   - [WithDPI]: pixels per inch of the output (default 72)
//   - [WithDebug]: outline every region and label it with its key
//   - [WithBackground]: fill the figure before drawing
//   - [WithStroke]: stroke width of drawn lines in pixels
package svg
