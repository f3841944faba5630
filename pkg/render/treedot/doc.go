// Package treedot draws linkage trees as Graphviz diagrams.
//
// A linkage matrix is hard to read as numbers. [ToDOT] turns one or more
// trees into DOT source, one subgraph per tree, with leaves labeled by item
// and merge nodes labeled by height; [RenderSVG] lays it out in-process.
//
//	l, _, _ := d.Linkage(deform.Rows)
//	dot := treedot.ToDOT([]treedot.Tree{{Name: "rows", Linkage: l.Whole, Labels: names}}, treedot.Options{})
//	svg, err := treedot.RenderSVG(ctx, dot)
//
// Split axes produce one tree per chunk plus the meta tree over chunks;
// pass them all to get a single diagram.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package treedot
