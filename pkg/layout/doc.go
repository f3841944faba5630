// Package layout resolves multi-panel figures into absolute rectangles.
//
// # Overview
//
// A figure is built around a main panel. Side panels are stacked outward
// from the main panel on its four edges, in the order they are added:
//
//	         top 2
//	         top 1
//	left 1 [ main ] right 1 right 2
//	        bottom 1
//
// Every size is in inches and the origin is the bottom-left corner of the
// figure. Panels on the top and bottom share the main panel's width; panels
// on the left and right share its height.
//
// # Layout Kinds
//
// Three kinds implement [Layout]:
//
//   - [CrossLayout]: one main panel plus side panels
//   - [CompositeCrossLayout]: cross layouts concatenated edge to edge around
//     a main cross layout ([CrossLayout.Append])
//   - [StackCrossLayout]: layouts stacked horizontally or vertically with an
//     alignment rule ([Stack])
//
// Layouts nest: a stack may hold composites and other stacks. Once a layout
// is embedded in another it is owned and cannot be embedded again.
//
// # Splitting
//
// [CrossLayout.HSplit] cuts a panel into rows and [CrossLayout.VSplit] into
// columns. Ratios are given in reading order (top to bottom, left to right)
// and spacing is a fraction of the panel length. Each axis of a panel can be
// split once. A split panel yields one region per chunk, row-major.
//
// # Freezing
//
// [Layout.Freeze] computes the figure size, sets it on a [Surface] and
// places one region per canvas panel. Regions are addressed by key
// "layout/panel/index", and placing a key again replaces the old region, so
// Freeze can be re-run after late changes such as a measured panel size.
//
// # Legends
//
// A legend slot is reserved with AddLegend and has no size until it is
// measured with ResolveLegend. Freeze refuses a layout whose legend was not
// measured, which keeps the measure and place phases explicit.
package layout
