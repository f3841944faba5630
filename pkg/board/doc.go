// Package board wires a cross layout to a deformation.
//
// A [Board] owns a [layout.CrossLayout] whose main panel shows a matrix and
// a [deform.Deformation] that orders and splits the matrix. Everything
// attached to the board follows the deformation:
//
//   - the main panel is split into one region per chunk
//   - side panels along a split axis are split the same way
//   - dendrogram panels draw the cluster tree of their axis
//   - [Plan] renderers receive their data already permuted and chunked
//
// Rendering runs in three phases: measure (legends and panels without a
// fixed size), freeze (the layout places every panel), draw (plans and
// dendrograms fill their regions).
//
// Boards are combined with [Board.Append], which concatenates boards edge to
// edge, and [Stack].
package board
