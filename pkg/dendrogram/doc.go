// Package dendrogram computes cluster trees and their drawing geometry.
//
// # Overview
//
// A [Dendrogram] clusters the rows of a matrix (see package cluster) and
// keeps three things: the leaf order used to reorder the rows, the U-shaped
// segments of the tree, and the centroid of the rows. Segment x values place
// the leaves at 1, 3, 5, ... inside [0, 2n]; heights are rescaled so the
// lowest merge sits at 0.2 and the highest at 1.2.
//
// A [Group] clusters the centroids of several dendrograms (one per chunk of
// a split matrix) into a meta tree. [Group.Arrange] lays the children side by
// side on a shared x axis, in meta order, with optional spacing, and remaps
// the meta tree onto the children's roots. Meta x values between two chunk
// roots are linearly interpolated, so the meta tree never crosses into a
// neighbouring chunk.
//
// # Drawing
//
// Both types implement [Tree]. Draw returns polylines in the unit square of
// the target panel, y pointing up, for one of four orientations:
//
//   - [Top]: leaves on the bottom edge, tree grows upward
//   - [Bottom]: leaves on the top edge, tree grows downward
//   - [Left]: leaves on the right edge, first leaf at the top
//   - [Right]: leaves on the left edge, first leaf at the top
//
// Leaves always touch the edge facing the main panel, so a dendrogram added
// to the left of a heatmap lines up with the heatmap rows.
//
// # Singletons
//
// A chunk with a single row is not clustered. It gets one flat segment at
// x = 1 with height 0.75 so it can still take part in a meta tree.
package dendrogram
