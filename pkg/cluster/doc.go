// Package cluster implements agglomerative hierarchical clustering and the
// dendrogram coordinate walk used to draw cluster trees.
//
// # Overview
//
// Clustering is the one expensive primitive behind row/column reordering.
// [Linkage] computes pairwise distances between the rows of a gonum matrix
// with a [Metric], then merges the closest clusters one step at a time using
// the Lance–Williams update for the chosen [Method]. The result is a linkage
// matrix with one row per merge:
//
//	[left id, right id, distance, size]
//
// Leaves are numbered 0..n-1 and the cluster formed at step s gets id n+s,
// matching the layout used by most statistics packages so linkage matrices
// can be exchanged with other tools.
//
// # Drawing Coordinates
//
// [Walk] traverses a linkage matrix depth-first and returns the leaf order
// plus one U-shaped segment per merge (icoord/dcoord form). Leaves sit at
// x = 5, 15, 25, ... and segment heights are merge distances. The root
// segment is always last.
//
// # Methods and Metrics
//
// ward, centroid and median are only defined for euclidean distances.
// [Method.RequiresEuclidean] reports this so callers can substitute the
// metric and tell the user.
//
// # Determinism
//
// Ties are broken by the lowest pair of active slots, so identical input
// always produces an identical linkage matrix.
package cluster
