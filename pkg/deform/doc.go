// Package deform keeps the row and column order of one matrix consistent
// across every panel that draws it.
//
// # Overview
//
// A [Deformation] owns the permutation and chunk segmentation of a matrix.
// Each axis is configured independently and resolved in a fixed order:
//
//  1. An explicit reindex (a permutation of the rows or columns)
//  2. Splitting into chunks at breakpoints
//  3. Reordering rows inside each chunk by that chunk's dendrogram
//  4. Reordering the chunks by the meta dendrogram, or by a caller order
//
// The result is one list of index segments per axis. [Deformation.Transform]
// and the row/column variants select data through those segments, so any
// matrix or per-item vector comes back in the same display order:
//
//	d, _ := deform.New(data)
//	d.SetSplitRow([]int{5}, nil)
//	d.SetRowCluster(deform.ClusterOptions{Method: cluster.Average})
//	chunks, _ := d.Transform(data) // two row chunks, clustered inside
//
// # Clustering State
//
// Each axis holds one of three states: unclustered, pending (options set,
// nothing computed) or clustered (options plus result). Clustering runs on
// the first read that needs it. Any change to the reindex, the split or the
// options moves a clustered axis back to pending, so a stale tree can never
// be read.
//
// ward, centroid and median only work with the euclidean metric. Asking for
// another metric logs a warning and clusters with euclidean.
//
// # Concurrency
//
// A Deformation is not safe for concurrent use. Configure it fully, then
// read from a single goroutine or guard it externally.
package deform
