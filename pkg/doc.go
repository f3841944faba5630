// Package pkg provides the core libraries for Crossboard clustered matrix figures.
//
// # Overview
//
// Crossboard arranges a data matrix in the middle of a figure with panels
// stacked on all four sides: labels, color bars, bar plots and dendrograms.
// Rows and columns can be cut into chunks, reordered by hierarchical
// clustering, and boards can be concatenated or stacked into larger figures.
// The pkg directory is organized into four main areas:
//
//  1. Geometry - [layout] (cross layouts, composites, stacks, freezing)
//  2. Clustering - [cluster], [dendrogram] and [deform] (split, reorder, cluster)
//  3. Orchestration - [board] and [pipeline] (documents → figures → output)
//  4. Infrastructure - [cache], [errors], [observability], [render]
//
// # Architecture
//
// The typical data flow through Crossboard:
//
//	board.toml / JSON document
//	         ↓
//	    [pipeline] package (parse, build boards, cache linkages)
//	         ↓
//	    [board] package (panels, splits, dendrograms on a layout)
//	         ↓
//	    [deform] package (reorder and cluster rows and columns)
//	         ↓
//	    [layout] package (freeze every panel into inches)
//	         ↓
//	    SVG/PDF/PNG/JSON output
//
// # Quick Start
//
// Build a board in code and render it:
//
//	import (
//	    "github.com/matzehuels/crossboard/pkg/board"
//	    "github.com/matzehuels/crossboard/pkg/layout"
//	    "github.com/matzehuels/crossboard/pkg/render/svg"
//	)
//
//	// 1. A 3×2 inch board over the data matrix
//	b, _ := board.New("expr", 3, 2, board.WithData(data))
//
//	// 2. Cluster the rows and draw the tree on the left
//	_ = b.AddDendrogram(layout.Left, board.DendrogramOptions{})
//
//	// 3. Render to SVG
//	c := svg.New()
//	_ = b.Render(c, 1)
//
// Or run a whole document through the pipeline:
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	doc, _ := runner.Load(ctx, "board.toml")
//	res, _ := runner.Execute(ctx, doc, pipeline.Options{Format: "svg"})
//
// # Main Packages
//
// [layout] - Cross layouts: a main panel split by ratios with side panels
// added outward, composite layouts that append whole layouts to a side, and
// stacked layouts. Freezing resolves every region to a rectangle and hands it
// to a [layout.Surface].
//
// [deform] - The deformation of a matrix: reindexing, splitting rows and
// columns into chunks, clustering within and across chunks, and the final
// permutation applied to data.
//
// [cluster] and [dendrogram] - Linkage computation over gonum matrices and
// the geometry of dendrogram trees and group dendrograms.
//
// [board] - Boards put data, deformation and layout together: panels, plots,
// dendrograms, legends and composition.
//
// [pipeline] - Board documents (TOML or JSON), output options and the Runner
// that caches linkages and renders. Used by both the CLI and the HTTP API.
//
// [cache] - File, null and Redis caches with scoped keys and observability
// hooks.
//
// [render] - SVG surface, Graphviz linkage trees and PDF/PNG conversion.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/deform/...     # Specific package
//	go test -run Example ./...   # Examples only
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/crossboard/pkg/layout
// [layout.Surface]: https://pkg.go.dev/github.com/matzehuels/crossboard/pkg/layout#Surface
// [cluster]: https://pkg.go.dev/github.com/matzehuels/crossboard/pkg/cluster
// [dendrogram]: https://pkg.go.dev/github.com/matzehuels/crossboard/pkg/dendrogram
// [deform]: https://pkg.go.dev/github.com/matzehuels/crossboard/pkg/deform
// [board]: https://pkg.go.dev/github.com/matzehuels/crossboard/pkg/board
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/crossboard/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/crossboard/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/crossboard/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/crossboard/pkg/observability
// [render]: https://pkg.go.dev/github.com/matzehuels/crossboard/pkg/render
package pkg
