// Package pkg provides the core libraries for commitgraph.
//
// # Overview
//
// commitgraph lays out git commit histories the way gitGraph diagrams do:
// every branch gets a lane, merges open their own lane, and connectors are
// routed between commit nodes with orthogonal or curved segments. The pkg
// directory is organized into four areas:
//
//  1. [gitgraph] - The commit graph model
//  2. [render/gitgraph/layout] - Lane placement and connector routing
//  3. [pipeline] - Orchestration (load → layout → render)
//  4. [cache] and [observability] - Infrastructure shared by CLI and server
//
// # Architecture
//
// The typical data flow:
//
//	Graph file (JSON/TOML) or git repository
//	         ↓
//	    [io] / [source/gitrepo] (load the history)
//	         ↓
//	    [gitgraph] (commits, branches, direction)
//	         ↓
//	    [render/gitgraph/layout] (placements + connectors on a canvas.Driver)
//	         ↓
//	    SVG/PDF/PNG/JSON output
//
// # Quick Start
//
// Lay out a small history and write the SVG:
//
//	import (
//	    "github.com/matzehuels/commitgraph/pkg/io"
//	    "github.com/matzehuels/commitgraph/pkg/render/gitgraph/canvas"
//	    "github.com/matzehuels/commitgraph/pkg/render/gitgraph/layout"
//	)
//
//	g, _ := io.Import("history.toml")
//	svg := canvas.NewSVG()
//	res := layout.Render(g, svg, layout.DefaultConfig(), nil)
//	if res.Partial() {
//	    // everything up to res.Err was drawn
//	}
//	os.WriteFile("history.svg", svg.Bytes(), 0o644)
//
// # Main Packages
//
// [gitgraph] - Commits with zero, one or two ordered parents, named branches
// pointing at head commits, and the layout direction (LR or BT).
//
// [render/gitgraph/layout] - The layout engine. A Context walks each
// branch's first-parent history, assigns lanes and sequence positions,
// then routes connectors from every commit to its parents. Render never
// panics; failures are reported in Result.Err with the partial drawing.
//
// [render/gitgraph/canvas] - The Driver interface the layout draws through,
// and an SVG implementation with basis-curve path generation.
//
// [render/nodelink] - Node-link diagrams of the same graph via Graphviz.
//
// [render] - Format conversion (SVG to PDF/PNG).
//
// [source/gitrepo] - Reads a real repository with go-git.
//
// [io] - JSON and TOML graph files.
//
// [pipeline] - The load → layout → render pipeline used by both the CLI and
// the HTTP server, with caching at every stage.
//
// [cache] - File, Redis, and null caches plus content-addressed key
// derivation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                            # All tests
//	go test ./pkg/render/gitgraph/layout/...     # Specific package
//	go test -run Example ./pkg/...               # Examples only
//
// [gitgraph]: https://pkg.go.dev/github.com/matzehuels/commitgraph/pkg/gitgraph
// [render/gitgraph/layout]: https://pkg.go.dev/github.com/matzehuels/commitgraph/pkg/render/gitgraph/layout
// [render/gitgraph/canvas]: https://pkg.go.dev/github.com/matzehuels/commitgraph/pkg/render/gitgraph/canvas
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/commitgraph/pkg/render/nodelink
// [render]: https://pkg.go.dev/github.com/matzehuels/commitgraph/pkg/render
// [source/gitrepo]: https://pkg.go.dev/github.com/matzehuels/commitgraph/pkg/source/gitrepo
// [io]: https://pkg.go.dev/github.com/matzehuels/commitgraph/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/commitgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/commitgraph/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/commitgraph/pkg/observability
package pkg
