// Package render provides output rendering for commit graphs.
//
// # Overview
//
// This package holds what every renderer shares:
//
//   - Output formats ([Format]) and their MIME types
//   - SVG conversion to PDF and PNG
//
// The renderers themselves live in subpackages. [gitgraph/layout] places
// commits on lanes and routes their connectors onto a [gitgraph/canvas]
// driver, which produces SVG. [nodelink] draws the same history as a plain
// Graphviz diagram.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both renderers use them:
//
//	svg := canvas.NewSVG()
//	layout.Render(g, svg, layout.DefaultConfig(), logger)
//	png, err := render.ToPNG(ctx, svg.Bytes(), 2.0)
//
// When rsvg-convert is not installed the conversion fails with an
// UNSUPPORTED error and SVG output keeps working.
//
// [gitgraph/layout]: github.com/matzehuels/commitgraph/pkg/render/gitgraph/layout
// [gitgraph/canvas]: github.com/matzehuels/commitgraph/pkg/render/gitgraph/canvas
// [nodelink]: github.com/matzehuels/commitgraph/pkg/render/nodelink
package render
