// Package nodelink renders commit graphs as plain node-link diagrams.
//
// # Overview
//
// This package produces Graphviz diagrams where commits appear as boxes
// connected by arrows from child to parent. It is an alternative to the lane
// layout for cases where Graphviz's own ranking is preferred, for example
// histories with many long-lived branches.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # DOT Format
//
// The generated DOT draws second-parent edges dashed, merge commits with a
// double outline and root commits grey. Branch names are reference boxes
// ranked next to their head commit.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
