// Package canvas defines the drawing surface used by the commit graph layout
// engine and provides an SVG implementation.
//
// The layout engine never writes markup itself. It talks to a [Driver], which
// can register a node glyph, place nodes, attach label text, report the
// bounding box of a placed node and stroke paths. [SVG] renders those calls
// into a standalone SVG document:
//
//	svg := canvas.NewSVG()
//	res := layout.Render(g, svg, layout.DefaultConfig(), logger)
//	data := svg.Bytes()
//
// Paths use one of two interpolations: [CurveLinear] straight segments or
// [CurveBasis], a uniform cubic B-spline which rounds the corners of the
// connector's control polygon. Coordinates are rounded to whole pixels
// before interpolation so output is stable across platforms.
package canvas
