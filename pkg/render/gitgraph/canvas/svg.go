package canvas

import (
	"bytes"
	"fmt"
	"html"
	"math"
)

const (
	templateID       = "def-commit"
	extensibilityURI = "http://www.w3.org/TR/SVG11/feature#Extensibility"
)

const defaultCSS = `
    .commit-id, .commit-msg, .branch-label { fill: lightgrey; color: lightgrey; font-family: 'trebuchet ms', verdana, arial, sans-serif; font-size: 10px; }
    .branch-label { font-weight: bold; }`

// SVGOption configures an [SVG] driver.
type SVGOption func(*SVG)

// WithID sets the id attribute of the root svg element.
func WithID(id string) SVGOption { return func(s *SVG) { s.id = id } }

// WithCSS replaces the embedded label stylesheet.
func WithCSS(css string) SVGOption { return func(s *SVG) { s.css = css } }

// SVG is a [Driver] that records draw calls and serializes them as an SVG
// document. Elements are emitted in call order.
//
// SVG is not safe for concurrent use.
type SVG struct {
	id       string
	css      string
	radius   float64
	label    LabelBox
	template bool
	elements []svgElement
	nodes    map[string]*svgNode
	height   float64
}

type svgElement interface {
	write(buf *bytes.Buffer, s *SVG)
}

type svgNode struct {
	id    string
	at    Point
	style NodeStyle
	spans []svgSpan
}

type svgSpan struct {
	text, class string
}

type svgPath struct {
	d           string
	color       string
	strokeWidth float64
}

// NewSVG creates an empty SVG driver.
func NewSVG(opts ...SVGOption) *SVG {
	s := &SVG{css: defaultCSS, nodes: make(map[string]*svgNode)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateNodeTemplate registers the node glyph: a circle of the given radius
// and a label area positioned by lb.
func (s *SVG) CreateNodeTemplate(radius float64, lb LabelBox) error {
	if radius <= 0 {
		return fmt.Errorf("node radius must be positive, got %v", radius)
	}
	s.radius = radius
	s.label = lb
	s.template = true
	return nil
}

// PlaceNode places a node centered at the given point.
func (s *SVG) PlaceNode(id string, at Point, style NodeStyle) error {
	if !s.template {
		return fmt.Errorf("place %s: node template not created", id)
	}
	if _, exists := s.nodes[id]; exists {
		return fmt.Errorf("place %s: node already placed", id)
	}
	n := &svgNode{id: id, at: at, style: style}
	s.nodes[id] = n
	s.elements = append(s.elements, n)
	return nil
}

// AttachLabel appends a span to the node's label paragraph.
func (s *SVG) AttachLabel(nodeID, text, class string) error {
	n, ok := s.nodes[nodeID]
	if !ok {
		return fmt.Errorf("label %s: %w", nodeID, ErrUnknownNode)
	}
	n.spans = append(n.spans, svgSpan{text: text, class: class})
	return nil
}

// MeasureNode returns the circle's bounding box after translation.
func (s *SVG) MeasureNode(nodeID string) (BoundingBox, error) {
	n, ok := s.nodes[nodeID]
	if !ok {
		return BoundingBox{}, fmt.Errorf("measure %s: %w", nodeID, ErrUnknownNode)
	}
	return BoundingBox{
		Left:   n.at.X - s.radius,
		Top:    n.at.Y - s.radius,
		Width:  2 * s.radius,
		Height: 2 * s.radius,
	}, nil
}

// DrawPath appends a stroked path. Points are rounded to whole pixels before
// the curve is built.
func (s *SVG) DrawPath(points []Point, color string, strokeWidth float64, curve CurveKind) error {
	if len(points) < 2 {
		return fmt.Errorf("path needs at least 2 points, got %d", len(points))
	}
	rounded := make([]Point, len(points))
	for i, p := range points {
		rounded[i] = Point{X: math.Round(p.X), Y: math.Round(p.Y)}
	}
	s.elements = append(s.elements, svgPath{
		d:           PathData(rounded, curve),
		color:       color,
		strokeWidth: strokeWidth,
	})
	return nil
}

// SetCanvasHeight sets the document height.
func (s *SVG) SetCanvasHeight(h float64) error {
	if h < 0 {
		return fmt.Errorf("canvas height must not be negative, got %v", h)
	}
	s.height = h
	return nil
}

// Width returns the document width: the right-most extent of any node
// including its label area.
func (s *SVG) Width() float64 {
	var w float64
	for _, n := range s.nodes {
		right := n.at.X + s.radius
		if !s.label.FillWidth {
			right = math.Max(right, n.at.X+s.label.X+s.label.Width)
		}
		w = math.Max(w, right)
	}
	return math.Ceil(w)
}

// Height returns the value last passed to SetCanvasHeight.
func (s *SVG) Height() float64 { return s.height }

// Bytes serializes the document.
func (s *SVG) Bytes() []byte {
	var buf bytes.Buffer
	w, h := s.Width(), s.height

	buf.WriteString(`<svg xmlns="http://www.w3.org/2000/svg"`)
	if s.id != "" {
		fmt.Fprintf(&buf, ` id="%s"`, html.EscapeString(s.id))
	}
	fmt.Fprintf(&buf, ` viewBox="0 0 %s %s" width="%s" height="%s">`+"\n", fmtNum(w), fmtNum(h), fmtNum(w), fmtNum(h))

	if s.css != "" {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", s.css)
	}
	if s.template {
		buf.WriteString("  <defs>\n")
		fmt.Fprintf(&buf, `    <g id="%s">`, templateID)
		s.writeGlyph(&buf, nil)
		buf.WriteString("</g>\n  </defs>\n")
	}
	for _, e := range s.elements {
		e.write(&buf, s)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (s *SVG) writeGlyph(buf *bytes.Buffer, spans []svgSpan) {
	fmt.Fprintf(buf, `<circle r="%s" cx="0" cy="0"/>`, fmtNum(s.radius))
	width := fmtNum(s.label.Width)
	if s.label.FillWidth {
		width = "100%"
	}
	fmt.Fprintf(buf, `<foreignObject class="node-label" width="%s" height="%s" x="%s" y="%s" requiredFeatures="%s">`,
		width, fmtNum(s.label.Height), fmtNum(s.label.X), fmtNum(s.label.Y), extensibilityURI)
	buf.WriteString(`<p xmlns="http://www.w3.org/1999/xhtml">`)
	for _, sp := range spans {
		fmt.Fprintf(buf, `<span class="%s">%s</span>`, html.EscapeString(sp.class), html.EscapeString(sp.text))
	}
	buf.WriteString("</p></foreignObject>")
}

func (n *svgNode) write(buf *bytes.Buffer, s *SVG) {
	fmt.Fprintf(buf, `  <g class="commit" id="node-%s" transform="translate(%s, %s)" fill="%s" stroke="%s" stroke-width="%s">`,
		html.EscapeString(n.id), fmtNum(n.at.X), fmtNum(n.at.Y),
		html.EscapeString(n.style.Fill), html.EscapeString(n.style.Stroke), fmtNum(n.style.StrokeWidth))
	s.writeGlyph(buf, n.spans)
	buf.WriteString("</g>\n")
}

func (p svgPath) write(buf *bytes.Buffer, _ *SVG) {
	fmt.Fprintf(buf, `  <path d="%s" style="stroke: %s; stroke-width: %s; fill: none"/>`+"\n",
		p.d, html.EscapeString(p.color), fmtNum(p.strokeWidth))
}

var _ Driver = (*SVG)(nil)
