package canvas

import (
	"errors"
	"fmt"
)

// ErrUnknownNode is returned by [Driver.MeasureNode] and [Driver.AttachLabel]
// when the node has not been placed.
var ErrUnknownNode = errors.New("node not placed")

// Point is a position on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingBox is a node's box in post-transform canvas coordinates.
type BoundingBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the right edge.
func (b BoundingBox) Right() float64 { return b.Left + b.Width }

// Bottom returns the bottom edge.
func (b BoundingBox) Bottom() float64 { return b.Top + b.Height }

// CenterX returns the horizontal center.
func (b BoundingBox) CenterX() float64 { return b.Left + b.Width/2 }

// CenterY returns the vertical center.
func (b BoundingBox) CenterY() float64 { return b.Top + b.Height/2 }

// CurveKind selects the interpolation used to stroke a path.
type CurveKind int

const (
	// CurveBasis is a uniform cubic B-spline through the control points.
	CurveBasis CurveKind = iota
	// CurveLinear connects the points with straight segments.
	CurveLinear
)

// String returns "basis" or "linear".
func (k CurveKind) String() string {
	if k == CurveLinear {
		return "linear"
	}
	return "basis"
}

// MarshalText implements encoding.TextMarshaler.
func (k CurveKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *CurveKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "basis":
		*k = CurveBasis
	case "linear":
		*k = CurveLinear
	default:
		return fmt.Errorf("unknown curve %q", b)
	}
	return nil
}

// LabelBox positions the label area relative to the node center.
// When FillWidth is set the label spans the available width and Width is ignored.
type LabelBox struct {
	X         float64 `json:"x" toml:"x"`
	Y         float64 `json:"y" toml:"y"`
	Width     float64 `json:"width" toml:"width"`
	Height    float64 `json:"height" toml:"height"`
	FillWidth bool    `json:"fill_width,omitempty" toml:"fill_width"`
}

// NodeStyle holds the presentation attributes applied to a placed node.
type NodeStyle struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
}

// Driver is the drawing surface used by the layout engine. Calls are
// synchronous and their order is significant: nodes must be placed before
// they are measured, and draw order is z-order.
type Driver interface {
	// CreateNodeTemplate registers the reusable node glyph.
	CreateNodeTemplate(radius float64, label LabelBox) error
	// PlaceNode instantiates the node glyph centered at the given point.
	PlaceNode(id string, at Point, style NodeStyle) error
	// AttachLabel appends a text span with the given class to a node's label.
	AttachLabel(nodeID, text, class string) error
	// MeasureNode returns the post-transform bounding box of a placed node.
	MeasureNode(nodeID string) (BoundingBox, error)
	// DrawPath strokes a path through the points.
	DrawPath(points []Point, color string, strokeWidth float64, curve CurveKind) error
	// SetCanvasHeight sets the final canvas height.
	SetCanvasHeight(h float64) error
}
