package layout

import (
	"errors"
	"fmt"

	"github.com/matzehuels/commitgraph/pkg/render/gitgraph/canvas"
)

var errDriver = errors.New("driver failure")

type drawnPath struct {
	Points []canvas.Point
	Color  string
	Width  float64
	Curve  canvas.CurveKind
}

// recorder is an in-memory canvas.Driver that records every call.
type recorder struct {
	radius float64
	label  canvas.LabelBox
	height float64

	calls  []string
	nodes  map[string]canvas.Point
	places map[string]int
	labels map[string][]string
	paths  []drawnPath

	failPlace   string
	panicOnDraw bool
	unmeasured  string
}

func newRecorder() *recorder {
	return &recorder{
		nodes:  make(map[string]canvas.Point),
		places: make(map[string]int),
		labels: make(map[string][]string),
	}
}

func (r *recorder) CreateNodeTemplate(radius float64, lb canvas.LabelBox) error {
	r.radius, r.label = radius, lb
	r.calls = append(r.calls, "template")
	return nil
}

func (r *recorder) PlaceNode(id string, at canvas.Point, _ canvas.NodeStyle) error {
	if id == r.failPlace {
		return errDriver
	}
	r.nodes[id] = at
	r.places[id]++
	r.calls = append(r.calls, "node "+id)
	return nil
}

func (r *recorder) AttachLabel(nodeID, text, class string) error {
	if _, ok := r.nodes[nodeID]; !ok {
		return canvas.ErrUnknownNode
	}
	r.labels[nodeID] = append(r.labels[nodeID], class+":"+text)
	return nil
}

func (r *recorder) MeasureNode(nodeID string) (canvas.BoundingBox, error) {
	at, ok := r.nodes[nodeID]
	if !ok || nodeID == r.unmeasured {
		return canvas.BoundingBox{}, canvas.ErrUnknownNode
	}
	return canvas.BoundingBox{Left: at.X - r.radius, Top: at.Y - r.radius, Width: 2 * r.radius, Height: 2 * r.radius}, nil
}

func (r *recorder) DrawPath(points []canvas.Point, color string, width float64, curve canvas.CurveKind) error {
	if r.panicOnDraw {
		panic("boom")
	}
	r.paths = append(r.paths, drawnPath{Points: points, Color: color, Width: width, Curve: curve})
	r.calls = append(r.calls, fmt.Sprintf("path %s", curve))
	return nil
}

func (r *recorder) SetCanvasHeight(h float64) error {
	r.height = h
	r.calls = append(r.calls, "height")
	return nil
}

var _ canvas.Driver = (*recorder)(nil)
