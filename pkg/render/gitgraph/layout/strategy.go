package layout

import (
	"github.com/matzehuels/commitgraph/pkg/gitgraph"
	"github.com/matzehuels/commitgraph/pkg/render/gitgraph/canvas"
)

// Segment is one stroke of a connector.
type Segment struct {
	Points []canvas.Point    `json:"points"`
	Curve  canvas.CurveKind `json:"curve"`
}

// strategy captures everything that differs between layout directions.
type strategy interface {
	// position returns the node center for a commit.
	position(seq, lane, total int) canvas.Point
	// route returns the connector from a child box to a parent box.
	route(from, to canvas.BoundingBox) []Segment
	// extent returns the canvas height.
	extent(commits, branches int) float64
	// labelBox adjusts the node label area before any node is placed.
	labelBox(lb canvas.LabelBox, branches int) canvas.LabelBox
	// showMessages reports whether commit messages are attached as labels.
	showMessages() bool
}

func newStrategy(dir gitgraph.Direction, cfg Config) strategy {
	if dir == gitgraph.BottomToTop {
		return bottomToTop{cfg}
	}
	return leftToRight{cfg}
}

// Position returns the node center of a commit with the given sequence
// number, on the given lane, in a graph of total commits.
func Position(dir gitgraph.Direction, cfg Config, seq, lane, total int) canvas.Point {
	return newStrategy(dir, cfg).position(seq, lane, total)
}

// Route returns the connector segments from a child node box to its parent
// node box. A two-segment dogleg is used when the boxes are more than
// spacing apart along the history axis, a single bent curve otherwise.
func Route(dir gitgraph.Direction, from, to canvas.BoundingBox, spacing float64) []Segment {
	cfg := Config{NodeSpacing: spacing}
	return newStrategy(dir, cfg).route(from, to)
}

type leftToRight struct{ cfg Config }

func (s leftToRight) position(seq, lane, _ int) canvas.Point {
	return canvas.Point{
		X: float64(seq)*s.cfg.NodeSpacing + s.cfg.LeftMargin,
		Y: float64(lane) * s.cfg.BranchOffset,
	}
}

//	(to)
//	 o--------
//	          \
//	           o (from)
func (s leftToRight) route(from, to canvas.BoundingBox) []Segment {
	sp := s.cfg.NodeSpacing
	socket := canvas.Point{X: from.Left, Y: from.CenterY()}
	bendX := from.Left - sp/2
	end := canvas.Point{X: to.Right(), Y: to.CenterY()}

	if from.Left-to.Left > sp {
		lineStart := canvas.Point{X: from.Left - sp, Y: to.CenterY()}
		return []Segment{
			{
				Points: []canvas.Point{socket, {X: bendX, Y: socket.Y}, {X: bendX, Y: lineStart.Y}, lineStart},
				Curve:  canvas.CurveBasis,
			},
			{Points: []canvas.Point{lineStart, end}, Curve: canvas.CurveLinear},
		}
	}
	return []Segment{{
		Points: []canvas.Point{socket, {X: bendX, Y: socket.Y}, {X: bendX, Y: end.Y}, end},
		Curve:  canvas.CurveBasis,
	}}
}

func (s leftToRight) extent(_, branches int) float64 {
	return float64(branches+1) * s.cfg.BranchOffset
}

func (s leftToRight) labelBox(lb canvas.LabelBox, _ int) canvas.LabelBox { return lb }

func (s leftToRight) showMessages() bool { return false }

type bottomToTop struct{ cfg Config }

func (s bottomToTop) position(seq, lane, total int) canvas.Point {
	return canvas.Point{
		X: float64(lane)*s.cfg.BranchOffset + s.cfg.LeftMargin,
		Y: float64(total-seq) * s.cfg.NodeSpacing,
	}
}

//	o      (from)
//	|
//	 \
//	  o    (to)
func (s bottomToTop) route(from, to canvas.BoundingBox) []Segment {
	sp := s.cfg.NodeSpacing
	socket := canvas.Point{X: from.CenterX(), Y: from.Bottom()}
	end := canvas.Point{X: to.CenterX(), Y: to.Top}

	if to.Top-from.Top > sp {
		lineStart := canvas.Point{X: to.CenterX(), Y: from.Bottom() + sp}
		return []Segment{
			{
				Points: []canvas.Point{
					socket,
					{X: socket.X, Y: from.Bottom() + sp/2},
					{X: to.CenterX(), Y: lineStart.Y - sp/2},
					lineStart,
				},
				Curve: canvas.CurveBasis,
			},
			{Points: []canvas.Point{lineStart, end}, Curve: canvas.CurveLinear},
		}
	}
	return []Segment{{
		Points: []canvas.Point{
			socket,
			{X: socket.X, Y: from.Top + sp/2},
			{X: end.X, Y: to.Top - sp/2},
			end,
		},
		Curve: canvas.CurveBasis,
	}}
}

func (s bottomToTop) extent(commits, _ int) float64 {
	return float64(commits) * s.cfg.NodeSpacing
}

// Labels sit to the right of all lanes and take the remaining width.
func (s bottomToTop) labelBox(lb canvas.LabelBox, branches int) canvas.LabelBox {
	lb.X = float64(branches) * s.cfg.BranchOffset
	lb.Y = -2 * s.cfg.NodeRadius
	lb.FillWidth = true
	return lb
}

func (s bottomToTop) showMessages() bool { return true }
