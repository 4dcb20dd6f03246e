package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/commitgraph/pkg/gitgraph"
	"github.com/matzehuels/commitgraph/pkg/render/gitgraph/canvas"
)

func box(cx, cy float64) canvas.BoundingBox {
	return canvas.BoundingBox{Left: cx - 1, Top: cy - 1, Width: 2, Height: 2}
}

func pts(xy ...float64) []canvas.Point {
	out := make([]canvas.Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, canvas.Point{X: xy[i], Y: xy[i+1]})
	}
	return out
}

func TestPosition(t *testing.T) {
	cfg := Config{NodeSpacing: 150, BranchOffset: 50, LeftMargin: 50}

	tests := []struct {
		name             string
		dir              gitgraph.Direction
		seq, lane, total int
		want             canvas.Point
	}{
		{"LR root", gitgraph.LeftToRight, 0, 1, 3, canvas.Point{X: 50, Y: 50}},
		{"LR second lane", gitgraph.LeftToRight, 2, 2, 3, canvas.Point{X: 350, Y: 100}},
		{"BT root at bottom", gitgraph.BottomToTop, 0, 1, 3, canvas.Point{X: 100, Y: 450}},
		{"BT newest at top", gitgraph.BottomToTop, 2, 3, 3, canvas.Point{X: 200, Y: 150}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Position(tt.dir, cfg, tt.seq, tt.lane, tt.total)
			if got != tt.want {
				t.Errorf("Position() = %+v, want %+v", got, tt.want)
			}
			if again := Position(tt.dir, cfg, tt.seq, tt.lane, tt.total); again != got {
				t.Errorf("Position() not deterministic: %+v then %+v", got, again)
			}
		})
	}
}

func TestRoute(t *testing.T) {
	const spacing = 10

	tests := []struct {
		name     string
		dir      gitgraph.Direction
		from, to canvas.BoundingBox
		want     []Segment
	}{
		{
			name: "LR near",
			dir:  gitgraph.LeftToRight,
			from: box(20, 10),
			to:   box(10, 20),
			want: []Segment{{Points: pts(19, 10, 14, 10, 14, 20, 11, 20), Curve: canvas.CurveBasis}},
		},
		{
			name: "LR far",
			dir:  gitgraph.LeftToRight,
			from: box(30, 10),
			to:   box(10, 20),
			want: []Segment{
				{Points: pts(29, 10, 24, 10, 24, 20, 19, 20), Curve: canvas.CurveBasis},
				{Points: pts(19, 20, 11, 20), Curve: canvas.CurveLinear},
			},
		},
		{
			name: "BT near",
			dir:  gitgraph.BottomToTop,
			from: box(10, 10),
			to:   box(20, 20),
			want: []Segment{{Points: pts(10, 11, 10, 14, 20, 14, 20, 19), Curve: canvas.CurveBasis}},
		},
		{
			name: "BT far",
			dir:  gitgraph.BottomToTop,
			from: box(10, 10),
			to:   box(20, 30),
			want: []Segment{
				{Points: pts(10, 11, 10, 16, 20, 16, 20, 21), Curve: canvas.CurveBasis},
				{Points: pts(20, 21, 20, 29), Curve: canvas.CurveLinear},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Route(tt.dir, tt.from, tt.to, spacing)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Route() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRouteBoundary(t *testing.T) {
	tests := []struct {
		name     string
		dir      gitgraph.Direction
		from, to canvas.BoundingBox
		spacing  float64
		segments int
	}{
		{"LR equal is near", gitgraph.LeftToRight, box(20, 10), box(10, 10), 10, 1},
		{"LR just over is far", gitgraph.LeftToRight, box(20, 10), box(10, 10), 9.99, 2},
		{"BT equal is near", gitgraph.BottomToTop, box(10, 10), box(10, 20), 10, 1},
		{"BT just over is far", gitgraph.BottomToTop, box(10, 10), box(10, 20), 9.99, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(Route(tt.dir, tt.from, tt.to, tt.spacing)); got != tt.segments {
				t.Errorf("segments = %d, want %d", got, tt.segments)
			}
		})
	}
}

func TestLaneTracker(t *testing.T) {
	var lt LaneTracker
	lt.Reset()
	if lt.Current() != 1 {
		t.Fatalf("Current() after Reset = %d, want 1", lt.Current())
	}

	lt.Enter()
	lt.Enter()
	if lt.Current() != 3 || lt.Depth() != 2 {
		t.Errorf("after two Enter: lane %d depth %d, want 3 and 2", lt.Current(), lt.Depth())
	}
	lt.Exit()
	lt.Exit()
	lt.Next()
	if lt.Current() != 2 || lt.Depth() != 0 {
		t.Errorf("after Exit, Exit, Next: lane %d depth %d, want 2 and 0", lt.Current(), lt.Depth())
	}

	defer func() {
		if recover() == nil {
			t.Error("unbalanced Exit should panic")
		}
	}()
	lt.Exit()
}

func TestConfigBranchColorWraps(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.BranchColor(len(cfg.BranchColors)); got != cfg.BranchColors[0] {
		t.Errorf("BranchColor(len) = %q, want %q", got, cfg.BranchColors[0])
	}
}
