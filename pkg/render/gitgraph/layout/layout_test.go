package layout

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/commitgraph/pkg/gitgraph"
	"github.com/matzehuels/commitgraph/pkg/render/gitgraph/canvas"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.NodeSpacing = 10
	cfg.BranchOffset = 10
	cfg.LeftMargin = 0
	cfg.NodeRadius = 1
	return cfg
}

func buildGraph(t *testing.T, dir gitgraph.Direction, commits []gitgraph.Commit, branches ...gitgraph.Branch) *gitgraph.Graph {
	t.Helper()
	g := gitgraph.New(dir)
	for _, c := range commits {
		if err := g.AddCommit(c); err != nil {
			t.Fatalf("AddCommit(%s): %v", c.ID, err)
		}
	}
	for _, b := range branches {
		if err := g.AddBranch(b); err != nil {
			t.Fatalf("AddBranch(%s): %v", b.Name, err)
		}
	}
	return g
}

func linearGraph(t *testing.T, dir gitgraph.Direction) *gitgraph.Graph {
	return buildGraph(t, dir, []gitgraph.Commit{
		{ID: "A", Seq: 0},
		{ID: "B", Seq: 1, Parents: []string{"A"}},
		{ID: "C", Seq: 2, Parents: []string{"B"}},
	}, gitgraph.Branch{Name: "main", Head: "C"})
}

// A <- B <- C(merge) with D branching off A.
func mergeGraph(t *testing.T, dir gitgraph.Direction) *gitgraph.Graph {
	return buildGraph(t, dir, []gitgraph.Commit{
		{ID: "A", Seq: 0},
		{ID: "B", Seq: 1, Parents: []string{"A"}},
		{ID: "D", Seq: 2, Parents: []string{"A"}},
		{ID: "C", Seq: 3, Parents: []string{"B", "D"}},
	},
		gitgraph.Branch{Name: "main", Head: "C"},
		gitgraph.Branch{Name: "feature", Head: "D"},
	)
}

func TestRenderLinear(t *testing.T) {
	rec := newRecorder()
	res := Render(linearGraph(t, gitgraph.LeftToRight), rec, testConfig(), nil)
	if res.Err != nil {
		t.Fatalf("Render() error = %v", res.Err)
	}

	wantX := map[string]float64{"A": 0, "B": 10, "C": 20}
	for id, x := range wantX {
		n, ok := res.Node(id)
		if !ok {
			t.Fatalf("node %s not placed", id)
		}
		if n.Position.X != x {
			t.Errorf("%s.X = %v, want %v", id, n.Position.X, x)
		}
		if n.Lane != 1 {
			t.Errorf("%s.Lane = %d, want 1", id, n.Lane)
		}
		if n.Position.Y != 10 {
			t.Errorf("%s.Y = %v, want 10", id, n.Position.Y)
		}
	}

	type edge struct{ From, To string }
	var got []edge
	for _, c := range res.Connectors {
		got = append(got, edge{c.From, c.To})
	}
	want := []edge{{"C", "B"}, {"B", "A"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("connectors mismatch (-want +got):\n%s", diff)
	}

	// Adjacent commits are exactly one spacing apart: single bent curve.
	wantPath := []canvas.Point{{X: 19, Y: 10}, {X: 14, Y: 10}, {X: 14, Y: 10}, {X: 11, Y: 10}}
	if len(rec.paths) != 2 {
		t.Fatalf("DrawPath calls = %d, want 2", len(rec.paths))
	}
	if diff := cmp.Diff(wantPath, rec.paths[0].Points); diff != "" {
		t.Errorf("C->B path mismatch (-want +got):\n%s", diff)
	}
	if rec.paths[0].Curve != canvas.CurveBasis {
		t.Errorf("C->B curve = %v, want basis", rec.paths[0].Curve)
	}
	if rec.height != 20 {
		t.Errorf("height = %v, want 20", rec.height)
	}
}

func TestRenderMerge(t *testing.T) {
	rec := newRecorder()
	cfg := testConfig()
	res := Render(mergeGraph(t, gitgraph.LeftToRight), rec, cfg, nil)
	if res.Err != nil {
		t.Fatalf("Render() error = %v", res.Err)
	}

	lanes := map[string]int{}
	var order []string
	for _, n := range res.Nodes {
		lanes[n.ID] = n.Lane
		order = append(order, n.ID)
	}
	if diff := cmp.Diff(map[string]int{"C": 1, "B": 1, "A": 1, "D": 2}, lanes); diff != "" {
		t.Errorf("lanes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"C", "B", "A", "D"}, order); diff != "" {
		t.Errorf("placement order mismatch (-want +got):\n%s", diff)
	}

	type edge struct{ From, To, Color string }
	var got []edge
	for _, c := range res.Connectors {
		got = append(got, edge{c.From, c.To, c.Color})
	}
	c0, c1 := cfg.BranchColor(0), cfg.BranchColor(1)
	want := []edge{
		{"C", "B", c0},
		{"C", "D", c1},
		{"D", "A", c1},
		{"B", "A", c0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("connectors mismatch (-want +got):\n%s", diff)
	}

	// C->B spans two spacings: dogleg of a bend and a straight run.
	if n := len(res.Connectors[0].Segments); n != 2 {
		t.Errorf("C->B segments = %d, want 2", n)
	}

	// LR height is (branches+1) * offset.
	if rec.height != 30 {
		t.Errorf("height = %v, want 30", rec.height)
	}
}

func TestRenderBottomToTop(t *testing.T) {
	g := buildGraph(t, gitgraph.BottomToTop, []gitgraph.Commit{
		{ID: "A", Seq: 0},
		{ID: "B", Seq: 1, Parents: []string{"A"}},
		{ID: "C", Seq: 2, Parents: []string{"B"}, Message: "fix"},
		{ID: "D", Seq: 3, Parents: []string{"C"}},
		{ID: "E", Seq: 4, Parents: []string{"D"}, Message: "tip"},
	},
		gitgraph.Branch{Name: "main", Head: "E"},
		gitgraph.Branch{Name: "dev", Head: "C"},
	)

	rec := newRecorder()
	cfg := testConfig()
	res := Render(g, rec, cfg, nil)
	if res.Err != nil {
		t.Fatalf("Render() error = %v", res.Err)
	}

	if res.Height != 50 || rec.height != 50 {
		t.Errorf("height = %v (driver %v), want 50", res.Height, rec.height)
	}
	wantLabel := canvas.LabelBox{X: 20, Y: -2, Width: 75, Height: 100, FillWidth: true}
	if rec.label != wantLabel {
		t.Errorf("label box = %+v, want %+v", rec.label, wantLabel)
	}

	e, _ := res.Node("E")
	if e.Position != (canvas.Point{X: 10, Y: 10}) {
		t.Errorf("E position = %+v, want {10 10}", e.Position)
	}
	a, _ := res.Node("A")
	if a.Position != (canvas.Point{X: 10, Y: 50}) {
		t.Errorf("A position = %+v, want {10 50}", a.Position)
	}

	wantLabels := map[string][]string{
		"E": {"branch-label:main, ", "commit-id:E", "commit-msg:, tip"},
		"C": {"branch-label:dev, ", "commit-id:C", "commit-msg:, fix"},
		"B": {"commit-id:B"},
	}
	for id, want := range wantLabels {
		if diff := cmp.Diff(want, rec.labels[id]); diff != "" {
			t.Errorf("labels of %s mismatch (-want +got):\n%s", id, diff)
		}
	}
}

func TestRenderLeftToRightOmitsMessages(t *testing.T) {
	g := buildGraph(t, gitgraph.LeftToRight, []gitgraph.Commit{
		{ID: "A", Seq: 0, Message: "init"},
	}, gitgraph.Branch{Name: "main", Head: "A"})

	rec := newRecorder()
	if res := Render(g, rec, testConfig(), nil); res.Err != nil {
		t.Fatal(res.Err)
	}
	if diff := cmp.Diff([]string{"branch-label:main, ", "commit-id:A"}, rec.labels["A"]); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderPlacesEachCommitOnce(t *testing.T) {
	g := buildGraph(t, gitgraph.LeftToRight, []gitgraph.Commit{
		{ID: "r", Seq: 0},
		{ID: "a", Seq: 1, Parents: []string{"r"}},
		{ID: "b", Seq: 2, Parents: []string{"r"}},
		{ID: "m1", Seq: 3, Parents: []string{"a", "b"}},
		{ID: "m2", Seq: 4, Parents: []string{"b", "a"}},
		{ID: "t", Seq: 5, Parents: []string{"m1", "m2"}},
	},
		gitgraph.Branch{Name: "main", Head: "t"},
		gitgraph.Branch{Name: "x", Head: "m2"},
		gitgraph.Branch{Name: "y", Head: "b"},
	)

	rec := newRecorder()
	res := Render(g, rec, testConfig(), nil)
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	for id, n := range rec.places {
		if n != 1 {
			t.Errorf("%s placed %d times", id, n)
		}
	}
	if len(res.Nodes) != g.Len() {
		t.Errorf("placed %d nodes, want %d", len(res.Nodes), g.Len())
	}

	seen := map[[2]string]int{}
	for _, c := range res.Connectors {
		seen[[2]string{c.From, c.To}]++
	}
	for e, n := range seen {
		if n != 1 {
			t.Errorf("connector %s->%s drawn %d times", e[0], e[1], n)
		}
	}
	// Every parent edge of every commit is drawn.
	if len(seen) != 8 {
		t.Errorf("distinct connectors = %d, want 8", len(seen))
	}
}

func TestPlaceHistoryRestoresLane(t *testing.T) {
	// m merges p and q, q itself merges q1 and q2.
	g := buildGraph(t, gitgraph.LeftToRight, []gitgraph.Commit{
		{ID: "r", Seq: 0},
		{ID: "p", Seq: 1, Parents: []string{"r"}},
		{ID: "q1", Seq: 2, Parents: []string{"r"}},
		{ID: "q2", Seq: 3, Parents: []string{"r"}},
		{ID: "q", Seq: 4, Parents: []string{"q1", "q2"}},
		{ID: "m", Seq: 5, Parents: []string{"p", "q"}},
	}, gitgraph.Branch{Name: "main", Head: "m"})

	rec := newRecorder()
	ctx := NewContext(g, rec, testConfig(), nil)
	_ = rec.CreateNodeTemplate(1, canvas.LabelBox{})

	before := ctx.Lane()
	if err := ctx.PlaceHistory("m"); err != nil {
		t.Fatal(err)
	}
	if after := ctx.Lane(); after != before {
		t.Errorf("lane after nested merges = %d, want %d", after, before)
	}

	want := map[string]int{"m": 1, "p": 1, "r": 1, "q": 2, "q1": 2, "q2": 3}
	got := map[string]int{}
	for _, n := range ctx.result.Nodes {
		got[n.ID] = n.Lane
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lanes mismatch (-want +got):\n%s", diff)
	}

	// Placing a placed commit again is a no-op.
	if err := ctx.PlaceHistory("q"); err != nil {
		t.Fatal(err)
	}
	if len(ctx.result.Nodes) != 6 {
		t.Errorf("nodes after re-placing = %d, want 6", len(ctx.result.Nodes))
	}
}

func TestRenderUnknownParent(t *testing.T) {
	g := buildGraph(t, gitgraph.LeftToRight, []gitgraph.Commit{
		{ID: "B", Seq: 5, Parents: []string{"gone"}},
		{ID: "M", Seq: 6, Parents: []string{"B", "lost"}},
	}, gitgraph.Branch{Name: "main", Head: "M"})

	rec := newRecorder()
	res := Render(g, rec, testConfig(), nil)
	if res.Err != nil {
		t.Fatalf("Render() error = %v, want history boundary to be silent", res.Err)
	}
	if len(res.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2", len(res.Nodes))
	}
	if len(res.Connectors) != 1 || res.Connectors[0].To != "B" {
		t.Errorf("connectors = %+v, want only M->B", res.Connectors)
	}
}

func TestRenderDeterministic(t *testing.T) {
	first := Render(mergeGraph(t, gitgraph.BottomToTop), newRecorder(), testConfig(), nil)
	second := Render(mergeGraph(t, gitgraph.BottomToTop), newRecorder(), testConfig(), nil)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("renders differ (-first +second):\n%s", diff)
	}
}

func TestRenderFailures(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(*recorder)
		wantErr   error
		wantNodes int
	}{
		{
			name:      "place error",
			setup:     func(r *recorder) { r.failPlace = "B" },
			wantErr:   errDriver,
			wantNodes: 1,
		},
		{
			name:      "missing measurement",
			setup:     func(r *recorder) { r.unmeasured = "B" },
			wantErr:   ErrMissingMeasurement,
			wantNodes: 3,
		},
		{
			name:      "panic",
			setup:     func(r *recorder) { r.panicOnDraw = true },
			wantErr:   ErrRenderPanic,
			wantNodes: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newRecorder()
			tt.setup(rec)

			res := Render(linearGraph(t, gitgraph.LeftToRight), rec, testConfig(), nil)
			if !errors.Is(res.Err, tt.wantErr) {
				t.Fatalf("Err = %v, want %v", res.Err, tt.wantErr)
			}
			if !res.Partial() {
				t.Error("Partial() = false for a failed render")
			}
			if len(res.Nodes) != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", len(res.Nodes), tt.wantNodes)
			}
			for _, c := range rec.calls {
				if c == "height" {
					t.Error("canvas height set after failure")
				}
			}
		})
	}
}

func TestContextSingleUse(t *testing.T) {
	ctx := NewContext(linearGraph(t, gitgraph.LeftToRight), newRecorder(), testConfig(), nil)
	if res := ctx.Render(); res.Err != nil {
		t.Fatal(res.Err)
	}
	if res := ctx.Render(); !errors.Is(res.Err, ErrContextReused) {
		t.Errorf("second Render() Err = %v, want %v", res.Err, ErrContextReused)
	}
}

func TestDrawOrder(t *testing.T) {
	rec := newRecorder()
	Render(linearGraph(t, gitgraph.LeftToRight), rec, testConfig(), nil)

	want := []string{"template", "node C", "node B", "node A", "path basis", "path basis", "height"}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("call order mismatch (-want +got):\n%s", diff)
	}
}
