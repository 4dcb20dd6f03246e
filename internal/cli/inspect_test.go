package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/commitgraph/pkg/gitgraph"
	"github.com/matzehuels/commitgraph/pkg/render/gitgraph/canvas"
	"github.com/matzehuels/commitgraph/pkg/render/gitgraph/layout"
)

func sampleLayout(t *testing.T) (*gitgraph.Graph, *layout.Result) {
	t.Helper()
	g := gitgraph.New(gitgraph.LeftToRight)
	for _, c := range []gitgraph.Commit{
		{ID: "a1", Seq: 0, Message: "init"},
		{ID: "b2", Seq: 1, Parents: []string{"a1"}},
		{ID: "c3", Seq: 2, Parents: []string{"a1"}},
		{ID: "m4", Seq: 3, Parents: []string{"b2", "c3"}},
	} {
		if err := g.AddCommit(c); err != nil {
			t.Fatal(err)
		}
	}
	for _, b := range []gitgraph.Branch{{Name: "main", Head: "m4"}, {Name: "feature", Head: "c3"}} {
		if err := g.AddBranch(b); err != nil {
			t.Fatal(err)
		}
	}
	res := layout.Render(g, canvas.NewSVG(), layout.DefaultConfig(), nil)
	if res.Partial() {
		t.Fatalf("layout stopped early: %v", res.Err)
	}
	return g, &res
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m CommitListModel, msg tea.Msg) (CommitListModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(CommitListModel), cmd
}

func TestCommitListNavigation(t *testing.T) {
	g, res := sampleLayout(t)
	m := NewCommitListModel(g, res)

	m, _ = update(t, m, key("up"))
	if m.Cursor != 0 {
		t.Errorf("cursor moved above the first row: %d", m.Cursor)
	}
	for i := 0; i < 10; i++ {
		m, _ = update(t, m, key("j"))
	}
	if m.Cursor != len(res.Nodes)-1 {
		t.Errorf("cursor = %d, want %d", m.Cursor, len(res.Nodes)-1)
	}
	m, _ = update(t, m, key("k"))
	if m.Cursor != len(res.Nodes)-2 {
		t.Errorf("cursor = %d after k, want %d", m.Cursor, len(res.Nodes)-2)
	}
}

func TestCommitListScrolls(t *testing.T) {
	g, res := sampleLayout(t)
	m := NewCommitListModel(g, res)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 1})
	if m.Height != 5 {
		t.Fatalf("height = %d, want the minimum of 5", m.Height)
	}
	m.Height = 2
	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("down"))
	if m.Offset != 1 {
		t.Errorf("offset = %d, want 1", m.Offset)
	}
	m, _ = update(t, m, key("up"))
	m, _ = update(t, m, key("up"))
	if m.Offset != 0 {
		t.Errorf("offset = %d after scrolling back, want 0", m.Offset)
	}
}

func TestCommitListConnectors(t *testing.T) {
	g, res := sampleLayout(t)
	m := NewCommitListModel(g, res)

	if strings.Contains(m.View(), "Connectors of") {
		t.Error("connector panel shown before enter")
	}

	id := res.Nodes[0].ID
	m, _ = update(t, m, key("enter"))
	view := m.View()
	if !strings.Contains(view, "Connectors of "+id) {
		t.Errorf("view missing connector panel for %s:\n%s", id, view)
	}
	if !strings.Contains(view, "segments") {
		t.Errorf("view missing connector rows:\n%s", view)
	}

	m, cmd := update(t, m, key("esc"))
	if m.Showing || cmd != nil {
		t.Error("esc should close the panel without quitting")
	}
	if _, cmd := update(t, m, key("esc")); cmd == nil {
		t.Error("esc without a panel should quit")
	}
}

func TestCommitListQuit(t *testing.T) {
	g, res := sampleLayout(t)
	_, cmd := update(t, NewCommitListModel(g, res), key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestCommitListEmpty(t *testing.T) {
	m := NewCommitListModel(gitgraph.New(gitgraph.LeftToRight), &layout.Result{})
	m, _ = update(t, m, key("enter"))
	if m.Showing {
		t.Error("enter on an empty list should not open the panel")
	}
	if !strings.Contains(m.View(), "no commits placed") {
		t.Error("empty view should say so")
	}
}
