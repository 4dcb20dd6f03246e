package layout

import (
	"fmt"

	"github.com/matzehuels/commitgraph/pkg/gitgraph"
	"github.com/matzehuels/commitgraph/pkg/render/gitgraph/canvas"
)

// Label classes attached to commit nodes.
const (
	ClassBranchLabel = "branch-label"
	ClassCommitID    = "commit-id"
	ClassCommitMsg   = "commit-msg"
)

// PlaceHistory places the commit with the given id and all of its unplaced
// ancestors. A linear chain is followed iteratively; a merge places its first
// parent on the current lane and its second parent one lane further out.
//
// Placement stops at a commit that is already placed or at a parent id that
// is not part of the graph. Calling PlaceHistory again for a placed commit
// is a no-op.
func (c *Context) PlaceHistory(id string) error {
	for {
		commit, ok := c.graph.Commit(id)
		if !ok {
			c.logger.Debug("history boundary", "id", id)
			return nil
		}
		if c.placed[id] {
			return nil
		}
		if err := c.place(commit); err != nil {
			return err
		}

		switch len(commit.Parents) {
		case 0:
			return nil
		case 1:
			id = commit.Parents[0]
		default:
			return c.placeMerge(commit.Parents)
		}
	}
}

func (c *Context) placeMerge(parents []string) error {
	if err := c.PlaceHistory(parents[0]); err != nil {
		return err
	}
	c.lanes.Enter()
	defer c.lanes.Exit()
	return c.PlaceHistory(parents[1])
}

func (c *Context) place(commit *gitgraph.Commit) error {
	lane := c.lanes.Current()
	pos := c.strategy.position(commit.Seq, lane, c.graph.Len())

	style := canvas.NodeStyle{
		Fill:        c.cfg.NodeFillColor,
		Stroke:      c.cfg.NodeStrokeColor,
		StrokeWidth: c.cfg.NodeStrokeWidth,
	}
	if err := c.driver.PlaceNode(commit.ID, pos, style); err != nil {
		return fmt.Errorf("place %s: %w", commit.ID, err)
	}

	p := Placement{ID: commit.ID, Seq: commit.Seq, Lane: lane, Position: pos}
	c.placed[commit.ID] = true

	if b, ok := c.graph.BranchAt(commit.ID); ok {
		p.Labels = append(p.Labels, Label{Text: b.Name + ", ", Class: ClassBranchLabel})
	}
	p.Labels = append(p.Labels, Label{Text: commit.ID, Class: ClassCommitID})
	if c.strategy.showMessages() && commit.Message != "" {
		p.Labels = append(p.Labels, Label{Text: ", " + commit.Message, Class: ClassCommitMsg})
	}

	for _, l := range p.Labels {
		if err := c.driver.AttachLabel(commit.ID, l.Text, l.Class); err != nil {
			return fmt.Errorf("label %s: %w", commit.ID, err)
		}
	}

	c.result.Nodes = append(c.result.Nodes, p)
	c.logger.Debug("placed commit", "id", commit.ID, "seq", commit.Seq, "lane", lane)
	return nil
}
