package layout

import (
	"fmt"
)

// Connector is a drawn edge from a commit to one of its parents.
type Connector struct {
	From     string    `json:"from"`
	To       string    `json:"to"`
	Color    string    `json:"color"`
	Segments []Segment `json:"segments"`
}

// DrawConnectors emits the connectors of the commit with the given id and of
// its first-parent chain, using the branch color with index color. For a
// merge the second parent gets color+1 and its own chain is drawn before the
// pass continues along the first parent.
//
// The pass stops at the root, at a commit whose connectors were already
// drawn, or at a parent that is not part of the graph.
func (c *Context) DrawConnectors(id string, color int) error {
	for {
		commit, ok := c.graph.Commit(id)
		if !ok || commit.Seq <= 0 || c.drawn[id] || len(commit.Parents) == 0 {
			return nil
		}

		switch len(commit.Parents) {
		case 1:
			if err := c.connect(commit.ID, commit.Parents[0], color); err != nil {
				return err
			}
		default:
			first, second := commit.Parents[0], commit.Parents[1]
			if err := c.connect(commit.ID, first, color); err != nil {
				return err
			}
			if err := c.connect(commit.ID, second, color+1); err != nil {
				return err
			}
			if err := c.DrawConnectors(second, color+1); err != nil {
				return err
			}
		}
		c.drawn[id] = true

		id = commit.Parents[0]
	}
}

// connect routes and draws the connector between two placed commits. A
// parent that is not part of the graph has no node and is skipped.
func (c *Context) connect(from, to string, color int) error {
	if _, ok := c.graph.Commit(to); !ok {
		c.logger.Debug("history boundary", "from", from, "to", to)
		return nil
	}

	fromBox, err := c.driver.MeasureNode(from)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMissingMeasurement, from, err)
	}
	toBox, err := c.driver.MeasureNode(to)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMissingMeasurement, to, err)
	}

	conn := Connector{
		From:     from,
		To:       to,
		Color:    c.cfg.BranchColor(color),
		Segments: c.strategy.route(fromBox, toBox),
	}
	for _, seg := range conn.Segments {
		if err := c.driver.DrawPath(seg.Points, conn.Color, c.cfg.LineStrokeWidth, seg.Curve); err != nil {
			return fmt.Errorf("draw %s -> %s: %w", from, to, err)
		}
	}

	c.result.Connectors = append(c.result.Connectors, conn)
	c.logger.Debug("drew connector", "from", from, "to", to, "color", conn.Color, "segments", len(conn.Segments))
	return nil
}
