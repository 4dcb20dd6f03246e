package layout

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/commitgraph/pkg/gitgraph"
	"github.com/matzehuels/commitgraph/pkg/render/gitgraph/canvas"
)

var (
	// ErrMissingMeasurement is returned when the driver cannot measure a
	// node that should already be placed.
	ErrMissingMeasurement = errors.New("node not measurable")

	// ErrRenderPanic wraps a panic recovered at the render boundary.
	ErrRenderPanic = errors.New("render panicked")

	// ErrContextReused is returned when Render is called twice on the same
	// Context. A retry needs a fresh Context and a fresh driver.
	ErrContextReused = errors.New("render context already used")
)

// Label is a text span attached to a commit node.
type Label struct {
	Text  string `json:"text"`
	Class string `json:"class"`
}

// Placement records where a commit node was placed.
type Placement struct {
	ID       string       `json:"id"`
	Seq      int          `json:"seq"`
	Lane     int          `json:"lane"`
	Position canvas.Point `json:"position"`
	Labels   []Label      `json:"labels"`
}

// Result describes a finished, or partially finished, render.
//
// Nodes are in placement order and Connectors in draw order, which is also
// the order in which the driver received them. Err is set when the render
// stopped early; everything recorded up to that point was drawn.
type Result struct {
	Direction  gitgraph.Direction `json:"direction"`
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	Label      canvas.LabelBox    `json:"label"`
	Nodes      []Placement        `json:"nodes"`
	Connectors []Connector        `json:"connectors"`
	Err        error              `json:"-"`
}

// Node returns the placement of the commit with the given id.
func (r *Result) Node(id string) (Placement, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Placement{}, false
}

// Partial reports whether the render stopped before completing.
func (r *Result) Partial() bool { return r.Err != nil }

// Context holds the mutable state of a single render: placed and drawn
// commits, the lane counter and the accumulated result. A Context is used
// for exactly one render and is not safe for concurrent use.
type Context struct {
	graph    *gitgraph.Graph
	driver   canvas.Driver
	cfg      Config
	strategy strategy
	logger   *log.Logger

	lanes  LaneTracker
	placed map[string]bool
	drawn  map[string]bool
	result Result
	used   bool
}

// NewContext prepares a render of g onto d. A nil logger discards output.
func NewContext(g *gitgraph.Graph, d canvas.Driver, cfg Config, logger *log.Logger) *Context {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Context{
		graph:    g,
		driver:   d,
		cfg:      cfg,
		strategy: newStrategy(g.Direction, cfg),
		logger:   logger,
		lanes:    LaneTracker{lane: firstLane},
		placed:   make(map[string]bool),
		drawn:    make(map[string]bool),
		result:   Result{Direction: g.Direction},
	}
}

// Render lays out g onto d with a fresh [Context].
func Render(g *gitgraph.Graph, d canvas.Driver, cfg Config, logger *log.Logger) Result {
	return NewContext(g, d, cfg, logger).Render()
}

// Render places every branch's history, draws its connectors and sets the
// canvas height. Branches are processed in graph order, each starting one
// lane further out than the previous one.
//
// Render never panics and never returns an error directly: a driver error,
// missing measurement or panic stops the render, is logged, and is reported
// in Result.Err alongside whatever was drawn before the failure.
func (c *Context) Render() (res Result) {
	if c.used {
		return Result{Direction: c.graph.Direction, Err: ErrContextReused}
	}
	c.used = true

	defer func() {
		if r := recover(); r != nil {
			c.result.Err = fmt.Errorf("%w: %v", ErrRenderPanic, r)
		}
		if c.result.Err != nil {
			c.logger.Error("render stopped", "err", c.result.Err,
				"placed", len(c.result.Nodes), "connectors", len(c.result.Connectors))
		}
		res = c.result
	}()

	c.result.Err = c.run()
	return c.result
}

func (c *Context) run() error {
	branches := c.graph.Branches()

	label := c.strategy.labelBox(c.cfg.NodeLabel, len(branches))
	c.result.Label = label
	if err := c.driver.CreateNodeTemplate(c.cfg.NodeRadius, label); err != nil {
		return fmt.Errorf("node template: %w", err)
	}

	c.lanes.Reset()
	for _, b := range branches {
		c.logger.Debug("rendering branch", "branch", b.Name, "head", b.Head, "lane", c.lanes.Current())
		if err := c.PlaceHistory(b.Head); err != nil {
			return fmt.Errorf("branch %s: %w", b.Name, err)
		}
		if err := c.DrawConnectors(b.Head, 0); err != nil {
			return fmt.Errorf("branch %s: %w", b.Name, err)
		}
		c.lanes.Next()
	}

	height := c.strategy.extent(c.graph.Len(), len(branches))
	if err := c.driver.SetCanvasHeight(height); err != nil {
		return fmt.Errorf("canvas height: %w", err)
	}
	c.result.Height = height
	c.result.Width = c.width()
	return nil
}

func (c *Context) width() float64 {
	var w float64
	for _, n := range c.result.Nodes {
		w = math.Max(w, n.Position.X+c.cfg.NodeRadius)
	}
	return w
}

// Lane returns the current lane. It is the baseline lane of the next branch
// once a branch has been rendered.
func (c *Context) Lane() int { return c.lanes.Current() }
