package pipeline

import (
	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/commitgraph/pkg/errors"
	"github.com/matzehuels/commitgraph/pkg/gitgraph"
	"github.com/matzehuels/commitgraph/pkg/render/gitgraph/canvas"
	"github.com/matzehuels/commitgraph/pkg/render/gitgraph/layout"
	"github.com/matzehuels/commitgraph/pkg/render/nodelink"
)

// Layout is the serializable output of the layout stage.
//
// A gitgraph layout carries the placements and connectors plus the drawn
// SVG document. A nodelink layout carries the DOT source.
type Layout struct {
	VizType   string             `json:"viz_type"`
	Direction gitgraph.Direction `json:"direction"`
	Result    *layout.Result     `json:"result,omitempty"`
	SVG       []byte             `json:"svg,omitempty"`
	DOT       string             `json:"dot,omitempty"`

	// Partial is set when the gitgraph layout stopped early. Error holds
	// the reason.
	Partial bool   `json:"partial,omitempty"`
	Error   string `json:"error,omitempty"`
}

// GenerateLayout computes the layout for any visualization type.
func GenerateLayout(g *gitgraph.Graph, cfg layout.Config, opts Options) (Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return Layout{}, err
	}
	if opts.IsNodelink() {
		return generateNodelinkLayout(g, cfg, opts), nil
	}
	return generateGitGraphLayout(g, cfg, opts)
}

// generateGitGraphLayout draws the lane layout onto an SVG canvas.
func generateGitGraphLayout(g *gitgraph.Graph, cfg layout.Config, opts Options) (Layout, error) {
	svg := canvas.NewSVG()
	res := layout.Render(g, svg, cfg, opts.Logger)
	if err := checkPartial(res, opts.Strict, opts.Logger); err != nil {
		return Layout{}, err
	}

	l := Layout{
		VizType:   VizTypeGitGraph,
		Direction: g.Direction,
		Result:    &res,
		SVG:       svg.Bytes(),
		Partial:   res.Partial(),
	}
	if res.Err != nil {
		l.Error = res.Err.Error()
	}
	return l, nil
}

// checkPartial reports an incomplete layout. In strict mode it is an error;
// otherwise the partial drawing is kept and a warning logged.
func checkPartial(res layout.Result, strict bool, logger *log.Logger) error {
	if res.Err == nil {
		return nil
	}
	if strict {
		return errs.Wrap(errs.ErrCodeRenderFailed, res.Err, "layout incomplete after %d commits", len(res.Nodes))
	}
	logger.Warn("layout incomplete, keeping partial drawing", "placed", len(res.Nodes), "err", res.Err)
	return nil
}

// generateNodelinkLayout emits the DOT source of a node-link diagram.
func generateNodelinkLayout(g *gitgraph.Graph, cfg layout.Config, opts Options) Layout {
	dot := nodelink.ToDOT(g, nodelink.Options{
		Detailed:     opts.Detailed,
		BranchColors: cfg.BranchColors,
	})
	return Layout{
		VizType:   VizTypeNodelink,
		Direction: g.Direction,
		DOT:       dot,
	}
}
