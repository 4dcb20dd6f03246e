package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/commitgraph/pkg/gitgraph"
	"github.com/matzehuels/commitgraph/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the commit message below the commit ID.
	Detailed bool
	// BranchColors fills the branch reference boxes, by branch index.
	// Indexes wrap around; an empty palette uses grey.
	BranchColors []string
}

// ToDOT converts a commit graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Edges point from each commit to its parents. The rank direction follows
// the graph direction so the oldest commit sits on the left (LR) or at the
// bottom (BT). Merge commits have a double outline. Each branch is drawn as
// a reference box next to its head. Parents outside the graph get no edge.
func ToDOT(g *gitgraph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankDir(g.Direction))
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\", fontsize=12, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	commits := g.SortedCommits()
	for _, c := range commits {
		attrs := fmtAttrs(*c, fmtLabel(*c, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", c.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, c := range commits {
		for i, p := range c.Parents {
			if _, ok := g.Commit(p); !ok {
				continue
			}
			if i == 1 {
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", c.ID, p)
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", c.ID, p)
		}
	}

	if branches := g.Branches(); len(branches) > 0 {
		buf.WriteString("\n")
		for i, b := range branches {
			ref := refID(b.Name)
			fmt.Fprintf(&buf, "  %q [label=%q, shape=cds, style=filled, fillcolor=%q, fontcolor=white];\n",
				ref, b.Name, branchColor(opts.BranchColors, i))
			fmt.Fprintf(&buf, "  %q -> %q [arrowhead=none, style=dotted];\n", ref, b.Head)
			fmt.Fprintf(&buf, "  { rank=same; %q; %q; }\n", ref, b.Head)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// Child-to-parent edges: the oldest commit ends up last in rank order.
func rankDir(d gitgraph.Direction) string {
	if d == gitgraph.BottomToTop {
		return "TB"
	}
	return "RL"
}

func refID(branch string) string { return "ref:" + branch }

func branchColor(palette []string, i int) string {
	if len(palette) == 0 {
		return "grey"
	}
	return palette[i%len(palette)]
}

func fmtLabel(c gitgraph.Commit, detailed bool) string {
	if !detailed || c.Message == "" {
		return c.ID
	}
	return c.ID + "\n" + c.Message
}

func fmtAttrs(c gitgraph.Commit, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if c.IsMerge() {
		attrs = append(attrs, "peripheries=2")
	}
	if c.IsRoot() {
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox moves the Graphviz viewBox to the origin and sets pixel
// dimensions so the SVG scales like the lane diagram does.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
