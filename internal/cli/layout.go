package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/commitgraph/pkg/gitgraph"
	"github.com/matzehuels/commitgraph/pkg/pipeline"
	"github.com/matzehuels/commitgraph/pkg/render/gitgraph/layout"
)

// layoutCommand prints where every commit lands without writing files.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   inputFlags
		asJSON  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout <input>",
		Short: "Print commit placements and connectors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, res, err := c.computeLayout(cmd.Context(), args[0], flags, noCache)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprintln(cmd.OutOrStdout(), placementTable(g, res))
			fmt.Fprintln(cmd.OutOrStdout(), StyleDim.Render(fmt.Sprintf("  %d connectors · %gx%g", len(res.Connectors), res.Width, res.Height)))
			if res.Partial() {
				printWarning("Layout stopped early: %v", res.Err)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the layout as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// computeLayout loads input and computes its gitgraph layout.
func (c *CLI) computeLayout(ctx context.Context, input string, flags inputFlags, noCache bool) (*gitgraph.Graph, *layout.Result, error) {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return nil, nil, err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	opts := flags.options(input)
	opts.VizType = pipeline.VizTypeGitGraph
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}
	g, err := runner.Load(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	l, err := runner.GenerateLayout(ctx, g, opts)
	if err != nil {
		return nil, nil, err
	}
	if l.Result == nil {
		return nil, nil, fmt.Errorf("layout produced no placements")
	}
	prog.done("Computed layout for " + input)
	return g, l.Result, nil
}

// placementTable renders the placements of res as a bordered table.
func placementTable(g *gitgraph.Graph, res *layout.Result) string {
	rows := make([][]string, 0, len(res.Nodes))
	for _, n := range res.Nodes {
		rows = append(rows, placementRow(g, n))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Commit", "Seq", "Lane", "Position", "Branch", "Message").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return StyleHighlight
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

func placementRow(g *gitgraph.Graph, n layout.Placement) []string {
	branch, message := "", ""
	if b, ok := g.BranchAt(n.ID); ok {
		branch = b.Name
	}
	if commit, ok := g.Commit(n.ID); ok {
		message = firstLine(commit.Message)
	}
	return []string{
		n.ID,
		strconv.Itoa(n.Seq),
		strconv.Itoa(n.Lane),
		fmt.Sprintf("%g,%g", n.Position.X, n.Position.Y),
		branch,
		message,
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

