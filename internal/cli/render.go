package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/commitgraph/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	inputFlags
	output   string  // output file path (or base path for multiple outputs)
	vizType  string  // visualization type: "gitgraph" or "nodelink"
	formats  string  // comma-separated output formats
	detailed bool    // show commit messages in nodelink diagrams
	strict   bool    // fail instead of writing a partial layout
	noCache  bool    // disable the render cache
	scale    float64 // PNG scale factor
}

// renderCommand creates the render command for generating diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Render a commit graph to SVG, PNG, PDF, or JSON",
		Long: `Render lays out a commit graph and writes one file per format.

The input is a JSON or TOML graph file. With --git it is a path inside a
git repository whose branches are walked instead.`,
		Example: `  commitgraph render history.toml
  commitgraph render --git . -b main -b develop -f svg,png
  commitgraph render history.json -d BT -o out/history.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.vizType, "type", "t", pipeline.DefaultVizType, "visualization type: gitgraph, nodelink")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show commit messages (nodelink)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when the layout stops early")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")

	return cmd
}

// runRender executes the pipeline and writes each artifact to disk.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := opts.options(input)
	popts.VizType = opts.vizType
	popts.Formats = parseFormats(opts.formats)
	popts.Detailed = opts.detailed
	popts.Strict = opts.strict
	popts.Scale = opts.scale

	spinner := newSpinnerWithContext(ctx, "Rendering "+input+"...")
	spinner.Start()
	start := time.Now()
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(result.Artifacts, basePath(opts.output, input, opts.git), opts.output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s %s", input, StyleDim.Render(fmt.Sprintf("(%s)", time.Since(start).Round(time.Millisecond))))
	for _, p := range paths {
		printFile(p)
	}
	cached := result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit
	printStats(result.Stats.CommitCount, result.Stats.BranchCount, cached)
	if result.Layout.Partial {
		printWarning("Layout stopped early: %s", result.Layout.Error)
	}
	return nil
}

// writeArtifacts writes each artifact next to base. A single artifact is
// written to output verbatim when output is set.
func writeArtifacts(artifacts map[string][]byte, base, output string) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + "." + f
		if len(formats) == 1 && output != "" {
			path = output
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
