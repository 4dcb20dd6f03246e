// Package cli implements the commitgraph command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/commitgraph/pkg/buildinfo"
	"github.com/matzehuels/commitgraph/pkg/cache"
	"github.com/matzehuels/commitgraph/pkg/observability"
	"github.com/matzehuels/commitgraph/pkg/pipeline"
	"github.com/matzehuels/commitgraph/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "commitgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the pipeline,
// cache, and server hooks log every event.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "commitgraph draws git history as lane diagrams",
		Long: `commitgraph lays out a commit graph the way gitGraph diagrams do: one lane
per branch, merges on their own lane, connectors routed between commits.
Input is a JSON or TOML graph file, or a git repository with --git.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/commitgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Input Helpers
// =============================================================================

// inputFlags are the load options shared by render, layout, and inspect.
type inputFlags struct {
	git        bool
	direction  string
	maxCommits int
	branches   []string
	configPath string
	refresh    bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.git, "git", false, "treat the input as a git repository path")
	cmd.Flags().StringVarP(&f.direction, "direction", "d", "", "override the graph direction: LR or BT")
	cmd.Flags().IntVar(&f.maxCommits, "max-commits", 0, "keep only the newest commits (--git)")
	cmd.Flags().StringSliceVarP(&f.branches, "branch", "b", nil, "only include these branches (--git, repeatable)")
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "layout config file (TOML)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "walk the repository again instead of using the cache (--git)")
}

// options builds pipeline options for input.
func (f *inputFlags) options(input string) pipeline.Options {
	opts := pipeline.Options{
		Input:      input,
		Source:     pipeline.SourceFile,
		Direction:  f.direction,
		MaxCommits: f.maxCommits,
		Branches:   f.branches,
		ConfigPath: f.configPath,
		Refresh:    f.refresh,
	}
	if f.git {
		opts.Source = pipeline.SourceGit
	}
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{string(render.FormatSVG)}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input; a repository
// path becomes "<dir name>". A known format extension on output is
// stripped so several formats can share one base.
func basePath(output, input string, git bool) string {
	if output == "" {
		if git {
			abs, err := filepath.Abs(input)
			if err != nil {
				return appName
			}
			return filepath.Base(abs)
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if _, err := render.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil && ext != "" {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
