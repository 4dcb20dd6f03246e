// Package pipeline provides the load → layout → render pipeline shared by
// the CLI and the render server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read a graph file (JSON or TOML) or walk a git repository
//  2. Layout: place commits and route connectors (gitgraph), or emit DOT
//     for a node-link diagram (nodelink)
//  3. Render: produce the requested artifacts (SVG, PNG, PDF, JSON)
//
// Each stage can be run on its own or through [Runner.Execute]. The runner
// caches loaded repositories, layouts, and artifacts by content hash.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "history.toml",
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/commitgraph/pkg/cache"
	errs "github.com/matzehuels/commitgraph/pkg/errors"
	"github.com/matzehuels/commitgraph/pkg/gitgraph"
	"github.com/matzehuels/commitgraph/pkg/render"
	"github.com/matzehuels/commitgraph/pkg/render/gitgraph/layout"
)

// =============================================================================
// Default Values
// =============================================================================

// Graph sources.
const (
	SourceFile = "file"
	SourceGit  = "git"
)

// Visualization types.
const (
	VizTypeGitGraph = "gitgraph"
	VizTypeNodelink = "nodelink"
)

const (
	// DefaultSource reads graph files.
	DefaultSource = SourceFile

	// DefaultVizType is the lane layout.
	DefaultVizType = VizTypeGitGraph

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0
)

// ValidSources is the set of supported graph sources.
var ValidSources = map[string]bool{
	SourceFile: true,
	SourceGit:  true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTypeGitGraph: true,
	VizTypeNodelink: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Input      string   `json:"input,omitempty"`
	Source     string   `json:"source,omitempty"`
	Direction  string   `json:"direction,omitempty"` // Overrides the graph's own direction
	MaxCommits int      `json:"max_commits,omitempty"`
	Branches   []string `json:"branches,omitempty"`
	Refresh    bool     `json:"refresh,omitempty"` // Bypass cached repository walks

	// Layout options
	VizType    string `json:"viz_type,omitempty"`
	ConfigPath string `json:"config_path,omitempty"`
	Detailed   bool   `json:"detailed,omitempty"` // Nodelink: show commit messages
	Strict     bool   `json:"strict,omitempty"`   // Fail on a partial layout

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Graph  *gitgraph.Graph `json:"-"` // Preloaded graph; skips the load stage
	Config *layout.Config  `json:"-"` // Takes precedence over ConfigPath
	Logger *log.Logger     `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the loaded commit graph.
	Graph *gitgraph.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Layout contains the placements and the drawing source.
	Layout Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	CommitCount int
	BranchCount int
	LoadTime    time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // Whether the repository walk came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if _, err := render.ParseFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errs.New(errs.ErrCodeInvalidVizType, "invalid viz_type: %q (must be one of: gitgraph, nodelink)", vizType)
	}
	return nil
}

// ValidateSource checks that a graph source is valid.
func ValidateSource(source string) error {
	if !ValidSources[source] {
		return errs.New(errs.ErrCodeInvalidSource, "invalid source: %q (must be one of: file, git)", source)
	}
	return nil
}

// ValidateDirection checks a direction override. Empty keeps the graph's.
func ValidateDirection(dir string) error {
	if _, err := gitgraph.ParseDirection(dir); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidDirection, err, "invalid direction")
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	o.setLogger()
	if err := ValidateDirection(o.Direction); err != nil {
		return err
	}
	if o.Graph != nil {
		return nil
	}
	if o.Source == "" {
		o.Source = DefaultSource
	}
	if err := ValidateSource(o.Source); err != nil {
		return err
	}
	if err := errs.ValidatePath(o.Input); err != nil {
		return err
	}
	if o.MaxCommits < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "max_commits must not be negative")
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return ValidateVizType(o.VizType)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{string(render.FormatSVG)}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "scale must be positive")
	}
	formats, err := canonicalFormats(o.Formats)
	if err != nil {
		return err
	}
	o.Formats = formats
	return nil
}

// canonicalFormats lowercases and dedupes format names, keeping order.
func canonicalFormats(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	for _, name := range in {
		f, err := render.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, string(f)) {
			out = append(out, string(f))
		}
	}
	return out, nil
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == VizTypeNodelink
}

// ResolveConfig returns the layout config: [Options.Config] if set, else
// the file at ConfigPath, else the defaults.
func (o *Options) ResolveConfig() (layout.Config, error) {
	switch {
	case o.Config != nil:
		if err := o.Config.Validate(); err != nil {
			return layout.Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid layout config")
		}
		return o.Config.Clone(), nil
	case o.ConfigPath != "":
		cfg, err := layout.LoadConfig(o.ConfigPath)
		if err != nil {
			return layout.Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "load config %s", o.ConfigPath)
		}
		return cfg, nil
	}
	return layout.DefaultConfig(), nil
}

// GraphKeyOpts returns cache key options for repository walks.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Direction:  o.Direction,
		MaxCommits: o.MaxCommits,
		Branches:   o.Branches,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(configHash string) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		VizType:    o.VizType,
		Direction:  o.Direction,
		ConfigHash: configHash,
		Detailed:   o.Detailed,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	if format == string(render.FormatPNG) {
		opts.Scale = o.Scale
	}
	return opts
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}
