package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/commitgraph/pkg/cache"
	"github.com/matzehuels/commitgraph/pkg/gitgraph"
	graphio "github.com/matzehuels/commitgraph/pkg/io"
	"github.com/matzehuels/commitgraph/pkg/observability"
	"github.com/matzehuels/commitgraph/pkg/source/gitrepo"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	g, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.CommitCount = g.Len()
	result.Stats.BranchCount = len(g.Branches())
	result.CacheInfo.LoadHit = loadHit

	graphHash, err := HashGraph(g)
	if err != nil {
		return nil, err
	}
	result.GraphHash = graphHash

	r.Logger.Info("loaded history",
		"commits", g.Len(),
		"branches", len(g.Branches()),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"type", l.VizType,
		"partial", l.Partial,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads the graph and reports whether it came from cache.
// Only repository walks are cached; graph files are cheap to read.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (g *gitgraph.Graph, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	source, input := opts.Source, opts.Input
	if opts.Graph != nil {
		source, input = "graph", ""
	}
	hooks.OnLoadStart(ctx, source, input)
	start := time.Now()
	defer func() {
		n := 0
		if g != nil {
			n = g.Len()
		}
		hooks.OnLoadComplete(ctx, source, input, n, time.Since(start), err)
	}()

	if opts.Graph != nil || opts.Source != SourceGit {
		g, err = Load(ctx, opts)
		return g, false, err
	}

	fingerprint, err := gitrepo.Fingerprint(opts.Input, gitrepo.Options{Branches: opts.Branches})
	if err != nil {
		return nil, false, classifyLoadError(opts.Input, err)
	}
	cacheKey := r.Keyer.GraphKey(SourceGit, fingerprint, opts.GraphKeyOpts())

	if !opts.Refresh {
		if data, ok := r.get(ctx, "graph", cacheKey); ok {
			if cached, err := graphio.ReadJSON(bytes.NewReader(data)); err == nil {
				return cached, true, nil
			}
		}
	}

	g, err = Load(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := graphio.WriteJSON(g, &buf); err == nil {
		r.set(ctx, "graph", cacheKey, buf.Bytes(), cache.TTLGraph)
	}
	return g, false, nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*gitgraph.Graph, error) {
	g, _, err := r.LoadWithCacheInfo(ctx, opts)
	return g, err
}

// GenerateLayoutWithCacheInfo generates a layout with caching and returns cache hit info.
// Partial layouts are never cached.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, g *gitgraph.Graph, opts Options) (l Layout, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return Layout{}, false, err
	}
	cfg, err := opts.ResolveConfig()
	if err != nil {
		return Layout{}, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.VizType, g.Len())
	start := time.Now()
	defer func() { hooks.OnLayoutComplete(ctx, opts.VizType, time.Since(start), err) }()

	graphHash, err := HashGraph(g)
	if err != nil {
		return Layout{}, false, err
	}
	cfgHash, err := cache.HashJSON(cfg)
	if err != nil {
		return Layout{}, false, err
	}
	cacheKey := r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts(cfgHash))

	if data, ok := r.get(ctx, "layout", cacheKey); ok {
		var cached Layout
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, true, nil
		}
		// If deserialization fails, fall through to recompute
	}

	l, err = GenerateLayout(g, cfg, opts)
	if err != nil {
		return Layout{}, false, err
	}

	if !l.Partial {
		if data, err := json.Marshal(l); err == nil {
			r.set(ctx, "layout", cacheKey, data, cache.TTLLayout)
		}
	}
	return l, false, nil
}

// GenerateLayout is a convenience wrapper that calls GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, g *gitgraph.Graph, opts Options) (Layout, error) {
	l, _, err := r.GenerateLayoutWithCacheInfo(ctx, g, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l Layout, opts Options) (artifacts map[string][]byte, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	// Compute cache key from layout data
	layoutData, err := json.Marshal(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	artifacts = make(map[string][]byte)
	for _, format := range opts.Formats {
		data, ok := r.get(ctx, "artifact", r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)))
		if !ok {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := Render(ctx, l, opts)
	if err != nil {
		return nil, false, err
	}

	if !l.Partial {
		for format, data := range rendered {
			r.set(ctx, "artifact", r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// HashGraph returns the content hash of a graph's canonical JSON form.
func HashGraph(g *gitgraph.Graph) (string, error) {
	var buf bytes.Buffer
	if err := graphio.WriteJSON(g, &buf); err != nil {
		return "", fmt.Errorf("serialize graph for cache key: %w", err)
	}
	return cache.Hash(buf.Bytes()), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// get reads a cache entry. Backend failures count as misses.
func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, ok, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", keyType, "err", err)
	}
	if err != nil || !ok {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
