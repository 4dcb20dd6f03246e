// Package cache stores intermediate and final render products.
//
// Three kinds of entries are cached, each keyed by a [Keyer]:
//
//   - graphs loaded from a git repository, keyed by a fingerprint of the
//     selected branch heads
//   - layouts, keyed by the graph hash plus the layout settings
//   - artifacts (SVG, PNG, PDF), keyed by the layout hash plus output format
//
// Backends: [FileCache] for the CLI, [RedisCache] for the server, and
// [NullCache] when caching is disabled.
package cache

import (
	"context"
	"time"
)

// Default lifetimes for cached entries.
const (
	TTLGraph    = 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the value for key. A miss is reported as ok == false with
	// a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GraphKeyOpts are the loader settings that change a loaded graph.
type GraphKeyOpts struct {
	Direction  string   `json:"direction"`
	MaxCommits int      `json:"max_commits"`
	Branches   []string `json:"branches,omitempty"`
}

// LayoutKeyOpts are the settings that change a layout.
type LayoutKeyOpts struct {
	VizType    string `json:"viz_type"`
	Direction  string `json:"direction"`
	ConfigHash string `json:"config_hash,omitempty"`
	Detailed   bool   `json:"detailed,omitempty"`
}

// ArtifactKeyOpts are the settings that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	GraphKey(source, fingerprint string, opts GraphKeyOpts) string
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes every key component with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey returns "graph:<hash>".
func (DefaultKeyer) GraphKey(source, fingerprint string, opts GraphKeyOpts) string {
	return hashKey("graph", source, fingerprint, opts)
}

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
