package layout

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/commitgraph/pkg/render/gitgraph/canvas"
)

// ErrInvalidConfig is returned by [Config.Validate].
var ErrInvalidConfig = errors.New("invalid layout config")

// Config holds the spacing and presentation parameters of a commit graph.
// All distances are in canvas pixels.
type Config struct {
	NodeSpacing     float64         `toml:"node_spacing" json:"node_spacing"`
	BranchOffset    float64         `toml:"branch_offset" json:"branch_offset"`
	LeftMargin      float64         `toml:"left_margin" json:"left_margin"`
	NodeRadius      float64         `toml:"node_radius" json:"node_radius"`
	NodeLabel       canvas.LabelBox `toml:"node_label" json:"node_label"`
	NodeFillColor   string          `toml:"node_fill_color" json:"node_fill_color"`
	NodeStrokeColor string          `toml:"node_stroke_color" json:"node_stroke_color"`
	NodeStrokeWidth float64         `toml:"node_stroke_width" json:"node_stroke_width"`
	LineStrokeWidth float64         `toml:"line_stroke_width" json:"line_stroke_width"`
	BranchColors    []string        `toml:"branch_colors" json:"branch_colors"`
}

// DefaultConfig returns the stock gitgraph look.
func DefaultConfig() Config {
	return Config{
		NodeSpacing:     150,
		BranchOffset:    50,
		LeftMargin:      50,
		NodeRadius:      10,
		NodeLabel:       canvas.LabelBox{Width: 75, Height: 100, X: -25, Y: 0},
		NodeFillColor:   "yellow",
		NodeStrokeColor: "grey",
		NodeStrokeWidth: 2,
		LineStrokeWidth: 4,
		BranchColors:    []string{"#442f74", "#983351", "#609732", "#AA9A39"},
	}
}

// LoadConfig reads a TOML config file. Keys missing from the file keep their
// default values; unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return finishDecode(cfg, md)
}

// ReadConfig decodes a TOML config from r on top of [DefaultConfig].
func ReadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	return finishDecode(cfg, md)
}

func finishDecode(cfg Config, md toml.MetaData) (Config, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: unknown keys %v", ErrInvalidConfig, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the distances are usable.
func (c Config) Validate() error {
	switch {
	case c.NodeSpacing <= 0:
		return fmt.Errorf("%w: node_spacing must be positive", ErrInvalidConfig)
	case c.BranchOffset <= 0:
		return fmt.Errorf("%w: branch_offset must be positive", ErrInvalidConfig)
	case c.NodeRadius <= 0:
		return fmt.Errorf("%w: node_radius must be positive", ErrInvalidConfig)
	case c.LeftMargin < 0:
		return fmt.Errorf("%w: left_margin must not be negative", ErrInvalidConfig)
	case len(c.BranchColors) == 0:
		return fmt.Errorf("%w: branch_colors must not be empty", ErrInvalidConfig)
	}
	return nil
}

// BranchColor returns the connector color for a lane color index.
// Indexes wrap around the palette.
func (c Config) BranchColor(i int) string {
	if len(c.BranchColors) == 0 {
		return "black"
	}
	return c.BranchColors[i%len(c.BranchColors)]
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	c.BranchColors = slices.Clone(c.BranchColors)
	return c
}
