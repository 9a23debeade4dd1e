// Package config provides configuration loading and access for the field.
package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Edge index strategies accepted by graph.index.
const (
	IndexScan = "scan"
	IndexGrid = "grid"
)

// Config holds all field configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Nodes     NodesConfig     `yaml:"nodes"`
	Graph     GraphConfig     `yaml:"graph"`
	Render    RenderConfig    `yaml:"render"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Terminal  TerminalConfig  `yaml:"terminal"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Resizable bool   `yaml:"resizable"`
	Title     string `yaml:"title"`
}

// NodesConfig holds node population parameters.
type NodesConfig struct {
	Count    int     `yaml:"count"`     // Fixed for the lifetime of an activation
	MaxSpeed float64 `yaml:"max_speed"` // Per-axis velocity bound, pixels per frame
}

// GraphConfig holds proximity graph parameters.
type GraphConfig struct {
	MaxDistance float64 `yaml:"max_distance"` // Pairs at or beyond this distance are not linked
	Index       string  `yaml:"index"`        // "scan" (pairwise) or "grid" (spatial hash)
}

// RenderConfig holds drawing parameters.
type RenderConfig struct {
	Background string  `yaml:"background"`  // Trail fill color
	Accent     string  `yaml:"accent"`      // Node and edge color
	TrailAlpha float64 `yaml:"trail_alpha"` // Per-frame fade strength
	NodeRadius float64 `yaml:"node_radius"`
	EdgeAlpha  float64 `yaml:"edge_alpha"` // Edge opacity before distance falloff
	EdgeWidth  float64 `yaml:"edge_width"`
	Opacity    float64 `yaml:"opacity"` // Surface opacity when composited onto the host
}

// TelemetryConfig holds stats collection parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // Frames per graph stats window
	PerfWindow  int `yaml:"perf_window"`  // Frames in the perf rolling window
}

// TerminalConfig holds terminal host settings.
type TerminalConfig struct {
	TargetFPS int     `yaml:"target_fps"`
	Scale     float64 `yaml:"scale"` // Applied to distances and speeds; a cell is far coarser than a pixel
}

// DerivedConfig holds values precomputed from the loaded config.
type DerivedConfig struct {
	Background color.NRGBA
	Accent     color.NRGBA
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize validates the config and recomputes derived values.
// Call it after mutating a loaded config in place.
func (c *Config) Finalize() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return c.computeDerived()
}

// Validate reports the first out-of-range parameter.
func (c *Config) Validate() error {
	switch {
	case c.Nodes.Count < 0:
		return fmt.Errorf("nodes.count must be >= 0, got %d", c.Nodes.Count)
	case c.Nodes.MaxSpeed < 0:
		return fmt.Errorf("nodes.max_speed must be >= 0, got %g", c.Nodes.MaxSpeed)
	case c.Graph.MaxDistance < 0:
		return fmt.Errorf("graph.max_distance must be >= 0, got %g", c.Graph.MaxDistance)
	case c.Graph.Index != IndexScan && c.Graph.Index != IndexGrid:
		return fmt.Errorf("graph.index must be %q or %q, got %q", IndexScan, IndexGrid, c.Graph.Index)
	case !unit(c.Render.TrailAlpha):
		return fmt.Errorf("render.trail_alpha must be in [0,1], got %g", c.Render.TrailAlpha)
	case !unit(c.Render.EdgeAlpha):
		return fmt.Errorf("render.edge_alpha must be in [0,1], got %g", c.Render.EdgeAlpha)
	case !unit(c.Render.Opacity):
		return fmt.Errorf("render.opacity must be in [0,1], got %g", c.Render.Opacity)
	case c.Render.NodeRadius < 0:
		return fmt.Errorf("render.node_radius must be >= 0, got %g", c.Render.NodeRadius)
	case c.Render.EdgeWidth < 0:
		return fmt.Errorf("render.edge_width must be >= 0, got %g", c.Render.EdgeWidth)
	case c.Terminal.Scale <= 0:
		return fmt.Errorf("terminal.scale must be > 0, got %g", c.Terminal.Scale)
	}
	return nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	bg, err := ParseColor(c.Render.Background)
	if err != nil {
		return fmt.Errorf("render.background: %w", err)
	}
	accent, err := ParseColor(c.Render.Accent)
	if err != nil {
		return fmt.Errorf("render.accent: %w", err)
	}
	c.Derived.Background = bg
	c.Derived.Accent = accent

	if c.Screen.TargetFPS <= 0 {
		c.Screen.TargetFPS = 60
	}
	if c.Terminal.TargetFPS <= 0 {
		c.Terminal.TargetFPS = 30
	}
	return nil
}

// ForTerminal returns a copy with spatial parameters multiplied by
// terminal.scale. Edge width is left alone so lines stay visible.
func (c *Config) ForTerminal() *Config {
	out := *c
	s := c.Terminal.Scale
	out.Nodes.MaxSpeed *= s
	out.Graph.MaxDistance *= s
	out.Render.NodeRadius *= s
	return &out
}

// ParseColor parses a "#rrggbb" hex string into an opaque color.
func ParseColor(hex string) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parsing color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
