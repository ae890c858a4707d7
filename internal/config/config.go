// Package config loads, validates and persists run settings. Files are
// YAML and overlay the defaults, so partial files stay valid.
package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/georgpou/particlebox/internal/scene"
	"github.com/georgpou/particlebox/internal/sim"
	"github.com/georgpou/particlebox/internal/view"
)

const (
	DefaultEngine   = "box"
	DefaultFPS      = 60
	DefaultTrailLen = 50
	DefaultDataDir  = "data"
)

// Config is one complete run description.
type Config struct {
	Engine      string  `yaml:"engine"`
	Count       int     `yaml:"count"`
	RadiusMin   float64 `yaml:"radius_min"`
	RadiusMax   float64 `yaml:"radius_max"`
	VelocityMax float64 `yaml:"velocity_max"`
	Seed        int64   `yaml:"seed"`

	FPS    int `yaml:"fps"`
	Frames int `yaml:"frames"`

	Color      string `yaml:"color"`
	Resolution int    `yaml:"resolution"`
	Trail      bool   `yaml:"trail"`
	TrailLen   int    `yaml:"trail_length"`
	ShowAxes   bool   `yaml:"show_axes"`

	Sound   bool   `yaml:"sound"`
	DataDir string `yaml:"data_dir"`
}

// palette maps the color names accepted in files and flags.
var palette = map[string]scene.Color{
	"gray":  scene.Gray,
	"green": scene.Green,
	"white": scene.White,
	"black": scene.Black,
}

func DefaultConfig() *Config {
	p := sim.DefaultParams()
	return &Config{
		Engine:      DefaultEngine,
		Count:       p.Count,
		RadiusMin:   p.RadiusMin,
		RadiusMax:   p.RadiusMax,
		VelocityMax: p.VelocityMax,
		FPS:         DefaultFPS,
		Color:       "gray",
		Resolution:  view.DefaultResolution,
		Trail:       true,
		TrailLen:    DefaultTrailLen,
		ShowAxes:    true,
		DataDir:     DefaultDataDir,
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings no run could start with. Engine names are
// only checked later, at engine construction.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Engine == "" {
		return fmt.Errorf("config: engine must be set")
	}
	if c.FPS <= 0 {
		return fmt.Errorf("config: fps must be positive, got %d", c.FPS)
	}
	if c.Frames < 0 {
		return fmt.Errorf("config: frames must not be negative, got %d", c.Frames)
	}
	if c.TrailLen < 0 {
		return fmt.Errorf("config: trail_length must not be negative, got %d", c.TrailLen)
	}
	if c.Resolution != 0 && c.Resolution < view.MinResolution {
		return fmt.Errorf("config: resolution must be at least %d, got %d", view.MinResolution, c.Resolution)
	}
	if _, ok := palette[c.Color]; c.Color != "" && !ok {
		return fmt.Errorf("config: unknown color %q", c.Color)
	}
	return nil
}

// Params maps the population settings onto the simulation contract.
func (c *Config) Params() sim.Params {
	return sim.Params{
		Count:       c.Count,
		RadiusMin:   c.RadiusMin,
		RadiusMax:   c.RadiusMax,
		VelocityMax: c.VelocityMax,
	}
}

// Visual maps the display settings onto the particle attributes.
func (c *Config) Visual() view.Config {
	col, ok := palette[c.Color]
	if !ok {
		col = scene.Gray
	}
	v := view.Config{Color: col, Resolution: c.Resolution}
	if c.Trail {
		v.Trail = true
		v.TrailLen = c.TrailLen
	}
	return v
}

// Colors lists the accepted color names sorted.
func Colors() []string {
	names := make([]string, 0, len(palette))
	for name := range palette {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
