package config

import "sort"

// presets are named starting points, each a full config derived from
// the defaults.
var presets = map[string]*Config{
	"demo": preset(func(c *Config) {
		c.Count = 20
		c.RadiusMin = 0.015
		c.RadiusMax = 0.045
	}),
	"sparse": preset(func(c *Config) {
		c.Count = 12
		c.RadiusMin = 0.02
		c.RadiusMax = 0.05
	}),
	"dense": preset(func(c *Config) {
		c.Count = 80
		c.RadiusMin = 0.01
		c.RadiusMax = 0.03
	}),
	"crowded": preset(func(c *Config) {
		c.Count = 120
		c.RadiusMin = 0.008
		c.RadiusMax = 0.02
		c.VelocityMax = 0.006
	}),
	"drift": preset(func(c *Config) {
		c.Engine = "gravity"
		c.Count = 40
		c.RadiusMin = 0.01
		c.RadiusMax = 0.04
		c.Color = "white"
	}),
}

func preset(apply func(*Config)) *Config {
	c := DefaultConfig()
	apply(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	c, ok := presets[name]
	if !ok {
		return nil
	}
	cp := *c
	return &cp
}

// ListPresets returns the preset names sorted.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
