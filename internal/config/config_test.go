package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgpou/particlebox/internal/scene"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "box", cfg.Engine)
	assert.Equal(t, 50, cfg.Count)
	assert.True(t, cfg.ShowAxes)
	assert.True(t, cfg.Trail)
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("count: 12\ntrail: false\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Count)
	assert.False(t, cfg.Trail)
	assert.Equal(t, 0.035, cfg.RadiusMin)
	assert.Equal(t, DefaultFPS, cfg.FPS)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("count: [not a number\n"), 0644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := DefaultConfig()
	cfg.Engine = "gravity"
	cfg.Seed = 99
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero count", func(c *Config) { c.Count = 0 }, false},
		{"inverted radii", func(c *Config) { c.RadiusMin = 0.1; c.RadiusMax = 0.05 }, false},
		{"zero velocity", func(c *Config) { c.VelocityMax = 0 }, false},
		{"empty engine", func(c *Config) { c.Engine = "" }, false},
		{"zero fps", func(c *Config) { c.FPS = 0 }, false},
		{"negative frames", func(c *Config) { c.Frames = -1 }, false},
		{"tiny resolution", func(c *Config) { c.Resolution = 2 }, false},
		{"unknown color", func(c *Config) { c.Color = "mauve" }, false},
		{"negative trail length", func(c *Config) { c.TrailLen = -5 }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestPresetsAreValid(t *testing.T) {
	names := ListPresets()
	require.NotEmpty(t, names)
	for _, name := range names {
		cfg := GetPreset(name)
		require.NotNil(t, cfg, name)
		assert.NoError(t, cfg.Validate(), name)
	}
	assert.Nil(t, GetPreset("nonexistent"))
}

func TestGetPresetReturnsCopy(t *testing.T) {
	a := GetPreset("demo")
	require.NotNil(t, a)
	a.Count = 1
	b := GetPreset("demo")
	assert.Equal(t, 20, b.Count)
}

func TestVisual(t *testing.T) {
	cfg := DefaultConfig()
	v := cfg.Visual()
	assert.Equal(t, scene.Gray, v.Color)
	assert.True(t, v.Trail)
	assert.Equal(t, DefaultTrailLen, v.TrailLen)

	cfg.Trail = false
	cfg.Color = "green"
	v = cfg.Visual()
	assert.False(t, v.Trail)
	assert.Equal(t, scene.Green, v.Color)
}
