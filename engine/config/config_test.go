package config

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/spaghettifunk/anima-gallery/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, core.LogLevelInfo, cfg.LogLevel())
}

const sample = `
[application]
scene = "complex"
width = 320
height = 240
frames = 12
log_level = "debug"

[skeleton]
names = false
bone_thickness = 0.2

[camera]
position = [0, 2, 8]
target = [0, 1, 0]

[output]
format = "png"
animated = false

[[input]]
frame = 3
key = "k"

[[skeletons]]
name = "Extra"
translation = [2, 0, 0]

  [[skeletons.children]]
  name = "Extra.Bone"
  translation = [0, 1, 0]
`

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "complex", cfg.Application.Scene)
	assert.Equal(t, uint32(320), cfg.Application.Width)
	assert.Equal(t, 12, cfg.Application.Frames)
	assert.Equal(t, core.LogLevelDebug, cfg.LogLevel())

	// untouched keys keep their defaults
	assert.True(t, cfg.Skeleton.Bones)
	assert.False(t, cfg.Skeleton.Names)
	assert.Equal(t, float32(0.2), cfg.Skeleton.BoneThickness)
	assert.Equal(t, float32(45), cfg.Camera.FovDegrees)

	assert.Equal(t, float32(8), cfg.Camera.PositionVec().Z)
	assert.Equal(t, float32(1), cfg.Camera.TargetVec().Y)
	assert.Equal(t, []ScriptedKey{{Frame: 3, Key: "k"}}, cfg.Input)
	require.Len(t, cfg.Skeletons, 1)
	assert.Equal(t, "Extra.Bone", cfg.Skeletons[0].Children[0].Name)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("[application]\nwidht = 10\n"))
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := Parse([]byte("[application\n"))
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty viewport", func(c *Config) { c.Application.Height = 0 }, "application.width"},
		{"negative frames", func(c *Config) { c.Application.Frames = -1 }, "application.frames"},
		{"bad log level", func(c *Config) { c.Application.LogLevel = "loud" }, "application.log_level"},
		{"thin bones", func(c *Config) { c.Skeleton.BoneThickness = 0 }, "skeleton.bone_thickness"},
		{"bad toggle", func(c *Config) { c.Skeleton.ToggleKey = "hyper" }, "skeleton.toggle_key"},
		{"no period", func(c *Config) { c.Morph.PeriodSeconds = 0 }, "morph.period_seconds"},
		{"wide fov", func(c *Config) { c.Camera.FovDegrees = 180 }, "camera.fov_degrees"},
		{"inverted planes", func(c *Config) { c.Camera.Far = 0.001 }, "camera.near"},
		{"camera on target", func(c *Config) { c.Camera.Position = c.Camera.Target }, "camera.position"},
		{"bad format", func(c *Config) { c.Output.Format = "gif" }, "output.format"},
		{"animated png", func(c *Config) { c.Output.Format = "png" }, "output.animated"},
		{"bad input key", func(c *Config) { c.Input = []ScriptedKey{{Frame: 1, Key: "??"}} }, "input[0].key"},
		{"nameless skeleton", func(c *Config) { c.Skeletons = []scene.JointConfig{{Name: ""}} }, "skeletons[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, core.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatchReloadsValidChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gallery.toml")
	require.NoError(t, os.WriteFile(path, []byte("[application]\nframes = 1\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var frames atomic.Int64
	frames.Store(1)
	require.NoError(t, Watch(ctx, path, func(c *Config) {
		frames.Store(int64(c.Application.Frames))
	}))

	// broken files are ignored
	require.NoError(t, os.WriteFile(path, []byte("[application]\nframes = -4\n"), 0o644))
	time.Sleep(3 * debounce)
	assert.Equal(t, int64(1), frames.Load())

	require.NoError(t, os.WriteFile(path, []byte("[application]\nframes = 9\n"), 0o644))
	assert.Eventually(t, func() bool { return frames.Load() == 9 }, 2*time.Second, 20*time.Millisecond)
}
