package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/spaghettifunk/anima-gallery/engine/math"
	"github.com/spaghettifunk/anima-gallery/engine/renderer/raster"
	"github.com/spaghettifunk/anima-gallery/engine/scene"
)

type ApplicationConfig struct {
	Name     string `toml:"name"`
	Scene    string `toml:"scene"`
	Width    uint32 `toml:"width"`
	Height   uint32 `toml:"height"`
	LogLevel string `toml:"log_level"`
	// Frames to render before stopping. Zero runs until cancelled.
	Frames int `toml:"frames"`
	// FixedDelta in seconds. Zero measures the wall clock.
	FixedDelta float64 `toml:"fixed_delta"`
	InputQueue int     `toml:"input_queue"`
}

type SkeletonConfig struct {
	Bones         bool    `toml:"bones"`
	Axes          bool    `toml:"axes"`
	Names         bool    `toml:"names"`
	Relations     bool    `toml:"relations"`
	RootBones     bool    `toml:"root_bones"`
	BoneThickness float32 `toml:"bone_thickness"`
	AxisLength    float32 `toml:"axis_length"`
	ToggleKey     string  `toml:"toggle_key"`
}

type MorphConfig struct {
	PeriodSeconds float32 `toml:"period_seconds"`
}

type CameraConfig struct {
	Position   [3]float32 `toml:"position"`
	Target     [3]float32 `toml:"target"`
	FovDegrees float32    `toml:"fov_degrees"`
	Near       float32    `toml:"near"`
	Far        float32    `toml:"far"`
}

type OutputConfig struct {
	Directory       string `toml:"directory"`
	Format          string `toml:"format"`
	Animated        bool   `toml:"animated"`
	FrameDurationMs uint   `toml:"frame_duration_ms"`
}

// ScriptedKey presses Key at the start of Frame and releases it one frame later.
type ScriptedKey struct {
	Frame int    `toml:"frame"`
	Key   string `toml:"key"`
}

type Config struct {
	Application ApplicationConfig   `toml:"application"`
	Skeleton    SkeletonConfig      `toml:"skeleton"`
	Morph       MorphConfig         `toml:"morph"`
	Camera      CameraConfig        `toml:"camera"`
	Output      OutputConfig        `toml:"output"`
	Input       []ScriptedKey       `toml:"input"`
	Skeletons   []scene.JointConfig `toml:"skeletons"`
}

// Default returns a configuration that renders the skeleton scene for two
// seconds at 30 frames per second.
func Default() *Config {
	return &Config{
		Application: ApplicationConfig{
			Name:       "Skeleton Gallery",
			Scene:      "skeleton",
			Width:      640,
			Height:     480,
			LogLevel:   "info",
			Frames:     60,
			FixedDelta: 1.0 / 30,
			InputQueue: 64,
		},
		Skeleton: SkeletonConfig{
			Bones:         true,
			Axes:          true,
			Names:         true,
			Relations:     true,
			BoneThickness: 0.1,
			AxisLength:    0.15,
			ToggleKey:     "space",
		},
		Morph: MorphConfig{PeriodSeconds: 2},
		Camera: CameraConfig{
			Position:   [3]float32{5, 5, 5},
			FovDegrees: 45,
			Near:       0.01,
			Far:        1000,
		},
		Output: OutputConfig{
			Directory:       "out",
			Format:          "webp",
			Animated:        true,
			FrameDurationMs: 33,
		},
	}
}

// Load reads and validates the TOML file at path. Keys missing from the
// file keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML on top of Default. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%s: %w", strict.String(), core.ErrInvalidConfig)
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("line %d column %d: %s: %w", row, col, decodeErr.Error(), core.ErrInvalidConfig)
		}
		return nil, fmt.Errorf("%v: %w", err, core.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func invalid(field, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s: %w", field, fmt.Sprintf(format, args...), core.ErrInvalidConfig)
}

// Validate reports the first field holding an unusable value.
func (c *Config) Validate() error {
	a := c.Application
	if a.Width == 0 || a.Height == 0 {
		return invalid("application.width", "viewport %dx%d is empty", a.Width, a.Height)
	}
	if a.Frames < 0 {
		return invalid("application.frames", "must not be negative")
	}
	if a.FixedDelta < 0 {
		return invalid("application.fixed_delta", "must not be negative")
	}
	if a.InputQueue <= 0 {
		return invalid("application.input_queue", "must be positive")
	}
	if _, err := core.ParseLogLevel(a.LogLevel); err != nil {
		return invalid("application.log_level", "%v", err)
	}

	s := c.Skeleton
	if s.BoneThickness <= 0 {
		return invalid("skeleton.bone_thickness", "must be positive")
	}
	if s.AxisLength <= 0 {
		return invalid("skeleton.axis_length", "must be positive")
	}
	if _, err := core.ParseKeyCode(s.ToggleKey); err != nil {
		return invalid("skeleton.toggle_key", "%v", err)
	}

	if c.Morph.PeriodSeconds <= 0 {
		return invalid("morph.period_seconds", "must be positive")
	}

	cam := c.Camera
	if cam.FovDegrees <= 0 || cam.FovDegrees >= 180 {
		return invalid("camera.fov_degrees", "%v outside (0, 180)", cam.FovDegrees)
	}
	if cam.Near <= 0 || cam.Far <= cam.Near {
		return invalid("camera.near", "need 0 < near < far, got %v and %v", cam.Near, cam.Far)
	}
	if cam.Position == cam.Target {
		return invalid("camera.position", "equals the target")
	}

	format, err := raster.ParseFormat(c.Output.Format)
	if err != nil {
		return invalid("output.format", "%v", err)
	}
	if c.Output.Animated && format != raster.FormatWebP {
		return invalid("output.animated", "only webp output can be animated")
	}

	for i, in := range c.Input {
		if in.Frame < 0 {
			return invalid(fmt.Sprintf("input[%d].frame", i), "must not be negative")
		}
		if _, err := core.ParseKeyCode(in.Key); err != nil {
			return invalid(fmt.Sprintf("input[%d].key", i), "%v", err)
		}
	}
	for i, sk := range c.Skeletons {
		if _, err := scene.NewHierarchyFromConfig(sk); err != nil {
			return invalid(fmt.Sprintf("skeletons[%d]", i), "%v", err)
		}
	}
	return nil
}

// LogLevel returns the parsed application log level. Call after Validate.
func (c *Config) LogLevel() core.LogLevel {
	l, err := core.ParseLogLevel(c.Application.LogLevel)
	if err != nil {
		return core.LogLevelInfo
	}
	return l
}

func (c CameraConfig) PositionVec() math.Vec3 {
	return math.NewVec3(c.Position[0], c.Position[1], c.Position[2])
}

func (c CameraConfig) TargetVec() math.Vec3 {
	return math.NewVec3(c.Target[0], c.Target[1], c.Target[2])
}
