// Package config loads ls-orrery settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-orrery/internal/catalog"
	"github.com/litescript/ls-orrery/internal/display"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/orbit"
)

// Config is the full application configuration.
type Config struct {
	Catalog string        `yaml:"catalog"` // optional planet catalog override
	Toggle  ToggleConfig  `yaml:"toggle"`
	Render  RenderConfig  `yaml:"render"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

// ToggleConfig controls the scale toggles.
type ToggleConfig struct {
	Duration      time.Duration `yaml:"duration"`
	UniformScale  float32       `yaml:"uniform_scale"`
	Normalization float32       `yaml:"normalization"`
	Reference     string        `yaml:"reference"`
}

// RenderConfig controls animation and appearance.
type RenderConfig struct {
	FPS    int         `yaml:"fps"`
	Trails TrailConfig `yaml:"trails"`
}

// TrailConfig controls orbit trail rings.
type TrailConfig struct {
	Visible bool    `yaml:"visible"`
	Pipe    float32 `yaml:"pipe"`
	Color   string  `yaml:"color"`
	Alpha   float64 `yaml:"alpha"`
}

// SessionConfig controls the simulated AR session.
type SessionConfig struct {
	SurfaceDelay time.Duration `yaml:"surface_delay"`
	MaxEvents    int           `yaml:"max_events"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// FPS bounds.
const (
	MinFPS = 1
	MaxFPS = 120
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Toggle: ToggleConfig{
			Duration:      5 * time.Second,
			UniformScale:  0.05,
			Normalization: 20,
			Reference:     catalog.Earth,
		},
		Render: RenderConfig{
			FPS: 30,
			Trails: TrailConfig{
				Visible: true,
				Pipe:    0.002,
				Color:   "#FFFF00",
				Alpha:   0.5,
			},
		},
		Session: SessionConfig{
			SurfaceDelay: 1500 * time.Millisecond,
			MaxEvents:    50,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Parse decodes a YAML document over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads a config file. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.Toggle.Duration < 0 {
		errs = append(errs, fmt.Errorf("toggle.duration must not be negative, got %v", c.Toggle.Duration))
	}
	if c.Toggle.UniformScale <= 0 {
		errs = append(errs, fmt.Errorf("toggle.uniform_scale must be positive, got %v", c.Toggle.UniformScale))
	}
	if c.Toggle.Normalization <= 0 {
		errs = append(errs, fmt.Errorf("toggle.normalization must be positive, got %v", c.Toggle.Normalization))
	}
	if c.Render.Trails.Pipe <= 0 {
		errs = append(errs, fmt.Errorf("render.trails.pipe must be positive, got %v", c.Render.Trails.Pipe))
	}
	if c.Render.Trails.Alpha < 0 || c.Render.Trails.Alpha > 1 {
		errs = append(errs, fmt.Errorf("render.trails.alpha must be within [0, 1], got %v", c.Render.Trails.Alpha))
	}
	if _, err := colorful.Hex(c.Render.Trails.Color); err != nil {
		errs = append(errs, fmt.Errorf("render.trails.color: %w", err))
	}
	if c.Session.SurfaceDelay < 0 {
		errs = append(errs, fmt.Errorf("session.surface_delay must not be negative, got %v", c.Session.SurfaceDelay))
	}
	if !validLevel(c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	return errors.Join(errs...)
}

func validLevel(s string) bool {
	switch strings.ToLower(s) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// LogLevel returns the parsed log level.
func (c Config) LogLevel() logging.Level {
	return logging.ParseLevel(strings.ToLower(c.Log.Level))
}

// ClampFPS limits fps to [MinFPS, MaxFPS].
func ClampFPS(fps int) int {
	if fps < MinFPS {
		return MinFPS
	}
	if fps > MaxFPS {
		return MaxFPS
	}
	return fps
}

// FrameInterval returns the animation tick interval.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(ClampFPS(c.Render.FPS))
}

// DisplayOptions returns the toggle engine settings.
func (c Config) DisplayOptions() display.Options {
	return display.Options{
		Duration:      c.Toggle.Duration,
		UniformScale:  c.Toggle.UniformScale,
		Normalization: c.Toggle.Normalization,
		Reference:     c.Toggle.Reference,
	}
}

// OrbitOptions returns the builder settings.
func (c Config) OrbitOptions() (orbit.Options, error) {
	trail, err := colorful.Hex(c.Render.Trails.Color)
	if err != nil {
		return orbit.Options{}, fmt.Errorf("render.trails.color: %w", err)
	}
	opts := orbit.DefaultOptions()
	opts.BodyScale = c.Toggle.UniformScale
	opts.TrailsVisible = c.Render.Trails.Visible
	opts.TrailPipe = c.Render.Trails.Pipe
	opts.TrailColor = trail
	opts.TrailAlpha = c.Render.Trails.Alpha
	return opts, nil
}
