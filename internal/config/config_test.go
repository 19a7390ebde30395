package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-orrery/internal/logging"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Toggle.Duration != 5*time.Second {
		t.Errorf("Toggle.Duration = %v, want 5s", cfg.Toggle.Duration)
	}
	if cfg.Toggle.UniformScale != 0.05 {
		t.Errorf("Toggle.UniformScale = %v, want 0.05", cfg.Toggle.UniformScale)
	}
	if cfg.Toggle.Normalization != 20 {
		t.Errorf("Toggle.Normalization = %v, want 20", cfg.Toggle.Normalization)
	}
	if cfg.Toggle.Reference != "Earth" {
		t.Errorf("Toggle.Reference = %q, want Earth", cfg.Toggle.Reference)
	}
	if !cfg.Render.Trails.Visible {
		t.Error("Render.Trails.Visible should default to true")
	}
	if cfg.FrameInterval() != time.Second/30 {
		t.Errorf("FrameInterval = %v, want %v", cfg.FrameInterval(), time.Second/30)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	doc := `
toggle:
  duration: 2500ms
  reference: Mars
render:
  fps: 60
  trails:
    visible: false
session:
  surface_delay: 3s
log:
  level: DEBUG
`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Toggle.Duration != 2500*time.Millisecond {
		t.Errorf("Toggle.Duration = %v, want 2.5s", cfg.Toggle.Duration)
	}
	if cfg.Toggle.Reference != "Mars" {
		t.Errorf("Toggle.Reference = %q, want Mars", cfg.Toggle.Reference)
	}
	// Untouched fields keep their defaults
	if cfg.Toggle.Normalization != 20 {
		t.Errorf("Toggle.Normalization = %v, want 20", cfg.Toggle.Normalization)
	}
	if cfg.Render.Trails.Color != "#FFFF00" {
		t.Errorf("Render.Trails.Color = %q, want #FFFF00", cfg.Render.Trails.Color)
	}
	if cfg.Render.Trails.Visible {
		t.Error("Render.Trails.Visible should be false")
	}
	if cfg.Session.SurfaceDelay != 3*time.Second {
		t.Errorf("Session.SurfaceDelay = %v, want 3s", cfg.Session.SurfaceDelay)
	}
	if cfg.LogLevel() != logging.LevelDebug {
		t.Errorf("LogLevel = %v, want DEBUG", cfg.LogLevel())
	}
	if cfg.FrameInterval() != time.Second/60 {
		t.Errorf("FrameInterval = %v, want %v", cfg.FrameInterval(), time.Second/60)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"syntax", "toggle: [", "parse config"},
		{"bad duration", "toggle:\n  duration: soon\n", "parse config"},
		{"negative duration", "toggle:\n  duration: -1s\n", "toggle.duration"},
		{"zero scale", "toggle:\n  uniform_scale: 0\n", "toggle.uniform_scale"},
		{"zero normalization", "toggle:\n  normalization: 0\n", "toggle.normalization"},
		{"alpha", "render:\n  trails:\n    alpha: 2\n", "render.trails.alpha"},
		{"color", "render:\n  trails:\n    color: yellow\n", "render.trails.color"},
		{"level", "log:\n  level: loud\n", "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Toggle.Duration != Default().Toggle.Duration {
		t.Error("Load(\"\") should return defaults")
	}

	path := filepath.Join(t.TempDir(), "orrery.yaml")
	if err := os.WriteFile(path, []byte("catalog: planets.yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Catalog != "planets.yaml" {
		t.Errorf("Catalog = %q, want planets.yaml", cfg.Catalog)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestClampFPS(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, MinFPS},
		{-5, MinFPS},
		{30, 30},
		{500, MaxFPS},
	}
	for _, tt := range tests {
		if got := ClampFPS(tt.in); got != tt.want {
			t.Errorf("ClampFPS(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.Toggle.Duration = time.Second
	cfg.Render.Trails.Visible = false

	d := cfg.DisplayOptions()
	if d.Duration != time.Second || d.Normalization != 20 || d.Reference != "Earth" {
		t.Errorf("DisplayOptions = %+v", d)
	}

	o, err := cfg.OrbitOptions()
	if err != nil {
		t.Fatalf("OrbitOptions: %v", err)
	}
	if o.TrailsVisible {
		t.Error("TrailsVisible should follow config")
	}
	if o.BodyScale != 0.05 {
		t.Errorf("BodyScale = %v, want 0.05", o.BodyScale)
	}
	if o.TrailColor.Hex() != "#ffff00" {
		t.Errorf("TrailColor = %s, want #ffff00", o.TrailColor.Hex())
	}
}
