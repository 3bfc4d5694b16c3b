// Package config loads tracker settings from defaults, YAML and flags.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"hsv-tracker/internal/algorithms"
)

// Source kinds.
const (
	SourceCamera = "camera"
	SourceImage  = "image"
)

// Display backends.
const (
	UIHighGUI = "highgui"
	UIFyne    = "fyne"
	UINone    = "none"
)

// Config represents the complete tracker configuration
type Config struct {
	Source     SourceConfig              `yaml:"source"`
	Threshold  algorithms.ThresholdRange `yaml:"threshold"`
	Morphology MorphologyConfig          `yaml:"morphology"`
	Centroid   CentroidConfig            `yaml:"centroid"`
	Display    DisplayConfig             `yaml:"display"`
	FPS        FPSConfig                 `yaml:"fps"`
	Target     TargetConfig              `yaml:"target"`
	MaxFrames  int                       `yaml:"max_frames"` // 0 = run until cancelled
}

// SourceConfig selects where frames come from
type SourceConfig struct {
	Kind       string   `yaml:"kind"`        // camera, image
	Device     int      `yaml:"device"`      // capture device index
	Pipeline   string   `yaml:"pipeline"`    // GStreamer pipeline, overrides device
	ImagePaths []string `yaml:"image_paths"` // tried in order
}

// MorphologyConfig controls mask cleanup
type MorphologyConfig struct {
	Enabled    bool `yaml:"enabled"`
	KernelSize int  `yaml:"kernel_size"` // 0-10, 0 behaves as 1
}

// CentroidConfig controls centre-of-mass extraction
type CentroidConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DisplayConfig selects the UI backend
type DisplayConfig struct {
	UI     string `yaml:"ui"`      // highgui, fyne, none
	WaitMS int    `yaml:"wait_ms"` // per-iteration UI wait; 0 picks the source default
}

// FPSConfig controls frame rate reporting
type FPSConfig struct {
	Window int `yaml:"window"`
}

// TargetConfig seeds the threshold around a colour
type TargetConfig struct {
	Color     string `yaml:"color"`     // "#rrggbb", empty disables seeding
	Tolerance int    `yaml:"tolerance"` // S/V tolerance; hue uses a quarter of it
}

// Default returns the built-in configuration: camera 1, a full range,
// a 3x3 cleanup element and the highgui display.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Kind:       SourceCamera,
			Device:     1,
			ImagePaths: []string{"../img.jpg", "img.jpg"},
		},
		Threshold: algorithms.FullRange(),
		Morphology: MorphologyConfig{
			Enabled:    true,
			KernelSize: 3,
		},
		Centroid: CentroidConfig{Enabled: true},
		Display:  DisplayConfig{UI: UIHighGUI},
		FPS:      FPSConfig{Window: 30},
		Target:   TargetConfig{Tolerance: 40},
	}
}

// Load reads a YAML file over the defaults and validates the result
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Wait is the per-iteration UI wait. Static images refresh every 100 ms,
// cameras as fast as frames arrive.
func (c *Config) Wait() time.Duration {
	if c.Display.WaitMS > 0 {
		return time.Duration(c.Display.WaitMS) * time.Millisecond
	}
	if c.Source.Kind == SourceImage {
		return 100 * time.Millisecond
	}
	return time.Millisecond
}

// InitialRange is the configured threshold, or the window around the
// target colour when one is set.
func (c *Config) InitialRange() (algorithms.ThresholdRange, error) {
	if c.Target.Color == "" {
		return c.Threshold, nil
	}
	return algorithms.ParseTarget(c.Target.Color, c.Target.Tolerance)
}
