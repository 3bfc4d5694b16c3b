package config

import (
	"fmt"

	"hsv-tracker/internal/algorithms"
)

// Validate checks configuration for errors. An inverted threshold range is
// accepted on purpose: it yields an empty mask, not a failure.
func Validate(cfg *Config) error {
	if err := validateSource(&cfg.Source); err != nil {
		return fmt.Errorf("source: %w", err)
	}

	if err := cfg.Threshold.Low.Validate(); err != nil {
		return fmt.Errorf("threshold.low: %w", err)
	}
	if err := cfg.Threshold.High.Validate(); err != nil {
		return fmt.Errorf("threshold.high: %w", err)
	}

	if cfg.Morphology.KernelSize < 0 || cfg.Morphology.KernelSize > algorithms.MaxKernelSize {
		return fmt.Errorf("morphology.kernel_size must be between 0 and %d", algorithms.MaxKernelSize)
	}

	switch cfg.Display.UI {
	case UIHighGUI, UIFyne, UINone:
	default:
		return fmt.Errorf("display.ui must be one of %s, %s, %s (got %q)", UIHighGUI, UIFyne, UINone, cfg.Display.UI)
	}
	if cfg.Display.WaitMS < 0 {
		return fmt.Errorf("display.wait_ms must be >= 0")
	}

	if cfg.FPS.Window < 1 {
		return fmt.Errorf("fps.window must be >= 1")
	}

	if cfg.Target.Color != "" {
		if _, err := algorithms.ParseTarget(cfg.Target.Color, cfg.Target.Tolerance); err != nil {
			return fmt.Errorf("target: %w", err)
		}
	}
	if cfg.Target.Tolerance < 0 {
		return fmt.Errorf("target.tolerance must be >= 0")
	}

	if cfg.MaxFrames < 0 {
		return fmt.Errorf("max_frames must be >= 0")
	}

	return nil
}

func validateSource(src *SourceConfig) error {
	switch src.Kind {
	case SourceCamera:
		if src.Pipeline == "" && src.Device < 0 {
			return fmt.Errorf("device index must be >= 0")
		}
	case SourceImage:
		if len(src.ImagePaths) == 0 {
			return fmt.Errorf("image_paths required for image source")
		}
	default:
		return fmt.Errorf("kind must be %s or %s (got %q)", SourceCamera, SourceImage, src.Kind)
	}
	return nil
}
