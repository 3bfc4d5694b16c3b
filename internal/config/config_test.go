package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hsv-tracker/internal/algorithms"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, Validate(cfg))
	assert.Equal(t, SourceCamera, cfg.Source.Kind)
	assert.Equal(t, 1, cfg.Source.Device)
	assert.Equal(t, []string{"../img.jpg", "img.jpg"}, cfg.Source.ImagePaths)
	assert.Equal(t, algorithms.FullRange(), cfg.Threshold)
	assert.Equal(t, 3, cfg.Morphology.KernelSize)
	assert.True(t, cfg.Morphology.Enabled)
	assert.True(t, cfg.Centroid.Enabled)
	assert.Equal(t, UIHighGUI, cfg.Display.UI)
	assert.Equal(t, 30, cfg.FPS.Window)
}

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
source:
  kind: image
  image_paths: [calib.png]
threshold:
  low: {h: 20, s: 100, v: 100}
  high: {h: 30, s: 255, v: 255}
morphology:
  kernel_size: 5
display:
  ui: none
max_frames: 90
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, SourceImage, cfg.Source.Kind)
	assert.Equal(t, []string{"calib.png"}, cfg.Source.ImagePaths)
	assert.Equal(t, algorithms.HSV{H: 20, S: 100, V: 100}, cfg.Threshold.Low)
	assert.Equal(t, algorithms.HSV{H: 30, S: 255, V: 255}, cfg.Threshold.High)
	assert.Equal(t, 5, cfg.Morphology.KernelSize)
	assert.True(t, cfg.Morphology.Enabled, "unset keys keep their defaults")
	assert.Equal(t, UINone, cfg.Display.UI)
	assert.Equal(t, 90, cfg.MaxFrames)
}

func TestLoad_InvertedRangeAccepted(t *testing.T) {
	path := writeConfig(t, `
threshold:
  low: {h: 150, s: 0, v: 0}
  high: {h: 10, s: 255, v: 255}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Threshold.Empty())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "source: [unclosed"},
		{"hue too high", "threshold:\n  high: {h: 180, s: 255, v: 255}"},
		{"kernel too large", "morphology:\n  kernel_size: 11"},
		{"unknown ui", "display:\n  ui: curses"},
		{"unknown source", "source:\n  kind: scanner"},
		{"image without paths", "source:\n  kind: image\n  image_paths: []"},
		{"bad target", "target:\n  color: teal"},
		{"zero fps window", "fps:\n  window: 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWait(t *testing.T) {
	cfg := Default()
	assert.Equal(t, time.Millisecond, cfg.Wait())

	cfg.Source.Kind = SourceImage
	assert.Equal(t, 100*time.Millisecond, cfg.Wait())

	cfg.Display.WaitMS = 25
	assert.Equal(t, 25*time.Millisecond, cfg.Wait())
}

func TestInitialRange(t *testing.T) {
	cfg := Default()
	r, err := cfg.InitialRange()
	require.NoError(t, err)
	assert.Equal(t, algorithms.FullRange(), r)

	cfg.Target = TargetConfig{Color: "#0000ff", Tolerance: 40}
	r, err = cfg.InitialRange()
	require.NoError(t, err)
	assert.Equal(t, algorithms.HSV{H: 110, S: 215, V: 215}, r.Low)
	assert.Equal(t, algorithms.HSV{H: 130, S: 255, V: 255}, r.High)
}
