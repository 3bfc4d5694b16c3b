package main

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"hsv-tracker/internal/config"
	trackerio "hsv-tracker/internal/io"
)

func TestRun_MissingImageExitsWithLoadError(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	code := run([]string{
		"-source", "image",
		"-image", filepath.Join(dir, "..", "img.jpg"),
		"-image", filepath.Join(dir, "img.jpg"),
		"-ui", "none",
	}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, strings.Split(stderr.String(), "\n"), "Failed to load image")
	assert.Empty(t, stdout.String())
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		line string
	}{
		{"success", nil, 0, ""},
		{"load", fmt.Errorf("open: %w", trackerio.ErrLoad), 1, "Failed to load image"},
		{"device", fmt.Errorf("open: %w", trackerio.ErrDeviceOpen), 1, "Could not open camera."},
		{"read", fmt.Errorf("frame 3: %w", trackerio.ErrAcquisition), 1, "Could not read a frame."},
		{"other", errors.New("boom"), 1, "Processing failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			logger, hook := logtest.NewNullLogger()

			assert.Equal(t, tt.code, exitCode(tt.err, &stderr, logger))
			if tt.line == "" {
				assert.Empty(t, stderr.String())
				assert.Empty(t, hook.AllEntries())
				return
			}
			assert.Equal(t, tt.line+"\n", stderr.String())
			require.NotNil(t, hook.LastEntry())
			assert.Equal(t, tt.line, hook.LastEntry().Message)
		})
	}
}

func TestRun_StaticImageHeadless(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.png")
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 255, 0), 4, 6, gocv.MatTypeCV8UC3)
	defer img.Close()
	require.True(t, gocv.IMWrite(path, img))

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"-source", "image",
		"-image", path,
		"-ui", "none",
		"-wait", "1",
		"-max-frames", "3",
		"-target", "#ff0000",
		"-tolerance", "20",
	}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.Equal(t, "Centre of mass was (2.500000, 1.500000)", line)
	}
}

func TestRun_InvalidFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 1, run([]string{"-ui", "curses"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Invalid configuration")

	stderr.Reset()
	assert.Equal(t, 1, run([]string{"-no-such-flag"}, &stdout, &stderr))
}

func TestApplyFlags_OnlyOverridesGivenFlags(t *testing.T) {
	var stderr bytes.Buffer
	fs, opts, err := parseFlags([]string{"-device", "0", "-no-cleanup", "-image", "a.png", "-image", "b.png"}, &stderr)
	require.NoError(t, err)

	cfg := config.Default()
	applyFlags(fs, opts, cfg)

	assert.Equal(t, 0, cfg.Source.Device)
	assert.False(t, cfg.Morphology.Enabled)
	assert.Equal(t, []string{"a.png", "b.png"}, cfg.Source.ImagePaths)
	assert.Equal(t, config.SourceCamera, cfg.Source.Kind)
	assert.Equal(t, config.UIHighGUI, cfg.Display.UI)
	assert.Equal(t, 3, cfg.Morphology.KernelSize)
}
