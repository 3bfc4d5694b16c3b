package core

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"hsv-tracker/internal/metrics"
)

// FrameSource yields frames into a caller-owned Mat.
type FrameSource interface {
	Acquire(dst *gocv.Mat) error
	Close() error
}

// Display shows each frame and its mask and gives the UI a chance to
// process input. Poll waits up to wait and returns false once the user has
// asked to stop.
type Display interface {
	Show(frame, mask gocv.Mat)
	Poll(ctx context.Context, wait time.Duration) bool
}

// State of the main loop.
type State int32

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// RunnerConfig bounds the loop.
type RunnerConfig struct {
	// Wait is how long each iteration yields to the UI.
	Wait time.Duration
	// MaxFrames stops the loop after that many frames; 0 means no limit.
	MaxFrames int
}

// Runner drives acquisition and processing until cancelled or until the
// source fails. It owns the source and releases it when it stops.
type Runner struct {
	source   FrameSource
	display  Display
	pipeline *Pipeline
	reporter *metrics.FrameRateReporter
	out      io.Writer
	logger   logrus.FieldLogger
	cfg      RunnerConfig

	state  atomic.Int32
	frames atomic.Int64
}

func NewRunner(source FrameSource, display Display, pipeline *Pipeline, reporter *metrics.FrameRateReporter,
	out io.Writer, logger logrus.FieldLogger, cfg RunnerConfig) *Runner {
	if cfg.Wait <= 0 {
		cfg.Wait = time.Millisecond
	}
	return &Runner{
		source:   source,
		display:  display,
		pipeline: pipeline,
		reporter: reporter,
		out:      out,
		logger:   logger,
		cfg:      cfg,
	}
}

func (r *Runner) State() State {
	return State(r.state.Load())
}

// Frames is the number of fully processed frames.
func (r *Runner) Frames() int64 {
	return r.frames.Load()
}

// Run loops until ctx is cancelled, the display is closed or the frame
// limit is reached, returning nil. A source or processing failure stops the
// loop and is returned.
func (r *Runner) Run(ctx context.Context) error {
	if !r.state.CompareAndSwap(int32(Idle), int32(Running)) {
		return fmt.Errorf("runner already %s", r.State())
	}
	r.logger.WithField("state", Running).Info("Processing loop started")

	frame := gocv.NewMat()
	defer func() {
		frame.Close()
		if cerr := r.source.Close(); cerr != nil {
			r.logger.WithError(cerr).Warn("Failed to release frame source")
		}
		r.state.Store(int32(Stopped))
		r.logger.WithFields(logrus.Fields{
			"state":  Stopped,
			"frames": r.Frames(),
		}).Info("Processing loop stopped")
	}()

	for {
		if ctx.Err() != nil {
			r.logger.Debug("Loop cancelled")
			return nil
		}

		if err := r.source.Acquire(&frame); err != nil {
			return err
		}

		res, err := r.pipeline.Process(frame)
		if err != nil {
			return fmt.Errorf("process frame %d: %w", r.Frames(), err)
		}
		if res.Found {
			fmt.Fprintf(r.out, "Centre of mass was (%f, %f)\n", res.Centroid.X, res.Centroid.Y)
		}

		r.display.Show(frame, res.Mask)
		if !r.display.Poll(ctx, r.cfg.Wait) {
			r.logger.Debug("Display closed")
			return nil
		}

		r.reporter.Tick()
		n := r.frames.Add(1)

		if r.cfg.MaxFrames > 0 && n >= int64(r.cfg.MaxFrames) {
			r.logger.WithField("max_frames", r.cfg.MaxFrames).Debug("Frame limit reached")
			return nil
		}
	}
}
