// Frame rate measurement for the processing loop
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// DefaultWindow is the number of frames per FPS report.
const DefaultWindow = 30

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

// FrameRateReporter counts frames and prints the throughput once per window.
type FrameRateReporter struct {
	out    io.Writer
	logger logrus.FieldLogger
	now    Clock
	window int

	frames  int
	start   time.Time
	samples []float64
}

// NewFrameRateReporter starts the first window immediately. A nil clock
// means time.Now; a window below 1 means DefaultWindow.
func NewFrameRateReporter(out io.Writer, logger logrus.FieldLogger, window int, now Clock) *FrameRateReporter {
	if now == nil {
		now = time.Now
	}
	if window < 1 {
		window = DefaultWindow
	}
	return &FrameRateReporter{
		out:    out,
		logger: logger,
		now:    now,
		window: window,
		start:  now(),
	}
}

// Tick records one frame. When the window fills it writes the FPS line,
// resets the counter and start time, and returns the rate with reported=true.
// A window that took no measurable time is skipped.
func (r *FrameRateReporter) Tick() (fps float64, reported bool) {
	r.frames++
	if r.frames < r.window {
		return 0, false
	}

	end := r.now()
	elapsed := end.Sub(r.start).Seconds()
	frames := r.frames
	r.frames = 0
	r.start = r.now()

	if elapsed <= 0 {
		r.logger.WithField("frames", frames).Warn("Frame window elapsed in zero time, skipping FPS report")
		return 0, false
	}

	fps = float64(frames) / elapsed
	r.samples = append(r.samples, fps)
	fmt.Fprintf(r.out, "%d frames in %f seconds = %f FPS\n", frames, elapsed, fps)
	return fps, true
}

// Summary describes every reported window of a run.
type Summary struct {
	Windows int
	MeanFPS float64
	StdDev  float64
}

// Summary aggregates the FPS samples reported so far.
func (r *FrameRateReporter) Summary() Summary {
	if len(r.samples) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(r.samples, nil)
	if len(r.samples) == 1 {
		std = 0
	}
	return Summary{Windows: len(r.samples), MeanFPS: mean, StdDev: std}
}
