// internal/core/pipeline.go
// Per-frame HSV threshold pipeline with optional cleanup and centroid stages
package core

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"hsv-tracker/internal/algorithms"
)

// Result is the outcome of one frame. Mask belongs to the pipeline and is
// only valid until the next Process call.
type Result struct {
	Mask     gocv.Mat
	Range    algorithms.ThresholdRange
	Centroid algorithms.Centroid
	Found    bool
	Pixels   int
	Duration time.Duration
}

// Pipeline turns frames into masks and centroids. Its working Mats are
// reused across frames; nothing else carries over between iterations.
type Pipeline struct {
	store        *CalibrationStore
	withCentroid bool
	logger       logrus.FieldLogger

	hsv  gocv.Mat
	mask gocv.Mat
}

func NewPipeline(store *CalibrationStore, withCentroid bool, logger logrus.FieldLogger) *Pipeline {
	return &Pipeline{
		store:        store,
		withCentroid: withCentroid,
		logger:       logger,
		hsv:          gocv.NewMat(),
		mask:         gocv.NewMat(),
	}
}

// Process converts a BGR frame to HSV and runs the remaining stages.
func (p *Pipeline) Process(frame gocv.Mat) (Result, error) {
	if err := algorithms.ToHSV(frame, &p.hsv); err != nil {
		return Result{}, fmt.Errorf("convert to HSV: %w", err)
	}
	return p.ProcessHSV(p.hsv)
}

// ProcessHSV thresholds an HSV frame with the live range, cleans the mask
// when enabled and locates the centroid.
func (p *Pipeline) ProcessHSV(hsv gocv.Mat) (Result, error) {
	start := time.Now()

	r := p.store.Range()
	if err := algorithms.Threshold(hsv, r, &p.mask); err != nil {
		return Result{}, fmt.Errorf("threshold: %w", err)
	}

	if p.store.CleanupEnabled() {
		if err := algorithms.Cleanup(&p.mask, p.store.KernelSize()); err != nil {
			return Result{}, fmt.Errorf("cleanup: %w", err)
		}
	}

	res := Result{
		Mask:   p.mask,
		Range:  r,
		Pixels: gocv.CountNonZero(p.mask),
	}
	if p.withCentroid {
		res.Centroid, res.Found = algorithms.FindCentroid(p.mask)
	}
	res.Duration = time.Since(start)

	p.logger.WithFields(logrus.Fields{
		"range":    r.String(),
		"pixels":   res.Pixels,
		"found":    res.Found,
		"duration": res.Duration,
	}).Debug("PIPELINE: Frame processed")

	return res, nil
}

// Close releases the working Mats.
func (p *Pipeline) Close() {
	p.hsv.Close()
	p.mask.Close()
}
