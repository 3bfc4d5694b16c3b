package gui

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// Headless drops frames and only paces the loop.
type Headless struct {
	logger logrus.FieldLogger
}

func NewHeadless(logger logrus.FieldLogger) *Headless {
	return &Headless{logger: logger}
}

func (h *Headless) Show(frame, mask gocv.Mat) {
	h.logger.WithFields(logrus.Fields{
		"width":  frame.Cols(),
		"height": frame.Rows(),
	}).Trace("GUI: Frame discarded")
}

// Poll sleeps for wait, returning early with false if ctx ends.
func (h *Headless) Poll(ctx context.Context, wait time.Duration) bool {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
