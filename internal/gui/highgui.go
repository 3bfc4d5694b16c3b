// OpenCV highgui windows with trackbar controls
package gui

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"hsv-tracker/internal/core"
)

// ControlWindow holds the trackbars.
const ControlWindow = "Control"

const (
	keyEscape = 27
	keyQuit   = 'q'
)

// Titles names the frame and mask windows.
type Titles struct {
	Frame string
	Mask  string
}

var (
	// CameraTitles are used for live capture.
	CameraTitles = Titles{Frame: "Camera", Mask: "Output"}
	// ImageTitles are used for static-image calibration.
	ImageTitles = Titles{Frame: "Display", Mask: "Thresholded"}
)

// HighGUI shows frames in native OpenCV windows. Its methods must run on
// the thread that created it.
type HighGUI struct {
	frameWindow   *gocv.Window
	maskWindow    *gocv.Window
	controlWindow *gocv.Window
	trackbars     map[core.Param]*gocv.Trackbar

	store  *core.CalibrationStore
	logger logrus.FieldLogger
}

// NewHighGUI opens the windows and creates one trackbar per control, each
// starting at the store's current value.
func NewHighGUI(titles Titles, store *core.CalibrationStore, logger logrus.FieldLogger) *HighGUI {
	h := &HighGUI{
		frameWindow:   gocv.NewWindow(titles.Frame),
		maskWindow:    gocv.NewWindow(titles.Mask),
		controlWindow: gocv.NewWindow(ControlWindow),
		trackbars:     make(map[core.Param]*gocv.Trackbar),
		store:         store,
		logger:        logger,
	}

	for _, p := range core.Parameters() {
		tb := h.controlWindow.CreateTrackbar(string(p.Name), p.Max)
		if v, err := store.Get(p.Name); err == nil {
			tb.SetPos(v)
		}
		h.trackbars[p.Name] = tb
	}

	logger.WithFields(logrus.Fields{
		"frame_window": titles.Frame,
		"mask_window":  titles.Mask,
		"trackbars":    len(h.trackbars),
	}).Debug("GUI: highgui windows created")

	return h
}

func (h *HighGUI) Show(frame, mask gocv.Mat) {
	h.frameWindow.IMShow(frame)
	h.maskWindow.IMShow(mask)
}

// Poll pumps the highgui event loop for up to wait, then copies the
// trackbar positions into the store. ESC, q, or closing the frame window
// ends the run.
func (h *HighGUI) Poll(ctx context.Context, wait time.Duration) bool {
	ms := int(wait / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	key := h.frameWindow.WaitKey(ms)

	h.syncTrackbars()

	visible := h.frameWindow.GetWindowProperty(gocv.WindowPropertyVisible)
	if reason := stopReason(key, visible); reason != "" {
		h.logger.WithFields(logrus.Fields{
			"key":     key,
			"visible": visible,
		}).Info("GUI: " + reason)
		return false
	}
	return ctx.Err() == nil
}

// stopReason decides from the last key and the frame window's visibility
// whether the run should end. An empty result means keep going.
// IsOpen only tracks Window.Close, so a window closed by the user is
// detected through its visibility property instead.
func stopReason(key int, visible float64) string {
	switch {
	case key == keyEscape || key == keyQuit:
		return "Quit key pressed"
	case visible < 1:
		return "Frame window closed"
	default:
		return ""
	}
}

func (h *HighGUI) syncTrackbars() {
	for name, tb := range h.trackbars {
		if err := h.store.Set(name, tb.GetPos()); err != nil {
			h.logger.WithError(err).WithField("trackbar", name).Warn("GUI: Trackbar not bound")
		}
	}
}

// Close destroys every window.
func (h *HighGUI) Close() error {
	for _, w := range []*gocv.Window{h.frameWindow, h.maskWindow, h.controlWindow} {
		if err := w.Close(); err != nil {
			return err
		}
	}
	return nil
}
