// Fyne window with live previews and slider controls
package gui

import (
	"context"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"hsv-tracker/internal/core"
)

// FyneDisplay renders into a fyne window. Show and Poll are called from the
// processing goroutine; widget updates are marshalled onto the fyne thread
// with fyne.Do, and slider callbacks write the calibration store directly.
type FyneDisplay struct {
	window    fyne.Window
	frameView *canvas.Image
	maskView  *canvas.Image
	status    *widget.Label
	sliders   map[core.Param]*widget.Slider
	cleanup   *widget.Check

	store  *core.CalibrationStore
	logger logrus.FieldLogger

	closed  atomic.Bool
	onClose func()
}

// NewFyneDisplay builds the window; call Window().ShowAndRun on the main
// goroutine. onClose runs on the fyne thread when the window closes.
func NewFyneDisplay(app fyne.App, titles Titles, store *core.CalibrationStore, logger logrus.FieldLogger, onClose func()) *FyneDisplay {
	d := &FyneDisplay{
		window:  app.NewWindow(fmt.Sprintf("%s / %s", titles.Frame, titles.Mask)),
		store:   store,
		logger:  logger,
		onClose: onClose,
		sliders: make(map[core.Param]*widget.Slider),
	}

	d.frameView = newPreview()
	d.maskView = newPreview()
	d.status = widget.NewLabel("Waiting for frames")

	previews := container.NewGridWithColumns(2,
		widget.NewCard(titles.Frame, "", d.frameView),
		widget.NewCard(titles.Mask, "", d.maskView),
	)
	controls := widget.NewCard(ControlWindow, "", d.buildControls())

	content := container.NewBorder(nil, d.status, nil, container.NewVScroll(controls), previews)
	d.window.SetContent(content)
	d.window.Resize(fyne.NewSize(1200, 600))
	d.window.SetMaster()
	d.window.SetOnClosed(func() {
		d.closed.Store(true)
		d.logger.Info("GUI: Window closed")
		if d.onClose != nil {
			d.onClose()
		}
	})

	return d
}

func newPreview() *canvas.Image {
	img := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScalePixels
	img.SetMinSize(fyne.NewSize(400, 300))
	return img
}

// buildControls creates one slider per control plus the cleanup toggle.
func (d *FyneDisplay) buildControls() fyne.CanvasObject {
	box := container.NewVBox()

	for _, param := range core.Parameters() {
		initial, err := d.store.Get(param.Name)
		if err != nil {
			d.logger.WithError(err).Warn("GUI: Unknown control")
			continue
		}

		label := widget.NewLabel(fmt.Sprintf("%s: %d", param.Name, initial))
		slider := widget.NewSlider(0, float64(param.Max))
		slider.Step = 1
		slider.SetValue(float64(initial))
		slider.OnChanged = func(value float64) {
			v := int(value)
			if err := d.store.Set(param.Name, v); err != nil {
				d.logger.WithError(err).Warn("GUI: Failed to apply slider")
				return
			}
			label.SetText(fmt.Sprintf("%s: %d", param.Name, v))
		}

		d.sliders[param.Name] = slider
		box.Add(label)
		box.Add(slider)
	}

	d.cleanup = widget.NewCheck("Morphological cleanup", nil)
	d.cleanup.SetChecked(d.store.CleanupEnabled())
	d.cleanup.OnChanged = d.store.SetCleanupEnabled
	box.Add(widget.NewSeparator())
	box.Add(d.cleanup)

	return box
}

// Window exposes the fyne window so the caller can run it.
func (d *FyneDisplay) Window() fyne.Window {
	return d.window
}

// Show converts both Mats on the calling goroutine, since they are reused by
// the pipeline, and hands the images to the fyne thread.
func (d *FyneDisplay) Show(frame, mask gocv.Mat) {
	if d.closed.Load() {
		return
	}

	frameImg, err := frame.ToImage()
	if err != nil {
		d.logger.WithError(err).Error("GUI: Failed to convert frame to image")
		return
	}
	maskImg, err := mask.ToImage()
	if err != nil {
		d.logger.WithError(err).Error("GUI: Failed to convert mask to image")
		return
	}
	status := fmt.Sprintf("%dx%d  %s", frame.Cols(), frame.Rows(), d.store.Range())

	fyne.Do(func() {
		d.frameView.Image = frameImg
		d.frameView.Refresh()
		d.maskView.Image = maskImg
		d.maskView.Refresh()
		d.status.SetText(status)
	})
}

// Poll waits up to wait and reports whether the window is still open.
func (d *FyneDisplay) Poll(ctx context.Context, wait time.Duration) bool {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
	}
	return !d.closed.Load()
}
