package io

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// StaticImageSource yields the same pre-loaded image on every Acquire.
type StaticImageSource struct {
	image  gocv.Mat
	path   string
	logger logrus.FieldLogger
}

// OpenStaticImage loads the first readable image from paths.
func OpenStaticImage(paths []string, logger logrus.FieldLogger) (*StaticImageSource, error) {
	mat, path, err := NewImageLoader(logger).LoadFirst(paths)
	if err != nil {
		return nil, err
	}
	return &StaticImageSource{image: mat, path: path, logger: logger}, nil
}

// Path is the image the source was loaded from.
func (s *StaticImageSource) Path() string {
	return s.path
}

// Acquire copies the loaded image into dst. It cannot fail after a
// successful open.
func (s *StaticImageSource) Acquire(dst *gocv.Mat) error {
	s.image.CopyTo(dst)
	return nil
}

func (s *StaticImageSource) Close() error {
	s.logger.WithField("filepath", s.path).Debug("Releasing static image")
	return s.image.Close()
}

// CameraConfig selects the capture device. A non-empty Pipeline is opened
// through OpenCV's GStreamer backend and takes precedence over Device.
type CameraConfig struct {
	Device   int
	Pipeline string
}

// CameraSource pulls live frames from a capture device.
type CameraSource struct {
	capture *gocv.VideoCapture
	name    string
	logger  logrus.FieldLogger
}

// OpenCamera claims the configured device. Failures wrap ErrDeviceOpen.
func OpenCamera(cfg CameraConfig, logger logrus.FieldLogger) (*CameraSource, error) {
	var (
		capture *gocv.VideoCapture
		name    string
		err     error
	)
	if cfg.Pipeline != "" {
		name = cfg.Pipeline
		capture, err = gocv.OpenVideoCaptureWithAPI(cfg.Pipeline, gocv.VideoCaptureGstreamer)
	} else {
		name = fmt.Sprintf("device %d", cfg.Device)
		capture, err = gocv.OpenVideoCapture(cfg.Device)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDeviceOpen, name, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("%w: %s", ErrDeviceOpen, name)
	}

	logger.WithField("source", name).Info("Camera opened")
	return &CameraSource{capture: capture, name: name, logger: logger}, nil
}

// Acquire reads the next frame into dst. A failed read or an empty frame
// (device unplugged, end of stream) wraps ErrAcquisition.
func (s *CameraSource) Acquire(dst *gocv.Mat) error {
	if ok := s.capture.Read(dst); !ok {
		return fmt.Errorf("%w: %s", ErrAcquisition, s.name)
	}
	if dst.Empty() {
		return fmt.Errorf("%w: %s returned an empty frame", ErrAcquisition, s.name)
	}
	return nil
}

func (s *CameraSource) Close() error {
	s.logger.WithField("source", s.name).Info("Releasing camera")
	return s.capture.Close()
}
