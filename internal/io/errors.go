package io

import "errors"

// Failures of a frame source. All of them end the run.
var (
	// ErrLoad means no static image could be read from any search path.
	ErrLoad = errors.New("failed to load image")
	// ErrDeviceOpen means the capture device could not be claimed.
	ErrDeviceOpen = errors.New("could not open camera")
	// ErrAcquisition means an opened source stopped delivering frames.
	ErrAcquisition = errors.New("could not read a frame")
)
