// Live threshold calibration shared between the UI and the processing loop
package core

import (
	"fmt"
	"sync/atomic"

	"hsv-tracker/internal/algorithms"
)

// Param names a tunable control. The names double as trackbar labels.
type Param string

const (
	LowH      Param = "LowH"
	HighH     Param = "HighH"
	LowS      Param = "LowS"
	HighS     Param = "HighS"
	LowV      Param = "LowV"
	HighV     Param = "HighV"
	MorphSize Param = "MorphSize"
)

// ParameterInfo describes a control for UI generation
type ParameterInfo struct {
	Name Param
	Max  int
}

// Parameters lists the controls in display order. Every control starts at 0.
func Parameters() []ParameterInfo {
	return []ParameterInfo{
		{LowH, algorithms.MaxHue},
		{HighH, algorithms.MaxHue},
		{LowS, algorithms.MaxSaturation},
		{HighS, algorithms.MaxSaturation},
		{LowV, algorithms.MaxValue},
		{HighV, algorithms.MaxValue},
		{MorphSize, algorithms.MaxKernelSize},
	}
}

// CalibrationStore holds the threshold range and kernel size. The UI writes
// it from its own thread while the loop reads it once per frame, so every
// field is atomic. Range reads each channel bound separately; a concurrent
// update may land between two bounds, which only affects one frame.
type CalibrationStore struct {
	lowH, highH atomic.Int32
	lowS, highS atomic.Int32
	lowV, highV atomic.Int32
	kernel      atomic.Int32
	cleanup     atomic.Bool
}

// NewCalibrationStore seeds the store.
func NewCalibrationStore(r algorithms.ThresholdRange, kernelSize int, cleanup bool) *CalibrationStore {
	s := &CalibrationStore{}
	s.SetRange(r)
	s.kernel.Store(int32(kernelSize))
	s.cleanup.Store(cleanup)
	return s
}

// Range returns the live threshold range without validating it.
func (s *CalibrationStore) Range() algorithms.ThresholdRange {
	return algorithms.ThresholdRange{
		Low:  algorithms.HSV{H: int(s.lowH.Load()), S: int(s.lowS.Load()), V: int(s.lowV.Load())},
		High: algorithms.HSV{H: int(s.highH.Load()), S: int(s.highS.Load()), V: int(s.highV.Load())},
	}
}

// SetRange replaces all six bounds.
func (s *CalibrationStore) SetRange(r algorithms.ThresholdRange) {
	s.lowH.Store(int32(r.Low.H))
	s.lowS.Store(int32(r.Low.S))
	s.lowV.Store(int32(r.Low.V))
	s.highH.Store(int32(r.High.H))
	s.highS.Store(int32(r.High.S))
	s.highV.Store(int32(r.High.V))
}

// KernelSize returns the live kernel size, clamped to at least 1.
func (s *CalibrationStore) KernelSize() int {
	return algorithms.ClampKernelSize(int(s.kernel.Load()))
}

func (s *CalibrationStore) CleanupEnabled() bool {
	return s.cleanup.Load()
}

func (s *CalibrationStore) SetCleanupEnabled(enabled bool) {
	s.cleanup.Store(enabled)
}

// Get returns the raw value behind a control, before any clamping.
func (s *CalibrationStore) Get(p Param) (int, error) {
	field, err := s.field(p)
	if err != nil {
		return 0, err
	}
	return int(field.Load()), nil
}

// Set writes a control value. Values are stored as given; bounds are the
// UI's business and an inverted range is allowed.
func (s *CalibrationStore) Set(p Param, value int) error {
	field, err := s.field(p)
	if err != nil {
		return err
	}
	field.Store(int32(value))
	return nil
}

func (s *CalibrationStore) field(p Param) (*atomic.Int32, error) {
	switch p {
	case LowH:
		return &s.lowH, nil
	case HighH:
		return &s.highH, nil
	case LowS:
		return &s.lowS, nil
	case HighS:
		return &s.highS, nil
	case LowV:
		return &s.lowV, nil
	case HighV:
		return &s.highV, nil
	case MorphSize:
		return &s.kernel, nil
	default:
		return nil, fmt.Errorf("unknown parameter: %s", p)
	}
}
