// Colour-space conversion and HSV range thresholding
package algorithms

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Channel bounds in OpenCV's 8-bit HSV convention.
const (
	MaxHue        = 179
	MaxSaturation = 255
	MaxValue      = 255
)

// HSV is one point in 8-bit HSV space (H 0-179, S 0-255, V 0-255).
type HSV struct {
	H int `yaml:"h"`
	S int `yaml:"s"`
	V int `yaml:"v"`
}

// Scalar returns the triple as a gocv scalar in channel order.
func (c HSV) Scalar() gocv.Scalar {
	return gocv.NewScalar(float64(c.H), float64(c.S), float64(c.V), 0)
}

// Validate checks every component against its channel bound.
func (c HSV) Validate() error {
	if c.H < 0 || c.H > MaxHue {
		return fmt.Errorf("hue %d out of range [0,%d]", c.H, MaxHue)
	}
	if c.S < 0 || c.S > MaxSaturation {
		return fmt.Errorf("saturation %d out of range [0,%d]", c.S, MaxSaturation)
	}
	if c.V < 0 || c.V > MaxValue {
		return fmt.Errorf("value %d out of range [0,%d]", c.V, MaxValue)
	}
	return nil
}

// ThresholdRange is an inclusive per-channel HSV window. Low > High on a
// channel is legal and simply matches nothing.
type ThresholdRange struct {
	Low  HSV `yaml:"low"`
	High HSV `yaml:"high"`
}

// FullRange matches every pixel.
func FullRange() ThresholdRange {
	return ThresholdRange{
		Low:  HSV{0, 0, 0},
		High: HSV{MaxHue, MaxSaturation, MaxValue},
	}
}

// Empty reports whether some channel has Low > High.
func (r ThresholdRange) Empty() bool {
	return r.Low.H > r.High.H || r.Low.S > r.High.S || r.Low.V > r.High.V
}

func (r ThresholdRange) String() string {
	return fmt.Sprintf("H[%d,%d] S[%d,%d] V[%d,%d]",
		r.Low.H, r.High.H, r.Low.S, r.High.S, r.Low.V, r.High.V)
}

// ToHSV converts a BGR frame into dst.
func ToHSV(frame gocv.Mat, dst *gocv.Mat) error {
	if frame.Empty() {
		return fmt.Errorf("input image is empty")
	}
	if frame.Channels() != 3 {
		return fmt.Errorf("expected 3-channel BGR frame, got %d channels", frame.Channels())
	}
	gocv.CvtColor(frame, dst, gocv.ColorBGRToHSV)
	return nil
}

// Threshold writes a binary mask into dst: 255 where every channel of hsv
// lies inside r (bounds inclusive), 0 elsewhere.
func Threshold(hsv gocv.Mat, r ThresholdRange, dst *gocv.Mat) error {
	if hsv.Empty() {
		return fmt.Errorf("input image is empty")
	}
	gocv.InRangeWithScalar(hsv, r.Low.Scalar(), r.High.Scalar(), dst)
	return nil
}
