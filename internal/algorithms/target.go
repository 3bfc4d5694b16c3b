package algorithms

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// TargetHSV maps a colour onto OpenCV's 8-bit HSV convention.
func TargetHSV(c colorful.Color) HSV {
	h, s, v := c.Clamped().Hsv()
	hue := int(math.Round(h / 2))
	if hue > MaxHue {
		// 359 degrees rounds to 180, which wraps back to red.
		hue = 0
	}
	return HSV{
		H: hue,
		S: int(math.Round(s * MaxSaturation)),
		V: int(math.Round(v * MaxValue)),
	}
}

// RangeAround builds a threshold window centred on c. Hue gets a quarter of
// the tolerance since its scale is narrower; every bound is clamped to its
// channel. Hue wrap-around at red is not modelled.
func RangeAround(c colorful.Color, tolerance int) ThresholdRange {
	if tolerance < 0 {
		tolerance = 0
	}
	t := TargetHSV(c)
	hTol := tolerance / 4

	return ThresholdRange{
		Low: HSV{
			H: max(0, t.H-hTol),
			S: max(0, t.S-tolerance),
			V: max(0, t.V-tolerance),
		},
		High: HSV{
			H: min(MaxHue, t.H+hTol),
			S: min(MaxSaturation, t.S+tolerance),
			V: min(MaxValue, t.V+tolerance),
		},
	}
}

// ParseTarget parses a "#rrggbb" colour and returns the window around it.
func ParseTarget(hex string, tolerance int) (ThresholdRange, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return ThresholdRange{}, fmt.Errorf("invalid target colour %q: %w", hex, err)
	}
	return RangeAround(c, tolerance), nil
}
