// Centre-of-mass extraction from binary masks
package algorithms

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Centroid is a sub-pixel centre of mass in image coordinates.
type Centroid struct {
	X float64
	Y float64
}

func (c Centroid) String() string {
	return fmt.Sprintf("(%f, %f)", c.X, c.Y)
}

// FindCentroid computes the raw moments of mask with binary weighting (any
// non-zero pixel counts as 1). It returns ok=false when the mask holds no
// foreground, which is not an error.
func FindCentroid(mask gocv.Mat) (c Centroid, ok bool) {
	if mask.Empty() {
		return Centroid{}, false
	}

	m := gocv.Moments(mask, true)
	m00 := m["m00"]
	if m00 <= 0 {
		return Centroid{}, false
	}

	return Centroid{X: m["m10"] / m00, Y: m["m01"] / m00}, true
}
