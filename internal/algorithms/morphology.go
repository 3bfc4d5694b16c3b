// Morphological mask cleanup
package algorithms

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// MaxKernelSize is the largest kernel size the controls expose.
const MaxKernelSize = 10

// ClampKernelSize raises sizes below 1 to 1. A zero-sized structuring
// element would be degenerate.
func ClampKernelSize(size int) int {
	if size < 1 {
		return 1
	}
	return size
}

// ElementSide returns the side of the square structuring element used for
// a kernel size: the clamped size, rounded up to the next odd number so the
// element has a centre pixel.
func ElementSide(size int) int {
	side := ClampKernelSize(size)
	if side%2 == 0 {
		side++
	}
	return side
}

// StructuringElement builds the filled square element for a kernel size.
// The caller owns the returned Mat.
func StructuringElement(size int) gocv.Mat {
	side := ElementSide(size)
	return gocv.GetStructuringElement(gocv.MorphRect, image.Pt(side, side))
}

// Cleanup closes and then opens the mask in place with the same element.
// Closing first fills pinholes inside blobs; the opening afterwards drops
// isolated specks. Swapping the two changes the result.
func Cleanup(mask *gocv.Mat, size int) error {
	if mask == nil || mask.Empty() {
		return fmt.Errorf("input image is empty")
	}

	kernel := StructuringElement(size)
	defer kernel.Close()

	closeMask(mask, kernel)
	openMask(mask, kernel)
	return nil
}

// closeMask fills gaps smaller than kernel (dilate then erode).
func closeMask(mask *gocv.Mat, kernel gocv.Mat) {
	gocv.MorphologyEx(*mask, mask, gocv.MorphClose, kernel)
}

// openMask drops foreground smaller than kernel (erode then dilate).
func openMask(mask *gocv.Mat, kernel gocv.Mat) {
	gocv.MorphologyEx(*mask, mask, gocv.MorphOpen, kernel)
}
