package ocr

import (
	"fmt"
	"image"

	"grade-estimator/internal/screenshot"

	"gocv.io/x/gocv"
)

// ErrInvalidImage is returned for empty or undecodable input.
var ErrInvalidImage = screenshot.ErrInvalidImage

// ToMat converts a decoded image into a BGR Mat.
// The caller must Close the returned Mat.
func ToMat(img image.Image) (gocv.Mat, error) {
	if img == nil || img.Bounds().Empty() {
		return gocv.Mat{}, fmt.Errorf("%w: no pixels", ErrInvalidImage)
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return mat, nil
}

// LightRatio returns the fraction of non-zero pixels in a single channel image.
// For a binary image this is the share of white pixels.
func LightRatio(binary gocv.Mat) float64 {
	total := binary.Rows() * binary.Cols()
	if total == 0 {
		return 0
	}
	return float64(gocv.CountNonZero(binary)) / float64(total)
}
