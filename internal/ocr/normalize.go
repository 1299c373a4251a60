package ocr

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Normalize prepares a screenshot for OCR: grayscale, a light Gaussian blur,
// Otsu's threshold and a polarity fix so that text is always dark on a light
// background, whether the screenshot was taken in light or dark mode.
// The caller must Close the returned Mat.
func Normalize(src gocv.Mat) (gocv.Mat, error) {
	if src.Empty() {
		return gocv.Mat{}, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}

	gray := gocv.NewMat()
	defer gray.Close()

	switch src.Channels() {
	case 1:
		src.CopyTo(&gray)
	case 4:
		gocv.CvtColor(src, &gray, gocv.ColorBGRAToGray)
	default:
		gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	}

	// Suppress JPEG and anti-aliasing noise
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(3, 3), 0, 0, gocv.BorderDefault)

	// Otsu's threshold for clean text/background separation
	binary := gocv.NewMat()
	gocv.Threshold(blurred, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	// Dark mode: mostly black after thresholding, invert
	if LightRatio(binary) < 0.5 {
		gocv.BitwiseNot(binary, &binary)
	}

	return binary, nil
}
