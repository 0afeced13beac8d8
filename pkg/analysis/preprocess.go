// Package analysis implements the frame-to-thickness measurement pipeline:
// frame preprocessing, vertical line sampling, half-max thickness detection
// and the depth/thickness series construction over a whole video.
package analysis

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

var (
	// ErrInvalidFrame indicates a frame could not be preprocessed
	// (empty or malformed input). Treated as a per-frame skip.
	ErrInvalidFrame = errors.New("analysis: invalid frame")

	// ErrColumnOutOfBounds indicates no valid sampling column exists
	// for the requested line layout.
	ErrColumnOutOfBounds = errors.New("analysis: sampling column out of bounds")

	// ErrInvalidExclusionZone indicates an exclusion offset outside the
	// usable range for the frame height.
	ErrInvalidExclusionZone = errors.New("analysis: exclusion zone out of range")
)

// DefaultBlurKernel is the Gaussian kernel side length used when the
// analyzer is not given an explicit one. The kernel must be odd.
const DefaultBlurKernel = 3

// Preprocess converts a raw frame into a denoised single-channel intensity
// image of identical spatial dimensions: color frames are converted to
// grayscale, then a small Gaussian kernel suppresses pixel-level noise
// ahead of edge detection. Frames that are already single-channel skip the
// color conversion.
//
// The transform is pure: the input Mat is not modified and the caller owns
// the returned Mat.
func Preprocess(frame gocv.Mat, blurKernel int) (gocv.Mat, error) {
	if frame.Empty() {
		return gocv.Mat{}, ErrInvalidFrame
	}
	if blurKernel < 1 || blurKernel%2 == 0 {
		return gocv.Mat{}, fmt.Errorf("%w: blur kernel must be odd and positive, got %d",
			ErrInvalidFrame, blurKernel)
	}

	gray := gocv.NewMat()
	if frame.Channels() > 1 {
		gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}
	defer gray.Close()

	blurred := gocv.NewMat()
	gocv.GaussianBlur(gray, &blurred, image.Pt(blurKernel, blurKernel), 0, 0, gocv.BorderDefault)

	return blurred, nil
}
