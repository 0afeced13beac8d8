package video

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Capture is a Source backed by an OpenCV VideoCapture. Dimensions and
// frame count are read once at open time; reads seek by frame index so
// the analysis stride is independent of decode order.
type Capture struct {
	capture *gocv.VideoCapture

	frameCount int
	fps        float64
	width      int
	height     int
}

// Open opens the video file at path and reads its properties.
// The caller must call Close on the returned Capture.
func Open(path string) (*Capture, error) {
	capture, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("%w: %s", ErrOpen, path)
	}

	c := &Capture{
		capture:    capture,
		frameCount: int(capture.Get(gocv.VideoCaptureFrameCount)),
		fps:        capture.Get(gocv.VideoCaptureFPS),
		width:      int(capture.Get(gocv.VideoCaptureFrameWidth)),
		height:     int(capture.Get(gocv.VideoCaptureFrameHeight)),
	}

	if c.frameCount <= 0 {
		capture.Close()
		return nil, fmt.Errorf("%w: %s", ErrEmptySource, path)
	}

	return c, nil
}

// FrameCount returns the total number of frames reported by the container.
func (c *Capture) FrameCount() int { return c.frameCount }

// FPS returns the container frame rate.
func (c *Capture) FPS() float64 { return c.fps }

// FrameWidth returns the frame width in pixels.
func (c *Capture) FrameWidth() int { return c.width }

// FrameHeight returns the frame height in pixels.
func (c *Capture) FrameHeight() int { return c.height }

// Read seeks to the given frame index and decodes one frame. The caller
// owns the returned Mat and must close it.
func (c *Capture) Read(index int) (gocv.Mat, error) {
	c.capture.Set(gocv.VideoCapturePosFrames, float64(index))

	frame := gocv.NewMat()
	if ok := c.capture.Read(&frame); !ok || frame.Empty() {
		frame.Close()
		return gocv.Mat{}, fmt.Errorf("%w: index %d", ErrReadFailed, index)
	}
	return frame, nil
}

// Close releases the underlying VideoCapture.
func (c *Capture) Close() error {
	return c.capture.Close()
}
