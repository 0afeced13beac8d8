// Package video provides frame-indexed access to a decoded video file.
// The analysis pipeline consumes the Source interface so it can be driven
// by a real capture device or by a synthetic source in tests.
package video

import (
	"errors"

	"gocv.io/x/gocv"
)

var (
	// ErrOpen indicates the video source could not be opened at all.
	// This is fatal: no analysis can start.
	ErrOpen = errors.New("video: source unreadable")

	// ErrEmptySource indicates the source opened but reports zero frames.
	// This is fatal and is checked before any frame is processed.
	ErrEmptySource = errors.New("video: source has no frames")

	// ErrReadFailed indicates a single indexed read failed. Callers treat
	// this as a per-frame skip, not as a fatal condition.
	ErrReadFailed = errors.New("video: frame read failed")
)

// Source is sequential/random access to a decoded video. A Source is
// exclusively owned by one consumer: seek-then-read pairs must not
// interleave with any other caller.
type Source interface {
	// FrameCount returns the total number of frames in the source.
	FrameCount() int

	// FPS returns the source frame rate.
	FPS() float64

	// FrameWidth returns the width of every frame in pixels.
	FrameWidth() int

	// FrameHeight returns the height of every frame in pixels.
	FrameHeight() int

	// Read seeks to the given frame index and decodes that frame.
	// The caller owns the returned Mat and must close it. A failed read
	// returns an error wrapping ErrReadFailed.
	Read(index int) (gocv.Mat, error)

	// Close releases the underlying decoder resources.
	Close() error
}
