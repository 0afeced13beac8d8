package analysis

import (
	"fmt"

	"gocv.io/x/gocv"
)

// ResolveExclusion validates the exclusion-zone configuration against the
// frame height and returns the number of top rows to zero out along with
// the usable vertical pixel count that feeds calibration.
//
// With the zone disabled the whole frame height is usable. With the zone
// enabled the offset must lie in [0, frameHeight): an offset equal to the
// frame height would leave zero usable pixels and an unbounded
// pixel-to-mm ratio, so it is rejected rather than silently accepted.
func ResolveExclusion(enabled bool, offsetPX float64, frameHeight int) (topPixels, usablePixels int, err error) {
	if frameHeight <= 0 {
		return 0, 0, fmt.Errorf("%w: frame height %d", ErrInvalidExclusionZone, frameHeight)
	}
	if !enabled {
		return 0, frameHeight, nil
	}
	if offsetPX < 0 || int(offsetPX) >= frameHeight {
		return 0, 0, fmt.Errorf("%w: offset %.1f not in [0, %d)",
			ErrInvalidExclusionZone, offsetPX, frameHeight)
	}

	topPixels = int(offsetPX)
	return topPixels, frameHeight - topPixels, nil
}

// ApplyExclusion zeroes rows [0, topPixels) of a single-channel frame in
// place, blanking the near-field band before any profile is sampled.
// A zero or negative topPixels leaves the frame untouched.
func ApplyExclusion(frame *gocv.Mat, topPixels int) {
	if topPixels <= 0 || frame.Empty() {
		return
	}
	if topPixels > frame.Rows() {
		topPixels = frame.Rows()
	}

	band := frame.RowRange(0, topPixels)
	defer band.Close()
	band.SetTo(gocv.NewScalar(0, 0, 0, 0))
}
