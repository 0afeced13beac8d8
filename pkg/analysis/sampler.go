package analysis

import (
	"fmt"

	"gocv.io/x/gocv"
)

// DefaultLineSeparation is the spacing between sampled columns as a
// fraction of the frame width.
const DefaultLineSeparation = 0.1

// SampleProfiles extracts numLines full-height intensity profiles from a
// preprocessed single-channel frame. Columns are centered on the frame's
// horizontal midpoint and spaced separation*width pixels apart, with line
// i placed at mid + (i - numLines/2) spacings, so the layout is symmetric
// around the center for odd counts and biased one slot left for even
// counts.
//
// Columns that would fall outside [0, width) are clamped to the nearest
// valid column. Clamping (rather than failing) keeps large line counts
// usable on narrow frames; duplicate columns simply contribute duplicate
// profiles to the average.
//
// Returns the profiles and the column index each was sampled from.
func SampleProfiles(frame gocv.Mat, numLines int, separation float64) ([][]float64, []int, error) {
	if frame.Empty() {
		return nil, nil, ErrInvalidFrame
	}
	if numLines < 1 {
		return nil, nil, fmt.Errorf("%w: need at least one line, got %d",
			ErrColumnOutOfBounds, numLines)
	}

	height := frame.Rows()
	width := frame.Cols()
	if width < 1 || height < 1 {
		return nil, nil, fmt.Errorf("%w: frame is %dx%d", ErrColumnOutOfBounds, width, height)
	}

	lineSeparation := int(separation * float64(width))
	middle := width / 2

	profiles := make([][]float64, numLines)
	columns := make([]int, numLines)
	for i := 0; i < numLines; i++ {
		col := middle + (i-numLines/2)*lineSeparation
		if col < 0 {
			col = 0
		}
		if col >= width {
			col = width - 1
		}

		profile := make([]float64, height)
		for row := 0; row < height; row++ {
			profile[row] = float64(frame.GetUCharAt(row, col))
		}

		profiles[i] = profile
		columns[i] = col
	}

	return profiles, columns, nil
}
