package analysis

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

// TestResolveExclusionDisabled verifies the disabled mode keeps the full
// frame height usable
func TestResolveExclusionDisabled(t *testing.T) {
	top, usable, err := ResolveExclusion(false, 0, 480)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if top != 0 {
		t.Errorf("Expected top=0, got %d", top)
	}
	if usable != 480 {
		t.Errorf("Expected usable=480, got %d", usable)
	}
}

// TestResolveExclusionEnabled verifies a valid offset splits the frame
// into excluded and usable bands
func TestResolveExclusionEnabled(t *testing.T) {
	top, usable, err := ResolveExclusion(true, 120, 480)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if top != 120 {
		t.Errorf("Expected top=120, got %d", top)
	}
	if usable != 360 {
		t.Errorf("Expected usable=360, got %d", usable)
	}
}

// TestResolveExclusionOutOfRange verifies out-of-range offsets are
// rejected rather than silently producing a degenerate calibration
func TestResolveExclusionOutOfRange(t *testing.T) {
	cases := []struct {
		name   string
		offset float64
		height int
	}{
		{"negative offset", -1, 480},
		{"offset equals height", 480, 480},
		{"offset beyond height", 500, 480},
		{"zero height", 0, 0},
	}

	for _, tc := range cases {
		_, _, err := ResolveExclusion(true, tc.offset, tc.height)
		if !errors.Is(err, ErrInvalidExclusionZone) {
			t.Errorf("%s: expected ErrInvalidExclusionZone, got %v", tc.name, err)
		}
	}
}

// TestApplyExclusion verifies the top band is zeroed in place and the
// rest of the frame is untouched
func TestApplyExclusion(t *testing.T) {
	frame := gocv.NewMatWithSize(10, 4, gocv.MatTypeCV8UC1)
	defer frame.Close()
	for row := 0; row < 10; row++ {
		for col := 0; col < 4; col++ {
			frame.SetUCharAt(row, col, 200)
		}
	}

	ApplyExclusion(&frame, 3)

	for row := 0; row < 10; row++ {
		for col := 0; col < 4; col++ {
			got := frame.GetUCharAt(row, col)
			if row < 3 && got != 0 {
				t.Errorf("Expected row %d zeroed, got %d at col %d", row, got, col)
			}
			if row >= 3 && got != 200 {
				t.Errorf("Expected row %d untouched, got %d at col %d", row, got, col)
			}
		}
	}
}

// TestApplyExclusionNoop verifies a zero offset leaves the frame intact
func TestApplyExclusionNoop(t *testing.T) {
	frame := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC1)
	defer frame.Close()
	frame.SetUCharAt(0, 0, 77)

	ApplyExclusion(&frame, 0)

	if got := frame.GetUCharAt(0, 0); got != 77 {
		t.Errorf("Expected frame untouched, got %d", got)
	}
}
