package analysis

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"gocv.io/x/gocv"

	"slicethickness/pkg/video"
)

// fakeSource is a synthetic video source. Every frame carries a
// horizontal band of the given pulse width so each vertical profile
// contains one clean rectangular pulse.
type fakeSource struct {
	frames     int
	width      int
	height     int
	pulseStart int
	pulseWidth int
	failAt     map[int]bool
}

func (s *fakeSource) FrameCount() int  { return s.frames }
func (s *fakeSource) FPS() float64     { return 30 }
func (s *fakeSource) FrameWidth() int  { return s.width }
func (s *fakeSource) FrameHeight() int { return s.height }
func (s *fakeSource) Close() error     { return nil }

func (s *fakeSource) Read(index int) (gocv.Mat, error) {
	if s.failAt[index] {
		return gocv.Mat{}, fmt.Errorf("%w: index %d", video.ErrReadFailed, index)
	}

	frame := gocv.NewMatWithSize(s.height, s.width, gocv.MatTypeCV8UC1)
	for row := s.pulseStart; row < s.pulseStart+s.pulseWidth && row < s.height; row++ {
		for col := 0; col < s.width; col++ {
			frame.SetUCharAt(row, col, 200)
		}
	}
	return frame, nil
}

func newFakeSource(frames int) *fakeSource {
	return &fakeSource{
		frames:     frames,
		width:      64,
		height:     100,
		pulseStart: 40,
		pulseWidth: 20,
	}
}

// TestAnalyzeConstantPulse runs the reference scenario: 100 frames,
// stride 10, max depth 500 mm, no exclusion, single line, every frame a
// 20 px pulse. The series must hold 10 entries at depths 0, 50, ... 450
// with a constant calibrated thickness of 20 * (500 / frame height).
func TestAnalyzeConstantPulse(t *testing.T) {
	source := newFakeSource(100)
	analyzer := NewAnalyzer(source, &Params{
		FrameInterval: 10,
		MaxDepthMM:    500,
		NumLines:      1,
		Threshold:     0.5,
	})

	result, err := analyzer.Analyze()
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.Series) != 10 {
		t.Fatalf("Expected 10 samples, got %d", len(result.Series))
	}
	if result.TotalUsablePixels != 100 {
		t.Errorf("Expected 100 usable pixels, got %d", result.TotalUsablePixels)
	}

	// pixel_to_mm_ratio * total_usable_pixels == max_depth
	if got := result.PixelToMMRatio * float64(result.TotalUsablePixels); math.Abs(got-500) > 1e-9 {
		t.Errorf("Expected ratio*usable=500, got %f", got)
	}

	expectedThicknessMM := 20 * (500.0 / 100.0)
	for i, sample := range result.Series {
		expectedDepth := float64(i) * 10 * (500.0 / 100.0)
		if math.Abs(sample.DepthMM-expectedDepth) > 1e-9 {
			t.Errorf("Sample %d: expected depth %f, got %f", i, expectedDepth, sample.DepthMM)
		}
		if sample.ThicknessPX != 20 {
			t.Errorf("Sample %d: expected 20 px, got %f", i, sample.ThicknessPX)
		}
		if math.Abs(sample.ThicknessMM-expectedThicknessMM) > 1e-9 {
			t.Errorf("Sample %d: expected %f mm, got %f", i, expectedThicknessMM, sample.ThicknessMM)
		}
		// Every entry converts through the single run calibration
		if math.Abs(sample.ThicknessMM-sample.ThicknessPX*result.PixelToMMRatio) > 1e-12 {
			t.Errorf("Sample %d: thickness_mm not thickness_px * ratio", i)
		}
	}
}

// TestAnalyzeSkipsFailedReads verifies a frame read failure drops that
// index from the series without a gap marker
func TestAnalyzeSkipsFailedReads(t *testing.T) {
	source := newFakeSource(100)
	source.failAt = map[int]bool{30: true}

	analyzer := NewAnalyzer(source, &Params{
		FrameInterval: 10,
		MaxDepthMM:    500,
		NumLines:      1,
	})

	result, err := analyzer.Analyze()
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.Series) != 9 {
		t.Fatalf("Expected 9 samples after one failed read, got %d", len(result.Series))
	}

	// Depth 150 (frame 30) must be absent; neighbors present
	for _, sample := range result.Series {
		if sample.DepthMM == 150 {
			t.Errorf("Expected no sample at depth 150")
		}
	}

	// Depths stay non-decreasing across the skip
	for i := 1; i < len(result.Series); i++ {
		if result.Series[i].DepthMM < result.Series[i-1].DepthMM {
			t.Errorf("Depths not non-decreasing at index %d", i)
		}
	}
}

// TestAnalyzeMultipleLines verifies per-frame thickness is the mean of
// the per-line measurements
func TestAnalyzeMultipleLines(t *testing.T) {
	source := newFakeSource(10)
	analyzer := NewAnalyzer(source, &Params{
		FrameInterval:  1,
		MaxDepthMM:     100,
		NumLines:       3,
		LineSeparation: 0.2,
	})

	result, err := analyzer.Analyze()
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	// The synthetic band spans the full width, so all three lines agree
	// and the mean equals the single-line measurement
	for i, sample := range result.Series {
		if sample.ThicknessPX != 20 {
			t.Errorf("Sample %d: expected mean thickness 20, got %f", i, sample.ThicknessPX)
		}
	}
}

// TestAnalyzeExclusionZone verifies the exclusion offset shrinks the
// usable pixel count and the calibration ratio accordingly
func TestAnalyzeExclusionZone(t *testing.T) {
	source := newFakeSource(10)
	analyzer := NewAnalyzer(source, &Params{
		FrameInterval:    1,
		MaxDepthMM:       500,
		NumLines:         1,
		UseExclusionZone: true,
		ExclusionZonePX:  30,
	})

	result, err := analyzer.Analyze()
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.TotalUsablePixels != 70 {
		t.Errorf("Expected 70 usable pixels, got %d", result.TotalUsablePixels)
	}
	if math.Abs(result.PixelToMMRatio-500.0/70.0) > 1e-9 {
		t.Errorf("Expected ratio %f, got %f", 500.0/70.0, result.PixelToMMRatio)
	}

	// The pulse sits below the excluded band, so measurements survive
	if len(result.Series) != 10 {
		t.Errorf("Expected 10 samples, got %d", len(result.Series))
	}
}

// TestAnalyzeExclusionCoversFrame verifies excluding the entire frame is
// rejected instead of producing an unbounded ratio
func TestAnalyzeExclusionCoversFrame(t *testing.T) {
	source := newFakeSource(10)
	analyzer := NewAnalyzer(source, &Params{
		FrameInterval:    1,
		MaxDepthMM:       500,
		NumLines:         1,
		UseExclusionZone: true,
		ExclusionZonePX:  100,
	})

	if _, err := analyzer.Analyze(); !errors.Is(err, ErrInvalidExclusionZone) {
		t.Errorf("Expected ErrInvalidExclusionZone, got %v", err)
	}
}

// TestAnalyzeEmptySource verifies a zero-frame source fails before any
// processing
func TestAnalyzeEmptySource(t *testing.T) {
	source := newFakeSource(0)
	analyzer := NewAnalyzer(source, &Params{
		FrameInterval: 1,
		MaxDepthMM:    500,
		NumLines:      1,
	})

	if _, err := analyzer.Analyze(); !errors.Is(err, video.ErrEmptySource) {
		t.Errorf("Expected ErrEmptySource, got %v", err)
	}
}

// TestAnalyzeInvalidParams verifies parameter preconditions abort the run
func TestAnalyzeInvalidParams(t *testing.T) {
	cases := []struct {
		name   string
		params Params
	}{
		{"zero interval", Params{FrameInterval: 0, MaxDepthMM: 500, NumLines: 1}},
		{"zero depth", Params{FrameInterval: 1, MaxDepthMM: 0, NumLines: 1}},
		{"zero lines", Params{FrameInterval: 1, MaxDepthMM: 500, NumLines: 0}},
	}

	for _, tc := range cases {
		analyzer := NewAnalyzer(newFakeSource(10), &tc.params)
		if _, err := analyzer.Analyze(); err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
		}
	}
}

// TestAnalyzeSeriesNeverExceedsSampledIndices verifies the series length
// invariant for a source where some frames yield no measurement
func TestAnalyzeSeriesNeverExceedsSampledIndices(t *testing.T) {
	source := newFakeSource(50)
	source.failAt = map[int]bool{0: true, 5: true, 45: true}

	analyzer := NewAnalyzer(source, &Params{
		FrameInterval: 5,
		MaxDepthMM:    200,
		NumLines:      1,
	})

	result, err := analyzer.Analyze()
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	sampledIndices := 10 // 0, 5, ..., 45
	if len(result.Series) > sampledIndices {
		t.Errorf("Series length %d exceeds sampled indices %d", len(result.Series), sampledIndices)
	}
	for _, sample := range result.Series {
		if sample.ThicknessPX <= 0 {
			t.Errorf("Series contains non-positive thickness %f", sample.ThicknessPX)
		}
	}
}
