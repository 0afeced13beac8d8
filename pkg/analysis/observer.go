package analysis

import (
	"gocv.io/x/gocv"

	"slicethickness/internal/models"
)

// Observer receives visualization hooks at defined points of the analysis
// loop. Observers are a strict side channel: they may display or save
// imagery, but nothing they do feeds back into the measurement. Mats
// passed to an observer are only valid for the duration of the call;
// implementations that retain pixels must clone them.
type Observer interface {
	// FrameRead is invoked with the raw decoded frame before any
	// preprocessing.
	FrameRead(index int, frame gocv.Mat)

	// FramePreprocessed is invoked with the grayscale, blurred frame
	// after the exclusion band has been zeroed.
	FramePreprocessed(index int, gray gocv.Mat)

	// ProfilesSampled is invoked with the sampled column positions and
	// their intensity profiles.
	ProfilesSampled(index int, frame gocv.Mat, columns []int, profiles [][]float64)

	// SampleMeasured is invoked once per frame that produced a valid
	// measurement, after the sample has been appended to the series.
	SampleMeasured(index int, frame gocv.Mat, sample models.Sample)
}

// NopObserver ignores every hook. It keeps the analyzer headless when no
// visualization is wanted.
type NopObserver struct{}

// FrameRead implements Observer.
func (NopObserver) FrameRead(int, gocv.Mat) {}

// FramePreprocessed implements Observer.
func (NopObserver) FramePreprocessed(int, gocv.Mat) {}

// ProfilesSampled implements Observer.
func (NopObserver) ProfilesSampled(int, gocv.Mat, []int, [][]float64) {}

// SampleMeasured implements Observer.
func (NopObserver) SampleMeasured(int, gocv.Mat, models.Sample) {}
