package analysis

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"slicethickness/internal/models"
	"slicethickness/pkg/video"
)

// Params holds the analysis configuration for one run.
type Params struct {
	// FrameInterval is the stride between analyzed frame indices.
	// Must be >= 1.
	FrameInterval int

	// MaxDepthMM is the physical depth covered by the full video, in
	// millimeters. Depth per frame is MaxDepthMM / total frame count
	// regardless of the stride.
	MaxDepthMM float64

	// NumLines is how many vertical profiles are sampled per frame.
	// Must be >= 1.
	NumLines int

	// Threshold is the half-max fraction in (0, 1]. Zero means
	// DefaultThreshold.
	Threshold float64

	// LineSeparation is the spacing between sampled columns as a
	// fraction of the frame width. Zero means DefaultLineSeparation.
	LineSeparation float64

	// UseExclusionZone enables zeroing of a top-of-frame band before
	// sampling.
	UseExclusionZone bool

	// ExclusionZonePX is the height of the excluded band in pixels,
	// validated against the frame height when the zone is enabled.
	ExclusionZonePX float64

	// Policy selects which qualifying peak a profile reports.
	Policy PeakPolicy

	// BlurKernel is the Gaussian kernel side length used during
	// preprocessing. Zero means DefaultBlurKernel. Must be odd.
	BlurKernel int

	// Observer receives visualization hooks. Nil means no observer.
	Observer Observer

	// Logger receives structured progress output. Nil means silent.
	Logger *zerolog.Logger
}

// Result is the outcome of one analysis run.
type Result struct {
	// Series holds one (depth, thickness) sample per frame that yielded
	// at least one positive per-line measurement, in frame order.
	Series models.Series

	// AnalysisTime is the wall-clock duration of the run.
	AnalysisTime time.Duration

	// TotalUsablePixels is the frame height minus the exclusion offset;
	// the vertical pixel span that maps onto MaxDepthMM.
	TotalUsablePixels int

	// PixelToMMRatio converts pixel thicknesses to millimeters. It is
	// computed once per run as MaxDepthMM / TotalUsablePixels.
	PixelToMMRatio float64
}

// Analyzer drives the measurement pipeline over a frame source: for every
// strided frame index it preprocesses the frame, zeroes the exclusion
// band, samples vertical intensity profiles, measures each profile's
// half-max peak width and averages the positive measurements into one
// series sample.
type Analyzer struct {
	source   video.Source
	params   *Params
	detector Detector
	observer Observer
	logger   zerolog.Logger
}

// NewAnalyzer creates an analyzer over the given source. The source stays
// owned by the caller and is not closed by the analyzer.
func NewAnalyzer(source video.Source, params *Params) *Analyzer {
	observer := params.Observer
	if observer == nil {
		observer = NopObserver{}
	}
	logger := zerolog.Nop()
	if params.Logger != nil {
		logger = *params.Logger
	}

	return &Analyzer{
		source: source,
		params: params,
		detector: Detector{
			Threshold: params.Threshold,
			Policy:    params.Policy,
		},
		observer: observer,
		logger:   logger,
	}
}

// Analyze runs the full pipeline and returns the depth/thickness series
// plus the run's calibration. Fatal conditions (empty source, invalid
// parameters, out-of-range exclusion zone) abort before any frame is
// processed; individual frame read or preprocessing failures are logged
// and skipped without adding a series entry.
func (a *Analyzer) Analyze() (*Result, error) {
	start := time.Now()

	frameCount := a.source.FrameCount()
	if frameCount <= 0 {
		return nil, video.ErrEmptySource
	}
	if a.params.FrameInterval < 1 {
		return nil, fmt.Errorf("frame interval must be >= 1, got %d", a.params.FrameInterval)
	}
	if a.params.MaxDepthMM <= 0 {
		return nil, fmt.Errorf("max depth must be positive, got %f", a.params.MaxDepthMM)
	}
	if a.params.NumLines < 1 {
		return nil, fmt.Errorf("number of lines must be >= 1, got %d", a.params.NumLines)
	}
	if k := a.params.BlurKernel; k != 0 && (k < 1 || k%2 == 0) {
		return nil, fmt.Errorf("blur kernel must be odd and positive, got %d", k)
	}

	topPixels, usablePixels, err := ResolveExclusion(
		a.params.UseExclusionZone, a.params.ExclusionZonePX, a.source.FrameHeight())
	if err != nil {
		return nil, err
	}

	separation := a.params.LineSeparation
	if separation == 0 {
		separation = DefaultLineSeparation
	}
	blurKernel := a.params.BlurKernel
	if blurKernel == 0 {
		blurKernel = DefaultBlurKernel
	}

	// Calibration is constant for the whole run: the usable vertical
	// span maps onto the full physical depth.
	pixelToMM := a.params.MaxDepthMM / float64(usablePixels)
	depthIncrement := a.params.MaxDepthMM / float64(frameCount)

	a.logger.Info().
		Int("frame_count", frameCount).
		Int("frame_interval", a.params.FrameInterval).
		Int("usable_pixels", usablePixels).
		Float64("pixel_to_mm_ratio", pixelToMM).
		Msg("starting video analysis")

	series := make(models.Series, 0, frameCount/a.params.FrameInterval+1)
	skipped := 0

	for frameNum := 0; frameNum < frameCount; frameNum += a.params.FrameInterval {
		sample, ok := a.analyzeFrame(frameNum, topPixels, separation, blurKernel, depthIncrement, pixelToMM)
		if !ok {
			skipped++
			continue
		}
		series = append(series, sample)
	}

	elapsed := time.Since(start)
	a.logger.Info().
		Int("samples", len(series)).
		Int("skipped", skipped).
		Dur("elapsed", elapsed).
		Msg("video analysis finished")

	return &Result{
		Series:            series,
		AnalysisTime:      elapsed,
		TotalUsablePixels: usablePixels,
		PixelToMMRatio:    pixelToMM,
	}, nil
}

// analyzeFrame measures a single frame index. It returns ok=false when
// the frame is unreadable, fails preprocessing, or produces no positive
// per-line thickness; all three are non-fatal skips.
func (a *Analyzer) analyzeFrame(frameNum, topPixels int, separation float64, blurKernel int, depthIncrement, pixelToMM float64) (models.Sample, bool) {
	frame, err := a.source.Read(frameNum)
	if err != nil {
		a.logger.Warn().Int("frame", frameNum).Err(err).Msg("frame read failed, skipping")
		return models.Sample{}, false
	}
	defer frame.Close()

	a.observer.FrameRead(frameNum, frame)

	gray, err := Preprocess(frame, blurKernel)
	if err != nil {
		a.logger.Warn().Int("frame", frameNum).Err(err).Msg("preprocessing failed, skipping")
		return models.Sample{}, false
	}
	defer gray.Close()

	ApplyExclusion(&gray, topPixels)
	a.observer.FramePreprocessed(frameNum, gray)

	profiles, columns, err := SampleProfiles(gray, a.params.NumLines, separation)
	if err != nil {
		a.logger.Warn().Int("frame", frameNum).Err(err).Msg("line sampling failed, skipping")
		return models.Sample{}, false
	}
	a.observer.ProfilesSampled(frameNum, gray, columns, profiles)

	thicknesses := make([]float64, 0, len(profiles))
	for _, profile := range profiles {
		if t := a.detector.Thickness(profile); t > 0 {
			thicknesses = append(thicknesses, t)
		}
	}
	if len(thicknesses) == 0 {
		return models.Sample{}, false
	}

	avgThickness := stat.Mean(thicknesses, nil)
	sample := models.Sample{
		DepthMM:     float64(frameNum) * depthIncrement,
		ThicknessPX: avgThickness,
		ThicknessMM: avgThickness * pixelToMM,
	}

	a.observer.SampleMeasured(frameNum, frame, sample)
	return sample, true
}
