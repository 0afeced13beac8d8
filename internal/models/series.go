package models

// Sample is a single thickness measurement taken at one analyzed frame.
type Sample struct {
	// DepthMM is the physical depth of the measurement in millimeters,
	// derived linearly from the frame index.
	DepthMM float64

	// ThicknessPX is the averaged half-max peak width in pixels.
	ThicknessPX float64

	// ThicknessMM is ThicknessPX converted to millimeters using the
	// run's pixel-to-mm calibration ratio.
	ThicknessMM float64
}

// Series is the depth-ordered sequence of thickness measurements produced
// by one analysis run. Frames that yielded no valid measurement have no
// entry, so the series may be shorter than the number of sampled frames.
// Every entry has ThicknessPX > 0.
type Series []Sample

// Depths returns the depth column in millimeters.
func (s Series) Depths() []float64 {
	out := make([]float64, len(s))
	for i, sm := range s {
		out[i] = sm.DepthMM
	}
	return out
}

// ThicknessesMM returns the calibrated thickness column in millimeters.
func (s Series) ThicknessesMM() []float64 {
	out := make([]float64, len(s))
	for i, sm := range s {
		out[i] = sm.ThicknessMM
	}
	return out
}

// MaxDepth returns the largest depth in the series, or 0 for an empty series.
// Samples are appended in frame order, so this is the depth of the last entry.
func (s Series) MaxDepth() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].DepthMM
}
