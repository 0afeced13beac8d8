package analysis

// PeakPolicy selects which completed half-max crossing of a profile is
// reported when more than one peak qualifies.
type PeakPolicy int

const (
	// LastPeak reports the width of the last completed crossing. This is
	// the historical behavior of the tool and the default; existing
	// calibration data was produced with it.
	LastPeak PeakPolicy = iota

	// FirstPeak reports the width of the first completed crossing.
	FirstPeak

	// WidestPeak reports the width of the widest completed crossing.
	WidestPeak
)

// DefaultThreshold is the half-max threshold fraction applied when a
// Detector is constructed with a zero threshold.
const DefaultThreshold = 0.5

// Detector computes a scalar thickness from one vertical intensity
// profile by measuring the width of the region where intensity stays at
// or above a fraction of the profile's maximum.
type Detector struct {
	// Threshold is the fraction of the profile maximum that bounds the
	// peak region, in (0, 1]. Zero means DefaultThreshold.
	Threshold float64

	// Policy picks the reported crossing when several peaks qualify.
	Policy PeakPolicy
}

// Thickness scans the profile in index order tracking entry into and exit
// from the region where intensity >= threshold * max(profile). Each
// completed entry/exit pair is one candidate peak; the configured policy
// decides which candidate wins. A profile that never rises to the
// threshold, or rises without dropping back below it, yields 0.
//
// The returned width is in pixels and always >= 0. Callers discard
// non-positive results as "no measurement" rather than recording zeros.
func (d Detector) Thickness(profile []float64) float64 {
	if len(profile) == 0 {
		return 0
	}

	threshold := d.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}

	maxIntensity := profile[0]
	for _, v := range profile[1:] {
		if v > maxIntensity {
			maxIntensity = v
		}
	}
	halfMax := maxIntensity * threshold

	var thickness float64
	inPeak := false
	start := 0
	for i, v := range profile {
		switch {
		case v >= halfMax && !inPeak:
			start = i
			inPeak = true
		case v < halfMax && inPeak:
			width := float64(i - start)
			inPeak = false

			switch d.Policy {
			case FirstPeak:
				if thickness == 0 {
					thickness = width
				}
			case WidestPeak:
				if width > thickness {
					thickness = width
				}
			default:
				thickness = width
			}
		}
	}

	return thickness
}
