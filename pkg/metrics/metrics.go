// Package metrics computes summary resolution metrics over an exported
// depth/thickness series: smoothing, interval lookups, binned aggregates,
// the resolution integral and the quantities derived from it. All
// functions are pure; the input series is never modified.
package metrics

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"slicethickness/internal/models"
)

// NearestAt returns the series sample whose depth is closest to the
// target depth in absolute difference, and its index. An empty series
// returns index -1.
func NearestAt(series models.Series, depthMM float64) (models.Sample, int) {
	if len(series) == 0 {
		return models.Sample{}, -1
	}

	best := 0
	bestDiff := math.Abs(series[0].DepthMM - depthMM)
	for i, s := range series[1:] {
		if diff := math.Abs(s.DepthMM - depthMM); diff < bestDiff {
			best = i + 1
			bestDiff = diff
		}
	}
	return series[best], best
}

// IntervalSample pairs a requested report depth with the nearest actual
// measurement.
type IntervalSample struct {
	TargetDepthMM float64
	Sample        models.Sample
}

// ThicknessAtIntervals reports the nearest measured thickness at every
// multiple of stepMM from stepMM up to the series' maximum depth.
func ThicknessAtIntervals(series models.Series, stepMM float64) []IntervalSample {
	if len(series) == 0 || stepMM <= 0 {
		return nil
	}

	var out []IntervalSample
	for target := stepMM; target <= series.MaxDepth(); target += stepMM {
		sample, _ := NearestAt(series, target)
		out = append(out, IntervalSample{TargetDepthMM: target, Sample: sample})
	}
	return out
}

// Bin is the mean thickness over one fixed-width depth bin.
type Bin struct {
	// CenterMM is the midpoint of the bin's depth range.
	CenterMM float64

	// MeanThicknessMM is the mean calibrated thickness of the samples
	// in the bin. NaN when the bin is empty.
	MeanThicknessMM float64

	// Count is the number of samples in the bin.
	Count int
}

// BinnedMeans aggregates the series into depth bins of binWidthMM
// starting at the series' minimum depth. Bins with no samples report a
// NaN mean so gaps stay visible.
func BinnedMeans(series models.Series, binWidthMM float64) []Bin {
	if len(series) == 0 || binWidthMM <= 0 {
		return nil
	}

	minDepth := series[0].DepthMM
	for _, s := range series {
		if s.DepthMM < minDepth {
			minDepth = s.DepthMM
		}
	}

	var bins []Bin
	for lo := minDepth; lo < series.MaxDepth()+binWidthMM; lo += binWidthMM {
		hi := lo + binWidthMM
		var values []float64
		for _, s := range series {
			if s.DepthMM >= lo && s.DepthMM < hi {
				values = append(values, s.ThicknessMM)
			}
		}

		bin := Bin{CenterMM: lo + binWidthMM/2, Count: len(values)}
		if len(values) > 0 {
			bin.MeanThicknessMM = stat.Mean(values, nil)
		} else {
			bin.MeanThicknessMM = math.NaN()
		}
		bins = append(bins, bin)
	}
	return bins
}

// ResolutionIntegral is the trapezoidal integral of reciprocal thickness
// over depth. A series with fewer than two samples has no integrable
// extent and yields 0.
func ResolutionIntegral(series models.Series) float64 {
	if len(series) < 2 {
		return 0
	}

	depths := series.Depths()
	reciprocal := make([]float64, len(series))
	for i, s := range series {
		reciprocal[i] = 1 / s.ThicknessMM
	}
	return integrate.Trapezoidal(depths, reciprocal)
}

// CharacteristicResolution is the thickness at the series' maximum depth,
// the "width" of the rectangle the resolution integral is modeled as.
func CharacteristicResolution(series models.Series) float64 {
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1].ThicknessMM
}

// DepthOfField treats the resolution integral as a rectangle of area R
// and width equal to the characteristic resolution, and returns the
// rectangle's height R / width.
func DepthOfField(series models.Series) float64 {
	width := CharacteristicResolution(series)
	if width == 0 {
		return 0
	}
	return ResolutionIntegral(series) / width
}

// ProbeComparison is the summary matrix the companion tool reports for
// one probe's exported series.
type ProbeComparison struct {
	ResolutionIntegral       float64
	DepthOfField             float64
	CharacteristicResolution float64
	IntervalThicknesses      []IntervalSample
	MaxThicknessMM           float64
	MinThicknessMM           float64
}

// Compare computes the full probe comparison matrix, reporting interval
// thicknesses every intervalMM millimeters.
func Compare(series models.Series, intervalMM float64) ProbeComparison {
	pc := ProbeComparison{
		ResolutionIntegral:       ResolutionIntegral(series),
		DepthOfField:             DepthOfField(series),
		CharacteristicResolution: CharacteristicResolution(series),
		IntervalThicknesses:      ThicknessAtIntervals(series, intervalMM),
	}

	for i, s := range series {
		if i == 0 || s.ThicknessMM > pc.MaxThicknessMM {
			pc.MaxThicknessMM = s.ThicknessMM
		}
		if i == 0 || s.ThicknessMM < pc.MinThicknessMM {
			pc.MinThicknessMM = s.ThicknessMM
		}
	}
	return pc
}

// String renders the comparison matrix as the plain-text report printed
// by the companion tool.
func (pc ProbeComparison) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Resolution Integral (R): %.2f\n", pc.ResolutionIntegral)
	fmt.Fprintf(&b, "Depth of Field (LR): %.2f mm\n", pc.DepthOfField)
	fmt.Fprintf(&b, "Characteristic Resolution (DR): %.2f mm\n", pc.CharacteristicResolution)
	for _, iv := range pc.IntervalThicknesses {
		fmt.Fprintf(&b, "Slice Thickness at ~%.0f mm: %.2f\n", iv.TargetDepthMM, iv.Sample.ThicknessMM)
	}
	fmt.Fprintf(&b, "Maximum Slice Thickness: %.2f\n", pc.MaxThicknessMM)
	fmt.Fprintf(&b, "Minimum Slice Thickness: %.2f\n", pc.MinThicknessMM)
	return b.String()
}
