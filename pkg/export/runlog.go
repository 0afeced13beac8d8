package export

import (
	"fmt"
	"os"
	"time"
)

// RunLog holds everything the plain-text run log records about one
// analysis: the input parameters, the derived calibration and the
// wall-clock analysis duration.
type RunLog struct {
	MaxDepthMM           float64
	FrameInterval        int
	DesiredIntervalMM    float64
	UseMultipleLines     bool
	NumLines             int
	UseExclusionZone     bool
	ExclusionZonePX      float64
	EnableVisualizations bool
	AnalysisTime         time.Duration
	TotalUsablePixels    int
	PixelToMMRatio       float64
}

// WriteRunLog writes the run log to path. Field layout mirrors the
// historical log files so existing tooling keeps parsing them.
func WriteRunLog(path string, log RunLog) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create log file: %v", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "Maximum Depth: %g cm (%g mm)\n", log.MaxDepthMM/10, log.MaxDepthMM)
	fmt.Fprintf(file, "Frame Interval: %d\n", log.FrameInterval)
	fmt.Fprintf(file, "Desired Interval: %g mm\n", log.DesiredIntervalMM)
	fmt.Fprintf(file, "Use Multiple Lines: %t\n", log.UseMultipleLines)
	fmt.Fprintf(file, "Number of Lines: %d\n", log.NumLines)
	fmt.Fprintf(file, "Use Exclusion Zone: %t\n", log.UseExclusionZone)
	if log.UseExclusionZone {
		fmt.Fprintf(file, "Exclusion Zone Depth: %g px\n", log.ExclusionZonePX)
	}
	fmt.Fprintf(file, "Enable Visualizations: %t\n", log.EnableVisualizations)
	fmt.Fprintf(file, "Time to Analyze Video and Calculate Thicknesses: %.2f seconds\n",
		log.AnalysisTime.Seconds())
	fmt.Fprintf(file, "\n")
	fmt.Fprintf(file, "Number of Vertical Pixels = %d\n", log.TotalUsablePixels)
	fmt.Fprintf(file, "Max Depth (mm) = %g\n", log.MaxDepthMM)
	fmt.Fprintf(file, "Pixel to MM Ratio = %.6f\n", log.PixelToMMRatio)

	return nil
}
