package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/rs/zerolog"

	"slicethickness/internal/models"
	"slicethickness/pkg/export"
	"slicethickness/pkg/metrics"
)

func main() {
	// Parse command line arguments
	csvPath := flag.String("csv", "", "Exported results CSV to analyze")
	intervalMM := flag.Float64("interval-mm", 10.0, "Report thickness at every multiple of this depth in mm")
	window := flag.Int("window", 51, "Savitzky-Golay smoothing window (odd)")
	order := flag.Int("order", 3, "Savitzky-Golay polynomial order")
	binWidthMM := flag.Float64("bin-mm", 100.0, "Depth bin width for binned means in mm")
	smoothedOut := flag.String("smoothed-out", "", "Optional path for a CSV of the smoothed series")
	flag.Parse()

	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	logger := zerolog.New(writer).Level(zerolog.InfoLevel).With().Timestamp().Logger()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	series, err := export.LoadSeriesCSV(*csvPath)
	if err != nil {
		logger.Fatal().Err(err).Str("csv", *csvPath).Msg("failed to load series")
	}
	if len(series) == 0 {
		logger.Fatal().Str("csv", *csvPath).Msg("series is empty")
	}

	logger.Info().
		Int("samples", len(series)).
		Float64("max_depth_mm", series.MaxDepth()).
		Msg("series loaded")

	comparison := metrics.Compare(series, *intervalMM)
	fmt.Println("Probe Comparison Matrix:")
	fmt.Print(comparison)

	fmt.Printf("\nSlice Thickness by %.0fmm Depth Bins:\n", *binWidthMM)
	for _, bin := range metrics.BinnedMeans(series, *binWidthMM) {
		if math.IsNaN(bin.MeanThicknessMM) {
			fmt.Printf("  %.0f mm: no samples\n", bin.CenterMM)
			continue
		}
		fmt.Printf("  %.0f mm: %.2f mm (%d samples)\n", bin.CenterMM, bin.MeanThicknessMM, bin.Count)
	}

	// A bad smoothing window is fatal to the smoothing step only; the
	// integral metrics above have already been reported.
	smoothed, err := metrics.SavitzkyGolay(series.ThicknessesMM(), *window, *order)
	if err != nil {
		logger.Warn().Err(err).Msg("skipping smoothing")
		return
	}

	if *smoothedOut != "" {
		out := make(models.Series, len(series))
		copy(out, series)
		for i := range out {
			out[i].ThicknessMM = smoothed[i]
			// The exported file stores depth in cm.
			out[i].DepthMM = out[i].DepthMM / 10
		}
		if err := export.WriteSeriesCSV(*smoothedOut, out); err != nil {
			logger.Fatal().Err(err).Msg("failed to write smoothed series")
		}
		fmt.Printf("\nSmoothed series saved to %s\n", *smoothedOut)
	}
}
