package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"slicethickness/pkg/analysis"
	"slicethickness/pkg/config"
	"slicethickness/pkg/export"
	"slicethickness/pkg/video"
	"slicethickness/pkg/visualization"
)

func main() {
	// Parse command line arguments
	videoPath := flag.String("video", "", "Video file to analyze")
	outputDir := flag.String("output", ".", "Directory for the results CSV and run log")
	configPath := flag.String("config", "", "Optional YAML configuration file")
	maxDepthCM := flag.Float64("max-depth-cm", 10.0, "Maximum depth covered by the video in cm")
	frameInterval := flag.Int("interval", 1, "Analyze every nth frame")
	desiredMM := flag.Float64("desired-interval-mm", 10.0, "Desired measurement interval in mm (reporting only)")
	numLines := flag.Int("lines", 1, "Number of vertical lines to measure per frame")
	threshold := flag.Float64("threshold", 0.5, "Half-max threshold fraction in (0, 1]")
	separation := flag.Float64("separation", 0.1, "Line separation as a fraction of frame width")
	exclusionPX := flag.Float64("exclusion-px", -1, "Exclusion zone depth in pixels from the frame top (negative disables)")
	peakPolicy := flag.String("peak-policy", "last", "Which qualifying peak wins: last, first or widest")
	visualize := flag.Bool("visualize", false, "Display frames and overlays while analyzing")
	saveFrames := flag.Bool("save-frames", false, "Save annotated frames next to the results")
	flag.Parse()

	logger := newLogger()

	if *videoPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	// Start from the config file (or defaults), then let explicitly set
	// flags override individual fields.
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	applyFlagOverrides(cfg, *maxDepthCM, *frameInterval, *desiredMM, *numLines,
		*threshold, *separation, *exclusionPX, *peakPolicy, *visualize, *saveFrames)

	policy, err := parsePeakPolicy(cfg.Analysis.PeakPolicy)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid peak policy")
	}

	fmt.Println("================================")
	fmt.Println("SLICE THICKNESS VS. DEPTH MEASUREMENT")
	fmt.Println("================================")

	source, err := video.Open(*videoPath)
	if err != nil {
		logger.Fatal().Err(err).Str("video", *videoPath).Msg("failed to open video")
	}
	defer source.Close()

	logger.Info().
		Int("frames", source.FrameCount()).
		Float64("fps", source.FPS()).
		Int("width", source.FrameWidth()).
		Int("height", source.FrameHeight()).
		Msg("video opened")

	maxDepthMM := cfg.Analysis.MaxDepthCM * 10

	saveDir := ""
	if cfg.Output.SaveAnnotatedFrames {
		saveDir = filepath.Join(*outputDir, "annotated_frames")
	}
	visualizer := visualization.NewVisualizer(cfg.Output.Visualizations, saveDir, maxDepthMM)

	// Preview the exclusion band on the first frame before committing to it.
	if cfg.Exclusion.Enabled && cfg.Output.Visualizations {
		if frame, err := source.Read(0); err == nil {
			visualizer.ExclusionPreview(frame, cfg.Exclusion.DepthPX)
			frame.Close()
		}
	}

	analyzer := analysis.NewAnalyzer(source, &analysis.Params{
		FrameInterval:    cfg.Analysis.FrameInterval,
		MaxDepthMM:       maxDepthMM,
		NumLines:         cfg.Analysis.NumLines,
		Threshold:        cfg.Analysis.Threshold,
		LineSeparation:   cfg.Analysis.LineSeparation,
		UseExclusionZone: cfg.Exclusion.Enabled,
		ExclusionZonePX:  cfg.Exclusion.DepthPX,
		Policy:           policy,
		BlurKernel:       cfg.Analysis.BlurKernel,
		Observer:         visualizer,
		Logger:           &logger,
	})

	result, err := analyzer.Analyze()
	if err != nil {
		// Fatal analysis errors abort before any output file exists.
		logger.Fatal().Err(err).Msg("video analysis failed")
	}

	// Write results only after a fully successful run.
	timestamp := time.Now().Format("20060102_150405")
	csvPath := filepath.Join(*outputDir, fmt.Sprintf("results_%s.csv", timestamp))
	if err := export.WriteSeriesCSV(csvPath, result.Series); err != nil {
		logger.Fatal().Err(err).Msg("failed to write results CSV")
	}
	fmt.Printf("Results saved to %s\n", csvPath)

	logPath := filepath.Join(*outputDir, fmt.Sprintf("results_%s_log.txt", timestamp))
	err = export.WriteRunLog(logPath, export.RunLog{
		MaxDepthMM:           maxDepthMM,
		FrameInterval:        cfg.Analysis.FrameInterval,
		DesiredIntervalMM:    cfg.Analysis.DesiredIntervalMM,
		UseMultipleLines:     cfg.Analysis.NumLines > 1,
		NumLines:             cfg.Analysis.NumLines,
		UseExclusionZone:     cfg.Exclusion.Enabled,
		ExclusionZonePX:      cfg.Exclusion.DepthPX,
		EnableVisualizations: cfg.Output.Visualizations,
		AnalysisTime:         result.AnalysisTime,
		TotalUsablePixels:    result.TotalUsablePixels,
		PixelToMMRatio:       result.PixelToMMRatio,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to write run log")
	}
	fmt.Printf("Log file saved as %s\n", logPath)

	fmt.Printf("\nAnalysis completed in %.2f seconds\n", result.AnalysisTime.Seconds())
	fmt.Printf("Samples: %d\n", len(result.Series))
	fmt.Printf("Usable vertical pixels: %d\n", result.TotalUsablePixels)
	fmt.Printf("Pixel to MM ratio: %.6f\n", result.PixelToMMRatio)
}

// newLogger builds the console logger used by the binary.
func newLogger() zerolog.Logger {
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}

// applyFlagOverrides copies explicitly set flags over the loaded config.
func applyFlagOverrides(cfg *config.Config, maxDepthCM float64, frameInterval int,
	desiredMM float64, numLines int, threshold, separation, exclusionPX float64,
	peakPolicy string, visualize, saveFrames bool) {

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["max-depth-cm"] {
		cfg.Analysis.MaxDepthCM = maxDepthCM
	}
	if set["interval"] {
		cfg.Analysis.FrameInterval = frameInterval
	}
	if set["desired-interval-mm"] {
		cfg.Analysis.DesiredIntervalMM = desiredMM
	}
	if set["lines"] {
		cfg.Analysis.NumLines = numLines
	}
	if set["threshold"] {
		cfg.Analysis.Threshold = threshold
	}
	if set["separation"] {
		cfg.Analysis.LineSeparation = separation
	}
	if set["exclusion-px"] {
		cfg.Exclusion.Enabled = exclusionPX >= 0
		cfg.Exclusion.DepthPX = exclusionPX
	}
	if set["peak-policy"] {
		cfg.Analysis.PeakPolicy = peakPolicy
	}
	if set["visualize"] {
		cfg.Output.Visualizations = visualize
	}
	if set["save-frames"] {
		cfg.Output.SaveAnnotatedFrames = saveFrames
	}
}

// parsePeakPolicy maps the config string onto a detector policy.
func parsePeakPolicy(name string) (analysis.PeakPolicy, error) {
	switch name {
	case "", "last":
		return analysis.LastPeak, nil
	case "first":
		return analysis.FirstPeak, nil
	case "widest":
		return analysis.WidestPeak, nil
	default:
		return analysis.LastPeak, fmt.Errorf("unknown peak policy %q (want last, first or widest)", name)
	}
}
