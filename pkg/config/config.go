// Package config provides configuration loading and management for
// slicethickness. It handles loading configuration from YAML files and
// provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Analysis parameters for the measurement pipeline
	Analysis struct {
		// MaxDepthCM is the physical depth covered by the video in centimeters
		MaxDepthCM float64 `yaml:"maxDepthCM"`

		// FrameInterval is the stride between analyzed frame indices
		FrameInterval int `yaml:"frameInterval"`

		// DesiredIntervalMM is the reporting interval for the companion metrics
		DesiredIntervalMM float64 `yaml:"desiredIntervalMM"`

		// NumLines is the number of vertical lines sampled per frame
		NumLines int `yaml:"numLines"`

		// Threshold is the half-max fraction used by the thickness detector
		Threshold float64 `yaml:"threshold"`

		// LineSeparation is the column spacing as a fraction of frame width
		LineSeparation float64 `yaml:"lineSeparation"`

		// BlurKernel is the Gaussian kernel side length (odd)
		BlurKernel int `yaml:"blurKernel"`

		// PeakPolicy selects the reported crossing: last, first or widest
		PeakPolicy string `yaml:"peakPolicy"`
	} `yaml:"analysis"`

	// Exclusion parameters for the near-field dead zone
	Exclusion struct {
		// Enabled turns the exclusion zone on
		Enabled bool `yaml:"enabled"`

		// DepthPX is the excluded band height in pixels from the frame top
		DepthPX float64 `yaml:"depthPX"`
	} `yaml:"exclusion"`

	// Output parameters
	Output struct {
		// Visualizations enables on-screen frame and overlay display
		Visualizations bool `yaml:"visualizations"`

		// SaveAnnotatedFrames saves overlay JPEGs next to the results
		SaveAnnotatedFrames bool `yaml:"saveAnnotatedFrames"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`

	// Metrics parameters for the companion tool
	Metrics struct {
		// SmoothingWindow is the Savitzky-Golay window length (odd)
		SmoothingWindow int `yaml:"smoothingWindow"`

		// SmoothingOrder is the Savitzky-Golay polynomial order
		SmoothingOrder int `yaml:"smoothingOrder"`

		// BinWidthMM is the width of the depth bins for binned means
		BinWidthMM float64 `yaml:"binWidthMM"`
	} `yaml:"metrics"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default analysis parameters
	cfg.Analysis.MaxDepthCM = 10.0
	cfg.Analysis.FrameInterval = 1
	cfg.Analysis.DesiredIntervalMM = 10.0
	cfg.Analysis.NumLines = 1
	cfg.Analysis.Threshold = 0.5
	cfg.Analysis.LineSeparation = 0.1
	cfg.Analysis.BlurKernel = 3
	cfg.Analysis.PeakPolicy = "last"

	// Exclusion zone off by default
	cfg.Exclusion.Enabled = false
	cfg.Exclusion.DepthPX = 0

	// Set default output parameters
	cfg.Output.Visualizations = false
	cfg.Output.SaveAnnotatedFrames = false
	cfg.Output.Verbose = true

	// Set default metrics parameters
	cfg.Metrics.SmoothingWindow = 51
	cfg.Metrics.SmoothingOrder = 3
	cfg.Metrics.BinWidthMM = 100.0

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
