package roi

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/voxometry/voxometry/algorithms/intensity"
	"github.com/voxometry/voxometry/algorithms/temporal"
)

// CaseConfig describes one case in a batch: a main image and the ROIs to
// measure against it.
type CaseConfig struct {
	// Name labels the case's output files; defaults to the image basename.
	Name string `yaml:"name"`

	// Image is the path to the main image (DICOM series directory, single
	// DICOM file, or a directory of per-time-point series when Temporal).
	Image string `yaml:"image"`

	// ROIs are paths to the ROI images.
	ROIs []string `yaml:"rois"`

	// Temporal selects time-series analysis instead of static statistics.
	Temporal bool `yaml:"temporal"`

	// SamplingInterval is the repetition time in seconds; 0 disables
	// frequency analysis.
	SamplingInterval float64 `yaml:"samplingInterval"`

	// MotionCheck enables motion-artifact flagging for temporal cases.
	MotionCheck bool `yaml:"motionCheck"`

	// SaveCurves writes the mean/std curves to a sibling table.
	SaveCurves bool `yaml:"saveCurves"`
}

// Config is the batch configuration surface.
type Config struct {
	// OutputDir receives one result table per case.
	OutputDir string `yaml:"outputDir"`

	// EntropyBins overrides the histogram resolution for entropy.
	EntropyBins int `yaml:"entropyBins"`

	// MotionThreshold overrides the motion z-score threshold.
	MotionThreshold float64 `yaml:"motionThreshold"`

	// MaskThreshold binarizes ROI volumes; voxels above it are included.
	MaskThreshold float64 `yaml:"maskThreshold"`

	Cases []CaseConfig `yaml:"cases"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:       "results",
		EntropyBins:     intensity.DefaultEntropyBins,
		MotionThreshold: temporal.DefaultMotionThreshold,
		MaskThreshold:   0,
	}
}

// LoadConfig loads a batch configuration from a YAML file, overlaying it on
// the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the structural requirements of the configuration.
func (c *Config) Validate() error {
	if len(c.Cases) == 0 {
		return fmt.Errorf("config has no cases")
	}
	for i, cs := range c.Cases {
		if cs.Image == "" {
			return fmt.Errorf("case %d: image path is required", i)
		}
		if len(cs.ROIs) == 0 {
			return fmt.Errorf("case %d: at least one ROI is required", i)
		}
		if cs.SamplingInterval < 0 {
			return fmt.Errorf("case %d: samplingInterval must not be negative", i)
		}
	}
	if c.EntropyBins < 2 {
		return fmt.Errorf("entropyBins must be at least 2, got %d", c.EntropyBins)
	}
	return nil
}
