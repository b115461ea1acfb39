package roi

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/voxometry/voxometry/imageio"
	"github.com/voxometry/voxometry/logging"
	"github.com/voxometry/voxometry/voxel"
)

// Runner executes a batch configuration: loads each case's images, measures
// every ROI, and writes one result table per case. Failures are isolated at
// the case and ROI level so one bad input never aborts the batch.
type Runner struct {
	cfg    *Config
	logger logging.Logger
}

// NewRunner creates a batch runner. A nil logger falls back to the global
// logger.
func NewRunner(cfg *Config, logger logging.Logger) *Runner {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Runner{
		cfg:    cfg,
		logger: logger.WithFields(logging.Fields{"component": "batch_runner"}),
	}
}

// Run processes every case. It returns an error only when no case succeeds
// or the output directory cannot be created; individual failures are logged
// and skipped.
func (r *Runner) Run() error {
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	succeeded := 0
	for i, cs := range r.cfg.Cases {
		name := cs.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(cs.Image), filepath.Ext(cs.Image))
		}
		logger := r.logger.WithFields(logging.Fields{"case": name})

		if err := r.runCase(cs, name, logger); err != nil {
			logger.Error(err, "case failed", logging.Fields{"index": i})
			continue
		}
		succeeded++
	}

	if succeeded == 0 {
		return fmt.Errorf("all %d cases failed", len(r.cfg.Cases))
	}
	r.logger.Info("batch finished", logging.Fields{
		"cases":     len(r.cfg.Cases),
		"succeeded": succeeded,
	})
	return nil
}

func (r *Runner) runCase(cs CaseConfig, name string, logger logging.Logger) error {
	opts := Options{
		EntropyBins:      r.cfg.EntropyBins,
		MotionThreshold:  r.cfg.MotionThreshold,
		SamplingInterval: cs.SamplingInterval,
		MotionCheck:      cs.MotionCheck,
	}
	analyzer := NewAnalyzer(opts, logger)

	if cs.Temporal {
		return r.runTemporalCase(cs, name, analyzer, logger)
	}
	return r.runStaticCase(cs, name, analyzer, logger)
}

func (r *Runner) runStaticCase(cs CaseConfig, name string, analyzer *Analyzer, logger logging.Logger) error {
	logger.Info("loading main volume", logging.Fields{"path": cs.Image})
	vol, err := loadImage(cs.Image)
	if err != nil {
		return fmt.Errorf("loading main image: %w", err)
	}

	records := make(map[string]*Record)
	for _, roiPath := range cs.ROIs {
		roiName := filepath.Base(roiPath)
		mask, err := r.loadMask(roiPath, vol)
		if err != nil {
			logger.Error(err, "skipping ROI", logging.Fields{"roi": roiName})
			continue
		}
		record, err := analyzer.AnalyzeStatic(vol, mask)
		if err != nil {
			logger.Error(err, "skipping ROI", logging.Fields{"roi": roiName})
			continue
		}
		records[roiName] = record
	}
	if len(records) == 0 {
		return fmt.Errorf("no ROI produced results")
	}

	out := filepath.Join(r.cfg.OutputDir, name+".csv")
	return WriteRecords(out, records)
}

func (r *Runner) runTemporalCase(cs CaseConfig, name string, analyzer *Analyzer, logger logging.Logger) error {
	logger.Info("loading temporal series", logging.Fields{"path": cs.Image})
	series, err := imageio.LoadTemporalSeries(cs.Image)
	if err != nil {
		return fmt.Errorf("loading temporal series: %w", err)
	}

	spatial := series.SpatialDims()
	reference := voxel.NewVolume(spatial, series.Spacing)

	records := make(map[string]*Record)
	curves := make(map[string]Curves)
	for _, roiPath := range cs.ROIs {
		roiName := filepath.Base(roiPath)
		mask, err := r.loadMask(roiPath, reference)
		if err != nil {
			logger.Error(err, "skipping ROI", logging.Fields{"roi": roiName})
			continue
		}
		result, err := analyzer.AnalyzeTemporal(series, mask)
		if err != nil {
			logger.Error(err, "skipping ROI", logging.Fields{"roi": roiName})
			continue
		}
		records[roiName] = FeatureRecord(result.Features)
		curves[roiName] = Curves{Mean: result.MeanCurve, Std: result.StdCurve}
	}
	if len(records) == 0 {
		return fmt.Errorf("no ROI produced results")
	}

	out := filepath.Join(r.cfg.OutputDir, name+".csv")
	if err := WriteRecords(out, records); err != nil {
		return err
	}
	if cs.SaveCurves {
		return WriteCurves(filepath.Join(r.cfg.OutputDir, name+"_timeseries.csv"), curves)
	}
	return nil
}

// loadMask loads an ROI image, regrids it onto the reference geometry, and
// binarizes it with the configured threshold.
func (r *Runner) loadMask(path string, reference *voxel.Volume) (*voxel.Mask, error) {
	roiVol, err := loadImage(path)
	if err != nil {
		return nil, fmt.Errorf("loading ROI: %w", err)
	}
	aligned := imageio.ResampleNearest(roiVol, reference)
	return imageio.MaskFromVolume(aligned, r.cfg.MaskThreshold), nil
}

// loadImage loads either a DICOM series directory or a single DICOM file.
func loadImage(path string) (*voxel.Volume, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return imageio.LoadSeries(path)
	}
	return imageio.LoadVolume(path)
}
