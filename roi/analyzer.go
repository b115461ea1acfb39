// Package roi orchestrates the measurement engines over regions of interest:
// it dispatches static and temporal analyses, isolates per-ROI failures, and
// persists result tables. All I/O and logging live here; the engines stay
// pure.
package roi

import (
	"sort"

	"github.com/voxometry/voxometry/algorithms/geometry"
	"github.com/voxometry/voxometry/algorithms/intensity"
	"github.com/voxometry/voxometry/algorithms/temporal"
	"github.com/voxometry/voxometry/logging"
	"github.com/voxometry/voxometry/voxel"
)

// Options configures one analyzer. Zero values select the documented
// defaults (64 entropy bins, motion threshold 2.0, surface area on, no
// frequency analysis, no motion check).
type Options struct {
	EntropyBins      int
	MotionThreshold  float64
	SamplingInterval float64 // seconds; 0 means not supplied
	MotionCheck      bool
	SkipSurfaceArea  bool
}

// DefaultOptions returns the default analyzer configuration.
func DefaultOptions() Options {
	return Options{
		EntropyBins:     intensity.DefaultEntropyBins,
		MotionThreshold: temporal.DefaultMotionThreshold,
	}
}

// TemporalResult is the outcome of a temporal analysis for one ROI: the
// feature map plus the summary curves, and the flagged motion frames when
// the motion check ran.
type TemporalResult struct {
	Features     map[string]float64
	MeanCurve    []float64
	StdCurve     []float64
	MotionFrames []int
}

// Analyzer wires the engines together for one case's ROIs.
type Analyzer struct {
	opts     Options
	logger   logging.Logger
	geom     *geometry.Engine
	entropy  *intensity.Entropy
	features *temporal.Features
	motion   *temporal.MotionDetector
}

// NewAnalyzer creates an analyzer. A nil logger falls back to the global
// logger; pass a NoOpLogger to silence diagnostics.
func NewAnalyzer(opts Options, logger logging.Logger) *Analyzer {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	if opts.EntropyBins == 0 {
		opts.EntropyBins = intensity.DefaultEntropyBins
	}
	if opts.MotionThreshold == 0 {
		opts.MotionThreshold = temporal.DefaultMotionThreshold
	}
	geom := geometry.NewEngine()
	if opts.SkipSurfaceArea {
		geom = geometry.NewEngineWithTriangulator(nil)
	}
	return &Analyzer{
		opts:     opts,
		logger:   logger.WithFields(logging.Fields{"component": "roi_analyzer"}),
		geom:     geom,
		entropy:  intensity.NewEntropyWithBins(opts.EntropyBins),
		features: temporal.NewFeaturesWithInterval(opts.SamplingInterval),
		motion:   temporal.NewMotionDetectorWithThreshold(opts.MotionThreshold),
	}
}

// AnalyzeStatic measures one ROI of a 3D volume: intensity statistics,
// entropy, and mask geometry. The surface-area column is omitted when the
// capability is unavailable; callers treat its absence as normal.
func (a *Analyzer) AnalyzeStatic(vol *voxel.Volume, mask *voxel.Mask) (*Record, error) {
	sample, err := vol.ValuesIn(mask)
	if err != nil {
		return nil, err
	}

	summary := intensity.ComputeSummary(sample)
	dist := intensity.ComputeDistribution(sample)

	record := NewRecord()
	record.Set("min", summary.Min)
	record.Set("max", summary.Max)
	record.Set("mean", summary.Mean)
	record.Set("median", summary.Median)
	record.Set("std", summary.Std)
	record.Set("skew", dist.Skew)
	record.Set("kurtosis", dist.Kurtosis)
	record.Set("p25", dist.P25)
	record.Set("p75", dist.P75)
	record.Set("entropy", a.entropy.Compute(sample))

	volume, err := a.geom.Volume(mask, vol.Spacing)
	if err != nil {
		return nil, err
	}
	record.Set("volume_mm3", volume)

	area, err := a.geom.SurfaceArea(mask, vol.Spacing)
	if err != nil {
		return nil, err
	}
	if area.Computed {
		record.Set("surface_area_mm2", area.Value)
	} else {
		a.logger.Debug("surface area not computed, capability unavailable")
	}

	return record, nil
}

// AnalyzeTemporal extracts the ROI's time series from a 4D series and
// derives temporal features, summary curves, and (when configured) motion
// frames.
func (a *Analyzer) AnalyzeTemporal(series *voxel.Series, mask *voxel.Mask) (*TemporalResult, error) {
	bundle, err := temporal.Extract(series, mask)
	if err != nil {
		return nil, err
	}

	result := &TemporalResult{
		Features:  a.features.ComputeMatrix(bundle.Timeseries),
		MeanCurve: bundle.MeanCurve,
		StdCurve:  bundle.StdCurve,
	}

	if a.opts.MotionCheck {
		result.MotionFrames = a.motion.Detect(bundle.Timeseries)
		if len(result.MotionFrames) > 0 {
			a.logger.Warn("potential motion detected", logging.Fields{
				"frames": result.MotionFrames,
			})
		}
	}

	return result, nil
}

// CompareMasks measures the agreement between two ROI masks on the same
// grid: Dice overlap and the physical Hausdorff distance. The +Inf Hausdorff
// sentinel for an empty mask passes through to the record.
func (a *Analyzer) CompareMasks(m1, m2 *voxel.Mask, spacing voxel.Spacing) (*Record, error) {
	dice, err := a.geom.Dice(m1, m2)
	if err != nil {
		return nil, err
	}
	hausdorff, err := a.geom.Hausdorff(m1, m2, spacing)
	if err != nil {
		return nil, err
	}

	record := NewRecord()
	record.Set("dice", dice)
	record.Set("hausdorff_mm", hausdorff)
	return record, nil
}

// FeatureRecord flattens a temporal feature map into an ordered record with
// deterministic (sorted) column order.
func FeatureRecord(features map[string]float64) *Record {
	names := make([]string, 0, len(features))
	for name := range features {
		names = append(names, name)
	}
	sort.Strings(names)

	record := NewRecord()
	for _, name := range names {
		record.Set(name, features[name])
	}
	return record
}
