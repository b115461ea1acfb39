package temporal

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/voxometry/voxometry/algorithms/spectral"
)

// Feature names produced by Features. The frequency-domain keys appear only
// when a sampling interval is configured and the curve is long enough;
// callers must not assume their presence.
const (
	FeatTemporalMean  = "temporal_mean"
	FeatTemporalStd   = "temporal_std"
	FeatTemporalSNR   = "temporal_snr"
	FeatMaxChange     = "max_change"
	FeatPeakValue     = "peak_value"
	FeatTimeToPeak    = "time_to_peak"
	FeatMeanRate      = "mean_rate"
	FeatMaxRate       = "max_rate"
	FeatMinRate       = "min_rate"
	FeatPeakFrequency = "peak_frequency"
	FeatPower001Hz    = "power_0_01Hz"
	FeatPower01Hz     = "power_0_1Hz"
)

// minSpectralLength is the shortest curve worth a spectral estimate.
const minSpectralLength = 5

// Features derives named scalar features from a time curve. The result is a
// fresh map per call; the analyzer holds configuration only, never state.
type Features struct {
	interval float64 // sampling interval (repetition time) in seconds; 0 = not supplied
	welch    *spectral.Welch
}

// NewFeatures creates a feature analyzer without frequency analysis.
func NewFeatures() *Features {
	return &Features{welch: spectral.NewWelch()}
}

// NewFeaturesWithInterval creates a feature analyzer that additionally
// estimates frequency-domain features at sampling frequency 1/interval.
// A non-positive interval disables frequency analysis.
func NewFeaturesWithInterval(interval float64) *Features {
	return &Features{interval: interval, welch: spectral.NewWelch()}
}

// ComputeMatrix reduces a time-by-voxel matrix to its across-voxel mean
// curve and computes features from it.
func (f *Features) ComputeMatrix(ts [][]float64) map[string]float64 {
	return f.Compute(meanAcrossVoxels(ts))
}

// Compute derives the feature map from a single curve (one value per time
// point).
func (f *Features) Compute(curve []float64) map[string]float64 {
	features := make(map[string]float64)
	if len(curve) == 0 {
		nan := math.NaN()
		features[FeatTemporalMean] = nan
		features[FeatTemporalStd] = nan
		features[FeatTemporalSNR] = 0
		features[FeatMaxChange] = nan
		features[FeatPeakValue] = nan
		features[FeatTimeToPeak] = nan
		return features
	}

	mean := stat.Mean(curve, nil)
	std := populationStd(curve, mean)
	max := floats.Max(curve)
	min := floats.Min(curve)

	features[FeatTemporalMean] = mean
	features[FeatTemporalStd] = std
	// Explicit zero on a flat curve, never NaN or Inf.
	if std > 0 {
		features[FeatTemporalSNR] = mean / std
	} else {
		features[FeatTemporalSNR] = 0
	}
	features[FeatMaxChange] = max - min
	features[FeatPeakValue] = max
	features[FeatTimeToPeak] = float64(argmax(curve))

	if len(curve) > 1 {
		diff := firstDifference(curve)
		features[FeatMeanRate] = stat.Mean(diff, nil)
		features[FeatMaxRate] = floats.Max(diff)
		features[FeatMinRate] = floats.Min(diff)

		if f.interval > 0 && len(curve) >= minSpectralLength {
			fs := 1.0 / f.interval
			freqs, psd := f.welch.PSD(curve, fs)
			features[FeatPeakFrequency] = freqs[argmax(psd)]
			features[FeatPower001Hz] = bandPower(freqs, psd, 0.01)
			features[FeatPower01Hz] = bandPower(freqs, psd, 0.1)
		}
	}

	return features
}

// bandPower sums the power of all bins strictly below limit Hz; 0 when no
// bin qualifies.
func bandPower(freqs, psd []float64, limit float64) float64 {
	sum := 0.0
	for i, f := range freqs {
		if f < limit {
			sum += psd[i]
		}
	}
	return sum
}

// argmax returns the index of the maximum, first occurrence on ties.
func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

func firstDifference(curve []float64) []float64 {
	diff := make([]float64, len(curve)-1)
	for i := range diff {
		diff[i] = curve[i+1] - curve[i]
	}
	return diff
}

func populationStd(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	m2 := 0.0
	for _, v := range values {
		d := v - mean
		m2 += d * d
	}
	return math.Sqrt(m2 / float64(len(values)))
}
