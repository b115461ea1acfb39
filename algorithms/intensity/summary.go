package intensity

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the basic descriptive statistics of an intensity sample.
// An empty sample yields NaN in every field: absence of data is a documented
// sentinel, not a failure.
type Summary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
}

// Distribution holds shape statistics of an intensity sample. Skew and
// Kurtosis use the population (biased) moment convention; Kurtosis is excess
// (normal distribution = 0). Percentiles interpolate linearly between order
// statistics. An empty sample yields NaN in every field. A zero-variance
// sample yields NaN skew and kurtosis (0/0 in the moment ratios).
type Distribution struct {
	Skew     float64 `json:"skew"`
	Kurtosis float64 `json:"kurtosis"`
	P25      float64 `json:"p25"`
	P75      float64 `json:"p75"`
}

// ComputeSummary computes min, max, mean, median and population standard
// deviation of a sample.
func ComputeSummary(sample []float64) Summary {
	if len(sample) == 0 {
		nan := math.NaN()
		return Summary{Min: nan, Max: nan, Mean: nan, Median: nan, Std: nan}
	}

	mean := stat.Mean(sample, nil)

	// Population variance: second central moment, divide by N.
	m2 := 0.0
	for _, v := range sample {
		d := v - mean
		m2 += d * d
	}
	m2 /= float64(len(sample))

	sorted := sortedCopy(sample)

	return Summary{
		Min:    floats.Min(sample),
		Max:    floats.Max(sample),
		Mean:   mean,
		Median: median(sorted),
		Std:    math.Sqrt(m2),
	}
}

// ComputeDistribution computes skewness, excess kurtosis and the 25th/75th
// percentiles of a sample.
func ComputeDistribution(sample []float64) Distribution {
	if len(sample) == 0 {
		nan := math.NaN()
		return Distribution{Skew: nan, Kurtosis: nan, P25: nan, P75: nan}
	}

	mean := stat.Mean(sample, nil)
	var m2, m3, m4 float64
	for _, v := range sample {
		d := v - mean
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	n := float64(len(sample))
	m2 /= n
	m3 /= n
	m4 /= n

	sorted := sortedCopy(sample)

	return Distribution{
		Skew:     m3 / math.Pow(m2, 1.5),
		Kurtosis: m4/(m2*m2) - 3.0,
		P25:      Percentile(sorted, 25),
		P75:      Percentile(sorted, 75),
	}
}

// Percentile computes the p-th percentile (0..100) of an ascending-sorted
// sample with linear interpolation between the two closest order statistics.
// Returns NaN on an empty sample.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p / 100.0
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return 0.5 * (sorted[n/2-1] + sorted[n/2])
}

func sortedCopy(sample []float64) []float64 {
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)
	return sorted
}
