package intensity

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultEntropyBins is the default histogram resolution for entropy. It is
// a configurable default, not an algorithm-intrinsic constant.
const DefaultEntropyBins = 64

// Entropy computes the Shannon entropy of an intensity sample from a
// fixed-bin histogram over the sample's range.
//
// Each occupied bin contributes -p*log2(p) where p is the bin's probability
// mass; zero-probability bins are discarded. The result is therefore
// non-negative for any non-empty sample, and exactly 0 for a constant-valued
// sample. An empty sample yields NaN.
type Entropy struct {
	bins int
}

// NewEntropy creates an entropy analyzer with the default bin count.
func NewEntropy() *Entropy {
	return &Entropy{bins: DefaultEntropyBins}
}

// NewEntropyWithBins creates an entropy analyzer with a custom bin count.
// Callers must supply at least 2 bins for a meaningful result; the count is
// a documented precondition and is not validated here.
func NewEntropyWithBins(bins int) *Entropy {
	return &Entropy{bins: bins}
}

// Compute returns the histogram entropy of the sample in bits.
func (e *Entropy) Compute(sample []float64) float64 {
	n := len(sample)
	if n == 0 {
		return math.NaN()
	}

	lo := floats.Min(sample)
	hi := floats.Max(sample)
	if hi == lo {
		// Single occupied bin, p = 1.
		return 0.0
	}

	width := (hi - lo) / float64(e.bins)
	counts := make([]int, e.bins)
	for _, v := range sample {
		idx := int((v - lo) / width)
		if idx >= e.bins {
			// The maximum lands in the closed upper edge of the last bin.
			idx = e.bins - 1
		}
		counts[idx]++
	}

	entropy := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(n)
		entropy -= p * math.Log2(p)
	}
	return entropy
}
