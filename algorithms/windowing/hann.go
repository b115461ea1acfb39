// Package windowing provides taper windows for spectral estimation.
package windowing

import (
	"fmt"
	"math"
)

// Hann is a Hann (raised cosine) window. The periodic variant is the one
// used for averaged spectral estimates; the symmetric variant is for filter
// design.
type Hann struct {
	size         int
	symmetric    bool
	coefficients []float64
}

// NewHann creates a Hann window of the given size. Pass symmetric=false for
// spectral work.
func NewHann(size int, symmetric bool) *Hann {
	h := &Hann{
		size:      size,
		symmetric: symmetric,
	}
	h.generate()
	return h
}

func (h *Hann) generate() {
	h.coefficients = make([]float64, h.size)

	denominator := float64(h.size)
	if h.symmetric {
		denominator = float64(h.size - 1)
	}

	for i := 0; i < h.size; i++ {
		h.coefficients[i] = 0.5 * (1.0 - math.Cos(2*math.Pi*float64(i)/denominator))
	}
}

// Apply multiplies the signal by the window into a new slice. Returns nil if
// the lengths differ.
func (h *Hann) Apply(signal []float64) []float64 {
	if len(signal) != h.size {
		return nil
	}

	windowed := make([]float64, h.size)
	for i := 0; i < h.size; i++ {
		windowed[i] = signal[i] * h.coefficients[i]
	}

	return windowed
}

// ApplyInPlace multiplies the signal by the window in place.
func (h *Hann) ApplyInPlace(signal []float64) error {
	if len(signal) != h.size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), h.size)
	}

	for i := 0; i < h.size; i++ {
		signal[i] *= h.coefficients[i]
	}

	return nil
}

// Coefficients returns a copy of the window coefficients.
func (h *Hann) Coefficients() []float64 {
	coeffs := make([]float64, len(h.coefficients))
	copy(coeffs, h.coefficients)
	return coeffs
}

// SumSquares returns the sum of squared coefficients, the normalization term
// for density-scaled power spectra.
func (h *Hann) SumSquares() float64 {
	sum := 0.0
	for _, c := range h.coefficients {
		sum += c * c
	}
	return sum
}

// Size returns the window size.
func (h *Hann) Size() int {
	return h.size
}
