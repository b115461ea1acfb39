// Package spectral provides frequency-domain analysis of sampled curves.
package spectral

import (
	"github.com/mjibson/go-dsp/fft"
)

// FFT provides Fast Fourier Transform functionality backed by
// mjibson/go-dsp, which handles arbitrary (non power-of-2) lengths.
type FFT struct{}

// NewFFT creates a new FFT calculator.
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the forward FFT of a real signal.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.FFTReal(x)
}
