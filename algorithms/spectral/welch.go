package spectral

import (
	"math/cmplx"

	"gonum.org/v1/gonum/stat"

	"github.com/voxometry/voxometry/algorithms/windowing"
)

// DefaultSegmentLength is the default Welch segment length; signals shorter
// than this are analyzed as a single segment.
const DefaultSegmentLength = 256

// Welch estimates a one-sided power spectral density by averaging
// periodograms of overlapping, Hann-windowed, mean-removed segments.
//
// Reference: Welch, P.D. (1967). "The use of fast Fourier transform for the
// estimation of power spectra: A method based on time averaging over short,
// modified periodograms".
//
// The estimate is density-scaled (power per Hz): each periodogram is
// normalized by fs times the window's squared sum, and interior bins of the
// one-sided spectrum are doubled to conserve total power.
type Welch struct {
	segmentLength int
	overlap       float64
	fft           *FFT
}

// NewWelch creates a Welch estimator with the default segment length and 50%
// overlap.
func NewWelch() *Welch {
	return &Welch{
		segmentLength: DefaultSegmentLength,
		overlap:       0.5,
		fft:           NewFFT(),
	}
}

// NewWelchWithSegmentLength creates a Welch estimator with a custom segment
// length and 50% overlap.
func NewWelchWithSegmentLength(segmentLength int) *Welch {
	return &Welch{
		segmentLength: segmentLength,
		overlap:       0.5,
		fft:           NewFFT(),
	}
}

// PSD estimates the power spectral density of signal sampled at fs Hz.
// It returns the frequency axis (k*fs/nperseg for k = 0..nperseg/2) and the
// averaged one-sided density. A signal shorter than 2 samples yields empty
// slices.
func (w *Welch) PSD(signal []float64, fs float64) (freqs, psd []float64) {
	n := len(signal)
	if n < 2 || fs <= 0 {
		return []float64{}, []float64{}
	}

	nperseg := w.segmentLength
	if nperseg > n {
		nperseg = n
	}
	step := nperseg - int(float64(nperseg)*w.overlap)
	if step < 1 {
		step = 1
	}

	window := windowing.NewHann(nperseg, false)
	scale := 1.0 / (fs * window.SumSquares())

	nbins := nperseg/2 + 1
	psd = make([]float64, nbins)
	segments := 0

	segment := make([]float64, nperseg)
	for start := 0; start+nperseg <= n; start += step {
		copy(segment, signal[start:start+nperseg])

		// Constant detrend: remove the segment mean before windowing.
		mean := stat.Mean(segment, nil)
		for i := range segment {
			segment[i] -= mean
		}
		window.ApplyInPlace(segment)

		spectrum := w.fft.Compute(segment)
		for k := 0; k < nbins; k++ {
			mag := cmplx.Abs(spectrum[k])
			power := mag * mag * scale
			// One-sided: double everything except DC and (for even
			// lengths) the Nyquist bin.
			if k > 0 && !(nperseg%2 == 0 && k == nbins-1) {
				power *= 2
			}
			psd[k] += power
		}
		segments++
	}

	for k := range psd {
		psd[k] /= float64(segments)
	}

	freqs = make([]float64, nbins)
	for k := range freqs {
		freqs[k] = float64(k) * fs / float64(nperseg)
	}
	return freqs, psd
}
