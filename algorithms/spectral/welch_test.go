package spectral

import (
	"math"
	"testing"
)

func TestPSDShape(t *testing.T) {
	signal := make([]float64, 100)
	for i := range signal {
		signal[i] = float64(i % 7)
	}

	freqs, psd := NewWelch().PSD(signal, 1.0)
	if len(freqs) != 51 || len(psd) != 51 {
		t.Fatalf("one-sided spectrum of 100 samples should have 51 bins, got %d/%d", len(freqs), len(psd))
	}
	if freqs[0] != 0 {
		t.Errorf("first bin should be DC, got %v", freqs[0])
	}
	if math.Abs(freqs[50]-0.5) > 1e-12 {
		t.Errorf("last bin should be Nyquist 0.5, got %v", freqs[50])
	}
	for i, p := range psd {
		if p < 0 {
			t.Fatalf("psd[%d] = %v, power cannot be negative", i, p)
		}
	}
}

func TestPSDFindsSinusoid(t *testing.T) {
	fs := 4.0
	f0 := 0.5
	signal := make([]float64, 400)
	for i := range signal {
		signal[i] = 2.5 + math.Sin(2*math.Pi*f0*float64(i)/fs)
	}

	freqs, psd := NewWelch().PSD(signal, fs)

	best := 0
	for i, p := range psd {
		if p > psd[best] {
			best = i
		}
	}
	if math.Abs(freqs[best]-f0) > 0.05 {
		t.Errorf("peak at %v Hz, want ~%v", freqs[best], f0)
	}
}

func TestPSDTotalPowerApproximatesVariance(t *testing.T) {
	// A unit sine has variance 0.5; the density integral should land near
	// it (windowing and segment averaging make this approximate).
	fs := 1.0
	signal := make([]float64, 256)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * 0.1 * float64(i))
	}

	freqs, psd := NewWelch().PSD(signal, fs)
	df := freqs[1] - freqs[0]
	total := 0.0
	for _, p := range psd {
		total += p * df
	}
	if total < 0.25 || total > 0.75 {
		t.Errorf("integrated density = %v, want near 0.5", total)
	}
}

func TestPSDDegenerateInputs(t *testing.T) {
	if freqs, psd := NewWelch().PSD([]float64{1}, 1.0); len(freqs) != 0 || len(psd) != 0 {
		t.Error("single-sample signal should yield empty spectrum")
	}
	if freqs, psd := NewWelch().PSD([]float64{1, 2, 3}, 0); len(freqs) != 0 || len(psd) != 0 {
		t.Error("non-positive sampling frequency should yield empty spectrum")
	}
}

func TestPSDShortSegmentLength(t *testing.T) {
	signal := make([]float64, 64)
	for i := range signal {
		signal[i] = math.Cos(2 * math.Pi * 0.25 * float64(i))
	}

	freqs, psd := NewWelchWithSegmentLength(32).PSD(signal, 1.0)
	if len(freqs) != 17 {
		t.Fatalf("32-sample segments should give 17 bins, got %d", len(freqs))
	}
	best := 0
	for i, p := range psd {
		if p > psd[best] {
			best = i
		}
	}
	if math.Abs(freqs[best]-0.25) > 0.05 {
		t.Errorf("peak at %v Hz, want ~0.25", freqs[best])
	}
}
