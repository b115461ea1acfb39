// Package temporal extracts per-voxel time series from 4D data and derives
// temporal, frequency and motion features from them. Every operation is a
// pure function of its inputs.
package temporal

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/voxometry/voxometry/voxel"
)

// Bundle is the time-series view of one ROI: the raw per-voxel traces plus
// the curves that summarize them across voxels. It is created fresh per ROI
// and owned by the caller.
type Bundle struct {
	// Timeseries is the raw trace matrix, time points by included voxels.
	// Voxels appear in row-major spatial order; the order only indexes
	// voxels and is irrelevant to every downstream aggregate.
	Timeseries [][]float64

	// MeanCurve is the across-voxel mean at each time point.
	MeanCurve []float64

	// StdCurve is the across-voxel population standard deviation at each
	// time point.
	StdCurve []float64
}

// Extract selects the masked voxels of a 4D series and reduces them to a
// Bundle. The mask must match the series' spatial dimensions exactly. An
// empty mask is valid and yields NaN mean/std curves.
func Extract(series *voxel.Series, mask *voxel.Mask) (*Bundle, error) {
	spatial := series.SpatialDims()
	if mask.Dims != spatial {
		return nil, &voxel.ShapeMismatchError{Want: spatial, Got: mask.Dims}
	}

	coords := mask.Coords()
	nVoxels := len(coords)
	nTime := series.TimePoints()

	ts := make([][]float64, nTime)
	for t := 0; t < nTime; t++ {
		row := make([]float64, nVoxels)
		for n, c := range coords {
			row[n] = series.At(t, c[0], c[1], c[2])
		}
		ts[t] = row
	}

	meanCurve := make([]float64, nTime)
	stdCurve := make([]float64, nTime)
	for t, row := range ts {
		if nVoxels == 0 {
			meanCurve[t] = math.NaN()
			stdCurve[t] = math.NaN()
			continue
		}
		mean := stat.Mean(row, nil)
		m2 := 0.0
		for _, v := range row {
			d := v - mean
			m2 += d * d
		}
		meanCurve[t] = mean
		stdCurve[t] = math.Sqrt(m2 / float64(nVoxels))
	}

	return &Bundle{
		Timeseries: ts,
		MeanCurve:  meanCurve,
		StdCurve:   stdCurve,
	}, nil
}

// meanAcrossVoxels reduces a time-by-voxel matrix to its across-voxel mean
// curve.
func meanAcrossVoxels(ts [][]float64) []float64 {
	curve := make([]float64, len(ts))
	for t, row := range ts {
		if len(row) == 0 {
			curve[t] = math.NaN()
			continue
		}
		curve[t] = stat.Mean(row, nil)
	}
	return curve
}
