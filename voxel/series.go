package voxel

import "fmt"

// Series is a 4D scalar field: three spatial axes plus one temporal axis.
// Data is stored flat in row-major order over RawDims; the temporal axis may
// sit at any position and is reordered logically through indexing, never by
// copying. The three spatial axes keep their relative order, matching a
// move-axis-to-front view of the raw array.
type Series struct {
	RawDims      [4]int
	TemporalAxis int
	Spacing      Spacing
	Data         []float64

	strides [4]int
}

// NewSeries wraps an existing flat slice as a 4D series. temporalAxis may be
// 0..3, or -1 as shorthand for the last axis.
func NewSeries(rawDims [4]int, temporalAxis int, spacing Spacing, data []float64) (*Series, error) {
	if temporalAxis == -1 {
		temporalAxis = 3
	}
	if temporalAxis < 0 || temporalAxis > 3 {
		return nil, fmt.Errorf("temporal axis %d out of range [0,3]", temporalAxis)
	}
	want := rawDims[0] * rawDims[1] * rawDims[2] * rawDims[3]
	if len(data) != want {
		return nil, fmt.Errorf("series data length %d does not match dims %v (want %d)", len(data), rawDims, want)
	}
	s := &Series{
		RawDims:      rawDims,
		TemporalAxis: temporalAxis,
		Spacing:      spacing,
		Data:         data,
	}
	stride := 1
	for d := 3; d >= 0; d-- {
		s.strides[d] = stride
		stride *= rawDims[d]
	}
	return s, nil
}

// TimePoints returns the extent of the temporal axis.
func (s *Series) TimePoints() int {
	return s.RawDims[s.TemporalAxis]
}

// SpatialDims returns the extents of the three spatial axes in their raw
// relative order.
func (s *Series) SpatialDims() [3]int {
	var dims [3]int
	i := 0
	for d := 0; d < 4; d++ {
		if d != s.TemporalAxis {
			dims[i] = s.RawDims[d]
			i++
		}
	}
	return dims
}

// At returns the intensity at time point t and spatial index (i, j, k), where
// (i, j, k) index the spatial axes in their raw relative order.
func (s *Series) At(t, i, j, k int) float64 {
	var spatial [3]int
	spatial[0], spatial[1], spatial[2] = i, j, k
	idx := t * s.strides[s.TemporalAxis]
	n := 0
	for d := 0; d < 4; d++ {
		if d != s.TemporalAxis {
			idx += spatial[n] * s.strides[d]
			n++
		}
	}
	return s.Data[idx]
}
