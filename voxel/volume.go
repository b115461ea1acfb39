package voxel

import "fmt"

// Volume is a 3D scalar field with physical voxel spacing. Data is stored
// flat in row-major order with axis 0 slowest (z, y, x).
type Volume struct {
	Dims    [3]int
	Spacing Spacing
	Data    []float64
}

// NewVolume allocates a zero-valued volume.
func NewVolume(dims [3]int, spacing Spacing) *Volume {
	return &Volume{
		Dims:    dims,
		Spacing: spacing,
		Data:    make([]float64, dims[0]*dims[1]*dims[2]),
	}
}

// VolumeFromData wraps an existing flat slice as a volume, validating length.
func VolumeFromData(dims [3]int, spacing Spacing, data []float64) (*Volume, error) {
	want := dims[0] * dims[1] * dims[2]
	if len(data) != want {
		return nil, fmt.Errorf("volume data length %d does not match dims %v (want %d)", len(data), dims, want)
	}
	return &Volume{Dims: dims, Spacing: spacing, Data: data}, nil
}

// At returns the intensity at (z, y, x).
func (v *Volume) At(z, y, x int) float64 {
	return v.Data[(z*v.Dims[1]+y)*v.Dims[2]+x]
}

// Set stores an intensity at (z, y, x).
func (v *Volume) Set(z, y, x int, value float64) {
	v.Data[(z*v.Dims[1]+y)*v.Dims[2]+x] = value
}

// ValuesIn gathers the intensities of every voxel included in the mask, in
// row-major order. The mask must match the volume's dimensions exactly.
func (v *Volume) ValuesIn(mask *Mask) ([]float64, error) {
	if mask.Dims != v.Dims {
		return nil, &ShapeMismatchError{Want: v.Dims, Got: mask.Dims}
	}
	sample := make([]float64, 0, mask.TrueCount())
	for i, in := range mask.Data {
		if in {
			sample = append(sample, v.Data[i])
		}
	}
	return sample, nil
}
