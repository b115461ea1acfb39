package voxel

import "fmt"

// Mask is a 3D boolean grid marking the voxels that belong to a region of
// interest. Data is stored flat in row-major order with axis 0 slowest
// (z, y, x).
type Mask struct {
	Dims [3]int
	Data []bool
}

// NewMask allocates an all-false mask with the given dimensions.
func NewMask(dims [3]int) *Mask {
	return &Mask{
		Dims: dims,
		Data: make([]bool, dims[0]*dims[1]*dims[2]),
	}
}

// MaskFromData wraps an existing flat boolean slice as a mask, validating
// that its length matches the dimensions.
func MaskFromData(dims [3]int, data []bool) (*Mask, error) {
	want := dims[0] * dims[1] * dims[2]
	if len(data) != want {
		return nil, fmt.Errorf("mask data length %d does not match dims %v (want %d)", len(data), dims, want)
	}
	return &Mask{Dims: dims, Data: data}, nil
}

// At reports whether the voxel at (z, y, x) is included.
func (m *Mask) At(z, y, x int) bool {
	return m.Data[(z*m.Dims[1]+y)*m.Dims[2]+x]
}

// Set marks the voxel at (z, y, x).
func (m *Mask) Set(z, y, x int, v bool) {
	m.Data[(z*m.Dims[1]+y)*m.Dims[2]+x] = v
}

// Fill marks the axis-aligned block z in [z0,z1), y in [y0,y1), x in [x0,x1).
func (m *Mask) Fill(z0, z1, y0, y1, x0, x1 int) {
	for z := z0; z < z1; z++ {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				m.Set(z, y, x, true)
			}
		}
	}
}

// TrueCount returns the number of included voxels.
func (m *Mask) TrueCount() int {
	n := 0
	for _, v := range m.Data {
		if v {
			n++
		}
	}
	return n
}

// Coords returns the (z, y, x) indices of every included voxel, in row-major
// order.
func (m *Mask) Coords() [][3]int {
	coords := make([][3]int, 0, m.TrueCount())
	i := 0
	for z := 0; z < m.Dims[0]; z++ {
		for y := 0; y < m.Dims[1]; y++ {
			for x := 0; x < m.Dims[2]; x++ {
				if m.Data[i] {
					coords = append(coords, [3]int{z, y, x})
				}
				i++
			}
		}
	}
	return coords
}

// SameShape reports whether two masks have identical dimensions.
func (m *Mask) SameShape(other *Mask) bool {
	return m.Dims == other.Dims
}
