package voxel

// Spacing is the physical size of one voxel along each array axis, in
// millimeters, in the same order as the array axes (z, y, x for volumes
// stacked slice-first). All components must be positive.
type Spacing [3]float64

// UnitSpacing is 1 mm isotropic spacing.
var UnitSpacing = Spacing{1, 1, 1}

// Validate returns an InvalidSpacingError if any component is not positive.
func (s Spacing) Validate() error {
	for i, v := range s {
		if v <= 0 {
			return &InvalidSpacingError{Spacing: s, Axis: i}
		}
	}
	return nil
}

// CellVolume returns the physical volume of a single voxel in mm^3.
func (s Spacing) CellVolume() float64 {
	return s[0] * s[1] * s[2]
}
