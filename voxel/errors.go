package voxel

import "fmt"

// ShapeMismatchError reports a mask whose spatial dimensions disagree with the
// image it is being applied to. It is always fatal to that ROI's computation;
// engines never reshape or truncate to recover.
type ShapeMismatchError struct {
	Want [3]int // spatial dims of the image
	Got  [3]int // dims of the mask
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: image spatial dims %v, mask dims %v", e.Want, e.Got)
}

// InvalidSpacingError reports a voxel spacing with a non-positive component.
type InvalidSpacingError struct {
	Spacing Spacing
	Axis    int
}

func (e *InvalidSpacingError) Error() string {
	return fmt.Sprintf("invalid spacing %v: component %d is not positive", e.Spacing, e.Axis)
}
