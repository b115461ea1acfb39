// Package geometry computes physical measures from binary masks: volume,
// surface area, and the Dice and Hausdorff similarity measures between
// masks. All operations are stateless and side-effect free.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxometry/voxometry/algorithms/isosurface"
	"github.com/voxometry/voxometry/voxel"
)

// Triangulator produces a triangle mesh of the 0.5-level surface of a binary
// mask in physical space. It is the optional capability behind SurfaceArea.
type Triangulator interface {
	Triangulate(mask *voxel.Mask, spacing voxel.Spacing) []isosurface.Triangle
}

// SurfaceArea is the result variant for the optional surface-area measure:
// either a computed value or an explicit absence that callers must treat as
// normal, never as an error.
type SurfaceArea struct {
	Value    float64
	Computed bool
}

// Engine computes mask geometry measures. The zero threshold between masks
// is fixed; the only configuration is the surface triangulator, which may be
// absent.
type Engine struct {
	tri Triangulator
}

// NewEngine creates a geometry engine with the default isosurface
// triangulator.
func NewEngine() *Engine {
	return &Engine{tri: isosurface.NewExtractor()}
}

// NewEngineWithTriangulator creates a geometry engine with a custom
// triangulator. Passing nil leaves the surface-area capability unavailable;
// SurfaceArea then reports Computed == false.
func NewEngineWithTriangulator(tri Triangulator) *Engine {
	return &Engine{tri: tri}
}

// Volume returns the physical volume of the mask in mm^3: true-voxel count
// times the volume of one voxel. An empty mask yields 0.
func (e *Engine) Volume(mask *voxel.Mask, spacing voxel.Spacing) (float64, error) {
	if err := spacing.Validate(); err != nil {
		return 0, err
	}
	return float64(mask.TrueCount()) * spacing.CellVolume(), nil
}

// SurfaceArea returns the area of the mask's 0.5-isosurface in mm^2, summing
// the area of every mesh triangle. Without a triangulator the result is the
// Unavailable variant.
func (e *Engine) SurfaceArea(mask *voxel.Mask, spacing voxel.Spacing) (SurfaceArea, error) {
	if err := spacing.Validate(); err != nil {
		return SurfaceArea{}, err
	}
	if e.tri == nil {
		return SurfaceArea{}, nil
	}
	area := 0.0
	for _, t := range e.tri.Triangulate(mask, spacing) {
		area += t.Area()
	}
	return SurfaceArea{Value: area, Computed: true}, nil
}

// Dice returns the Dice similarity coefficient 2|A∩B| / (|A|+|B|) of two
// same-shape masks. Two empty masks yield 0, keeping the measure total and
// comparable across batches.
func (e *Engine) Dice(a, b *voxel.Mask) (float64, error) {
	if !a.SameShape(b) {
		return 0, &voxel.ShapeMismatchError{Want: a.Dims, Got: b.Dims}
	}
	intersect := 0
	sizeA := 0
	sizeB := 0
	for i := range a.Data {
		if a.Data[i] {
			sizeA++
		}
		if b.Data[i] {
			sizeB++
		}
		if a.Data[i] && b.Data[i] {
			intersect++
		}
	}
	denom := sizeA + sizeB
	if denom == 0 {
		return 0.0, nil
	}
	return 2.0 * float64(intersect) / float64(denom), nil
}

// Hausdorff returns the symmetric Hausdorff distance between two same-shape
// masks in physical space: the larger of the two directed distances. If
// either mask is empty the result is +Inf, the sentinel for "no overlap
// possible".
func (e *Engine) Hausdorff(a, b *voxel.Mask, spacing voxel.Spacing) (float64, error) {
	if !a.SameShape(b) {
		return 0, &voxel.ShapeMismatchError{Want: a.Dims, Got: b.Dims}
	}
	if err := spacing.Validate(); err != nil {
		return 0, err
	}

	pointsA := physicalPoints(a, spacing)
	pointsB := physicalPoints(b, spacing)
	if len(pointsA) == 0 || len(pointsB) == 0 {
		return math.Inf(1), nil
	}

	return math.Max(directedHausdorff(pointsA, pointsB), directedHausdorff(pointsB, pointsA)), nil
}

// directedHausdorff returns max over points in from of the distance to the
// nearest point in to.
func directedHausdorff(from, to []r3.Vec) float64 {
	worst := 0.0
	for _, p := range from {
		nearest := math.Inf(1)
		for _, q := range to {
			if d := r3.Norm(r3.Sub(p, q)); d < nearest {
				nearest = d
				if nearest == 0 {
					break
				}
			}
		}
		if nearest > worst {
			worst = nearest
		}
	}
	return worst
}

func physicalPoints(mask *voxel.Mask, spacing voxel.Spacing) []r3.Vec {
	coords := mask.Coords()
	points := make([]r3.Vec, len(coords))
	for i, c := range coords {
		points[i] = r3.Vec{
			X: float64(c[2]) * spacing[2],
			Y: float64(c[1]) * spacing[1],
			Z: float64(c[0]) * spacing[0],
		}
	}
	return points
}
