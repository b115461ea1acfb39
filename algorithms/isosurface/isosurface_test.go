package isosurface

import (
	"math"
	"testing"

	"github.com/voxometry/voxometry/voxel"
)

func totalArea(triangles []Triangle) float64 {
	area := 0.0
	for _, t := range triangles {
		area += t.Area()
	}
	return area
}

func TestTriangulateEmptyAndFullMasks(t *testing.T) {
	e := NewExtractor()

	empty := voxel.NewMask([3]int{4, 4, 4})
	if got := e.Triangulate(empty, voxel.UnitSpacing); len(got) != 0 {
		t.Errorf("empty mask produced %d triangles", len(got))
	}

	full := voxel.NewMask([3]int{4, 4, 4})
	full.Fill(0, 4, 0, 4, 0, 4)
	if got := e.Triangulate(full, voxel.UnitSpacing); len(got) != 0 {
		t.Errorf("full mask has no interior level crossings, produced %d triangles", len(got))
	}
}

func TestTriangulateSingleVoxel(t *testing.T) {
	mask := voxel.NewMask([3]int{3, 3, 3})
	mask.Set(1, 1, 1, true)

	triangles := NewExtractor().Triangulate(mask, voxel.UnitSpacing)
	if len(triangles) == 0 {
		t.Fatal("single voxel produced no surface")
	}
	if area := totalArea(triangles); area <= 0 {
		t.Errorf("surface area = %v, want positive", area)
	}
}

func TestTriangulateAreaScalesWithSpacing(t *testing.T) {
	mask := voxel.NewMask([3]int{5, 5, 5})
	mask.Fill(1, 4, 1, 4, 1, 4)

	e := NewExtractor()
	base := totalArea(e.Triangulate(mask, voxel.UnitSpacing))
	scaled := totalArea(e.Triangulate(mask, voxel.Spacing{2, 2, 2}))

	// Doubling every physical dimension quadruples any surface area.
	if math.Abs(scaled-4*base) > 1e-9*base {
		t.Errorf("area scaling: base=%v scaled=%v, want factor 4", base, scaled)
	}
}

func TestTriangulateAreaGrowsWithMask(t *testing.T) {
	small := voxel.NewMask([3]int{8, 8, 8})
	small.Fill(3, 5, 3, 5, 3, 5)
	large := voxel.NewMask([3]int{8, 8, 8})
	large.Fill(1, 7, 1, 7, 1, 7)

	e := NewExtractor()
	if a, b := totalArea(e.Triangulate(small, voxel.UnitSpacing)), totalArea(e.Triangulate(large, voxel.UnitSpacing)); a >= b {
		t.Errorf("larger block should have larger surface: small=%v large=%v", a, b)
	}
}

func TestTriangleArea(t *testing.T) {
	tri := Triangle{}
	tri.V[1].X = 3
	tri.V[2].Y = 4
	if got := tri.Area(); math.Abs(got-6) > 1e-12 {
		t.Errorf("right-triangle area = %v, want 6", got)
	}
}
