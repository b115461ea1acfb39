// Package isosurface extracts a triangle mesh of the 0.5-level surface of a
// binary mask, treating the mask as a 0/1 scalar field sampled at voxel
// centers in physical space.
//
// Each grid cell between eight neighboring samples is decomposed into six
// tetrahedra sharing the cell's main diagonal, and each tetrahedron crossed
// by the level is triangulated from its edge crossings (the marching
// tetrahedra scheme). For a binary field every crossing sits at the midpoint
// of its edge.
package isosurface

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxometry/voxometry/voxel"
)

// Triangle is a single face of an extracted surface, with vertices in
// physical coordinates (millimeters).
type Triangle struct {
	V [3]r3.Vec
}

// Area returns the triangle's area as half the magnitude of the cross
// product of two edge vectors.
func (t Triangle) Area() float64 {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	return 0.5 * r3.Norm(r3.Cross(e1, e2))
}

// Extractor triangulates the level surface of a binary mask.
type Extractor struct {
	level float64
}

// NewExtractor creates an extractor at the 0.5 level, the midpoint between
// excluded (0) and included (1) voxels.
func NewExtractor() *Extractor {
	return &Extractor{level: 0.5}
}

// Cube corner i sits at offset (x, y, z) = (i&1, i>>1&1, i>>2&1) from the
// cell origin. The six tetrahedra all share the 0-6 diagonal.
var cornerOffsets = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
}

var tetrahedra = [6][4]int{
	{0, 5, 1, 6},
	{0, 1, 3, 6},
	{0, 3, 2, 6},
	{0, 2, 6, 4},
	{0, 4, 6, 5},
	{0, 6, 3, 7},
}

// Triangulate extracts the level surface of the mask scaled by physical
// spacing. An empty or full mask yields no triangles.
func (e *Extractor) Triangulate(mask *voxel.Mask, spacing voxel.Spacing) []Triangle {
	nz, ny, nx := mask.Dims[0], mask.Dims[1], mask.Dims[2]
	var triangles []Triangle

	var pos [8]r3.Vec
	var val [8]float64

	for z := 0; z < nz-1; z++ {
		for y := 0; y < ny-1; y++ {
			for x := 0; x < nx-1; x++ {
				occupied := 0
				for c, off := range cornerOffsets {
					cx, cy, cz := x+off[0], y+off[1], z+off[2]
					if mask.At(cz, cy, cx) {
						val[c] = 1.0
						occupied++
					} else {
						val[c] = 0.0
					}
					pos[c] = r3.Vec{
						X: float64(cx) * spacing[2],
						Y: float64(cy) * spacing[1],
						Z: float64(cz) * spacing[0],
					}
				}
				if occupied == 0 || occupied == 8 {
					continue
				}
				for _, tet := range tetrahedra {
					triangles = e.marchTetrahedron(triangles, &pos, &val, tet)
				}
			}
		}
	}
	return triangles
}

// marchTetrahedron appends the 0, 1 or 2 triangles produced by one
// tetrahedron and returns the extended slice.
func (e *Extractor) marchTetrahedron(out []Triangle, pos *[8]r3.Vec, val *[8]float64, tet [4]int) []Triangle {
	var inside, outside []int
	for _, c := range tet {
		if val[c] > e.level {
			inside = append(inside, c)
		} else {
			outside = append(outside, c)
		}
	}

	cross := func(a, b int) r3.Vec {
		t := (e.level - val[a]) / (val[b] - val[a])
		return r3.Add(pos[a], r3.Scale(t, r3.Sub(pos[b], pos[a])))
	}

	switch len(inside) {
	case 1:
		a := inside[0]
		return append(out, Triangle{V: [3]r3.Vec{
			cross(a, outside[0]), cross(a, outside[1]), cross(a, outside[2]),
		}})
	case 3:
		d := outside[0]
		return append(out, Triangle{V: [3]r3.Vec{
			cross(d, inside[0]), cross(d, inside[1]), cross(d, inside[2]),
		}})
	case 2:
		a, b := inside[0], inside[1]
		c, d := outside[0], outside[1]
		p1 := cross(a, c)
		p2 := cross(a, d)
		p3 := cross(b, d)
		p4 := cross(b, c)
		out = append(out, Triangle{V: [3]r3.Vec{p1, p2, p3}})
		return append(out, Triangle{V: [3]r3.Vec{p1, p3, p4}})
	default:
		return out
	}
}
