// Package geom defines the fixed-dimension point types shared by the mesh
// store and the bounding box code. The spatial dimension of a computation is
// the array length of the point type it is instantiated with, so mixing
// dimensions within one traversal does not type-check.
package geom

import (
	"strconv"
	"strings"
)

// Vec1 is a point on a line.
type Vec1 [1]float64

// Vec2 is a point in the plane.
type Vec2 [2]float64

// Vec3 is a point in space.
type Vec3 [3]float64

// Point is satisfied by the supported coordinate types.
type Point interface {
	~[1]float64 | ~[2]float64 | ~[3]float64
}

// Dim returns the spatial dimension of P.
func Dim[P Point]() int {
	var p P
	return len(p)
}

// FromSlice copies the first Dim[P]() values of s into a P.
// It reports false if s is too short.
func FromSlice[P Point](s []float64) (P, bool) {
	var p P
	if len(s) < len(p) {
		return p, false
	}
	for d := 0; d < len(p); d++ {
		p[d] = s[d]
	}
	return p, true
}

// Format renders p as "(x, y, z)" using the shortest exact representation
// of each component.
func Format[P Point](p P) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for d := 0; d < len(p); d++ {
		if d > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatFloat(p[d], 'g', -1, 64))
	}
	sb.WriteByte(')')
	return sb.String()
}
