package mesh

import (
	"fmt"

	"github.com/chazu/meshbox/pkg/geom"
)

// CoordinateField is a typed, read-only view of a Mesh's node coordinates.
type CoordinateField[P geom.Point] struct {
	m *Mesh
}

// Coordinates returns the coordinate field of m viewed as points of type P.
// The dimension of P must match the mesh.
func Coordinates[P geom.Point](m *Mesh) (*CoordinateField[P], error) {
	if d := geom.Dim[P](); d != m.dim {
		return nil, fmt.Errorf("mesh: coordinate field of dimension %d requested on a %d-dimensional mesh", d, m.dim)
	}
	return &CoordinateField[P]{m: m}, nil
}

// Data implements Field.
func (f *CoordinateField[P]) Data(node Entity) (P, bool) {
	return geom.FromSlice[P](f.m.coords(node))
}
