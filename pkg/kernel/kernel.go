// Package kernel defines the abstract solid-modelling kernel used to produce
// surface meshes. Implementations (sdfx) build solids and tessellate them
// into triangles behind this interface.
package kernel

import "github.com/chazu/meshbox/pkg/geom"

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the kernel's own axis-aligned bound of the solid.
	BoundingBox() (low, high geom.Vec3)
}

// Kernel is the abstract solid-modelling interface.
type Kernel interface {
	// Primitives. Dimensions must be positive.
	Box(x, y, z float64) (Solid, error)
	Cylinder(height, radius float64) (Solid, error)
	Sphere(radius float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Surface output
	ToMesh(s Solid) (*Mesh, error)
}
