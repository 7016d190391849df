// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/meshbox/pkg/geom"
	"github.com/chazu/meshbox/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 100

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (low, high geom.Vec3) {
	return fromBox3(s.s.BoundingBox())
}

// fromBox3 converts an sdfx box into corner points.
func fromBox3(bb sdf.Box3) (low, high geom.Vec3) {
	return geom.Vec3{bb.Min.X, bb.Min.Y, bb.Min.Z}, geom.Vec3{bb.Max.X, bb.Max.Y, bb.Max.Z}
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// Option configures an SdfxKernel.
type Option func(*SdfxKernel)

// WithMeshCells sets the number of marching cubes cells along the longest
// side of a solid's bounding box.
func WithMeshCells(n int) Option {
	return func(k *SdfxKernel) {
		if n > 0 {
			k.cells = n
		}
	}
}

// New returns a new SdfxKernel.
func New(opts ...Option) *SdfxKernel {
	k := &SdfxKernel{cells: DefaultMeshCells}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// MeshCells returns the tessellation resolution.
func (k *SdfxKernel) MeshCells() int { return k.cells }

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// positive rejects non-positive (or NaN) dimensions before they reach sdfx.
func positive(shape string, dims ...float64) error {
	for _, d := range dims {
		if !(d > 0) {
			return fmt.Errorf("sdfx: %s dimensions must be positive, got %v", shape, dims)
		}
	}
	return nil
}

// Box creates a box with its minimum corner at the origin. sdf.Box3D
// centers the box, so it is shifted by half its size.
func (k *SdfxKernel) Box(x, y, z float64) (kernel.Solid, error) {
	if err := positive("box", x, y, z); err != nil {
		return nil, err
	}
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: box %gx%gx%g: %w", x, y, z, err)
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return wrap(sdf.Transform3D(s, m)), nil
}

// Cylinder creates a cylinder along Z centered at the origin.
func (k *SdfxKernel) Cylinder(height, radius float64) (kernel.Solid, error) {
	if err := positive("cylinder", height, radius); err != nil {
		return nil, err
	}
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: cylinder h=%g r=%g: %w", height, radius, err)
	}
	return wrap(s), nil
}

// Sphere creates a sphere centered at the origin.
func (k *SdfxKernel) Sphere(radius float64) (kernel.Solid, error) {
	if err := positive("sphere", radius); err != nil {
		return nil, err
	}
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx: sphere r=%g: %w", radius, err)
	}
	return wrap(s), nil
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh converts a solid to a triangle soup using marching cubes. Each
// triangle gets its own three vertices; merging shared corners is left to
// the consumer.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(unwrap(s), renderer)
	if len(triangles) == 0 {
		return nil, fmt.Errorf("sdfx: tessellation at %d cells produced no triangles", k.cells)
	}

	vertices := make([]float64, 0, len(triangles)*9)
	indices := make([]uint32, 0, len(triangles)*3)
	for i, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, v.X, v.Y, v.Z)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Indices:  indices,
	}, nil
}
