package kernel

import (
	"testing"

	"github.com/chazu/meshbox/pkg/geom"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float64
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float64{1, 2, 3}, 1},
		{"four vertices", []float64{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshAccessors(t *testing.T) {
	m := &Mesh{
		Vertices: []float64{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2, 2, 3, 0},
	}
	if got := m.Vertex(2); got != (geom.Vec3{1, 1, 0}) {
		t.Errorf("Vertex(2) = %v, want [1 1 0]", got)
	}
	if got := m.Triangle(1); got != [3]uint32{2, 3, 0} {
		t.Errorf("Triangle(1) = %v, want [2 3 0]", got)
	}
}

// --- Compile-time interface check with a stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	low, high geom.Vec3
}

func (s *stubSolid) BoundingBox() (low, high geom.Vec3) {
	return s.low, s.high
}

// stubKernel proves the interface is satisfiable with trivial results.
type stubKernel struct{}

func (k *stubKernel) Box(x, y, z float64) (Solid, error) {
	return &stubSolid{high: geom.Vec3{x, y, z}}, nil
}

func (k *stubKernel) Cylinder(height, radius float64) (Solid, error) {
	return &stubSolid{
		low:  geom.Vec3{-radius, -radius, -height / 2},
		high: geom.Vec3{radius, radius, height / 2},
	}, nil
}

func (k *stubKernel) Sphere(radius float64) (Solid, error) {
	return &stubSolid{low: geom.Vec3{-radius, -radius, -radius}, high: geom.Vec3{radius, radius, radius}}, nil
}

func (k *stubKernel) Union(a, _ Solid) Solid        { return a }
func (k *stubKernel) Difference(a, _ Solid) Solid   { return a }
func (k *stubKernel) Intersection(a, _ Solid) Solid { return a }

func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid { return s }
func (k *stubKernel) Rotate(s Solid, _, _, _ float64) Solid    { return s }

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{}, nil
}

var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelBoxBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, err := k.Box(10, 20, 30)
	if err != nil {
		t.Fatalf("Box() error = %v", err)
	}
	low, high := s.BoundingBox()
	if low != (geom.Vec3{0, 0, 0}) {
		t.Errorf("Box low = %v, want [0 0 0]", low)
	}
	if high != (geom.Vec3{10, 20, 30}) {
		t.Errorf("Box high = %v, want [10 20 30]", high)
	}
}
