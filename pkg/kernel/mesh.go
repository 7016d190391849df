package kernel

import "github.com/chazu/meshbox/pkg/geom"

// Mesh is a triangle surface mesh. Vertices holds 3 floats per vertex and
// Indices 3 vertex indices per triangle.
type Mesh struct {
	Vertices []float64
	Indices  []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Vertex returns vertex i.
func (m *Mesh) Vertex(i uint32) geom.Vec3 {
	return geom.Vec3{m.Vertices[3*i], m.Vertices[3*i+1], m.Vertices[3*i+2]}
}

// Triangle returns the vertex indices of triangle t.
func (m *Mesh) Triangle(t int) [3]uint32 {
	return [3]uint32{m.Indices[3*t], m.Indices[3*t+1], m.Indices[3*t+2]}
}
