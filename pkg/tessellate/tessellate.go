// Package tessellate turns kernel triangle meshes into finite-element
// surface meshes: every triangle becomes a three-node element and vertices
// that coincide exactly become one shared node.
package tessellate

import (
	"fmt"

	"github.com/chazu/meshbox/pkg/geom"
	"github.com/chazu/meshbox/pkg/kernel"
	"github.com/chazu/meshbox/pkg/mesh"
)

// Options controls id assignment.
type Options struct {
	FirstNodeID    uint64 // id of the first new node
	FirstElementID uint64 // id of the first new element
}

// DefaultOptions starts both id sequences at 1.
func DefaultOptions() Options {
	return Options{FirstNodeID: 1, FirstElementID: 1}
}

// Stats reports what Append added.
type Stats struct {
	Nodes    int
	Elements int
	// NextNodeID and NextElementID continue the id sequences.
	NextNodeID    uint64
	NextElementID uint64
}

// Surface builds a new 3D mesh owned by rank from a triangle mesh.
func Surface(km *kernel.Mesh, rank uint32, opts Options) (*mesh.Mesh, error) {
	m, err := mesh.New(3, rank)
	if err != nil {
		return nil, err
	}
	if _, err := Append(m, km, opts); err != nil {
		return nil, err
	}
	return m, nil
}

// Append adds the triangles of km to dst as three-node elements. dst must be
// three-dimensional. Degenerate triangles are kept; their boxes are still
// well defined.
func Append(dst *mesh.Mesh, km *kernel.Mesh, opts Options) (Stats, error) {
	stats := Stats{NextNodeID: opts.FirstNodeID, NextElementID: opts.FirstElementID}
	if dst.Dim() != 3 {
		return stats, fmt.Errorf("tessellate: surface meshes are 3D, target mesh is %dD", dst.Dim())
	}
	if len(km.Vertices)%3 != 0 || len(km.Indices)%3 != 0 {
		return stats, fmt.Errorf("tessellate: malformed kernel mesh: %d vertex floats, %d indices",
			len(km.Vertices), len(km.Indices))
	}

	// Each kernel vertex index resolves to the global id of its merged node.
	merged := make(map[geom.Vec3]uint64)
	nodeOf := make([]uint64, km.VertexCount())
	for i := range nodeOf {
		v := km.Vertex(uint32(i))
		if id, ok := merged[v]; ok {
			nodeOf[i] = id
			continue
		}
		id := stats.NextNodeID
		if _, err := dst.AddNode(id, v[0], v[1], v[2]); err != nil {
			return stats, fmt.Errorf("tessellate: vertex %d: %w", i, err)
		}
		merged[v] = id
		nodeOf[i] = id
		stats.NextNodeID++
		stats.Nodes++
	}

	for t := 0; t < km.TriangleCount(); t++ {
		tri := km.Triangle(t)
		ids := make([]uint64, 3)
		for j, vi := range tri {
			if int(vi) >= len(nodeOf) {
				return stats, fmt.Errorf("tessellate: triangle %d references vertex %d of %d", t, vi, len(nodeOf))
			}
			ids[j] = nodeOf[vi]
		}
		if _, err := dst.AddElement(stats.NextElementID, ids...); err != nil {
			return stats, fmt.Errorf("tessellate: triangle %d: %w", t, err)
		}
		stats.NextElementID++
		stats.Elements++
	}

	return stats, nil
}
