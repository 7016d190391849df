package mesh

import (
	"errors"
	"fmt"
	"slices"
)

// ErrDuplicateID is returned when an id is registered twice.
var ErrDuplicateID = errors.New("duplicate id")

// ErrUnknownNode is returned when an element references an undeclared node.
var ErrUnknownNode = errors.New("unknown node")

type nodeRec struct {
	id     uint64
	coords []float64 // nil when the node has no coordinate data
}

type elemRec struct {
	id    uint64
	nodes []Entity
}

// Mesh is an in-memory BulkData with a built-in coordinate table. Its
// dimension and owning rank are fixed at construction.
//
// Node and element handles live in separate tables; Identifier resolves
// element handles, NodeIdentifier resolves node handles.
type Mesh struct {
	dim      int
	rank     uint32
	nodes    []nodeRec
	elements []elemRec
	nodeByID map[uint64]Entity
	elemByID map[uint64]Entity
}

// Compile-time interface check.
var _ BulkData = (*Mesh)(nil)

// New creates an empty mesh of the given spatial dimension owned by rank.
func New(dim int, rank uint32) (*Mesh, error) {
	if dim < 1 || dim > 3 {
		return nil, fmt.Errorf("mesh: dimension must be 1, 2 or 3, got %d", dim)
	}
	return &Mesh{
		dim:      dim,
		rank:     rank,
		nodeByID: make(map[uint64]Entity),
		elemByID: make(map[uint64]Entity),
	}, nil
}

// Dim returns the spatial dimension.
func (m *Mesh) Dim() int { return m.dim }

// Rank returns the owning rank.
func (m *Mesh) Rank() uint32 { return m.rank }

// ParallelRank implements BulkData.
func (m *Mesh) ParallelRank() uint32 { return m.rank }

// AddNode registers a node. With no coordinates the node exists in the
// connectivity but has no entry in the coordinate field; otherwise exactly
// Dim() coordinates are required.
func (m *Mesh) AddNode(id uint64, coords ...float64) (Entity, error) {
	if _, ok := m.nodeByID[id]; ok {
		return 0, fmt.Errorf("mesh: node %d: %w", id, ErrDuplicateID)
	}
	if len(coords) != 0 && len(coords) != m.dim {
		return 0, fmt.Errorf("mesh: node %d: expected %d coordinates, got %d", id, m.dim, len(coords))
	}
	rec := nodeRec{id: id}
	if len(coords) > 0 {
		rec.coords = append([]float64(nil), coords...)
	}
	e := Entity(len(m.nodes))
	m.nodes = append(m.nodes, rec)
	m.nodeByID[id] = e
	return e, nil
}

// AddElement registers an element over previously added nodes. An element
// with no nodes is accepted; consumers decide whether it is meaningful.
func (m *Mesh) AddElement(id uint64, nodeIDs ...uint64) (Entity, error) {
	if _, ok := m.elemByID[id]; ok {
		return 0, fmt.Errorf("mesh: element %d: %w", id, ErrDuplicateID)
	}
	nodes := make([]Entity, 0, len(nodeIDs))
	for _, nid := range nodeIDs {
		n, ok := m.nodeByID[nid]
		if !ok {
			return 0, fmt.Errorf("mesh: element %d: node %d: %w", id, nid, ErrUnknownNode)
		}
		nodes = append(nodes, n)
	}
	e := Entity(len(m.elements))
	m.elements = append(m.elements, elemRec{id: id, nodes: nodes})
	m.elemByID[id] = e
	return e, nil
}

// Elements implements BulkData.
func (m *Mesh) Elements() []Entity {
	out := make([]Entity, len(m.elements))
	for i := range out {
		out[i] = Entity(i)
	}
	return out
}

// Identifier implements BulkData for element handles.
func (m *Mesh) Identifier(elem Entity) uint64 {
	return m.elements[elem].id
}

// NodeIdentifier returns the global id of a node handle.
func (m *Mesh) NodeIdentifier(node Entity) uint64 {
	return m.nodes[node].id
}

// Nodes implements BulkData. The result is a copy.
func (m *Mesh) Nodes(elem Entity) []Entity {
	return slices.Clone(m.elements[elem].nodes)
}

// NodeCount returns the number of nodes.
func (m *Mesh) NodeCount() int { return len(m.nodes) }

// ElementCount returns the number of elements.
func (m *Mesh) ElementCount() int { return len(m.elements) }

// HasNode reports whether a node with the given id exists.
func (m *Mesh) HasNode(id uint64) bool {
	_, ok := m.nodeByID[id]
	return ok
}

// HasElement reports whether an element with the given id exists.
func (m *Mesh) HasElement(id uint64) bool {
	_, ok := m.elemByID[id]
	return ok
}

// coords returns the raw coordinates of a node, or nil.
func (m *Mesh) coords(node Entity) []float64 {
	if int(node) >= len(m.nodes) {
		return nil
	}
	return m.nodes[node].coords
}
