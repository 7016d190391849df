// Package mesh defines the collaborators a per-element operation is driven
// by: entity handles, the read-only connectivity store, per-node vector
// fields, and the element traversal contract. It also provides an in-memory
// store used by the command line tool and by tests.
package mesh

import "github.com/chazu/meshbox/pkg/geom"

// Entity is an opaque handle to a node or element of one BulkData.
// Handles from different stores are not interchangeable.
type Entity uint32

// BulkData is the read-only connectivity view of a process-local mesh.
type BulkData interface {
	// ParallelRank is the rank of the process that owns this store.
	ParallelRank() uint32
	// Elements lists the locally owned elements in traversal order.
	Elements() []Entity
	// Identifier returns the global identifier of an element.
	Identifier(e Entity) uint64
	// Nodes returns the ordered node list of an element. Callers must not
	// modify the returned slice.
	Nodes(elem Entity) []Entity
}

// Field is a per-node vector-valued field, such as coordinates.
type Field[P geom.Point] interface {
	// Data returns the value stored for node, or false when the field has
	// no entry for it.
	Data(node Entity) (P, bool)
}
