package bbox

import (
	"github.com/chazu/meshbox/pkg/geom"
	"github.com/chazu/meshbox/pkg/mesh"
	"github.com/chazu/meshbox/pkg/search"
)

// Builder computes the bounding box of one element from a coordinate field.
// It never mutates the mesh or the field and holds no per-call state.
type Builder[P geom.Point] struct {
	field mesh.Field[P]
}

// NewBuilder returns a Builder reading node coordinates from field.
func NewBuilder[P geom.Point](field mesh.Field[P]) *Builder[P] {
	return &Builder[P]{field: field}
}

// BoundingBox returns the box spanning the nodes of elem. The key carries
// the element's global identifier; the owning rank is left zero for the
// caller to fill in.
//
// Comparisons are exact and NaN coordinates are not filtered: a NaN on the
// first node carries into the box, later ones lose every comparison.
func (b *Builder[P]) BoundingBox(elem mesh.Entity, bulk mesh.BulkData) (search.Box[P], error) {
	nodes := bulk.Nodes(elem)
	if len(nodes) == 0 {
		return search.Box[P]{}, &ElementError{ElementID: bulk.Identifier(elem), Node: -1, Err: ErrEmptyElement}
	}

	low, ok := b.field.Data(nodes[0])
	if !ok {
		return search.Box[P]{}, &ElementError{ElementID: bulk.Identifier(elem), Node: 0, Err: ErrMissingCoordinate}
	}
	high := low

	for i := 1; i < len(nodes); i++ {
		c, ok := b.field.Data(nodes[i])
		if !ok {
			return search.Box[P]{}, &ElementError{ElementID: bulk.Identifier(elem), Node: i, Err: ErrMissingCoordinate}
		}
		for d := 0; d < len(c); d++ {
			if c[d] < low[d] {
				low[d] = c[d]
			}
			if c[d] > high[d] {
				high[d] = c[d]
			}
		}
	}

	key := search.NewIdentProc(bulk.Identifier(elem), 0)
	return search.NewBoxFromCorners(low, high, key), nil
}
