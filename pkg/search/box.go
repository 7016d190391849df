package search

import (
	"fmt"

	"github.com/chazu/meshbox/pkg/geom"
)

// Box is an axis-aligned bounding box of dimension len(P) tagged with an
// identity key. Boxes are values; nothing mutates a box after construction.
type Box[P geom.Point] struct {
	low  P
	high P
	key  IdentProc
}

// NewBox builds a box from a raw extent array laid out as
// [low0 .. lowD-1, high0 .. highD-1].
func NewBox[P geom.Point](extents []float64, key IdentProc) (Box[P], error) {
	var b Box[P]
	dim := len(b.low)
	if len(extents) != 2*dim {
		return Box[P]{}, fmt.Errorf("search: box of dimension %d needs %d extents, got %d", dim, 2*dim, len(extents))
	}
	for d := 0; d < dim; d++ {
		b.low[d] = extents[d]
		b.high[d] = extents[d+dim]
	}
	b.key = key
	return b, nil
}

// NewBoxFromCorners builds a box from its low and high corners.
func NewBoxFromCorners[P geom.Point](low, high P, key IdentProc) Box[P] {
	return Box[P]{low: low, high: high, key: key}
}

// Low returns the minimum corner.
func (b Box[P]) Low() P { return b.low }

// High returns the maximum corner.
func (b Box[P]) High() P { return b.high }

// Key returns the identity key.
func (b Box[P]) Key() IdentProc { return b.key }

// Dim returns the spatial dimension of the box.
func (b Box[P]) Dim() int { return len(b.low) }

// Extents returns the raw [low..., high...] layout accepted by NewBox.
func (b Box[P]) Extents() []float64 {
	dim := len(b.low)
	out := make([]float64, 2*dim)
	for d := 0; d < dim; d++ {
		out[d] = b.low[d]
		out[d+dim] = b.high[d]
	}
	return out
}

// WithProc returns a copy of b owned by rank proc.
func (b Box[P]) WithProc(proc uint32) Box[P] {
	b.key.Proc = proc
	return b
}

// Valid reports whether low[d] <= high[d] holds in every dimension.
// A NaN extent makes the box invalid.
func (b Box[P]) Valid() bool {
	for d := 0; d < len(b.low); d++ {
		if !(b.low[d] <= b.high[d]) {
			return false
		}
	}
	return true
}

// Equal reports whether both boxes carry the same key and bit-for-bit
// comparable extents. No tolerance is applied.
func (b Box[P]) Equal(o Box[P]) bool {
	if b.key != o.key {
		return false
	}
	for d := 0; d < len(b.low); d++ {
		if b.low[d] != o.low[d] || b.high[d] != o.high[d] {
			return false
		}
	}
	return true
}

func (b Box[P]) String() string {
	return fmt.Sprintf("%s low=%s high=%s", b.key, geom.Format(b.low), geom.Format(b.high))
}
