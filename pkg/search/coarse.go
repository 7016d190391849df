package search

import "github.com/chazu/meshbox/pkg/geom"

// Pair names one overlapping domain/range box pair found by a coarse search.
type Pair struct {
	Domain IdentProc
	Range  IdentProc
}

// CoarseSearch finds overlapping boxes between a domain and a range
// collection, possibly gathered from many processes. Implementations own
// tolerances and the inter-process exchange; this repository only produces
// their input.
type CoarseSearch[P geom.Point] interface {
	Search(domain, rng []Box[P]) ([]Pair, error)
}
