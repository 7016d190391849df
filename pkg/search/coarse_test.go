package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/meshbox/pkg/geom"
	"github.com/chazu/meshbox/pkg/search"
)

// bruteForce is the simplest CoarseSearch: every domain box against every
// range box, closed intervals, no tolerance.
type bruteForce[P geom.Point] struct{}

func (bruteForce[P]) Search(domain, rng []search.Box[P]) ([]search.Pair, error) {
	var pairs []search.Pair
	for _, d := range domain {
		for _, r := range rng {
			if overlaps(d, r) {
				pairs = append(pairs, search.Pair{Domain: d.Key(), Range: r.Key()})
			}
		}
	}
	return pairs, nil
}

func overlaps[P geom.Point](a, b search.Box[P]) bool {
	al, ah, bl, bh := a.Low(), a.High(), b.Low(), b.High()
	for d := 0; d < len(al); d++ {
		if ah[d] < bl[d] || bh[d] < al[d] {
			return false
		}
	}
	return true
}

func TestCoarseSearchConsumesBoxes(t *testing.T) {
	var cs search.CoarseSearch[geom.Vec2] = bruteForce[geom.Vec2]{}

	domain := []search.Box[geom.Vec2]{
		search.NewBoxFromCorners(geom.Vec2{0, 0}, geom.Vec2{1, 1}, search.NewIdentProc(1, 0)),
		search.NewBoxFromCorners(geom.Vec2{5, 5}, geom.Vec2{6, 6}, search.NewIdentProc(2, 0)),
	}
	rng := []search.Box[geom.Vec2]{
		search.NewBoxFromCorners(geom.Vec2{1, 1}, geom.Vec2{2, 2}, search.NewIdentProc(7, 1)),
	}

	pairs, err := cs.Search(domain, rng)
	require.NoError(t, err)
	assert.Equal(t, []search.Pair{{Domain: search.NewIdentProc(1, 0), Range: search.NewIdentProc(7, 1)}}, pairs)
}
