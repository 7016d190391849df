package bbox

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/meshbox/pkg/geom"
	"github.com/chazu/meshbox/pkg/mesh"
	"github.com/chazu/meshbox/pkg/search"
)

// singleElement builds a mesh holding one element with id 1 over the given
// node coordinates and returns it with the element handle.
func singleElement(t *testing.T, dim int, coords ...[]float64) (*mesh.Mesh, mesh.Entity) {
	t.Helper()
	m, err := mesh.New(dim, 0)
	require.NoError(t, err)
	ids := make([]uint64, len(coords))
	for i, c := range coords {
		ids[i] = uint64(i + 1)
		_, err := m.AddNode(ids[i], c...)
		require.NoError(t, err)
	}
	e, err := m.AddElement(1, ids...)
	require.NoError(t, err)
	return m, e
}

func build[P geom.Point](t *testing.T, m *mesh.Mesh, e mesh.Entity) (search.Box[P], error) {
	t.Helper()
	f, err := mesh.Coordinates[P](m)
	require.NoError(t, err)
	return NewBuilder[P](f).BoundingBox(e, m)
}

func TestBuilderScenarios(t *testing.T) {
	t.Run("single node 2D", func(t *testing.T) {
		m, e := singleElement(t, 2, []float64{2.0, 3.0})
		bb, err := build[geom.Vec2](t, m, e)
		require.NoError(t, err)
		assert.Equal(t, geom.Vec2{2, 3}, bb.Low())
		assert.Equal(t, geom.Vec2{2, 3}, bb.High())
	})

	t.Run("unit quad 2D", func(t *testing.T) {
		m, e := singleElement(t, 2, []float64{0, 0}, []float64{1, 0}, []float64{1, 1}, []float64{0, 1})
		bb, err := build[geom.Vec2](t, m, e)
		require.NoError(t, err)
		assert.Equal(t, geom.Vec2{0, 0}, bb.Low())
		assert.Equal(t, geom.Vec2{1, 1}, bb.High())
	})

	t.Run("triangle 3D", func(t *testing.T) {
		m, e := singleElement(t, 3, []float64{-1, 5, 2}, []float64{3, -2, 2}, []float64{0, 0, 9})
		bb, err := build[geom.Vec3](t, m, e)
		require.NoError(t, err)
		assert.Equal(t, geom.Vec3{-1, -2, 2}, bb.Low())
		assert.Equal(t, geom.Vec3{3, 5, 9}, bb.High())
	})

	t.Run("segment 1D", func(t *testing.T) {
		m, e := singleElement(t, 1, []float64{4}, []float64{-4})
		bb, err := build[geom.Vec1](t, m, e)
		require.NoError(t, err)
		assert.Equal(t, geom.Vec1{-4}, bb.Low())
		assert.Equal(t, geom.Vec1{4}, bb.High())
	})
}

func TestBuilderKeyCarriesElementID(t *testing.T) {
	m, err := mesh.New(2, 5)
	require.NoError(t, err)
	_, err = m.AddNode(1, 0, 0)
	require.NoError(t, err)
	e, err := m.AddElement(12345, 1)
	require.NoError(t, err)

	bb, err := build[geom.Vec2](t, m, e)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), bb.Key().ID)
	assert.Equal(t, uint32(0), bb.Key().Proc, "builder leaves the owner to its caller")
}

func TestBuilderEmptyElement(t *testing.T) {
	m, e := singleElement(t, 2)
	_, err := build[geom.Vec2](t, m, e)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyElement))
	assert.Contains(t, err.Error(), "empty element")

	var ee *ElementError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, uint64(1), ee.ElementID)
}

func TestBuilderMissingCoordinate(t *testing.T) {
	for _, idx := range []int{0, 2} {
		m, err := mesh.New(2, 0)
		require.NoError(t, err)
		ids := []uint64{1, 2, 3}
		for i, id := range ids {
			if i == idx {
				_, err = m.AddNode(id)
			} else {
				_, err = m.AddNode(id, float64(i), float64(i))
			}
			require.NoError(t, err)
		}
		e, err := m.AddElement(9, ids...)
		require.NoError(t, err)

		_, err = build[geom.Vec2](t, m, e)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingCoordinate))

		var ee *ElementError
		require.True(t, errors.As(err, &ee))
		assert.Equal(t, idx, ee.Node)
		assert.Equal(t, uint64(9), ee.ElementID)
		assert.Contains(t, err.Error(), "missing coordinate")
	}
}

func TestBuilderNaNOnFirstNodeCarries(t *testing.T) {
	m, e := singleElement(t, 1, []float64{math.NaN()}, []float64{1})
	bb, err := build[geom.Vec1](t, m, e)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(bb.Low()[0]))
	assert.False(t, bb.Valid())
}

func TestBuilderNaNOnLaterNodeIgnored(t *testing.T) {
	m, e := singleElement(t, 1, []float64{1}, []float64{math.NaN()})
	bb, err := build[geom.Vec1](t, m, e)
	require.NoError(t, err)
	assert.Equal(t, geom.Vec1{1}, bb.Low())
	assert.Equal(t, geom.Vec1{1}, bb.High())
	assert.True(t, bb.Valid())
}

func TestBuilderMatchesMinMax(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 200; trial++ {
		n := 1 + r.IntN(27)
		coords := make([][]float64, n)
		for i := range coords {
			coords[i] = []float64{r.NormFloat64() * 100, r.NormFloat64() * 100, r.Float64() - 0.5}
		}
		m, e := singleElement(t, 3, coords...)

		bb, err := build[geom.Vec3](t, m, e)
		require.NoError(t, err)
		require.True(t, bb.Valid())

		for d := 0; d < 3; d++ {
			lo, hi := math.Inf(1), math.Inf(-1)
			for _, c := range coords {
				lo = math.Min(lo, c[d])
				hi = math.Max(hi, c[d])
			}
			assert.Equal(t, lo, bb.Low()[d], "trial %d dim %d", trial, d)
			assert.Equal(t, hi, bb.High()[d], "trial %d dim %d", trial, d)
		}

		again, err := build[geom.Vec3](t, m, e)
		require.NoError(t, err)
		assert.True(t, bb.Equal(again), "rebuilding must be bit-identical")
	}
}
