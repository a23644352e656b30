package wilt

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scatterTriangles(count int, seed int64) []Triangle {
	r := rand.New(rand.NewSource(seed))
	point := func() Vector3 {
		return Vector3{r.Float32()*20 - 10, r.Float32()*20 - 10, r.Float32()*20 - 10}
	}
	tris := make([]Triangle, count)
	for i := range tris {
		a := point()
		tris[i] = NewTriangle(a, a.Add(Vector3{r.Float32(), 0, r.Float32()}), a.Add(Vector3{0, r.Float32() + 0.1, 0}))
	}
	return tris
}

func BenchmarkTrianglesInBox(b *testing.B) {

	tris := scatterTriangles(2000, 7)
	bp := NewBroadphase(16, tris)
	box := NewAABBAround(Vector3{1, 2, 3}, 2)
	ids := make([]int, 0, 256)

	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		ids = bp.TrianglesInBox(box, ids)
	}

}

func TestRayTest(t *testing.T) {

	tri := wallAhead(1)

	f, ok := tri.RayTest(Vector3{}, Vector3{0, 0, 4}, false)
	assert.True(t, ok)
	assert.InDelta(t, 0.25, f, 1e-6)

	// Short of the plane
	_, ok = tri.RayTest(Vector3{}, Vector3{0, 0, 0.5}, false)
	assert.False(t, ok)

	// Through the plane, but outside the triangle
	_, ok = tri.RayTest(Vector3{5, 0, 0}, Vector3{5, 0, 4}, false)
	assert.False(t, ok)

	// From behind
	_, ok = tri.RayTest(Vector3{0, 0, 4}, Vector3{}, false)
	assert.False(t, ok)
	f, ok = tri.RayTest(Vector3{0, 0, 4}, Vector3{}, true)
	assert.True(t, ok)
	assert.InDelta(t, 0.75, f, 1e-6)

	// Degenerate triangles are never struck
	_, ok = NewTriangle(Vector3{}, Vector3{}, Vector3{0, 1, 0}).RayTest(Vector3{0, 0, -1}, Vector3{0, 0, 1}, true)
	assert.False(t, ok)

}

func TestNearestRayHit(t *testing.T) {
	tris := []Triangle{wallAhead(3), wallAhead(1), wallAhead(2)}
	assert.InDelta(t, 0.25, nearestRayHit(Vector3{}, Vector3{0, 0, 4}, tris, false), 1e-6)
	assert.Equal(t, float32(1), nearestRayHit(Vector3{}, Vector3{0, 0, 0.5}, tris, false))
}

func TestAABB(t *testing.T) {

	box := NewAABBFromPoints(Vector3{1, -1, 0}, Vector3{-1, 2, 0.5})
	assert.Equal(t, Vector3{-1, -1, 0}, box.Min)
	assert.Equal(t, Vector3{1, 2, 0.5}, box.Max)
	assert.Equal(t, float32(3), box.MaxDimension())

	assert.True(t, box.Contains(Vector3{0, 0, 0.25}))
	assert.False(t, box.Contains(Vector3{0, 0, 1}))

	// Touching boxes overlap.
	assert.True(t, box.Overlaps(AABB{Min: Vector3{1, 2, 0.5}, Max: Vector3{3, 3, 3}}))
	assert.False(t, box.Overlaps(NewAABBAround(Vector3{5, 5, 5}, 1)))

}

func TestBroadphaseMatchesBruteForce(t *testing.T) {

	tris := scatterTriangles(500, 1)

	for _, cells := range []int{1, 4, 13} {

		bp := NewBroadphase(cells, tris)

		r := rand.New(rand.NewSource(int64(cells)))

		for q := 0; q < 50; q++ {

			box := NewAABBAround(Vector3{r.Float32()*24 - 12, r.Float32()*24 - 12, r.Float32()*24 - 12}, r.Float32()*4)

			want := []int{}
			for i, tri := range tris {
				if tri.Bounds().Overlaps(box) {
					want = append(want, i)
				}
			}

			got := bp.TrianglesInBox(box, nil)
			if len(want) == 0 {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, want, got, "cells %d query %d", cells, q)
			}

		}

	}

}

func TestBroadphaseEmpty(t *testing.T) {
	bp := NewBroadphase(0, nil)
	assert.Equal(t, 1, bp.GridCellCount)
	assert.Empty(t, bp.TrianglesInBox(NewAABBAround(Vector3{}, 100), nil))
}

func TestTriangleMeshFromIndices(t *testing.T) {

	positions := []Vector3{{-1, -1, 1}, {-1, 1, 1}, {1, 0, 1}}

	mesh := NewTriangleMeshFromIndices(positions, []int{0, 1, 2, 0, 1, 7, 2}, 2)
	require.Len(t, mesh.Triangles, 1)

	tris, err := mesh.QueryTriangles(NewAABBAround(Vector3{}, 2), nil)
	require.NoError(t, err)
	assert.Len(t, tris, 1)

	f, err := mesh.RaycastNearest(Vector3{}, Vector3{0, 0, 2}, false)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, f, 1e-6)

	f, err = mesh.RaycastNearest(Vector3{0, 0, 2}, Vector3{}, false)
	require.NoError(t, err)
	assert.Equal(t, float32(1), f)

	f, err = mesh.RaycastNearest(Vector3{0, 0, 2}, Vector3{}, true)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, f, 1e-6)

}
