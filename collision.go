package wilt

// CollisionSurface is the read-only collision geometry a deformable entity probes each frame. Implementations
// must tolerate concurrent use from several entities at once.
type CollisionSurface interface {
	// QueryTriangles appends every triangle overlapping the box to dst and returns the result.
	QueryTriangles(box AABB, dst []Triangle) ([]Triangle, error)
	// RaycastNearest returns the fraction in [0, 1] along the segment at which the nearest triangle is struck,
	// or 1 if nothing is struck. Triangles are struck from behind only when doublesided is set.
	RaycastNearest(from, to Vector3, doublesided bool) (float32, error)
}

// TriangleMesh is a static triangle soup that implements CollisionSurface, using a grid Broadphase to answer
// box queries.
type TriangleMesh struct {
	Triangles  []Triangle
	Broadphase *Broadphase
}

// NewTriangleMesh returns a TriangleMesh over the triangles given, with a broadphase of gridCells cells along
// each axis.
func NewTriangleMesh(triangles []Triangle, gridCells int) *TriangleMesh {
	return &TriangleMesh{
		Triangles:  triangles,
		Broadphase: NewBroadphase(gridCells, triangles),
	}
}

// NewTriangleMeshFromIndices builds a TriangleMesh from a list of positions and a flat index list, three indices
// per triangle. Out-of-range indices and a trailing partial triangle are skipped.
func NewTriangleMeshFromIndices(positions []Vector3, indices []int, gridCells int) *TriangleMesh {
	triangles := make([]Triangle, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a < 0 || b < 0 || c < 0 || a >= len(positions) || b >= len(positions) || c >= len(positions) {
			continue
		}
		triangles = append(triangles, NewTriangle(positions[a], positions[b], positions[c]))
	}
	return NewTriangleMesh(triangles, gridCells)
}

// QueryTriangles appends every triangle whose bounds overlap the box to dst.
func (mesh *TriangleMesh) QueryTriangles(box AABB, dst []Triangle) ([]Triangle, error) {
	var ids [64]int
	for _, id := range mesh.Broadphase.TrianglesInBox(box, ids[:0]) {
		dst = append(dst, mesh.Triangles[id])
	}
	return dst, nil
}

// RaycastNearest returns the closest hit fraction of the segment against the mesh, or 1 if nothing is struck.
func (mesh *TriangleMesh) RaycastNearest(from, to Vector3, doublesided bool) (float32, error) {
	var ids [64]int
	closest := float32(1)
	for _, id := range mesh.Broadphase.TrianglesInBox(NewAABBFromPoints(from, to), ids[:0]) {
		if f, ok := mesh.Triangles[id].RayTest(from, to, doublesided); ok && f < closest {
			closest = f
		}
	}
	return closest, nil
}
