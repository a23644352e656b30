package wilt

// Triangle is a single collision triangle in world space.
type Triangle struct {
	A, B, C Vector3
}

// NewTriangle returns a new Triangle from its three corners.
func NewTriangle(a, b, c Vector3) Triangle {
	return Triangle{A: a, B: b, C: c}
}

// Normal returns the Triangle's unit normal. Counter-clockwise winding faces the viewer.
func (tri Triangle) Normal() Vector3 {
	return tri.B.Sub(tri.A).Cross(tri.C.Sub(tri.A)).Unit()
}

// Center returns the centroid of the Triangle.
func (tri Triangle) Center() Vector3 {
	return tri.A.Add(tri.B).Add(tri.C).Scale(1.0 / 3.0)
}

// Bounds returns the AABB enclosing the Triangle.
func (tri Triangle) Bounds() AABB {
	return NewAABBFromPoints(tri.A, tri.B, tri.C)
}

// degenerate returns true if at least two corners share a location, so no plane can be set from the Triangle.
func (tri Triangle) degenerate() bool {
	return tri.A.Equals(tri.B) || tri.B.Equals(tri.C) || tri.C.Equals(tri.A) || tri.B.Sub(tri.A).Cross(tri.C.Sub(tri.A)).MagnitudeSquared() < 1e-12
}

// RayTest casts a ray segment from one point to another against the Triangle. It returns the fraction along
// the segment, in [0, 1], at which the Triangle is struck, and whether it was struck at all. Single-sided
// triangles are only struck from the side their normal faces.
func (tri Triangle) RayTest(from, to Vector3, doublesided bool) (float32, bool) {

	if tri.degenerate() {
		return 1, false
	}

	normal := tri.Normal()

	fs := normal.Dot(from.Sub(tri.A))
	ts := normal.Dot(to.Sub(tri.A))

	// If the start and end points of the ray lie on the same side of the triangle,
	// then we know the triangle can't be struck and we can bail early
	if (fs > 0 && ts > 0) || (fs < 0 && ts < 0) {
		return 1, false
	}

	if !doublesided && fs < 0 {
		return 1, false
	}

	// Parallel to and within the triangle's plane
	if fs == ts {
		return 1, false
	}

	fraction := clamp(fs/(fs-ts), 0, 1)

	if !pointInsideTriangle(from.Lerp(to, fraction), tri.A, tri.B, tri.C) {
		return 1, false
	}

	return fraction, true

}

func pointInsideTriangle(point, v0, v1, v2 Vector3) bool {

	ca := v2.Sub(v0)
	ba := v1.Sub(v0)
	pa := point.Sub(v0)

	dot00 := ca.Dot(ca)
	dot01 := ca.Dot(ba)
	dot02 := ca.Dot(pa)

	dot11 := ba.Dot(ba)
	dot12 := ba.Dot(pa)

	invDenom := 1.0 / ((dot00 * dot11) - (dot01 * dot01))
	u := ((dot11 * dot02) - (dot01 * dot12)) * invDenom
	v := ((dot00 * dot12) - (dot01 * dot02)) * invDenom

	const eps = 1e-6

	return (u >= -eps) && (v >= -eps) && (u+v <= 1+eps)

}

// nearestRayHit returns the closest hit fraction of the ray against the triangles given, or 1 if none are struck.
func nearestRayHit(from, to Vector3, triangles []Triangle, doublesided bool) float32 {
	closest := float32(1)
	for _, tri := range triangles {
		if f, ok := tri.RayTest(from, to, doublesided); ok && f < closest {
			closest = f
		}
	}
	return closest
}
