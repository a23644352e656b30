package wilt

import "github.com/chewxy/math32"

// Quaternion represents a rotation. Quaternions produced by Lerp are not renormalized, so they may be slightly
// shorter than unit length; ToMatrix4 and RotateVec use them as-is.
type Quaternion struct {
	X, Y, Z, W float32
}

// NewQuaternion creates a new Quaternion from its x, y, z, and w components.
func NewQuaternion(x, y, z, w float32) Quaternion {
	return Quaternion{x, y, z, w}
}

// NewQuaternionIdentity returns the identity (no rotation) Quaternion.
func NewQuaternionIdentity() Quaternion {
	return Quaternion{0, 0, 0, 1}
}

// NewQuaternionFromAxisAngle returns a Quaternion that rotates counter-clockwise by angle (in radians) around the
// provided axis. A zero axis falls back to +Y.
func NewQuaternionFromAxisAngle(axis Vector3, angle float32) Quaternion {
	if axis.IsZero() {
		axis = WorldUp
	}
	axis = axis.Unit()
	s := math32.Sin(angle / 2)
	return Quaternion{axis.X * s, axis.Y * s, axis.Z * s, math32.Cos(angle / 2)}
}

// Dot returns the dot product of two Quaternions.
func (quat Quaternion) Dot(other Quaternion) float32 {
	return quat.X*other.X + quat.Y*other.Y + quat.Z*other.Z + quat.W*other.W
}

// Magnitude returns the length of the Quaternion.
func (quat Quaternion) Magnitude() float32 {
	return math32.Sqrt(quat.Dot(quat))
}

// Conjugate returns the Quaternion with its vector part negated. For unit Quaternions this is the inverse rotation.
func (quat Quaternion) Conjugate() Quaternion {
	return Quaternion{-quat.X, -quat.Y, -quat.Z, quat.W}
}

// Mult returns the Hamilton product of the two Quaternions: the other rotation is applied first, then the calling one.
func (quat Quaternion) Mult(other Quaternion) Quaternion {
	return Quaternion{
		X: quat.W*other.X + quat.X*other.W + quat.Y*other.Z - quat.Z*other.Y,
		Y: quat.W*other.Y - quat.X*other.Z + quat.Y*other.W + quat.Z*other.X,
		Z: quat.W*other.Z + quat.X*other.Y - quat.Y*other.X + quat.Z*other.W,
		W: quat.W*other.W - quat.X*other.X - quat.Y*other.Y - quat.Z*other.Z,
	}
}

// Normalized returns a unit-length copy of the Quaternion. A zero Quaternion returns identity.
func (quat Quaternion) Normalized() Quaternion {
	m := quat.Magnitude()
	if m < 1e-8 {
		return NewQuaternionIdentity()
	}
	return Quaternion{quat.X / m, quat.Y / m, quat.Z / m, quat.W / m}
}

// Lerp interpolates each component of the Quaternion towards the other one by the percentage given.
// The result is not normalized; animation sampling relies on this matching the authored output exactly.
func (quat Quaternion) Lerp(other Quaternion, percentage float32) Quaternion {
	return Quaternion{
		X: quat.X + (other.X-quat.X)*percentage,
		Y: quat.Y + (other.Y-quat.Y)*percentage,
		Z: quat.Z + (other.Z-quat.Z)*percentage,
		W: quat.W + (other.W-quat.W)*percentage,
	}
}

// RotateVec rotates the provided vector by the Quaternion.
func (quat Quaternion) RotateVec(vec Vector3) Vector3 {
	u := Vector3{quat.X, quat.Y, quat.Z}
	t := u.Cross(vec).Scale(2)
	return vec.Add(t.Scale(quat.W)).Add(u.Cross(t))
}

// ToMatrix4 returns a rotation Matrix4 representing the Quaternion.
func (quat Quaternion) ToMatrix4() Matrix4 {

	x, y, z, w := quat.X, quat.Y, quat.Z, quat.W

	mat := NewMatrix4()

	mat[0][0] = 1 - 2*(y*y+z*z)
	mat[0][1] = 2 * (x*y + w*z)
	mat[0][2] = 2 * (x*z - w*y)

	mat[1][0] = 2 * (x*y - w*z)
	mat[1][1] = 1 - 2*(x*x+z*z)
	mat[1][2] = 2 * (y*z + w*x)

	mat[2][0] = 2 * (x*z + w*y)
	mat[2][1] = 2 * (y*z - w*x)
	mat[2][2] = 1 - 2*(x*x+y*y)

	return mat

}

// Equals returns true if the two Quaternions are close enough in all components.
func (quat Quaternion) Equals(other Quaternion) bool {
	eps := float32(1e-4)
	return math32.Abs(quat.X-other.X) <= eps && math32.Abs(quat.Y-other.Y) <= eps &&
		math32.Abs(quat.Z-other.Z) <= eps && math32.Abs(quat.W-other.W) <= eps
}
