package wilt

import (
	"strconv"

	"github.com/chewxy/math32"
)

// WorldUp is a unit vector pointing up (+Y) in wilt's right-handed, Y-up coordinate system.
var WorldUp = Vector3{0, 1, 0}

// WorldRight is a unit vector pointing right (+X).
var WorldRight = Vector3{1, 0, 0}

// WorldBackward is a unit vector pointing backward, towards the viewer (+Z).
var WorldBackward = Vector3{0, 0, 1}

// Vector3 represents a 3D vector (position, direction, offset).
// Any Vector3 function that "modifies" the calling Vector3 returns a modified copy, so method-chaining works:
// `result := a.Add(b).Scale(2)`.
// Vectors are most efficient when passed by value; try not to store pointers to them.
type Vector3 struct {
	X float32
	Y float32
	Z float32
}

// NewVector3 creates a new Vector3 with the specified x, y, and z components.
func NewVector3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Add returns a copy of the calling vector, added together with the other Vector3 provided.
func (vec Vector3) Add(other Vector3) Vector3 {
	vec.X += other.X
	vec.Y += other.Y
	vec.Z += other.Z
	return vec
}

// Sub returns a copy of the calling Vector3, with the other Vector3 subtracted from it.
func (vec Vector3) Sub(other Vector3) Vector3 {
	vec.X -= other.X
	vec.Y -= other.Y
	vec.Z -= other.Z
	return vec
}

// Scale scales a Vector3 by the given scalar.
func (vec Vector3) Scale(scalar float32) Vector3 {
	vec.X *= scalar
	vec.Y *= scalar
	vec.Z *= scalar
	return vec
}

// Invert returns a copy of the Vector3 pointing the opposite way.
func (vec Vector3) Invert() Vector3 {
	vec.X = -vec.X
	vec.Y = -vec.Y
	vec.Z = -vec.Z
	return vec
}

// Dot returns the dot product of a Vector3 and another Vector3.
func (vec Vector3) Dot(other Vector3) float32 {
	return vec.X*other.X + vec.Y*other.Y + vec.Z*other.Z
}

// Cross returns a new Vector3, indicating the cross product of the calling Vector3 and the provided other Vector3.
func (vec Vector3) Cross(other Vector3) Vector3 {

	ogVecY := vec.Y
	ogVecZ := vec.Z

	vec.Z = vec.X*other.Y - other.X*vec.Y
	vec.Y = ogVecZ*other.X - other.Z*vec.X
	vec.X = ogVecY*other.Z - other.Y*ogVecZ

	return vec

}

// Magnitude returns the length of the Vector3.
func (vec Vector3) Magnitude() float32 {
	return math32.Sqrt(vec.X*vec.X + vec.Y*vec.Y + vec.Z*vec.Z)
}

// MagnitudeSquared returns the squared length of the Vector3; this is faster than Magnitude() as it avoids a square root.
func (vec Vector3) MagnitudeSquared() float32 {
	return vec.X*vec.X + vec.Y*vec.Y + vec.Z*vec.Z
}

// DistanceTo returns the distance from the calling Vector3 to the other Vector3 provided.
func (vec Vector3) DistanceTo(other Vector3) float32 {
	return vec.Sub(other).Magnitude()
}

// Unit returns a copy of the Vector3, normalized (set to be of unit length).
// A vector too short to normalize is returned unchanged.
func (vec Vector3) Unit() Vector3 {
	l := vec.Magnitude()
	if l < 1e-8 {
		return vec
	}
	vec.X, vec.Y, vec.Z = vec.X/l, vec.Y/l, vec.Z/l
	return vec
}

// Angle returns the angle in radians between the calling Vector3 and the provided other Vector3, in the range [0, pi].
// The cosine is clamped before the arc-cosine, so the result is never NaN for nearly (anti)parallel vectors.
func (vec Vector3) Angle(other Vector3) float32 {
	return math32.Acos(clamp(vec.Unit().Dot(other.Unit()), -1, 1))
}

// Lerp linearly interpolates from the calling Vector3 towards the other Vector3 by the percentage given.
func (vec Vector3) Lerp(other Vector3, percentage float32) Vector3 {
	return Vector3{
		X: vec.X + (other.X-vec.X)*percentage,
		Y: vec.Y + (other.Y-vec.Y)*percentage,
		Z: vec.Z + (other.Z-vec.Z)*percentage,
	}
}

// Min returns the component-wise minimum of the two Vector3s.
func (vec Vector3) Min(other Vector3) Vector3 {
	return Vector3{math32.Min(vec.X, other.X), math32.Min(vec.Y, other.Y), math32.Min(vec.Z, other.Z)}
}

// Max returns the component-wise maximum of the two Vector3s.
func (vec Vector3) Max(other Vector3) Vector3 {
	return Vector3{math32.Max(vec.X, other.X), math32.Max(vec.Y, other.Y), math32.Max(vec.Z, other.Z)}
}

// Equals returns true if the two Vector3s are close enough in all values.
func (vec Vector3) Equals(other Vector3) bool {

	eps := float32(1e-4)

	if math32.Abs(vec.X-other.X) > eps || math32.Abs(vec.Y-other.Y) > eps || math32.Abs(vec.Z-other.Z) > eps {
		return false
	}

	return true

}

// IsZero returns true if the values in the Vector3 are extremely close to 0.
func (vec Vector3) IsZero() bool {
	return vec.Equals(Vector3{})
}

// Floats returns a [3]float32 array consisting of the Vector3's contents.
func (vec Vector3) Floats() [3]float32 {
	return [3]float32{vec.X, vec.Y, vec.Z}
}

func (vec Vector3) String() string {
	return "{" + strconv.FormatFloat(float64(vec.X), 'f', -1, 32) + ", " +
		strconv.FormatFloat(float64(vec.Y), 'f', -1, 32) + ", " +
		strconv.FormatFloat(float64(vec.Z), 'f', -1, 32) + "}"
}
