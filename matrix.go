package wilt

import (
	"strconv"
	"strings"

	"github.com/chewxy/math32"
)

// Matrix4 represents a 4x4 matrix for translation, scale, and rotation. A Matrix4 in wilt is row-major and
// multiplies row vectors (i.e. the translation lives in matrix[3]), so a.Mult(b) applies a first, then b.
type Matrix4 [4][4]float32

// NewMatrix4 returns a new identity Matrix4.
func NewMatrix4() Matrix4 {

	mat := Matrix4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
	return mat

}

// NewMatrix4Translate returns a new identity Matrix4, but with the x, y, and z translation components set as provided.
func NewMatrix4Translate(x, y, z float32) Matrix4 {
	mat := NewMatrix4()
	mat[3][0] = x
	mat[3][1] = y
	mat[3][2] = z
	return mat
}

// NewMatrix4Scale returns a new identity Matrix4, but with the scale components set as provided. 1, 1, 1 is the default.
func NewMatrix4Scale(x, y, z float32) Matrix4 {
	mat := NewMatrix4()
	mat[0][0] = x
	mat[1][1] = y
	mat[2][2] = z
	return mat
}

// NewMatrix4Rotate returns a new Matrix4 designed to rotate by the angle given (in radians) along the axis given [x, y, z].
// This rotation works as though you pierced the object utilizing the matrix through by the axis, and then rotated it
// counter-clockwise by the angle in radians.
func NewMatrix4Rotate(x, y, z, angle float32) Matrix4 {
	return NewQuaternionFromAxisAngle(Vector3{x, y, z}, angle).ToMatrix4()
}

// NewMatrix4FromPose returns the local transform for a location and rotation: the rotation is applied first, then
// the translation.
func NewMatrix4FromPose(location Vector3, rotation Quaternion) Matrix4 {
	mat := rotation.ToMatrix4()
	mat[3][0] = location.X
	mat[3][1] = location.Y
	mat[3][2] = location.Z
	return mat
}

// Inverted returns an inverted version of the Matrix4, computed from the 2x2 sub-determinants of the upper
// and lower halves of the matrix.
func (matrix Matrix4) Inverted() Matrix4 {

	m := matrix

	s0 := m[0][0]*m[1][1] - m[1][0]*m[0][1]
	s1 := m[0][0]*m[1][2] - m[1][0]*m[0][2]
	s2 := m[0][0]*m[1][3] - m[1][0]*m[0][3]
	s3 := m[0][1]*m[1][2] - m[1][1]*m[0][2]
	s4 := m[0][1]*m[1][3] - m[1][1]*m[0][3]
	s5 := m[0][2]*m[1][3] - m[1][2]*m[0][3]

	c5 := m[2][2]*m[3][3] - m[3][2]*m[2][3]
	c4 := m[2][1]*m[3][3] - m[3][1]*m[2][3]
	c3 := m[2][1]*m[3][2] - m[3][1]*m[2][2]
	c2 := m[2][0]*m[3][3] - m[3][0]*m[2][3]
	c1 := m[2][0]*m[3][2] - m[3][0]*m[2][2]
	c0 := m[2][0]*m[3][1] - m[3][0]*m[2][1]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0

	// Singular matrices (e.g. zero scale) have no inverse; return identity instead.
	if det == 0 {
		return NewMatrix4()
	}

	inv := 1 / det

	var out Matrix4

	out[0][0] = (m[1][1]*c5 - m[1][2]*c4 + m[1][3]*c3) * inv
	out[0][1] = (-m[0][1]*c5 + m[0][2]*c4 - m[0][3]*c3) * inv
	out[0][2] = (m[3][1]*s5 - m[3][2]*s4 + m[3][3]*s3) * inv
	out[0][3] = (-m[2][1]*s5 + m[2][2]*s4 - m[2][3]*s3) * inv

	out[1][0] = (-m[1][0]*c5 + m[1][2]*c2 - m[1][3]*c1) * inv
	out[1][1] = (m[0][0]*c5 - m[0][2]*c2 + m[0][3]*c1) * inv
	out[1][2] = (-m[3][0]*s5 + m[3][2]*s2 - m[3][3]*s1) * inv
	out[1][3] = (m[2][0]*s5 - m[2][2]*s2 + m[2][3]*s1) * inv

	out[2][0] = (m[1][0]*c4 - m[1][1]*c2 + m[1][3]*c0) * inv
	out[2][1] = (-m[0][0]*c4 + m[0][1]*c2 - m[0][3]*c0) * inv
	out[2][2] = (m[3][0]*s4 - m[3][1]*s2 + m[3][3]*s0) * inv
	out[2][3] = (-m[2][0]*s4 + m[2][1]*s2 - m[2][3]*s0) * inv

	out[3][0] = (-m[1][0]*c3 + m[1][1]*c1 - m[1][2]*c0) * inv
	out[3][1] = (m[0][0]*c3 - m[0][1]*c1 + m[0][2]*c0) * inv
	out[3][2] = (-m[3][0]*s3 + m[3][1]*s1 - m[3][2]*s0) * inv
	out[3][3] = (m[2][0]*s3 - m[2][1]*s1 + m[2][2]*s0) * inv

	return out

}

// MultVec transforms the point given by the Matrix4, translation included.
func (matrix Matrix4) MultVec(v Vector3) Vector3 {
	x, y, z := matrix[0], matrix[1], matrix[2]
	t := matrix[3]
	return Vector3{
		X: x[0]*v.X + y[0]*v.Y + z[0]*v.Z + t[0],
		Y: x[1]*v.X + y[1]*v.Y + z[1]*v.Z + t[1],
		Z: x[2]*v.X + y[2]*v.Y + z[2]*v.Z + t[2],
	}
}

// Mult returns the product of the two matrices: the result applies the calling Matrix4 first, then other.
func (matrix Matrix4) Mult(other Matrix4) Matrix4 {
	var out Matrix4
	for r := range out {
		row := matrix[r]
		for c := range out[r] {
			out[r][c] = row[0]*other[0][c] + row[1]*other[1][c] + row[2]*other[2][c] + row[3]*other[3][c]
		}
	}
	return out
}

// Transposed returns the Matrix4 with its rows and columns swapped.
func (matrix Matrix4) Transposed() Matrix4 {
	var out Matrix4
	for r := range out {
		for c := range out[r] {
			out[r][c] = matrix[c][r]
		}
	}
	return out
}

// Equals returns true if every value of the two matrices is within 1e-4 of the other.
func (matrix Matrix4) Equals(other Matrix4) bool {
	for r := range matrix {
		for c := range matrix[r] {
			if math32.Abs(matrix[r][c]-other[r][c]) > 1e-4 {
				return false
			}
		}
	}
	return true
}

var identityMatrix = NewMatrix4()

// IsIdentity returns true if the Matrix4 is (within Equals' tolerance) an identity matrix.
func (matrix Matrix4) IsIdentity() bool {
	return matrix.Equals(identityMatrix)
}

// Floats returns the Matrix4's 16 values. Since wilt matrices multiply row vectors, this ordering is exactly the
// column-major layout that column-vector shader uniforms (mat4 in GLSL) expect.
func (matrix Matrix4) Floats() [16]float32 {
	var out [16]float32
	for r := range matrix {
		copy(out[r*4:], matrix[r][:])
	}
	return out
}

func (matrix Matrix4) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for r, row := range matrix {
		for _, v := range row {
			sb.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
			sb.WriteString(", ")
		}
		if r < len(matrix)-1 {
			sb.WriteString("\n")
		}
	}
	sb.WriteString("}")
	return sb.String()
}
