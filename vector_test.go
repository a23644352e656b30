package wilt

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func BenchmarkVectorAngle(b *testing.B) {

	b.StopTimer()

	vecs := make([]Vector3, 0, 1200)
	for i := 0; i < cap(vecs); i++ {
		vecs = append(vecs, Vector3{rand.Float32(), rand.Float32(), rand.Float32()})
	}

	b.StartTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		for _, v := range vecs {
			v.Angle(ProbeDirections[0])
		}
	}

}

func TestVectorAngleNeverNaN(t *testing.T) {

	v := Vector3{0.2764, -0.8507, 0.4472}

	assert.InDelta(t, 0, v.Angle(v), 1e-3)
	assert.InDelta(t, math32.Pi, v.Angle(v.Invert()), 1e-3)
	assert.InDelta(t, math32.Pi/2, WorldUp.Angle(WorldRight), 1e-6)

	// Nearly parallel vectors can produce a dot product just over 1.
	a := Vector3{1, 1e-7, 0}
	assert.False(t, math32.IsNaN(a.Angle(Vector3{1, 0, 0})))

}

func TestVectorCross(t *testing.T) {

	a := Vector3{1, 2, 3}
	b := Vector3{-4, 0.5, 2}

	want := mgl32.Vec3{1, 2, 3}.Cross(mgl32.Vec3{-4, 0.5, 2})
	got := a.Cross(b)

	assert.InDelta(t, want.X(), got.X, 1e-6)
	assert.InDelta(t, want.Y(), got.Y, 1e-6)
	assert.InDelta(t, want.Z(), got.Z, 1e-6)

}

func TestVectorUnit(t *testing.T) {
	assert.InDelta(t, 1, Vector3{3, 4, 12}.Unit().Magnitude(), 1e-6)
	assert.Equal(t, Vector3{}, Vector3{}.Unit())
}

func TestQuaternionMatchesMathgl(t *testing.T) {

	axes := []Vector3{{0, 1, 0}, {1, 0, 0}, {0.3, -0.2, 0.9}}
	angles := []float32{0, 0.4, -1.3, 3}

	for _, axis := range axes {
		for _, angle := range angles {

			q := NewQuaternionFromAxisAngle(axis, angle)
			mq := mgl32.QuatRotate(angle, mgl32.Vec3{axis.X, axis.Y, axis.Z}.Normalize())

			got := mgl32.Mat4(q.ToMatrix4().Floats())
			assert.True(t, got.ApproxEqualThreshold(mq.Mat4(), 1e-5), "axis %v angle %v", axis, angle)

			v := Vector3{0.5, -2, 1}
			rv := q.RotateVec(v)
			mv := mq.Rotate(mgl32.Vec3{0.5, -2, 1})
			assert.InDelta(t, mv.X(), rv.X, 1e-5)
			assert.InDelta(t, mv.Y(), rv.Y, 1e-5)
			assert.InDelta(t, mv.Z(), rv.Z, 1e-5)

		}
	}

}

func TestQuaternionMult(t *testing.T) {

	a := NewQuaternionFromAxisAngle(Vector3{0, 1, 0}, 0.5)
	b := NewQuaternionFromAxisAngle(Vector3{1, 0, 0}, 1.1)

	v := Vector3{1, 2, 3}

	// b is applied first
	assert.True(t, a.Mult(b).RotateVec(v).Equals(a.RotateVec(b.RotateVec(v))))
	assert.True(t, a.Conjugate().Mult(a).Equals(NewQuaternionIdentity()))

}

func TestQuaternionLerpNotNormalized(t *testing.T) {

	a := NewQuaternionIdentity()
	b := NewQuaternionFromAxisAngle(Vector3{0, 0, 1}, math32.Pi/2)

	mid := a.Lerp(b, 0.5)

	assert.Less(t, mid.Magnitude(), float32(0.99))
	assert.InDelta(t, (a.W+b.W)/2, mid.W, 1e-7)

}
