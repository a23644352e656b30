package wilt

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func armSkeleton(t testing.TB) *Skeleton {
	sk, err := NewSkeleton([]Joint{
		NewJointFromPose(-1, Vector3{0, 0.5, 0}, NewQuaternionFromAxisAngle(Vector3{0, 0, 1}, 0.3)),
		NewJointFromPose(0, Vector3{0, 1, 0}, NewQuaternionFromAxisAngle(Vector3{1, 0, 0}, -0.6)),
		NewJointFromPose(1, Vector3{0, 1, 0}, NewQuaternionIdentity()),
		NewJointFromPose(0, Vector3{0.4, 0, 0}, NewQuaternionFromAxisAngle(Vector3{0, 1, 0}, 1.2)),
	})
	require.NoError(t, err)
	return sk
}

func BenchmarkComposePose(b *testing.B) {

	sk := armSkeleton(b)
	pose := sk.BindPose()
	jm := IdentityJointMatrices()

	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		ComposePoseInto(&jm, sk, pose)
	}

}

func TestComposeBindPoseIsIdentity(t *testing.T) {

	sk := armSkeleton(t)

	jm := ComposePose(sk, sk.BindPose())

	for i, m := range jm {
		assert.True(t, m.IsIdentity(), "joint %d:\n%v", i, m)
	}

}

func TestComposeTwoJointScenario(t *testing.T) {

	sk, err := NewSkeleton([]Joint{
		{Parent: -1, BindLocal: NewMatrix4()},
		{Parent: 0, BindLocal: NewMatrix4Translate(0, 1, 0)},
	})
	require.NoError(t, err)

	clip, err := NewAnimationClip("rest", []Frame{sk.BindPose()})
	require.NoError(t, err)
	require.NoError(t, sk.Accepts(clip))

	jm := ComposePose(sk, SamplePose(clip, 0, 24))

	assert.True(t, jm[0].IsIdentity())
	assert.True(t, jm[1].IsIdentity())

}

// Checks the composition against the column-vector formula, evaluated with mgl32.
func TestComposeMatchesColumnFormula(t *testing.T) {

	sk := armSkeleton(t)

	pose := Pose{
		{Location: Vector3{0.1, 0, 0}, Rotation: NewQuaternionFromAxisAngle(Vector3{0, 1, 0}, 0.2)},
		{Location: Vector3{}, Rotation: NewQuaternionFromAxisAngle(Vector3{1, 0, 0}, 0.9)},
		{Location: Vector3{0, 0.2, 0}, Rotation: NewQuaternionIdentity()},
		{Location: Vector3{0, 0, -0.3}, Rotation: NewQuaternionFromAxisAngle(Vector3{0, 0, 1}, -0.4)},
	}

	jm := ComposePose(sk, pose)

	col := func(m Matrix4) mgl32.Mat4 { return mgl32.Mat4(m.Floats()) }

	forward := make([]mgl32.Mat4, sk.JointCount())
	backward := make([]mgl32.Mat4, sk.JointCount())

	for i := 0; i < sk.JointCount(); i++ {

		j := sk.Joint(i)
		bind := col(j.BindLocal)
		anim := col(pose[i].LocalTransform())

		parentF, parentB := mgl32.Ident4(), mgl32.Ident4()
		if j.Parent >= 0 {
			parentF, parentB = forward[j.Parent], backward[j.Parent]
		}

		forward[i] = parentF.Mul4(bind).Mul4(anim)
		backward[i] = bind.Inv().Mul4(parentB)

		want := forward[i].Mul4(backward[i])
		assert.True(t, col(jm[i]).ApproxEqualThreshold(want, 1e-4), "joint %d:\n%v\n%v", i, col(jm[i]), want)

	}

	for i := sk.JointCount(); i < MaxJoints; i++ {
		assert.True(t, jm[i].IsIdentity())
	}

}

func TestJointMatricesFloats(t *testing.T) {

	jm := IdentityJointMatrices()
	jm[1] = NewMatrix4Translate(1, 2, 3)

	f := jm.Floats(2)
	assert.Len(t, f, 32)
	assert.Equal(t, float32(1), f[16+12])

	assert.Len(t, jm.Floats(100), MaxJoints*16)

}
