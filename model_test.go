package wilt

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelClips(t *testing.T) {

	model := NewModel("arm")

	assert.ErrorIs(t, model.AddClip(walkClip(t, 2, 4)), ErrJointCountMismatch)

	model.Skeleton = armSkeleton(t)

	wave := walkClip(t, 2, 4)
	wave.Name = "wave"

	require.NoError(t, model.AddClip(walkClip(t, 2, 4)))
	require.NoError(t, model.AddClip(wave))
	assert.ErrorIs(t, model.AddClip(walkClip(t, 2, 3)), ErrJointCountMismatch)

	assert.Equal(t, []string{"walk", "wave"}, model.ClipNames())

}

func TestModelValidate(t *testing.T) {

	model := sphereModel()
	model.Faces = []int{0, 1, 2, 3, 4, 5}
	assert.NoError(t, model.Validate())

	model.Faces = append(model.Faces, 0, 1, ProbeCount)
	assert.Error(t, model.Validate())

	model.Faces = nil
	model.Vertices = append(model.Vertices.Clone(), 0)
	assert.ErrorIs(t, model.Validate(), ErrVertexStride)

	model = sphereModel()
	model.Clips["walk"] = walkClip(t, 2, 4)
	assert.ErrorIs(t, model.Validate(), ErrJointCountMismatch)

}

func TestModelCollisionTriangles(t *testing.T) {

	model := sphereModel()
	model.Faces = []int{0, 1, 2}

	transform := NewTransform(Vector3{5, 0, 0})
	transform.Scale = 2
	transform.Rotation = NewQuaternionFromAxisAngle(WorldUp, math32.Pi)

	tris := model.CollisionTriangles(transform)
	require.Len(t, tris, 1)

	// Probe 0 points along +Z: doubled, turned around, then moved.
	assert.True(t, tris[0].A.Equals(Vector3{5, 0, -2}), "%v", tris[0].A)

}

func TestInstancesOwnTheirBuffers(t *testing.T) {

	model := sphereModel()

	a := model.NewInstance(1, NewTransform(Vector3{}))
	b := model.NewInstance(2, NewTransform(Vector3{}))

	assert.Nil(t, a.Animator)

	a.Vertices()[0] = 99
	assert.NotEqual(t, a.Vertices()[0], b.Vertices()[0])
	assert.NotEqual(t, float32(99), model.Vertices[0])

	model.Skeleton = armSkeleton(t)
	c := model.NewInstance(3, NewTransform(Vector3{}))
	require.NotNil(t, c.Animator)
	assert.Equal(t, float32(DefaultFramesPerSecond), c.Animator.FramesPerSecond)

	handle, buf := c.DeformTarget()
	assert.Equal(t, BufferHandle(3), handle)
	assert.Equal(t, model.Vertices, buf)

}
