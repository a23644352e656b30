package asset

import (
	"os"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiltengine/wilt"
)

func TestLoadGLTFFile(t *testing.T) {

	model, err := LoadGLTFFile("testdata/rig.gltf", &GLTFOptions{FramesPerSecond: 4})
	require.NoError(t, err)

	assert.Equal(t, "rig", model.Name)
	assert.Equal(t, 3, model.Vertices.Len())
	assert.Equal(t, []int{0, 1, 2}, model.Faces)
	assert.Equal(t, wilt.Vector3{X: 1, Y: 1, Z: 1}, model.Bounds.Max)

	// The three heaviest of each vertex's four influences are kept, heaviest first.
	v0, v1, v2 := model.Vertices.Vertex(0), model.Vertices.Vertex(1), model.Vertices.Vertex(2)
	assert.Equal(t, [3]int{0, 1, 0}, v0.Influences)
	assert.InDeltaSlice(t, []float32{0.7, 0.3, 0}, v0.Weights[:], 1e-6)
	assert.Equal(t, [3]int{5, 4, 3}, v1.Influences)
	assert.InDeltaSlice(t, []float32{0.4, 0.3, 0.2}, v1.Weights[:], 1e-6)
	assert.Equal(t, [3]int{11, 0, 0}, v2.Influences)

	sk := model.Skeleton
	require.NotNil(t, sk)
	assert.Equal(t, 2, sk.JointCount())
	assert.Equal(t, -1, sk.Joint(0).Parent)
	assert.Equal(t, 0, sk.Joint(1).Parent)

	require.Equal(t, []string{"wave"}, model.ClipNames())
	clip := model.Clips["wave"]

	// One second at 4 frames per second, both ends included.
	assert.Equal(t, 5, clip.FrameCount())
	assert.Equal(t, 2, clip.JointCount)

	// The first frame is the bind pose.
	for j, pose := range clip.Frames[0] {
		assert.True(t, pose.Location.IsZero(), "joint %d", j)
		assert.True(t, pose.Rotation.Equals(wilt.NewQuaternionIdentity()), "joint %d", j)
	}

	// Poses are relative to the bind transform.
	assert.True(t, clip.Frames[2][0].Location.Equals(wilt.Vector3{Y: 0.5}))
	assert.True(t, clip.Frames[4][0].Location.Equals(wilt.Vector3{Y: 1}))
	assert.True(t, clip.Frames[2][1].Rotation.Equals(wilt.NewQuaternionFromAxisAngle(wilt.Vector3{Z: 1}, math32.Pi/4)))
	assert.True(t, clip.Frames[4][1].Rotation.Equals(wilt.NewQuaternionFromAxisAngle(wilt.Vector3{Z: 1}, math32.Pi/2)))

	// Composing the first frame leaves every vertex where it is.
	for i, m := range wilt.ComposePose(sk, clip.Frames[0]) {
		assert.True(t, m.IsIdentity(), "joint %d", i)
	}

}

func TestLoadGLTFDataByMeshName(t *testing.T) {

	data, err := os.ReadFile("testdata/rig.gltf")
	require.NoError(t, err)

	model, err := LoadGLTFData(data, "wall", &GLTFOptions{MeshName: "Wall"})
	require.NoError(t, err)

	assert.Equal(t, "wall", model.Name)
	assert.Nil(t, model.Skeleton)
	assert.Empty(t, model.Clips)
	assert.Equal(t, []int{0, 1, 2}, model.Faces)

	// Unskinned vertices lean fully on the first probe.
	assert.Equal(t, [3]float32{1, 0, 0}, model.Vertices.Vertex(1).Weights)

	// The default frame rate applies when no options are given.
	model, err = LoadGLTFData(data, "rig", nil)
	require.NoError(t, err)
	assert.Equal(t, wilt.DefaultFramesPerSecond+1, model.Clips["wave"].FrameCount())

	_, err = LoadGLTFData(data, "rig", &GLTFOptions{MeshName: "Tail"})
	assert.ErrorIs(t, err, ErrNoMesh)

	_, err = LoadGLTFData([]byte("{nope"), "broken", nil)
	assert.Error(t, err)

}

func TestLoadGLTFDataBadChannelSampler(t *testing.T) {

	data, err := os.ReadFile("testdata/rig.gltf")
	require.NoError(t, err)

	broken := strings.Replace(string(data), `"sampler": 1`, `"sampler": 7`, 1)
	require.NotEqual(t, string(data), broken)

	_, err = LoadGLTFData([]byte(broken), "rig", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sampler 7")

}

func TestStrongestInfluences(t *testing.T) {

	groups, weights := strongestInfluences([4]uint16{1, 2, 3, 4}, [4]float32{0.25, 0, 0.5, 0.25})
	assert.Equal(t, [3]int{3, 1, 4}, groups)
	assert.Equal(t, [3]float32{0.5, 0.25, 0.25}, weights)

	groups, weights = strongestInfluences([4]uint16{7, 8, 9, 10}, [4]float32{1, 0, 0, 0})
	assert.Equal(t, [3]int{7, 0, 0}, groups)
	assert.Equal(t, [3]float32{1, 0, 0}, weights)

}
