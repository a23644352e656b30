package wilt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func crowd(model *Model, count int) []*Instance {
	instances := make([]*Instance, count)
	for i := range instances {
		instances[i] = model.NewInstance(BufferHandle(i), NewTransform(Vector3{float32(i%5) * 0.3, 0, float32(i/5) * 0.3}))
	}
	return instances
}

func TestDeformAllMatchesSequential(t *testing.T) {

	model := sphereModel()
	mesh := NewTriangleMesh([]Triangle{wallAhead(0.5), wallAhead(1.5), wallAhead(2.5)}, 4)

	sink := &recordingSink{}
	deformer := NewDeformer(sink, DefaultProbeSettings())

	parallel := crowd(model, 20)
	targets := make([]Deformable, len(parallel))
	for i, inst := range parallel {
		targets[i] = inst
	}

	require.NoError(t, DeformAll(context.Background(), deformer, targets, mesh, 3))
	assert.Len(t, sink.uploads, len(targets))

	sequential := crowd(model, 20)
	for i, inst := range sequential {
		deformer.Deform(inst, mesh)
		assert.Equal(t, inst.Vertices(), parallel[i].Vertices(), "instance %d", i)
	}

}

func TestDeformAllJoinsErrors(t *testing.T) {

	model := sphereModel()
	good := model.NewInstance(1, NewTransform(Vector3{}))

	err := DeformAll(context.Background(), NewDeformer(nil, DefaultProbeSettings()), []Deformable{shortTarget{}, good}, NewTriangleMesh([]Triangle{wallAhead(0.5)}, 4), 0)
	assert.ErrorIs(t, err, ErrDeformTargetMissing)

	// The failing target doesn't stop the others.
	assert.NotEqual(t, model.Vertices, good.Vertices())

}

func TestDeformAllCanceled(t *testing.T) {

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &recordingSink{}
	targets := []Deformable{sphereModel().NewInstance(1, NewTransform(Vector3{}))}

	err := DeformAll(ctx, NewDeformer(sink, DefaultProbeSettings()), targets, NewTriangleMesh(nil, 1), 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sink.uploads)

}
