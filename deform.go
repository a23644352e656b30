package wilt

import (
	"fmt"
	"sync"
)

// BufferHandle identifies a vertex buffer owned by the renderer.
type BufferHandle uint32

// VertexSink receives deformed vertex data for upload. Every call for a given handle overwrites the same range
// with the same amount of data.
type VertexSink interface {
	UpdateVertexBuffer(handle BufferHandle, byteOffset int, data []float32)
}

// VertexSinkFunc adapts a function to a VertexSink.
type VertexSinkFunc func(handle BufferHandle, byteOffset int, data []float32)

// UpdateVertexBuffer calls f.
func (f VertexSinkFunc) UpdateVertexBuffer(handle BufferHandle, byteOffset int, data []float32) {
	f(handle, byteOffset, data)
}

// Deformable is anything that can be reshaped by a Deformer: it has bind-pose vertices, a world placement,
// and a private buffer to write deformed vertices into.
type Deformable interface {
	BindVertices() VertexBuffer
	EntityTransform() Transform
	DeformTarget() (BufferHandle, VertexBuffer)
}

// Deformer runs the probe field and vertex deformation for Deformables and hands the results to its Sink.
// A Deformer is safe for concurrent use as long as each Deformable is only deformed by one goroutine at a time.
type Deformer struct {
	Settings ProbeSettings
	Sink     VertexSink // May be nil, in which case only the Deformable's own buffer is updated

	scratch sync.Pool
}

type deformScratch struct {
	probe  probeScratch
	bounds []float32
}

// NewDeformer returns a new Deformer uploading to the sink given.
func NewDeformer(sink VertexSink, settings ProbeSettings) *Deformer {
	d := &Deformer{
		Settings: settings,
		Sink:     sink,
	}
	d.scratch.New = func() any { return &deformScratch{} }
	return d
}

// Deform reshapes the target against the surface for this frame and uploads the result. Failures are logged;
// the target's buffer is left untouched when they happen.
func (d *Deformer) Deform(target Deformable, surface CollisionSurface) {
	if _, err := d.DeformField(target, surface); err != nil {
		Logger().Warn("deform failed", "error", err)
	}
}

// DeformField is Deform, but returns the pressure field that was applied and any error encountered.
func (d *Deformer) DeformField(target Deformable, surface CollisionSurface) (PressureField, error) {

	src := target.BindVertices()
	handle, dst := target.DeformTarget()

	if len(dst) != len(src) {
		return NeutralPressureField(), fmt.Errorf("buffer %d holds %d floats, bind vertices %d: %w", handle, len(dst), len(src), ErrDeformTargetMissing)
	}

	scratch, _ := d.scratch.Get().(*deformScratch)
	if scratch == nil {
		scratch = &deformScratch{}
	}
	defer d.scratch.Put(scratch)

	var field PressureField
	field, scratch.bounds = buildProbeField(&scratch.probe, src, target.EntityTransform(), surface, d.Settings, scratch.bounds)

	if err := DeformVertices(dst, src, field, scratch.bounds); err != nil {
		return field, err
	}

	if d.Sink != nil {
		d.Sink.UpdateVertexBuffer(handle, 0, dst)
	}

	return field, nil

}
