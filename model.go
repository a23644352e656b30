package wilt

import (
	"fmt"
	"sort"
)

// DefaultFramesPerSecond is the frame rate clips are played back at unless configured otherwise.
const DefaultFramesPerSecond = 24

// Model is a deformable character's shared data: bind vertices, topology, skeleton, and clips. A Model is
// read-only once loaded, and shared by every Instance created from it.
type Model struct {
	Name     string
	Vertices VertexBuffer
	Faces    []int // Triangle list, three vertex indices per face
	Lines    []int // Line list, four values per line
	Bounds   AABB
	Skeleton *Skeleton // May be nil for models without joints
	Clips    map[string]*AnimationClip
}

// NewModel returns a new, empty Model.
func NewModel(name string) *Model {
	return &Model{
		Name:  name,
		Clips: map[string]*AnimationClip{},
	}
}

// AddClip adds an animation clip to the Model, failing if the clip doesn't fit the Model's skeleton.
func (model *Model) AddClip(clip *AnimationClip) error {
	if model.Skeleton == nil {
		return fmt.Errorf("model %q has no skeleton for clip %q: %w", model.Name, clip.Name, ErrJointCountMismatch)
	}
	if err := model.Skeleton.Accepts(clip); err != nil {
		return fmt.Errorf("model %q: %w", model.Name, err)
	}
	if model.Clips == nil {
		model.Clips = map[string]*AnimationClip{}
	}
	model.Clips[clip.Name] = clip
	return nil
}

// ClipNames returns the names of the Model's clips in sorted order.
func (model *Model) ClipNames() []string {
	names := make([]string, 0, len(model.Clips))
	for name := range model.Clips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the Model's vertices, faces, and clips.
func (model *Model) Validate() error {

	if err := model.Vertices.Validate(); err != nil {
		return fmt.Errorf("model %q: %w", model.Name, err)
	}

	count := model.Vertices.Len()
	for i, index := range model.Faces {
		if index < 0 || index >= count {
			return fmt.Errorf("model %q face %d references vertex %d of %d", model.Name, i/3, index, count)
		}
	}

	for _, name := range model.ClipNames() {
		if model.Skeleton == nil {
			return fmt.Errorf("model %q has clips but no skeleton: %w", model.Name, ErrJointCountMismatch)
		}
		if err := model.Skeleton.Accepts(model.Clips[name]); err != nil {
			return fmt.Errorf("model %q: %w", model.Name, err)
		}
	}

	return nil

}

// CollisionTriangles returns the Model's faces placed in the world by the Transform given, for use as collision
// geometry.
func (model *Model) CollisionTriangles(transform Transform) []Triangle {
	mat := transform.Matrix()
	triangles := make([]Triangle, 0, len(model.Faces)/3)
	for i := 0; i+2 < len(model.Faces); i += 3 {
		triangles = append(triangles, NewTriangle(
			mat.MultVec(model.Vertices.Position(model.Faces[i])),
			mat.MultVec(model.Vertices.Position(model.Faces[i+1])),
			mat.MultVec(model.Vertices.Position(model.Faces[i+2])),
		))
	}
	return triangles
}

// NewInstance returns a new Instance of the Model, with its own deformed vertex buffer uploaded under the handle
// given.
func (model *Model) NewInstance(handle BufferHandle, transform Transform) *Instance {
	inst := &Instance{
		Model:     model,
		Handle:    handle,
		Transform: transform,
		vertices:  model.Vertices.Clone(),
	}
	if model.Skeleton != nil {
		inst.Animator = NewAnimator(model.Skeleton, DefaultFramesPerSecond)
	}
	return inst
}

// Instance is one placed copy of a Model. Each Instance owns its deformed vertices, so any number of instances of
// the same Model can be deformed in the same frame.
type Instance struct {
	Model     *Model
	Handle    BufferHandle
	Transform Transform
	Animator  *Animator // nil if the Model has no skeleton

	vertices VertexBuffer
}

// BindVertices returns the Model's bind vertices.
func (inst *Instance) BindVertices() VertexBuffer {
	return inst.Model.Vertices
}

// EntityTransform returns the Instance's world placement.
func (inst *Instance) EntityTransform() Transform {
	return inst.Transform
}

// DeformTarget returns the Instance's buffer handle and its private deformed vertex buffer.
func (inst *Instance) DeformTarget() (BufferHandle, VertexBuffer) {
	return inst.Handle, inst.vertices
}

// Vertices returns the Instance's most recently deformed vertices.
func (inst *Instance) Vertices() VertexBuffer {
	return inst.vertices
}
