package asset

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/chewxy/math32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/wiltengine/wilt"
)

// GLTFOptions alters how a glTF file is loaded.
type GLTFOptions struct {
	// FramesPerSecond is the rate animations are resampled at into fixed frames. Defaults to
	// wilt.DefaultFramesPerSecond.
	FramesPerSecond float32
	// MeshName picks the mesh to load by name. If empty, the first skinned mesh is used, or else the first mesh.
	MeshName string
}

// ErrNoMesh is returned when a glTF file has no usable mesh.
var ErrNoMesh = errors.New("error: glTF file has no mesh to load")

// LoadGLTFFile loads a .gltf or .glb file from disk. See LoadGLTFData.
func LoadGLTFFile(path string, opts *GLTFOptions) (*wilt.Model, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	model, err := LoadGLTFData(data, assetName(path), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	wilt.Logger().Info("glTF model loaded", "path", path, "vertices", model.Vertices.Len(), "clips", len(model.Clips))

	return model, nil

}

// LoadGLTFData loads a single Model from .gltf or .glb data: its first primitive's vertices and faces, the
// skeleton of its skin, and every animation, resampled into fixed frames.
// Each vertex's first three JOINTS_0 / WEIGHTS_0 entries become its probe influences, so they must index the
// 12 probe directions.
// Passing nil for opts loads the file using default options.
func LoadGLTFData(data []byte, name string, opts *GLTFOptions) (*wilt.Model, error) {

	if opts == nil {
		opts = &GLTFOptions{}
	}

	fps := opts.FramesPerSecond
	if fps <= 0 {
		fps = wilt.DefaultFramesPerSecond
	}

	decoder := gltf.NewDecoder(bytes.NewReader(data))

	doc := gltf.NewDocument()

	if err := decoder.Decode(doc); err != nil {
		return nil, err
	}

	nodeIndex, err := pickMeshNode(doc, opts.MeshName)
	if err != nil {
		return nil, err
	}

	node := doc.Nodes[nodeIndex]

	model := wilt.NewModel(name)
	if node.Name != "" && name == "" {
		model.Name = node.Name
	}

	if err := readMesh(doc, doc.Meshes[*node.Mesh], model); err != nil {
		return nil, fmt.Errorf("mesh %q: %w", doc.Meshes[*node.Mesh].Name, err)
	}

	if node.Skin != nil {

		skin := doc.Skins[*node.Skin]

		sk, err := readSkeleton(doc, skin)
		if err != nil {
			return nil, fmt.Errorf("skin %q: %w", skin.Name, err)
		}
		model.Skeleton = sk

		for _, anim := range doc.Animations {
			clip, err := resampleAnimation(doc, anim, skin, fps)
			if err != nil {
				return nil, fmt.Errorf("animation %q: %w", anim.Name, err)
			}
			if clip == nil {
				continue
			}
			if err := model.AddClip(clip); err != nil {
				return nil, err
			}
		}

	}

	if err := model.Validate(); err != nil {
		return nil, err
	}

	return model, nil

}

func pickMeshNode(doc *gltf.Document, meshName string) (int, error) {

	first := -1

	for i, node := range doc.Nodes {

		if node.Mesh == nil {
			continue
		}

		if meshName != "" {
			if doc.Meshes[*node.Mesh].Name == meshName || node.Name == meshName {
				return i, nil
			}
			continue
		}

		if node.Skin != nil {
			return i, nil
		}

		if first < 0 {
			first = i
		}

	}

	if first < 0 {
		if meshName != "" {
			return 0, fmt.Errorf("%q: %w", meshName, ErrNoMesh)
		}
		return 0, ErrNoMesh
	}

	return first, nil

}

func readMesh(doc *gltf.Document, mesh *gltf.Mesh, model *wilt.Model) error {

	if len(mesh.Primitives) == 0 {
		return ErrNoMesh
	}

	prim := mesh.Primitives[0]

	posAccessor, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return fmt.Errorf("primitive has no POSITION attribute: %w", ErrNoMesh)
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[posAccessor], [][3]float32{})
	if err != nil {
		return err
	}

	vertices := make([]wilt.Vertex, len(positions))

	for i, p := range positions {
		vertices[i] = wilt.Vertex{
			Position: wilt.Vector3{X: p[0], Y: p[1], Z: p[2]},
			Weights:  [3]float32{1, 0, 0},
			Order:    1,
		}
	}

	if weightAccessor, weightExists := prim.Attributes[gltf.WEIGHTS_0]; weightExists {

		weights, err := modeler.ReadWeights(doc, doc.Accessors[weightAccessor], [][4]float32{})
		if err != nil {
			return err
		}

		jointAccessor, jointsExist := prim.Attributes[gltf.JOINTS_0]
		if !jointsExist {
			return errors.New("primitive has WEIGHTS_0 but no JOINTS_0")
		}

		groups, err := modeler.ReadJoints(doc, doc.Accessors[jointAccessor], [][4]uint16{})
		if err != nil {
			return err
		}

		for i := range vertices {
			if i >= len(weights) || i >= len(groups) {
				break
			}
			vertices[i].Influences, vertices[i].Weights = strongestInfluences(groups[i], weights[i])
		}

	}

	model.Vertices = wilt.NewVertexBuffer(vertices...)
	model.Bounds = vertexBounds(model.Vertices)

	if prim.Indices != nil {
		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], []uint32{})
		if err != nil {
			return err
		}
		model.Faces = make([]int, len(indices))
		for i, index := range indices {
			model.Faces[i] = int(index)
		}
	} else {
		model.Faces = make([]int, len(positions)-len(positions)%3)
		for i := range model.Faces {
			model.Faces[i] = i
		}
	}

	return nil

}

// strongestInfluences keeps the three heaviest of a vertex's four influences, in descending weight order.
// Unused slots point at influence 0 with a weight of 0.
func strongestInfluences(groups [4]uint16, weights [4]float32) ([3]int, [3]float32) {

	order := []int{0, 1, 2, 3}
	sort.SliceStable(order, func(i, j int) bool { return weights[order[i]] > weights[order[j]] })

	var influences [3]int
	var w [3]float32

	for k := 0; k < 3; k++ {
		if weights[order[k]] > 0 {
			influences[k] = int(groups[order[k]])
			w[k] = weights[order[k]]
		}
	}

	return influences, w

}

func nodeLocation(node *gltf.Node) wilt.Vector3 {
	return wilt.Vector3{X: float32(node.Translation[0]), Y: float32(node.Translation[1]), Z: float32(node.Translation[2])}
}

func nodeRotation(node *gltf.Node) wilt.Quaternion {
	q := wilt.Quaternion{X: float32(node.Rotation[0]), Y: float32(node.Rotation[1]), Z: float32(node.Rotation[2]), W: float32(node.Rotation[3])}
	if q == (wilt.Quaternion{}) {
		return wilt.NewQuaternionIdentity()
	}
	return q
}

func readSkeleton(doc *gltf.Document, skin *gltf.Skin) (*wilt.Skeleton, error) {

	jointIndex := make(map[int]int, len(skin.Joints))
	for i, n := range skin.Joints {
		jointIndex[n] = i
	}

	parentOf := map[int]int{}
	for i, node := range doc.Nodes {
		for _, child := range node.Children {
			parentOf[child] = i
		}
	}

	joints := make([]wilt.Joint, len(skin.Joints))

	for i, n := range skin.Joints {

		parent := -1
		if p, ok := parentOf[n]; ok {
			if pj, ok := jointIndex[p]; ok {
				parent = pj
			}
		}

		node := doc.Nodes[n]

		if s := node.Scale; math32.Abs(float32(s[0])-1) > 1e-4 || math32.Abs(float32(s[1])-1) > 1e-4 || math32.Abs(float32(s[2])-1) > 1e-4 {
			wilt.Logger().Warn("joint scale is ignored", "joint", node.Name)
		}

		joints[i] = wilt.NewJointFromPose(parent, nodeLocation(node), nodeRotation(node))

	}

	return wilt.NewSkeleton(joints)

}

// gltfTrack is one animated property of one joint.
type gltfTrack struct {
	times         []float32
	values        [][4]float32
	step          bool
	cubic         bool
	isRotation    bool
	durationFound float32
}

func (track *gltfTrack) value(i int) [4]float32 {
	// Cubic spline outputs are stored as in-tangent, value, out-tangent triplets.
	if track.cubic {
		return track.values[i*3+1]
	}
	return track.values[i]
}

// sample returns the track's value at time t, clamped to its first and last keys.
func (track *gltfTrack) sample(t float32) [4]float32 {

	if t <= track.times[0] {
		return track.value(0)
	}

	last := len(track.times) - 1
	if t >= track.times[last] {
		return track.value(last)
	}

	i := sort.Search(len(track.times), func(i int) bool { return track.times[i] > t }) - 1

	a, b := track.value(i), track.value(i+1)

	if track.step {
		return a
	}

	p := (t - track.times[i]) / (track.times[i+1] - track.times[i])

	// Blend rotations along the shorter arc.
	if track.isRotation && a[0]*b[0]+a[1]*b[1]+a[2]*b[2]+a[3]*b[3] < 0 {
		b = [4]float32{-b[0], -b[1], -b[2], -b[3]}
	}

	var out [4]float32
	for k := range out {
		out[k] = a[k] + (b[k]-a[k])*p
	}

	return out

}

func readTrack(doc *gltf.Document, sampler *gltf.AnimationSampler, rotation bool) (*gltfTrack, error) {

	id, err := modeler.ReadAccessor(doc, doc.Accessors[sampler.Input], nil)
	if err != nil {
		return nil, err
	}

	times, ok := id.([]float32)
	if !ok || len(times) == 0 {
		return nil, errors.New("animation sampler input is not a float list")
	}

	od, err := modeler.ReadAccessor(doc, doc.Accessors[sampler.Output], nil)
	if err != nil {
		return nil, err
	}

	track := &gltfTrack{
		times:      times,
		step:       sampler.Interpolation == gltf.InterpolationStep,
		cubic:      sampler.Interpolation == gltf.InterpolationCubicSpline,
		isRotation: rotation,
	}

	switch out := od.(type) {
	case [][3]float32:
		for _, v := range out {
			track.values = append(track.values, [4]float32{v[0], v[1], v[2], 0})
		}
	case [][4]float32:
		track.values = out
	default:
		return nil, fmt.Errorf("unsupported animation sampler output %T", od)
	}

	need := len(times)
	if track.cubic {
		need *= 3
	}
	if len(track.values) < need {
		return nil, fmt.Errorf("animation sampler has %d outputs for %d keys", len(track.values), len(times))
	}

	track.durationFound = times[len(times)-1]

	return track, nil

}

// resampleAnimation bakes a glTF animation into fixed frames at fps. Each frame's JointPose is the joint's animated
// transform relative to its bind transform. Animations that don't touch the skin's joints return nil.
func resampleAnimation(doc *gltf.Document, anim *gltf.Animation, skin *gltf.Skin, fps float32) (*wilt.AnimationClip, error) {

	jointIndex := make(map[int]int, len(skin.Joints))
	for i, n := range skin.Joints {
		jointIndex[n] = i
	}

	translations := make([]*gltfTrack, len(skin.Joints))
	rotations := make([]*gltfTrack, len(skin.Joints))

	duration := float32(0)
	touched := false

	for _, channel := range anim.Channels {

		if channel.Target.Node == nil {
			continue
		}

		j, ok := jointIndex[*channel.Target.Node]
		if !ok {
			continue
		}

		if channel.Sampler < 0 || channel.Sampler >= len(anim.Samplers) {
			return nil, fmt.Errorf("animation %q channel sampler %d of %d", anim.Name, channel.Sampler, len(anim.Samplers))
		}

		sampler := anim.Samplers[channel.Sampler]

		switch channel.Target.Path {

		case gltf.TRSTranslation:
			track, err := readTrack(doc, sampler, false)
			if err != nil {
				return nil, err
			}
			translations[j] = track
			duration = math32.Max(duration, track.durationFound)
			touched = true

		case gltf.TRSRotation:
			track, err := readTrack(doc, sampler, true)
			if err != nil {
				return nil, err
			}
			rotations[j] = track
			duration = math32.Max(duration, track.durationFound)
			touched = true

		}

	}

	if !touched {
		return nil, nil
	}

	frameCount := int(math32.Round(duration*fps)) + 1

	frames := make([]wilt.Frame, frameCount)

	for f := range frames {

		t := float32(f) / fps
		frames[f] = make(wilt.Frame, len(skin.Joints))

		for j, n := range skin.Joints {

			node := doc.Nodes[n]
			bindLoc := nodeLocation(node)
			bindRot := nodeRotation(node)

			loc, rot := bindLoc, bindRot

			if track := translations[j]; track != nil {
				v := track.sample(t)
				loc = wilt.Vector3{X: v[0], Y: v[1], Z: v[2]}
			}

			if track := rotations[j]; track != nil {
				v := track.sample(t)
				rot = wilt.Quaternion{X: v[0], Y: v[1], Z: v[2], W: v[3]}.Normalized()
			}

			// The node's animated local transform is bind * pose, so pose = inverse(bind) * animated.
			inv := bindRot.Conjugate()
			frames[f][j] = wilt.JointPose{
				Location: inv.RotateVec(loc.Sub(bindLoc)),
				Rotation: inv.Mult(rot),
			}

		}

	}

	return wilt.NewAnimationClip(anim.Name, frames)

}
