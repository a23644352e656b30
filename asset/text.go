// Package asset loads wilt Models and AnimationClips from disk: the whitespace-separated text model and
// animation formats written by the Blender export scripts, and glTF files.
package asset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wiltengine/wilt"
)

// Options alters how text assets are read.
type Options struct {
	// ZUp converts positions and rotations from Blender's Z-up axes into wilt's Y-up axes as they're read:
	// (x, y, z) becomes (x, z, -y).
	ZUp bool
}

func (opts Options) location(x, y, z float32) wilt.Vector3 {
	if opts.ZUp {
		return wilt.Vector3{X: x, Y: z, Z: -y}
	}
	return wilt.Vector3{X: x, Y: y, Z: z}
}

func (opts Options) rotation(w, x, y, z float32) wilt.Quaternion {
	if opts.ZUp {
		return wilt.Quaternion{X: x, Y: z, Z: -y, W: w}
	}
	return wilt.Quaternion{X: x, Y: y, Z: z, W: w}
}

// tokens reads whitespace-separated values, remembering the first error it runs into so callers can read a whole
// section and check once.
type tokens struct {
	scanner *bufio.Scanner
	section string
	index   int
	err     error
}

func newTokens(r io.Reader) *tokens {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)
	return &tokens{scanner: sc}
}

func (t *tokens) next() string {
	if t.err != nil {
		return ""
	}
	if !t.scanner.Scan() {
		t.err = t.scanner.Err()
		if t.err == nil {
			t.err = io.ErrUnexpectedEOF
		}
		t.err = fmt.Errorf("reading %s (value %d): %w", t.section, t.index, t.err)
		return ""
	}
	t.index++
	return t.scanner.Text()
}

func (t *tokens) float() float32 {
	s := t.next()
	if t.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		t.err = fmt.Errorf("reading %s (value %d): %w", t.section, t.index, err)
		return 0
	}
	return float32(f)
}

func (t *tokens) int() int {
	s := t.next()
	if t.err != nil {
		return 0
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		t.err = fmt.Errorf("reading %s (value %d): %w", t.section, t.index, err)
		return 0
	}
	return i
}

// count reads a non-negative element count.
func (t *tokens) count() int {
	n := t.int()
	if t.err == nil && n < 0 {
		t.err = fmt.Errorf("reading %s: negative count %d", t.section, n)
	}
	return n
}

// ReadModel reads a text model. Versions 1 and 2 start with the vertex list (9 values per vertex in version 1,
// whose order value is always 1, and 10 in version 2); version 3 puts a bounding box before it. All versions then
// list faces, lines, and joints, each prefixed by its count.
func ReadModel(r io.Reader, name string, opts Options) (*wilt.Model, error) {

	t := newTokens(r)
	model := wilt.NewModel(name)

	t.section = "version"
	version := t.int()
	if t.err != nil {
		return nil, fmt.Errorf("model %q: %w", name, t.err)
	}

	var bounds *wilt.AABB

	switch version {
	case 1, 2:
	case 3:
		t.section = "bounding box"
		a := opts.location(t.float(), t.float(), t.float())
		b := opts.location(t.float(), t.float(), t.float())
		box := wilt.NewAABBFromPoints(a, b)
		bounds = &box
	default:
		return nil, fmt.Errorf("model %q: unsupported version %d", name, version)
	}

	t.section = "vertices"
	vertexCount := t.count()
	if t.err == nil {
		model.Vertices = make(wilt.VertexBuffer, 0, vertexCount*wilt.VertexStride)
	}

	for i := 0; i < vertexCount && t.err == nil; i++ {
		pos := opts.location(t.float(), t.float(), t.float())
		v := wilt.Vertex{Position: pos, Order: 1}
		for k := range v.Influences {
			v.Influences[k] = int(t.float())
		}
		for k := range v.Weights {
			v.Weights[k] = t.float()
		}
		if version >= 2 {
			v.Order = t.float()
		}
		var packed [wilt.VertexStride]float32
		v.Pack(packed[:])
		model.Vertices = append(model.Vertices, packed[:]...)
	}

	t.section = "faces"
	faceCount := t.count()
	for i := 0; i < faceCount*3 && t.err == nil; i++ {
		model.Faces = append(model.Faces, t.int())
	}

	t.section = "lines"
	lineCount := t.count()
	for i := 0; i < lineCount*4 && t.err == nil; i++ {
		model.Lines = append(model.Lines, t.int())
	}

	t.section = "joints"
	jointCount := t.count()
	joints := make([]wilt.Joint, 0, max(jointCount, 0))
	for i := 0; i < jointCount && t.err == nil; i++ {
		parent := t.int()
		loc := opts.location(t.float(), t.float(), t.float())
		rot := opts.rotation(t.float(), t.float(), t.float(), t.float())
		joints = append(joints, wilt.NewJointFromPose(parent, loc, rot))
	}

	if t.err != nil {
		return nil, fmt.Errorf("model %q: %w", name, t.err)
	}

	if len(joints) > 0 {
		sk, err := wilt.NewSkeleton(joints)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", name, err)
		}
		model.Skeleton = sk
	}

	if bounds != nil {
		model.Bounds = *bounds
	} else {
		model.Bounds = vertexBounds(model.Vertices)
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}

	return model, nil

}

// ReadAnimation reads a text animation: a frame count and a joint count, then for every frame, one
// "x y z w x y z" location and rotation per joint.
func ReadAnimation(r io.Reader, name string, opts Options) (*wilt.AnimationClip, error) {

	t := newTokens(r)

	t.section = "header"
	frameCount := t.count()
	jointCount := t.count()

	if t.err != nil {
		return nil, fmt.Errorf("animation %q: %w", name, t.err)
	}

	frames := make([]wilt.Frame, frameCount)

	for f := range frames {
		t.section = "frame " + strconv.Itoa(f)
		frames[f] = make(wilt.Frame, jointCount)
		for j := range frames[f] {
			frames[f][j] = wilt.JointPose{
				Location: opts.location(t.float(), t.float(), t.float()),
				Rotation: opts.rotation(t.float(), t.float(), t.float(), t.float()),
			}
		}
		if t.err != nil {
			return nil, fmt.Errorf("animation %q: %w", name, t.err)
		}
	}

	clip, err := wilt.NewAnimationClip(name, frames)
	if err != nil {
		return nil, err
	}

	// Frames with zero joints aren't ragged, but they still don't match the header.
	if clip.JointCount != jointCount {
		return nil, fmt.Errorf("animation %q: header lists %d joints, frames hold %d: %w", name, jointCount, clip.JointCount, wilt.ErrRaggedFrame)
	}

	return clip, nil

}

// LoadModelFile reads the text model at path, named after the file.
func LoadModelFile(path string, opts Options) (*wilt.Model, error) {

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	model, err := ReadModel(f, assetName(path), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	wilt.Logger().Info("model loaded", "path", path, "vertices", model.Vertices.Len(), "faces", len(model.Faces)/3)

	return model, nil

}

// LoadAnimationFile reads the text animation at path, named after the file.
func LoadAnimationFile(path string, opts Options) (*wilt.AnimationClip, error) {

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	clip, err := ReadAnimation(f, assetName(path), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	wilt.Logger().Info("animation loaded", "path", path, "frames", clip.FrameCount(), "joints", clip.JointCount)

	return clip, nil

}

// LoadModelWithAnimations reads a text model and every text animation given, attaching each clip to the model.
// A clip authored for a different skeleton fails the whole load.
func LoadModelWithAnimations(modelPath string, animationPaths []string, opts Options) (*wilt.Model, error) {

	model, err := LoadModelFile(modelPath, opts)
	if err != nil {
		return nil, err
	}

	for _, p := range animationPaths {
		clip, err := LoadAnimationFile(p, opts)
		if err != nil {
			return nil, err
		}
		if err := model.AddClip(clip); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	return model, nil

}

func assetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func vertexBounds(vertices wilt.VertexBuffer) wilt.AABB {
	points := make([]wilt.Vector3, vertices.Len())
	for i := range points {
		points[i] = vertices.Position(i)
	}
	return wilt.NewAABBFromPoints(points...)
}
