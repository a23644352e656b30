package wilt

import (
	"fmt"

	"github.com/chewxy/math32"
)

// JointPose is one joint's local location and rotation within a single animation frame.
type JointPose struct {
	Location Vector3
	Rotation Quaternion
}

// Interpolate blends linearly from the calling JointPose towards the other one. Rotations are blended
// componentwise and are not renormalized.
func (jp JointPose) Interpolate(other JointPose, t float32) JointPose {
	return JointPose{
		Location: jp.Location.Lerp(other.Location, t),
		Rotation: jp.Rotation.Lerp(other.Rotation, t),
	}
}

// LocalTransform returns the joint's local Matrix4: the rotation is applied first, then the translation.
func (jp JointPose) LocalTransform() Matrix4 {
	return NewMatrix4FromPose(jp.Location, jp.Rotation)
}

// Pose is one JointPose per joint, indexed exactly like the Skeleton it is applied to.
type Pose []JointPose

// Frame is a single authored Pose in an AnimationClip.
type Frame = Pose

// AnimationClip is an ordered set of Frames. A clip is loaded once and shared read-only by every instance
// that plays it.
type AnimationClip struct {
	Name       string
	Frames     []Frame
	JointCount int
}

// NewAnimationClip returns an AnimationClip over the frames given. It fails if there are no frames, or if any frame's
// joint count differs from the first frame's.
func NewAnimationClip(name string, frames []Frame) (*AnimationClip, error) {

	if len(frames) == 0 {
		return nil, fmt.Errorf("clip %q: %w", name, ErrEmptyClip)
	}

	jointCount := len(frames[0])

	for i, f := range frames {
		if len(f) != jointCount {
			return nil, fmt.Errorf("clip %q frame %d has %d joints, expected %d: %w", name, i, len(f), jointCount, ErrRaggedFrame)
		}
	}

	return &AnimationClip{
		Name:       name,
		Frames:     frames,
		JointCount: jointCount,
	}, nil

}

// FrameCount returns the number of frames in the clip.
func (clip *AnimationClip) FrameCount() int {
	return len(clip.Frames)
}

// Period returns how long, in seconds, the clip takes to loop once at the given frame rate.
func (clip *AnimationClip) Period(framesPerSecond float32) float32 {
	if framesPerSecond <= 0 {
		return 0
	}
	return float32(len(clip.Frames)) / framesPerSecond
}

// Duration returns the time, in seconds, from the first frame to the last at the given frame rate. This is the
// length of a clip that is not wrapped back around to its first frame.
func (clip *AnimationClip) Duration(framesPerSecond float32) float32 {
	if framesPerSecond <= 0 {
		return 0
	}
	return float32(len(clip.Frames)-1) / framesPerSecond
}

// SamplePose returns the clip's pose at the given time. The clip loops forever in both directions, so any time
// is valid.
func SamplePose(clip *AnimationClip, time, framesPerSecond float32) Pose {
	return SamplePoseInto(make(Pose, clip.JointCount), clip, time, framesPerSecond)
}

// SamplePoseInto samples the clip's pose at the given time into dst, growing it if it's too small, and returns it.
func SamplePoseInto(dst Pose, clip *AnimationClip, time, framesPerSecond float32) Pose {

	if cap(dst) < clip.JointCount {
		dst = make(Pose, clip.JointCount)
	}
	dst = dst[:clip.JointCount]

	frame1, frame2, t := clip.framesAt(time, framesPerSecond)

	// On an exact frame, copy the frame so the result carries no blending error.
	if t == 0 {
		copy(dst, clip.Frames[frame1])
		return dst
	}

	f1 := clip.Frames[frame1]
	f2 := clip.Frames[frame2]

	for i := range dst {
		dst[i] = f1[i].Interpolate(f2[i], t)
	}

	return dst

}

// framesAt returns the two frames to blend between at the given time, and the blend percentage between them.
func (clip *AnimationClip) framesAt(time, framesPerSecond float32) (int, int, float32) {

	frameCount := float32(len(clip.Frames))

	framePos := math32.Mod(time*framesPerSecond, frameCount)
	if framePos < 0 {
		framePos += frameCount
	}

	// Mod of a tiny negative number can round up to exactly frameCount.
	if framePos >= frameCount || framePos != framePos {
		framePos = 0
	}

	frame1 := int(math32.Floor(framePos))
	frame2 := (frame1 + 1) % len(clip.Frames)

	return frame1, frame2, framePos - float32(frame1)

}
