package wilt

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
)

// FinishMode controls what an Animator does when its playhead runs off either end of a clip.
type FinishMode int

const (
	FinishModeLoop     FinishMode = iota // Wrap the playhead around and keep playing.
	FinishModePingPong                   // Reverse the play direction at either end.
	FinishModeStop                       // Clamp the playhead to the end and stop playing.
)

func (fm FinishMode) String() string {
	switch fm {
	case FinishModeLoop:
		return "loop"
	case FinishModePingPong:
		return "ping-pong"
	case FinishModeStop:
		return "stop"
	}
	return fmt.Sprintf("FinishMode(%d)", int(fm))
}

// MarshalText implements encoding.TextMarshaler.
func (fm FinishMode) MarshalText() ([]byte, error) {
	return []byte(fm.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, accepting "loop", "ping-pong" (or "pingpong"), and "stop".
func (fm *FinishMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "loop":
		*fm = FinishModeLoop
	case "pingpong", "ping-pong", "ping_pong":
		*fm = FinishModePingPong
	case "stop":
		*fm = FinishModeStop
	default:
		return fmt.Errorf("unknown finish mode %q", string(text))
	}
	return nil
}

// Animator holds one instance's playback state for a clip on a Skeleton: the clip being played, the playhead,
// and how playback ends. Many Animators can share the same Skeleton and clips.
type Animator struct {
	Skeleton        *Skeleton
	Clip            *AnimationClip
	FramesPerSecond float32
	Playhead        float32 // Playhead position in seconds
	PlaySpeed       float32
	Playing         bool
	FinishMode      FinishMode

	// OnFinish is called each time the playhead runs off the clip: on every wrap when looping, once on stopping,
	// and when ping-ponging only on the return to the start, so it fires once per full round trip.
	OnFinish func()

	pose     Pose
	matrices JointMatrices
}

// NewAnimator returns a new Animator for the Skeleton given, looping at framesPerSecond.
func NewAnimator(skeleton *Skeleton, framesPerSecond float32) *Animator {
	return &Animator{
		Skeleton:        skeleton,
		FramesPerSecond: framesPerSecond,
		PlaySpeed:       1,
		FinishMode:      FinishModeLoop,
		matrices:        IdentityJointMatrices(),
	}
}

// Clone returns a copy of the Animator, sharing its Skeleton and clip.
func (anim *Animator) Clone() *Animator {
	newAnim := NewAnimator(anim.Skeleton, anim.FramesPerSecond)
	newAnim.Clip = anim.Clip
	newAnim.Playhead = anim.Playhead
	newAnim.PlaySpeed = anim.PlaySpeed
	newAnim.Playing = anim.Playing
	newAnim.FinishMode = anim.FinishMode
	newAnim.OnFinish = anim.OnFinish
	return newAnim
}

// Play starts playing the clip given from the beginning. If the clip is already playing, this does nothing.
// It returns an error if the clip was authored for a different skeleton.
func (anim *Animator) Play(clip *AnimationClip) error {

	if err := anim.Skeleton.Accepts(clip); err != nil {
		return err
	}

	if anim.Clip != clip || !anim.Playing {
		anim.Clip = clip
		anim.Playhead = 0
		anim.Playing = true
	}

	return nil

}

// Length returns the playable length of the current clip in seconds. Looping clips wrap from the last frame back
// to the first, so they run one frame longer than clips that stop or ping-pong.
func (anim *Animator) Length() float32 {
	if anim.Clip == nil {
		return 0
	}
	if anim.FinishMode == FinishModeLoop {
		return anim.Clip.Period(anim.FramesPerSecond)
	}
	return anim.Clip.Duration(anim.FramesPerSecond)
}

// Update advances the playhead by dt seconds, scaled by PlaySpeed, applying the Animator's FinishMode.
func (anim *Animator) Update(dt float32) {

	if !anim.Playing || anim.Clip == nil {
		return
	}

	anim.Playhead += dt * anim.PlaySpeed

	length := anim.Length()

	if anim.Playhead <= length && anim.Playhead >= 0 {
		return
	}

	switch anim.FinishMode {

	case FinishModeLoop:

		if length > 0 {
			anim.Playhead = math32.Mod(anim.Playhead, length)
			if anim.Playhead < 0 {
				anim.Playhead += length
			}
		} else {
			anim.Playhead = 0
		}

		if anim.OnFinish != nil {
			anim.OnFinish()
		}

	case FinishModePingPong:

		if anim.Playhead > length {
			anim.Playhead = length
		} else {
			anim.Playhead = 0
			if anim.OnFinish != nil {
				anim.OnFinish()
			}
		}

		anim.PlaySpeed *= -1

	case FinishModeStop:

		if anim.Playhead > length {
			anim.Playhead = length
		} else {
			anim.Playhead = 0
		}

		anim.Playing = false

		if anim.OnFinish != nil {
			anim.OnFinish()
		}

	}

}

// Pose samples the current clip at the playhead. The returned Pose is reused by the next call.
func (anim *Animator) Pose() Pose {
	if anim.Clip == nil {
		anim.pose = append(anim.pose[:0], anim.Skeleton.BindPose()...)
		return anim.pose
	}
	anim.pose = SamplePoseInto(anim.pose, anim.Clip, anim.Playhead, anim.FramesPerSecond)
	return anim.pose
}

// Matrices samples and composes the current pose, returning the joint matrices to upload. The returned array is
// reused by the next call.
func (anim *Animator) Matrices() *JointMatrices {
	ComposePoseInto(&anim.matrices, anim.Skeleton, anim.Pose())
	return &anim.matrices
}
