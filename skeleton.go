package wilt

import "fmt"

// Joint is one joint of a Skeleton. Parent is the index of the parent joint, or -1 for a root.
type Joint struct {
	Parent    int
	BindLocal Matrix4
}

// NewJointFromPose returns a Joint whose bind-local transform is built from a location and rotation, the same
// way animated poses are turned into matrices.
func NewJointFromPose(parent int, location Vector3, rotation Quaternion) Joint {
	return Joint{
		Parent:    parent,
		BindLocal: JointPose{Location: location, Rotation: rotation}.LocalTransform(),
	}
}

// Skeleton is an immutable joint hierarchy stored in topological order: every joint's parent comes before it.
// A Skeleton is shared by every instance of the Model that owns it.
type Skeleton struct {
	joints      []Joint
	invBindLocs []Matrix4
}

// NewSkeleton validates the joints given and returns a Skeleton built from a copy of them.
func NewSkeleton(joints []Joint) (*Skeleton, error) {

	if len(joints) == 0 {
		return nil, ErrEmptySkeleton
	}

	if len(joints) > MaxJoints {
		return nil, fmt.Errorf("%d joints (max %d): %w", len(joints), MaxJoints, ErrTooManyJoints)
	}

	sk := &Skeleton{
		joints:      make([]Joint, len(joints)),
		invBindLocs: make([]Matrix4, len(joints)),
	}

	for i, j := range joints {
		if j.Parent < -1 || j.Parent >= i {
			return nil, fmt.Errorf("joint %d has parent %d: %w", i, j.Parent, ErrJointOrder)
		}
		sk.joints[i] = j
		sk.invBindLocs[i] = j.BindLocal.Inverted()
	}

	return sk, nil

}

// JointCount returns the number of joints in the Skeleton.
func (sk *Skeleton) JointCount() int {
	return len(sk.joints)
}

// Joint returns the joint at the index given.
func (sk *Skeleton) Joint(index int) Joint {
	return sk.joints[index]
}

// Accepts returns an error wrapping ErrJointCountMismatch if the clip was authored for a skeleton with a different
// joint count. Check this when loading; the per-frame path assumes it holds.
func (sk *Skeleton) Accepts(clip *AnimationClip) error {
	if clip.JointCount != len(sk.joints) {
		return fmt.Errorf("clip %q has %d joints, skeleton has %d: %w", clip.Name, clip.JointCount, len(sk.joints), ErrJointCountMismatch)
	}
	return nil
}

// BindPose returns a Pose that reproduces the Skeleton's bind transforms exactly, i.e. an identity local pose for
// every joint.
func (sk *Skeleton) BindPose() Pose {
	pose := make(Pose, len(sk.joints))
	for i := range pose {
		pose[i] = JointPose{Rotation: NewQuaternionIdentity()}
	}
	return pose
}
