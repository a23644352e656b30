package wilt

// JointMatrices is the fixed-size joint matrix array handed to the renderer. Slots past the skeleton's joint count
// stay identity.
type JointMatrices [MaxJoints]Matrix4

// IdentityJointMatrices returns a JointMatrices with every slot set to identity.
func IdentityJointMatrices() JointMatrices {
	var jm JointMatrices
	for i := range jm {
		jm[i] = identityMatrix
	}
	return jm
}

// Floats flattens the first n matrices into a single slice for a uniform upload, 16 floats per matrix.
func (jm *JointMatrices) Floats(n int) []float32 {
	n = clamp(n, 0, MaxJoints)
	out := make([]float32, 0, n*16)
	for i := 0; i < n; i++ {
		f := jm[i].Floats()
		out = append(out, f[:]...)
	}
	return out
}

// ComposePose combines the Skeleton's bind hierarchy with the pose given, returning one delta matrix per joint
// that carries a bind-space vertex to its animated position.
func ComposePose(skeleton *Skeleton, pose Pose) JointMatrices {
	jm := IdentityJointMatrices()
	ComposePoseInto(&jm, skeleton, pose)
	return jm
}

// ComposePoseInto composes the pose into dst without allocating. The pose must have one JointPose per joint.
func ComposePoseInto(dst *JointMatrices, skeleton *Skeleton, pose Pose) {

	var forward, backward [MaxJoints]Matrix4

	count := skeleton.JointCount()

	for i := 0; i < count; i++ {

		joint := skeleton.joints[i]

		animatedLocal := pose[i].LocalTransform()

		// Row vectors: a.Mult(b) applies a, then b, so the child's own transforms come first.
		if joint.Parent < 0 {
			forward[i] = animatedLocal.Mult(joint.BindLocal)
			backward[i] = skeleton.invBindLocs[i]
		} else {
			forward[i] = animatedLocal.Mult(joint.BindLocal).Mult(forward[joint.Parent])
			backward[i] = backward[joint.Parent].Mult(skeleton.invBindLocs[i])
		}

		dst[i] = backward[i].Mult(forward[i])

	}

	for i := count; i < MaxJoints; i++ {
		dst[i] = identityMatrix
	}

}
