// Package wilt samples skeletal animation poses and deforms character meshes by proximity to the surrounding
// collision geometry. Every frame, a deformable entity casts a ray along each of its vertices into nearby
// triangles, folds the hit distances into a 12-direction pressure field, and rescales its vertices by that
// field before the buffer is uploaded.
package wilt

import (
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
)

// MaxJoints is the fixed joint ceiling of the renderer's joint uniform array.
const MaxJoints = 24

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// SetLogger sets the logger wilt reports through. Passing nil silences wilt again.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger.Store(l)
}

// Logger returns the logger wilt currently reports through.
func Logger() *slog.Logger {
	return logger.Load()
}

const (
	ErrorEmptySkeleton       = "error: skeleton has no joints"
	ErrorJointOrder          = "error: joint parent index must be -1 or lower than the joint's own index"
	ErrorTooManyJoints       = "error: skeleton exceeds the maximum joint count"
	ErrorEmptyClip           = "error: animation clip has no frames"
	ErrorRaggedFrame         = "error: animation frame joint count differs from the clip's first frame"
	ErrorJointCountMismatch  = "error: animation clip joint count does not match the skeleton"
	ErrorVertexStride        = "error: vertex buffer length is not a multiple of the vertex stride"
	ErrorInfluenceIndex      = "error: vertex influence index is outside of the probe range"
	ErrorBoundsLength        = "error: bound array length does not match the vertex count"
	ErrorDeformTargetMissing = "error: deform target buffer does not match its bind vertices"
)

var (
	ErrEmptySkeleton       = errors.New(ErrorEmptySkeleton)
	ErrJointOrder          = errors.New(ErrorJointOrder)
	ErrTooManyJoints       = errors.New(ErrorTooManyJoints)
	ErrEmptyClip           = errors.New(ErrorEmptyClip)
	ErrRaggedFrame         = errors.New(ErrorRaggedFrame)
	ErrJointCountMismatch  = errors.New(ErrorJointCountMismatch)
	ErrVertexStride        = errors.New(ErrorVertexStride)
	ErrInfluenceIndex      = errors.New(ErrorInfluenceIndex)
	ErrBoundsLength        = errors.New(ErrorBoundsLength)
	ErrDeformTargetMissing = errors.New(ErrorDeformTargetMissing)
)
