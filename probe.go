package wilt

import (
	"github.com/chewxy/math32"
)

// ProbeCount is the number of fixed probe directions in a PressureField.
const ProbeCount = 12

const (
	DefaultMaxProbeDistance = 2.0    // How far, in unit-scaled model space, probe rays reach
	DefaultProbeMargin      = 0.0625 // Extra ray length past the max distance, subtracted again from each vertex's bound
)

// ProbeDirections are the 12 vertices of an icosahedron, the fixed directions a PressureField is sampled along.
var ProbeDirections = [ProbeCount]Vector3{
	{0, 0, 1},
	{0.8944, 0, 0.4472},
	{0.2764, -0.8507, 0.4472},
	{-0.7236, -0.5257, 0.4472},
	{-0.7236, 0.5257, 0.4472},
	{0.2764, 0.8507, 0.4472},
	{-0.2764, -0.8507, -0.4472},
	{0.7236, -0.5257, -0.4472},
	{0.7236, 0.5257, -0.4472},
	{-0.2764, 0.8507, -0.4472},
	{-0.8944, 0, -0.4472},
	{0, 0, -1},
}

// probeWeightTable is sampled over the angle between a vertex and a probe direction, as a fraction of pi.
// Obstructions in front of a probe compress it; obstructions behind it relax it slightly.
var probeWeightTable = [12]float32{-0.025, -0.020, -0.015, 0, 0.005, 0.01, 0.01, 0.005, 0, 0, 0, 0}

// probeWeight linearly samples probeWeightTable at a (in [0, 1]) times 10.
func probeWeight(a float32) float32 {
	pos := clamp(a, 0, 1) * 10
	index := clamp(int(math32.Floor(pos)), 0, len(probeWeightTable)-2)
	frac := clamp(pos-float32(index), 0, 1)
	return probeWeightTable[index] + (probeWeightTable[index+1]-probeWeightTable[index])*frac
}

// PressureField is one entity's 12 probe amounts for one frame. 1 is neutral.
type PressureField [ProbeCount]float32

// NeutralPressureField returns a PressureField that leaves every vertex where it is.
func NeutralPressureField() PressureField {
	var field PressureField
	for i := range field {
		field[i] = 1
	}
	return field
}

// IsNeutral returns true if every probe amount is exactly 1.
func (field PressureField) IsNeutral() bool {
	for _, v := range field {
		if v != 1 {
			return false
		}
	}
	return true
}

// ProbeSettings controls how probe rays are cast.
type ProbeSettings struct {
	MaxDistance float32 // Probe reach in unit-scaled model space
	Margin      float32 // Extra reach past MaxDistance, taken back off of each vertex's bound

	// WorldRaycast casts each vertex's ray through CollisionSurface.RaycastNearest instead of against the
	// triangles captured by the single box query.
	WorldRaycast bool

	// Doublesided lets rays strike triangles from behind, in either mode.
	Doublesided bool
}

// DefaultProbeSettings returns the default ProbeSettings.
func DefaultProbeSettings() ProbeSettings {
	return ProbeSettings{
		MaxDistance: DefaultMaxProbeDistance,
		Margin:      DefaultProbeMargin,
		Doublesided: true,
	}
}

// Transform is an entity's world placement: position, facing rotation, and uniform scale.
type Transform struct {
	Position Vector3
	Rotation Quaternion
	Scale    float32
}

// NewTransform returns a Transform at the position given, with identity rotation and unit scale.
func NewTransform(position Vector3) Transform {
	return Transform{Position: position, Rotation: NewQuaternionIdentity(), Scale: 1}
}

// Matrix returns the Transform as a Matrix4 (scale, then rotate, then translate).
func (t Transform) Matrix() Matrix4 {
	return NewMatrix4Scale(t.Scale, t.Scale, t.Scale).Mult(NewMatrix4FromPose(t.Position, t.Rotation))
}

// probeScratch holds the per-call buffers BuildProbeField needs, so repeated calls don't allocate.
type probeScratch struct {
	triangles []Triangle
}

// BuildProbeField casts one ray per vertex from the entity's position out through the vertex, and folds the hit
// distances into a PressureField. Each vertex's own free distance is written to bounds, which is grown to the
// vertex count if needed and returned.
func BuildProbeField(vertices VertexBuffer, transform Transform, surface CollisionSurface, settings ProbeSettings, bounds []float32) (PressureField, []float32) {
	return buildProbeField(&probeScratch{}, vertices, transform, surface, settings, bounds)
}

func buildProbeField(scratch *probeScratch, vertices VertexBuffer, transform Transform, surface CollisionSurface, settings ProbeSettings, bounds []float32) (PressureField, []float32) {

	field := NeutralPressureField()

	count := vertices.Len()
	if cap(bounds) < count {
		bounds = make([]float32, count)
	}
	bounds = bounds[:count]

	reach := settings.MaxDistance + settings.Margin
	origin := transform.Position

	scratch.triangles = scratch.triangles[:0]

	if !settings.WorldRaycast {
		box := NewAABBAround(origin, settings.MaxDistance*transform.Scale)
		tris, err := surface.QueryTriangles(box, scratch.triangles)
		if err != nil {
			// A failed query is the same as an empty one.
			Logger().Debug("probe query failed; treating as no hit", "error", err)
			tris = tris[:0]
		}
		scratch.triangles = tris
	}

	for v := 0; v < count; v++ {

		dir := vertices.Position(v)

		to := origin.Add(transform.Rotation.RotateVec(dir).Scale(transform.Scale * reach))

		fraction := float32(1)

		if settings.WorldRaycast {
			f, err := surface.RaycastNearest(origin, to, settings.Doublesided)
			if err != nil {
				Logger().Debug("probe raycast failed; treating as no hit", "vertex", v, "error", err)
			} else {
				fraction = clamp(f, 0, 1)
			}
		} else {
			fraction = nearestRayHit(origin, to, scratch.triangles, settings.Doublesided)
		}

		closestAmount := fraction * reach

		bounds[v] = closestAmount - settings.Margin

		if closestAmount < 1 {
			for k, probe := range ProbeDirections {
				field[k] += probeWeight(dir.Angle(probe)/math32.Pi) * closestAmount
			}
		}

	}

	return field, bounds

}
