package wilt

// AABB is an axis-aligned bounding box, described by its minimum and maximum corners.
type AABB struct {
	Min, Max Vector3
}

// NewAABBAround returns an AABB centered on center that extends halfExtent along every axis.
// Negative extents are flipped so that Min never exceeds Max.
func NewAABBAround(center Vector3, halfExtent float32) AABB {
	if halfExtent < 0 {
		halfExtent = -halfExtent
	}
	ext := Vector3{halfExtent, halfExtent, halfExtent}
	return AABB{Min: center.Sub(ext), Max: center.Add(ext)}
}

// NewAABBFromPoints returns the smallest AABB that contains all of the points given. An empty point list
// returns a zero-sized AABB at the origin.
func NewAABBFromPoints(points ...Vector3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min = box.Min.Min(p)
		box.Max = box.Max.Max(p)
	}
	return box
}

// Overlaps returns true if the two AABBs share any volume. Touching boxes count as overlapping.
func (box AABB) Overlaps(other AABB) bool {
	return box.Min.X <= other.Max.X && box.Max.X >= other.Min.X &&
		box.Min.Y <= other.Max.Y && box.Max.Y >= other.Min.Y &&
		box.Min.Z <= other.Max.Z && box.Max.Z >= other.Min.Z
}

// Contains returns true if the point lies inside the AABB or on its surface.
func (box AABB) Contains(point Vector3) bool {
	return point.X >= box.Min.X && point.X <= box.Max.X &&
		point.Y >= box.Min.Y && point.Y <= box.Max.Y &&
		point.Z >= box.Min.Z && point.Z <= box.Max.Z
}

// Center returns the center point of the AABB.
func (box AABB) Center() Vector3 {
	return box.Min.Add(box.Max).Scale(0.5)
}

// Size returns the width, height, and depth of the AABB as a Vector3.
func (box AABB) Size() Vector3 {
	return box.Max.Sub(box.Min)
}

// MaxDimension returns the largest of the AABB's width, height, or depth.
func (box AABB) MaxDimension() float32 {
	s := box.Size()
	m := s.X
	if s.Y > m {
		m = s.Y
	}
	if s.Z > m {
		m = s.Z
	}
	return m
}
