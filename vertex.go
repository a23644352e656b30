package wilt

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/chewxy/math32"
)

// VertexStride is the number of float32 values packed per vertex.
const VertexStride = 10

// Offsets of each attribute within a packed vertex.
const (
	VertexPositionX = iota
	VertexPositionY
	VertexPositionZ
	VertexInfluence1
	VertexInfluence2
	VertexInfluence3
	VertexWeight1
	VertexWeight2
	VertexWeight3
	VertexOrder
)

// Vertex is one unpacked vertex. Influences index into a PressureField; Weights are arbitrary blend coefficients
// and are not expected to sum to 1.
type Vertex struct {
	Position   Vector3
	Influences [3]int
	Weights    [3]float32
	Order      float32
}

// Pack writes the Vertex into dst, which must hold at least VertexStride values.
func (v Vertex) Pack(dst []float32) {
	dst[VertexPositionX] = v.Position.X
	dst[VertexPositionY] = v.Position.Y
	dst[VertexPositionZ] = v.Position.Z
	for i := 0; i < 3; i++ {
		dst[VertexInfluence1+i] = float32(v.Influences[i])
		dst[VertexWeight1+i] = v.Weights[i]
	}
	dst[VertexOrder] = v.Order
}

// VertexBuffer is a flat, packed vertex array laid out exactly as it is uploaded:
// x y z, three influence indices (stored as floats), three weights, and an order value.
type VertexBuffer []float32

// NewVertexBuffer packs the vertices given into a new VertexBuffer.
func NewVertexBuffer(vertices ...Vertex) VertexBuffer {
	buf := make(VertexBuffer, len(vertices)*VertexStride)
	for i, v := range vertices {
		v.Pack(buf[i*VertexStride:])
	}
	return buf
}

// Len returns the number of whole vertices in the buffer.
func (buf VertexBuffer) Len() int {
	return len(buf) / VertexStride
}

// Position returns the position of the vertex at the index given.
func (buf VertexBuffer) Position(index int) Vector3 {
	i := index * VertexStride
	return Vector3{buf[i+VertexPositionX], buf[i+VertexPositionY], buf[i+VertexPositionZ]}
}

// Vertex unpacks the vertex at the index given.
func (buf VertexBuffer) Vertex(index int) Vertex {
	i := index * VertexStride
	return Vertex{
		Position:   buf.Position(index),
		Influences: [3]int{int(buf[i+VertexInfluence1]), int(buf[i+VertexInfluence2]), int(buf[i+VertexInfluence3])},
		Weights:    [3]float32{buf[i+VertexWeight1], buf[i+VertexWeight2], buf[i+VertexWeight3]},
		Order:      buf[i+VertexOrder],
	}
}

// Clone returns a copy of the VertexBuffer.
func (buf VertexBuffer) Clone() VertexBuffer {
	return append(VertexBuffer(nil), buf...)
}

// Validate checks that the buffer holds whole vertices and that every influence index is a whole number
// inside the probe range.
func (buf VertexBuffer) Validate() error {

	if len(buf)%VertexStride != 0 {
		return fmt.Errorf("%d floats: %w", len(buf), ErrVertexStride)
	}

	for v := 0; v < buf.Len(); v++ {
		for k := 0; k < 3; k++ {
			g := buf[v*VertexStride+VertexInfluence1+k]
			if g < 0 || g >= ProbeCount || g != math32.Floor(g) {
				return fmt.Errorf("vertex %d influence %d is %v: %w", v, k+1, g, ErrInfluenceIndex)
			}
		}
	}

	return nil

}

// Bytes returns the buffer as little-endian bytes, ready to upload.
func (buf VertexBuffer) Bytes() []byte {
	out := make([]byte, len(buf)*4)
	for i, f := range buf {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}

// DeformVertices writes src into dst, scaling each vertex's position about the model origin by its blend of the
// pressure field, capped by the vertex's own bound. Every other attribute is copied as-is. dst must be the same
// length as src, and bounds must hold one value per vertex. An influence outside the probe range fails with
// ErrInfluenceIndex before dst is touched.
func DeformVertices(dst, src VertexBuffer, field PressureField, bounds []float32) error {

	if len(dst) != len(src) || len(src)%VertexStride != 0 {
		return fmt.Errorf("deform %d floats into %d: %w", len(src), len(dst), ErrVertexStride)
	}

	count := src.Len()

	if len(bounds) < count {
		return fmt.Errorf("%d bounds for %d vertices: %w", len(bounds), count, ErrBoundsLength)
	}

	for v := 0; v < count; v++ {
		for k := 0; k < 3; k++ {
			if g := src[v*VertexStride+VertexInfluence1+k]; !(g >= 0 && g < ProbeCount) {
				return fmt.Errorf("vertex %d influence %d is %v: %w", v, k+1, g, ErrInfluenceIndex)
			}
		}
	}

	copy(dst, src)

	for v := 0; v < count; v++ {

		i := v * VertexStride

		amount := field[int(src[i+VertexInfluence1])]*src[i+VertexWeight1] +
			field[int(src[i+VertexInfluence2])]*src[i+VertexWeight2] +
			field[int(src[i+VertexInfluence3])]*src[i+VertexWeight3]

		if amount > bounds[v] {
			amount = bounds[v]
		}

		dst[i+VertexPositionX] = src[i+VertexPositionX] * amount
		dst[i+VertexPositionY] = src[i+VertexPositionY] * amount
		dst[i+VertexPositionZ] = src[i+VertexPositionZ] * amount

	}

	return nil

}
