package wilt

import (
	"sync"

	"github.com/chewxy/math32"
)

// Broadphase is a uniform grid of cells covering a set of triangles, used to quickly rule out triangles that
// can't be near a query box. Each cell lists the IDs of the triangles whose bounds overlap it.
// A Broadphase is read-only once built and safe for concurrent queries.
type Broadphase struct {
	GridCellCount int     // The number of cells along each axis of the grid
	cellSize      float32 // The size of each cell in the grid
	bounds        AABB
	cells         [][]int
	triBounds     []AABB
}

var broadphaseSets = sync.Pool{
	New: func() any { return &broadphaseScratch{seen: newSet[int]()} },
}

type broadphaseScratch struct {
	seen Set[int]
	ids  []int
}

// NewBroadphase returns a new Broadphase with gridCellCount cells along each axis, covering the triangles given.
func NewBroadphase(gridCellCount int, triangles []Triangle) *Broadphase {

	if gridCellCount < 1 {
		gridCellCount = 1
	}

	b := &Broadphase{
		GridCellCount: gridCellCount,
		triBounds:     make([]AABB, len(triangles)),
	}

	if len(triangles) == 0 {
		b.cells = make([][]int, gridCellCount*gridCellCount*gridCellCount)
		b.cellSize = 1
		return b
	}

	for i, tri := range triangles {
		b.triBounds[i] = tri.Bounds()
		if i == 0 {
			b.bounds = b.triBounds[i]
		} else {
			b.bounds.Min = b.bounds.Min.Min(b.triBounds[i].Min)
			b.bounds.Max = b.bounds.Max.Max(b.triBounds[i].Max)
		}
	}

	// Pad the cell size slightly so the far edge of the grid falls inside the last cell
	b.cellSize = b.bounds.MaxDimension()/float32(gridCellCount) + 0.001

	b.cells = make([][]int, gridCellCount*gridCellCount*gridCellCount)

	for triID, tb := range b.triBounds {
		b.forEachCell(tb, func(cell int) {
			b.cells[cell] = append(b.cells[cell], triID)
		})
	}

	return b

}

func (b *Broadphase) cellCoord(value, min float32) int {
	return clamp(int(math32.Floor((value-min)/b.cellSize)), 0, b.GridCellCount-1)
}

func (b *Broadphase) forEachCell(box AABB, forEach func(cell int)) {

	n := b.GridCellCount

	x0, x1 := b.cellCoord(box.Min.X, b.bounds.Min.X), b.cellCoord(box.Max.X, b.bounds.Min.X)
	y0, y1 := b.cellCoord(box.Min.Y, b.bounds.Min.Y), b.cellCoord(box.Max.Y, b.bounds.Min.Y)
	z0, z1 := b.cellCoord(box.Min.Z, b.bounds.Min.Z), b.cellCoord(box.Max.Z, b.bounds.Min.Z)

	for i := x0; i <= x1; i++ {
		for j := y0; j <= y1; j++ {
			for k := z0; k <= z1; k++ {
				forEach((i*n+j)*n + k)
			}
		}
	}

}

// TrianglesInBox appends the IDs of every triangle whose bounds overlap the box given to dst, in ascending order,
// and returns the result.
func (b *Broadphase) TrianglesInBox(box AABB, dst []int) []int {

	dst = dst[:0]

	if len(b.triBounds) == 0 || !b.bounds.Overlaps(box) {
		return dst
	}

	scratch := broadphaseSets.Get().(*broadphaseScratch)
	defer broadphaseSets.Put(scratch)
	scratch.seen.Clear()

	b.forEachCell(box, func(cell int) {
		for _, triID := range b.cells[cell] {
			if !scratch.seen.Contains(triID) && b.triBounds[triID].Overlaps(box) {
				scratch.seen.Add(triID)
			}
		}
	})

	scratch.ids = sortedInts(scratch.seen, scratch.ids)

	return append(dst, scratch.ids...)

}
