package meshing

import (
	"voxel-engine/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// VoxelLookup answers voxel queries outside the chunk being meshed. ok is
// false when the chunk holding global is not resident.
type VoxelLookup interface {
	LookupVoxel(global world.Coord) (v world.Voxel, ok bool)
}

// mesher holds the per-chunk state shared by all six face directions.
type mesher struct {
	chunk  *world.Chunk
	lookup VoxelLookup
	dims   [3]int
	origin [3]int
}

// BuildGreedyMesh merges the exposed faces of c into maximal rectangles, one
// face direction and one layer at a time. Faces on the chunk border consult
// lookup for the neighboring voxel; a nil lookup or a missing neighbor chunk
// counts as air.
func BuildGreedyMesh(c *world.Chunk, lookup VoxelLookup) *MeshData {
	m := &mesher{
		chunk:  c,
		lookup: lookup,
		dims:   c.Dims().Array(),
		origin: c.Origin().Array(),
	}
	b := NewBuilder(64)
	for face := 0; face < 6; face++ {
		m.buildFace(b, face)
	}
	return b.MeshData()
}

// voxel returns the chunk voxel at local position p.
func (m *mesher) voxel(p [3]int) world.Voxel {
	return m.chunk.Get(p[0], p[1], p[2])
}

// faceVisible reports whether the face of p looking along axis (toward -1 for
// back faces) is exposed.
func (m *mesher) faceVisible(p [3]int, axis int, backFace bool) bool {
	if backFace {
		p[axis]--
	} else {
		p[axis]++
	}
	if p[axis] >= 0 && p[axis] < m.dims[axis] {
		return !m.voxel(p).IsVisible()
	}
	if m.lookup == nil {
		return true
	}
	global := world.Coord{X: m.origin[0] + p[0], Y: m.origin[1] + p[1], Z: m.origin[2] + p[2]}
	v, ok := m.lookup.LookupVoxel(global)
	if !ok {
		return true
	}
	return !v.IsVisible()
}

// mergeable reports whether p can join a quad seeded with voxel seed.
func (m *mesher) mergeable(seed world.Voxel, p [3]int, axis int, backFace bool) bool {
	v := m.voxel(p)
	return v == seed && v.IsVisible() && m.faceVisible(p, axis, backFace)
}

func (m *mesher) buildFace(b *Builder, face int) {
	backFace := face > 2
	direction := face % 3
	axisA := (face + 1) % 3
	axisB := (face + 2) % 3
	dimA, dimB := m.dims[axisA], m.dims[axisB]

	merged := make([]bool, dimA*dimB)

	var start [3]int
	for start[direction] = 0; start[direction] < m.dims[direction]; start[direction]++ {
		clear(merged)

		for start[axisA] = 0; start[axisA] < dimA; start[axisA]++ {
			for start[axisB] = 0; start[axisB] < dimB; start[axisB]++ {
				if merged[start[axisA]*dimB+start[axisB]] {
					continue
				}
				seed := m.voxel(start)
				if !seed.IsVisible() || !m.faceVisible(start, direction, backFace) {
					continue
				}

				// width along axisB
				pos := start
				for pos[axisB] = start[axisB] + 1; pos[axisB] < dimB; pos[axisB]++ {
					if merged[pos[axisA]*dimB+pos[axisB]] || !m.mergeable(seed, pos, direction, backFace) {
						break
					}
				}
				width := pos[axisB] - start[axisB]

				// height along axisA, only whole rows of the same width
				height := 1
			rows:
				for pos[axisA] = start[axisA] + 1; pos[axisA] < dimA; pos[axisA]++ {
					for pos[axisB] = start[axisB]; pos[axisB] < start[axisB]+width; pos[axisB]++ {
						if merged[pos[axisA]*dimB+pos[axisB]] || !m.mergeable(seed, pos, direction, backFace) {
							break rows
						}
					}
					height++
				}

				var du, dv [3]int
				du[axisA] = height
				dv[axisB] = width

				offset := start
				if !backFace {
					offset[direction]++
				}

				b.AddQuad([4]mgl32.Vec3{
					vec(offset),
					vec(add(offset, du)),
					vec(add(add(offset, du), dv)),
					vec(add(offset, dv)),
				}, seed.Color(), backFace)

				for a := 0; a < height; a++ {
					row := (start[axisA] + a) * dimB
					for w := 0; w < width; w++ {
						merged[row+start[axisB]+w] = true
					}
				}
			}
		}
	}
}

func add(a, b [3]int) [3]int {
	return [3]int{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func vec(p [3]int) mgl32.Vec3 {
	return mgl32.Vec3{float32(p[0]), float32(p[1]), float32(p[2])}
}
