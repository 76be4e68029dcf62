package physics

import (
	"math"

	"voxel-engine/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MinReachDistance = 0.1
	MaxReachDistance = 8.0

	stepSize = float32(0.02)
)

// VoxelQuery answers voxel lookups for loaded chunks.
type VoxelQuery interface {
	LookupVoxel(global world.Coord) (world.Voxel, bool)
}

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	HitPosition world.Coord
	// AdjacentPosition is the last empty voxel before the hit, where a
	// placed voxel would go.
	AdjacentPosition world.Coord
	Distance         float32
	Hit              bool
}

// voxelAt returns the voxel cell containing pos. Voxel (x, y, z) spans
// [x, x+1) on every axis.
func voxelAt(pos mgl32.Vec3) world.Coord {
	return world.Coord{
		X: int(math.Floor(float64(pos.X()))),
		Y: int(math.Floor(float64(pos.Y()))),
		Z: int(math.Floor(float64(pos.Z()))),
	}
}

// Raycast marches from start along direction and reports the first visible
// voxel between minDist and maxDist. Unloaded chunks count as empty.
func Raycast(start, direction mgl32.Vec3, minDist, maxDist float32, q VoxelQuery) RaycastResult {
	if direction.Len() == 0 {
		return RaycastResult{}
	}
	direction = direction.Normalize()
	steps := int(maxDist / stepSize)

	lastEmpty := voxelAt(start)
	for i := 0; i <= steps; i++ {
		dist := float32(i) * stepSize
		if dist < minDist {
			continue
		}
		cell := voxelAt(start.Add(direction.Mul(dist)))
		if v, ok := q.LookupVoxel(cell); ok && v.IsVisible() {
			return RaycastResult{
				HitPosition:      cell,
				AdjacentPosition: lastEmpty,
				Distance:         dist,
				Hit:              true,
			}
		}
		lastEmpty = cell
	}
	return RaycastResult{}
}
