package physics_test

import (
	"testing"

	"voxel-engine/internal/physics"
	"voxel-engine/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

type voxelSet map[world.Coord]world.Voxel

func (s voxelSet) LookupVoxel(c world.Coord) (world.Voxel, bool) {
	return s[c], true
}

func TestRaycast(t *testing.T) {
	w := voxelSet{{X: 5}: world.StoneVoxel}

	start := mgl32.Vec3{0.5, 0.5, 0.5}
	dir := mgl32.Vec3{1, 0, 0}

	result := physics.Raycast(start, dir, 0.1, 10, w)
	if !result.Hit {
		t.Fatalf("Expected hit, got miss")
	}
	if result.HitPosition != (world.Coord{X: 5}) {
		t.Errorf("Expected hit at (5, 0, 0), got %v", result.HitPosition)
	}
	if result.AdjacentPosition != (world.Coord{X: 4}) {
		t.Errorf("Expected adjacent at (4, 0, 0), got %v", result.AdjacentPosition)
	}
	// Ray starts at X=0.5 and enters the voxel at X=5.0.
	if result.Distance < 4.49 || result.Distance > 4.53 {
		t.Errorf("Expected distance 4.5, got %f", result.Distance)
	}

	if r := physics.Raycast(start, dir, 0.1, 4, w); r.Hit {
		t.Errorf("Expected miss due to maxDist, got hit at %v", r.HitPosition)
	}
	if r := physics.Raycast(start, mgl32.Vec3{0, 1, 0}, 0.1, 10, w); r.Hit {
		t.Errorf("Expected miss, got hit")
	}
	if r := physics.Raycast(start, mgl32.Vec3{}, 0.1, 10, w); r.Hit {
		t.Errorf("zero direction should miss")
	}
}

func TestRaycastDiagonal(t *testing.T) {
	w := voxelSet{{X: 2, Y: 2, Z: 2}: world.GrassVoxel}
	// The direction is normalized internally.
	result := physics.Raycast(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{1, 1, 1}, 0.1, 10, w)
	if !result.Hit || result.HitPosition != (world.Coord{X: 2, Y: 2, Z: 2}) {
		t.Fatalf("result = %+v", result)
	}
}

func TestRaycastHitsTransparentVoxel(t *testing.T) {
	glass := world.Voxel{R: 200, G: 200, B: 255, A: 80}
	w := voxelSet{{X: 2}: world.Air, {X: 3}: glass}
	result := physics.Raycast(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, 0.1, 10, w)
	if !result.Hit || result.HitPosition != (world.Coord{X: 3}) {
		t.Fatalf("transparent voxels are still pickable: %+v", result)
	}
}
