package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFloorDivMod(t *testing.T) {
	cases := []struct{ a, b, div, mod int }{
		{0, 16, 0, 0},
		{15, 16, 0, 15},
		{16, 16, 1, 0},
		{-1, 16, -1, 15},
		{-16, 16, -1, 0},
		{-17, 16, -2, 15},
		{-33, 32, -2, 31},
	}
	for _, c := range cases {
		if got := floorDiv(c.a, c.b); got != c.div {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", c.a, c.b, got, c.div)
		}
		if got := mod(c.a, c.b); got != c.mod {
			t.Errorf("mod(%d, %d) = %d, want %d", c.a, c.b, got, c.mod)
		}
	}
}

func TestChunkAndLocalOf(t *testing.T) {
	g := Coord{X: -1, Y: 17, Z: 32}
	if got := ChunkOf(g, DefaultDims); got != (Coord{X: -1, Y: 1, Z: 2}) {
		t.Errorf("ChunkOf = %v", got)
	}
	if got := LocalOf(g, DefaultDims); got != (Coord{X: 15, Y: 1, Z: 0}) {
		t.Errorf("LocalOf = %v", got)
	}
	if got := ChunkAt(mgl32.Vec3{-0.5, 15.9, 80}, DefaultDims); got != (Coord{X: -1, Y: 0, Z: 5}) {
		t.Errorf("ChunkAt = %v", got)
	}
	if got := RegionOf(Coord{X: -1, Y: 31, Z: 64}, 32); got != (Coord{X: -1, Y: 0, Z: 2}) {
		t.Errorf("RegionOf = %v", got)
	}
}

func TestCoordArrayRoundTrip(t *testing.T) {
	c := Coord{X: 3, Y: -4, Z: 5}
	if CoordFromArray(c.Array()) != c {
		t.Fatal("array round trip changed the coordinate")
	}
	if d := c.Dist(Coord{X: 3, Y: -4, Z: 10}); d != 5 {
		t.Fatalf("Dist = %v, want 5", d)
	}
}
