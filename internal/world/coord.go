package world

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Coord is an integer 3D coordinate. Depending on context it addresses a voxel
// inside a chunk, a voxel in the world, a chunk or a region.
type Coord struct {
	X, Y, Z int
}

// CoordFromArray builds a coordinate from per-axis components (0=X, 1=Y, 2=Z).
func CoordFromArray(a [3]int) Coord {
	return Coord{X: a[0], Y: a[1], Z: a[2]}
}

// Array returns the coordinate as per-axis components (0=X, 1=Y, 2=Z).
func (c Coord) Array() [3]int {
	return [3]int{c.X, c.Y, c.Z}
}

func (c Coord) Add(o Coord) Coord {
	return Coord{X: c.X + o.X, Y: c.Y + o.Y, Z: c.Z + o.Z}
}

func (c Coord) Sub(o Coord) Coord {
	return Coord{X: c.X - o.X, Y: c.Y - o.Y, Z: c.Z - o.Z}
}

// Mul multiplies component-wise by d.
func (c Coord) Mul(d Dims) Coord {
	return Coord{X: c.X * d.X, Y: c.Y * d.Y, Z: c.Z * d.Z}
}

// DistSq is the squared Euclidean distance between two coordinates.
func (c Coord) DistSq(o Coord) int {
	dx, dy, dz := c.X-o.X, c.Y-o.Y, c.Z-o.Z
	return dx*dx + dy*dy + dz*dz
}

// Dist is the Euclidean distance between two coordinates.
func (c Coord) Dist(o Coord) float64 {
	return math.Sqrt(float64(c.DistSq(o)))
}

func (c Coord) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.X), float32(c.Y), float32(c.Z)}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

// Neighbors are the six face-adjacent offsets
// (north, up, east, south, down, west).
var Neighbors = [6]Coord{
	{X: 0, Y: 0, Z: 1},
	{X: 0, Y: 1, Z: 0},
	{X: 1, Y: 0, Z: 0},
	{X: 0, Y: 0, Z: -1},
	{X: 0, Y: -1, Z: 0},
	{X: -1, Y: 0, Z: 0},
}

// Dims are the per-axis sizes of a chunk in voxels.
type Dims struct {
	X, Y, Z int
}

// DefaultDims is the cubic 16³ chunk used by most worlds.
var DefaultDims = Dims{X: 16, Y: 16, Z: 16}

// Volume is the number of voxels in a chunk of these dimensions.
func (d Dims) Volume() int { return d.X * d.Y * d.Z }

// Array returns the dimensions as per-axis components.
func (d Dims) Array() [3]int { return [3]int{d.X, d.Y, d.Z} }

// Contains reports whether the local coordinate lies in [0, d) on every axis.
func (d Dims) Contains(x, y, z int) bool {
	return x >= 0 && x < d.X && y >= 0 && y < d.Y && z >= 0 && z < d.Z
}

// Valid reports whether every axis has a positive size.
func (d Dims) Valid() bool { return d.X > 0 && d.Y > 0 && d.Z > 0 }

func (d Dims) String() string {
	return fmt.Sprintf("%dx%dx%d", d.X, d.Y, d.Z)
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// mod is the floored modulo, always in [0, b) for positive b.
func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// ChunkOf returns the chunk index containing the global voxel coordinate.
func ChunkOf(global Coord, d Dims) Coord {
	return Coord{X: floorDiv(global.X, d.X), Y: floorDiv(global.Y, d.Y), Z: floorDiv(global.Z, d.Z)}
}

// LocalOf wraps a global voxel coordinate into its chunk's local coordinate.
func LocalOf(global Coord, d Dims) Coord {
	return Coord{X: mod(global.X, d.X), Y: mod(global.Y, d.Y), Z: mod(global.Z, d.Z)}
}

// ChunkAt returns the chunk index containing a world-space position.
func ChunkAt(pos mgl32.Vec3, d Dims) Coord {
	return Coord{
		X: int(math.Floor(float64(pos.X()) / float64(d.X))),
		Y: int(math.Floor(float64(pos.Y()) / float64(d.Y))),
		Z: int(math.Floor(float64(pos.Z()) / float64(d.Z))),
	}
}

// RegionOf returns the region index owning the chunk index.
func RegionOf(chunk Coord, regionSize int) Coord {
	return Coord{X: floorDiv(chunk.X, regionSize), Y: floorDiv(chunk.Y, regionSize), Z: floorDiv(chunk.Z, regionSize)}
}
