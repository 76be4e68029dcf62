package world

import "math"

// Generator produces a fully populated chunk for a chunk index. It must be
// pure: the same index always yields the same voxels.
type Generator interface {
	GenerateChunk(index Coord, dims Dims) *Chunk
}

// Terrain colors.
var (
	GrassVoxel = NewVoxel(50, 205, 50)
	StoneVoxel = NewVoxel(205, 205, 205)
	WaterVoxel = NewVoxel(0, 0, 255)
)

// grassDepth is how many layers below the surface stay grass.
const grassDepth = 3

// maxCachedColumns bounds the height-map cache before it is reset.
const maxCachedColumns = 4096

// NoiseGenerator builds height-map terrain from a base mask filter and a set
// of feature filters.
type NoiseGenerator struct {
	BaseHeight int
	Base       *NoiseFilter
	Features   []NoiseFilter

	heights map[[2]int][]float64
}

// NewNoiseGenerator creates a generator with one smooth base filter and one
// ridged feature filter, all derived from seed.
func NewNoiseGenerator(seed int64, baseHeight int) *NoiseGenerator {
	base := NoiseFilter{Kind: FilterPerlin, Settings: DefaultNoiseSettings(), Seed: seed}
	base.Settings.Strength = 8
	base.Settings.Scale = 120
	peaks := NoiseFilter{Kind: FilterPeak, Settings: DefaultNoiseSettings(), Seed: seed + 7919}
	peaks.Settings.Strength = 24
	peaks.Settings.Layers = 4
	return &NoiseGenerator{
		BaseHeight: baseHeight,
		Base:       &base,
		Features:   []NoiseFilter{peaks},
	}
}

// HeightAt computes the surface height at world column (x, z).
func (g *NoiseGenerator) HeightAt(x, z int) float64 {
	fx, fz := float64(x), float64(z)
	baseFactor := 1.0
	baseHeight := 0.0
	if g.Base != nil {
		baseFactor = math.Max(0, g.Base.Layered(fx, fz))
		baseHeight = g.Base.Evaluate(fx, fz)
	}
	height := 0.0
	for _, f := range g.Features {
		height += math.Max(0, f.Evaluate(fx, fz))
	}
	return float64(g.BaseHeight) + baseHeight + height*baseFactor
}

// heightMap returns the cached surface heights of a chunk column, indexed x*Z+z.
func (g *NoiseGenerator) heightMap(index Coord, dims Dims) []float64 {
	key := [2]int{index.X, index.Z}
	if hm, ok := g.heights[key]; ok && len(hm) == dims.X*dims.Z {
		return hm
	}
	if g.heights == nil || len(g.heights) >= maxCachedColumns {
		g.heights = make(map[[2]int][]float64)
	}
	hm := make([]float64, dims.X*dims.Z)
	baseX := index.X * dims.X
	baseZ := index.Z * dims.Z
	for x := 0; x < dims.X; x++ {
		for z := 0; z < dims.Z; z++ {
			hm[x*dims.Z+z] = g.HeightAt(baseX+x, baseZ+z)
		}
	}
	g.heights[key] = hm
	return hm
}

// GenerateChunk fills grass near the surface, stone beneath it and water up to
// the base height.
func (g *NoiseGenerator) GenerateChunk(index Coord, dims Dims) *Chunk {
	c := NewChunk(index, dims)
	hm := g.heightMap(index, dims)
	baseY := index.Y * dims.Y
	for x := 0; x < dims.X; x++ {
		for z := 0; z < dims.Z; z++ {
			height := int(hm[x*dims.Z+z])
			for y := 0; y < dims.Y; y++ {
				gy := baseY + y
				depth := gy - height
				var v Voxel
				switch {
				case depth <= 0 && depth > -grassDepth:
					v = GrassVoxel
				case depth <= 0:
					v = StoneVoxel
				case gy <= g.BaseHeight:
					v = WaterVoxel
				default:
					continue
				}
				c.voxels[c.flatten(x, y, z)] = v
			}
		}
	}
	c.RecomputeEmpty()
	return c
}

// FlatGenerator fills everything at or below Height with grass over stone.
type FlatGenerator struct {
	Height int
}

// NewFlatGenerator creates a flat terrain generator.
func NewFlatGenerator(height int) *FlatGenerator {
	return &FlatGenerator{Height: height}
}

func (g *FlatGenerator) GenerateChunk(index Coord, dims Dims) *Chunk {
	c := NewChunk(index, dims)
	baseY := index.Y * dims.Y
	top := min(g.Height-baseY, dims.Y-1)
	if top < 0 {
		return c
	}
	stoneTop := min(g.Height-grassDepth-baseY, dims.Y-1)
	if stoneTop >= 0 {
		_ = c.FillRange(Coord{}, Coord{X: dims.X - 1, Y: stoneTop, Z: dims.Z - 1}, StoneVoxel)
	}
	if grassBottom := max(stoneTop+1, 0); grassBottom <= top {
		_ = c.FillRange(Coord{Y: grassBottom}, Coord{X: dims.X - 1, Y: top, Z: dims.Z - 1}, GrassVoxel)
	}
	c.RecomputeEmpty()
	return c
}

// SolidGenerator fills every chunk completely with one voxel.
type SolidGenerator struct {
	Voxel Voxel
}

func (g SolidGenerator) GenerateChunk(index Coord, dims Dims) *Chunk {
	c := NewChunk(index, dims)
	for i := range c.voxels {
		c.voxels[i] = g.Voxel
	}
	c.RecomputeEmpty()
	return c
}
