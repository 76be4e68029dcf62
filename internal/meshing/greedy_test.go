package meshing

import (
	"math/rand"
	"reflect"
	"testing"

	"voxel-engine/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// mapLookup is a VoxelLookup over a set of chunks keyed by chunk index.
type mapLookup map[world.Coord]*world.Chunk

func (l mapLookup) LookupVoxel(global world.Coord) (world.Voxel, bool) {
	c, ok := l[world.ChunkOf(global, world.DefaultDims)]
	if !ok {
		return world.Voxel{}, false
	}
	return c.At(world.LocalOf(global, world.DefaultDims)), true
}

func quadNormal(m *MeshData, q int) mgl32.Vec3 {
	i0, i1, i2 := m.Triangles[q*6], m.Triangles[q*6+1], m.Triangles[q*6+2]
	v0, v1, v2 := m.Vertices[i0], m.Vertices[i1], m.Vertices[i2]
	return v1.Sub(v0).Cross(v2.Sub(v0))
}

// quadFace returns the face axis and whether the quad points toward -axis.
func quadFace(m *MeshData, q int) (axis int, back bool) {
	n := quadNormal(m, q)
	for a := 0; a < 3; a++ {
		if n[a] != 0 {
			return a, n[a] < 0
		}
	}
	return -1, false
}

// quadArea is the number of unit faces the quad covers.
func quadArea(m *MeshData, q int) int {
	lo, hi := quadBounds(m, q)
	area := 1
	for a := 0; a < 3; a++ {
		if d := int(hi[a] - lo[a]); d > 0 {
			area *= d
		}
	}
	return area
}

func quadBounds(m *MeshData, q int) (lo, hi mgl32.Vec3) {
	lo = m.Vertices[q*4]
	hi = lo
	for i := 1; i < 4; i++ {
		v := m.Vertices[q*4+i]
		for a := 0; a < 3; a++ {
			lo[a] = min(lo[a], v[a])
			hi[a] = max(hi[a], v[a])
		}
	}
	return lo, hi
}

func TestFullChunkYieldsSixQuads(t *testing.T) {
	c := world.SolidGenerator{Voxel: world.NewVoxel(50, 205, 50)}.GenerateChunk(world.Coord{}, world.DefaultDims)
	m := BuildGreedyMesh(c, nil)

	if m.QuadCount() != 6 {
		t.Fatalf("got %d quads, want 6", m.QuadCount())
	}
	if len(m.Vertices) != 24 || len(m.Triangles) != 36 || len(m.Colors) != 24 {
		t.Fatalf("buffer sizes: %d vertices, %d indices, %d colors", len(m.Vertices), len(m.Triangles), len(m.Colors))
	}
	for q := 0; q < 6; q++ {
		if a := quadArea(m, q); a != 16*16 {
			t.Errorf("quad %d covers %d faces, want 256", q, a)
		}
	}
	for _, col := range m.Colors {
		if col.R != 50 || col.G != 205 || col.B != 50 || col.A != 255 {
			t.Fatalf("color = %v", col)
		}
	}
}

func TestSingleVoxelYieldsUnitQuads(t *testing.T) {
	c := world.NewChunk(world.Coord{}, world.DefaultDims)
	_ = c.Set(0, 0, 0, world.StoneVoxel)
	m := BuildGreedyMesh(c, nil)

	if m.QuadCount() != 6 {
		t.Fatalf("got %d quads, want 6", m.QuadCount())
	}
	center := mgl32.Vec3{0.5, 0.5, 0.5}
	seen := map[[2]int]bool{}
	for q := 0; q < 6; q++ {
		if a := quadArea(m, q); a != 1 {
			t.Errorf("quad %d area = %d, want 1", q, a)
		}
		lo, hi := quadBounds(m, q)
		for a := 0; a < 3; a++ {
			if lo[a] < 0 || hi[a] > 1 {
				t.Errorf("quad %d outside the voxel: %v..%v", q, lo, hi)
			}
		}
		axis, back := quadFace(m, q)
		key := [2]int{axis, 0}
		if back {
			key[1] = 1
		}
		seen[key] = true

		// triangles must face away from the voxel
		for tri := 0; tri < 2; tri++ {
			i := q*6 + tri*3
			v0, v1, v2 := m.Vertices[m.Triangles[i]], m.Vertices[m.Triangles[i+1]], m.Vertices[m.Triangles[i+2]]
			n := v1.Sub(v0).Cross(v2.Sub(v0))
			centroid := v0.Add(v1).Add(v2).Mul(1.0 / 3)
			if n.Dot(centroid.Sub(center)) <= 0 {
				t.Errorf("quad %d triangle %d faces inward", q, tri)
			}
		}
	}
	if len(seen) != 6 {
		t.Fatalf("faces emitted = %v, want all six directions", seen)
	}
}

func TestTwoColorsDoNotMerge(t *testing.T) {
	c := world.NewChunk(world.Coord{}, world.DefaultDims)
	_ = c.Set(0, 0, 0, world.StoneVoxel)
	_ = c.Set(1, 0, 0, world.GrassVoxel)
	m := BuildGreedyMesh(c, nil)
	// each voxel keeps 5 faces, the shared face is hidden
	if m.QuadCount() != 10 {
		t.Fatalf("got %d quads, want 10", m.QuadCount())
	}

	_ = c.Set(1, 0, 0, world.StoneVoxel)
	m = BuildGreedyMesh(c, nil)
	if m.QuadCount() != 6 {
		t.Fatalf("identical neighbors: got %d quads, want 6", m.QuadCount())
	}
}

func TestWidthBeforeHeight(t *testing.T) {
	// L shape in the z=0 layer: a 3 wide row at y=0 (along X) and one voxel on top.
	c := world.NewChunk(world.Coord{}, world.DefaultDims)
	for x := 0; x < 3; x++ {
		_ = c.Set(x, 0, 0, world.StoneVoxel)
	}
	_ = c.Set(0, 1, 0, world.StoneVoxel)
	m := BuildGreedyMesh(c, nil)

	var areas []int
	for q := 0; q < m.QuadCount(); q++ {
		if axis, back := quadFace(m, q); axis == 2 && !back {
			areas = append(areas, quadArea(m, q))
		}
	}
	// +Z faces: axisA = X, axisB = Y. Width grows along Y first from (0,0),
	// giving a 1x2 column, then x=1 and x=2 merge into a 2x1 strip.
	if !reflect.DeepEqual(areas, []int{2, 2}) {
		t.Fatalf("+Z quad areas = %v, want [2 2]", areas)
	}
}

func TestCrossChunkFaceCulling(t *testing.T) {
	here := world.NewChunk(world.Coord{}, world.DefaultDims)
	_ = here.Set(15, 0, 0, world.StoneVoxel)
	next := world.NewChunk(world.Coord{X: 1}, world.DefaultDims)
	_ = next.Set(0, 0, 0, world.StoneVoxel)

	lookup := mapLookup{here.Index(): here, next.Index(): next}
	if got := BuildGreedyMesh(here, lookup).QuadCount(); got != 5 {
		t.Fatalf("with neighbor loaded: got %d quads, want 5", got)
	}
	if got := BuildGreedyMesh(here, mapLookup{}).QuadCount(); got != 6 {
		t.Fatalf("missing neighbor counts as air: got %d quads, want 6", got)
	}
	if got := BuildGreedyMesh(here, nil).QuadCount(); got != 6 {
		t.Fatalf("nil lookup: got %d quads, want 6", got)
	}
}

func TestTransparentNeighborStillHidesFace(t *testing.T) {
	c := world.NewChunk(world.Coord{}, world.DefaultDims)
	glass := world.Voxel{R: 200, G: 200, B: 255, A: 100}
	_ = c.Set(0, 0, 0, world.StoneVoxel)
	_ = c.Set(1, 0, 0, glass)
	// neighbors are visible, so their shared faces are culled
	if got := BuildGreedyMesh(c, nil).QuadCount(); got != 10 {
		t.Fatalf("got %d quads, want 10", got)
	}
}

func TestMeshingIsIdempotent(t *testing.T) {
	c := world.NewNoiseGenerator(4, 8).GenerateChunk(world.Coord{}, world.DefaultDims)
	a := BuildGreedyMesh(c, nil)
	b := BuildGreedyMesh(c, nil)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("meshing the same chunk twice produced different buffers")
	}
}

// TestQuadsCoverExactlyExposedFaces checks that, for every direction and
// layer, the emitted quads tile exactly the exposed voxel faces.
func TestQuadsCoverExactlyExposedFaces(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	palette := []world.Voxel{world.StoneVoxel, world.GrassVoxel, {R: 1, G: 2, B: 3, A: 90}}
	for trial := 0; trial < 5; trial++ {
		c := world.NewChunk(world.Coord{}, world.DefaultDims)
		for i := 0; i < 1500; i++ {
			_ = c.Set(rng.Intn(16), rng.Intn(16), rng.Intn(16), palette[rng.Intn(len(palette))])
		}
		m := BuildGreedyMesh(c, nil)

		type face struct {
			axis int
			back bool
			cell world.Coord
		}
		covered := map[face]int{}
		for q := 0; q < m.QuadCount(); q++ {
			axis, back := quadFace(m, q)
			lo, hi := quadBounds(m, q)
			var first, last [3]int
			for a := 0; a < 3; a++ {
				first[a], last[a] = int(lo[a]), int(hi[a])-1
			}
			first[axis] = int(lo[axis])
			if !back {
				first[axis]--
			}
			last[axis] = first[axis]
			seed := c.At(world.CoordFromArray(first))
			for x := first[0]; x <= last[0]; x++ {
				for y := first[1]; y <= last[1]; y++ {
					for z := first[2]; z <= last[2]; z++ {
						p := world.Coord{X: x, Y: y, Z: z}
						if c.At(p) != seed {
							t.Fatalf("quad %d mixes voxels at %v", q, p)
						}
						covered[face{axis, back, p}]++
					}
				}
			}
		}

		exposed := 0
		for x := 0; x < 16; x++ {
			for y := 0; y < 16; y++ {
				for z := 0; z < 16; z++ {
					p := world.Coord{X: x, Y: y, Z: z}
					if !c.At(p).IsVisible() {
						continue
					}
					for axis := 0; axis < 3; axis++ {
						for _, back := range []bool{false, true} {
							n := p.Array()
							if back {
								n[axis]--
							} else {
								n[axis]++
							}
							want := 0
							if !c.At(world.CoordFromArray(n)).IsVisible() {
								want = 1
								exposed++
							}
							if got := covered[face{axis, back, p}]; got != want {
								t.Fatalf("trial %d: face %v axis %d back %v covered %d times, want %d", trial, p, axis, back, got, want)
							}
						}
					}
				}
			}
		}
		if len(covered) != exposed {
			t.Fatalf("trial %d: %d faces covered, %d exposed", trial, len(covered), exposed)
		}
	}
}

func TestNonCubicDims(t *testing.T) {
	d := world.Dims{X: 16, Y: 256, Z: 16}
	c := world.NewFlatGenerator(70).GenerateChunk(world.Coord{}, d)
	m := BuildGreedyMesh(c, nil)
	// flat slab, grass over stone: top, bottom, and two quads on each side
	if m.QuadCount() != 10 {
		t.Fatalf("got %d quads, want 10", m.QuadCount())
	}
}

func BenchmarkBuildGreedyMesh(b *testing.B) {
	c := world.NewNoiseGenerator(1, 8).GenerateChunk(world.Coord{}, world.DefaultDims)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = BuildGreedyMesh(c, nil)
	}
}
