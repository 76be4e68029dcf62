package render

import (
	"testing"

	"voxel-engine/internal/meshing"
	"voxel-engine/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

func TestPoolSize(t *testing.T) {
	if got := PoolSizeFor(3); got != 216 {
		t.Fatalf("PoolSizeFor(3) = %d, want 216", got)
	}
}

func TestPoolAcquireRelease(t *testing.T) {
	p := NewPool(2)
	a, ok := p.Acquire(world.Coord{X: 1})
	if !ok || a.ID != 0 || !a.Active() {
		t.Fatalf("first acquire = %+v, %v", a, ok)
	}
	b, ok := p.Acquire(world.Coord{X: 2})
	if !ok || b.ID != 1 {
		t.Fatalf("second acquire = %+v, %v", b, ok)
	}
	if _, ok := p.Acquire(world.Coord{X: 3}); ok {
		t.Fatal("exhausted pool handed out a handle")
	}
	if p.Capacity() != 2 || p.InUse() != 2 {
		t.Fatalf("capacity %d in use %d", p.Capacity(), p.InUse())
	}

	p.Release(a)
	p.Release(a)
	if p.InUse() != 1 {
		t.Fatalf("double release: in use = %d, want 1", p.InUse())
	}
	c, ok := p.Acquire(world.Coord{X: 4})
	if !ok || c != a || c.Chunk != (world.Coord{X: 4}) {
		t.Fatalf("reacquire = %+v, %v; want the released handle", c, ok)
	}
}

func TestRecalculateNormals(t *testing.T) {
	c := world.NewChunk(world.Coord{}, world.DefaultDims)
	_ = c.Set(0, 0, 0, world.StoneVoxel)
	m := meshing.BuildGreedyMesh(c, nil)
	normals := RecalculateNormals(m)
	if len(normals) != len(m.Vertices) {
		t.Fatalf("%d normals for %d vertices", len(normals), len(m.Vertices))
	}
	center := mgl32.Vec3{0.5, 0.5, 0.5}
	for i, n := range normals {
		if l := n.Len(); l < 0.999 || l > 1.001 {
			t.Fatalf("normal %d has length %v", i, l)
		}
		if n.Dot(m.Vertices[i].Sub(center)) <= 0 {
			t.Fatalf("normal %d = %v points inward", i, n)
		}
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	p := NewPool(1)
	h, _ := p.Acquire(world.Coord{})
	c := world.SolidGenerator{Voxel: world.StoneVoxel}.GenerateChunk(world.Coord{}, world.DefaultDims)
	r.Apply(h, c.Origin(), meshing.BuildGreedyMesh(c, nil))
	if r.Quads() != 6 || r.Applies != 1 {
		t.Fatalf("quads %d applies %d", r.Quads(), r.Applies)
	}
	r.Clear(h)
	if r.Quads() != 0 || r.Clears != 1 {
		t.Fatalf("after clear: quads %d clears %d", r.Quads(), r.Clears)
	}
}
