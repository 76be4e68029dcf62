package world

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func TestChunkSetGetRoundTrip(t *testing.T) {
	c := NewChunk(Coord{}, DefaultDims)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		x, y, z := rng.Intn(16), rng.Intn(16), rng.Intn(16)
		v := Voxel{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256)), A: uint8(rng.Intn(256))}
		if err := c.Set(x, y, z, v); err != nil {
			t.Fatalf("Set(%d,%d,%d): %v", x, y, z, err)
		}
		if got := c.Get(x, y, z); got != v {
			t.Fatalf("Get(%d,%d,%d) = %v, want %v", x, y, z, got, v)
		}
	}
}

func TestChunkOutOfRange(t *testing.T) {
	c := NewChunk(Coord{}, Dims{X: 4, Y: 8, Z: 2})
	_ = c.FillRange(Coord{}, Coord{X: 3, Y: 7, Z: 1}, StoneVoxel)

	outside := []Coord{
		{X: -1}, {Y: -1}, {Z: -1},
		{X: 4}, {Y: 8}, {Z: 2},
		{X: 100, Y: 100, Z: 100},
	}
	for _, p := range outside {
		if got := c.At(p); got != Air {
			t.Errorf("Get%v = %v, want air", p, got)
		}
		err := c.Set(p.X, p.Y, p.Z, StoneVoxel)
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Set%v error = %v, want ErrIndexOutOfRange", p, err)
		}
	}
}

func TestChunkFlatOrder(t *testing.T) {
	d := Dims{X: 3, Y: 4, Z: 5}
	c := NewChunk(Coord{}, d)
	v := Voxel{R: 1, G: 2, B: 3, A: 4}
	if err := c.Set(2, 1, 3, v); err != nil {
		t.Fatal(err)
	}
	data := c.Serialize()
	i := (3*d.Y*d.X + 1*d.X + 2) * BytesPerVoxel
	if !bytes.Equal(data[i:i+4], []byte{1, 2, 3, 4}) {
		t.Fatalf("voxel bytes at flat index = %v, want [1 2 3 4]", data[i:i+4])
	}
	if len(data) != d.Volume()*BytesPerVoxel {
		t.Fatalf("serialized length = %d, want %d", len(data), d.Volume()*BytesPerVoxel)
	}
}

func TestChunkSerializeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	random := NewChunk(Coord{X: 1, Y: -2, Z: 3}, DefaultDims)
	for i := 0; i < 300; i++ {
		_ = random.Set(rng.Intn(16), rng.Intn(16), rng.Intn(16), NewVoxel(uint8(rng.Intn(256)), 10, 20))
	}
	solid := SolidGenerator{Voxel: GrassVoxel}.GenerateChunk(Coord{}, DefaultDims)
	tall := NewFlatGenerator(100).GenerateChunk(Coord{}, Dims{X: 16, Y: 256, Z: 16})

	for name, c := range map[string]*Chunk{
		"empty":  NewChunk(Coord{}, DefaultDims),
		"solid":  solid,
		"random": random,
		"tall":   tall,
	} {
		got, err := DeserializeChunk(c.Index(), c.Dims(), c.Serialize())
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		want := c.Voxels()
		have := got.Voxels()
		for i := range want {
			if want[i] != have[i] {
				t.Fatalf("%s: voxel %d = %v, want %v", name, i, have[i], want[i])
			}
		}
	}
}

func TestDeserializeChunkWrongSize(t *testing.T) {
	_, err := DeserializeChunk(Coord{}, DefaultDims, make([]byte, 10))
	if !errors.Is(err, ErrVoxelDataSize) {
		t.Fatalf("error = %v, want ErrVoxelDataSize", err)
	}
}

func TestChunkFillRangeAndEmpty(t *testing.T) {
	c := NewChunk(Coord{}, DefaultDims)
	if !c.IsEmpty() {
		t.Fatal("new chunk should be empty")
	}
	// corners in reverse order still describe the same box
	if err := c.FillRange(Coord{X: 5, Y: 5, Z: 5}, Coord{X: 2, Y: 3, Z: 4}, StoneVoxel); err != nil {
		t.Fatal(err)
	}
	if !c.IsEmpty() {
		t.Fatal("FillRange must not update the empty flag")
	}
	c.RecomputeEmpty()
	if c.IsEmpty() {
		t.Fatal("chunk with voxels reported empty")
	}

	count := 0
	for _, v := range c.Voxels() {
		if v == StoneVoxel {
			count++
		}
	}
	if want := 4 * 3 * 2; count != want {
		t.Fatalf("filled %d voxels, want %d", count, want)
	}

	if err := c.FillRange(Coord{}, Coord{X: 16}, StoneVoxel); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("out of range fill error = %v", err)
	}

	_ = c.FillRange(Coord{}, Coord{X: 15, Y: 15, Z: 15}, Air)
	c.RecomputeEmpty()
	if !c.IsEmpty() {
		t.Fatal("cleared chunk should be empty")
	}
}

func TestChunkTransparentVoxelIsNotEmpty(t *testing.T) {
	c := NewChunk(Coord{}, DefaultDims)
	_ = c.Set(0, 0, 0, Voxel{R: 10, A: 1})
	c.RecomputeEmpty()
	if c.IsEmpty() {
		t.Fatal("a voxel with alpha 1 is visible")
	}
}

func TestChunkDirtyFlag(t *testing.T) {
	c := NewChunk(Coord{}, DefaultDims)
	if !c.IsDirty() {
		t.Fatal("new chunk needs a first mesh")
	}
	c.SetClean()
	_ = c.Set(1, 1, 1, Air)
	if c.IsDirty() {
		t.Fatal("writing an identical voxel should not dirty the chunk")
	}
	_ = c.Set(1, 1, 1, StoneVoxel)
	if !c.IsDirty() {
		t.Fatal("changed voxel should dirty the chunk")
	}
}
