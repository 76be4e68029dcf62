package world

import "fmt"

// BytesPerVoxel is the serialized size of one voxel (r, g, b, a).
const BytesPerVoxel = 4

// Chunk is a fixed-size block of voxels stored in a flat array.
type Chunk struct {
	index  Coord
	dims   Dims
	voxels []Voxel

	empty bool
	dirty bool
}

// NewChunk creates an all-air chunk at the given chunk index.
func NewChunk(index Coord, dims Dims) *Chunk {
	return &Chunk{
		index:  index,
		dims:   dims,
		voxels: make([]Voxel, dims.Volume()),
		empty:  true,
		dirty:  true,
	}
}

// Index is the chunk's position in the world chunk grid.
func (c *Chunk) Index() Coord { return c.index }

// Dims returns the chunk dimensions.
func (c *Chunk) Dims() Dims { return c.dims }

// Origin is the global voxel coordinate of local (0, 0, 0).
func (c *Chunk) Origin() Coord { return c.index.Mul(c.dims) }

// flatten converts local coordinates to the flat index z*Y*X + y*X + x.
func (c *Chunk) flatten(x, y, z int) int {
	return z*c.dims.Y*c.dims.X + y*c.dims.X + x
}

// Get returns the voxel at local coordinates. Anything outside the chunk is air.
func (c *Chunk) Get(x, y, z int) Voxel {
	if !c.dims.Contains(x, y, z) {
		return Air
	}
	return c.voxels[c.flatten(x, y, z)]
}

// At is Get for a Coord.
func (c *Chunk) At(p Coord) Voxel {
	return c.Get(p.X, p.Y, p.Z)
}

// Set writes the voxel at local coordinates.
func (c *Chunk) Set(x, y, z int, v Voxel) error {
	if !c.dims.Contains(x, y, z) {
		return fmt.Errorf("%w: (%d, %d, %d) outside chunk %v with dimensions %v", ErrIndexOutOfRange, x, y, z, c.index, c.dims)
	}
	i := c.flatten(x, y, z)
	if c.voxels[i] != v {
		c.voxels[i] = v
		c.dirty = true
	}
	return nil
}

// FillRange fills the inclusive box between two corners. The empty flag is not
// touched; call RecomputeEmpty once bulk writes are done.
func (c *Chunk) FillRange(corner1, corner2 Coord, v Voxel) error {
	lo := Coord{X: min(corner1.X, corner2.X), Y: min(corner1.Y, corner2.Y), Z: min(corner1.Z, corner2.Z)}
	hi := Coord{X: max(corner1.X, corner2.X), Y: max(corner1.Y, corner2.Y), Z: max(corner1.Z, corner2.Z)}
	if !c.dims.Contains(lo.X, lo.Y, lo.Z) || !c.dims.Contains(hi.X, hi.Y, hi.Z) {
		return fmt.Errorf("%w: fill %v..%v outside chunk %v with dimensions %v", ErrIndexOutOfRange, lo, hi, c.index, c.dims)
	}
	for z := lo.Z; z <= hi.Z; z++ {
		for y := lo.Y; y <= hi.Y; y++ {
			row := c.flatten(lo.X, y, z)
			for x := 0; x <= hi.X-lo.X; x++ {
				c.voxels[row+x] = v
			}
		}
	}
	c.dirty = true
	return nil
}

// RecomputeEmpty rescans the chunk and refreshes the cached empty flag.
func (c *Chunk) RecomputeEmpty() {
	for _, v := range c.voxels {
		if v.IsVisible() {
			c.empty = false
			return
		}
	}
	c.empty = true
}

// IsEmpty reports the cached flag set by the last RecomputeEmpty.
func (c *Chunk) IsEmpty() bool { return c.empty }

// IsDirty reports whether the voxels changed since the last mesh rebuild.
func (c *Chunk) IsDirty() bool { return c.dirty }

// MarkDirty forces a mesh rebuild, e.g. after a neighbor changed.
func (c *Chunk) MarkDirty() { c.dirty = true }

// SetClean clears the dirty flag once a mesh has been rebuilt and applied.
func (c *Chunk) SetClean() { c.dirty = false }

// Voxels returns a copy of the flat voxel array.
func (c *Chunk) Voxels() []Voxel {
	out := make([]Voxel, len(c.voxels))
	copy(out, c.voxels)
	return out
}

// Serialize emits every voxel in flat order as r, g, b, a bytes.
func (c *Chunk) Serialize() []byte {
	return c.AppendBinary(make([]byte, 0, len(c.voxels)*BytesPerVoxel))
}

// AppendBinary appends the serialized voxels to b.
func (c *Chunk) AppendBinary(b []byte) []byte {
	for _, v := range c.voxels {
		b = append(b, v.R, v.G, v.B, v.A)
	}
	return b
}

// DeserializeChunk rebuilds a chunk from Serialize output.
func DeserializeChunk(index Coord, dims Dims, data []byte) (*Chunk, error) {
	if len(data) != dims.Volume()*BytesPerVoxel {
		return nil, fmt.Errorf("%w: chunk %v: got %d bytes, want %d", ErrVoxelDataSize, index, len(data), dims.Volume()*BytesPerVoxel)
	}
	c := NewChunk(index, dims)
	for i := range c.voxels {
		o := i * BytesPerVoxel
		c.voxels[i] = Voxel{R: data[o], G: data[o+1], B: data[o+2], A: data[o+3]}
	}
	c.RecomputeEmpty()
	return c, nil
}
