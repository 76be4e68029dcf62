package world

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// DefaultRegionSize is the number of chunks per axis in a region.
const DefaultRegionSize = 32

// recordHeaderSize is the three little-endian int32 chunk coordinates.
const recordHeaderSize = 12

// Region is a RegionSize³ block of chunks; the unit of persistence.
type Region struct {
	index    Coord
	size     int
	dims     Dims
	chunks   map[Coord]*Chunk
	modified bool
}

// NewRegion creates an empty region.
func NewRegion(index Coord, size int, dims Dims) *Region {
	return &Region{
		index:  index,
		size:   size,
		dims:   dims,
		chunks: make(map[Coord]*Chunk),
	}
}

// Index is the region coordinate.
func (r *Region) Index() Coord { return r.index }

// Size is the number of chunks per axis.
func (r *Region) Size() int { return r.size }

// Len is the number of populated chunks.
func (r *Region) Len() int { return len(r.chunks) }

// Contains reports whether the chunk index lies inside this region.
func (r *Region) Contains(chunk Coord) bool {
	return RegionOf(chunk, r.size) == r.index
}

// Chunk returns the chunk at a global chunk index, if populated.
func (r *Region) Chunk(index Coord) (*Chunk, bool) {
	c, ok := r.chunks[index]
	return c, ok
}

// Put stores a chunk, replacing any chunk already at its index.
func (r *Region) Put(c *Chunk) error {
	if !r.Contains(c.Index()) {
		return fmt.Errorf("chunk %v does not belong to region %v", c.Index(), r.index)
	}
	if c.Dims() != r.dims {
		return fmt.Errorf("%w: chunk %v has dimensions %v, region uses %v", ErrVoxelDataSize, c.Index(), c.Dims(), r.dims)
	}
	r.chunks[c.Index()] = c
	r.modified = true
	return nil
}

// Keys returns the populated chunk indices sorted by Z, then Y, then X.
func (r *Region) Keys() []Coord {
	keys := make([]Coord, 0, len(r.chunks))
	for k := range r.chunks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return keys
}

// Modified reports whether the region changed since it was last saved.
func (r *Region) Modified() bool { return r.modified }

// MarkModified flags the region for the next save.
func (r *Region) MarkModified() { r.modified = true }

// MarkSaved clears the modified flag.
func (r *Region) MarkSaved() { r.modified = false }

// RecordSize is the encoded size of one chunk record.
func RecordSize(dims Dims) int {
	return recordHeaderSize + dims.Volume()*BytesPerVoxel
}

// Encode writes every populated chunk as {x, y, z int32 LE, voxel bytes}
// with no count prefix, in Keys order.
func (r *Region) Encode() []byte {
	out := make([]byte, 0, len(r.chunks)*RecordSize(r.dims))
	var hdr [recordHeaderSize]byte
	for _, k := range r.Keys() {
		binary.LittleEndian.PutUint32(hdr[0:4], uint32(int32(k.X)))
		binary.LittleEndian.PutUint32(hdr[4:8], uint32(int32(k.Y)))
		binary.LittleEndian.PutUint32(hdr[8:12], uint32(int32(k.Z)))
		out = append(out, hdr[:]...)
		out = r.chunks[k].AppendBinary(out)
	}
	return out
}

// DecodeRegion parses a region stream produced by Encode. Records are consumed
// until the stream is exhausted; a trailing partial record is an error.
func DecodeRegion(index Coord, size int, dims Dims, data []byte) (*Region, error) {
	rs := RecordSize(dims)
	if len(data)%rs != 0 {
		return nil, fmt.Errorf("%w: region %v: %d bytes is not a multiple of record size %d", ErrCorruptRegionStream, index, len(data), rs)
	}
	r := NewRegion(index, size, dims)
	for off := 0; off < len(data); off += rs {
		k := Coord{
			X: int(int32(binary.LittleEndian.Uint32(data[off : off+4]))),
			Y: int(int32(binary.LittleEndian.Uint32(data[off+4 : off+8]))),
			Z: int(int32(binary.LittleEndian.Uint32(data[off+8 : off+12]))),
		}
		if !r.Contains(k) {
			return nil, fmt.Errorf("%w: region %v: record at offset %d holds foreign chunk %v", ErrCorruptRegionStream, index, off, k)
		}
		if _, dup := r.chunks[k]; dup {
			return nil, fmt.Errorf("%w: region %v: duplicate chunk %v at offset %d", ErrCorruptRegionStream, index, k, off)
		}
		c, err := DeserializeChunk(k, dims, data[off+recordHeaderSize:off+rs])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptRegionStream, err)
		}
		r.chunks[k] = c
	}
	return r, nil
}

// RegionFileName is the deterministic file name for a region.
func RegionFileName(index Coord) string {
	return fmt.Sprintf("Region-%d-%d-%d.bin", index.X, index.Y, index.Z)
}
