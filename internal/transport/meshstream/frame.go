package meshstream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image/color"
	"math"

	"voxel-engine/internal/meshing"
	"voxel-engine/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Frame kinds, the first byte of every binary message.
const (
	KindApply byte = 1
	KindClear byte = 2
)

// apply header: kind, handle, origin xyz, vertex count, index count
const applyHeaderSize = 1 + 4 + 3*4 + 4 + 4
const clearFrameSize = 1 + 4

// ErrBadFrame reports a malformed binary message.
var ErrBadFrame = errors.New("meshstream: bad frame")

// Frame is a decoded message.
type Frame struct {
	Kind   byte
	Handle int
	Origin world.Coord
	Mesh   *meshing.MeshData
}

// EncodeApply writes a mesh frame. Positions are float32 triples, colors are
// RGBA bytes and indices are uint32, all little endian.
func EncodeApply(handle int, origin world.Coord, mesh *meshing.MeshData) []byte {
	nv, ni := len(mesh.Vertices), len(mesh.Triangles)
	b := make([]byte, 0, applyHeaderSize+nv*16+ni*4)
	b = append(b, KindApply)
	b = binary.LittleEndian.AppendUint32(b, uint32(handle))
	b = binary.LittleEndian.AppendUint32(b, uint32(int32(origin.X)))
	b = binary.LittleEndian.AppendUint32(b, uint32(int32(origin.Y)))
	b = binary.LittleEndian.AppendUint32(b, uint32(int32(origin.Z)))
	b = binary.LittleEndian.AppendUint32(b, uint32(nv))
	b = binary.LittleEndian.AppendUint32(b, uint32(ni))
	for _, v := range mesh.Vertices {
		for _, f := range v {
			b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
		}
	}
	for _, c := range mesh.Colors {
		b = append(b, c.R, c.G, c.B, c.A)
	}
	for _, i := range mesh.Triangles {
		b = binary.LittleEndian.AppendUint32(b, i)
	}
	return b
}

// EncodeClear writes a frame hiding a handle.
func EncodeClear(handle int) []byte {
	b := make([]byte, 0, clearFrameSize)
	b = append(b, KindClear)
	return binary.LittleEndian.AppendUint32(b, uint32(handle))
}

// DecodeFrame parses one binary message.
func DecodeFrame(b []byte) (Frame, error) {
	if len(b) < clearFrameSize {
		return Frame{}, fmt.Errorf("%w: %d bytes", ErrBadFrame, len(b))
	}
	f := Frame{Kind: b[0], Handle: int(binary.LittleEndian.Uint32(b[1:5]))}
	switch f.Kind {
	case KindClear:
		if len(b) != clearFrameSize {
			return Frame{}, fmt.Errorf("%w: clear frame of %d bytes", ErrBadFrame, len(b))
		}
		return f, nil
	case KindApply:
	default:
		return Frame{}, fmt.Errorf("%w: kind %d", ErrBadFrame, f.Kind)
	}

	if len(b) < applyHeaderSize {
		return Frame{}, fmt.Errorf("%w: short header", ErrBadFrame)
	}
	i32 := func(off int) int { return int(int32(binary.LittleEndian.Uint32(b[off:]))) }
	f.Origin = world.Coord{X: i32(5), Y: i32(9), Z: i32(13)}
	nv := int(binary.LittleEndian.Uint32(b[17:]))
	ni := int(binary.LittleEndian.Uint32(b[21:]))
	if want := applyHeaderSize + nv*16 + ni*4; nv < 0 || ni < 0 || len(b) != want {
		return Frame{}, fmt.Errorf("%w: %d bytes for %d vertices and %d indices", ErrBadFrame, len(b), nv, ni)
	}

	mesh := &meshing.MeshData{
		Vertices:  make([]mgl32.Vec3, nv),
		Colors:    make([]color.RGBA, nv),
		Triangles: make([]uint32, ni),
	}
	off := applyHeaderSize
	for i := range mesh.Vertices {
		for j := 0; j < 3; j++ {
			mesh.Vertices[i][j] = math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
			off += 4
		}
	}
	for i := range mesh.Colors {
		mesh.Colors[i] = color.RGBA{R: b[off], G: b[off+1], B: b[off+2], A: b[off+3]}
		off += 4
	}
	for i := range mesh.Triangles {
		idx := binary.LittleEndian.Uint32(b[off:])
		if int(idx) >= nv {
			return Frame{}, fmt.Errorf("%w: index %d out of %d vertices", ErrBadFrame, idx, nv)
		}
		mesh.Triangles[i] = idx
		off += 4
	}
	f.Mesh = mesh
	return f, nil
}
