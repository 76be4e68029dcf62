package meshing

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// MeshData is a triangle mesh with one flat color per vertex. Positions are
// relative to the chunk origin; normals are left to the consumer.
type MeshData struct {
	Vertices  []mgl32.Vec3
	Triangles []uint32
	Colors    []color.RGBA
}

// QuadCount is the number of quads the mesh was built from.
func (m *MeshData) QuadCount() int { return len(m.Vertices) / 4 }

// Empty reports whether the mesh has no geometry.
func (m *MeshData) Empty() bool { return len(m.Triangles) == 0 }

// Builder accumulates quads into a MeshData.
type Builder struct {
	vertices  []mgl32.Vec3
	triangles []uint32
	colors    []color.RGBA
}

// NewBuilder creates a builder with room for quads quads.
func NewBuilder(quads int) *Builder {
	return &Builder{
		vertices:  make([]mgl32.Vec3, 0, quads*4),
		triangles: make([]uint32, 0, quads*6),
		colors:    make([]color.RGBA, 0, quads*4),
	}
}

// AddQuad appends four corners as two triangles. Back faces use the reversed
// winding so both sides face outward.
func (b *Builder) AddQuad(quad [4]mgl32.Vec3, c color.RGBA, backFace bool) {
	b.vertices = append(b.vertices, quad[:]...)
	b.colors = append(b.colors, c, c, c, c)

	base := uint32(len(b.vertices) - 4)
	if backFace {
		b.triangles = append(b.triangles,
			base+2, base+1, base,
			base+3, base+2, base,
		)
	} else {
		b.triangles = append(b.triangles,
			base, base+1, base+2,
			base, base+2, base+3,
		)
	}
}

// MeshData returns the accumulated mesh. The builder must not be reused.
func (b *Builder) MeshData() *MeshData {
	return &MeshData{Vertices: b.vertices, Triangles: b.triangles, Colors: b.colors}
}
