package render

import (
	"voxel-engine/internal/meshing"
	"voxel-engine/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Surface displays chunk meshes. Apply replaces whatever the handle showed
// before; Clear hides it. origin is the chunk's global voxel origin.
type Surface interface {
	Apply(h *Handle, origin world.Coord, mesh *meshing.MeshData)
	Clear(h *Handle)
}

// RecalculateNormals computes smooth per-vertex normals by summing the
// face normals of every triangle that uses a vertex.
func RecalculateNormals(mesh *meshing.MeshData) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(mesh.Vertices))
	for i := 0; i+2 < len(mesh.Triangles); i += 3 {
		a, b, c := mesh.Triangles[i], mesh.Triangles[i+1], mesh.Triangles[i+2]
		v0, v1, v2 := mesh.Vertices[a], mesh.Vertices[b], mesh.Vertices[c]
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}
	for i, n := range normals {
		if n.Len() > 0 {
			normals[i] = n.Normalize()
		}
	}
	return normals
}

// Recorder is a headless Surface that keeps the last mesh per handle.
type Recorder struct {
	Meshes  map[int]*meshing.MeshData
	Origins map[int]world.Coord
	Applies int
	Clears  int
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		Meshes:  make(map[int]*meshing.MeshData),
		Origins: make(map[int]world.Coord),
	}
}

func (r *Recorder) Apply(h *Handle, origin world.Coord, mesh *meshing.MeshData) {
	r.Meshes[h.ID] = mesh
	r.Origins[h.ID] = origin
	r.Applies++
}

func (r *Recorder) Clear(h *Handle) {
	delete(r.Meshes, h.ID)
	delete(r.Origins, h.ID)
	r.Clears++
}

// Quads is the total quad count currently displayed.
func (r *Recorder) Quads() int {
	n := 0
	for _, m := range r.Meshes {
		n += m.QuadCount()
	}
	return n
}
