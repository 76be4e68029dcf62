package graphics

import (
	"voxel-engine/internal/meshing"
	"voxel-engine/internal/render"
	"voxel-engine/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// floats per vertex: position 3, color 4, normal 3
const vertexFloats = 10

type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
	model         mgl32.Mat4
}

// GLSurface draws chunk meshes with one vertex array per display handle.
// All methods must run on the thread that owns the GL context.
type GLSurface struct {
	shader *Shader
	meshes map[int]*gpuMesh

	LightDir mgl32.Vec3
	Ambient  float32
}

// NewGLSurface compiles the chunk shader. gl.Init must have been called.
func NewGLSurface() (*GLSurface, error) {
	shader, err := NewShader(chunkVertexShader, chunkFragmentShader)
	if err != nil {
		return nil, err
	}
	return &GLSurface{
		shader:   shader,
		meshes:   make(map[int]*gpuMesh),
		LightDir: mgl32.Vec3{-0.4, -1, -0.3},
		Ambient:  0.45,
	}, nil
}

func (s *GLSurface) Apply(h *render.Handle, origin world.Coord, mesh *meshing.MeshData) {
	m, ok := s.meshes[h.ID]
	if !ok {
		m = &gpuMesh{}
		gl.GenVertexArrays(1, &m.vao)
		gl.GenBuffers(1, &m.vbo)
		gl.GenBuffers(1, &m.ebo)
		s.meshes[h.ID] = m
	}
	m.model = mgl32.Translate3D(float32(origin.X), float32(origin.Y), float32(origin.Z))
	m.count = int32(len(mesh.Triangles))
	if mesh.Empty() {
		return
	}

	normals := render.RecalculateNormals(mesh)
	data := make([]float32, 0, len(mesh.Vertices)*vertexFloats)
	for i, v := range mesh.Vertices {
		c := mesh.Colors[i]
		n := normals[i]
		data = append(data,
			v.X(), v.Y(), v.Z(),
			float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255,
			n.X(), n.Y(), n.Z(),
		)
	}

	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Triangles)*4, gl.Ptr(mesh.Triangles), gl.DYNAMIC_DRAW)

	stride := int32(vertexFloats * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, gl.PtrOffset(7*4))
	gl.BindVertexArray(0)
}

// Clear hides the handle; its buffers are kept for the next Apply.
func (s *GLSurface) Clear(h *render.Handle) {
	if m, ok := s.meshes[h.ID]; ok {
		m.count = 0
	}
}

// Draw renders every applied mesh.
func (s *GLSurface) Draw(view, projection mgl32.Mat4) {
	s.shader.Use()
	s.shader.SetMat4("view", view)
	s.shader.SetMat4("projection", projection)
	s.shader.SetVec3("lightDir", s.LightDir)
	s.shader.SetFloat("ambient", s.Ambient)
	for _, m := range s.meshes {
		if m.count == 0 {
			continue
		}
		s.shader.SetMat4("model", m.model)
		gl.BindVertexArray(m.vao)
		gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, gl.PtrOffset(0))
	}
	gl.BindVertexArray(0)
}

// Dispose frees all GL objects.
func (s *GLSurface) Dispose() {
	for id, m := range s.meshes {
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
		delete(s.meshes, id)
	}
	s.shader.Delete()
}
