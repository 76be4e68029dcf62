package graphics

import (
	"voxel-engine/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Highlight outlines a single voxel, typically the one under the crosshair.
type Highlight struct {
	shader *Shader
	vao    uint32
	vbo    uint32
}

func NewHighlight() (*Highlight, error) {
	shader, err := NewShader(highlightVertexShader, highlightFragmentShader)
	if err != nil {
		return nil, err
	}
	h := &Highlight{shader: shader}
	h.setupVAO()
	return h, nil
}

func (h *Highlight) setupVAO() {
	gl.GenVertexArrays(1, &h.vao)
	gl.BindVertexArray(h.vao)

	gl.GenBuffers(1, &h.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, h.vbo)

	// unit cube edges centered on the origin
	vertices := []float32{
		// Front face
		-0.5, -0.5, 0.5, 0.5, -0.5, 0.5,
		0.5, -0.5, 0.5, 0.5, 0.5, 0.5,
		0.5, 0.5, 0.5, -0.5, 0.5, 0.5,
		-0.5, 0.5, 0.5, -0.5, -0.5, 0.5,

		// Back face
		-0.5, -0.5, -0.5, 0.5, -0.5, -0.5,
		0.5, -0.5, -0.5, 0.5, 0.5, -0.5,
		0.5, 0.5, -0.5, -0.5, 0.5, -0.5,
		-0.5, 0.5, -0.5, -0.5, -0.5, -0.5,

		// Connecting edges
		-0.5, -0.5, 0.5, -0.5, -0.5, -0.5,
		0.5, -0.5, 0.5, 0.5, -0.5, -0.5,
		0.5, 0.5, 0.5, 0.5, 0.5, -0.5,
		-0.5, 0.5, 0.5, -0.5, 0.5, -0.5,
	}

	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.BindVertexArray(0)
}

// Draw outlines the voxel cell at v.
func (h *Highlight) Draw(v world.Coord, view, projection mgl32.Mat4) {
	h.shader.Use()
	h.shader.SetMat4("proj", projection)
	h.shader.SetMat4("view", view)

	model := mgl32.Translate3D(
		float32(v.X)+0.5,
		float32(v.Y)+0.5,
		float32(v.Z)+0.5,
	).Mul4(mgl32.Scale3D(1.01, 1.01, 1.01))

	h.shader.SetMat4("model", model)
	h.shader.SetVec3("color", mgl32.Vec3{})

	gl.BindVertexArray(h.vao)
	gl.LineWidth(1.0)
	gl.DrawArrays(gl.LINES, 0, 24)
	gl.BindVertexArray(0)
}

func (h *Highlight) Dispose() {
	if h.vao != 0 {
		gl.DeleteVertexArrays(1, &h.vao)
	}
	if h.vbo != 0 {
		gl.DeleteBuffers(1, &h.vbo)
	}
	h.shader.Delete()
}
