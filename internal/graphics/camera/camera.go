package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Fly is a free-flying first person camera. Its position is the streaming
// observer.
type Fly struct {
	Position mgl32.Vec3
	Yaw      float64
	Pitch    float64
	Speed    float32

	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32

	Sensitivity float64
	firstMouse  bool
	lastX       float64
	lastY       float64
}

func NewFly(position mgl32.Vec3, width, height int) *Fly {
	return &Fly{
		Position:    position,
		Yaw:         -90,
		Speed:       20,
		AspectRatio: float32(width) / float32(max(height, 1)),
		FOV:         60.0,
		NearPlane:   0.1,
		FarPlane:    1000.0,
		Sensitivity: 0.1,
		firstMouse:  true,
	}
}

// HandleMouseMovement turns the camera by the cursor delta since the last call.
func (c *Fly) HandleMouseMovement(xpos, ypos float64) {
	if c.firstMouse {
		c.lastX, c.lastY = xpos, ypos
		c.firstMouse = false
		return
	}
	xoffset := (xpos - c.lastX) * c.Sensitivity
	yoffset := (c.lastY - ypos) * c.Sensitivity
	c.lastX, c.lastY = xpos, ypos

	c.Yaw += xoffset
	c.Pitch = max(-89.0, min(c.Pitch+yoffset, 89.0))
}

// SetViewport updates the aspect ratio.
func (c *Fly) SetViewport(width, height int) {
	if height > 0 {
		c.AspectRatio = float32(width) / float32(height)
	}
}

func (c *Fly) Front() mgl32.Vec3 {
	y := mgl32.DegToRad(float32(c.Yaw))
	pt := mgl32.DegToRad(float32(c.Pitch))
	fx := float32(math.Cos(float64(y)) * math.Cos(float64(pt)))
	fy := float32(math.Sin(float64(pt)))
	fz := float32(math.Sin(float64(y)) * math.Cos(float64(pt)))
	return mgl32.Vec3{fx, fy, fz}.Normalize()
}

func (c *Fly) Right() mgl32.Vec3 {
	return c.Front().Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

// Move flies along the view direction. forward, right and up are in [-1, 1].
func (c *Fly) Move(forward, right, up float32, dt float64) {
	step := c.Speed * float32(dt)
	delta := c.Front().Mul(forward).Add(c.Right().Mul(right)).Add(mgl32.Vec3{0, up, 0})
	if delta.Len() == 0 {
		return
	}
	c.Position = c.Position.Add(delta.Normalize().Mul(step))
}

func (c *Fly) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front()), mgl32.Vec3{0, 1, 0})
}

func (c *Fly) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}
