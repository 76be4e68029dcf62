package world

import "image/color"

// Voxel is a single colored cell. A == 0 is air, A == 255 is fully opaque.
type Voxel struct {
	R, G, B, A uint8
}

// Air is the zero voxel.
var Air = Voxel{}

// NewVoxel returns an opaque voxel with the given color.
func NewVoxel(r, g, b uint8) Voxel {
	return Voxel{R: r, G: g, B: b, A: 255}
}

// VoxelFromColor converts a color into a voxel, keeping its alpha.
func VoxelFromColor(c color.RGBA) Voxel {
	return Voxel{R: c.R, G: c.G, B: c.B, A: c.A}
}

// IsVisible reports whether the voxel is drawn at all.
func (v Voxel) IsVisible() bool { return v.A > 0 }

// IsTransparent reports whether light passes through the voxel (air included).
func (v Voxel) IsTransparent() bool { return v.A < 255 }

// IsSolid reports whether the voxel is fully opaque.
func (v Voxel) IsSolid() bool { return v.A == 255 }

// Color returns the voxel color as a color.RGBA.
func (v Voxel) Color() color.RGBA {
	return color.RGBA{R: v.R, G: v.G, B: v.B, A: v.A}
}
