package world

import "errors"

var (
	// ErrIndexOutOfRange is returned when writing outside a chunk's bounds.
	ErrIndexOutOfRange = errors.New("voxel index out of range")
	// ErrVoxelDataSize is returned when raw voxel bytes do not match the chunk volume.
	ErrVoxelDataSize = errors.New("voxel data size mismatch")
	// ErrCorruptRegionStream is returned when a region byte stream cannot be decoded.
	ErrCorruptRegionStream = errors.New("corrupt region stream")
)
