package render

import "voxel-engine/internal/world"

// Handle is a pooled display resource. Surfaces key their GPU or network state
// by ID, which is stable for the pool's lifetime.
type Handle struct {
	ID     int
	Chunk  world.Coord
	active bool
}

// Active reports whether the handle is currently displaying a chunk.
func (h *Handle) Active() bool { return h.active }

// Pool is a fixed-capacity free list of display handles.
type Pool struct {
	handles []*Handle
	inUse   int
}

// NewPool creates a pool of size handles.
func NewPool(size int) *Pool {
	p := &Pool{handles: make([]*Handle, size)}
	for i := range p.handles {
		p.handles[i] = &Handle{ID: i}
	}
	return p
}

// PoolSizeFor is the pool capacity for a load range: (2*loadRange)^3.
func PoolSizeFor(loadRange int) int {
	n := 2 * loadRange
	return n * n * n
}

// Acquire returns the first inactive handle, bound to chunk. It returns false
// when every handle is in use; the pool never grows.
func (p *Pool) Acquire(chunk world.Coord) (*Handle, bool) {
	for _, h := range p.handles {
		if !h.active {
			h.active = true
			h.Chunk = chunk
			p.inUse++
			return h, true
		}
	}
	return nil, false
}

// Release returns a handle to the pool.
func (p *Pool) Release(h *Handle) {
	if h == nil || !h.active {
		return
	}
	h.active = false
	p.inUse--
}

// Capacity is the fixed number of handles.
func (p *Pool) Capacity() int { return len(p.handles) }

// InUse is the number of active handles.
func (p *Pool) InUse() int { return p.inUse }
