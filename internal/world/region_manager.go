package world

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
)

// RegionManagerOptions configure a RegionManager.
type RegionManagerOptions struct {
	RegionSize int
	Dims       Dims
	Generator  Generator
	Storage    RegionStorage
	// Regenerate ignores saved regions and builds everything fresh.
	Regenerate bool
	Logger     *log.Logger
}

// RegionManager maps chunk indices to their owning regions, loading regions
// from storage or generating chunks on demand.
type RegionManager struct {
	regionSize int
	dims       Dims
	gen        Generator
	storage    RegionStorage
	regenerate bool
	log        *log.Logger

	regions map[Coord]*Region
	// failed holds regions whose stored stream could not be decoded.
	failed map[Coord]error
}

// NewRegionManager creates a manager. Missing sizes fall back to defaults and a
// nil Storage keeps everything in memory.
func NewRegionManager(opts RegionManagerOptions) *RegionManager {
	if opts.RegionSize <= 0 {
		opts.RegionSize = DefaultRegionSize
	}
	if !opts.Dims.Valid() {
		opts.Dims = DefaultDims
	}
	if opts.Storage == nil {
		opts.Storage = NewMemoryStorage()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &RegionManager{
		regionSize: opts.RegionSize,
		dims:       opts.Dims,
		gen:        opts.Generator,
		storage:    opts.Storage,
		regenerate: opts.Regenerate,
		log:        opts.Logger,
		regions:    make(map[Coord]*Region),
		failed:     make(map[Coord]error),
	}
}

// Dims returns the chunk dimensions used by this world.
func (m *RegionManager) Dims() Dims { return m.dims }

// RegionSize returns the number of chunks per region axis.
func (m *RegionManager) RegionSize() int { return m.regionSize }

// RegionOf returns the region index owning the chunk.
func (m *RegionManager) RegionOf(chunk Coord) Coord {
	return RegionOf(chunk, m.regionSize)
}

// GetChunk returns the chunk at index, loading its region and generating the
// chunk if needed.
func (m *RegionManager) GetChunk(index Coord) (*Chunk, error) {
	r, err := m.region(m.RegionOf(index))
	if err != nil {
		return nil, err
	}
	if c, ok := r.Chunk(index); ok {
		return c, nil
	}
	var c *Chunk
	if m.gen != nil {
		c = m.gen.GenerateChunk(index, m.dims)
	}
	if c == nil {
		c = NewChunk(index, m.dims)
	}
	if err := r.Put(c); err != nil {
		return nil, fmt.Errorf("generate chunk %v: %w", index, err)
	}
	return c, nil
}

// PeekChunk returns a resident chunk without loading or generating anything.
func (m *RegionManager) PeekChunk(index Coord) (*Chunk, bool) {
	r, ok := m.regions[m.RegionOf(index)]
	if !ok {
		return nil, false
	}
	return r.Chunk(index)
}

// IsResident reports whether the region is in memory.
func (m *RegionManager) IsResident(region Coord) bool {
	_, ok := m.regions[region]
	return ok
}

// Resident returns the resident region indices in sorted order.
func (m *RegionManager) Resident() []Coord {
	out := make([]Coord, 0, len(m.regions))
	for k := range m.regions {
		out = append(out, k)
	}
	sortCoords(out)
	return out
}

// MarkModified flags the region owning the chunk for saving.
func (m *RegionManager) MarkModified(chunk Coord) {
	if r, ok := m.regions[m.RegionOf(chunk)]; ok {
		r.MarkModified()
	}
}

func (m *RegionManager) region(index Coord) (*Region, error) {
	if r, ok := m.regions[index]; ok {
		return r, nil
	}
	if err, ok := m.failed[index]; ok {
		return nil, err
	}
	r, err := m.loadRegion(index)
	if err != nil {
		if errors.Is(err, ErrCorruptRegionStream) {
			m.failed[index] = err
		}
		return nil, err
	}
	m.regions[index] = r
	return r, nil
}

func (m *RegionManager) loadRegion(index Coord) (*Region, error) {
	if m.regenerate {
		return NewRegion(index, m.regionSize, m.dims), nil
	}
	data, found, err := m.storage.LoadRegion(index)
	if err != nil {
		return nil, fmt.Errorf("load region %v: %w", index, err)
	}
	if !found {
		return NewRegion(index, m.regionSize, m.dims), nil
	}
	r, err := DecodeRegion(index, m.regionSize, m.dims, data)
	if err != nil {
		return nil, fmt.Errorf("load region %v: %w", index, err)
	}
	m.log.Printf("world: loaded region %v (%d chunks)", index, r.Len())
	return r, nil
}

// Save writes the region to storage regardless of its modified flag.
func (m *RegionManager) Save(index Coord) error {
	r, ok := m.regions[index]
	if !ok {
		return nil
	}
	if err := m.storage.SaveRegion(index, r.Encode(), r.Len()); err != nil {
		return fmt.Errorf("save region %v: %w", index, err)
	}
	r.MarkSaved()
	return nil
}

// SaveIfModified writes the region only when it changed since the last save.
func (m *RegionManager) SaveIfModified(index Coord) error {
	r, ok := m.regions[index]
	if !ok || !r.Modified() {
		return nil
	}
	return m.Save(index)
}

// regionCenter is the region's center in chunk units.
func (m *RegionManager) regionCenter(index Coord) [3]float64 {
	s := float64(m.regionSize)
	return [3]float64{(float64(index.X) + 0.5) * s, (float64(index.Y) + 0.5) * s, (float64(index.Z) + 0.5) * s}
}

// EvictFar saves and drops every region whose center is farther than one
// region size from the observer chunk. It returns the evicted indices; a
// region that fails to save stays resident.
func (m *RegionManager) EvictFar(observer Coord) ([]Coord, error) {
	return m.EvictFarExcept(observer, nil)
}

// EvictFarExcept is EvictFar but keeps every region for which pinned is true.
func (m *RegionManager) EvictFarExcept(observer Coord, pinned func(region Coord) bool) ([]Coord, error) {
	var far []Coord
	for index := range m.regions {
		if pinned != nil && pinned(index) {
			continue
		}
		c := m.regionCenter(index)
		dx := c[0] - float64(observer.X)
		dy := c[1] - float64(observer.Y)
		dz := c[2] - float64(observer.Z)
		if math.Sqrt(dx*dx+dy*dy+dz*dz) > float64(m.regionSize) {
			far = append(far, index)
		}
	}
	sortCoords(far)

	var errs []error
	evicted := far[:0]
	for _, index := range far {
		if err := m.Save(index); err != nil {
			errs = append(errs, err)
			continue
		}
		delete(m.regions, index)
		evicted = append(evicted, index)
		m.log.Printf("world: unloaded region %v", index)
	}
	return evicted, errors.Join(errs...)
}

// Flush saves every resident region unconditionally.
func (m *RegionManager) Flush() error {
	var errs []error
	for _, index := range m.Resident() {
		if err := m.Save(index); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func sortCoords(cs []Coord) {
	sort.Slice(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
}
