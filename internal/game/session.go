package game

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"voxel-engine/internal/meshing"
	"voxel-engine/internal/profiling"
	"voxel-engine/internal/render"
	"voxel-engine/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Options configure a Session.
type Options struct {
	// LoadRange is the Euclidean chunk radius kept loaded around the observer.
	LoadRange int
	// MaxLoadsPerTick caps chunk loads per tick; 0 means unlimited.
	MaxLoadsPerTick int
	// PoolCapacity overrides the display pool size; 0 means (2*LoadRange)^3.
	PoolCapacity int
	Logger       *log.Logger
	Profiler     *profiling.Profiler
}

// TickStats summarises one streaming step.
type TickStats struct {
	Observer world.Coord
	Loaded   int
	Unloaded int
	Shown    int
	Hidden   int
	Remeshed int
	// Deferred counts chunks that stayed hidden because the pool was exhausted.
	Deferred int
	// Pending counts chunks left unloaded by the per-tick load cap.
	Pending int
	Evicted int
	Errors  int
}

// Session streams chunks around a moving observer. Chunks move from unloaded
// to loaded (held in memory) to visible (holding a display handle). Every
// visible chunk is loaded. A Session is not safe for concurrent use.
type Session struct {
	regions *world.RegionManager
	surface render.Surface
	pool    *render.Pool
	dims    world.Dims
	log     *log.Logger
	prof    *profiling.Profiler

	loadRange int
	maxLoads  int
	// offsets is the load sphere, nearest first.
	offsets []world.Coord

	observer world.Coord
	loaded   map[world.Coord]*world.Chunk
	visible  map[world.Coord]*render.Handle
}

// NewSession creates a session over regions that displays through surface.
func NewSession(regions *world.RegionManager, surface render.Surface, opts Options) *Session {
	if opts.LoadRange < 1 {
		opts.LoadRange = 1
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	capacity := opts.PoolCapacity
	if capacity <= 0 {
		capacity = render.PoolSizeFor(opts.LoadRange)
	}
	return &Session{
		regions:   regions,
		surface:   surface,
		pool:      render.NewPool(capacity),
		dims:      regions.Dims(),
		log:       opts.Logger,
		prof:      opts.Profiler,
		loadRange: opts.LoadRange,
		maxLoads:  max(opts.MaxLoadsPerTick, 0),
		offsets:   sphereOffsets(opts.LoadRange),
		loaded:    make(map[world.Coord]*world.Chunk),
		visible:   make(map[world.Coord]*render.Handle),
	}
}

// sphereOffsets lists every offset within r, ordered by distance then coordinate.
func sphereOffsets(r int) []world.Coord {
	var out []world.Coord
	for x := -r; x <= r; x++ {
		for y := -r; y <= r; y++ {
			for z := -r; z <= r; z++ {
				if x*x+y*y+z*z <= r*r {
					out = append(out, world.Coord{X: x, Y: y, Z: z})
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].DistSq(world.Coord{}), out[j].DistSq(world.Coord{})
		if di != dj {
			return di < dj
		}
		return lessCoord(out[i], out[j])
	})
	return out
}

func lessCoord(a, b world.Coord) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}

func sortedKeys[V any](m map[world.Coord]V) []world.Coord {
	out := make([]world.Coord, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return lessCoord(out[i], out[j]) })
	return out
}

// Init streams the world in around the observer's starting position.
func (s *Session) Init(observer mgl32.Vec3) TickStats {
	s.log.Printf("game: streaming %v chunks, load range %d, pool %d", s.dims, s.loadRange, s.pool.Capacity())
	return s.Tick(observer)
}

// Tick runs one streaming step for the observer position.
func (s *Session) Tick(observer mgl32.Vec3) TickStats {
	defer s.prof.Track("session.Tick")()

	s.observer = world.ChunkAt(observer, s.dims)
	stats := TickStats{Observer: s.observer}
	s.load(&stats)
	s.unload(&stats)
	s.evict(&stats)
	s.show(&stats)
	s.remesh(&stats)
	return stats
}

func (s *Session) inRange(c world.Coord) bool {
	return c.DistSq(s.observer) <= s.loadRange*s.loadRange
}

func (s *Session) load(stats *TickStats) {
	defer s.prof.Track("session.load")()
	for _, off := range s.offsets {
		c := s.observer.Add(off)
		if _, ok := s.loaded[c]; ok {
			continue
		}
		if s.maxLoads > 0 && stats.Loaded >= s.maxLoads {
			stats.Pending++
			continue
		}
		chunk, err := s.regions.GetChunk(c)
		if err != nil {
			s.log.Printf("game: load chunk %v: %v", c, err)
			stats.Errors++
			continue
		}
		s.loaded[c] = chunk
		stats.Loaded++
		s.markNeighborsDirty(c)
	}
}

// markNeighborsDirty rebuilds visible neighbors whose border faces depend on c.
func (s *Session) markNeighborsDirty(c world.Coord) {
	for _, n := range world.Neighbors {
		nc := c.Add(n)
		if _, ok := s.visible[nc]; ok {
			s.loaded[nc].MarkDirty()
		}
	}
}

func (s *Session) hide(c world.Coord) bool {
	h, ok := s.visible[c]
	if !ok {
		return false
	}
	s.surface.Clear(h)
	s.pool.Release(h)
	delete(s.visible, c)
	return true
}

func (s *Session) unload(stats *TickStats) {
	defer s.prof.Track("session.unload")()
	touched := make(map[world.Coord]struct{})
	for _, c := range sortedKeys(s.loaded) {
		if s.inRange(c) {
			continue
		}
		if s.hide(c) {
			stats.Hidden++
		}
		delete(s.loaded, c)
		stats.Unloaded++
		touched[s.regions.RegionOf(c)] = struct{}{}
		s.markNeighborsDirty(c)
	}
	for _, r := range sortedKeys(touched) {
		if err := s.regions.SaveIfModified(r); err != nil {
			s.log.Printf("game: %v", err)
			stats.Errors++
		}
	}
}

func (s *Session) evict(stats *TickStats) {
	defer s.prof.Track("session.evict")()
	pinned := make(map[world.Coord]bool)
	for c := range s.loaded {
		pinned[s.regions.RegionOf(c)] = true
	}
	evicted, err := s.regions.EvictFarExcept(s.observer, func(r world.Coord) bool { return pinned[r] })
	if err != nil {
		s.log.Printf("game: evict: %v", err)
		stats.Errors++
	}
	stats.Evicted = len(evicted)
}

func (s *Session) show(stats *TickStats) {
	for _, off := range s.offsets {
		c := s.observer.Add(off)
		chunk, ok := s.loaded[c]
		if !ok {
			continue
		}
		if chunk.IsEmpty() {
			if s.hide(c) {
				stats.Hidden++
			}
			continue
		}
		if _, ok := s.visible[c]; ok {
			continue
		}
		h, ok := s.pool.Acquire(c)
		if !ok {
			stats.Deferred++
			continue
		}
		s.visible[c] = h
		chunk.MarkDirty()
		stats.Shown++
	}
}

func (s *Session) remesh(stats *TickStats) {
	defer s.prof.Track("session.remesh")()
	for _, off := range s.offsets {
		c := s.observer.Add(off)
		h, ok := s.visible[c]
		if !ok {
			continue
		}
		chunk := s.loaded[c]
		if !chunk.IsDirty() {
			continue
		}
		s.surface.Apply(h, chunk.Origin(), meshing.BuildGreedyMesh(chunk, s))
		chunk.SetClean()
		stats.Remeshed++
	}
}

// Shutdown hides every chunk and saves every resident region.
func (s *Session) Shutdown() error {
	for _, c := range sortedKeys(s.visible) {
		s.hide(c)
	}
	clear(s.loaded)
	if err := s.regions.Flush(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Printf("game: session shut down")
	return nil
}

// LookupVoxel returns the voxel at a global position when its chunk is loaded.
func (s *Session) LookupVoxel(global world.Coord) (world.Voxel, bool) {
	c, ok := s.loaded[world.ChunkOf(global, s.dims)]
	if !ok {
		return world.Air, false
	}
	return c.At(world.LocalOf(global, s.dims)), true
}

// chunk returns a loaded chunk or pulls it through the region manager.
func (s *Session) chunk(index world.Coord) (*world.Chunk, error) {
	if c, ok := s.loaded[index]; ok {
		return c, nil
	}
	return s.regions.GetChunk(index)
}

// Voxel returns the voxel at a global position, loading its chunk if needed.
func (s *Session) Voxel(global world.Coord) (world.Voxel, error) {
	c, err := s.chunk(world.ChunkOf(global, s.dims))
	if err != nil {
		return world.Air, err
	}
	return c.At(world.LocalOf(global, s.dims)), nil
}

// SetVoxel writes one voxel and flags every mesh that can see it.
func (s *Session) SetVoxel(global world.Coord, v world.Voxel) error {
	index := world.ChunkOf(global, s.dims)
	c, err := s.chunk(index)
	if err != nil {
		return err
	}
	local := world.LocalOf(global, s.dims)
	if c.At(local) == v {
		return nil
	}
	if err := c.Set(local.X, local.Y, local.Z, v); err != nil {
		return err
	}
	c.RecomputeEmpty()
	s.regions.MarkModified(index)

	l, d := local.Array(), s.dims.Array()
	for axis := 0; axis < 3; axis++ {
		var step [3]int
		switch l[axis] {
		case 0:
			step[axis] = -1
		case d[axis] - 1:
			step[axis] = 1
		default:
			continue
		}
		if n, ok := s.loaded[index.Add(world.CoordFromArray(step))]; ok {
			n.MarkDirty()
		}
	}
	return nil
}

// FillRange fills the inclusive global box between two corners.
func (s *Session) FillRange(corner1, corner2 world.Coord, v world.Voxel) error {
	a, b := corner1.Array(), corner2.Array()
	for i := range a {
		if a[i] > b[i] {
			a[i], b[i] = b[i], a[i]
		}
	}
	lo, hi := world.CoordFromArray(a), world.CoordFromArray(b)
	clo, chi := world.ChunkOf(lo, s.dims), world.ChunkOf(hi, s.dims)

	var errs []error
	for cx := clo.X; cx <= chi.X; cx++ {
		for cy := clo.Y; cy <= chi.Y; cy++ {
			for cz := clo.Z; cz <= chi.Z; cz++ {
				index := world.Coord{X: cx, Y: cy, Z: cz}
				if err := s.fillChunk(index, lo, hi, v); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Session) fillChunk(index, lo, hi world.Coord, v world.Voxel) error {
	c, err := s.chunk(index)
	if err != nil {
		return err
	}
	origin := c.Origin()
	d := s.dims.Array()
	l, h, o := lo.Array(), hi.Array(), origin.Array()
	var from, to [3]int
	for i := range from {
		from[i] = max(l[i]-o[i], 0)
		to[i] = min(h[i]-o[i], d[i]-1)
	}
	if err := c.FillRange(world.CoordFromArray(from), world.CoordFromArray(to), v); err != nil {
		return fmt.Errorf("fill chunk %v: %w", index, err)
	}
	c.RecomputeEmpty()
	s.regions.MarkModified(index)
	for _, n := range world.Neighbors {
		if nc, ok := s.loaded[index.Add(n)]; ok {
			nc.MarkDirty()
		}
	}
	return nil
}

// Observer is the chunk the observer stood in at the last tick.
func (s *Session) Observer() world.Coord { return s.observer }

// Loaded returns the loaded chunk indices in coordinate order.
func (s *Session) Loaded() []world.Coord { return sortedKeys(s.loaded) }

// Visible returns the visible chunk indices in coordinate order.
func (s *Session) Visible() []world.Coord { return sortedKeys(s.visible) }

// IsLoaded reports whether the chunk is held in memory by the session.
func (s *Session) IsLoaded(c world.Coord) bool {
	_, ok := s.loaded[c]
	return ok
}

// IsVisible reports whether the chunk holds a display handle.
func (s *Session) IsVisible(c world.Coord) bool {
	_, ok := s.visible[c]
	return ok
}

// Pool exposes the display pool for diagnostics.
func (s *Session) Pool() *render.Pool { return s.pool }

// Regions returns the backing region manager.
func (s *Session) Regions() *world.RegionManager { return s.regions }
