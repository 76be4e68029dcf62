package world

// RegionStorage persists encoded region streams. A region that was never
// saved is reported with found == false and no error.
type RegionStorage interface {
	LoadRegion(index Coord) (data []byte, found bool, err error)
	SaveRegion(index Coord, data []byte, chunks int) error
}

// MemoryStorage keeps region streams in memory.
type MemoryStorage struct {
	regions map[Coord][]byte
	saves   int
}

// NewMemoryStorage creates an empty in-memory region store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{regions: make(map[Coord][]byte)}
}

func (m *MemoryStorage) LoadRegion(index Coord) ([]byte, bool, error) {
	data, ok := m.regions[index]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

func (m *MemoryStorage) SaveRegion(index Coord, data []byte, _ int) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	m.regions[index] = buf
	m.saves++
	return nil
}

// Put stores raw bytes for a region, bypassing encoding.
func (m *MemoryStorage) Put(index Coord, data []byte) {
	m.regions[index] = data
}

// Saves counts SaveRegion calls.
func (m *MemoryStorage) Saves() int { return m.saves }

// Stored returns the saved region coordinates in sorted order.
func (m *MemoryStorage) Stored() []Coord {
	out := make([]Coord, 0, len(m.regions))
	for k := range m.regions {
		out = append(out, k)
	}
	sortCoords(out)
	return out
}
