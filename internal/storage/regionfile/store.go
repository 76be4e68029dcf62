package regionfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"voxel-engine/internal/storage/indexdb"
	"voxel-engine/internal/world"
)

// Catalog receives a record for every successful save.
type Catalog interface {
	RecordSave(ctx context.Context, rec indexdb.SaveRecord) error
}

// Options configure a Store.
type Options struct {
	// Root holds one directory per world.
	Root  string
	World string
	// Codec picks the file encoding; zstd and lz4 files carry an extra
	// extension after .bin. Empty means CodecNone.
	Codec   Codec
	Catalog Catalog
	Logger  *log.Logger
}

// Store keeps region streams as files under <Root>/<World>/.
type Store struct {
	dir     string
	world   string
	kind    Codec
	codec   codec
	catalog Catalog
	log     *log.Logger
}

// Open creates the world directory and returns a store over it.
func Open(opts Options) (*Store, error) {
	if opts.World == "" {
		return nil, errors.New("regionfile: empty world name")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	kind, err := ParseCodec(string(opts.Codec))
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(opts.Root, opts.World)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("regionfile: %w", err)
	}
	c, err := newCodec(kind)
	if err != nil {
		return nil, fmt.Errorf("regionfile: %w", err)
	}
	return &Store{
		dir:     dir,
		world:   opts.World,
		kind:    kind,
		codec:   c,
		catalog: opts.Catalog,
		log:     opts.Logger,
	}, nil
}

// Dir is the world directory.
func (s *Store) Dir() string { return s.dir }

// Codec is the encoding the store reads and writes.
func (s *Store) Codec() Codec { return s.kind }

// Path returns the file used for a region.
func (s *Store) Path(index world.Coord) string {
	return filepath.Join(s.dir, world.RegionFileName(index)+s.kind.Ext())
}

// LoadRegion reads a region stream. A missing file reports found=false.
func (s *Store) LoadRegion(index world.Coord) ([]byte, bool, error) {
	path := s.Path(index)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	data, err = s.codec.decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w: %v", filepath.Base(path), world.ErrCorruptRegionStream, err)
	}
	return data, true, nil
}

// SaveRegion atomically replaces the region file and records the save in the
// catalog. Catalog failures are logged, never returned.
func (s *Store) SaveRegion(index world.Coord, data []byte, chunks int) error {
	path := s.Path(index)
	data, err := s.codec.encode(data)
	if err != nil {
		return fmt.Errorf("regionfile: encode %s: %w", filepath.Base(path), err)
	}
	if err := writeAtomic(path, data); err != nil {
		return err
	}
	if s.catalog != nil {
		rec := indexdb.SaveRecord{
			World:      s.world,
			Region:     index,
			Chunks:     chunks,
			Bytes:      len(data),
			Path:       path,
			Compressed: s.kind != CodecNone,
			SavedAt:    time.Now(),
		}
		if err := s.catalog.RecordSave(context.Background(), rec); err != nil {
			s.log.Printf("regionfile: catalog: %v", err)
		}
	}
	return nil
}

// Close releases codec resources.
func (s *Store) Close() error {
	s.codec.close()
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return err
	}
	return nil
}
