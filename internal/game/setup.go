package game

import (
	"errors"
	"fmt"
	"log"

	"voxel-engine/internal/config"
	"voxel-engine/internal/profiling"
	"voxel-engine/internal/render"
	"voxel-engine/internal/storage/indexdb"
	"voxel-engine/internal/storage/regionfile"
	"voxel-engine/internal/world"
)

// World bundles a session with the storage it owns.
type World struct {
	Session *Session
	Store   *regionfile.Store
	Catalog *indexdb.Catalog
}

// OpenWorld builds the generator, storage and session described by cfg.
func OpenWorld(cfg config.Config, surface render.Surface, logger *log.Logger, prof *profiling.Profiler) (*World, error) {
	if logger == nil {
		logger = log.Default()
	}
	gen, err := cfg.Generator.Build(cfg.World.Seed)
	if err != nil {
		return nil, err
	}

	w := &World{}
	opts := regionfile.Options{
		Root:   cfg.Storage.Root,
		World:  cfg.World.Name,
		Codec:  regionfile.Codec(cfg.Storage.Compression),
		Logger: logger,
	}
	if cfg.Storage.Catalog != "" {
		w.Catalog, err = indexdb.OpenSQLite(cfg.Storage.Catalog)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		opts.Catalog = w.Catalog
	}
	w.Store, err = regionfile.Open(opts)
	if err != nil {
		w.closeStorage()
		return nil, err
	}

	regions := world.NewRegionManager(world.RegionManagerOptions{
		RegionSize: cfg.World.RegionSize,
		Dims:       cfg.World.ChunkSize.Dims(),
		Generator:  gen,
		Storage:    w.Store,
		Regenerate: cfg.Storage.Regenerate,
		Logger:     logger,
	})
	w.Session = NewSession(regions, surface, Options{
		LoadRange:       cfg.Streaming.LoadRange,
		MaxLoadsPerTick: cfg.Streaming.MaxLoadsPerTick,
		PoolCapacity:    cfg.PoolSize(),
		Logger:          logger,
		Profiler:        prof,
	})
	logger.Printf("game: world %q in %s (generator %s, codec %s)", cfg.World.Name, w.Store.Dir(), cfg.Generator.Kind, w.Store.Codec())
	return w, nil
}

func (w *World) closeStorage() error {
	var errs []error
	if w.Store != nil {
		errs = append(errs, w.Store.Close())
	}
	if w.Catalog != nil {
		errs = append(errs, w.Catalog.Close())
	}
	return errors.Join(errs...)
}

// Close shuts the session down, flushing every region, then closes storage.
func (w *World) Close() error {
	err := w.Session.Shutdown()
	return errors.Join(err, w.closeStorage())
}
