package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"voxel-engine/internal/storage/regionfile"
	"voxel-engine/internal/world"
)

// Load range limits in chunks.
const (
	MinLoadRange = 1
	MaxLoadRange = 16
)

// Config is the full runtime configuration of a voxel world.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Streaming StreamingConfig `yaml:"streaming"`
	Storage   StorageConfig   `yaml:"storage"`
	Generator GeneratorConfig `yaml:"generator"`
	Stream    StreamConfig    `yaml:"stream"`
}

type WorldConfig struct {
	Name       string `yaml:"name"`
	Seed       int64  `yaml:"seed"`
	ChunkSize  Size   `yaml:"chunk_size"`
	RegionSize int    `yaml:"region_size"`
}

// Size is a chunk extent in voxels.
type Size struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	Z int `yaml:"z"`
}

// Dims converts the size to world dimensions.
func (s Size) Dims() world.Dims { return world.Dims{X: s.X, Y: s.Y, Z: s.Z} }

type StreamingConfig struct {
	// LoadRange is the Euclidean chunk radius kept loaded around the observer.
	LoadRange int `yaml:"load_range"`
	// MaxLoadsPerTick caps chunk loads per tick; 0 means unlimited.
	MaxLoadsPerTick int `yaml:"max_loads_per_tick"`
	// PoolCapacity overrides the display pool size; 0 means (2*LoadRange)^3.
	PoolCapacity int `yaml:"pool_capacity"`
	// TickRate is the target ticks per second; 0 runs unpaced.
	TickRate int `yaml:"tick_rate"`
}

type StorageConfig struct {
	// Root is the directory holding one subdirectory per world.
	Root string `yaml:"root"`
	// Compression is "none", "zstd" or "lz4".
	Compression string `yaml:"compression"`
	// Catalog is a SQLite file recording saves; empty disables it.
	Catalog string `yaml:"catalog"`
	// Regenerate ignores saved regions.
	Regenerate bool `yaml:"regenerate"`
}

// StreamConfig configures the WebSocket mesh stream.
type StreamConfig struct {
	Listen string `yaml:"listen"`
	Path   string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		World: WorldConfig{
			Name:       "default",
			Seed:       1337,
			ChunkSize:  Size{X: 16, Y: 16, Z: 16},
			RegionSize: world.DefaultRegionSize,
		},
		Streaming: StreamingConfig{LoadRange: 3, TickRate: 60},
		Storage:   StorageConfig{Root: "worlds", Compression: string(regionfile.CodecNone)},
		Generator: DefaultGenerator(),
		Stream:    StreamConfig{Path: "/mesh"},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Normalize clamps tunables into their supported ranges.
func (c *Config) Normalize() {
	c.Streaming.LoadRange = ClampLoadRange(c.Streaming.LoadRange)
	if c.Streaming.MaxLoadsPerTick < 0 {
		c.Streaming.MaxLoadsPerTick = 0
	}
	if c.Streaming.PoolCapacity < 0 {
		c.Streaming.PoolCapacity = 0
	}
	if c.Streaming.TickRate < 0 {
		c.Streaming.TickRate = 0
	}
	if c.World.RegionSize <= 0 {
		c.World.RegionSize = world.DefaultRegionSize
	}
	if c.Stream.Path == "" {
		c.Stream.Path = "/mesh"
	}
}

// ClampLoadRange limits a load range to [MinLoadRange, MaxLoadRange].
func ClampLoadRange(r int) int {
	return max(MinLoadRange, min(r, MaxLoadRange))
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.World.Name) == "" {
		errs = append(errs, errors.New("world.name is empty"))
	}
	if strings.ContainsAny(c.World.Name, `/\`) {
		errs = append(errs, fmt.Errorf("world.name %q contains a path separator", c.World.Name))
	}
	if !c.World.ChunkSize.Dims().Valid() {
		errs = append(errs, fmt.Errorf("world.chunk_size %v must be positive", c.World.ChunkSize))
	}
	if c.Storage.Root == "" {
		errs = append(errs, errors.New("storage.root is empty"))
	}
	if _, err := regionfile.ParseCodec(c.Storage.Compression); err != nil {
		errs = append(errs, fmt.Errorf("storage.compression: %w", err))
	}
	if err := c.Generator.validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// PoolSize is the display pool capacity implied by the streaming settings.
func (c Config) PoolSize() int {
	if c.Streaming.PoolCapacity > 0 {
		return c.Streaming.PoolCapacity
	}
	n := 2 * c.Streaming.LoadRange
	return n * n * n
}
