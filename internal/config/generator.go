package config

import (
	"fmt"

	"voxel-engine/internal/world"
)

// GeneratorConfig selects and tunes the terrain generator.
type GeneratorConfig struct {
	// Kind is one of "noise", "flat" or "solid".
	Kind       string         `yaml:"kind"`
	BaseHeight int            `yaml:"base_height"`
	Base       FilterConfig   `yaml:"base"`
	Features   []FilterConfig `yaml:"features"`
}

// FilterConfig is the YAML form of a world.NoiseFilter.
type FilterConfig struct {
	Kind           string  `yaml:"kind"`
	SeedOffset     int64   `yaml:"seed_offset"`
	Strength       float64 `yaml:"strength"`
	Scale          float64 `yaml:"scale"`
	OffsetX        float64 `yaml:"offset_x"`
	OffsetZ        float64 `yaml:"offset_z"`
	Layers         int     `yaml:"layers"`
	BaseFrequency  float64 `yaml:"base_frequency"`
	FrequencyScale float64 `yaml:"frequency_scale"`
	Persistence    float64 `yaml:"persistence"`
	ClipNegative   bool    `yaml:"clip_negative"`
}

// DefaultGenerator mirrors world.NewNoiseGenerator.
func DefaultGenerator() GeneratorConfig {
	base := filterFromSettings(world.DefaultNoiseSettings())
	base.Kind = "perlin"
	base.Strength = 8
	base.Scale = 120
	peaks := filterFromSettings(world.DefaultNoiseSettings())
	peaks.Kind = "peak"
	peaks.SeedOffset = 7919
	peaks.Strength = 24
	peaks.Layers = 4
	return GeneratorConfig{
		Kind:       "noise",
		BaseHeight: 32,
		Base:       base,
		Features:   []FilterConfig{peaks},
	}
}

func filterFromSettings(s world.NoiseSettings) FilterConfig {
	return FilterConfig{
		Strength:       s.Strength,
		Scale:          s.Scale,
		OffsetX:        s.OffsetX,
		OffsetZ:        s.OffsetZ,
		Layers:         s.Layers,
		BaseFrequency:  s.BaseFrequency,
		FrequencyScale: s.FrequencyScale,
		Persistence:    s.Persistence,
		ClipNegative:   s.ClipNegative,
	}
}

// Filter converts the config to a noise filter seeded from the world seed.
func (f FilterConfig) Filter(seed int64) (world.NoiseFilter, error) {
	kind, ok := world.ParseFilterKind(f.Kind)
	if !ok {
		return world.NoiseFilter{}, fmt.Errorf("unknown filter kind %q", f.Kind)
	}
	return world.NoiseFilter{
		Kind: kind,
		Seed: seed + f.SeedOffset,
		Settings: world.NoiseSettings{
			Strength:       f.Strength,
			Scale:          f.Scale,
			OffsetX:        f.OffsetX,
			OffsetZ:        f.OffsetZ,
			Layers:         f.Layers,
			BaseFrequency:  f.BaseFrequency,
			FrequencyScale: f.FrequencyScale,
			Persistence:    f.Persistence,
			ClipNegative:   f.ClipNegative,
		},
	}, nil
}

func (g GeneratorConfig) validate() error {
	switch g.Kind {
	case "noise":
		if _, err := g.Base.Filter(0); err != nil {
			return fmt.Errorf("generator.base: %w", err)
		}
		for i, f := range g.Features {
			if _, err := f.Filter(0); err != nil {
				return fmt.Errorf("generator.features[%d]: %w", i, err)
			}
		}
	case "flat", "solid":
	default:
		return fmt.Errorf("unknown generator.kind %q", g.Kind)
	}
	return nil
}

// Build constructs the configured generator.
func (g GeneratorConfig) Build(seed int64) (world.Generator, error) {
	switch g.Kind {
	case "flat":
		return world.NewFlatGenerator(g.BaseHeight), nil
	case "solid":
		return world.SolidGenerator{Voxel: world.StoneVoxel}, nil
	case "noise":
		base, err := g.Base.Filter(seed)
		if err != nil {
			return nil, fmt.Errorf("generator.base: %w", err)
		}
		gen := &world.NoiseGenerator{BaseHeight: g.BaseHeight, Base: &base}
		for i, fc := range g.Features {
			f, err := fc.Filter(seed)
			if err != nil {
				return nil, fmt.Errorf("generator.features[%d]: %w", i, err)
			}
			gen.Features = append(gen.Features, f)
		}
		return gen, nil
	}
	return nil, fmt.Errorf("unknown generator.kind %q", g.Kind)
}
