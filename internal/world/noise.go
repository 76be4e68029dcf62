package world

import "math"

// Deterministic 2D gradient noise. Lattice gradients come from an integer
// hash so the same seed always yields the same terrain.

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// hash2 is a SplitMix64 style hash of a lattice point.
func hash2(x, z, seed int64) uint64 {
	v := uint64(x)*0x9E3779B97F4A7C15 + uint64(z)*0x517CC1B727220A95 + uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}

var gradients2D = [8][2]float64{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{math.Sqrt2 / 2, math.Sqrt2 / 2}, {-math.Sqrt2 / 2, math.Sqrt2 / 2},
	{math.Sqrt2 / 2, -math.Sqrt2 / 2}, {-math.Sqrt2 / 2, -math.Sqrt2 / 2},
}

func gradDot(ix, iz int64, dx, dz float64, seed int64) float64 {
	g := gradients2D[hash2(ix, iz, seed)&7]
	return g[0]*dx + g[1]*dz
}

// perlin2D returns gradient noise in roughly [0, 1], 0.5 on lattice points.
func perlin2D(x, z float64, seed int64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	fx := x - x0
	fz := z - z0
	ix := int64(x0)
	iz := int64(z0)

	n00 := gradDot(ix, iz, fx, fz, seed)
	n10 := gradDot(ix+1, iz, fx-1, fz, seed)
	n01 := gradDot(ix, iz+1, fx, fz-1, seed)
	n11 := gradDot(ix+1, iz+1, fx-1, fz-1, seed)

	u := fade(fx)
	w := fade(fz)
	n := lerp(lerp(n00, n10, u), lerp(n01, n11, u), w)
	// n is within [-sqrt(1/2), sqrt(1/2)]
	return n/math.Sqrt2 + 0.5
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// FilterKind selects how a NoiseFilter evaluates a single layer.
type FilterKind int

const (
	// FilterPerlin is smooth rolling noise clamped to [0, 1].
	FilterPerlin FilterKind = iota
	// FilterPeak folds the noise into ridges, each layer weighted by the previous one.
	FilterPeak
)

func (k FilterKind) String() string {
	switch k {
	case FilterPerlin:
		return "perlin"
	case FilterPeak:
		return "peak"
	default:
		return "unknown"
	}
}

// ParseFilterKind maps a config name to a FilterKind.
func ParseFilterKind(s string) (FilterKind, bool) {
	switch s {
	case "perlin", "":
		return FilterPerlin, true
	case "peak":
		return FilterPeak, true
	}
	return 0, false
}

// NoiseSettings tune one layered noise filter.
type NoiseSettings struct {
	Strength       float64
	Scale          float64
	OffsetX        float64
	OffsetZ        float64
	Layers         int
	BaseFrequency  float64
	FrequencyScale float64
	Persistence    float64
	ClipNegative   bool
}

// DefaultNoiseSettings mirrors a single smooth layer at scale 50.
func DefaultNoiseSettings() NoiseSettings {
	return NoiseSettings{
		Strength:       1,
		Scale:          50,
		Layers:         1,
		BaseFrequency:  1,
		FrequencyScale: 2,
		Persistence:    0.5,
	}
}

// NoiseFilter is a closed set of noise kinds sharing one settings struct.
type NoiseFilter struct {
	Kind     FilterKind
	Settings NoiseSettings
	Seed     int64
}

// Evaluate sums all layers at the world-space column (x, z) and scales by strength.
func (f NoiseFilter) Evaluate(x, z float64) float64 {
	sum := f.Layered(x, z) * f.Settings.Strength
	if f.Settings.ClipNegative && sum < 0 {
		return 0
	}
	return sum
}

// Layered is the octave sum before strength is applied.
func (f NoiseFilter) Layered(x, z float64) float64 {
	s := f.Settings
	scale := s.Scale
	if scale == 0 {
		scale = 1
	}
	frequency := s.BaseFrequency
	amplitude := 1.0
	weight := 1.0
	sum := 0.0
	for i := 0; i < max(s.Layers, 1); i++ {
		px := x/scale*frequency + s.OffsetX
		pz := z/scale*frequency + s.OffsetZ
		seed := f.Seed + int64(i*131)

		var v float64
		switch f.Kind {
		case FilterPeak:
			p := perlin2D(px, pz, seed)*2 - 1
			peaks := 1 - math.Abs(p)
			v = peaks * peaks * weight
			weight = v
		default:
			v = clamp01(perlin2D(px, pz, seed))
		}

		sum += v * amplitude
		frequency *= s.FrequencyScale
		amplitude *= s.Persistence
	}
	return sum
}
