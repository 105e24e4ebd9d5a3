package lighting

import (
	gomath "math"

	"github.com/Faultbox/facestyle/pkg/math"
)

// Analysis is the coarse lighting estimate of the source photo.
type Analysis struct {
	Direction    math.Vec3 `yaml:"direction"`
	Intensity    float64   `yaml:"intensity"`
	Color        math.RGB  `yaml:"color"`
	AmbientLevel float64   `yaml:"ambient_level"`
}

// DefaultAnalysis is a neutral frontal key light, used when the caller has
// no analysis.
func DefaultAnalysis() Analysis {
	return Analysis{
		Direction:    math.Vec3{X: 0, Y: 0.5, Z: 1}.Normalize(),
		Intensity:    0.8,
		Color:        math.RGB{R: 1, G: 0.98, B: 0.95},
		AmbientLevel: 0.3,
	}
}

// Shadow is a localized shadow in face-normalized coordinates (origin top
// left, y down).
type Shadow struct {
	Name      string    `yaml:"name"`
	Position  math.Vec2 `yaml:"position"`
	Intensity float64   `yaml:"intensity"`
	Softness  float64   `yaml:"softness"`
}

// Data is the themed lighting description.
type Data struct {
	Direction math.Vec3 `yaml:"direction"`
	Color     math.RGB  `yaml:"color"`
	Intensity float64   `yaml:"intensity"`
	Ambient   float64   `yaml:"ambient"`
	Shadows   []Shadow  `yaml:"shadows"`
}

// Particle is one atmospheric particle system.
type Particle struct {
	Type    string    `yaml:"type"`
	Density float64   `yaml:"density"`
	Color   math.RGB  `yaml:"color"`
	Motion  math.Vec3 `yaml:"motion"`
}

// Mist is a height fog layer.
type Mist struct {
	Density float64  `yaml:"density"`
	Height  float64  `yaml:"height"`
	Color   math.RGB `yaml:"color"`
}

// ColorGrading holds per-tonal-range multipliers plus global saturation and
// contrast.
type ColorGrading struct {
	Shadows    math.RGB `yaml:"shadows"`
	Midtones   math.RGB `yaml:"midtones"`
	Highlights math.RGB `yaml:"highlights"`
	Saturation float64  `yaml:"saturation"`
	Contrast   float64  `yaml:"contrast"`
}

// Atmosphere is the theme-authored mood layer.
type Atmosphere struct {
	Particles []Particle   `yaml:"particles"`
	Mist      *Mist        `yaml:"mist,omitempty"`
	Grading   ColorGrading `yaml:"grading"`
}

// Profile is a theme's lighting recipe. Harsh themes use a high shadow
// intensity with low softness; soft themes the reverse.
type Profile struct {
	Name string
	// Theme key light position in degrees.
	SunLongitude float64
	SunLatitude  float64
	// DirectionBlend is how far the source direction moves toward the theme
	// direction at full intensity.
	DirectionBlend  float64
	IntensityScale  float64
	Tint            math.RGB
	TintAmount      float64
	AmbientOffset   float64
	ShadowIntensity float64
	ShadowSoftness  float64
	Atmosphere      Atmosphere
}

// anchor is a fixed shadow site under a facial feature.
type anchor struct {
	name   string
	pos    math.Vec2
	weight float64
}

var anchors = []anchor{
	{"leftCheekbone", math.Vec2{X: 0.30, Y: 0.55}, 1.0},
	{"rightCheekbone", math.Vec2{X: 0.70, Y: 0.55}, 1.0},
	{"jaw", math.Vec2{X: 0.50, Y: 0.85}, 0.9},
	{"nose", math.Vec2{X: 0.50, Y: 0.62}, 0.7},
	{"brow", math.Vec2{X: 0.50, Y: 0.33}, 0.6},
}

// Compose applies profile to the source analysis. intensity in [0,1] scales
// how strongly the theme overrides the source; out-of-range values are
// clamped. The atmosphere is returned as a copy of the profile's.
func Compose(profile Profile, analysis Analysis, intensity float64) (Data, Atmosphere) {
	t := clamp01(intensity)

	theme := SunDirection(profile.SunLongitude, profile.SunLatitude)
	src := analysis.Direction.NormalizeOr(theme, 1e-9)
	dir := src.Lerp(theme, clamp01(profile.DirectionBlend)*t).NormalizeOr(theme, 1e-9)

	scale := 1 + (profile.IntensityScale-1)*t
	data := Data{
		Direction: dir,
		Color:     analysis.Color.Lerp(profile.Tint, clamp01(profile.TintAmount)*t).Clamp(),
		Intensity: gomath.Max(0, nanTo(analysis.Intensity, 0)*scale),
		Ambient:   clamp01(analysis.AmbientLevel + profile.AmbientOffset*t),
	}

	data.Shadows = make([]Shadow, len(anchors))
	for i, a := range anchors {
		w := a.weight
		// The cheekbone facing away from the key light falls deeper into shade.
		if (a.pos.X < 0.5 && dir.X > 0) || (a.pos.X > 0.5 && dir.X < 0) {
			w += 0.15 * gomath.Abs(dir.X)
		}
		data.Shadows[i] = Shadow{
			Name:      a.name,
			Position:  a.pos,
			Intensity: clamp01(profile.ShadowIntensity * w * (1 - 0.5*data.Ambient)),
			Softness:  clamp01(profile.ShadowSoftness),
		}
	}

	return data, cloneAtmosphere(profile.Atmosphere)
}

func cloneAtmosphere(a Atmosphere) Atmosphere {
	out := Atmosphere{Grading: a.Grading}
	if a.Particles != nil {
		out.Particles = append([]Particle(nil), a.Particles...)
	}
	if a.Mist != nil {
		m := *a.Mist
		out.Mist = &m
	}
	return out
}

func nanTo(v, fallback float64) float64 {
	if gomath.IsNaN(v) {
		return fallback
	}
	return v
}

func clamp01(v float64) float64 {
	if gomath.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
