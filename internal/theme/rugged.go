package theme

import (
	gomath "math"

	"github.com/Faultbox/facestyle/internal/facemesh"
	"github.com/Faultbox/facestyle/internal/inference"
	"github.com/Faultbox/facestyle/internal/lighting"
	"github.com/Faultbox/facestyle/internal/texture"
	"github.com/Faultbox/facestyle/pkg/math"
)

// RuggedConfig are the knobs of the weathered warrior theme.
type RuggedConfig struct {
	Ruggedness       float64
	Weathering       float64
	ScarIntensity    float64
	BeardDensity     float64
	JawEmphasis      float64
	BrowProminence   float64
	TextureIntensity float64
	HairLayers       bool
}

// DefaultRuggedConfig returns the theme defaults at full intensity.
func DefaultRuggedConfig() RuggedConfig {
	return RuggedConfig{
		Ruggedness:       0.8,
		Weathering:       0.7,
		ScarIntensity:    0.5,
		BeardDensity:     0.6,
		JawEmphasis:      0.7,
		BrowProminence:   0.6,
		TextureIntensity: 0.8,
		HairLayers:       true,
	}
}

// RuggedStrategy renders a weathered, scarred, bearded face under harsh
// side light.
type RuggedStrategy struct {
	Defaults RuggedConfig
}

// NewRugged returns the rugged theme with default configuration.
func NewRugged() *RuggedStrategy {
	return &RuggedStrategy{Defaults: DefaultRuggedConfig()}
}

// ID implements Strategy.
func (r *RuggedStrategy) ID() ID { return Rugged }

// Configure derives the request configuration: every numeric knob scaled by
// StyleIntensity, then fast drops hair layers and scars while high boosts
// ruggedness ×1.3 and scars ×1.5.
func (r *RuggedStrategy) Configure(opts Options) RuggedConfig {
	c := r.Defaults
	s := opts.StyleIntensity
	c.Ruggedness *= s
	c.Weathering *= s
	c.ScarIntensity *= s
	c.BeardDensity *= s
	c.JawEmphasis *= s
	c.BrowProminence *= s
	c.TextureIntensity *= s

	switch opts.Quality {
	case QualityFast:
		c.HairLayers = false
		c.ScarIntensity = 0
	case QualityHigh:
		c.Ruggedness *= 1.3
		c.ScarIntensity *= 1.5
	}
	return c
}

// EncodeStyleVector implements Strategy.
func (r *RuggedStrategy) EncodeStyleVector(opts Options) []float32 {
	c := r.Configure(opts)
	knobs := [7]float64{
		c.Ruggedness, c.Weathering, c.ScarIntensity, c.BeardDensity,
		c.JawEmphasis, c.BrowProminence, c.TextureIntensity,
	}
	return encodeStyleVector(knobs, opts, 0.1, c.Ruggedness)
}

// ExtractStyleFeatures implements Strategy. Weathering pulls channels that
// are brighter than the luminance back toward it and then darkens the whole
// tone, so skin never gets lighter as weathering rises.
func (r *RuggedStrategy) ExtractStyleFeatures(res *inference.Result, opts Options) (StyleFeatures, error) {
	mean, err := channelMeans(res)
	if err != nil {
		return StyleFeatures{}, err
	}
	c := r.Configure(opts)

	skin := mean
	lum := skin.Luminance()
	pull := func(v float64) float64 {
		if v > lum {
			return v + (lum-v)*0.5*c.Weathering
		}
		return v
	}
	skin = math.RGB{R: pull(skin.R), G: pull(skin.G), B: pull(skin.B)}
	skin = skin.Scale(1 - 0.35*c.Weathering)
	// Sun-worn skin loses blue before red.
	skin = skin.Mul(math.RGB{R: 1, G: 1 - 0.03*c.Ruggedness, B: 1 - 0.06*c.Ruggedness})

	darkBrown := math.RGB{R: 0.18, G: 0.12, B: 0.08}
	hair := mean.Scale(0.35).Lerp(darkBrown, gomath.Min(1, 0.5+0.5*c.BeardDensity))
	eyes := mean.Scale(0.4).Lerp(math.RGB{R: 0.35, G: 0.3, B: 0.22}, 0.6)

	structure := Structure{
		JawStrength:         1 + 0.3*c.JawEmphasis,
		CheekboneProminence: 1 + 0.2*c.Ruggedness,
		EyeSize:             1 - 0.1*c.BrowProminence,
		NoseShape:           1 + 0.1*c.Ruggedness,
		LipFullness:         1 - 0.1*c.Weathering,
	}.towardNeutral(0.5 * opts.PreserveIdentity)

	return StyleFeatures{
		SkinTone:            skin,
		HairColor:           hair,
		EyeColor:            eyes,
		Structure:           structure,
		ExpressionIntensity: 0.5 + 0.3*c.Ruggedness,
	}, nil
}

// DeformMesh implements Strategy. The brow ridge is pushed forward by
// BrowProminence in addition to the shared region displacement.
func (r *RuggedStrategy) DeformMesh(m *facemesh.Mesh, f StyleFeatures, opts Options) *facemesh.Mesh {
	if m == nil {
		return nil
	}
	c := r.Configure(opts)
	out := deformRegions(m, f.Structure)

	fr := newFrame(m.Vertices)
	for _, i := range fr.members(m.Vertices, browRegion) {
		out.Vertices[i].Z += c.BrowProminence * 0.02
	}
	return finishDeform(m, out)
}

var browRegion region = func(_, ny, cx float64) bool {
	return ny > 0.1 && ny < 0.22 && gomath.Abs(cx) < 0.35
}

// TransformMatrix implements Strategy.
func (r *RuggedStrategy) TransformMatrix(_ StyleFeatures, opts Options) math.Mat4 {
	c := r.Configure(opts)
	s := opts.StyleIntensity
	return math.Scale(
		1+c.JawEmphasis*0.1*s,
		1+c.BrowProminence*0.05*s,
		1+c.Ruggedness*0.08*s,
	)
}

// TextureRecipe implements Strategy.
func (r *RuggedStrategy) TextureRecipe(f StyleFeatures, opts Options) texture.Recipe {
	c := r.Configure(opts)
	layers := 1
	if c.HairLayers {
		layers = 3
	}
	return texture.Recipe{
		Size:             512,
		BaseColor:        f.SkinTone.Clamp(),
		Noise:            texture.NoiseHash,
		TextureIntensity: c.TextureIntensity,
		Modifier: texture.Modifier{
			Kind:      texture.ModifierDarken,
			Strength:  c.Weathering,
			Threshold: 0.55,
		},
		Scars: texture.Scars{
			Count:     int(gomath.Round(c.ScarIntensity * 5)),
			Intensity: c.ScarIntensity,
		},
		Hair: &texture.Hair{
			Color:         f.HairColor.Clamp(),
			Density:       0.8,
			Coverage:      0.18,
			BeardCoverage: 0.3 * c.BeardDensity,
			BeardDensity:  c.BeardDensity,
			Layers:        layers,
			FlowAngle:     gomath.Pi / 2,
			Waviness:      0.3,
		},
		NormalStrength:    0.6 + 0.4*c.Ruggedness,
		Specular:          0.2,
		SpecularVariation: 0.15,
		Roughness:         0.8,
	}
}

// LightingProfile implements Strategy: a warm, low, side-angled key with
// hard, deep shadows.
func (r *RuggedStrategy) LightingProfile(Options) lighting.Profile {
	return lighting.Profile{
		Name:            string(Rugged),
		SunLongitude:    70,
		SunLatitude:     20,
		DirectionBlend:  0.8,
		IntensityScale:  1.4,
		Tint:            math.RGB{R: 1, G: 0.78, B: 0.55},
		TintAmount:      0.5,
		AmbientOffset:   -0.15,
		ShadowIntensity: 0.85,
		ShadowSoftness:  0.2,
		Atmosphere: lighting.Atmosphere{
			Particles: []lighting.Particle{
				{Type: "dust", Density: 0.35, Color: math.RGB{R: 0.6, G: 0.5, B: 0.4}, Motion: math.Vec3{X: 0.2, Y: -0.05}},
				{Type: "embers", Density: 0.1, Color: math.RGB{R: 1, G: 0.45, B: 0.1}, Motion: math.Vec3{X: 0.05, Y: 0.3}},
			},
			Grading: lighting.ColorGrading{
				Shadows:    math.RGB{R: 0.9, G: 0.85, B: 0.8},
				Midtones:   math.RGB{R: 1.05, G: 1, B: 0.92},
				Highlights: math.RGB{R: 1.1, G: 1.02, B: 0.9},
				Saturation: 0.8,
				Contrast:   1.3,
			},
		},
	}
}
