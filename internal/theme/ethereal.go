package theme

import (
	gomath "math"

	"github.com/Faultbox/facestyle/internal/facemesh"
	"github.com/Faultbox/facestyle/internal/inference"
	"github.com/Faultbox/facestyle/internal/lighting"
	"github.com/Faultbox/facestyle/internal/texture"
	"github.com/Faultbox/facestyle/pkg/math"
)

// EtherealConfig are the knobs of the soft luminous portrait theme.
type EtherealConfig struct {
	Luminosity       float64
	Softness         float64
	Translucency     float64
	HairFlow         float64
	Serenity         float64
	TextureIntensity float64
	HairLayers       bool
}

// DefaultEtherealConfig returns the theme defaults at full intensity.
func DefaultEtherealConfig() EtherealConfig {
	return EtherealConfig{
		Luminosity:       0.8,
		Softness:         0.8,
		Translucency:     0.6,
		HairFlow:         0.7,
		Serenity:         0.8,
		TextureIntensity: 0.4,
		HairLayers:       true,
	}
}

// EtherealStrategy renders a glowing, softened portrait with flowing hair.
type EtherealStrategy struct {
	Defaults EtherealConfig
}

// NewEthereal returns the ethereal theme with default configuration.
func NewEthereal() *EtherealStrategy {
	return &EtherealStrategy{Defaults: DefaultEtherealConfig()}
}

// ID implements Strategy.
func (e *EtherealStrategy) ID() ID { return Ethereal }

// Configure scales numeric knobs by StyleIntensity. fast drops the extra
// hair layers; high boosts luminosity, translucency and hair flow ×1.2.
func (e *EtherealStrategy) Configure(opts Options) EtherealConfig {
	c := e.Defaults
	s := opts.StyleIntensity
	c.Luminosity *= s
	c.Softness *= s
	c.Translucency *= s
	c.HairFlow *= s
	c.Serenity *= s
	c.TextureIntensity *= s

	switch opts.Quality {
	case QualityFast:
		c.HairLayers = false
	case QualityHigh:
		c.Luminosity *= 1.2
		c.Translucency *= 1.2
		c.HairFlow *= 1.2
	}
	return c
}

// EncodeStyleVector implements Strategy.
func (e *EtherealStrategy) EncodeStyleVector(opts Options) []float32 {
	c := e.Configure(opts)
	knobs := [7]float64{
		c.Luminosity, c.Softness, c.Translucency, c.HairFlow,
		c.Serenity, c.TextureIntensity, boolKnob(c.HairLayers),
	}
	return encodeStyleVector(knobs, opts, 0.05, c.Luminosity)
}

// ExtractStyleFeatures implements Strategy. Luminosity brightens the tone,
// translucency adds a rosy glow and softness relaxes the jaw.
func (e *EtherealStrategy) ExtractStyleFeatures(res *inference.Result, opts Options) (StyleFeatures, error) {
	mean, err := channelMeans(res)
	if err != nil {
		return StyleFeatures{}, err
	}
	c := e.Configure(opts)

	skin := mean.Lerp(math.RGB{R: 1, G: 0.96, B: 0.94}, 0.4*c.Luminosity)
	skin = skin.Lerp(math.RGB{R: 0.98, G: 0.85, B: 0.85}, 0.2*c.Translucency)

	structure := Structure{
		JawStrength:         1 - 0.25*c.Softness,
		CheekboneProminence: 1 + 0.1*c.Luminosity,
		EyeSize:             1 + 0.15*c.Serenity,
		NoseShape:           1 - 0.1*c.Softness,
		LipFullness:         1 + 0.1*c.Softness,
	}.towardNeutral(0.5 * opts.PreserveIdentity)

	return StyleFeatures{
		SkinTone:            skin,
		HairColor:           mean.Lerp(math.RGB{R: 0.85, G: 0.75, B: 0.55}, gomath.Min(1, 0.3+0.5*c.HairFlow)),
		EyeColor:            mean.Lerp(math.RGB{R: 0.45, G: 0.6, B: 0.75}, 0.7),
		Structure:           structure,
		ExpressionIntensity: 0.5 * (1 - 0.5*c.Serenity),
	}, nil
}

// DeformMesh implements Strategy. After the region displacement the mesh is
// relaxed with Softness-driven Laplacian smoothing.
func (e *EtherealStrategy) DeformMesh(m *facemesh.Mesh, f StyleFeatures, opts Options) *facemesh.Mesh {
	if m == nil {
		return nil
	}
	c := e.Configure(opts)
	out := finishDeform(m, deformRegions(m, f.Structure))
	if iterations := int(gomath.Round(c.Softness * 2)); iterations > 0 {
		out = facemesh.Smooth(out, iterations)
	}
	return out
}

// TransformMatrix implements Strategy.
func (e *EtherealStrategy) TransformMatrix(_ StyleFeatures, opts Options) math.Mat4 {
	c := e.Configure(opts)
	s := opts.StyleIntensity
	return math.Scale(
		1+c.Softness*0.05*s,
		1+c.Serenity*0.08*s,
		1+c.Luminosity*0.03*s,
	)
}

// TextureRecipe implements Strategy.
func (e *EtherealStrategy) TextureRecipe(f StyleFeatures, opts Options) texture.Recipe {
	c := e.Configure(opts)
	layers := 1
	if c.HairLayers {
		layers = 3
	}
	return texture.Recipe{
		Size:             256,
		BaseColor:        f.SkinTone.Clamp(),
		Noise:            texture.NoiseSmooth,
		NoiseScale:       4,
		TextureIntensity: c.TextureIntensity,
		Modifier: texture.Modifier{
			Kind:      texture.ModifierBrighten,
			Strength:  0.6 * c.Luminosity,
			Threshold: 0.4,
			Color:     math.RGB{R: 1, G: 0.97, B: 0.92},
		},
		Hair: &texture.Hair{
			Color:     f.HairColor.Clamp(),
			Density:   0.6,
			Coverage:  0.3,
			Layers:    layers,
			FlowAngle: gomath.Pi / 2,
			Waviness:  c.HairFlow,
		},
		NormalStrength:    0.1,
		Specular:          0.45 + 0.2*c.Translucency,
		SpecularVariation: 0.1,
		Roughness:         0.4,
	}
}

// LightingProfile implements Strategy: a high, frontal, diffuse light with
// mist and drifting motes.
func (e *EtherealStrategy) LightingProfile(Options) lighting.Profile {
	return lighting.Profile{
		Name:            string(Ethereal),
		SunLongitude:    0,
		SunLatitude:     60,
		DirectionBlend:  0.5,
		IntensityScale:  0.8,
		Tint:            math.RGB{R: 0.98, G: 0.95, B: 1},
		TintAmount:      0.5,
		AmbientOffset:   0.25,
		ShadowIntensity: 0.3,
		ShadowSoftness:  0.85,
		Atmosphere: lighting.Atmosphere{
			Particles: []lighting.Particle{
				{Type: "lightMotes", Density: 0.25, Color: math.RGB{R: 1, G: 0.97, B: 0.85}, Motion: math.Vec3{Y: 0.05}},
			},
			Mist: &lighting.Mist{Density: 0.25, Height: 0.5, Color: math.RGB{R: 0.9, G: 0.88, B: 1}},
			Grading: lighting.ColorGrading{
				Shadows:    math.RGB{R: 0.95, G: 0.93, B: 1.05},
				Midtones:   math.RGB{R: 1.02, G: 1, B: 1.02},
				Highlights: math.RGB{R: 1.05, G: 1.03, B: 1},
				Saturation: 1.05,
				Contrast:   0.85,
			},
		},
	}
}
