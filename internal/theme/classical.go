package theme

import (
	"github.com/Faultbox/facestyle/internal/facemesh"
	"github.com/Faultbox/facestyle/internal/inference"
	"github.com/Faultbox/facestyle/internal/lighting"
	"github.com/Faultbox/facestyle/internal/texture"
	"github.com/Faultbox/facestyle/pkg/math"
)

// ClassicalConfig are the knobs of the marble statue theme.
type ClassicalConfig struct {
	Smoothing          float64
	MarbleVeining      float64
	NobleExpression    float64
	ProportionStrength float64
	Idealization       float64
	TextureIntensity   float64
	GoldenRatio        bool
}

// DefaultClassicalConfig returns the theme defaults at full intensity.
func DefaultClassicalConfig() ClassicalConfig {
	return ClassicalConfig{
		Smoothing:          0.8,
		MarbleVeining:      0.5,
		NobleExpression:    0.7,
		ProportionStrength: 0.6,
		Idealization:       0.7,
		TextureIntensity:   0.3,
		GoldenRatio:        true,
	}
}

var marbleWhite = math.RGB{R: 0.93, G: 0.91, B: 0.88}

// ClassicalStrategy renders a smooth, idealized marble bust.
type ClassicalStrategy struct {
	Defaults ClassicalConfig
}

// NewClassical returns the classical theme with default configuration.
func NewClassical() *ClassicalStrategy {
	return &ClassicalStrategy{Defaults: DefaultClassicalConfig()}
}

// ID implements Strategy.
func (c *ClassicalStrategy) ID() ID { return Classical }

// Configure scales numeric knobs by StyleIntensity. fast turns off the
// golden-ratio pass; high boosts proportion ×1.2 and veining ×1.3.
func (c *ClassicalStrategy) Configure(opts Options) ClassicalConfig {
	cfg := c.Defaults
	s := opts.StyleIntensity
	cfg.Smoothing *= s
	cfg.MarbleVeining *= s
	cfg.NobleExpression *= s
	cfg.ProportionStrength *= s
	cfg.Idealization *= s
	cfg.TextureIntensity *= s

	switch opts.Quality {
	case QualityFast:
		cfg.GoldenRatio = false
	case QualityHigh:
		cfg.ProportionStrength *= 1.2
		cfg.MarbleVeining *= 1.3
	}
	return cfg
}

// EncodeStyleVector implements Strategy.
func (c *ClassicalStrategy) EncodeStyleVector(opts Options) []float32 {
	cfg := c.Configure(opts)
	knobs := [7]float64{
		cfg.Smoothing, cfg.MarbleVeining, cfg.NobleExpression, cfg.ProportionStrength,
		cfg.Idealization, cfg.TextureIntensity, boolKnob(cfg.GoldenRatio),
	}
	return encodeStyleVector(knobs, opts, 1/Phi/10, cfg.ProportionStrength)
}

// ExtractStyleFeatures implements Strategy. Idealization whitens the tone
// toward marble, smoothing desaturates it, and noble expression calms the
// face.
func (c *ClassicalStrategy) ExtractStyleFeatures(res *inference.Result, opts Options) (StyleFeatures, error) {
	mean, err := channelMeans(res)
	if err != nil {
		return StyleFeatures{}, err
	}
	cfg := c.Configure(opts)

	skin := mean.Lerp(marbleWhite, 0.5*cfg.Idealization)
	lum := skin.Luminance()
	skin = skin.Lerp(math.RGB{R: lum, G: lum, B: lum}, 0.3*cfg.Smoothing)

	structure := Structure{
		JawStrength:         1 + 0.1*cfg.Idealization,
		CheekboneProminence: 1 + 0.15*cfg.Idealization,
		EyeSize:             1 + 0.05*cfg.Idealization,
		NoseShape:           1 - 0.05*cfg.Smoothing,
		LipFullness:         1 + 0.05*cfg.Idealization,
	}.towardNeutral(0.5 * opts.PreserveIdentity)

	return StyleFeatures{
		SkinTone:            skin,
		HairColor:           skin.Scale(0.9),
		EyeColor:            skin.Scale(0.95),
		Structure:           structure,
		ExpressionIntensity: 0.5 * (1 - 0.6*cfg.NobleExpression),
	}, nil
}

// DeformMesh implements Strategy. With GoldenRatio enabled the eye, nose
// and lip regions are nudged toward golden-ratio proportions.
func (c *ClassicalStrategy) DeformMesh(m *facemesh.Mesh, f StyleFeatures, opts Options) *facemesh.Mesh {
	if m == nil {
		return nil
	}
	cfg := c.Configure(opts)
	out := deformRegions(m, f.Structure)
	if cfg.GoldenRatio {
		goldenRatioPass(out, cfg.ProportionStrength)
	}
	return finishDeform(m, out)
}

// TransformMatrix implements Strategy.
func (c *ClassicalStrategy) TransformMatrix(_ StyleFeatures, opts Options) math.Mat4 {
	cfg := c.Configure(opts)
	s := opts.StyleIntensity
	return math.Scale(
		1+cfg.Idealization*0.1*s/Phi,
		1+cfg.ProportionStrength*0.1*s/Phi,
		1+cfg.Smoothing*0.05*s/Phi,
	)
}

// TextureRecipe implements Strategy.
func (c *ClassicalStrategy) TextureRecipe(f StyleFeatures, opts Options) texture.Recipe {
	cfg := c.Configure(opts)
	return texture.Recipe{
		Size:             512,
		BaseColor:        f.SkinTone.Clamp(),
		Noise:            texture.NoiseSmooth,
		NoiseScale:       6,
		TextureIntensity: cfg.TextureIntensity,
		Modifier: texture.Modifier{
			Kind:      texture.ModifierVeining,
			Strength:  cfg.MarbleVeining,
			Threshold: 0.2,
			Color:     math.RGB{R: 0.55, G: 0.55, B: 0.58},
		},
		NormalStrength:    0.15,
		Specular:          0.6,
		SpecularVariation: 0.1,
		Roughness:         0.35 - 0.1*cfg.Smoothing,
	}
}

// LightingProfile implements Strategy: a high museum key with generous fill
// and soft shadows.
func (c *ClassicalStrategy) LightingProfile(Options) lighting.Profile {
	return lighting.Profile{
		Name:            string(Classical),
		SunLongitude:    -30,
		SunLatitude:     55,
		DirectionBlend:  0.6,
		IntensityScale:  0.9,
		Tint:            math.RGB{R: 0.96, G: 0.97, B: 1},
		TintAmount:      0.4,
		AmbientOffset:   0.15,
		ShadowIntensity: 0.5,
		ShadowSoftness:  0.6,
		Atmosphere: lighting.Atmosphere{
			Particles: []lighting.Particle{
				{Type: "marbleDust", Density: 0.05, Color: math.RGB{R: 0.95, G: 0.95, B: 0.93}, Motion: math.Vec3{Y: -0.02}},
			},
			Grading: lighting.ColorGrading{
				Shadows:    math.RGB{R: 0.95, G: 0.96, B: 1},
				Midtones:   math.RGB{R: 1, G: 1, B: 1},
				Highlights: math.RGB{R: 1.02, G: 1.02, B: 1},
				Saturation: 0.7,
				Contrast:   1.1,
			},
		},
	}
}
