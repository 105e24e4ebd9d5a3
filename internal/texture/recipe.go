package texture

import (
	"fmt"

	"github.com/Faultbox/facestyle/pkg/math"
)

// NoiseKind selects the primary noise field.
type NoiseKind uint8

const (
	// NoiseHash is per-pixel hash noise, for rough materials.
	NoiseHash NoiseKind = iota
	// NoiseSmooth is multi-octave value noise, for soft materials.
	NoiseSmooth
)

// ModifierKind selects the secondary layer.
type ModifierKind uint8

const (
	ModifierNone ModifierKind = iota
	ModifierDarken
	ModifierBrighten
	ModifierVeining
)

// String returns the modifier name.
func (k ModifierKind) String() string {
	switch k {
	case ModifierNone:
		return "none"
	case ModifierDarken:
		return "darken"
	case ModifierBrighten:
		return "brighten"
	case ModifierVeining:
		return "veining"
	default:
		return fmt.Sprintf("ModifierKind(%d)", k)
	}
}

// Modifier is the secondary layer. It applies where the gate noise exceeds
// Threshold.
type Modifier struct {
	Kind      ModifierKind
	Strength  float64
	Threshold float64
	// Color is the vein color for ModifierVeining and the highlight color
	// for ModifierBrighten.
	Color math.RGB
}

// Scars describes the discrete stroke layer.
type Scars struct {
	Count     int
	Intensity float64
}

// Hair describes the strand layer. Coverage is the fraction of the texture
// height, from the top, that holds hair; BeardCoverage is the same measured
// up from the bottom edge, blended at BeardDensity.
type Hair struct {
	Color         math.RGB
	Density       float64
	Coverage      float64
	BeardCoverage float64
	BeardDensity  float64
	Layers        int
	// FlowAngle is the dominant strand direction in radians.
	FlowAngle float64
	// Waviness scales how far the flow field bends away from FlowAngle.
	Waviness float64
}

// Recipe is everything Synthesize needs to build one texture set.
type Recipe struct {
	Size             int
	BaseColor        math.RGB
	Noise            NoiseKind
	NoiseScale       float64
	TextureIntensity float64
	Modifier         Modifier
	Scars            Scars
	Hair             *Hair

	// NormalStrength is the tilt amplitude of the normal map.
	NormalStrength float64
	// Specular is the base reflectivity, SpecularVariation its noise range.
	Specular          float64
	SpecularVariation float64
	Roughness         float64
}
