package theme

import "github.com/Faultbox/facestyle/pkg/math"

// Structure holds multiplicative facial adjustments; 1 means unchanged.
type Structure struct {
	JawStrength         float64 `yaml:"jaw_strength"`
	CheekboneProminence float64 `yaml:"cheekbone_prominence"`
	EyeSize             float64 `yaml:"eye_size"`
	NoseShape           float64 `yaml:"nose_shape"`
	LipFullness         float64 `yaml:"lip_fullness"`
}

// neutralStructure changes nothing.
var neutralStructure = Structure{1, 1, 1, 1, 1}

// towardNeutral pulls every adjustment toward 1 by keep in [0,1].
func (s Structure) towardNeutral(keep float64) Structure {
	f := func(v float64) float64 { return 1 + (v-1)*(1-keep) }
	return Structure{
		JawStrength:         f(s.JawStrength),
		CheekboneProminence: f(s.CheekboneProminence),
		EyeSize:             f(s.EyeSize),
		NoseShape:           f(s.NoseShape),
		LipFullness:         f(s.LipFullness),
	}
}

// StyleFeatures are the per-theme color and shape targets decoded from a
// styled image. Colors are not clamped; call RGB.Clamp before use.
type StyleFeatures struct {
	SkinTone            math.RGB  `yaml:"skin_tone"`
	HairColor           math.RGB  `yaml:"hair_color"`
	EyeColor            math.RGB  `yaml:"eye_color"`
	Structure           Structure `yaml:"structure"`
	ExpressionIntensity float64   `yaml:"expression_intensity"`
}
