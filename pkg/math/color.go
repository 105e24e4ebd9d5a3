package math

import "math"

// RGB is a linear color with components nominally in [0,1]. Producers may
// leave components outside that range; call Clamp before use.
type RGB struct {
	R float64 `yaml:"r"`
	G float64 `yaml:"g"`
	B float64 `yaml:"b"`
}

// Clamp limits each component to [0,1]. NaN becomes 0.
func (c RGB) Clamp() RGB {
	return RGB{clamp01(c.R), clamp01(c.G), clamp01(c.B)}
}

// Scale multiplies each component by s.
func (c RGB) Scale(s float64) RGB {
	return RGB{c.R * s, c.G * s, c.B * s}
}

// Add returns c + other.
func (c RGB) Add(other RGB) RGB {
	return RGB{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Mul multiplies component-wise.
func (c RGB) Mul(other RGB) RGB {
	return RGB{c.R * other.R, c.G * other.G, c.B * other.B}
}

// Lerp blends c toward other by t.
func (c RGB) Lerp(other RGB, t float64) RGB {
	return RGB{
		c.R + (other.R-c.R)*t,
		c.G + (other.G-c.G)*t,
		c.B + (other.B-c.B)*t,
	}
}

// Luminance returns the Rec. 709 luma of c.
func (c RGB) Luminance() float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

// Bytes returns the clamped color scaled to 0..255.
func (c RGB) Bytes() (r, g, b uint8) {
	c = c.Clamp()
	return uint8(c.R*255 + 0.5), uint8(c.G*255 + 0.5), uint8(c.B*255 + 0.5)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
