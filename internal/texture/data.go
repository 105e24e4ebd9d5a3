// Package texture synthesizes procedural RGBA texture maps for a styled
// face.
package texture

import (
	"image"

	"github.com/Faultbox/facestyle/pkg/math"
)

// Channels is the number of bytes per pixel in every map (RGBA).
const Channels = 4

// Size limits accepted by Synthesize.
const (
	MinSize = 16
	MaxSize = 4096
)

// Data is an RGBA pixel buffer of Width×Height×Channels bytes, rows top to
// bottom.
type Data struct {
	Data     []byte
	Width    int
	Height   int
	Channels int
}

// NewData allocates a zeroed (transparent black) buffer.
func NewData(width, height int) *Data {
	return &Data{
		Data:     make([]byte, width*height*Channels),
		Width:    width,
		Height:   height,
		Channels: Channels,
	}
}

// Set writes one pixel.
func (d *Data) Set(x, y int, r, g, b, a uint8) {
	idx := (y*d.Width + x) * Channels
	d.Data[idx+0] = r
	d.Data[idx+1] = g
	d.Data[idx+2] = b
	d.Data[idx+3] = a
}

// At reads one pixel.
func (d *Data) At(x, y int) (r, g, b, a uint8) {
	idx := (y*d.Width + x) * Channels
	return d.Data[idx], d.Data[idx+1], d.Data[idx+2], d.Data[idx+3]
}

// SetRGB writes a color, clamped, with the given alpha.
func (d *Data) SetRGB(x, y int, c math.RGB, a uint8) {
	r, g, b := c.Bytes()
	d.Set(x, y, r, g, b, a)
}

// RGBAt reads a pixel as a color in [0,1].
func (d *Data) RGBAt(x, y int) math.RGB {
	r, g, b, _ := d.At(x, y)
	return math.RGB{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Image wraps the buffer as an image.NRGBA without copying.
func (d *Data) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    d.Data,
		Stride: d.Width * Channels,
		Rect:   image.Rect(0, 0, d.Width, d.Height),
	}
}

// Set is the output of Synthesize. The three required maps share one size.
// Flow is nil unless the recipe has a hair layer; it stores the strand
// direction per pixel as (cos, sin) mapped to 0..255 in R and G, with alpha
// marking hair coverage.
type Set struct {
	Base     *Data
	Normal   *Data
	Specular *Data
	Flow     *Data
}
