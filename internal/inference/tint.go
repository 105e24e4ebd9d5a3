package inference

import (
	"context"
	"fmt"
)

// Tint is a deterministic stand-in engine. It blends the rendered tensor
// over a flat portrait tone and shifts each channel by a bias derived from
// the style vector. It is not a model; it exists so the pipeline runs end to
// end without one.
type Tint struct {
	// Base is the portrait tone per channel.
	Base [Channels]float32
	// Blend is the weight of the rendered tensor over Base.
	Blend float32
	// StyleGain scales the style vector bias.
	StyleGain float32
}

// NewTint returns a Tint with a warm skin tone.
func NewTint() *Tint {
	return &Tint{
		Base:      [Channels]float32{0.78, 0.62, 0.52},
		Blend:     0.35,
		StyleGain: 0.1,
	}
}

// cancelCheckEvery is how many pixels Tint processes between context checks.
const cancelCheckEvery = 1 << 14

// Infer implements Engine.
func (t *Tint) Infer(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("tint: %w", err)
	}

	plane := ImageSize * ImageSize
	out := make([]float32, len(req.ImageTensor))
	for c := 0; c < Channels; c++ {
		bias := t.StyleGain * channelBias(req.StyleVector, c)
		base := t.Base[c] * (1 - t.Blend)
		src := req.ImageTensor[c*plane : (c+1)*plane]
		dst := out[c*plane : (c+1)*plane]
		for i, v := range src {
			if i%cancelCheckEvery == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			dst[i] = clamp(base + v*t.Blend + bias)
		}
	}
	return &Result{StyledImage: out}, nil
}

// channelBias averages every third style slot past the named knobs, starting
// at the channel offset. The values lie in [-0.5, 0.5].
func channelBias(style []float32, channel int) float32 {
	const knobSlots = 9
	var sum float32
	n := 0
	for i := knobSlots + channel; i < len(style); i += Channels {
		sum += style[i]
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float32(n)
}

func clamp(v float32) float32 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
