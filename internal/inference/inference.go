// Package inference defines the boundary to the external style inference
// engine and ships a deterministic stand-in implementation.
package inference

import (
	"context"
	"fmt"
)

// Tensor shapes exchanged with the engine.
const (
	// ImageSize is the side of the square image tensor.
	ImageSize = 512
	// Channels is the number of planar color channels.
	Channels = 3
	// StyleVectorLength is the length of a theme style vector.
	StyleVectorLength = 256
)

// TensorLength returns the number of floats in a 1×3×size×size tensor.
func TensorLength(size int) int {
	return Channels * size * size
}

// Request is a single inference call: a planar image tensor and a style
// vector.
type Request struct {
	ImageTensor []float32
	StyleVector []float32
}

// Validate checks the tensor shapes.
func (r Request) Validate() error {
	if want := TensorLength(ImageSize); len(r.ImageTensor) != want {
		return fmt.Errorf("image tensor has %d values, want %d", len(r.ImageTensor), want)
	}
	if len(r.StyleVector) != StyleVectorLength {
		return fmt.Errorf("style vector has %d values, want %d", len(r.StyleVector), StyleVectorLength)
	}
	return nil
}

// Result holds the styled image, same shape as the request tensor.
type Result struct {
	StyledImage []float32
}

// Engine runs style inference. Implementations must honor ctx cancellation
// and must not retry.
type Engine interface {
	Infer(ctx context.Context, req Request) (*Result, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, req Request) (*Result, error)

// Infer calls f.
func (f EngineFunc) Infer(ctx context.Context, req Request) (*Result, error) {
	return f(ctx, req)
}
