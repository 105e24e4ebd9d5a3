// Package theme holds the per-theme style strategies: style vector
// encoding, feature extraction, mesh deformation, transform, texture recipe
// and lighting profile.
package theme

import (
	"fmt"

	"github.com/Faultbox/facestyle/internal/faceerr"
	"github.com/Faultbox/facestyle/internal/facemesh"
	"github.com/Faultbox/facestyle/internal/inference"
	"github.com/Faultbox/facestyle/internal/lighting"
	"github.com/Faultbox/facestyle/internal/texture"
	"github.com/Faultbox/facestyle/pkg/math"
)

// ID names a theme.
type ID string

// Available themes.
const (
	Rugged    ID = "rugged"
	Classical ID = "classical"
	Ethereal  ID = "ethereal"
)

// IDs lists every theme in a stable order.
func IDs() []ID {
	return []ID{Rugged, Classical, Ethereal}
}

// Strategy is one visual theme. Implementations hold only immutable default
// configuration and derive a fresh request configuration from Options on
// every call.
type Strategy interface {
	ID() ID
	// EncodeStyleVector returns inference.StyleVectorLength values.
	EncodeStyleVector(opts Options) []float32
	ExtractStyleFeatures(res *inference.Result, opts Options) (StyleFeatures, error)
	// DeformMesh returns a displaced copy of m; m is not modified.
	DeformMesh(m *facemesh.Mesh, f StyleFeatures, opts Options) *facemesh.Mesh
	// TransformMatrix is descriptive metadata; it is never applied to the
	// mesh.
	TransformMatrix(f StyleFeatures, opts Options) math.Mat4
	TextureRecipe(f StyleFeatures, opts Options) texture.Recipe
	LightingProfile(opts Options) lighting.Profile
}

// New returns the strategy for id with its default configuration.
func New(id ID) (Strategy, error) {
	switch id {
	case Rugged:
		return NewRugged(), nil
	case Classical:
		return NewClassical(), nil
	case Ethereal:
		return NewEthereal(), nil
	default:
		return nil, faceerr.New(faceerr.KindInvalidOptions, "theme.New", "unknown theme %q", string(id))
	}
}

// ParseID validates a theme name.
func ParseID(s string) (ID, error) {
	for _, id := range IDs() {
		if string(id) == s {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown theme %q", s)
}
