package theme

import (
	"context"
	gomath "math"

	"github.com/Faultbox/facestyle/internal/faceerr"
	"github.com/Faultbox/facestyle/internal/facemesh"
	"github.com/Faultbox/facestyle/internal/inference"
	"github.com/Faultbox/facestyle/pkg/math"
)

// RenderMeshToTensor rasterizes the mesh vertices into a planar
// 1×3×size×size tensor. Each vertex lands on pixel (⌊x·size⌋, ⌊y·size⌋) and
// stores its position normalized per axis to the mesh bounds. Vertices that
// fall outside the image are skipped; later vertices overwrite earlier ones.
func RenderMeshToTensor(m *facemesh.Mesh, size int) []float32 {
	out := make([]float32, inference.TensorLength(size))
	if m == nil || len(m.Vertices) == 0 {
		return out
	}
	plane := size * size
	b := facemesh.ComputeBounds(m.Vertices)
	ext := b.Size()

	for _, v := range m.Vertices {
		if !v.IsFinite() {
			continue
		}
		px := int(gomath.Floor(v.X * float64(size)))
		py := int(gomath.Floor(v.Y * float64(size)))
		if px < 0 || py < 0 || px >= size || py >= size {
			continue
		}
		idx := py*size + px
		out[idx] = float32(normalizeAxis(v.X, b.Min.X, ext.X))
		out[plane+idx] = float32(normalizeAxis(v.Y, b.Min.Y, ext.Y))
		out[2*plane+idx] = float32(normalizeAxis(v.Z, b.Min.Z, ext.Z))
	}
	return out
}

func normalizeAxis(v, min, extent float64) float64 {
	if extent <= 0 {
		return 0.5
	}
	return (v - min) / extent
}

// Stylize renders m, calls the engine once with the strategy's style vector
// and extracts style features from the result. Engine failures and shape
// mismatches are reported as ThemeStyleFailed; nothing is retried.
func Stylize(ctx context.Context, engine inference.Engine, s Strategy, m *facemesh.Mesh, opts Options) (StyleFeatures, error) {
	const op = "theme.Stylize"
	if engine == nil {
		return StyleFeatures{}, faceerr.New(faceerr.KindThemeStyleFailed, op, "no inference engine")
	}

	req := inference.Request{
		ImageTensor: RenderMeshToTensor(m, inference.ImageSize),
		StyleVector: s.EncodeStyleVector(opts),
	}
	res, err := engine.Infer(ctx, req)
	if err != nil {
		return StyleFeatures{}, faceerr.Wrap(faceerr.KindThemeStyleFailed, op, err)
	}
	if res == nil || len(res.StyledImage) != len(req.ImageTensor) {
		got := 0
		if res != nil {
			got = len(res.StyledImage)
		}
		return StyleFeatures{}, faceerr.New(faceerr.KindThemeStyleFailed, op,
			"styled image has %d values, want %d", got, len(req.ImageTensor))
	}
	return s.ExtractStyleFeatures(res, opts)
}

// channelMeans averages each plane of a planar 3-channel tensor.
func channelMeans(res *inference.Result) (math.RGB, error) {
	const op = "theme.ExtractStyleFeatures"
	if res == nil || len(res.StyledImage) == 0 {
		return math.RGB{}, faceerr.New(faceerr.KindThemeStyleFailed, op, "empty styled image")
	}
	n := len(res.StyledImage)
	if n%inference.Channels != 0 {
		return math.RGB{}, faceerr.New(faceerr.KindThemeStyleFailed, op,
			"styled image length %d is not a multiple of %d", n, inference.Channels)
	}
	plane := n / inference.Channels

	var sums [inference.Channels]float64
	for c := range sums {
		for _, v := range res.StyledImage[c*plane : (c+1)*plane] {
			sums[c] += float64(v)
		}
	}
	mean := math.RGB{
		R: sums[0] / float64(plane),
		G: sums[1] / float64(plane),
		B: sums[2] / float64(plane),
	}
	if gomath.IsNaN(mean.R) || gomath.IsNaN(mean.G) || gomath.IsNaN(mean.B) {
		return math.RGB{}, faceerr.New(faceerr.KindThemeStyleFailed, op, "styled image contains NaN")
	}
	return mean, nil
}

// encodeStyleVector lays out a style vector: the seven knobs, then style
// intensity and identity preservation, then a theme-specific sinusoid.
func encodeStyleVector(knobs [7]float64, opts Options, themeConst, dominant float64) []float32 {
	vec := make([]float32, inference.StyleVectorLength)
	for i, k := range knobs {
		vec[i] = float32(k)
	}
	vec[7] = float32(opts.StyleIntensity)
	vec[8] = float32(opts.PreserveIdentity)
	for i := 9; i < len(vec); i++ {
		vec[i] = float32(0.5 * gomath.Sin(float64(i)*themeConst*(1+dominant)))
	}
	return vec
}

func boolKnob(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
