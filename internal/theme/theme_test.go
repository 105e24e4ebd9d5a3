package theme

import (
	"context"
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/facestyle/internal/faceerr"
	"github.com/Faultbox/facestyle/internal/facemesh"
	"github.com/Faultbox/facestyle/internal/inference"
	"github.com/Faultbox/facestyle/pkg/landmark"
	"github.com/Faultbox/facestyle/pkg/math"
)

func sampleMesh(t *testing.T) *facemesh.Mesh {
	t.Helper()
	m, err := facemesh.Build(landmark.Sample(), facemesh.DefaultBuildOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

// flatResult is a styled image whose channels hold constant values.
func flatResult(r, g, b float32) *inference.Result {
	const plane = 16
	img := make([]float32, 3*plane)
	for i := 0; i < plane; i++ {
		img[i] = r
		img[plane+i] = g
		img[2*plane+i] = b
	}
	return &inference.Result{StyledImage: img}
}

func optsWith(q Quality, intensity float64) Options {
	o := DefaultOptions()
	o.Quality = q
	o.StyleIntensity = intensity
	return o
}

func TestRuggedConfigure(t *testing.T) {
	r := NewRugged()
	d := r.Defaults

	fast := r.Configure(optsWith(QualityFast, 1))
	if fast.HairLayers || fast.ScarIntensity != 0 {
		t.Errorf("fast = %+v, want no hair layers and no scars", fast)
	}

	high := r.Configure(optsWith(QualityHigh, 0.5))
	if got, want := high.Ruggedness, d.Ruggedness*0.5*1.3; gomath.Abs(got-want) > 1e-12 {
		t.Errorf("high ruggedness = %v, want %v", got, want)
	}
	if got, want := high.ScarIntensity, d.ScarIntensity*0.5*1.5; gomath.Abs(got-want) > 1e-12 {
		t.Errorf("high scars = %v, want %v", got, want)
	}
	if r.Defaults != d {
		t.Error("Configure modified the defaults")
	}
}

func TestClassicalConfigure(t *testing.T) {
	c := NewClassical()
	if c.Configure(optsWith(QualityFast, 1)).GoldenRatio {
		t.Error("fast kept the golden-ratio pass")
	}
	high := c.Configure(optsWith(QualityHigh, 1))
	if got, want := high.MarbleVeining, c.Defaults.MarbleVeining*1.3; gomath.Abs(got-want) > 1e-12 {
		t.Errorf("high veining = %v, want %v", got, want)
	}
	if got, want := high.ProportionStrength, c.Defaults.ProportionStrength*1.2; gomath.Abs(got-want) > 1e-12 {
		t.Errorf("high proportion = %v, want %v", got, want)
	}
}

func TestEtherealConfigure(t *testing.T) {
	e := NewEthereal()
	if e.Configure(optsWith(QualityFast, 1)).HairLayers {
		t.Error("fast kept hair layers")
	}
	bal := e.Configure(optsWith(QualityBalanced, 1))
	if bal != e.Defaults {
		t.Errorf("balanced at full intensity = %+v, want defaults", bal)
	}
}

func TestEncodeStyleVector(t *testing.T) {
	opts := DefaultOptions()
	for _, id := range IDs() {
		t.Run(string(id), func(t *testing.T) {
			s, _ := New(id)
			vec := s.EncodeStyleVector(opts)
			if len(vec) != inference.StyleVectorLength {
				t.Fatalf("length = %d, want %d", len(vec), inference.StyleVectorLength)
			}
			if vec[7] != float32(opts.StyleIntensity) || vec[8] != float32(opts.PreserveIdentity) {
				t.Errorf("slots 7,8 = %v,%v", vec[7], vec[8])
			}
			for i := 9; i < len(vec); i++ {
				if vec[i] < -0.5 || vec[i] > 0.5 {
					t.Fatalf("slot %d = %v outside [-0.5,0.5]", i, vec[i])
				}
			}
			again := s.EncodeStyleVector(opts)
			for i := range vec {
				if vec[i] != again[i] {
					t.Fatalf("slot %d not deterministic", i)
				}
			}
		})
	}
}

func TestRuggedStyleVectorTail(t *testing.T) {
	r := NewRugged()
	opts := DefaultOptions()
	c := r.Configure(opts)
	vec := r.EncodeStyleVector(opts)

	want := float32(0.5 * gomath.Sin(9*0.1*(1+c.Ruggedness)))
	if vec[9] != want {
		t.Errorf("slot 9 = %v, want %v", vec[9], want)
	}
	if vec[0] != float32(c.Ruggedness) || vec[1] != float32(c.Weathering) {
		t.Errorf("knob slots = %v,%v", vec[0], vec[1])
	}
}

func TestRenderMeshToTensor(t *testing.T) {
	const size = 8
	m := &facemesh.Mesh{Vertices: []math.Vec3{
		{X: 0.1, Y: 0.2, Z: 0},
		{X: 0.9, Y: 0.6, Z: 1},
		{X: 1.5, Y: 0.5, Z: 0.5}, // outside the image
	}}
	tensor := RenderMeshToTensor(m, size)
	if len(tensor) != 3*size*size {
		t.Fatalf("length = %d", len(tensor))
	}
	plane := size * size

	// (0.1, 0.2) lands on pixel (0, 1) and is the bounds minimum.
	idx := 1*size + 0
	if tensor[idx] != 0 || tensor[plane+idx] != 0 || tensor[2*plane+idx] != 0 {
		t.Errorf("first vertex = %v,%v,%v, want zeros", tensor[idx], tensor[plane+idx], tensor[2*plane+idx])
	}
	// (0.9, 0.6) lands on pixel (7, 4) and holds the z maximum.
	idx = 4*size + 7
	if tensor[2*plane+idx] != 1 {
		t.Errorf("second vertex z = %v, want 1", tensor[2*plane+idx])
	}
	nonZero := 0
	for _, v := range tensor {
		if v != 0 {
			nonZero++
		}
	}
	if nonZero != 3 {
		t.Errorf("%d non-zero values, want 3 (second vertex only)", nonZero)
	}
}

func TestStylize(t *testing.T) {
	m := sampleMesh(t)
	opts := DefaultOptions()
	s := NewRugged()

	f, err := Stylize(context.Background(), inference.NewTint(), s, m, opts)
	if err != nil {
		t.Fatalf("Stylize: %v", err)
	}
	if f.SkinTone.R <= 0 || f.SkinTone.R > 1 {
		t.Errorf("skin tone = %+v", f.SkinTone)
	}

	again, _ := Stylize(context.Background(), inference.NewTint(), s, m, opts)
	if again != f {
		t.Error("Stylize is not deterministic")
	}
}

func TestStylizeFailures(t *testing.T) {
	m := sampleMesh(t)
	opts := DefaultOptions()
	cause := errors.New("gpu out of memory")

	tests := []struct {
		name   string
		engine inference.Engine
	}{
		{"nil engine", nil},
		{"engine error", inference.EngineFunc(func(context.Context, inference.Request) (*inference.Result, error) {
			return nil, cause
		})},
		{"short output", inference.EngineFunc(func(context.Context, inference.Request) (*inference.Result, error) {
			return &inference.Result{StyledImage: make([]float32, 12)}, nil
		})},
		{"nil result", inference.EngineFunc(func(context.Context, inference.Request) (*inference.Result, error) {
			return nil, nil
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Stylize(context.Background(), tt.engine, NewClassical(), m, opts)
			if !errors.Is(err, faceerr.ErrThemeStyleFailed) {
				t.Errorf("err = %v, want ThemeStyleFailed", err)
			}
		})
	}

	_, err := Stylize(context.Background(), tests[1].engine, NewClassical(), m, opts)
	if !errors.Is(err, cause) {
		t.Errorf("err = %v does not wrap the engine error", err)
	}
}

func TestWeatheringDarkensSkin(t *testing.T) {
	r := NewRugged()
	res := flatResult(0.8, 0.6, 0.5)

	weathered, err := r.ExtractStyleFeatures(res, optsWith(QualityBalanced, 1))
	if err != nil {
		t.Fatal(err)
	}
	plain, err := r.ExtractStyleFeatures(res, optsWith(QualityBalanced, 0))
	if err != nil {
		t.Fatal(err)
	}

	w, p := weathered.SkinTone, plain.SkinTone
	if w.R >= p.R || w.G >= p.G || w.B >= p.B {
		t.Errorf("weathered skin %+v not darker than %+v", w, p)
	}
}

func TestExtractStyleFeatures(t *testing.T) {
	res := flatResult(0.7, 0.55, 0.45)
	opts := DefaultOptions()

	for _, id := range IDs() {
		t.Run(string(id), func(t *testing.T) {
			s, _ := New(id)
			f, err := s.ExtractStyleFeatures(res, opts)
			if err != nil {
				t.Fatal(err)
			}
			if f.ExpressionIntensity < 0 || f.ExpressionIntensity > 1 {
				t.Errorf("expression = %v", f.ExpressionIntensity)
			}
			if _, err := s.ExtractStyleFeatures(&inference.Result{}, opts); !errors.Is(err, faceerr.ErrThemeStyleFailed) {
				t.Errorf("empty result err = %v", err)
			}
			if _, err := s.ExtractStyleFeatures(&inference.Result{StyledImage: make([]float32, 4)}, opts); err == nil {
				t.Error("expected error for a non-planar result")
			}
		})
	}
}

func TestThemeBiases(t *testing.T) {
	res := flatResult(0.7, 0.55, 0.45)
	opts := optsWith(QualityBalanced, 1)

	classical, _ := NewClassical().ExtractStyleFeatures(res, opts)
	calm, _ := NewClassical().ExtractStyleFeatures(res, optsWith(QualityBalanced, 0))
	if classical.ExpressionIntensity >= calm.ExpressionIntensity {
		t.Errorf("noble expression did not lower intensity: %v >= %v",
			classical.ExpressionIntensity, calm.ExpressionIntensity)
	}

	ethereal, _ := NewEthereal().ExtractStyleFeatures(res, opts)
	if ethereal.Structure.JawStrength >= 1 {
		t.Errorf("softness did not soften the jaw: %v", ethereal.Structure.JawStrength)
	}
	if ethereal.SkinTone.Luminance() <= 0.6 {
		t.Errorf("luminosity did not brighten skin: %+v", ethereal.SkinTone)
	}
}

func TestDeformMesh(t *testing.T) {
	m := sampleMesh(t)
	before := m.Clone()
	res := flatResult(0.7, 0.55, 0.45)

	for _, id := range IDs() {
		t.Run(string(id), func(t *testing.T) {
			s, _ := New(id)
			opts := DefaultOptions()
			f, _ := s.ExtractStyleFeatures(res, opts)
			out := s.DeformMesh(m, f, opts)

			if len(out.Vertices) != len(m.Vertices) || len(out.Triangles) != len(m.Triangles) {
				t.Fatalf("deform changed topology: %d/%d", len(out.Vertices), len(out.Triangles))
			}
			if len(out.Normals) != len(out.Vertices) || len(out.UVs) != len(out.Vertices) {
				t.Errorf("layer lengths %d/%d, want %d", len(out.Normals), len(out.UVs), len(out.Vertices))
			}
			for i, n := range out.Normals {
				if l := n.Length(); gomath.Abs(l-1) > 1e-4 {
					t.Errorf("normal %d length %v", i, l)
				}
			}
			moved := false
			for i := range out.Vertices {
				if out.Vertices[i] != m.Vertices[i] {
					moved = true
					break
				}
			}
			if !moved {
				t.Error("no vertex moved")
			}
			for i := range m.Vertices {
				if m.Vertices[i] != before.Vertices[i] {
					t.Fatal("DeformMesh modified its input")
				}
			}
		})
	}
}

func TestDeformMeshZeroIntensity(t *testing.T) {
	m := sampleMesh(t)
	opts := optsWith(QualityBalanced, 0)
	res := flatResult(0.7, 0.55, 0.45)

	for _, id := range IDs() {
		s, _ := New(id)
		f, _ := s.ExtractStyleFeatures(res, opts)
		out := s.DeformMesh(m, f, opts)
		for i := range m.Vertices {
			if out.Vertices[i] != m.Vertices[i] {
				t.Errorf("%s moved vertex %d at zero intensity", id, i)
				break
			}
		}
	}
}

func TestGoldenRatioPass(t *testing.T) {
	m := sampleMesh(t)
	c := NewClassical()
	res := flatResult(0.7, 0.55, 0.45)

	withRatio := optsWith(QualityBalanced, 0.8)
	f, _ := c.ExtractStyleFeatures(res, withRatio)
	balanced := c.DeformMesh(m, f, withRatio)
	fast := c.DeformMesh(m, f, optsWith(QualityFast, 0.8))

	differs := false
	for i := range balanced.Vertices {
		if balanced.Vertices[i] != fast.Vertices[i] {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("golden-ratio pass had no effect")
	}
}

func TestTransformMatrix(t *testing.T) {
	res := flatResult(0.7, 0.55, 0.45)
	for _, id := range IDs() {
		s, _ := New(id)
		f, _ := s.ExtractStyleFeatures(res, DefaultOptions())

		if got := s.TransformMatrix(f, optsWith(QualityBalanced, 0)); got != math.Identity() {
			t.Errorf("%s: zero intensity matrix = %v, want identity", id, got)
		}
		m := s.TransformMatrix(f, DefaultOptions())
		rows := m.Rows()
		for i := 0; i < 3; i++ {
			if rows[i][i] <= 1 || rows[i][i] > 1.2 {
				t.Errorf("%s: diagonal %d = %v, want slightly above 1", id, i, rows[i][i])
			}
		}
		if rows[3][3] != 1 {
			t.Errorf("%s: w scale = %v", id, rows[3][3])
		}
	}
}

func TestTextureRecipes(t *testing.T) {
	res := flatResult(0.7, 0.55, 0.45)
	for _, id := range IDs() {
		s, _ := New(id)
		f, _ := s.ExtractStyleFeatures(res, DefaultOptions())
		r := s.TextureRecipe(f, DefaultOptions())
		if r.Size != 256 && r.Size != 512 {
			t.Errorf("%s: size = %d", id, r.Size)
		}
		if r.Roughness < 0 || r.Roughness > 1 {
			t.Errorf("%s: roughness = %v", id, r.Roughness)
		}
	}

	r := NewRugged()
	fast := r.TextureRecipe(StyleFeatures{}, optsWith(QualityFast, 1))
	if fast.Scars.Count != 0 || fast.Hair.Layers != 1 {
		t.Errorf("fast rugged recipe has scars=%d layers=%d", fast.Scars.Count, fast.Hair.Layers)
	}
	full := r.TextureRecipe(StyleFeatures{}, optsWith(QualityHigh, 1))
	if full.Scars.Count == 0 || full.Hair.Layers != 3 {
		t.Errorf("high rugged recipe has scars=%d layers=%d", full.Scars.Count, full.Hair.Layers)
	}
}

func TestLightingProfiles(t *testing.T) {
	rugged := NewRugged().LightingProfile(DefaultOptions())
	ethereal := NewEthereal().LightingProfile(DefaultOptions())
	if rugged.ShadowIntensity <= ethereal.ShadowIntensity || rugged.ShadowSoftness >= ethereal.ShadowSoftness {
		t.Errorf("rugged shadows %v/%v not harsher than ethereal %v/%v",
			rugged.ShadowIntensity, rugged.ShadowSoftness, ethereal.ShadowIntensity, ethereal.ShadowSoftness)
	}
	if ethereal.Atmosphere.Mist == nil {
		t.Error("ethereal profile has no mist")
	}
}
