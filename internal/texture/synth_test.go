package texture

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/Faultbox/facestyle/internal/faceerr"
	"github.com/Faultbox/facestyle/pkg/math"
)

func testRecipe() Recipe {
	return Recipe{
		Size:              64,
		BaseColor:         math.RGB{R: 0.7, G: 0.55, B: 0.45},
		Noise:             NoiseHash,
		TextureIntensity:  0.6,
		NormalStrength:    0.4,
		Specular:          0.3,
		SpecularVariation: 0.2,
		Roughness:         0.75,
	}
}

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func sumRGB(d *Data) int {
	total := 0
	for i := 0; i < len(d.Data); i += Channels {
		total += int(d.Data[i]) + int(d.Data[i+1]) + int(d.Data[i+2])
	}
	return total
}

func TestSynthesizeSizes(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"too small", MinSize - 1, true},
		{"minimum", MinSize, false},
		{"typical", 64, false},
		{"too large", MaxSize + 1, true},
		{"zero", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRecipe()
			r.Size = tt.size
			set, err := Synthesize(r, newRNG(1))
			if tt.wantErr {
				if !errors.Is(err, faceerr.ErrTextureSynthesisFailed) {
					t.Errorf("err = %v, want TextureSynthesisFailed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Synthesize: %v", err)
			}
			for name, d := range map[string]*Data{"base": set.Base, "normal": set.Normal, "specular": set.Specular} {
				if d.Width != tt.size || d.Height != tt.size || d.Channels != Channels {
					t.Errorf("%s is %dx%dx%d", name, d.Width, d.Height, d.Channels)
				}
				if len(d.Data) != tt.size*tt.size*Channels {
					t.Errorf("%s has %d bytes", name, len(d.Data))
				}
			}
		})
	}
}

func TestSynthesizeNilRNG(t *testing.T) {
	if _, err := Synthesize(testRecipe(), nil); !errors.Is(err, faceerr.ErrTextureSynthesisFailed) {
		t.Errorf("err = %v, want TextureSynthesisFailed", err)
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	r := testRecipe()
	r.Scars = Scars{Count: 4, Intensity: 0.8}
	r.Hair = &Hair{Color: math.RGB{R: 0.2, G: 0.1, B: 0.05}, Density: 0.7, Coverage: 0.2, Layers: 2, Waviness: 0.5}

	a, err := Synthesize(r, newRNG(42))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Synthesize(r, newRNG(42))
	if err != nil {
		t.Fatal(err)
	}
	c, err := Synthesize(r, newRNG(43))
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(a.Base.Data, b.Base.Data) || !bytes.Equal(a.Normal.Data, b.Normal.Data) ||
		!bytes.Equal(a.Specular.Data, b.Specular.Data) || !bytes.Equal(a.Flow.Data, b.Flow.Data) {
		t.Error("same seed produced different textures")
	}
	if bytes.Equal(a.Base.Data, c.Base.Data) {
		t.Error("different seeds produced identical base maps")
	}
}

func TestSynthesizeDarkeningLayers(t *testing.T) {
	plain, _ := Synthesize(testRecipe(), newRNG(7))

	scarred := testRecipe()
	scarred.Scars = Scars{Count: 6, Intensity: 1}
	withScars, _ := Synthesize(scarred, newRNG(7))
	if sumRGB(withScars.Base) >= sumRGB(plain.Base) {
		t.Error("scars did not darken the base map")
	}

	weathered := testRecipe()
	weathered.Modifier = Modifier{Kind: ModifierDarken, Strength: 0.8, Threshold: 0.5}
	withModifier, _ := Synthesize(weathered, newRNG(7))
	if sumRGB(withModifier.Base) >= sumRGB(plain.Base) {
		t.Error("darken modifier did not darken the base map")
	}

	soft := testRecipe()
	soft.Modifier = Modifier{Kind: ModifierBrighten, Strength: 0.8, Threshold: 0.3}
	withHighlight, _ := Synthesize(soft, newRNG(7))
	if sumRGB(withHighlight.Base) <= sumRGB(plain.Base) {
		t.Error("brighten modifier did not brighten the base map")
	}
}

func TestSynthesizeMaps(t *testing.T) {
	r := testRecipe()
	set, err := Synthesize(r, newRNG(3))
	if err != nil {
		t.Fatal(err)
	}
	if set.Flow != nil {
		t.Error("flow map present without a hair layer")
	}

	wantAlpha := uint8(255*(1-r.Roughness) + 0.5)
	for y := 0; y < r.Size; y++ {
		for x := 0; x < r.Size; x++ {
			_, _, nz, na := set.Normal.At(x, y)
			if nz < 200 || na != 255 {
				t.Fatalf("normal (%d,%d) z=%d a=%d, want z facing out", x, y, nz, na)
			}
			sr, sg, sb, sa := set.Specular.At(x, y)
			if sr != sg || sg != sb {
				t.Fatalf("specular (%d,%d) not grey: %d %d %d", x, y, sr, sg, sb)
			}
			if sa != wantAlpha {
				t.Fatalf("specular alpha = %d, want %d", sa, wantAlpha)
			}
		}
	}
}

func TestSynthesizeHairFlow(t *testing.T) {
	r := testRecipe()
	r.Hair = &Hair{Color: math.RGB{R: 0.1, G: 0.1, B: 0.1}, Density: 0.8, Coverage: 0.25, BeardCoverage: 0.1, BeardDensity: 0.5}
	set, err := Synthesize(r, newRNG(5))
	if err != nil {
		t.Fatal(err)
	}
	if set.Flow == nil {
		t.Fatal("missing flow map")
	}
	if _, _, _, a := set.Flow.At(10, 0); a != 255 {
		t.Errorf("top row alpha = %d, want 255 (hair)", a)
	}
	if _, _, _, a := set.Flow.At(10, r.Size/2); a != 0 {
		t.Errorf("middle row alpha = %d, want 0 (no hair)", a)
	}
	if _, _, _, a := set.Flow.At(10, r.Size-1); a != 255 {
		t.Errorf("bottom row alpha = %d, want 255 (beard)", a)
	}
}

func TestNoiseRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		x, y := float64(i)*0.37, float64(i)*1.91
		if v := HashNoise(x, y, 3); v < 0 || v >= 1 {
			t.Fatalf("HashNoise = %v", v)
		}
		if v := SmoothNoise(x, y, 3); v < 0 || v >= 1 {
			t.Fatalf("SmoothNoise = %v", v)
		}
		if v := FBM(x, y, 3, 5); v < 0 || v >= 1 {
			t.Fatalf("FBM = %v", v)
		}
	}
}

func TestSmoothNoiseMatchesLattice(t *testing.T) {
	if got, want := SmoothNoise(4, 9, 1.5), HashNoise(4, 9, 1.5); got != want {
		t.Errorf("SmoothNoise at lattice point = %v, want %v", got, want)
	}
}

func TestDataImage(t *testing.T) {
	d := NewData(4, 2)
	d.Set(3, 1, 10, 20, 30, 40)
	img := d.Image()
	c := img.NRGBAAt(3, 1)
	if c.R != 10 || c.G != 20 || c.B != 30 || c.A != 40 {
		t.Errorf("NRGBAAt = %v", c)
	}
}

func TestPixelAt(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float64
		px, py int
		ok     bool
	}{
		{"inside", 3.7, 2.2, 3, 2, true},
		{"origin", 0, 0, 0, 0, true},
		{"just left", -0.9, 3, 0, 0, false},
		{"just above", 3, -0.1, 0, 0, false},
		{"right edge", 16, 3, 0, 0, false},
		{"last pixel", 15.99, 15.99, 15, 15, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			px, py, ok := pixelAt(tt.x, tt.y, 16)
			if ok != tt.ok || px != tt.px || py != tt.py {
				t.Errorf("pixelAt(%v, %v) = %d, %d, %v; want %d, %d, %v", tt.x, tt.y, px, py, ok, tt.px, tt.py, tt.ok)
			}
		})
	}
}
