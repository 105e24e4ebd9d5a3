package texture

import (
	gomath "math"
	"math/rand/v2"

	"github.com/Faultbox/facestyle/internal/faceerr"
	"github.com/Faultbox/facestyle/pkg/math"
)

// Seed offsets keep the noise fields of different layers uncorrelated.
const (
	seedModifier = 17.0
	seedVein     = 29.0
	seedHair     = 41.0
	seedFlow     = 53.0
	seedNormalX  = 101.0
	seedNormalY  = 202.0
	seedSpecular = 307.0
)

// Synthesize builds the base, normal and specular maps for recipe. Scar
// placement and the noise seed come from rng, so a fixed rng state gives
// byte-identical output.
func Synthesize(recipe Recipe, rng *rand.Rand) (*Set, error) {
	const op = "texture.Synthesize"
	if recipe.Size < MinSize || recipe.Size > MaxSize {
		return nil, faceerr.New(faceerr.KindTextureSynthesisFailed, op,
			"size %d outside [%d, %d]", recipe.Size, MinSize, MaxSize)
	}
	if rng == nil {
		return nil, faceerr.New(faceerr.KindTextureSynthesisFailed, op, "nil random source")
	}

	s := &synth{recipe: recipe, size: recipe.Size, seed: rng.Float64() * 1000}
	if s.recipe.NoiseScale <= 0 {
		s.recipe.NoiseScale = 8
	}

	base := make([]math.RGB, s.size*s.size)
	s.baseLayer(base)
	s.modifierLayer(base)
	s.scarLayer(base, rng)

	set := &Set{}
	if recipe.Hair != nil {
		set.Flow = s.hairLayer(base)
	}

	set.Base = NewData(s.size, s.size)
	for y := 0; y < s.size; y++ {
		for x := 0; x < s.size; x++ {
			set.Base.SetRGB(x, y, base[y*s.size+x], 255)
		}
	}
	set.Normal = s.normalMap()
	set.Specular = s.specularMap()
	return set, nil
}

type synth struct {
	recipe Recipe
	size   int
	seed   float64
}

// noise samples the primary field at pixel (x, y).
func (s *synth) noise(x, y int, seed float64) float64 {
	if s.recipe.Noise == NoiseSmooth {
		u := float64(x) / float64(s.size) * s.recipe.NoiseScale
		v := float64(y) / float64(s.size) * s.recipe.NoiseScale
		return FBM(u, v, seed, 4)
	}
	return HashNoise(float64(x), float64(y), seed)
}

func (s *synth) baseLayer(base []math.RGB) {
	amp := 0.5 * s.recipe.TextureIntensity
	for y := 0; y < s.size; y++ {
		for x := 0; x < s.size; x++ {
			n := s.noise(x, y, s.seed)
			base[y*s.size+x] = s.recipe.BaseColor.Scale(1 + (n-0.5)*amp)
		}
	}
}

func (s *synth) modifierLayer(base []math.RGB) {
	mod := s.recipe.Modifier
	if mod.Kind == ModifierNone || mod.Strength <= 0 {
		return
	}
	span := gomath.Max(1-mod.Threshold, 1e-6)
	white := math.RGB{R: 1, G: 1, B: 1}

	for y := 0; y < s.size; y++ {
		for x := 0; x < s.size; x++ {
			gate := s.noise(x, y, s.seed+seedModifier)
			if gate <= mod.Threshold {
				continue
			}
			w := mod.Strength * (gate - mod.Threshold) / span
			i := y*s.size + x

			switch mod.Kind {
			case ModifierDarken:
				base[i] = base[i].Scale(1 - 0.5*w)
			case ModifierBrighten:
				tint := mod.Color
				if tint == (math.RGB{}) {
					tint = white
				}
				base[i] = base[i].Lerp(tint, 0.5*w)
			case ModifierVeining:
				u := float64(x) / float64(s.size)
				v := float64(y) / float64(s.size)
				turb := FBM(u*4, v*4, s.seed+seedVein, 4)
				vein := 1 - gomath.Abs(gomath.Sin((u+v)*gomath.Pi*3+turb*6))
				vein = gomath.Pow(vein, 8)
				base[i] = base[i].Lerp(mod.Color, gomath.Min(1, vein*mod.Strength))
			}
		}
	}
}

// pixelAt returns the pixel containing (x, y), or false when the point
// lies outside a size×size image.
func pixelAt(x, y float64, size int) (px, py int, ok bool) {
	px, py = int(gomath.Floor(x)), int(gomath.Floor(y))
	if px < 0 || py < 0 || px >= size || py >= size {
		return 0, 0, false
	}
	return px, py, true
}

// scarLayer draws straight strokes that darken the pixels they cross.
func (s *synth) scarLayer(base []math.RGB, rng *rand.Rand) {
	sc := s.recipe.Scars
	if sc.Count <= 0 || sc.Intensity <= 0 {
		return
	}
	size := float64(s.size)
	for i := 0; i < sc.Count; i++ {
		x0 := rng.Float64() * size
		y0 := rng.Float64() * size
		length := (0.05 + rng.Float64()*0.15) * size
		angle := rng.Float64() * 2 * gomath.Pi
		depth := gomath.Min(1, (0.3+0.7*rng.Float64())*sc.Intensity)

		dx, dy := gomath.Cos(angle), gomath.Sin(angle)
		for t := 0.0; t <= length; t += 0.5 {
			// Strokes fade toward both ends.
			fade := gomath.Sin(gomath.Pi * t / length)
			for w := -1; w <= 1; w++ {
				px, py, ok := pixelAt(x0+dx*t-dy*float64(w), y0+dy*t+dx*float64(w), s.size)
				if !ok {
					continue
				}
				k := fade * depth
				if w != 0 {
					k *= 0.5
				}
				idx := py*s.size + px
				base[idx] = base[idx].Scale(1 - 0.6*k)
			}
		}
	}
}

// hairLayer blends strand noise into the hair regions and returns the flow
// map.
func (s *synth) hairLayer(base []math.RGB) *Data {
	h := s.recipe.Hair
	flow := NewData(s.size, s.size)
	layers := h.Layers
	if layers < 1 {
		layers = 1
	}
	size := float64(s.size)
	top := h.Coverage * size
	bottom := size - h.BeardCoverage*size

	for y := 0; y < s.size; y++ {
		fy := float64(y)
		inHair := fy < top
		inBeard := h.BeardCoverage > 0 && fy >= bottom
		if !inHair && !inBeard {
			continue
		}
		density := h.Density
		if inBeard && !inHair {
			density = h.BeardDensity
		}
		for x := 0; x < s.size; x++ {
			u := float64(x) / size
			v := fy / size
			bend := (SmoothNoise(u*3, v*3, s.seed+seedFlow) - 0.5) * gomath.Pi * h.Waviness
			angle := h.FlowAngle + bend
			cos, sin := gomath.Cos(angle), gomath.Sin(angle)

			// Rotate into strand space: long along the flow, tight across.
			along := u*cos + v*sin
			across := -u*sin + v*cos

			var strand float64
			weight := 1.0
			for l := 0; l < layers; l++ {
				lseed := s.seed + seedHair + float64(l)*7.77
				strand += weight * SmoothNoise(along*6, across*size*0.5, lseed)
				weight *= 0.5
			}
			strand /= 2 - 2*weight

			i := y*s.size + x
			base[i] = base[i].Lerp(h.Color, gomath.Min(1, density*strand))

			flow.Set(x, y,
				uint8((cos*0.5+0.5)*255+0.5),
				uint8((sin*0.5+0.5)*255+0.5),
				0, 255)
		}
	}
	return flow
}

func (s *synth) normalMap() *Data {
	out := NewData(s.size, s.size)
	strength := s.recipe.NormalStrength
	for y := 0; y < s.size; y++ {
		for x := 0; x < s.size; x++ {
			nx := (s.noise(x, y, s.seed+seedNormalX) - 0.5) * strength
			ny := (s.noise(x, y, s.seed+seedNormalY) - 0.5) * strength
			n := math.Vec3{X: nx, Y: ny, Z: 1}.NormalizeOr(math.UnitZ, 1e-12)
			out.Set(x, y, encodeUnit(n.X), encodeUnit(n.Y), encodeUnit(n.Z), 255)
		}
	}
	return out
}

func (s *synth) specularMap() *Data {
	out := NewData(s.size, s.size)
	alpha := uint8(255*clamp01(1-s.recipe.Roughness) + 0.5)
	for y := 0; y < s.size; y++ {
		for x := 0; x < s.size; x++ {
			n := s.noise(x, y, s.seed+seedSpecular)
			v := clamp01(s.recipe.Specular + (n-0.5)*s.recipe.SpecularVariation)
			b := uint8(v*255 + 0.5)
			out.Set(x, y, b, b, b, alpha)
		}
	}
	return out
}

// encodeUnit maps [-1,1] to 0..255.
func encodeUnit(v float64) uint8 {
	return uint8(clamp01(v*0.5+0.5)*255 + 0.5)
}

func clamp01(v float64) float64 {
	if gomath.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
