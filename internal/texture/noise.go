package texture

import gomath "math"

// HashNoise is a cheap deterministic pseudo-random value in [0,1).
func HashNoise(x, y, seed float64) float64 {
	v := gomath.Sin(x*12.9898+y*78.233+seed) * 43758.5453
	return v - gomath.Floor(v)
}

// SmoothNoise is value noise: HashNoise on the integer lattice, blended with
// a smoothstep.
func SmoothNoise(x, y, seed float64) float64 {
	x0, y0 := gomath.Floor(x), gomath.Floor(y)
	fx, fy := smoothstep(x-x0), smoothstep(y-y0)

	a := HashNoise(x0, y0, seed)
	b := HashNoise(x0+1, y0, seed)
	c := HashNoise(x0, y0+1, seed)
	d := HashNoise(x0+1, y0+1, seed)

	top := a + (b-a)*fx
	bottom := c + (d-c)*fx
	return top + (bottom-top)*fy
}

// FBM sums octaves of SmoothNoise, doubling frequency and halving amplitude
// each octave. The result is normalized to [0,1).
func FBM(x, y, seed float64, octaves int) float64 {
	if octaves < 1 {
		octaves = 1
	}
	var sum, norm float64
	amp, freq := 1.0, 1.0
	for i := 0; i < octaves; i++ {
		sum += amp * SmoothNoise(x*freq, y*freq, seed+float64(i)*19.19)
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	return sum / norm
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}
