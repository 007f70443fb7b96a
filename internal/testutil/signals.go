package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine returns n samples of amplitude*sin(2*pi*freqHz*t)
// starting at phase zero.
func DeterministicSine(freqHz, sampleRate, amplitude float64, n int) []float64 {
	out := make([]float64, n)
	w := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(w*float64(i))
	}
	return out
}

// DeterministicNoise returns n uniform samples in [-amplitude, amplitude]
// drawn from a source seeded with seed. SyntheticSpectrogram uses the same
// draw, so a seed gives the same numbers in both.
func DeterministicNoise(seed int64, amplitude float64, n int) []float64 {
	out := make([]float64, n)
	fillUniform(rand.New(rand.NewSource(seed)), out, amplitude)
	return out
}

// DC returns n copies of value.
func DC(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns n copies of 1.
func Ones(n int) []float64 { return DC(1, n) }

func fillUniform(rng *rand.Rand, dst []float64, amplitude float64) {
	for i := range dst {
		dst[i] = (rng.Float64()*2 - 1) * amplitude
	}
}
