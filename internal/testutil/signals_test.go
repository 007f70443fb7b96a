package testutil

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestDeterministicSine(t *testing.T) {
	// 1 kHz at 8 kHz: a quarter period every 2 samples.
	s := DeterministicSine(1000, 8000, 0.5, 9)
	want := []float64{0, 0.5 / math.Sqrt2, 0.5, 0.5 / math.Sqrt2, 0, -0.5 / math.Sqrt2, -0.5, -0.5 / math.Sqrt2, 0}
	RequireSliceNearlyEqual(t, s, want, 1e-12)
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 0.25, 256)
	RequireSliceNearlyEqual(t, a, DeterministicNoise(42, 0.25, 256), 0)

	for i, v := range a {
		if v < -0.25 || v > 0.25 {
			t.Fatalf("[%d] = %v outside [-0.25, 0.25]", i, v)
		}
	}

	b := DeterministicNoise(43, 0.25, 256)
	if mat.Equal(mat.NewVecDense(256, a), mat.NewVecDense(256, b)) {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestNoiseMatchesSyntheticSpectrogram(t *testing.T) {
	_, _, m := SyntheticSpectrogram(3, 5, 1, 1, 0.5, 9)
	RequireSliceNearlyEqual(t, m.RawMatrix().Data, DeterministicNoise(9, 0.5, 15), 0)
}

func TestFillUniformZeroAmplitude(t *testing.T) {
	dst := Ones(4)
	fillUniform(rand.New(rand.NewSource(1)), dst, 0)
	RequireSliceNearlyEqual(t, dst, make([]float64, 4), 0)
}

func TestDC(t *testing.T) {
	RequireSliceNearlyEqual(t, DC(-2, 3), []float64{-2, -2, -2}, 0)
	RequireSliceNearlyEqual(t, Ones(2), []float64{1, 1}, 0)
	if len(DC(1, 0)) != 0 {
		t.Fatal("DC(1, 0) not empty")
	}
}
