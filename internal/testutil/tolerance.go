package testutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// RequireSliceNearlyEqual fails t unless got and want have the same length
// and every pair is within eps. eps = 0 demands exact equality.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, g := range got {
		if d := math.Abs(g - want[i]); d > eps || math.IsNaN(d) {
			t.Fatalf("[%d] = %v, want %v (|diff| %v > %v)", i, g, want[i], d, eps)
		}
	}
}

// RequireFinite fails t at the first NaN or Inf in data.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	if i := firstNonFinite(data); i >= 0 {
		t.Fatalf("[%d] = %v, want a finite value", i, data[i])
	}
}

// RequireMatrixFinite fails t at the first NaN or Inf cell of m, reported
// as (row, col).
func RequireMatrixFinite(t *testing.T, m mat.Matrix) {
	t.Helper()
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := m.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("(%d,%d) = %v, want a finite value", i, j, v)
			}
		}
	}
}

func firstNonFinite(data []float64) int {
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}
	return -1
}
