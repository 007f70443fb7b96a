package testutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestRequireSliceNearlyEqual(t *testing.T) {
	RequireSliceNearlyEqual(t, []float64{1, 2.05, 3}, []float64{1, 2, 3}, 0.1)
	RequireSliceNearlyEqual(t, nil, []float64{}, 0)
}

func TestRequireFinite(t *testing.T) {
	RequireFinite(t, []float64{0, -1e300, 1e300})
	RequireMatrixFinite(t, mat.NewDense(2, 2, []float64{1, 2, 3, 4}))
}

func TestFirstNonFinite(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		want int
	}{
		{"empty", nil, -1},
		{"finite", []float64{1, 2}, -1},
		{"nan", []float64{1, math.NaN(), math.Inf(1)}, 1},
		{"inf", []float64{math.Inf(-1)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstNonFinite(tt.data); got != tt.want {
				t.Fatalf("firstNonFinite = %d, want %d", got, tt.want)
			}
		})
	}
}
