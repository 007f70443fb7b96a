package spectrum

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-whistler/internal/testutil"
)

func TestZScoreSequentialOrder(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{
		1, 0,
		2, 0,
		3, 3,
	})

	got := ZScore(m)
	want := mat.NewDense(3, 2, []float64{
		-1, 1,
		1, -1,
		-1, 1,
	})

	if !mat.EqualApprox(got, want, 1e-9) {
		t.Fatalf("ZScore =\n%v\nwant\n%v", mat.Formatted(got), mat.Formatted(want))
	}

	// Rows-first would give a different answer.
	var swapped mat.Dense
	swapped.CloneFrom(m.T())
	if mat.EqualApprox(ZScore(&swapped).T(), want, 1e-9) {
		t.Fatalf("expected the two pass orders to differ")
	}
}

func TestZScoreRowMoments(t *testing.T) {
	m := mat.NewDense(4, 6, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 6; j++ {
			m.Set(i, j, math.Sin(float64(i*7+j*3))+float64(i))
		}
	}

	z := ZScore(m)
	for i := 0; i < 4; i++ {
		mean, std := stat.PopMeanStdDev(z.RawRowView(i), nil)
		if math.Abs(mean) > 1e-12 || math.Abs(std-1) > 1e-12 {
			t.Fatalf("row %d: mean=%v std=%v, want 0 and 1", i, mean, std)
		}
	}
}

func TestZScoreZeroVariance(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{
		5, 5, 5,
		5, 5, 5,
	})

	z := ZScore(m)
	testutil.RequireMatrixFinite(t, z)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			if v := z.At(i, j); v != 0 {
				t.Fatalf("(%d,%d) = %v, want 0", i, j, v)
			}
		}
	}

	if m.At(0, 0) != 5 {
		t.Fatalf("input was modified")
	}
}
