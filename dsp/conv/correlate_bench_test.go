package conv

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func BenchmarkCorrelate2DSparseValid(b *testing.B) {
	data := mat.NewDense(35, 2000, nil)
	for i := 0; i < 35; i++ {
		for j := 0; j < 2000; j++ {
			data.Set(i, j, float64((i*j)%7))
		}
	}

	kernel := mat.NewDense(35, 50, nil)
	for i := 0; i < 35; i++ {
		kernel.Set(i, 49-i, 1)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Correlate2D(data, kernel, ModeValid); err != nil {
			b.Fatal(err)
		}
	}
}
