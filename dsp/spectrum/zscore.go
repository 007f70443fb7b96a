package spectrum

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ZScore standardizes m in two sequential passes: every column (across the
// frequency axis) is shifted to zero mean and scaled to unit population
// standard deviation, then every row (across the time axis) of that result
// is standardized the same way. The passes do not commute.
//
// Lines with zero variance become all zeros. m is not modified.
func ZScore(m mat.Matrix) *mat.Dense {
	out := mat.DenseCopyOf(m)
	rows, cols := out.Dims()

	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, out)
		standardize(col)
		out.SetCol(j, col)
	}

	for i := 0; i < rows; i++ {
		standardize(out.RawRowView(i))
	}

	return out
}

// standardize rewrites x in place as (x - mean) / std.
func standardize(x []float64) {
	if len(x) == 0 {
		return
	}

	mean, std := stat.PopMeanStdDev(x, nil)
	if std <= 1e-12*math.Max(1, math.Abs(mean)) {
		for i := range x {
			x[i] = 0
		}
		return
	}

	for i, v := range x {
		x[i] = (v - mean) / std
	}
}
