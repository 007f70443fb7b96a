package spectrum

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-whistler/dsp/conv"
)

var errAxisMismatch = errors.New("spectrum: frequency axis length does not match intensity rows")

// Slice returns the rows of m whose bin index lies in
// [int(lowerKHz/res), int(upperKHz/res)), res being [FreqRes] of freqs,
// together with the matching part of the frequency axis. Indices truncate
// toward zero and are clamped to the matrix. The returned matrix is a copy.
func Slice(lowerKHz, upperKHz float64, freqs []float64, m mat.Matrix) (*mat.Dense, []float64, error) {
	rows, cols := m.Dims()
	if len(freqs) != rows {
		return nil, nil, fmt.Errorf("%w: %d != %d", errAxisMismatch, len(freqs), rows)
	}

	res := FreqRes(freqs)
	if !(res > 0) {
		return nil, nil, fmt.Errorf("%w: frequency resolution %v", ErrEmptyBand, res)
	}

	lo := clampIndex(int(lowerKHz/res), rows)
	hi := clampIndex(int(upperKHz/res), rows)
	if hi <= lo {
		return nil, nil, fmt.Errorf("%w: [%v, %v) kHz", ErrEmptyBand, lowerKHz, upperKHz)
	}

	out := mat.NewDense(hi-lo, cols, nil)
	if d, ok := m.(*mat.Dense); ok {
		out.Copy(d.Slice(lo, hi, 0, cols))
	} else {
		for i := lo; i < hi; i++ {
			for j := 0; j < cols; j++ {
				out.Set(i-lo, j, m.At(i, j))
			}
		}
	}

	band := make([]float64, hi-lo)
	copy(band, freqs[lo:hi])

	return out, band, nil
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// Correlation correlates a log10 intensity slice against a kernel on linear
// intensity, i.e. it exponentiates the slice before calling [CorrelateValid].
// When the kernel is as tall as the slice the result is a single row, which
// is returned as the correlation trace.
func Correlation(slice, kernel mat.Matrix) ([]float64, error) {
	if slice == nil {
		return nil, conv.ErrEmptyInput
	}

	rows, cols := slice.Dims()
	if rows == 0 || cols == 0 {
		return nil, conv.ErrEmptyInput
	}

	linear := mat.NewDense(rows, cols, nil)
	linear.Apply(func(_, _ int, v float64) float64 {
		return math.Pow(10, v)
	}, slice)

	return CorrelateValid(linear, kernel)
}

// CorrelateValid computes the valid-mode 2-D cross-correlation of data with
// kernel and returns its first row. Kernel rows and columns that extend past
// data are dropped; data is never padded.
func CorrelateValid(data, kernel mat.Matrix) ([]float64, error) {
	z, err := conv.Correlate2D(data, fitKernel(kernel, data), conv.ModeValid)
	if err != nil {
		return nil, fmt.Errorf("spectrum: correlation: %w", err)
	}

	return mat.Row(nil, 0, z), nil
}

// fitKernel truncates kernel to the dimensions of data.
func fitKernel(kernel, data mat.Matrix) mat.Matrix {
	if kernel == nil || data == nil {
		return kernel
	}

	kr, kc := kernel.Dims()
	dr, dc := data.Dims()
	if kr <= dr && kc <= dc {
		return kernel
	}

	d, ok := kernel.(*mat.Dense)
	if !ok {
		d = mat.DenseCopyOf(kernel)
	}

	return d.Slice(0, min(kr, dr), 0, min(kc, dc))
}
