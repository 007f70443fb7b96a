package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/mat"
)

// sparseDensity is the largest fraction of non-zero kernel cells for which
// the tap-list path is used instead of row-wise FFT correlation.
const sparseDensity = 0.25

type tap struct {
	r, c int
	v    float64
}

// Correlate2D computes the 2-D cross-correlation of data with kernel:
//
//	z[i, j] = sum over (r, c) of data[i+r, j+c] * kernel[r, c]
//
// for the valid window, extended with zero padding for ModeFull and ModeSame.
// In ModeValid the kernel must fit inside data in both dimensions.
func Correlate2D(data, kernel mat.Matrix, mode Mode) (*mat.Dense, error) {
	if data == nil {
		return nil, ErrEmptyInput
	}
	if kernel == nil {
		return nil, ErrEmptyKernel
	}

	m, n := data.Dims()
	k, l := kernel.Dims()
	if m == 0 || n == 0 {
		return nil, ErrEmptyInput
	}
	if k == 0 || l == 0 {
		return nil, ErrEmptyKernel
	}
	if mode == ModeValid && (k > m || l > n) {
		return nil, fmt.Errorf("%w: kernel %dx%d, data %dx%d", ErrKernelTooLarge, k, l, m, n)
	}

	x := asDense(data)
	taps := collectTaps(kernel)

	if mode == ModeValid && float64(len(taps)) <= sparseDensity*float64(k*l) {
		return validSparse(x, taps, m-k+1, n-l+1), nil
	}

	var (
		full *mat.Dense
		err  error
	)
	if float64(len(taps)) <= sparseDensity*float64(k*l) {
		full = fullSparse(x, taps, k, l)
	} else {
		full, err = fullFFT(x, asDense(kernel))
		if err != nil {
			return nil, err
		}
	}

	r0, rn := modeRange(m, k, mode)
	c0, cn := modeRange(n, l, mode)
	out := mat.NewDense(rn, cn, nil)
	out.Copy(full.Slice(r0, r0+rn, c0, c0+cn))

	return out, nil
}

func asDense(m mat.Matrix) *mat.Dense {
	if d, ok := m.(*mat.Dense); ok {
		return d
	}
	return mat.DenseCopyOf(m)
}

func collectTaps(kernel mat.Matrix) []tap {
	k, l := kernel.Dims()
	taps := make([]tap, 0, k+l)
	for r := 0; r < k; r++ {
		for c := 0; c < l; c++ {
			if v := kernel.At(r, c); v != 0 {
				taps = append(taps, tap{r: r, c: c, v: v})
			}
		}
	}
	return taps
}

func validSparse(x *mat.Dense, taps []tap, rows, cols int) *mat.Dense {
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		dst := out.RawRowView(i)
		for _, t := range taps {
			src := x.RawRowView(i + t.r)[t.c : t.c+cols]
			for j, v := range src {
				dst[j] += t.v * v
			}
		}
	}
	return out
}

func fullSparse(x *mat.Dense, taps []tap, k, l int) *mat.Dense {
	m, n := x.Dims()
	out := mat.NewDense(m+k-1, n+l-1, nil)
	for p := 0; p < m; p++ {
		src := x.RawRowView(p)
		for _, t := range taps {
			dst := out.RawRowView(p - t.r + k - 1)[l-1-t.c:]
			for q, v := range src {
				dst[q] += t.v * v
			}
		}
	}
	return out
}

func fullFFT(x, kernel *mat.Dense) (*mat.Dense, error) {
	m, n := x.Dims()
	k, l := kernel.Dims()
	fftSize := nextPowerOf2(n + l - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	out := mat.NewDense(m+k-1, n+l-1, nil)
	for p := 0; p < m; p++ {
		for r := 0; r < k; r++ {
			row, err := correlateWithPlan(plan, fftSize, x.RawRowView(p), kernel.RawRowView(r))
			if err != nil {
				return nil, err
			}
			dst := out.RawRowView(p - r + k - 1)
			for q, v := range row {
				dst[q] += v
			}
		}
	}
	return out, nil
}
