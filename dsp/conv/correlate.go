package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// correlateWithPlan returns the full 1-D cross-correlation of a and b as
// IFFT(FFT(a) * conj(FFT(b))) on a caller-owned plan of fftSize points.
// Output index k holds lag k - (len(b) - 1). fftSize must be at least
// len(a) + len(b) - 1.
func correlateWithPlan(plan *algofft.Plan[complex128], fftSize int, a, b []float64) ([]float64, error) {
	n := len(a)
	m := len(b)

	aPadded := make([]complex128, fftSize)
	bPadded := make([]complex128, fftSize)
	for i := 0; i < n; i++ {
		aPadded[i] = complex(a[i], 0)
	}
	for i := 0; i < m; i++ {
		bPadded[i] = complex(b[i], 0)
	}

	aFreq := make([]complex128, fftSize)
	bFreq := make([]complex128, fftSize)

	if err := plan.Forward(aFreq, aPadded); err != nil {
		return nil, fmt.Errorf("conv: forward FFT failed: %w", err)
	}
	if err := plan.Forward(bFreq, bPadded); err != nil {
		return nil, fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	for i := range aFreq {
		bConj := complex(real(bFreq[i]), -imag(bFreq[i]))
		aFreq[i] *= bConj
	}

	resultTime := make([]complex128, fftSize)
	if err := plan.Inverse(resultTime, aFreq); err != nil {
		return nil, fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	// Positive lags sit at the start of the circular result, negative lags
	// wrap around to the end.
	result := make([]float64, n+m-1)
	for i := 0; i < n; i++ {
		result[m-1+i] = real(resultTime[i])
	}
	for i := 0; i < m-1; i++ {
		result[i] = real(resultTime[fftSize-m+1+i])
	}

	return result, nil
}
