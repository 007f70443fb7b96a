package testutil

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// SyntheticSpectrogram returns a rows x cols log-intensity map filled with
// uniform noise in [-noise, noise], together with axes whose last/len
// resolutions are exactly dfKHz and dt: Freqs[k] = (k+1)*dfKHz and
// Times[j] = (j+1)*dt.
func SyntheticSpectrogram(rows, cols int, dt, dfKHz, noise float64, seed int64) (freqs, times []float64, intensity *mat.Dense) {
	freqs = make([]float64, rows)
	for k := range freqs {
		freqs[k] = float64(k+1) * dfKHz
	}

	times = make([]float64, cols)
	for j := range times {
		times[j] = float64(j+1) * dt
	}

	intensity = mat.NewDense(rows, cols, nil)
	if noise != 0 {
		rng := rand.New(rand.NewSource(seed))
		for i := 0; i < rows; i++ {
			fillUniform(rng, intensity.RawRowView(i), noise)
		}
	}

	return freqs, times, intensity
}

// StampKernel adds gain*kernel into dst with the kernel's (0, 0) cell at
// (row, col). Cells falling outside dst are dropped.
func StampKernel(dst *mat.Dense, kernel mat.Matrix, row, col int, gain float64) {
	dr, dc := dst.Dims()
	kr, kc := kernel.Dims()
	for i := 0; i < kr; i++ {
		r := row + i
		if r < 0 || r >= dr {
			continue
		}
		for j := 0; j < kc; j++ {
			c := col + j
			if c < 0 || c >= dc {
				continue
			}
			if v := kernel.At(i, j); v != 0 {
				dst.Set(r, c, dst.At(r, c)+gain*v)
			}
		}
	}
}
