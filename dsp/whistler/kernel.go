package whistler

import "gonum.org/v1/gonum/mat"

// Kernel is a rendered dispersion curve. Data must not be modified.
type Kernel struct {
	D0   int
	Data *mat.Dense
}

// Rows returns the number of frequency pixels.
func (k *Kernel) Rows() int {
	r, _ := k.Data.Dims()
	return r
}

// Cols returns the number of time pixels.
func (k *Kernel) Cols() int {
	_, c := k.Data.Dims()
	return c
}

// Duration returns the time span covered by the kernel.
func (k *Kernel) Duration(timeRes float64) float64 {
	return float64(k.Cols()) * timeRes
}

// Lit returns the number of non-zero pixels.
func (k *Kernel) Lit() int {
	n := 0
	rows, cols := k.Data.Dims()
	for i := 0; i < rows; i++ {
		for _, v := range k.Data.RawRowView(i)[:cols] {
			if v != 0 {
				n++
			}
		}
	}
	return n
}
