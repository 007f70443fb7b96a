package cfar

import "gonum.org/v1/gonum/stat"

// Rolling returns len(signal) windows of the given length over signal padded
// with window-1 copies of its edge values, ceil((window-1)/2) on the left and
// the rest on the right. Windows share the padded backing array.
func Rolling(signal []float64, window int) [][]float64 {
	if len(signal) == 0 || window < 1 {
		return nil
	}

	padded := pad(signal, window)
	out := make([][]float64, len(signal))
	for i := range out {
		out[i] = padded[i : i+window : i+window]
	}
	return out
}

func pad(signal []float64, window int) []float64 {
	p := window - 1
	left := (p + 1) / 2
	right := p / 2

	padded := make([]float64, 0, len(signal)+p)
	for i := 0; i < left; i++ {
		padded = append(padded, signal[0])
	}
	padded = append(padded, signal...)
	for i := 0; i < right; i++ {
		padded = append(padded, signal[len(signal)-1])
	}
	return padded
}

// Diff returns, for each rolling window, the mean of its second half minus the
// mean of its first half (split at window/2). With window 2 this is a
// backward difference whose first element is zero.
func Diff(signal []float64, window int) []float64 {
	if window < 2 {
		return nil
	}

	half := window / 2
	windows := Rolling(signal, window)
	out := make([]float64, len(windows))
	for i, w := range windows {
		out[i] = stat.Mean(w[half:], nil) - stat.Mean(w[:half], nil)
	}
	return out
}

// BoolsToFloats maps true to 1 and false to 0.
func BoolsToFloats(b []bool) []float64 {
	out := make([]float64, len(b))
	for i, v := range b {
		if v {
			out[i] = 1
		}
	}
	return out
}
