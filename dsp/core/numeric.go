// Package core holds small numeric helpers shared by the dsp and measure
// packages.
package core

import "math"

// powerToDB converts linear power to dB (10*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func powerToDB(power float64) float64 {
	if power < 0 {
		return math.NaN()
	}

	if power == 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(power)
}

// AmplitudeToPowerDB returns 10*log10(x^2), the score convention used for
// correlation peaks. The sign of x is irrelevant.
func AmplitudeToPowerDB(x float64) float64 {
	return powerToDB(x * x)
}

// RoundTo rounds x to the given number of decimal places, half to even.
// Negative decimals round to tens, hundreds, and so on.
func RoundTo(x float64, decimals int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}

	scale := math.Pow(10, float64(decimals))

	return math.RoundToEven(x*scale) / scale
}

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// AllFinite reports whether every element of data is finite. It returns the
// index of the first offending value, or -1.
func AllFinite(data []float64) (bool, int) {
	for i, v := range data {
		if !IsFinite(v) {
			return false, i
		}
	}

	return true, -1
}
