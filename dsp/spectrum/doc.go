// Package spectrum turns sampled signals into time-frequency intensity maps
// and provides the band, normalization and template-correlation helpers that
// operate on them.
//
// A [Spectrogram] is computed with non-overlapping periodic Tukey(0.25)
// frames, constant detrending and amplitude ("spectrum") scaling, so that a
// bin holds |X[k]| / sum(w). Frequencies are reported in kHz and, unless
// [WithLinear] is given, the intensity is stored as log10 magnitude.
//
// Intensity matrices are gonum [mat.Dense] values with one row per frequency
// bin and one column per time frame.
package spectrum
