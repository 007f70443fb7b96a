// Package conv provides the 2-D correlation used for template matching.
//
// [Correlate2D] slides a kernel over a frequency-by-time matrix. Kernels that
// are mostly zero (such as a rendered whistler trace) are evaluated from a
// tap list; dense kernels fall back to row-wise FFT correlation, where each
// row pair follows the lag convention "output index k is lag k - (len(b) - 1)".
//
// # Usage
//
//	corr, err := conv.Correlate2D(spectrogram, kernel, conv.ModeValid)
//	peak := floats.Max(corr.RawRowView(0))
package conv
