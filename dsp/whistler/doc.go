// Package whistler models the dispersion curve of a whistler and renders it
// as a binary time-frequency kernel for matched filtering.
//
// The travel time of frequency f for zero dispersion D0, nose frequency fn
// and normalized equatorial gyrofrequency An is
//
//	t(f) = D0 / ((1+An) * sqrt(f)) * ((1+An) - (3*An-1) * f/fn) / (1 - An * f/fn)
//
// A [Model] samples this curve over a fixed band, quantizes it onto the pixel
// grid of a spectrogram and caches the resulting [Kernel] per integer D0.
// Kernels are frequency-major: row 0 is the lowest band frequency and column
// 0 the earliest arrival.
//
// A Model is safe for concurrent use.
package whistler
