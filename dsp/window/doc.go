// Package window generates the analysis windows used by the spectrogram
// engine.
//
// Only the shapes the detector needs are provided: rectangular, Hann and
// Tukey. The spectrogram uses a periodic Tukey window with a 25% taper.
//
//	w, err := window.Tukey(256, 0.25, window.WithPeriodic())
package window
