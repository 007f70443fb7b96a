package spectrum

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-whistler/dsp/window"
)

const (
	defaultWindowLength = 256
	defaultTaper        = 0.25
)

var (
	// ErrSignalTooShort is returned when the signal does not fill a single
	// analysis frame.
	ErrSignalTooShort = errors.New("spectrum: signal shorter than analysis window")

	// ErrInvalidSampleRate is returned for non-positive or non-finite rates.
	ErrInvalidSampleRate = errors.New("spectrum: invalid sample rate")

	// ErrEmptyBand is returned when a frequency slice selects no bins.
	ErrEmptyBand = errors.New("spectrum: frequency band selects no bins")
)

// Spectrogram is a time-frequency intensity map. Intensity has one row per
// entry of Freqs and one column per entry of Times.
type Spectrogram struct {
	Freqs     []float64 // kHz
	Times     []float64 // seconds, frame centres
	Intensity *mat.Dense
	Log       bool // Intensity holds log10 magnitude
}

// Option configures spectrogram computation.
type Option func(*config)

type config struct {
	windowLength int
	taper        float64
	linear       bool
	timeScale    float64
}

func defaultConfig() config {
	return config{
		windowLength: defaultWindowLength,
		taper:        defaultTaper,
		timeScale:    1,
	}
}

// WithWindowLength sets the frame and FFT length in samples. Values below 2
// are ignored.
func WithWindowLength(n int) Option {
	return func(c *config) {
		if n >= 2 {
			c.windowLength = n
		}
	}
}

// WithTaper sets the Tukey taper fraction in [0, 1].
func WithTaper(alpha float64) Option {
	return func(c *config) {
		if alpha >= 0 && alpha <= 1 {
			c.taper = alpha
		}
	}
}

// WithLinear keeps the intensity as linear magnitude instead of log10.
func WithLinear() Option {
	return func(c *config) {
		c.linear = true
	}
}

// WithTimeScale multiplies every frame time by s. Non-positive values are
// ignored.
func WithTimeScale(s float64) Option {
	return func(c *config) {
		if s > 0 && !math.IsInf(s, 0) {
			c.timeScale = s
		}
	}
}

// Compute returns the short-time magnitude spectrum of signal.
//
// Frames do not overlap; a trailing partial frame is discarded. Each frame is
// detrended by its mean, windowed, transformed, and its one-sided magnitude is
// divided by the window's coherent sum. Silent bins become -Inf in log mode.
func Compute(signal []float64, sampleRate float64, opts ...Option) (*Spectrogram, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	w := cfg.windowLength
	if len(signal) < w {
		return nil, fmt.Errorf("%w: %d samples, window %d", ErrSignalTooShort, len(signal), w)
	}

	win, err := window.Tukey(w, cfg.taper, window.WithPeriodic())
	if err != nil {
		return nil, fmt.Errorf("spectrum: analysis window: %w", err)
	}

	gain, err := window.CoherentSum(win)
	if err != nil {
		return nil, fmt.Errorf("spectrum: analysis window: %w", err)
	}

	plan, err := algofft.NewPlan64(w)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	frames := (len(signal)-w)/w + 1
	bins := w/2 + 1

	intensity := mat.NewDense(bins, frames, nil)
	frame := make([]float64, w)
	in := make([]complex128, w)
	out := make([]complex128, w)
	mag := make([]float64, bins)

	for s := 0; s < frames; s++ {
		seg := signal[s*w : (s+1)*w]
		mean := stat.Mean(seg, nil)
		for i, v := range seg {
			frame[i] = v - mean
		}

		if err := window.ApplyCoefficientsInPlace(frame, win); err != nil {
			return nil, fmt.Errorf("spectrum: frame %d: %w", s, err)
		}

		for i, v := range frame {
			in[i] = complex(v, 0)
		}

		if err := plan.Forward(out, in); err != nil {
			return nil, fmt.Errorf("spectrum: forward FFT failed: %w", err)
		}

		magnitudeInto(mag, out)

		for k, v := range mag {
			v /= gain
			if !cfg.linear {
				v = math.Log10(v)
			}
			intensity.Set(k, s, v)
		}
	}

	freqs := make([]float64, bins)
	for k := range freqs {
		freqs[k] = float64(k) * sampleRate / float64(w) / 1e3
	}

	times := make([]float64, frames)
	for s := range times {
		times[s] = (float64(w)/2 + float64(s*w)) / sampleRate * cfg.timeScale
	}

	return &Spectrogram{
		Freqs:     freqs,
		Times:     times,
		Intensity: intensity,
		Log:       !cfg.linear,
	}, nil
}

// TimeRes returns the nominal time resolution Times[last]/len(Times).
func (s *Spectrogram) TimeRes() float64 {
	return TimeRes(s.Times)
}

// FreqRes returns the nominal frequency resolution in kHz.
func (s *Spectrogram) FreqRes() float64 {
	return FreqRes(s.Freqs)
}

// Slice restricts the spectrogram to [lowerKHz, upperKHz). See [Slice].
func (s *Spectrogram) Slice(lowerKHz, upperKHz float64) (*mat.Dense, []float64, error) {
	return Slice(lowerKHz, upperKHz, s.Freqs, s.Intensity)
}

// TimeRes returns last/len for a time axis. This is deliberately not the
// exact frame spacing; kernel pixel geometry is defined against it.
func TimeRes(times []float64) float64 {
	return axisRes(times)
}

// FreqRes returns last/len for a frequency axis.
func FreqRes(freqs []float64) float64 {
	return axisRes(freqs)
}

func axisRes(axis []float64) float64 {
	if len(axis) == 0 {
		return 0
	}
	return axis[len(axis)-1] / float64(len(axis))
}
