package signal

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	"github.com/cwbudde/algo-whistler/dsp/whistler"
	"github.com/cwbudde/algo-whistler/dsp/window"
)

const (
	traceSamples  = 1000
	envelopeTaper = 0.25
)

// ErrNotDispersive is returned when a whistler's travel time does not
// strictly decrease with frequency across its band.
var ErrNotDispersive = errors.New("signal: travel time not monotonic over band")

// Generator creates deterministic signals at a fixed sample rate.
type Generator struct {
	sampleRate float64
	seed       int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator for sampleRate.
func NewGenerator(sampleRate float64, opts ...Option) *Generator {
	g := &Generator{sampleRate: sampleRate, seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

func (g *Generator) check(samples int) error {
	if samples <= 0 {
		return fmt.Errorf("signal: samples must be > 0: %d", samples)
	}
	if !(g.sampleRate > 0) || math.IsInf(g.sampleRate, 0) {
		return fmt.Errorf("signal: sample rate must be > 0: %f", g.sampleRate)
	}
	return nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if err := g.check(samples); err != nil {
		return nil, err
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("signal: noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Whistler describes one dispersed event.
type Whistler struct {
	Onset     float64 // seconds; arrival of HighHz
	D0        float64
	An        float64
	LowHz     float64
	HighHz    float64
	NoseHz    float64
	Amplitude float64
}

// Duration returns the spread in arrival time between HighHz and LowHz.
func (w Whistler) Duration() float64 {
	return whistler.DispersionTime(w.LowHz, w.An, w.D0, w.NoseHz) -
		whistler.DispersionTime(w.HighHz, w.An, w.D0, w.NoseHz)
}

// Whistler renders w as a tone whose instantaneous frequency falls from
// HighHz to LowHz along the dispersion curve, shaped by a Tukey envelope.
// Parts falling outside [0, samples) are dropped.
func (g *Generator) Whistler(w Whistler, samples int) ([]float64, error) {
	if err := g.check(samples); err != nil {
		return nil, err
	}
	if !(w.LowHz > 0) || !(w.HighHz > w.LowHz) || !(w.NoseHz > 0) || !(w.D0 > 0) {
		return nil, fmt.Errorf("signal: invalid whistler %+v", w)
	}

	freqs := make([]float64, traceSamples)
	floats.Span(freqs, w.HighHz, w.LowHz)
	freqs[len(freqs)-1] = w.LowHz

	times := make([]float64, traceSamples)
	for i, f := range freqs {
		times[i] = whistler.DispersionTime(f, w.An, w.D0, w.NoseHz)
		if math.IsNaN(times[i]) || math.IsInf(times[i], 0) || (i > 0 && !(times[i] > times[i-1])) {
			return nil, fmt.Errorf("%w: D0=%v at %.1f Hz", ErrNotDispersive, w.D0, f)
		}
	}

	var curve interp.PiecewiseLinear
	if err := curve.Fit(times, freqs); err != nil {
		return nil, fmt.Errorf("signal: dispersion curve: %w", err)
	}

	length := int((times[len(times)-1]-times[0])*g.sampleRate) + 1
	env, err := window.Tukey(length, envelopeTaper)
	if err != nil {
		return nil, fmt.Errorf("signal: envelope: %w", err)
	}

	out := make([]float64, samples)
	start := int(math.Round(w.Onset * g.sampleRate))
	phase := 0.0
	for k := 0; k < length; k++ {
		f := curve.Predict(times[0] + float64(k)/g.sampleRate)
		phase += 2 * math.Pi * f / g.sampleRate

		i := start + k
		if i < 0 {
			continue
		}
		if i >= samples {
			break
		}
		out[i] = w.Amplitude * env[k] * math.Sin(phase)
	}
	return out, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("signal: normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("signal: normalize input must not be empty")
	}

	out := make([]float64, len(data))
	maxAbs := math.Max(floats.Max(data), -floats.Min(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	floats.ScaleTo(out, targetPeak/maxAbs, data)
	return out, nil
}
