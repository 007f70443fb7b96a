package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"time"

	"github.com/cwbudde/algo-whistler/dsp/cfar"
	"github.com/cwbudde/algo-whistler/dsp/spectrum"
	"github.com/cwbudde/algo-whistler/dsp/whistler"
	"github.com/cwbudde/algo-whistler/measure/detect"
)

// ErrInvalidConfig is returned by New for unusable configurations.
var ErrInvalidConfig = errors.New("pipeline: invalid config")

// Config holds the tunables of one detection pass.
type Config struct {
	WindowLength int     // STFT frame length in samples
	TimeScale    float64 // multiplier applied to the spectrogram time axis
	An           float64 // normalized equatorial gyrofrequency

	Method cfar.Method
	CFAR   cfar.Params

	Threshold float64 // minimum candidate score, dB
	Decimals  int     // time rounding of candidates and records

	Strategy    detect.Strategy
	Buckets     int
	FitWindow   float64 // seconds
	D0Min       int
	D0Max       int
	RegimeRange bool // search the regime's D0 range instead of [D0Min, D0Max]
	FitWorkers  int  // concurrent D0 evaluations per candidate; <= 0 means GOMAXPROCS
}

// DefaultConfig returns 256-sample frames, fused CFAR with the default
// parameters, one-decimal rounding, a zero dB threshold and an exhaustive
// D0 search over [1, 200].
func DefaultConfig() Config {
	return Config{
		WindowLength: 256,
		TimeScale:    1,
		An:           whistler.DefaultAn,
		Method:       cfar.MethodFusion,
		CFAR:         cfar.DefaultParams(),
		Threshold:    0,
		Decimals:     1,
		Strategy:     detect.SearchExhaustive,
		Buckets:      45,
		FitWindow:    1,
		D0Min:        1,
		D0Max:        200,
		FitWorkers:   1,
	}
}

// Validate reports the first unusable field.
func (c Config) Validate() error {
	switch {
	case c.WindowLength < 2:
		return fmt.Errorf("%w: window length %d", ErrInvalidConfig, c.WindowLength)
	case !(c.TimeScale > 0) || math.IsInf(c.TimeScale, 0):
		return fmt.Errorf("%w: time scale %v", ErrInvalidConfig, c.TimeScale)
	case !(c.An >= 0 && c.An < 1):
		return fmt.Errorf("%w: An %v", ErrInvalidConfig, c.An)
	case !c.Method.Valid():
		return fmt.Errorf("%w: method %v", ErrInvalidConfig, c.Method)
	case c.Decimals < 0:
		return fmt.Errorf("%w: decimals %d", ErrInvalidConfig, c.Decimals)
	case math.IsNaN(c.Threshold):
		return fmt.Errorf("%w: threshold is NaN", ErrInvalidConfig)
	case c.Strategy != detect.SearchExhaustive && c.Strategy != detect.SearchBucketed:
		return fmt.Errorf("%w: strategy %v", ErrInvalidConfig, c.Strategy)
	case c.Buckets < 1:
		return fmt.Errorf("%w: buckets %d", ErrInvalidConfig, c.Buckets)
	case !(c.FitWindow > 0) || math.IsInf(c.FitWindow, 0):
		return fmt.Errorf("%w: fit window %v", ErrInvalidConfig, c.FitWindow)
	case !c.RegimeRange && (c.D0Min < 1 || c.D0Max < c.D0Min):
		return fmt.Errorf("%w: D0 range [%d, %d]", ErrInvalidConfig, c.D0Min, c.D0Max)
	}
	if err := c.CFAR.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger for progress lines. A nil logger discards them.
func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// WithMetrics attaches collectors that Batch updates.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// Pipeline detects whistlers in single segments.
type Pipeline struct {
	cfg     Config
	log     *log.Logger
	metrics *Metrics
}

// New returns a pipeline for cfg.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg: cfg,
		log: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Result is the output of one detection pass.
type Result struct {
	Regime      Regime
	Records     []detect.Record
	Correlation []float64
	Pulses      []bool
	Candidates  []detect.Candidate // after rounding and thresholding
	TimeRes     float64            // seconds per column
	FreqRes     float64            // kHz per row
	Kernels     int                // kernels rendered while fitting
	Warnings    []string
}

// Detect computes the spectrogram of signal and runs DetectSpectrogram on
// it. Signals shorter than one frame return spectrum.ErrSignalTooShort.
func (p *Pipeline) Detect(signal []float64, sampleRate float64, r Regime) (*Result, error) {
	spec, err := spectrum.Compute(signal, sampleRate,
		spectrum.WithWindowLength(p.cfg.WindowLength),
		spectrum.WithTimeScale(p.cfg.TimeScale),
	)
	if err != nil {
		return nil, err
	}
	return p.DetectSpectrogram(spec, r)
}

// DetectSpectrogram runs band slicing, normalization, kernel correlation,
// CFAR thresholding, localization and D0 fitting on a log spectrogram.
func (p *Pipeline) DetectSpectrogram(spec *spectrum.Spectrogram, r Regime) (*Result, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	tres, fres := spec.TimeRes(), spec.FreqRes()
	model, err := whistler.New(whistler.Band{
		TimeRes:    tres,
		FreqResKHz: fres,
		LowHz:      r.LowHz,
		HighHz:     r.HighHz,
		NoseHz:     r.NoseHz,
	}, whistler.WithAn(p.cfg.An))
	if err != nil {
		return nil, fmt.Errorf("pipeline: model: %w", err)
	}

	lo, hi := r.LowHz/1e3, r.HighHz/1e3
	slice, _, err := spec.Slice(lo, hi)
	if err != nil {
		return nil, err
	}
	z := spectrum.ZScore(slice)

	kernel, err := model.Kernel(r.D0)
	if err != nil {
		return nil, fmt.Errorf("pipeline: reference kernel D0=%d: %w", r.D0, err)
	}

	rows, cols := z.Dims()
	p.log.Printf("regime %s: %dx%d slice, kernel %dx%d", r.Name, rows, cols, kernel.Rows(), kernel.Cols())

	corr, err := spectrum.Correlation(z, kernel.Data)
	if err != nil {
		return nil, err
	}

	pulses, err := cfar.Pulse(corr, p.cfg.Method, p.cfg.CFAR)
	if err != nil {
		return nil, err
	}

	start, err := detect.StartingLocations(corr, pulses, tres)
	if err != nil {
		return nil, err
	}
	final := detect.FinalLocations(start, p.cfg.Threshold, p.cfg.Decimals)
	p.log.Printf("regime %s: %d pulses, %d candidates", r.Name, len(start), len(final))

	d0Min, d0Max := p.cfg.D0Min, p.cfg.D0Max
	if p.cfg.RegimeRange {
		d0Min, d0Max = r.D0Min, r.D0Max
	}

	fitter := detect.NewFitter(model,
		detect.WithStrategy(p.cfg.Strategy),
		detect.WithD0Range(d0Min, d0Max),
		detect.WithBuckets(p.cfg.Buckets),
		detect.WithWindow(p.cfg.FitWindow),
		detect.WithDecimals(p.cfg.Decimals),
		detect.WithWorkers(p.cfg.FitWorkers),
	)

	// The exhaustive search touches every D0 in range for each candidate, so
	// the cache is filled up front. Failures land in model.Warnings.
	if len(final) > 0 && p.cfg.Strategy == detect.SearchExhaustive {
		began := time.Now()
		_ = model.Precompute(d0Min, d0Max)
		p.log.Printf("regime %s: %d kernels for D0 %d..%d in %v",
			r.Name, model.Cached(), d0Min, d0Max, time.Since(began).Round(time.Millisecond))
	}

	records, err := fitter.BoundingBoxes(final, z, tres, lo, hi)
	if err != nil {
		return nil, err
	}

	warnings := model.Warnings()
	for _, w := range warnings {
		p.log.Printf("regime %s: %s", r.Name, w)
	}

	return &Result{
		Regime:      r,
		Records:     records,
		Correlation: corr,
		Pulses:      pulses,
		Candidates:  final,
		TimeRes:     tres,
		FreqRes:     fres,
		Kernels:     model.Cached(),
		Warnings:    warnings,
	}, nil
}
