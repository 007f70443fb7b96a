package detect

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-whistler/dsp/core"
	"github.com/cwbudde/algo-whistler/dsp/spectrum"
	"github.com/cwbudde/algo-whistler/dsp/whistler"
)

const (
	defaultD0Min   = 1
	defaultD0Max   = 200
	defaultBuckets = 45
	defaultWindow  = 1.0
)

// ErrNoKernel is returned when no D0 in the search range yields a kernel.
var ErrNoKernel = errors.New("detect: no usable kernel in D0 range")

// Strategy selects how D0 is searched.
type Strategy int

const (
	// SearchExhaustive evaluates every integer D0 in range.
	SearchExhaustive Strategy = iota
	// SearchBucketed evaluates bucket midpoints, then refines the best bucket.
	SearchBucketed
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case SearchExhaustive:
		return "exhaustive"
	case SearchBucketed:
		return "bucketed"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy parses a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exhaustive", "":
		return SearchExhaustive, nil
	case "bucketed":
		return SearchBucketed, nil
	default:
		return 0, fmt.Errorf("detect: unknown strategy %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(b []byte) error {
	v, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// KernelSource supplies dispersion kernels by D0. *whistler.Model
// implements it.
type KernelSource interface {
	Kernel(d0 int) (*whistler.Kernel, error)
}

// Peak is the best correlation reached by one D0.
type Peak struct {
	D0    int
	Value float64
}

// Record is a fitted detection.
type Record struct {
	StartTime float64 // seconds
	EndTime   float64 // seconds
	StartFreq float64 // Hz
	EndFreq   float64 // Hz
	D0        int
	Score     float64 // detection score, dB
	Profile   []Peak  // evaluated D0 values in ascending order
	Strategy  Strategy
}

// FitOption configures a Fitter.
type FitOption func(*fitConfig)

type fitConfig struct {
	strategy Strategy
	d0Min    int
	d0Max    int
	buckets  int
	window   float64
	decimals int
	workers  int
}

func defaultFitConfig() fitConfig {
	return fitConfig{
		strategy: SearchExhaustive,
		d0Min:    defaultD0Min,
		d0Max:    defaultD0Max,
		buckets:  defaultBuckets,
		window:   defaultWindow,
		decimals: 1,
		workers:  1,
	}
}

// WithStrategy selects the D0 search strategy.
func WithStrategy(s Strategy) FitOption {
	return func(c *fitConfig) {
		if s == SearchExhaustive || s == SearchBucketed {
			c.strategy = s
		}
	}
}

// WithD0Range sets the inclusive D0 search range. Ranges starting below 1
// are ignored.
func WithD0Range(lo, hi int) FitOption {
	return func(c *fitConfig) {
		if lo >= 1 && hi >= lo {
			c.d0Min, c.d0Max = lo, hi
		}
	}
}

// WithBuckets sets the bucket count for SearchBucketed.
func WithBuckets(n int) FitOption {
	return func(c *fitConfig) {
		if n >= 1 {
			c.buckets = n
		}
	}
}

// WithWindow sets the fit window length in seconds.
func WithWindow(seconds float64) FitOption {
	return func(c *fitConfig) {
		if seconds > 0 && !math.IsInf(seconds, 0) {
			c.window = seconds
		}
	}
}

// WithDecimals sets the rounding of record times.
func WithDecimals(n int) FitOption {
	return func(c *fitConfig) {
		if n >= 0 {
			c.decimals = n
		}
	}
}

// WithWorkers sets how many D0 values are evaluated concurrently. Zero or
// less selects runtime.GOMAXPROCS(0).
func WithWorkers(n int) FitOption {
	return func(c *fitConfig) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		c.workers = n
	}
}

// Fitter searches D0 for localized candidates.
type Fitter struct {
	model KernelSource
	cfg   fitConfig
}

// NewFitter returns a Fitter drawing kernels from model.
func NewFitter(model KernelSource, opts ...FitOption) *Fitter {
	cfg := defaultFitConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Fitter{model: model, cfg: cfg}
}

// Strategy returns the configured search strategy.
func (f *Fitter) Strategy() Strategy { return f.cfg.strategy }

// BoundingBoxes fits every candidate against data, the normalized band slice
// of the spectrogram (rows = frequency, columns = time). Candidates whose
// window starts past the end of data are skipped.
func (f *Fitter) BoundingBoxes(cands []Candidate, data mat.Matrix, timeRes, lowerKHz, upperKHz float64) ([]Record, error) {
	if !(timeRes > 0) {
		return nil, fmt.Errorf("detect: invalid time resolution %v", timeRes)
	}

	d, ok := data.(*mat.Dense)
	if !ok {
		d = mat.DenseCopyOf(data)
	}
	rows, cols := d.Dims()

	out := make([]Record, 0, len(cands))
	for _, c := range cands {
		c0 := max(int(c.Time/timeRes), 0)
		c1 := min(int((c.Time+f.cfg.window)/timeRes), cols)
		if c0 >= c1 {
			continue
		}

		rec, err := f.fit(d.Slice(0, rows, c0, c1), c, timeRes)
		if err != nil {
			return nil, fmt.Errorf("detect: candidate at %.3f s: %w", c.Time, err)
		}
		rec.StartFreq = lowerKHz * 1e3
		rec.EndFreq = upperKHz * 1e3
		out = append(out, rec)
	}
	return out, nil
}

func (f *Fitter) fit(window mat.Matrix, c Candidate, timeRes float64) (Record, error) {
	var (
		profile []Peak
		err     error
	)

	switch f.cfg.strategy {
	case SearchBucketed:
		profile, err = f.searchBucketed(window)
	default:
		profile, err = f.evaluate(window, span(f.cfg.d0Min, f.cfg.d0Max))
	}
	if err != nil {
		return Record{}, err
	}

	best, ok := argmax(profile)
	if !ok {
		return Record{}, fmt.Errorf("%w: [%d, %d]", ErrNoKernel, f.cfg.d0Min, f.cfg.d0Max)
	}

	k, err := f.model.Kernel(best.D0)
	if err != nil {
		return Record{}, err
	}

	return Record{
		StartTime: core.RoundTo(c.Time, f.cfg.decimals),
		EndTime:   core.RoundTo(c.Time+k.Duration(timeRes), f.cfg.decimals),
		D0:        best.D0,
		Score:     c.Score,
		Profile:   profile,
		Strategy:  f.cfg.strategy,
	}, nil
}

func (f *Fitter) searchBucketed(window mat.Matrix) ([]Peak, error) {
	buckets := Buckets(f.cfg.d0Min, f.cfg.d0Max, f.cfg.buckets)

	mids := make([]int, len(buckets))
	for i, b := range buckets {
		mids[i] = b.Mid
	}

	probes, err := f.evaluate(window, mids)
	if err != nil {
		return nil, err
	}

	top, ok := argmax(probes)
	if !ok {
		return f.evaluate(window, span(f.cfg.d0Min, f.cfg.d0Max))
	}

	var b Bucket
	for _, cand := range buckets {
		if cand.Mid == top.D0 {
			b = cand
			break
		}
	}

	refine := make([]int, 0, b.Hi-b.Lo)
	for d := b.Lo; d <= b.Hi; d++ {
		if d != b.Mid {
			refine = append(refine, d)
		}
	}

	refined, err := f.evaluate(window, refine)
	if err != nil {
		return nil, err
	}

	all := append(probes, refined...)
	sort.Slice(all, func(i, j int) bool { return all[i].D0 < all[j].D0 })
	return all, nil
}

// evaluate correlates window with the kernel of every D0 in d0s. D0 values
// whose kernel cannot be built are left out of the result.
func (f *Fitter) evaluate(window mat.Matrix, d0s []int) ([]Peak, error) {
	peaks := make([]Peak, len(d0s))
	valid := make([]bool, len(d0s))

	var g errgroup.Group
	g.SetLimit(f.cfg.workers)

	for i, d0 := range d0s {
		g.Go(func() error {
			k, err := f.model.Kernel(d0)
			if err != nil {
				return nil
			}

			corr, err := spectrum.CorrelateValid(window, k.Data)
			if err != nil {
				return fmt.Errorf("D0=%d: %w", d0, err)
			}

			peaks[i] = Peak{D0: d0, Value: floats.Max(corr)}
			valid[i] = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := peaks[:0]
	for i, p := range peaks {
		if valid[i] {
			out = append(out, p)
		}
	}
	return out, nil
}

// argmax returns the first peak with the largest value.
func argmax(profile []Peak) (Peak, bool) {
	if len(profile) == 0 {
		return Peak{}, false
	}

	best := profile[0]
	for _, p := range profile[1:] {
		if p.Value > best.Value {
			best = p
		}
	}
	return best, true
}

func span(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for d := lo; d <= hi; d++ {
		out = append(out, d)
	}
	return out
}
