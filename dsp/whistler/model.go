package whistler

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-whistler/dsp/core"
)

const (
	// DefaultAn is the normalized equatorial electron gyrofrequency used
	// when none is configured.
	DefaultAn = 0.35

	defaultSamples   = 1000
	defaultMaxPixels = 1 << 22
)

var (
	// ErrNonFiniteTrace is returned when the dispersion curve contains NaN or
	// Inf samples, typically near the singular denominator at f = fn/An.
	ErrNonFiniteTrace = errors.New("whistler: non-finite dispersion trace")

	// ErrKernelTooLarge is returned when a kernel would exceed the configured
	// pixel budget.
	ErrKernelTooLarge = errors.New("whistler: kernel exceeds pixel budget")

	// ErrInvalidD0 is returned for non-positive dispersion values.
	ErrInvalidD0 = errors.New("whistler: D0 must be positive")

	// ErrInvalidBand is returned by New for inconsistent band parameters.
	ErrInvalidBand = errors.New("whistler: invalid band")
)

// Band holds the pixel grid and frequency band a model renders into.
type Band struct {
	TimeRes    float64 // seconds per column
	FreqResKHz float64 // kHz per row
	LowHz      float64
	HighHz     float64
	NoseHz     float64
}

// Validate reports whether the band can produce kernels.
func (b Band) Validate() error {
	switch {
	case !(b.TimeRes > 0) || math.IsInf(b.TimeRes, 0):
		return fmt.Errorf("%w: time resolution %v", ErrInvalidBand, b.TimeRes)
	case !(b.FreqResKHz > 0) || math.IsInf(b.FreqResKHz, 0):
		return fmt.Errorf("%w: frequency resolution %v", ErrInvalidBand, b.FreqResKHz)
	case !(b.LowHz > 0) || !(b.HighHz > b.LowHz):
		return fmt.Errorf("%w: band [%v, %v] Hz", ErrInvalidBand, b.LowHz, b.HighHz)
	case !(b.NoseHz > 0):
		return fmt.Errorf("%w: nose frequency %v", ErrInvalidBand, b.NoseHz)
	}
	return nil
}

// Option configures a Model.
type Option func(*config)

type config struct {
	an        float64
	magnitude float64
	samples   int
	maxPixels int
}

func defaultConfig() config {
	return config{
		an:        DefaultAn,
		magnitude: 1,
		samples:   defaultSamples,
		maxPixels: defaultMaxPixels,
	}
}

// WithAn sets the normalized gyrofrequency. Values outside [0, 1) are ignored.
func WithAn(an float64) Option {
	return func(c *config) {
		if an >= 0 && an < 1 {
			c.an = an
		}
	}
}

// WithMagnitude sets the value written into lit kernel pixels.
func WithMagnitude(v float64) Option {
	return func(c *config) {
		if v > 0 && !math.IsInf(v, 0) {
			c.magnitude = v
		}
	}
}

// WithSamples sets how many frequencies the curve is sampled at.
func WithSamples(n int) Option {
	return func(c *config) {
		if n >= 2 {
			c.samples = n
		}
	}
}

// WithMaxPixels bounds rows*cols of a rendered kernel.
func WithMaxPixels(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxPixels = n
		}
	}
}

// Model renders and caches whistler kernels for one band.
type Model struct {
	band  Band
	cfg   config
	freqs []float64 // Hz, linearly spaced over the band

	mu       sync.RWMutex
	cache    map[int]*Kernel
	failed   map[int]error
	warnings []string
}

// New returns a model for band.
func New(band Band, opts ...Option) (*Model, error) {
	if err := band.Validate(); err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	freqs := make([]float64, cfg.samples)
	floats.Span(freqs, band.LowHz, band.HighHz)
	freqs[len(freqs)-1] = band.HighHz

	return &Model{
		band:   band,
		cfg:    cfg,
		freqs:  freqs,
		cache:  make(map[int]*Kernel),
		failed: make(map[int]error),
	}, nil
}

// Band returns the band the model renders into.
func (m *Model) Band() Band { return m.band }

// An returns the configured normalized gyrofrequency.
func (m *Model) An() float64 { return m.cfg.an }

// Freqs returns a copy of the sampled frequencies in Hz.
func (m *Model) Freqs() []float64 {
	out := make([]float64, len(m.freqs))
	copy(out, m.freqs)
	return out
}

// DispersionTime evaluates the travel time of frequency f (Hz).
func DispersionTime(f, an, d0, noseHz float64) float64 {
	r := f / noseHz
	return d0 / ((1 + an) * math.Sqrt(f)) * ((1 + an) - (3*an-1)*r) / (1 - an*r)
}

// Trace evaluates the dispersion curve at every sampled frequency.
func (m *Model) Trace(an, d0 float64) []float64 {
	t := make([]float64, len(m.freqs))
	for i, f := range m.freqs {
		t[i] = DispersionTime(f, an, d0, m.band.NoseHz)
	}
	return t
}

// Kernel returns the kernel for d0, rendering it on first use. Repeated calls
// return the same *Kernel. Failures are remembered, so a bad d0 is reported
// once in [Model.Warnings] and fails fast afterwards.
func (m *Model) Kernel(d0 int) (*Kernel, error) {
	m.mu.RLock()
	k, ok := m.cache[d0]
	err, failed := m.failed[d0]
	m.mu.RUnlock()

	if ok {
		return k, nil
	}
	if failed {
		return nil, err
	}

	built, err := m.render(d0)

	m.mu.Lock()
	defer m.mu.Unlock()

	if k, ok := m.cache[d0]; ok {
		return k, nil
	}
	if err != nil {
		if prev, seen := m.failed[d0]; seen {
			return nil, prev
		}
		m.failed[d0] = err
		m.warnings = append(m.warnings, err.Error())
		return nil, err
	}

	m.cache[d0] = built
	return built, nil
}

// Precompute renders every kernel in [lo, hi]. Kernels that fail are skipped
// and their errors joined into the result.
func (m *Model) Precompute(lo, hi int) error {
	if lo > hi {
		lo, hi = hi, lo
	}

	var errs []error
	for d := lo; d <= hi; d++ {
		if _, err := m.Kernel(d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Cached returns the number of kernels held by the cache.
func (m *Model) Cached() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}

// CachedD0 returns the cached D0 values in ascending order.
func (m *Model) CachedD0() []int {
	m.mu.RLock()
	out := make([]int, 0, len(m.cache))
	for d := range m.cache {
		out = append(out, d)
	}
	m.mu.RUnlock()

	sort.Ints(out)
	return out
}

// Warnings returns the render failures recorded so far.
func (m *Model) Warnings() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.warnings))
	copy(out, m.warnings)
	return out
}

func (m *Model) render(d0 int) (*Kernel, error) {
	if d0 <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidD0, d0)
	}

	t := m.Trace(m.cfg.an, float64(d0))
	if ok, idx := core.AllFinite(t); !ok {
		return nil, fmt.Errorf("%w: D0=%d at %.1f Hz", ErrNonFiniteTrace, d0, m.freqs[idx])
	}

	tMin := floats.Min(t)
	fMin := m.freqs[0]

	cols := int((floats.Max(t)-tMin)/m.band.TimeRes) + 1
	rows := int((m.freqs[len(m.freqs)-1]-fMin)*1e-3/m.band.FreqResKHz) + 1
	if cols <= 0 || rows <= 0 || rows > m.cfg.maxPixels/cols {
		return nil, fmt.Errorf("%w: D0=%d needs %dx%d", ErrKernelTooLarge, d0, rows, cols)
	}

	data := mat.NewDense(rows, cols, nil)
	for i, f := range m.freqs {
		c := int((t[i] - tMin) / m.band.TimeRes)
		r := int((f - fMin) * 1e-3 / m.band.FreqResKHz)
		data.Set(r, c, m.cfg.magnitude)
	}

	return &Kernel{D0: d0, Data: data}, nil
}
