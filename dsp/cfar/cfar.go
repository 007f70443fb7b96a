package cfar

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Detector turns a correlation trace into a pulse train of the same length.
type Detector interface {
	Pulses(trace []float64) []bool
}

// Estimator is a single-statistic detector that also exposes its adaptive
// threshold.
type Estimator interface {
	Detector
	Thresholds(trace []float64) []float64
}

// New returns the detector for method m.
func New(m Method, p Params) (Detector, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	switch m {
	case MethodCA:
		return CA{p: p}, nil
	case MethodOS:
		return OS{p: p}, nil
	case MethodTM:
		return TM{p: p}, nil
	case MethodFusion:
		return Fusion{ca: CA{p: p}, os: OS{p: p}, tm: TM{p: p}}, nil
	default:
		return nil, fmt.Errorf("cfar: invalid method %d", int(m))
	}
}

// Pulse runs method m over trace.
func Pulse(trace []float64, m Method, p Params) ([]bool, error) {
	d, err := New(m, p)
	if err != nil {
		return nil, err
	}
	return d.Pulses(trace), nil
}

// CA is the cell-averaging estimator. The zero value is not usable; build
// one with New or NewCA.
type CA struct{ p Params }

// NewCA returns a cell-averaging estimator.
func NewCA(p Params) (CA, error) {
	if err := p.Validate(); err != nil {
		return CA{}, err
	}
	return CA{p: p}, nil
}

// Thresholds returns scale * mean(noise^2) per cell.
func (d CA) Thresholds(trace []float64) []float64 {
	n2 := float64(2 * d.p.N)
	return thresholds(trace, d.p, func(noise []float64) float64 {
		return floats.Sum(noise) / n2
	})
}

// Pulses implements Detector.
func (d CA) Pulses(trace []float64) []bool { return compare(trace, d.Thresholds(trace)) }

// OS is the ordered-statistic estimator.
type OS struct{ p Params }

// NewOS returns an ordered-statistic estimator.
func NewOS(p Params) (OS, error) {
	if err := p.Validate(); err != nil {
		return OS{}, err
	}
	return OS{p: p}, nil
}

// Thresholds returns scale * the (N-1)-th smallest noise power per cell.
func (d OS) Thresholds(trace []float64) []float64 {
	k := d.p.N - 1
	return thresholds(trace, d.p, func(noise []float64) float64 {
		slices.Sort(noise)
		return noise[k]
	})
}

// Pulses implements Detector.
func (d OS) Pulses(trace []float64) []bool { return compare(trace, d.Thresholds(trace)) }

// TM is the trimmed-mean estimator.
type TM struct{ p Params }

// NewTM returns a trimmed-mean estimator.
func NewTM(p Params) (TM, error) {
	if err := p.Validate(); err != nil {
		return TM{}, err
	}
	return TM{p: p}, nil
}

// Thresholds returns scale * the trimmed mean noise power per cell.
func (d TM) Thresholds(trace []float64) []float64 {
	lo, hi := d.p.T1, 2*d.p.N-d.p.T2
	kept := float64(hi - lo)
	return thresholds(trace, d.p, func(noise []float64) float64 {
		slices.Sort(noise)
		return floats.Sum(noise[lo:hi]) / kept
	})
}

// Pulses implements Detector.
func (d TM) Pulses(trace []float64) []bool { return compare(trace, d.Thresholds(trace)) }

// Fusion votes the three estimators.
type Fusion struct {
	ca CA
	os OS
	tm TM
}

// Pulses implements Detector.
func (d Fusion) Pulses(trace []float64) []bool {
	return Fuse(d.ca.Pulses(trace), d.os.Pulses(trace), d.tm.Pulses(trace))
}

// Fuse combines three pulse trains as (ca and (os or tm)) or (os and tm).
// The result has the length of the shortest input and its edges forced false.
func Fuse(ca, os, tm []bool) []bool {
	n := min(len(ca), len(os), len(tm))
	out := make([]bool, n)
	for i := range out {
		out[i] = (ca[i] && (os[i] || tm[i])) || (os[i] && tm[i])
	}
	clearEdges(out)
	return out
}

// thresholds evaluates stat on the squared noise cells of every window and
// scales the result. stat may reorder its argument.
func thresholds(trace []float64, p Params, stat func(noise []float64) float64) []float64 {
	if len(trace) == 0 {
		return nil
	}

	scale := p.Scale()
	w := p.Window()
	back := p.N + 2*p.G + 1
	noise := make([]float64, 2*p.N)
	padded := pad(trace, w)

	out := make([]float64, len(trace))
	for i := range out {
		win := padded[i : i+w]
		for j := 0; j < p.N; j++ {
			a := win[j]
			b := win[back+j]
			noise[j] = a * a
			noise[p.N+j] = b * b
		}
		out[i] = scale * stat(noise)
	}
	return out
}

// compare marks cells whose power exceeds the threshold.
func compare(trace, thr []float64) []bool {
	out := make([]bool, len(trace))
	for i, v := range trace {
		out[i] = v*v > thr[i]
	}
	clearEdges(out)
	return out
}

func clearEdges(p []bool) {
	if len(p) == 0 {
		return
	}
	p[0] = false
	p[len(p)-1] = false
}
