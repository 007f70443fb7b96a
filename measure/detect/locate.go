package detect

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-whistler/dsp/cfar"
	"github.com/cwbudde/algo-whistler/dsp/core"
)

var (
	// ErrEdgeMismatch is returned when a pulse train's rising and falling
	// edges cannot be paired. It indicates a malformed pulse train.
	ErrEdgeMismatch = errors.New("detect: rising and falling edge counts differ")

	// ErrLengthMismatch is returned when correlation and pulses differ in length.
	ErrLengthMismatch = errors.New("detect: correlation and pulse train lengths differ")
)

// Candidate is a localized detection.
type Candidate struct {
	Index int     // correlation sample of the peak
	Time  float64 // seconds from segment start
	Score float64 // 10*log10(corr^2), dB
}

// Edges returns the indices where pulses switch on and off. A rise is the
// first true sample of a pulse; a fall is the first false sample after it.
func Edges(pulses []bool) (rises, falls []int) {
	d := cfar.Diff(cfar.BoolsToFloats(pulses), 2)
	for i, v := range d {
		switch {
		case v > 0.5:
			rises = append(rises, i)
		case v < -0.5:
			falls = append(falls, i)
		}
	}
	return rises, falls
}

// StartingLocations returns one candidate per pulse: the strongest
// correlation sample between its rising and falling edge.
func StartingLocations(corr []float64, pulses []bool, timeRes float64) ([]Candidate, error) {
	if len(corr) != len(pulses) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(corr), len(pulses))
	}

	rises, falls := Edges(pulses)
	if len(rises) != len(falls) {
		return nil, fmt.Errorf("%w: %d rises, %d falls", ErrEdgeMismatch, len(rises), len(falls))
	}

	out := make([]Candidate, 0, len(rises))
	for k, h := range rises {
		l := falls[k]
		if l <= h {
			return nil, fmt.Errorf("%w: fall at %d precedes rise at %d", ErrEdgeMismatch, l, h)
		}

		i := h + floats.MaxIdx(corr[h:l])
		out = append(out, Candidate{
			Index: i,
			Time:  float64(i) * timeRes,
			Score: core.AmplitudeToPowerDB(corr[i]),
		})
	}
	return out, nil
}

// FinalLocations drops candidates scoring below threshold, rounds times to
// the given number of decimals and keeps the highest-scoring candidate per
// rounded time. The result is sorted by time.
func FinalLocations(c []Candidate, threshold float64, decimals int) []Candidate {
	best := make(map[float64]Candidate)
	for _, cand := range c {
		if !(cand.Score >= threshold) {
			continue
		}

		cand.Time = core.RoundTo(cand.Time, decimals)
		if prev, ok := best[cand.Time]; ok && prev.Score >= cand.Score {
			continue
		}
		best[cand.Time] = cand
	}

	out := make([]Candidate, 0, len(best))
	for _, cand := range best {
		out = append(out, cand)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}
