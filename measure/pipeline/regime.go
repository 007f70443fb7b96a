package pipeline

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNoRegime is returned when a regime table is empty.
var ErrNoRegime = errors.New("pipeline: empty regime table")

// Regime bundles the band and D0 settings for one magnetic-latitude range.
type Regime struct {
	Name   string
	LowHz  float64
	HighHz float64
	NoseHz float64
	D0     int // reference kernel for the correlation pass
	D0Min  int
	D0Max  int
}

// Validate reports whether r is usable.
func (r Regime) Validate() error {
	switch {
	case !(r.LowHz > 0) || !(r.HighHz > r.LowHz):
		return fmt.Errorf("pipeline: regime %q: band [%v, %v] Hz", r.Name, r.LowHz, r.HighHz)
	case !(r.NoseHz > 0):
		return fmt.Errorf("pipeline: regime %q: nose frequency %v", r.Name, r.NoseHz)
	case r.D0 < 1:
		return fmt.Errorf("pipeline: regime %q: D0 %d", r.Name, r.D0)
	case r.D0Min < 1 || r.D0Max < r.D0Min:
		return fmt.Errorf("pipeline: regime %q: D0 range [%d, %d]", r.Name, r.D0Min, r.D0Max)
	}
	return nil
}

// RegimeEntry applies Regime to L values below MaxL.
type RegimeEntry struct {
	MaxL float64
	Regime
}

// RegimeTable maps L-shell values to regimes. Entries are kept sorted by
// MaxL; values beyond the last bound use the last entry.
type RegimeTable []RegimeEntry

// DefaultRegimes returns the table used for the AWDA stations.
func DefaultRegimes() RegimeTable {
	high := Regime{Name: "high", LowHz: 4e3, HighHz: 8e3, NoseHz: 14e3, D0: 65, D0Min: 35, D0Max: 95}
	veryHigh := high
	veryHigh.Name = "very-high"

	return RegimeTable{
		{MaxL: 1.4, Regime: Regime{Name: "low", LowHz: 4.5e3, HighHz: 11.5e3, NoseHz: 75e3, D0: 10, D0Min: 5, D0Max: 20}},
		{MaxL: 2.3, Regime: Regime{Name: "mid", LowHz: 4.5e3, HighHz: 11.5e3, NoseHz: 25e3, D0: 50, D0Min: 20, D0Max: 80}},
		{MaxL: 3.5, Regime: Regime{Name: "higher", LowHz: 4e3, HighHz: 10e3, NoseHz: 20e3, D0: 70, D0Min: 40, D0Max: 100}},
		{MaxL: 4.5, Regime: high},
		{MaxL: math.Inf(1), Regime: veryHigh},
	}
}

// Validate checks every entry and the ordering of the bounds.
func (t RegimeTable) Validate() error {
	if len(t) == 0 {
		return ErrNoRegime
	}
	for i, e := range t {
		if err := e.Regime.Validate(); err != nil {
			return err
		}
		if i > 0 && !(e.MaxL > t[i-1].MaxL) {
			return fmt.Errorf("pipeline: regime bounds not increasing at %q", e.Name)
		}
	}
	return nil
}

// Lookup returns the regime for L. NaN and values above every bound select
// the last entry.
func (t RegimeTable) Lookup(L float64) (Regime, error) {
	if len(t) == 0 {
		return Regime{}, ErrNoRegime
	}
	i := sort.Search(len(t), func(i int) bool { return L < t[i].MaxL })
	if i == len(t) {
		i = len(t) - 1
	}
	return t[i].Regime, nil
}
