package cfar

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams is returned for inconsistent window or trim settings.
var ErrInvalidParams = errors.New("cfar: invalid parameters")

// Params holds the window layout and design SNR shared by all estimators.
type Params struct {
	N   int     // noise cells on each side of the cell under test
	G   int     // guard cells on each side of the cell under test
	T1  int     // smallest noise cells dropped by TM
	T2  int     // largest noise cells dropped by TM
	XdB float64 // design SNR in dB
}

// DefaultParams returns N=10, G=7, T1=floor(0.3N), T2=floor(0.8N), 8 dB.
func DefaultParams() Params {
	return Params{N: 10, G: 7, T1: 3, T2: 8, XdB: 8}
}

// Validate reports whether p describes a usable window.
func (p Params) Validate() error {
	switch {
	case p.N < 1:
		return fmt.Errorf("%w: N=%d", ErrInvalidParams, p.N)
	case p.G < 0:
		return fmt.Errorf("%w: G=%d", ErrInvalidParams, p.G)
	case p.T1 < 0 || p.T2 < 0 || p.T1+p.T2 >= 2*p.N:
		return fmt.Errorf("%w: trim T1=%d T2=%d leaves no cells of %d", ErrInvalidParams, p.T1, p.T2, 2*p.N)
	case math.IsNaN(p.XdB) || math.IsInf(p.XdB, 0):
		return fmt.Errorf("%w: XdB=%v", ErrInvalidParams, p.XdB)
	}
	return nil
}

// Window returns the sliding window length 2(N+G)+1.
func (p Params) Window() int {
	return 2*(p.N+p.G) + 1
}

// Pfa returns the theoretical false-alarm probability
// (1 / (1 + 10^(X/10) / 2N))^(2N).
func (p Params) Pfa() float64 {
	n2 := float64(2 * p.N)
	return math.Pow(1/(1+math.Pow(10, p.XdB/10)/n2), n2)
}

// Scale returns the threshold multiplier 2N * (Pfa^(-1/2N) - 1).
func (p Params) Scale() float64 {
	n2 := float64(2 * p.N)
	return n2 * (math.Pow(p.Pfa(), -1/n2) - 1)
}
