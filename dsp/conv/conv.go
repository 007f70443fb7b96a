package conv

import "errors"

// Errors returned by correlation functions.
var (
	ErrEmptyInput     = errors.New("conv: empty input")
	ErrEmptyKernel    = errors.New("conv: empty kernel")
	ErrKernelTooLarge = errors.New("conv: kernel larger than data in valid mode")
)

// Mode specifies the output mode for correlation.
type Mode int

const (
	// ModeFull returns the full correlation result with length len(a)+len(b)-1.
	ModeFull Mode = iota

	// ModeSame returns output with the same length as the first input.
	ModeSame

	// ModeValid returns only the portion where signals fully overlap,
	// with length max(len(a), len(b)) - min(len(a), len(b)) + 1.
	ModeValid
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeSame:
		return "same"
	case ModeValid:
		return "valid"
	default:
		return "unknown"
	}
}

// modeRange returns the offset and length of the mode's window inside a full
// result produced from inputs of length lenA and lenB.
func modeRange(lenA, lenB int, mode Mode) (start, n int) {
	switch mode {
	case ModeSame:
		return (lenB - 1) / 2, lenA
	case ModeValid:
		if lenA >= lenB {
			return lenB - 1, lenA - lenB + 1
		}
		return lenA - 1, lenB - lenA + 1
	default:
		return 0, lenA + lenB - 1
	}
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
