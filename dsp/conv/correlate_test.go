package conv

import (
	"math"
	"testing"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-whistler/internal/testutil"
)

func TestCorrelateWithPlan(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want []float64
	}{
		{"identity tap", []float64{1, 2, 3}, []float64{1}, []float64{1, 2, 3}},
		{"short template", []float64{1, 2, 3}, []float64{0, 1}, []float64{1, 2, 3, 0}},
		{"ramp", []float64{1, 2, 3, 4, 5}, []float64{1, 2, 3}, []float64{3, 8, 14, 20, 26, 14, 5}},
		{"longer template", []float64{1, -1}, []float64{2, 0, 1}, []float64{1, -1, 2, -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size := nextPowerOf2(len(tt.a) + len(tt.b) - 1)
			plan, err := algofft.NewPlan64(size)
			if err != nil {
				t.Fatalf("NewPlan64 failed: %v", err)
			}

			got, err := correlateWithPlan(plan, size, tt.a, tt.b)
			if err != nil {
				t.Fatalf("correlateWithPlan failed: %v", err)
			}
			testutil.RequireSliceNearlyEqual(t, got, tt.want, 1e-9)
		})
	}
}

func TestCorrelateWithPlanAutoPeakAtZeroLag(t *testing.T) {
	const n = 256

	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Cos(2 * math.Pi * float64(i) / 32)
	}

	size := nextPowerOf2(2*n - 1)
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		t.Fatalf("NewPlan64 failed: %v", err)
	}

	got, err := correlateWithPlan(plan, size, signal, signal)
	if err != nil {
		t.Fatalf("correlateWithPlan failed: %v", err)
	}

	peak := 0
	for i, v := range got {
		if v > got[peak] {
			peak = i
		}
	}
	if lag := peak - (n - 1); lag != 0 {
		t.Fatalf("autocorrelation peak at lag %d, want 0", lag)
	}
}

func TestModeRange(t *testing.T) {
	tests := []struct {
		name       string
		lenA, lenB int
		mode       Mode
		start, n   int
	}{
		{"full", 5, 3, ModeFull, 0, 7},
		{"same", 5, 3, ModeSame, 1, 5},
		{"valid", 5, 3, ModeValid, 2, 3},
		{"valid swapped", 3, 5, ModeValid, 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, n := modeRange(tt.lenA, tt.lenB, tt.mode)
			if start != tt.start || n != tt.n {
				t.Fatalf("modeRange = (%d, %d), want (%d, %d)", start, n, tt.start, tt.n)
			}
		})
	}
}

func TestModeString(t *testing.T) {
	for m, want := range map[Mode]string{ModeFull: "full", ModeSame: "same", ModeValid: "valid", Mode(9): "unknown"} {
		if got := m.String(); got != want {
			t.Fatalf("Mode(%d).String() = %q, want %q", int(m), got, want)
		}
	}
}

func TestNextPowerOf2(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{1, 1},
		{2, 2},
		{3, 4},
		{9, 16},
		{100, 128},
	}

	for _, tt := range tests {
		if got := nextPowerOf2(tt.input); got != tt.expected {
			t.Errorf("nextPowerOf2(%d) = %d, expected %d", tt.input, got, tt.expected)
		}
	}
}

func denseEqual(t *testing.T, got, want *mat.Dense, eps float64) {
	t.Helper()
	if !mat.EqualApprox(got, want, eps) {
		t.Fatalf("matrix mismatch:\n got %v\nwant %v", mat.Formatted(got), mat.Formatted(want))
	}
}
