package cfar

import (
	"testing"

	"github.com/cwbudde/algo-whistler/internal/testutil"
)

func TestRolling(t *testing.T) {
	got := Rolling([]float64{1, 2, 3}, 4)
	want := [][]float64{
		{1, 1, 1, 2},
		{1, 1, 2, 3},
		{1, 2, 3, 3},
	}

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		testutil.RequireSliceNearlyEqual(t, got[i], want[i], 0)
	}
}

func TestRollingShape(t *testing.T) {
	signal := testutil.DeterministicNoise(3, 1, 100)
	for _, w := range []int{1, 2, 35, 150} {
		windows := Rolling(signal, w)
		if len(windows) != len(signal) {
			t.Fatalf("window %d: %d windows, want %d", w, len(windows), len(signal))
		}
		for i, win := range windows {
			if len(win) != w {
				t.Fatalf("window %d: len(windows[%d]) = %d", w, i, len(win))
			}
		}
	}

	if Rolling(nil, 3) != nil {
		t.Fatalf("expected nil for empty signal")
	}
}

func TestDiff(t *testing.T) {
	got := Diff([]float64{0, 0, 1, 1, 0}, 2)
	testutil.RequireSliceNearlyEqual(t, got, []float64{0, 0, 1, 0, -1}, 0)

	got = Diff([]float64{1, 2, 4, 8}, 4)
	// Windows: [1 1 1 2] [1 1 2 4] [1 2 4 8] [2 4 8 8].
	testutil.RequireSliceNearlyEqual(t, got, []float64{0.5, 2, 4.5, 5}, 1e-12)

	if Diff([]float64{1, 2}, 1) != nil {
		t.Fatalf("expected nil for window < 2")
	}
}

func TestBoolsToFloats(t *testing.T) {
	got := BoolsToFloats([]bool{false, true, true, false})
	testutil.RequireSliceNearlyEqual(t, got, []float64{0, 1, 1, 0}, 0)
}
