package detect

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-whistler/dsp/cfar"
	"github.com/cwbudde/algo-whistler/internal/testutil"
)

func TestEdges(t *testing.T) {
	rises, falls := Edges([]bool{false, true, true, false, true, false})

	if len(rises) != 2 || rises[0] != 1 || rises[1] != 4 {
		t.Fatalf("rises = %v, want [1 4]", rises)
	}
	if len(falls) != 2 || falls[0] != 3 || falls[1] != 5 {
		t.Fatalf("falls = %v, want [3 5]", falls)
	}
}

func TestStartingLocations(t *testing.T) {
	corr := []float64{0, 1, 5, 2, 0, 3, 0}
	pulses := []bool{false, true, true, true, false, true, false}

	got, err := StartingLocations(corr, pulses, 0.5)
	if err != nil {
		t.Fatalf("StartingLocations failed: %v", err)
	}

	want := []Candidate{
		{Index: 2, Time: 1.0, Score: 10 * math.Log10(25)},
		{Index: 5, Time: 2.5, Score: 10 * math.Log10(9)},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Index != want[i].Index || got[i].Time != want[i].Time ||
			math.Abs(got[i].Score-want[i].Score) > 1e-12 {
			t.Fatalf("candidate %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestStartingLocationsEdgeMismatch(t *testing.T) {
	corr := []float64{0, 1, 2}
	pulses := []bool{false, true, true}

	if _, err := StartingLocations(corr, pulses, 1); !errors.Is(err, ErrEdgeMismatch) {
		t.Fatalf("expected ErrEdgeMismatch, got %v", err)
	}
}

func TestStartingLocationsLengthMismatch(t *testing.T) {
	if _, err := StartingLocations([]float64{1, 2}, []bool{false}, 1); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestStartingLocationsAllZero(t *testing.T) {
	corr := make([]float64, 100)

	pulses, err := cfar.Pulse(corr, cfar.MethodFusion, cfar.DefaultParams())
	if err != nil {
		t.Fatalf("Pulse failed: %v", err)
	}

	got, err := StartingLocations(corr, pulses, 0.01)
	if err != nil {
		t.Fatalf("StartingLocations failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d candidates, want 0", len(got))
	}
}

func TestStartingLocationsFromPulses(t *testing.T) {
	// Forced-false edges guarantee that every rise has a matching fall.
	for seed := int64(1); seed <= 10; seed++ {
		corr := testutil.DeterministicNoise(seed, 1, 300)
		for i := 20; i < len(corr); i += 41 {
			corr[i] = 9
		}

		for _, m := range []cfar.Method{cfar.MethodCA, cfar.MethodOS, cfar.MethodTM, cfar.MethodFusion} {
			pulses, err := cfar.Pulse(corr, m, cfar.DefaultParams())
			if err != nil {
				t.Fatalf("Pulse failed: %v", err)
			}

			cands, err := StartingLocations(corr, pulses, 0.01)
			if err != nil {
				t.Fatalf("seed %d, %v: %v", seed, m, err)
			}
			for _, c := range cands {
				if !pulses[c.Index] {
					t.Fatalf("seed %d, %v: candidate %d outside a pulse", seed, m, c.Index)
				}
			}
		}
	}
}

func TestFinalLocations(t *testing.T) {
	cands := []Candidate{
		{Index: 12, Time: 0.26, Score: 3},
		{Index: 1, Time: 0.12, Score: 5},
		{Index: 2, Time: 0.14, Score: 7},
		{Index: 3, Time: 0.31, Score: -1},
	}

	got := FinalLocations(cands, 0, 1)
	want := []Candidate{
		{Index: 2, Time: 0.1, Score: 7},
		{Index: 12, Time: 0.3, Score: 3},
	}

	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	again := FinalLocations(got, 0, 1)
	if len(again) != len(got) {
		t.Fatalf("FinalLocations not idempotent: %v vs %v", again, got)
	}
	for i := range got {
		if again[i] != got[i] {
			t.Fatalf("FinalLocations not idempotent at %d: %+v vs %+v", i, again[i], got[i])
		}
	}
}

func TestFinalLocationsThresholdAndDecimals(t *testing.T) {
	cands := []Candidate{
		{Time: 1.234, Score: 10},
		{Time: 1.236, Score: 20},
		{Time: 2.000, Score: math.Inf(-1)},
		{Time: 3.000, Score: math.NaN()},
	}

	got := FinalLocations(cands, 15, 2)
	if len(got) != 1 || got[0].Time != 1.24 || got[0].Score != 20 {
		t.Fatalf("got %+v, want single candidate at 1.24 with score 20", got)
	}

	if got := FinalLocations(nil, 0, 1); len(got) != 0 {
		t.Fatalf("got %v, want none", got)
	}
}

func TestFinalLocationsRoundsTiesToEven(t *testing.T) {
	const tres = 1.0 / 128

	cands := []Candidate{
		{Index: 32, Time: 32 * tres, Score: 5}, // 0.25 s
		{Index: 96, Time: 96 * tres, Score: 5}, // 0.75 s
	}

	got := FinalLocations(cands, 0, 1)
	if len(got) != 2 || got[0].Time != 0.2 || got[1].Time != 0.8 {
		t.Fatalf("got %+v, want times 0.2 and 0.8", got)
	}
}
