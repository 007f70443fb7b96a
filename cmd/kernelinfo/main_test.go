package main

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-whistler/measure/pipeline"
)

func TestResolveRegime(t *testing.T) {
	table := pipeline.DefaultRegimes()

	r, err := resolveRegime(table, "", 3)
	if err != nil || r.Name != "higher" {
		t.Fatalf("resolveRegime(L=3) = %q, %v", r.Name, err)
	}

	r, err = resolveRegime(table, " LOW ", 3)
	if err != nil || r.Name != "low" {
		t.Fatalf("resolveRegime(low) = %q, %v", r.Name, err)
	}

	if _, err := resolveRegime(table, "polar", 3); err == nil {
		t.Fatal("expected error for unknown regime")
	}
}

func TestParseD0(t *testing.T) {
	r := pipeline.Regime{D0: 50, D0Min: 20, D0Max: 80}

	got, err := parseD0(nil, r)
	if err != nil || len(got) != 3 || got[0] != 20 || got[1] != 50 || got[2] != 80 {
		t.Fatalf("parseD0(nil) = %v, %v", got, err)
	}

	got, err = parseD0([]string{"5", " 7"}, r)
	if err != nil || len(got) != 2 || got[1] != 7 {
		t.Fatalf("parseD0 = %v, %v", got, err)
	}

	if _, err := parseD0([]string{"x"}, r); err == nil {
		t.Fatal("expected error")
	}
}

func TestGridBand(t *testing.T) {
	r := pipeline.Regime{LowHz: 4000, HighHz: 10000, NoseHz: 20000}
	b := gridBand(r, 25600, 256, 2)

	if math.Abs(b.TimeRes-0.02) > 1e-12 {
		t.Fatalf("TimeRes = %v, want 0.02", b.TimeRes)
	}
	if math.Abs(b.FreqResKHz-12.8/129) > 1e-12 {
		t.Fatalf("FreqResKHz = %v, want %v", b.FreqResKHz, 12.8/129)
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}
