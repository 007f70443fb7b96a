package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/cwbudde/algo-whistler/internal/testutil"
	"github.com/cwbudde/algo-whistler/measure/detect"
)

const batchRate = 25600

func batchSegments(t *testing.T) []Segment {
	t.Helper()

	regime, err := DefaultRegimes().Lookup(2)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	segs := Split(testutil.DeterministicNoise(3, 1, 2*batchRate), batchRate, 1)
	for i := range segs {
		segs[i].Regime = regime
	}

	short := Segment{Index: len(segs), Signal: make([]float64, 100), SampleRate: batchRate, Regime: regime}
	broken := Segment{Index: len(segs) + 1, Signal: make([]float64, batchRate), SampleRate: batchRate}

	return append(segs, short, broken)
}

func batchPipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	cfg := DefaultConfig()
	cfg.RegimeRange = true
	cfg.Strategy = detect.SearchBucketed
	p, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func TestBatchStatuses(t *testing.T) {
	segs := batchSegments(t)
	res := batchPipeline(t).Batch(context.Background(), segs, 2)

	if len(res) != len(segs) {
		t.Fatalf("got %d results, want %d", len(res), len(segs))
	}

	want := []Status{StatusOK, StatusOK, StatusEmpty, StatusError}
	for i, r := range res {
		if r.Status != want[i] {
			t.Fatalf("segment %d: status %v (err %v), want %v", i, r.Status, r.Err, want[i])
		}
		if r.Segment.Index != segs[i].Index {
			t.Fatalf("result %d belongs to segment %d", i, r.Segment.Index)
		}
	}

	if res[0].Result == nil || res[1].Result == nil {
		t.Fatal("ok segments carry no result")
	}
	if res[2].Result != nil || res[2].Err != nil {
		t.Fatalf("empty segment: result %v, err %v", res[2].Result, res[2].Err)
	}
	if res[3].Err == nil {
		t.Fatal("error segment carries no error")
	}
}

func TestBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	segs := batchSegments(t)
	for i, r := range batchPipeline(t).Batch(ctx, segs, 1) {
		if r.Status != StatusError || !errors.Is(r.Err, context.Canceled) {
			t.Fatalf("segment %d: status %v, err %v", i, r.Status, r.Err)
		}
	}
}

func TestRunSegmentRecoversPanic(t *testing.T) {
	// Without New there is no logger; the first log line panics.
	p := &Pipeline{cfg: batchPipeline(t).cfg}

	r := p.runSegment(batchSegments(t)[0])
	if r.Status != StatusError || r.Err == nil || r.Result != nil {
		t.Fatalf("status %v, err %v", r.Status, r.Err)
	}
	if r.Elapsed <= 0 {
		t.Fatalf("Elapsed = %v", r.Elapsed)
	}
}

func TestBatchMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := batchPipeline(t, WithMetrics(NewMetrics(reg)))

	p.Batch(context.Background(), batchSegments(t), 0)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	counts := statusCounts(families)
	if counts["ok"] != 2 || counts["empty"] != 1 || counts["error"] != 1 {
		t.Fatalf("status counts = %v", counts)
	}

	var sawHistogram bool
	for _, f := range families {
		if f.GetName() == "awds_segment_duration_seconds" {
			sawHistogram = f.GetMetric()[0].GetHistogram().GetSampleCount() == 4
		}
	}
	if !sawHistogram {
		t.Fatal("duration histogram missing or incomplete")
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.observe(SegmentResult{Status: StatusOK})
}

func TestStatusString(t *testing.T) {
	tests := map[Status]string{
		StatusOK:    "ok",
		StatusEmpty: "empty",
		StatusError: "error",
		Status(9):   "Status(9)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Fatalf("String() = %q, want %q", got, want)
		}
	}
}

func statusCounts(families []*dto.MetricFamily) map[string]float64 {
	out := make(map[string]float64)
	for _, f := range families {
		if f.GetName() != "awds_segments_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "status" {
					out[l.GetValue()] = m.GetCounter().GetValue()
				}
			}
		}
	}
	return out
}
