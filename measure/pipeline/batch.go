package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-whistler/dsp/spectrum"
)

// Status classifies a segment result.
type Status int

const (
	// StatusOK means detection ran; Records may still be empty.
	StatusOK Status = iota
	// StatusEmpty means the segment was too short to analyze.
	StatusEmpty
	// StatusError means detection failed; Err holds the cause.
	StatusError
)

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// SegmentResult is the outcome for one segment.
type SegmentResult struct {
	Segment Segment
	Status  Status
	Result  *Result
	Err     error
	Elapsed time.Duration
}

// Batch runs the pipeline over segments using at most workers goroutines;
// zero or less selects runtime.GOMAXPROCS(0). Results are returned in
// segment order. Segments not started before ctx is done are reported with
// StatusError and the context error.
func (p *Pipeline) Batch(ctx context.Context, segments []Segment, workers int) []SegmentResult {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]SegmentResult, len(segments))

	var g errgroup.Group
	g.SetLimit(workers)

	for i, seg := range segments {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				out[i] = SegmentResult{Segment: seg, Status: StatusError, Err: err}
				return nil
			}

			res := p.runSegment(seg)
			p.metrics.observe(res)
			if res.Status == StatusError {
				p.log.Printf("segment %d at %.1f s: %v", seg.Index, seg.Offset, res.Err)
			}
			out[i] = res
			return nil
		})
	}

	_ = g.Wait()
	return out
}

func (p *Pipeline) runSegment(seg Segment) (res SegmentResult) {
	start := time.Now()
	res.Segment = seg

	defer func() {
		if r := recover(); r != nil {
			res.Status = StatusError
			res.Result = nil
			res.Err = fmt.Errorf("pipeline: panic: %v", r)
		}
		res.Elapsed = time.Since(start)
	}()

	r, err := p.Detect(seg.Signal, seg.SampleRate, seg.Regime)
	switch {
	case errors.Is(err, spectrum.ErrSignalTooShort):
		res.Status = StatusEmpty
	case err != nil:
		res.Status = StatusError
		res.Err = err
	default:
		res.Status = StatusOK
		res.Result = r
	}
	return res
}
