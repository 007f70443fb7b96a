package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"

	"github.com/cwbudde/algo-whistler/measure/pipeline"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type detection struct {
	Segment   int     `json:"segment"`
	StartTime float64 `json:"start_s"`
	EndTime   float64 `json:"end_s"`
	StartFreq float64 `json:"start_hz"`
	EndFreq   float64 `json:"end_hz"`
	D0        int     `json:"d0"`
	Score     float64 `json:"score_db"`
	Strategy  string  `json:"strategy"`
}

type fileReport struct {
	Source     string         `json:"source"`
	Samples    int            `json:"samples"`
	Segments   map[string]int `json:"segments"`
	Detections []detection    `json:"detections"`
	Errors     []string       `json:"errors,omitempty"`
}

func newFileReport(source string, samples int, results []pipeline.SegmentResult) fileReport {
	rep := fileReport{
		Source:     source,
		Samples:    samples,
		Segments:   make(map[string]int),
		Detections: []detection{},
	}

	for _, r := range results {
		rep.Segments[r.Status.String()]++
		if r.Err != nil {
			rep.Errors = append(rep.Errors, fmt.Sprintf("segment %d: %v", r.Segment.Index, r.Err))
		}
		if r.Result == nil {
			continue
		}
		for _, rec := range r.Result.Records {
			rep.Detections = append(rep.Detections, detection{
				Segment:   r.Segment.Index,
				StartTime: r.Segment.Offset + rec.StartTime,
				EndTime:   r.Segment.Offset + rec.EndTime,
				StartFreq: rec.StartFreq,
				EndFreq:   rec.EndFreq,
				D0:        rec.D0,
				Score:     rec.Score,
				Strategy:  rec.Strategy.String(),
			})
		}
	}
	return rep
}

func humanizeCount(n int) string {
	return humanize.Comma(int64(n))
}

func writeJSON(w io.Writer, reports []fileReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

func writeTable(w io.Writer, reports []fileReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Source\tSeg\tStart [s]\tEnd [s]\tBand [kHz]\tD0\tScore [dB]\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "------\t---\t---------\t-------\t----------\t--\t----------\n"); err != nil {
		return err
	}

	for _, rep := range reports {
		for _, d := range rep.Detections {
			if _, err := fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.1f-%.1f\t%d\t%.1f\n",
				rep.Source,
				d.Segment,
				d.StartTime,
				d.EndTime,
				d.StartFreq/1e3,
				d.EndFreq/1e3,
				d.D0,
				d.Score,
			); err != nil {
				return err
			}
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, rep := range reports {
		if _, err := fmt.Fprintf(w, "%s: %s samples, %s detections, segments ok=%d empty=%d error=%d\n",
			rep.Source,
			humanizeCount(rep.Samples),
			humanizeCount(len(rep.Detections)),
			rep.Segments["ok"],
			rep.Segments["empty"],
			rep.Segments["error"],
		); err != nil {
			return err
		}
	}
	return nil
}
