package pipeline

import "math"

// DefaultSegmentSeconds is the default segment length.
const DefaultSegmentSeconds = 10

// Segment is a contiguous slice of a recording.
type Segment struct {
	Index      int
	Offset     float64 // seconds from the start of the recording
	Signal     []float64
	SampleRate float64
	Regime     Regime
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	if !(s.SampleRate > 0) {
		return 0
	}
	return float64(len(s.Signal)) / s.SampleRate
}

// Split cuts signal into consecutive segments of the given length. The last
// segment holds the remainder and may be shorter. Segments share memory
// with signal. A non-positive length or sample rate returns nil.
func Split(signal []float64, sampleRate, seconds float64) []Segment {
	if !(sampleRate > 0) || !(seconds > 0) || math.IsInf(seconds*sampleRate, 0) {
		return nil
	}

	n := int(math.Round(seconds * sampleRate))
	if n < 1 {
		return nil
	}

	out := make([]Segment, 0, (len(signal)+n-1)/n)
	for i := 0; i < len(signal); i += n {
		end := min(i+n, len(signal))
		out = append(out, Segment{
			Index:      len(out),
			Offset:     float64(i) / sampleRate,
			Signal:     signal[i:end:end],
			SampleRate: sampleRate,
		})
	}
	return out
}
