package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exports batch progress as Prometheus collectors. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	segments   *prometheus.CounterVec
	detections prometheus.Counter
	kernels    prometheus.Gauge
	duration   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		segments: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "awds_segments_total",
				Help: "Segments processed, by result status",
			},
			[]string{"status"},
		),
		detections: f.NewCounter(
			prometheus.CounterOpts{
				Name: "awds_detections_total",
				Help: "Fitted whistler detections",
			},
		),
		kernels: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "awds_kernel_cache_size",
				Help: "Kernels rendered for the most recently finished segment",
			},
		),
		duration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "awds_segment_duration_seconds",
				Help:    "Wall time spent on one segment",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
	}
}

func (m *Metrics) observe(r SegmentResult) {
	if m == nil {
		return
	}

	m.segments.WithLabelValues(r.Status.String()).Inc()
	m.duration.Observe(r.Elapsed.Seconds())
	if r.Result != nil {
		m.detections.Add(float64(len(r.Result.Records)))
		m.kernels.Set(float64(r.Result.Kernels))
	}
}
