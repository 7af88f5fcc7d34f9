package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	decisions      *prometheus.CounterVec
	regimeDistance prometheus.Histogram
	errorsTotal    *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// New creates a Prometheus metrics recorder registered on reg. A nil reg
// means the default registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Recorder{
		decisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_decisions_total",
				Help: "Total number of decisions produced",
			},
			[]string{"mode", "action", "regime"},
		),
		regimeDistance: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "finsight_regime_distance",
				Help:    "Wasserstein distance between current and previous return windows",
				Buckets: []float64{0.005, 0.01, 0.02, 0.04, 0.08, 0.16, 0.32},
			},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finsight_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordDecision counts one decision. regime is empty in simple mode.
func (r *Recorder) RecordDecision(mode, action, regime string) {
	if regime == "" {
		regime = "none"
	}
	r.decisions.WithLabelValues(mode, action, regime).Inc()
}

// RecordRegimeDistance observes a regime distance.
func (r *Recorder) RecordRegimeDistance(d float64) {
	r.regimeDistance.Observe(d)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
