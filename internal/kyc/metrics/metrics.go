package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Check results as reported in the outcome counter.
const (
	ResultPassed  = "passed"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
	ResultError   = "error"
)

// Metrics provides observability for the verification pipeline.
type Metrics struct {
	// Detector call latencies by check
	CheckLatency *prometheus.HistogramVec

	// Check outcomes by check and result
	CheckOutcome *prometheus.CounterVec

	// Aggregate decisions by decision
	Decisions *prometheus.CounterVec

	// Overall aggregation latency including all detectors
	AggregateLatency prometheus.Histogram
}

// New creates a new Metrics instance registered with the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics with reg.
func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CheckLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "verigate_kyc_check_duration_seconds",
			Help:    "Duration of detector calls by check",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"check"}), // check: FACE_MATCH, LIVENESS, OCR_ID, DOC_CLASS

		CheckOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "verigate_kyc_check_outcomes_total",
			Help: "Total check outcomes by check and result",
		}, []string{"check", "result"}),

		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "verigate_kyc_decisions_total",
			Help: "Total aggregate decisions by decision",
		}, []string{"decision"}),

		AggregateLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "verigate_kyc_aggregate_duration_seconds",
			Help:    "Duration of full aggregation including every detector",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// ObserveCheckLatency records the duration of one detector call.
func (m *Metrics) ObserveCheckLatency(check string, d time.Duration) {
	if m != nil {
		m.CheckLatency.WithLabelValues(check).Observe(d.Seconds())
	}
}

// IncrementCheckOutcome records a check result.
func (m *Metrics) IncrementCheckOutcome(check, result string) {
	if m != nil {
		m.CheckOutcome.WithLabelValues(check, result).Inc()
	}
}

// IncrementDecision records an aggregate decision.
func (m *Metrics) IncrementDecision(decision string) {
	if m != nil {
		m.Decisions.WithLabelValues(decision).Inc()
	}
}

// ObserveAggregateLatency records the total aggregation duration.
func (m *Metrics) ObserveAggregateLatency(d time.Duration) {
	if m != nil {
		m.AggregateLatency.Observe(d.Seconds())
	}
}
