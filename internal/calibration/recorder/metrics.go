package recorder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drop reasons.
const (
	DropQueueFull   = "queue_full"
	DropCircuitOpen = "circuit_open"
)

// Metrics holds Prometheus metrics for calibration record persistence.
type Metrics struct {
	Written      prometheus.Counter
	Dropped      *prometheus.CounterVec
	Failed       prometheus.Counter
	BreakerState prometheus.Gauge
}

// NewMetrics registers the metrics with the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Written: f.NewCounter(prometheus.CounterOpts{
			Name: "verigate_calibration_records_written_total",
			Help: "Total number of calibration records persisted",
		}),
		Dropped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "verigate_calibration_records_dropped_total",
			Help: "Total number of calibration records dropped before persistence",
		}, []string{"reason"}),
		Failed: f.NewCounter(prometheus.CounterOpts{
			Name: "verigate_calibration_records_failed_total",
			Help: "Total number of calibration record persistence failures",
		}),
		BreakerState: f.NewGauge(prometheus.GaugeOpts{
			Name: "verigate_calibration_circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed/healthy, 1=open/unhealthy)",
		}),
	}
}

func (m *Metrics) incWritten() {
	if m == nil {
		return
	}
	m.Written.Inc()
}

func (m *Metrics) incDropped(reason string) {
	if m == nil {
		return
	}
	m.Dropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) incFailed() {
	if m == nil {
		return
	}
	m.Failed.Inc()
}

func (m *Metrics) setBreakerState(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerState.Set(1)
	} else {
		m.BreakerState.Set(0)
	}
}
