package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := NewWith(prometheus.NewRegistry())

	m.IncrementCheckOutcome("FACE_MATCH", ResultPassed)
	m.IncrementCheckOutcome("FACE_MATCH", ResultPassed)
	m.IncrementCheckOutcome("LIVENESS", ResultSkipped)
	m.IncrementDecision("APPROVE")
	m.ObserveCheckLatency("FACE_MATCH", 20*time.Millisecond)
	m.ObserveAggregateLatency(50 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CheckOutcome.WithLabelValues("FACE_MATCH", ResultPassed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CheckOutcome.WithLabelValues("LIVENESS", ResultSkipped)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decisions.WithLabelValues("APPROVE")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CheckLatency))
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementCheckOutcome("OCR_ID", ResultError)
		m.IncrementDecision("REJECT")
		m.ObserveCheckLatency("OCR_ID", time.Second)
		m.ObserveAggregateLatency(time.Second)
	})
}
