package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OperationMetrics records commit and reconciliation outcomes.
type OperationMetrics struct {
	committed    *prometheus.CounterVec
	reconciled   *prometheus.CounterVec
	chainLatency *prometheus.HistogramVec
}

// NewOperationMetrics registers the operation metrics on the provided registerer.
func NewOperationMetrics(reg prometheus.Registerer) *OperationMetrics {
	if reg == nil {
		return &OperationMetrics{}
	}
	committed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "operations_committed_total",
		Help: "Committed stock operations by type.",
	}, []string{"type"})
	reconciled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "operations_reconciled_total",
		Help: "External ledger reconciliation attempts by outcome.",
	}, []string{"outcome"})
	chainLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chain_call_duration_seconds",
		Help:    "Duration of external ledger calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	reg.MustRegister(committed, reconciled, chainLatency)
	return &OperationMetrics{
		committed:    committed,
		reconciled:   reconciled,
		chainLatency: chainLatency,
	}
}

// IncCommitted increments the committed counter for the operation type.
func (m *OperationMetrics) IncCommitted(opType string) {
	if m == nil || m.committed == nil {
		return
	}
	m.committed.WithLabelValues(normalizeLabel(opType)).Inc()
}

// IncReconciled increments the reconciliation counter for the outcome.
func (m *OperationMetrics) IncReconciled(outcome string) {
	if m == nil || m.reconciled == nil {
		return
	}
	m.reconciled.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveChainCall records the duration of one external ledger call.
func (m *OperationMetrics) ObserveChainCall(method string, duration time.Duration) {
	if m == nil || m.chainLatency == nil {
		return
	}
	m.chainLatency.WithLabelValues(normalizeLabel(method)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
