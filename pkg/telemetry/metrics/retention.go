package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RetentionMetrics tracks metrics related to retention sweeps.
//
// Metrics:
//   - sigwatch_kestrel_retention_deletes_total: Deleted artifacts by category and tier
type RetentionMetrics struct {
	deletesTotal *prometheus.CounterVec
}

// NewRetentionMetrics creates and registers retention metrics with the provided registry.
func NewRetentionMetrics(cfg *Config, registry *prometheus.Registry) *RetentionMetrics {
	rm := &RetentionMetrics{
		deletesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "retention_deletes_total",
				Help:      "Total number of artifacts deleted by retention sweeps",
			},
			[]string{"category", "tier"},
		),
	}

	registry.MustRegister(rm.deletesTotal)

	return rm
}

// RecordDeletes adds the number of deletions from one sweep.
func (rm *RetentionMetrics) RecordDeletes(category, tier string, count int64) {
	if count > 0 {
		rm.deletesTotal.WithLabelValues(category, tier).Add(float64(count))
	}
}
