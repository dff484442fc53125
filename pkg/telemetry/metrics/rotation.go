package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RotationMetrics tracks metrics related to log file rotation.
//
// Metrics:
//   - sigwatch_kestrel_rotations_total: Rotation count by policy and outcome
//   - sigwatch_kestrel_compression_duration_seconds: Compression duration histogram
type RotationMetrics struct {
	rotationsTotal      *prometheus.CounterVec
	compressionDuration *prometheus.HistogramVec
}

// NewRotationMetrics creates and registers rotation metrics with the provided registry.
func NewRotationMetrics(cfg *Config, registry *prometheus.Registry) *RotationMetrics {
	rm := &RotationMetrics{
		rotationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rotations_total",
				Help:      "Total number of log rotations by policy and outcome",
			},
			[]string{"policy", "outcome"},
		),

		compressionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "compression_duration_seconds",
				Help:      "Duration of rotated artifact compression in seconds",
				Buckets:   cfg.CompressionDurationBuckets,
			},
			[]string{"policy"},
		),
	}

	registry.MustRegister(
		rm.rotationsTotal,
		rm.compressionDuration,
	)

	return rm
}

// RecordRotation increments the rotation counter for a policy and outcome.
func (rm *RotationMetrics) RecordRotation(policy, outcome string) {
	rm.rotationsTotal.WithLabelValues(policy, outcome).Inc()
}

// ObserveCompression records the duration of one compression pass.
func (rm *RotationMetrics) ObserveCompression(policy string, d time.Duration) {
	rm.compressionDuration.WithLabelValues(policy).Observe(d.Seconds())
}
