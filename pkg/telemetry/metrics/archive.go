package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ArchiveMetrics tracks metrics related to rotated artifact archival.
//
// Metrics:
//   - sigwatch_kestrel_archive_size_bytes: Size of the last uploaded artifact per backend
//   - sigwatch_kestrel_archive_uploads_total: Upload attempts by backend and outcome
type ArchiveMetrics struct {
	sizeBytes    *prometheus.GaugeVec
	uploadsTotal *prometheus.CounterVec
}

// NewArchiveMetrics creates and registers archive metrics with the provided registry.
func NewArchiveMetrics(cfg *Config, registry *prometheus.Registry) *ArchiveMetrics {
	am := &ArchiveMetrics{
		sizeBytes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "archive_size_bytes",
				Help:      "Size in bytes of the most recently archived artifact",
			},
			[]string{"backend"},
		),

		uploadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "archive_uploads_total",
				Help:      "Total number of archive upload attempts by backend and outcome",
			},
			[]string{"backend", "outcome"},
		),
	}

	registry.MustRegister(
		am.sizeBytes,
		am.uploadsTotal,
	)

	return am
}

// SetSize records the size of the most recently uploaded artifact.
func (am *ArchiveMetrics) SetSize(backend string, sizeBytes int64) {
	am.sizeBytes.WithLabelValues(backend).Set(float64(sizeBytes))
}

// RecordUpload increments the upload counter for a backend and outcome.
func (am *ArchiveMetrics) RecordUpload(backend, outcome string) {
	am.uploadsTotal.WithLabelValues(backend, outcome).Inc()
}
