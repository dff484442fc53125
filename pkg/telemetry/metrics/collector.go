package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Rotation and upload outcome label values.
const (
	OutcomeStart   = "start"
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Retention tier label values.
const (
	TierLocal   = "local"
	TierArchive = "archive"
)

// Config contains configuration for the metrics collector.
type Config struct {
	// Enabled enables metric collection. When false all recording
	// methods are no-ops.
	Enabled bool

	// Namespace is the Prometheus metric namespace. Default: "sigwatch".
	Namespace string

	// Subsystem is the Prometheus metric subsystem. Default: "kestrel".
	Subsystem string

	// CompressionDurationBuckets are the histogram buckets for compression
	// durations in seconds.
	CompressionDurationBuckets []float64
}

// Collector is the orchestrator for all Prometheus metrics in Kestrel.
// It owns metric registration and provides a unified recording interface
// for the rotation, archive, and retention components.
//
// A nil *Collector is a valid no-op collector.
type Collector struct {
	config   *Config
	registry *prometheus.Registry

	rotation  *RotationMetrics
	archive   *ArchiveMetrics
	retention *RetentionMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is created.
func NewCollector(cfg *Config, registry *prometheus.Registry) *Collector {
	if cfg == nil {
		cfg = &Config{Enabled: true}
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "sigwatch"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "kestrel"
	}
	if len(cfg.CompressionDurationBuckets) == 0 {
		// Gzip of a rotated capture log typically lands between 10ms and
		// a few seconds depending on size and level.
		cfg.CompressionDurationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0}
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.rotation = NewRotationMetrics(cfg, registry)
	c.archive = NewArchiveMetrics(cfg, registry)
	c.retention = NewRetentionMetrics(cfg, registry)

	return c
}

// RecordRotation records a rotation event for the named policy with the
// given outcome (start, success, failure).
func (c *Collector) RecordRotation(policy, outcome string) {
	if c == nil || !c.config.Enabled {
		return
	}
	c.rotation.RecordRotation(policy, outcome)
}

// ObserveCompressionDuration records how long compressing one rotated
// artifact took under the named policy.
func (c *Collector) ObserveCompressionDuration(policy string, d time.Duration) {
	if c == nil || !c.config.Enabled {
		return
	}
	c.rotation.ObserveCompression(policy, d)
}

// SetArchiveSize records the size in bytes of the most recently uploaded
// artifact, labeled by backend name.
func (c *Collector) SetArchiveSize(backend string, sizeBytes int64) {
	if c == nil || !c.config.Enabled {
		return
	}
	c.archive.SetSize(backend, sizeBytes)
}

// RecordArchiveUpload records an upload attempt outcome for a backend.
func (c *Collector) RecordArchiveUpload(backend, outcome string) {
	if c == nil || !c.config.Enabled {
		return
	}
	c.archive.RecordUpload(backend, outcome)
}

// RecordRetentionDeletes records how many artifacts a retention sweep
// deleted for a category at a given tier (local or archive).
func (c *Collector) RecordRetentionDeletes(category, tier string, count int64) {
	if c == nil || !c.config.Enabled {
		return
	}
	c.retention.RecordDeletes(category, tier, count)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}
