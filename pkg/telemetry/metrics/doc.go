// Package metrics provides Prometheus metrics collection for the Kestrel
// log rotation engine.
//
// # Metrics Categories
//
//   - Rotation Metrics: Rotation count by policy and outcome, compression duration
//   - Archive Metrics: Archived artifact size and upload outcomes by backend
//   - Retention Metrics: Deletion counts by log category and retention tier
//
// # Usage
//
//	collector := metrics.NewCollector(cfg, nil)
//
//	collector.RecordRotation("wifi-scan", metrics.OutcomeSuccess)
//	collector.ObserveCompressionDuration("wifi-scan", 120*time.Millisecond)
//	collector.SetArchiveSize("s3-cold", 1<<20)
//
// All recording methods are fire-and-forget and nil-safe: a nil *Collector is
// a valid no-op sink, so components never need to guard their metric calls.
// Metric absence must never affect rotation correctness.
//
// # Prometheus Endpoint
//
// Metrics are exposed via Collector.Handler in standard exposition format:
//
//	# HELP sigwatch_kestrel_rotations_total Total number of log rotations
//	# TYPE sigwatch_kestrel_rotations_total counter
//	sigwatch_kestrel_rotations_total{policy="wifi-scan",outcome="success"} 42
package metrics
