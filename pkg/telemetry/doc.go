// Package telemetry groups Kestrel's observability subsystems:
//
//   - logging: structured logger setup (log/slog)
//   - metrics: Prometheus metrics collection
//   - health: liveness and readiness probes for fleet monitoring
//
// Telemetry is strictly fire-and-forget: rotation, archival, and retention
// behave identically whether or not a metrics collector is attached.
package telemetry
