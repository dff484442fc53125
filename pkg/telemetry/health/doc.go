/*
Package health provides liveness and readiness probes for the kestrel
daemon, served from the same HTTP listener as the Prometheus metrics
endpoint.

Liveness is a trivial process-is-up check. Readiness runs every registered
component check concurrently - typically the archive record store and the
background scheduler - and reports degraded (HTTP 503) when any component
is unhealthy, so fleet monitoring can flag a collection unit whose archival
pipeline has stalled while the unit itself is still logging.

Usage:

	checker := health.New(5 * time.Second)
	checker.RegisterCheck("archive_store", func(ctx context.Context) error {
		_, err := store.Count(ctx)
		return err
	})
	checker.RegisterCheck("scheduler", func(ctx context.Context) error {
		if !sched.IsRunning() {
			return errors.New("scheduler stopped")
		}
		return nil
	})

	mux.HandleFunc("/health", checker.LivenessHandler())
	mux.HandleFunc("/ready", checker.ReadinessHandler())
*/
package health
