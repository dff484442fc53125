// Package scheduler drives Kestrel's background rotation checks and
// retention sweeps on cron schedules.
//
// The scheduler is an injected object owning its own cron instance, so
// multiple schedulers can coexist (one per test, one per process). No jobs
// run through process-global state.
//
// At handle registration time the scheduler derives the check cadence from
// the policy's active triggers: size and free-space triggers get a
// five-minute check, the age trigger an hourly check, and every handle a
// daily maintenance pass (compress leftovers, prune beyond max_files).
// Retention categories get one daily sweep each at a separate off-peak
// time. Every job invocation is panic-isolated: a failing job is logged
// and neither stops the loop nor affects other jobs.
package scheduler
