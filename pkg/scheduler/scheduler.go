package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"sigwatch-hq/kestrel/pkg/retention"
	"sigwatch-hq/kestrel/pkg/rotation"
)

// Config contains the cron expressions driving the scheduler's job classes.
type Config struct {
	// SizeCheckSchedule drives trigger checks for policies with size or
	// free-space triggers. Default: "*/5 * * * *" (every 5 minutes).
	SizeCheckSchedule string

	// AgeCheckSchedule drives trigger checks for policies with an age
	// trigger. Default: "0 * * * *" (hourly).
	AgeCheckSchedule string

	// MaintenanceSchedule drives the per-handle daily maintenance pass
	// (compress leftovers, prune). Default: "30 2 * * *".
	MaintenanceSchedule string

	// RetentionSchedule drives the per-category daily retention sweep.
	// Default: "0 3 * * *".
	RetentionSchedule string

	// SweepTimeout bounds one retention sweep. Default: 10 minutes.
	SweepTimeout time.Duration
}

// DefaultConfig returns the default scheduling configuration.
func DefaultConfig() *Config {
	return &Config{
		SizeCheckSchedule:   "*/5 * * * *",
		AgeCheckSchedule:    "0 * * * *",
		MaintenanceSchedule: "30 2 * * *",
		RetentionSchedule:   "0 3 * * *",
		SweepTimeout:        10 * time.Minute,
	}
}

// Scheduler owns the background cron loop that polls rotation handles and
// runs daily maintenance and retention sweeps. It implements
// rotation.HandleRegistrar.
type Scheduler struct {
	config    *Config
	cron      *cron.Cron
	retention *retention.Manager

	mu      sync.Mutex
	running bool
	logger  *slog.Logger
}

// New creates a scheduler. retentionMgr may be nil when no retention sweeps
// are registered.
func New(config *Config, retentionMgr *retention.Manager) *Scheduler {
	if config == nil {
		config = DefaultConfig()
	}
	if config.SizeCheckSchedule == "" {
		config.SizeCheckSchedule = "*/5 * * * *"
	}
	if config.AgeCheckSchedule == "" {
		config.AgeCheckSchedule = "0 * * * *"
	}
	if config.MaintenanceSchedule == "" {
		config.MaintenanceSchedule = "30 2 * * *"
	}
	if config.RetentionSchedule == "" {
		config.RetentionSchedule = "0 3 * * *"
	}
	if config.SweepTimeout <= 0 {
		config.SweepTimeout = 10 * time.Minute
	}

	return &Scheduler{
		config:    config,
		cron:      cron.New(),
		retention: retentionMgr,
		logger:    slog.Default().With("component", "scheduler"),
	}
}

// Register schedules a rotation handle's trigger checks and its daily
// maintenance job. Policies with no active triggers get maintenance only.
func (s *Scheduler) Register(h *rotation.Handle) {
	policy := h.Policy()

	if policy.HasSizeTrigger() || policy.HasFreeSpaceTrigger() {
		s.addJob(s.config.SizeCheckSchedule, fmt.Sprintf("size-check %s", h.Path()), func() {
			s.checkHandle(h)
		})
	}

	if policy.HasAgeTrigger() {
		s.addJob(s.config.AgeCheckSchedule, fmt.Sprintf("age-check %s", h.Path()), func() {
			s.checkHandle(h)
		})
	}

	s.addJob(s.config.MaintenanceSchedule, fmt.Sprintf("maintenance %s", h.Path()), func() {
		s.maintainHandle(h)
	})

	s.logger.Info("handle registered",
		"file", h.Path(),
		"policy", policy.Name,
		"size_trigger", policy.HasSizeTrigger(),
		"age_trigger", policy.HasAgeTrigger(),
		"free_space_trigger", policy.HasFreeSpaceTrigger(),
	)
}

// RegisterRetention schedules the daily retention sweep for one category.
func (s *Scheduler) RegisterRetention(category string) {
	s.addJob(s.config.RetentionSchedule, fmt.Sprintf("retention %s", category), func() {
		s.sweepCategory(category)
	})

	s.logger.Info("retention sweep registered",
		"category", category,
		"schedule", s.config.RetentionSchedule,
	)
}

// addJob adds a panic-isolated cron job.
func (s *Scheduler) addJob(schedule, name string, job func()) {
	_, err := s.cron.AddFunc(schedule, func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("scheduled job panicked", "job", name, "panic", r)
			}
		}()
		job()
	})
	if err != nil {
		// Schedules come from validated configuration; a bad one here is
		// a programming error worth surfacing loudly, not silently.
		s.logger.Error("failed to schedule job", "job", name, "schedule", schedule, "error", err)
	}
}

// checkHandle runs one trigger evaluation and rotates if due.
func (s *Scheduler) checkHandle(h *rotation.Handle) {
	if !h.ShouldRollover() {
		return
	}

	s.logger.Info("scheduled trigger fired", "file", h.Path())
	if err := h.Rollover(); err != nil {
		s.logger.Error("scheduled rotation failed", "file", h.Path(), "error", err)
	}
}

// maintainHandle runs the daily compress-and-prune pass for one handle.
func (s *Scheduler) maintainHandle(h *rotation.Handle) {
	if err := h.CompressOldFiles(); err != nil {
		s.logger.Error("maintenance compression failed", "file", h.Path(), "error", err)
	}
	h.Prune()
}

// sweepCategory runs one retention sweep.
func (s *Scheduler) sweepCategory(category string) {
	if s.retention == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.SweepTimeout)
	defer cancel()

	if err := s.retention.CleanupExpiredLogs(ctx, category); err != nil {
		s.logger.Error("retention sweep failed", "category", category, "error", err)
	}
}

// Start begins the cron loop. The scheduler stops when ctx is cancelled or
// Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the scheduler and waits for any running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	stopCtx := s.cron.Stop()
	<-stopCtx.Done() // Wait for running jobs to finish
	s.running = false

	s.logger.Info("scheduler stopped")
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the earliest next scheduled job time, or nil when no
// jobs are registered.
func (s *Scheduler) NextRun() *time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	for _, e := range entries[1:] {
		if !e.Next.IsZero() && (next.IsZero() || e.Next.Before(next)) {
			next = e.Next
		}
	}
	if next.IsZero() {
		return nil
	}
	return &next
}

// JobCount returns the number of registered cron entries.
func (s *Scheduler) JobCount() int {
	return len(s.cron.Entries())
}
