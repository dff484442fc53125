package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"sigwatch-hq/kestrel/pkg/rotation"
)

func newTestHandle(t *testing.T, policy *rotation.Policy) *rotation.Handle {
	t.Helper()

	path := filepath.Join(t.TempDir(), "app.log")
	h, err := rotation.NewHandle(path, policy, nil, nil)
	if err != nil {
		t.Fatalf("NewHandle() error = %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(DefaultConfig(), nil)

	if s.IsRunning() {
		t.Error("new scheduler should not be running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !s.IsRunning() {
		t.Error("scheduler should be running after Start")
	}

	if err := s.Start(ctx); err == nil {
		t.Error("second Start() should return an error")
	}

	s.Stop()
	if s.IsRunning() {
		t.Error("scheduler should not be running after Stop")
	}

	// Stop is idempotent.
	s.Stop()
}

func TestScheduler_StopOnContextCancel(t *testing.T) {
	s := New(DefaultConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for s.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("scheduler did not stop after context cancellation")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestScheduler_Register(t *testing.T) {
	tests := []struct {
		name     string
		policy   *rotation.Policy
		wantJobs int
	}{
		{
			name: "size trigger gets check plus maintenance",
			policy: &rotation.Policy{
				Name:         "size-only",
				MaxSizeBytes: 1024,
				MaxFiles:     3,
			},
			wantJobs: 2,
		},
		{
			name: "age trigger gets check plus maintenance",
			policy: &rotation.Policy{
				Name:     "age-only",
				MaxAge:   time.Hour,
				MaxFiles: 3,
			},
			wantJobs: 2,
		},
		{
			name: "size and age triggers get both checks plus maintenance",
			policy: &rotation.Policy{
				Name:         "both",
				MaxSizeBytes: 1024,
				MaxAge:       time.Hour,
				MaxFiles:     3,
			},
			wantJobs: 3,
		},
		{
			name: "no triggers still gets maintenance",
			policy: &rotation.Policy{
				Name:     "manual",
				MaxFiles: 3,
			},
			wantJobs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(DefaultConfig(), nil)
			h := newTestHandle(t, tt.policy)

			s.Register(h)

			if got := s.JobCount(); got != tt.wantJobs {
				t.Errorf("JobCount() = %d, want %d", got, tt.wantJobs)
			}
		})
	}
}

func TestScheduler_RegisterRetention(t *testing.T) {
	s := New(DefaultConfig(), nil)

	s.RegisterRetention("application")
	s.RegisterRetention("security")

	if got := s.JobCount(); got != 2 {
		t.Errorf("JobCount() = %d, want 2", got)
	}
}

func TestScheduler_NextRun(t *testing.T) {
	s := New(DefaultConfig(), nil)

	if next := s.NextRun(); next != nil {
		t.Errorf("NextRun() with no jobs = %v, want nil", next)
	}

	h := newTestHandle(t, &rotation.Policy{
		Name:         "size-only",
		MaxSizeBytes: 1024,
		MaxFiles:     3,
	})
	s.Register(h)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	next := s.NextRun()
	if next == nil {
		t.Fatal("NextRun() = nil after Start with jobs")
	}
	if !next.After(time.Now()) {
		t.Errorf("NextRun() = %v, want a future time", next)
	}
}

func TestScheduler_PanicIsolation(t *testing.T) {
	s := New(&Config{SizeCheckSchedule: "* * * * *"}, nil)

	fired := make(chan struct{}, 1)
	s.addJob("* * * * *", "panicking", func() {
		panic("boom")
	})
	s.addJob("* * * * *", "survivor", func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	// Run the wrapped jobs directly rather than waiting a minute for cron.
	for _, entry := range s.cron.Entries() {
		entry.Job.Run()
	}

	select {
	case <-fired:
	default:
		t.Error("job after a panicking job did not run")
	}
}

func TestScheduler_InvalidScheduleDoesNotAddJob(t *testing.T) {
	s := New(DefaultConfig(), nil)

	s.addJob("not a cron expression", "broken", func() {})

	if got := s.JobCount(); got != 0 {
		t.Errorf("JobCount() = %d, want 0", got)
	}
}
