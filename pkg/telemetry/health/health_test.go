package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestChecker_CheckLiveness(t *testing.T) {
	checker := New(time.Second)

	// A failing component check must not affect liveness.
	checker.RegisterCheck("archive_store", func(ctx context.Context) error {
		return errors.New("database locked")
	})

	status := checker.CheckLiveness(context.Background())
	if status.Status != StatusOK {
		t.Errorf("expected status %q, got %q", StatusOK, status.Status)
	}
	if status.Timestamp.IsZero() {
		t.Error("expected non-zero timestamp")
	}
}

func TestChecker_CheckReadiness_NoChecks(t *testing.T) {
	checker := New(time.Second)

	status := checker.CheckReadiness(context.Background())
	if status.Status != StatusReady {
		t.Errorf("expected status %q, got %q", StatusReady, status.Status)
	}
}

func TestChecker_CheckReadiness_AllHealthy(t *testing.T) {
	checker := New(time.Second)

	checker.RegisterCheck("archive_store", func(ctx context.Context) error {
		return nil
	})
	checker.RegisterCheck("scheduler", func(ctx context.Context) error {
		return nil
	})

	status := checker.CheckReadiness(context.Background())
	if status.Status != StatusReady {
		t.Errorf("expected status %q, got %q", StatusReady, status.Status)
	}
	if len(status.Checks) != 2 {
		t.Errorf("expected 2 check results, got %d", len(status.Checks))
	}
	for name, result := range status.Checks {
		if result.Status != StatusOK {
			t.Errorf("check %q: expected status %q, got %q", name, StatusOK, result.Status)
		}
	}
}

func TestChecker_CheckReadiness_Degraded(t *testing.T) {
	checker := New(time.Second)

	checker.RegisterCheck("archive_store", func(ctx context.Context) error {
		return nil
	})
	checker.RegisterCheck("scheduler", func(ctx context.Context) error {
		return errors.New("scheduler stopped")
	})

	status := checker.CheckReadiness(context.Background())
	if status.Status != StatusDegraded {
		t.Errorf("expected status %q, got %q", StatusDegraded, status.Status)
	}

	result, ok := status.Checks["scheduler"]
	if !ok {
		t.Fatal("expected scheduler check result")
	}
	if result.Status != StatusUnhealthy {
		t.Errorf("expected status %q, got %q", StatusUnhealthy, result.Status)
	}
	if result.Message != "scheduler stopped" {
		t.Errorf("unexpected message: %q", result.Message)
	}
}

func TestChecker_CheckReadiness_Timeout(t *testing.T) {
	checker := New(50 * time.Millisecond)

	checker.RegisterCheck("slow", func(ctx context.Context) error {
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	status := checker.CheckReadiness(context.Background())
	if status.Status != StatusDegraded {
		t.Errorf("expected status %q, got %q", StatusDegraded, status.Status)
	}

	result := status.Checks["slow"]
	if result.Status != StatusUnhealthy {
		t.Errorf("expected status %q, got %q", StatusUnhealthy, result.Status)
	}
}

func TestChecker_RegisterCheck_Replaces(t *testing.T) {
	checker := New(time.Second)

	checker.RegisterCheck("archive_store", func(ctx context.Context) error {
		return errors.New("first")
	})
	checker.RegisterCheck("archive_store", func(ctx context.Context) error {
		return nil
	})

	if checker.CheckCount() != 1 {
		t.Errorf("expected 1 check, got %d", checker.CheckCount())
	}

	status := checker.CheckReadiness(context.Background())
	if status.Status != StatusReady {
		t.Errorf("expected status %q, got %q", StatusReady, status.Status)
	}
}

func TestLivenessHandler(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("archive_store", func(ctx context.Context) error {
		return errors.New("down")
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	checker.LivenessHandler()(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type: %q", ct)
	}
}

func TestReadinessHandler_Ready(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("archive_store", func(ctx context.Context) error {
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()

	checker.ReadinessHandler()(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var status HealthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if status.Status != StatusReady {
		t.Errorf("expected status %q, got %q", StatusReady, status.Status)
	}
}

func TestReadinessHandler_Degraded(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("archive_store", func(ctx context.Context) error {
		return errors.New("database locked")
	})

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()

	checker.ReadinessHandler()(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}

func TestReadinessHandler_MethodNotAllowed(t *testing.T) {
	checker := New(time.Second)

	req := httptest.NewRequest(http.MethodPost, "/ready", nil)
	rec := httptest.NewRecorder()

	checker.ReadinessHandler()(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}
}

func TestVersionHandler(t *testing.T) {
	handler := VersionHandler("0.1.0", "abc123", "2026-01-01")

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var info map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if info["version"] != "0.1.0" {
		t.Errorf("unexpected version: %q", info["version"])
	}
}
