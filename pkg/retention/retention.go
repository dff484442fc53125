package retention

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"sigwatch-hq/kestrel/pkg/telemetry/metrics"
)

// Policy is the set of retention windows for one log category. Security and
// compliance-sensitive categories use longer windows than routine
// operational logs.
type Policy struct {
	// LogDir is the directory holding the category's log files.
	LogDir string

	// LocalRetentionDays bounds how long rotated artifacts stay on the
	// collection node's local disk.
	LocalRetentionDays int

	// ArchiveRetentionDays bounds how long archival metadata records are
	// kept for the category.
	ArchiveRetentionDays int

	// ComplianceRetentionDays documents the regulator-driven hold. It is
	// intentionally not enforced by automatic deletion: only the
	// operational tiers are swept.
	ComplianceRetentionDays int
}

// DefaultPolicies returns the standard per-category retention table.
func DefaultPolicies() map[string]Policy {
	return map[string]Policy{
		"application": {LocalRetentionDays: 7, ArchiveRetentionDays: 90, ComplianceRetentionDays: 365},
		"security":    {LocalRetentionDays: 30, ArchiveRetentionDays: 365, ComplianceRetentionDays: 2555},
		"performance": {LocalRetentionDays: 3, ArchiveRetentionDays: 30, ComplianceRetentionDays: 90},
	}
}

// ArchiveStore is the slice of the archive record store retention needs.
// archive.RecordStore satisfies this interface.
type ArchiveStore interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Manager holds the per-category retention table and performs the two-tier
// sweep. The table is static for the process lifetime.
type Manager struct {
	mu       sync.RWMutex
	policies map[string]Policy

	store   ArchiveStore
	metrics *metrics.Collector
	logger  *slog.Logger

	// now is stubbed in tests to pin sweep boundaries.
	now func() time.Time
}

// NewManager creates a retention manager. A nil policies map uses
// DefaultPolicies. store and collector may be nil; a nil store skips the
// archive tier.
func NewManager(policies map[string]Policy, store ArchiveStore, collector *metrics.Collector) *Manager {
	if policies == nil {
		policies = DefaultPolicies()
	}

	return &Manager{
		policies: policies,
		store:    store,
		metrics:  collector,
		logger:   slog.Default().With("component", "retention.manager"),
		now:      time.Now,
	}
}

// Categories returns the known category names.
func (m *Manager) Categories() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.policies))
	for name := range m.policies {
		names = append(names, name)
	}
	return names
}

// Policy returns the retention policy for a category.
func (m *Manager) Policy(category string) (Policy, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.policies[category]
	return p, ok
}

// CleanupExpiredLogs sweeps one category's expired local files and expired
// archive records. An unknown category is a logged, non-fatal skip.
//
// Boundary rule: an artifact whose timestamp is exactly at the cutoff is
// retained; deletion requires strictly-before.
func (m *Manager) CleanupExpiredLogs(ctx context.Context, category string) error {
	policy, ok := m.Policy(category)
	if !ok {
		m.logger.Warn("skipping retention sweep for unknown category", "category", category)
		return nil
	}

	now := m.now()

	if policy.LocalRetentionDays > 0 && policy.LogDir != "" {
		localCutoff := now.AddDate(0, 0, -policy.LocalRetentionDays)
		deleted := m.sweepLocal(policy.LogDir, localCutoff)
		m.metrics.RecordRetentionDeletes(category, metrics.TierLocal, deleted)
		m.logger.Info("local retention sweep complete",
			"category", category,
			"cutoff", localCutoff,
			"deleted", deleted,
		)
	}

	if policy.ArchiveRetentionDays > 0 && m.store != nil {
		archiveCutoff := now.AddDate(0, 0, -policy.ArchiveRetentionDays)
		deleted, err := m.store.DeleteBefore(ctx, archiveCutoff)
		if err != nil {
			// Non-fatal: the next daily sweep retries the whole range.
			m.logger.Error("archive retention sweep failed",
				"category", category,
				"error", err,
			)
		} else {
			m.metrics.RecordRetentionDeletes(category, metrics.TierArchive, deleted)
			m.logger.Info("archive retention sweep complete",
				"category", category,
				"cutoff", archiveCutoff,
				"deleted", deleted,
			)
		}
	}

	return nil
}

// sweepLocal deletes files under dir with mtime strictly before cutoff.
// Each deletion failure is logged individually and the sweep continues.
func (m *Manager) sweepLocal(dir string, cutoff time.Time) int64 {
	entries, err := os.ReadDir(dir)
	if err != nil {
		m.logger.Error("failed to read log directory", "dir", dir, "error", err)
		return 0
	}

	var deleted int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			m.logger.Warn("failed to stat log file", "file", entry.Name(), "error", err)
			continue
		}

		if !info.ModTime().Before(cutoff) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			m.logger.Error("failed to delete expired log file", "file", path, "error", err)
			continue
		}
		deleted++
	}

	return deleted
}
