package rotation

import "time"

// Policy is the named set of thresholds and behaviors governing one or more
// log files. Policies are immutable once loaded; exactly the triggers whose
// threshold field is non-zero are active. A policy with no threshold fields
// never rotates automatically - only manual force-rotation applies.
type Policy struct {
	// Name identifies the policy in configuration and metrics.
	Name string

	// MaxSizeBytes rotates when the active file reaches this size.
	// 0 disables the size trigger.
	MaxSizeBytes int64

	// MaxAge rotates when this much time has elapsed since the last
	// rollover. 0 disables the age trigger.
	MaxAge time.Duration

	// MaxFiles caps the number of rotated artifacts kept for a base file,
	// independent of time-based retention. Default: 10.
	MaxFiles int

	// CompressionEnabled gzips rotated artifacts. Default: true.
	CompressionEnabled bool

	// CompressionLevel is the gzip level (1-9). Default: 6.
	CompressionLevel int

	// ArchiveBackend names a registered storage backend to ship rotated
	// artifacts to. Empty disables archival.
	ArchiveBackend string

	// RetentionDays is informational: authoritative retention windows
	// live in the retention manager's per-category table. The field is
	// parsed and validated so existing fleet configs keep loading.
	RetentionDays int

	// MinFreeSpaceBytes rotates when free space on the file's volume
	// drops below this threshold. 0 disables the free-space trigger.
	MinFreeSpaceBytes uint64

	// DeleteAfterArchive removes the local rotated artifact once its
	// upload succeeds, for deployments that treat local disk as a
	// staging area. Default: false.
	DeleteAfterArchive bool
}

// DefaultPolicy returns a policy with the standard defaults and no active
// triggers.
func DefaultPolicy(name string) *Policy {
	return &Policy{
		Name:               name,
		MaxFiles:           10,
		CompressionEnabled: true,
		CompressionLevel:   6,
		RetentionDays:      30,
	}
}

// HasSizeTrigger reports whether the size trigger is active.
func (p *Policy) HasSizeTrigger() bool {
	return p.MaxSizeBytes > 0
}

// HasAgeTrigger reports whether the age trigger is active.
func (p *Policy) HasAgeTrigger() bool {
	return p.MaxAge > 0
}

// HasFreeSpaceTrigger reports whether the free-space trigger is active.
func (p *Policy) HasFreeSpaceTrigger() bool {
	return p.MinFreeSpaceBytes > 0
}

// HasTriggers reports whether any automatic trigger is configured.
func (p *Policy) HasTriggers() bool {
	return p.HasSizeTrigger() || p.HasAgeTrigger() || p.HasFreeSpaceTrigger()
}
