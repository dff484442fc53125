package config

import "time"

// Config is the root configuration structure for kestrel. It contains all
// configuration sections for telemetry, the archive pipeline, storage
// backends, rotation policies, managed log files, retention categories, and
// the background scheduler.
type Config struct {
	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Archive contains configuration for the archive record store and the
	// background upload worker pool.
	Archive ArchiveConfig `yaml:"archive"`

	// Backends contains archive storage backend definitions. Keys are the
	// backend names that rotation policies refer to.
	Backends map[string]BackendConfig `yaml:"backends"`

	// Policies contains rotation policy definitions. Keys are policy names
	// that managed files refer to.
	Policies map[string]PolicyConfig `yaml:"policies"`

	// Files lists the log files kestrel manages, each bound to a policy.
	Files []FileConfig `yaml:"files"`

	// Retention contains per-category retention overrides. Keys are log
	// categories (e.g. "application", "security", "performance").
	Retention map[string]RetentionConfig `yaml:"retention"`

	// Scheduler contains cron schedules for trigger checks, maintenance,
	// and retention sweeps.
	Scheduler SchedulerConfig `yaml:"scheduler"`

	// Watch enables hot reload of this configuration file. When the file
	// changes, rotation policies are re-validated and rebound at runtime.
	Watch bool `yaml:"watch"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", or "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes source file and line in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exported.
	// Unset defaults to true; use MetricsEnabled to resolve.
	Enabled *bool `yaml:"enabled"`

	// ListenAddress is the address for the metrics HTTP endpoint.
	// Default: "127.0.0.1:9090"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path the metrics handler is mounted on.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// ArchiveConfig contains configuration for the archive subsystem.
type ArchiveConfig struct {
	// Store contains archive record store (SQLite) configuration.
	Store StoreConfig `yaml:"store"`

	// Workers is the number of background upload workers.
	// Default: 2
	Workers int `yaml:"workers"`

	// QueueSize is the size of the async upload queue. When full, new
	// requests are dropped rather than blocking the rotation path.
	// Default: 64
	QueueSize int `yaml:"queue_size"`

	// UploadTimeout bounds one hash-and-upload attempt.
	// Default: 2m
	UploadTimeout time.Duration `yaml:"upload_timeout"`
}

// StoreConfig contains archive record store configuration.
type StoreConfig struct {
	// Path is the SQLite database file path.
	// Default: "data/archive.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle database connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Unset defaults to true; use WALEnabled to resolve.
	WALMode *bool `yaml:"wal_mode"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// BackendConfig contains configuration for a single archive storage backend.
// Type selects the implementation; only the fields for that type apply.
type BackendConfig struct {
	// Type is the backend implementation: "local", "syslog", or "s3".
	Type string `yaml:"type"`

	// Path is the destination directory for the "local" backend.
	Path string `yaml:"path"`

	// Address is the remote collector address for the "syslog" backend.
	Address string `yaml:"address"`

	// Bucket is the target bucket for the "s3" backend. Required for s3.
	Bucket string `yaml:"bucket"`

	// Prefix is prepended to every object key for the "s3" backend.
	Prefix string `yaml:"prefix"`

	// Region is the bucket region for the "s3" backend.
	Region string `yaml:"region"`

	// Endpoint is the object storage endpoint for the "s3" backend.
	// Default: "s3.amazonaws.com"
	Endpoint string `yaml:"endpoint"`

	// AccessKey and SecretKey are static credentials for the "s3" backend.
	// When both are empty the environment/IAM credential chain is used.
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`

	// StorageClass is the storage class hint for the "s3" backend.
	// Default: "STANDARD_IA"
	StorageClass string `yaml:"storage_class"`
}

// PolicyConfig contains one rotation policy definition.
type PolicyConfig struct {
	// MaxSize is the size trigger threshold. Accepts raw bytes or
	// human-readable values ("100MB", "1GB"). Zero disables the trigger.
	MaxSize SizeValue `yaml:"max_size"`

	// MaxAge is the age trigger threshold. Accepts raw seconds or
	// human-readable values ("10h", "7d"). Zero disables the trigger.
	MaxAge AgeValue `yaml:"max_age"`

	// MaxFiles is the number of rotated artifacts kept locally.
	// Default: 10
	MaxFiles int `yaml:"max_files"`

	// MinFreeSpace is the free-space trigger threshold for the filesystem
	// holding the log file. Zero disables the trigger.
	MinFreeSpace SizeValue `yaml:"min_free_space"`

	// Compression contains gzip settings for rotated artifacts.
	Compression CompressionConfig `yaml:"compression"`

	// ArchiveBackend names the backend rotated artifacts are shipped to.
	// Empty disables archival for this policy.
	ArchiveBackend string `yaml:"archive_backend"`

	// RetentionDays is the local retention horizon in days.
	// Default: 30
	RetentionDays int `yaml:"retention_days"`

	// DeleteAfterArchive removes the local artifact once the archive
	// upload succeeds.
	// Default: false
	DeleteAfterArchive bool `yaml:"delete_after_archive"`
}

// CompressionConfig contains gzip settings for one rotation policy.
type CompressionConfig struct {
	// Enabled controls whether rotated artifacts are gzip-compressed.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Level is the gzip compression level (1-9).
	// Default: 6
	Level int `yaml:"level"`
}

// FileConfig binds one managed log file to a rotation policy.
type FileConfig struct {
	// Path is the active log file path.
	Path string `yaml:"path"`

	// Policy names the rotation policy governing this file.
	Policy string `yaml:"policy"`
}

// RetentionConfig contains retention horizons for one log category.
type RetentionConfig struct {
	// LogDir is the directory swept for expired local files.
	LogDir string `yaml:"log_dir"`

	// LocalRetentionDays is how long files stay on local disk.
	LocalRetentionDays int `yaml:"local_retention_days"`

	// ArchiveRetentionDays is how long archive records are kept.
	ArchiveRetentionDays int `yaml:"archive_retention_days"`

	// ComplianceRetentionDays is the regulatory hold horizon.
	ComplianceRetentionDays int `yaml:"compliance_retention_days"`
}

// SchedulerConfig contains cron schedules for the background loop.
type SchedulerConfig struct {
	// SizeCheckSchedule drives size and free-space trigger checks.
	// Default: "*/5 * * * *"
	SizeCheckSchedule string `yaml:"size_check_schedule"`

	// AgeCheckSchedule drives age trigger checks.
	// Default: "0 * * * *"
	AgeCheckSchedule string `yaml:"age_check_schedule"`

	// MaintenanceSchedule drives the daily compress-and-prune pass.
	// Default: "30 2 * * *"
	MaintenanceSchedule string `yaml:"maintenance_schedule"`

	// RetentionSchedule drives the daily retention sweep.
	// Default: "0 3 * * *"
	RetentionSchedule string `yaml:"retention_schedule"`
}

// CompressionEnabled resolves the optional compression toggle, defaulting
// to enabled.
func (p *PolicyConfig) CompressionEnabled() bool {
	if p.Compression.Enabled == nil {
		return true
	}
	return *p.Compression.Enabled
}

// MetricsEnabled resolves the optional metrics toggle, defaulting to
// enabled. An explicit `enabled: false` must survive ApplyDefaults.
func (t *TelemetryConfig) MetricsEnabled() bool {
	if t.Metrics.Enabled == nil {
		return DefaultMetricsEnabled
	}
	return *t.Metrics.Enabled
}

// WALEnabled resolves the optional WAL toggle, defaulting to enabled.
func (s *StoreConfig) WALEnabled() bool {
	if s.WALMode == nil {
		return DefaultStoreWALMode
	}
	return *s.WALMode
}
