package config

import "time"

// Default values for configuration fields.
const (
	// Telemetry defaults
	DefaultLoggingLevel        = "info"
	DefaultLoggingFormat       = "json"
	DefaultMetricsEnabled      = true
	DefaultMetricsListenAddr   = "127.0.0.1:9090"
	DefaultMetricsPath         = "/metrics"

	// Archive defaults
	DefaultStorePath         = "data/archive.db"
	DefaultStoreMaxOpenConns = 10
	DefaultStoreMaxIdleConns = 5
	DefaultStoreWALMode      = true
	DefaultStoreBusyTimeout  = 5 * time.Second
	DefaultArchiveWorkers    = 2
	DefaultArchiveQueueSize  = 64
	DefaultUploadTimeout     = 2 * time.Minute

	// Backend defaults
	DefaultS3Endpoint     = "s3.amazonaws.com"
	DefaultS3StorageClass = "STANDARD_IA"

	// Policy defaults
	DefaultMaxFiles         = 10
	DefaultCompressionLevel = 6
	DefaultRetentionDays    = 30

	// Scheduler defaults
	DefaultSizeCheckSchedule   = "*/5 * * * *"
	DefaultAgeCheckSchedule    = "0 * * * *"
	DefaultMaintenanceSchedule = "30 2 * * *"
	DefaultRetentionSchedule   = "0 3 * * *"
)

// ApplyDefaults fills in default values for any configuration fields that
// are not explicitly set.
func ApplyDefaults(cfg *Config) {
	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddr
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}

	// Archive defaults
	if cfg.Archive.Store.Path == "" {
		cfg.Archive.Store.Path = DefaultStorePath
	}
	if cfg.Archive.Store.MaxOpenConns == 0 {
		cfg.Archive.Store.MaxOpenConns = DefaultStoreMaxOpenConns
	}
	if cfg.Archive.Store.MaxIdleConns == 0 {
		cfg.Archive.Store.MaxIdleConns = DefaultStoreMaxIdleConns
	}
	if cfg.Archive.Store.BusyTimeout == 0 {
		cfg.Archive.Store.BusyTimeout = DefaultStoreBusyTimeout
	}
	if cfg.Archive.Workers == 0 {
		cfg.Archive.Workers = DefaultArchiveWorkers
	}
	if cfg.Archive.QueueSize == 0 {
		cfg.Archive.QueueSize = DefaultArchiveQueueSize
	}
	if cfg.Archive.UploadTimeout == 0 {
		cfg.Archive.UploadTimeout = DefaultUploadTimeout
	}

	// Backend defaults
	for name, backend := range cfg.Backends {
		if backend.Type == "s3" {
			if backend.Endpoint == "" {
				backend.Endpoint = DefaultS3Endpoint
			}
			if backend.StorageClass == "" {
				backend.StorageClass = DefaultS3StorageClass
			}
		}
		cfg.Backends[name] = backend
	}

	// Policy defaults
	for name, policy := range cfg.Policies {
		if policy.MaxFiles == 0 {
			policy.MaxFiles = DefaultMaxFiles
		}
		if policy.Compression.Level == 0 {
			policy.Compression.Level = DefaultCompressionLevel
		}
		if policy.RetentionDays == 0 {
			policy.RetentionDays = DefaultRetentionDays
		}
		cfg.Policies[name] = policy
	}

	// Scheduler defaults
	if cfg.Scheduler.SizeCheckSchedule == "" {
		cfg.Scheduler.SizeCheckSchedule = DefaultSizeCheckSchedule
	}
	if cfg.Scheduler.AgeCheckSchedule == "" {
		cfg.Scheduler.AgeCheckSchedule = DefaultAgeCheckSchedule
	}
	if cfg.Scheduler.MaintenanceSchedule == "" {
		cfg.Scheduler.MaintenanceSchedule = DefaultMaintenanceSchedule
	}
	if cfg.Scheduler.RetentionSchedule == "" {
		cfg.Scheduler.RetentionSchedule = DefaultRetentionSchedule
	}
}
