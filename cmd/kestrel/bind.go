package main

import (
	"fmt"

	"sigwatch-hq/kestrel/pkg/archive"
	"sigwatch-hq/kestrel/pkg/config"
	"sigwatch-hq/kestrel/pkg/retention"
	"sigwatch-hq/kestrel/pkg/rotation"
	"sigwatch-hq/kestrel/pkg/scheduler"
)

// buildRotationPolicies converts configured policies to rotation policies.
func buildRotationPolicies(cfg *config.Config) map[string]*rotation.Policy {
	policies := make(map[string]*rotation.Policy, len(cfg.Policies))
	for name, pc := range cfg.Policies {
		policies[name] = &rotation.Policy{
			Name:               name,
			MaxSizeBytes:       pc.MaxSize.Bytes(),
			MaxAge:             pc.MaxAge.Duration(),
			MaxFiles:           pc.MaxFiles,
			MinFreeSpaceBytes:  uint64(pc.MinFreeSpace.Bytes()),
			CompressionEnabled: pc.CompressionEnabled(),
			CompressionLevel:   pc.Compression.Level,
			ArchiveBackend:     pc.ArchiveBackend,
			RetentionDays:      pc.RetentionDays,
			DeleteAfterArchive: pc.DeleteAfterArchive,
		}
	}
	return policies
}

// buildBackends constructs archive backends from configuration.
func buildBackends(cfg *config.Config) ([]archive.Backend, error) {
	backends := make([]archive.Backend, 0, len(cfg.Backends))
	for name, bc := range cfg.Backends {
		switch bc.Type {
		case "local":
			backends = append(backends, archive.NewLocalBackend(name, bc.Path))
		case "syslog":
			backends = append(backends, archive.NewSyslogBackend(name, bc.Address))
		case "s3":
			b, err := archive.NewS3Backend(name, &archive.S3Config{
				Endpoint:     bc.Endpoint,
				Bucket:       bc.Bucket,
				Prefix:       bc.Prefix,
				Region:       bc.Region,
				AccessKey:    bc.AccessKey,
				SecretKey:    bc.SecretKey,
				UseSSL:       true,
				StorageClass: bc.StorageClass,
			})
			if err != nil {
				return nil, fmt.Errorf("backend %q: %w", name, err)
			}
			backends = append(backends, b)
		default:
			return nil, fmt.Errorf("backend %q: unknown type %q", name, bc.Type)
		}
	}
	return backends, nil
}

// buildRetentionPolicies overlays configured category overrides on the
// default retention table.
func buildRetentionPolicies(cfg *config.Config) map[string]retention.Policy {
	policies := retention.DefaultPolicies()
	for category, rc := range cfg.Retention {
		p := policies[category]
		if rc.LogDir != "" {
			p.LogDir = rc.LogDir
		}
		if rc.LocalRetentionDays > 0 {
			p.LocalRetentionDays = rc.LocalRetentionDays
		}
		if rc.ArchiveRetentionDays > 0 {
			p.ArchiveRetentionDays = rc.ArchiveRetentionDays
		}
		if rc.ComplianceRetentionDays > 0 {
			p.ComplianceRetentionDays = rc.ComplianceRetentionDays
		}
		policies[category] = p
	}
	return policies
}

// buildSchedulerConfig converts the scheduler section.
func buildSchedulerConfig(cfg *config.Config) *scheduler.Config {
	return &scheduler.Config{
		SizeCheckSchedule:   cfg.Scheduler.SizeCheckSchedule,
		AgeCheckSchedule:    cfg.Scheduler.AgeCheckSchedule,
		MaintenanceSchedule: cfg.Scheduler.MaintenanceSchedule,
		RetentionSchedule:   cfg.Scheduler.RetentionSchedule,
	}
}

// buildStoreConfig converts the archive store section.
func buildStoreConfig(cfg *config.Config) *archive.StoreConfig {
	return &archive.StoreConfig{
		Path:         cfg.Archive.Store.Path,
		MaxOpenConns: cfg.Archive.Store.MaxOpenConns,
		MaxIdleConns: cfg.Archive.Store.MaxIdleConns,
		WALMode:      cfg.Archive.Store.WALEnabled(),
		BusyTimeout:  cfg.Archive.Store.BusyTimeout,
	}
}

// buildArchiveManagerConfig converts the archive worker pool section.
func buildArchiveManagerConfig(cfg *config.Config) *archive.ManagerConfig {
	return &archive.ManagerConfig{
		Workers:       cfg.Archive.Workers,
		QueueSize:     cfg.Archive.QueueSize,
		UploadTimeout: cfg.Archive.UploadTimeout,
	}
}
