package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "policies.wifi-scan.max_size").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateArchive(&cfg.Archive)...)
	errs = append(errs, validateBackends(cfg.Backends)...)
	errs = append(errs, validatePolicies(cfg)...)
	errs = append(errs, validateFiles(cfg)...)
	errs = append(errs, validateRetention(cfg.Retention)...)
	errs = append(errs, validateScheduler(&cfg.Scheduler)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateTelemetry validates logging and metrics configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid level %q (must be debug, info, warn, or error)", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid format %q (must be json or text)", cfg.Logging.Format),
		})
	}

	if cfg.MetricsEnabled() && cfg.Metrics.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.listen_address",
			Message: "listen address is required when metrics are enabled",
		})
	}

	return errs
}

// validateArchive validates the archive store and worker pool configuration.
func validateArchive(cfg *ArchiveConfig) []FieldError {
	var errs []FieldError

	if cfg.Store.Path == "" {
		errs = append(errs, FieldError{
			Field:   "archive.store.path",
			Message: "store path is required",
		})
	}
	if cfg.Workers < 1 {
		errs = append(errs, FieldError{
			Field:   "archive.workers",
			Message: "workers must be at least 1",
		})
	}
	if cfg.QueueSize < 1 {
		errs = append(errs, FieldError{
			Field:   "archive.queue_size",
			Message: "queue size must be at least 1",
		})
	}
	if cfg.UploadTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "archive.upload_timeout",
			Message: "upload timeout must be positive",
		})
	}

	return errs
}

// validateBackends validates storage backend definitions.
func validateBackends(backends map[string]BackendConfig) []FieldError {
	var errs []FieldError

	for name, backend := range backends {
		field := fmt.Sprintf("backends.%s", name)

		switch backend.Type {
		case "local":
			if backend.Path == "" {
				errs = append(errs, FieldError{
					Field:   field + ".path",
					Message: "path is required for local backends",
				})
			}
		case "syslog":
			if backend.Address == "" {
				errs = append(errs, FieldError{
					Field:   field + ".address",
					Message: "address is required for syslog backends",
				})
			}
		case "s3":
			if backend.Bucket == "" {
				errs = append(errs, FieldError{
					Field:   field + ".bucket",
					Message: "bucket is required for s3 backends",
				})
			}
		case "":
			errs = append(errs, FieldError{
				Field:   field + ".type",
				Message: "backend type is required",
			})
		default:
			errs = append(errs, FieldError{
				Field:   field + ".type",
				Message: fmt.Sprintf("unknown backend type %q (must be local, syslog, or s3)", backend.Type),
			})
		}
	}

	return errs
}

// validatePolicies validates rotation policy definitions, including their
// references to backends.
func validatePolicies(cfg *Config) []FieldError {
	var errs []FieldError

	for name, policy := range cfg.Policies {
		field := fmt.Sprintf("policies.%s", name)

		if policy.MaxFiles < 1 {
			errs = append(errs, FieldError{
				Field:   field + ".max_files",
				Message: "max_files must be at least 1",
			})
		}
		if policy.Compression.Level < 1 || policy.Compression.Level > 9 {
			errs = append(errs, FieldError{
				Field:   field + ".compression.level",
				Message: fmt.Sprintf("compression level %d out of range (must be 1-9)", policy.Compression.Level),
			})
		}
		if policy.RetentionDays < 0 {
			errs = append(errs, FieldError{
				Field:   field + ".retention_days",
				Message: "retention days must not be negative",
			})
		}
		if policy.ArchiveBackend != "" {
			if _, ok := cfg.Backends[policy.ArchiveBackend]; !ok {
				errs = append(errs, FieldError{
					Field:   field + ".archive_backend",
					Message: fmt.Sprintf("references unknown backend %q", policy.ArchiveBackend),
				})
			}
		}
		if policy.DeleteAfterArchive && policy.ArchiveBackend == "" {
			errs = append(errs, FieldError{
				Field:   field + ".delete_after_archive",
				Message: "delete_after_archive requires an archive_backend",
			})
		}
	}

	return errs
}

// validateFiles validates managed file entries and their policy references.
func validateFiles(cfg *Config) []FieldError {
	var errs []FieldError

	seen := make(map[string]bool, len(cfg.Files))
	for i, file := range cfg.Files {
		field := fmt.Sprintf("files[%d]", i)

		if file.Path == "" {
			errs = append(errs, FieldError{
				Field:   field + ".path",
				Message: "path is required",
			})
		} else if seen[file.Path] {
			errs = append(errs, FieldError{
				Field:   field + ".path",
				Message: fmt.Sprintf("duplicate managed file %q", file.Path),
			})
		}
		seen[file.Path] = true

		if file.Policy == "" {
			errs = append(errs, FieldError{
				Field:   field + ".policy",
				Message: "policy is required",
			})
		} else if _, ok := cfg.Policies[file.Policy]; !ok {
			errs = append(errs, FieldError{
				Field:   field + ".policy",
				Message: fmt.Sprintf("references unknown policy %q", file.Policy),
			})
		}
	}

	return errs
}

// validateRetention validates retention category overrides.
func validateRetention(categories map[string]RetentionConfig) []FieldError {
	var errs []FieldError

	for name, ret := range categories {
		field := fmt.Sprintf("retention.%s", name)

		if ret.LocalRetentionDays < 0 {
			errs = append(errs, FieldError{
				Field:   field + ".local_retention_days",
				Message: "retention days must not be negative",
			})
		}
		if ret.ArchiveRetentionDays < 0 {
			errs = append(errs, FieldError{
				Field:   field + ".archive_retention_days",
				Message: "retention days must not be negative",
			})
		}
		if ret.ComplianceRetentionDays < 0 {
			errs = append(errs, FieldError{
				Field:   field + ".compliance_retention_days",
				Message: "retention days must not be negative",
			})
		}
	}

	return errs
}

// validateScheduler validates cron expressions.
func validateScheduler(cfg *SchedulerConfig) []FieldError {
	var errs []FieldError

	parser := cron.ParseStandard
	schedules := []struct {
		field string
		expr  string
	}{
		{"scheduler.size_check_schedule", cfg.SizeCheckSchedule},
		{"scheduler.age_check_schedule", cfg.AgeCheckSchedule},
		{"scheduler.maintenance_schedule", cfg.MaintenanceSchedule},
		{"scheduler.retention_schedule", cfg.RetentionSchedule},
	}
	for _, s := range schedules {
		if _, err := parser(s.expr); err != nil {
			errs = append(errs, FieldError{
				Field:   s.field,
				Message: fmt.Sprintf("invalid cron expression %q: %v", s.expr, err),
			})
		}
	}

	return errs
}
