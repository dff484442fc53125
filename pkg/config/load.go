package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Environment variables follow the
// naming convention KESTREL_SECTION_FIELD (e.g., KESTREL_LOGGING_LEVEL).
// Environment variables always take precedence over file-based
// configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format KESTREL_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Logging overrides
	if val := os.Getenv("KESTREL_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("KESTREL_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("KESTREL_LOGGING_ADD_SOURCE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Logging.AddSource = b
		}
	}

	// Metrics overrides
	if val := os.Getenv("KESTREL_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = &b
		}
	}
	if val := os.Getenv("KESTREL_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := os.Getenv("KESTREL_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}

	// Archive overrides
	if val := os.Getenv("KESTREL_ARCHIVE_STORE_PATH"); val != "" {
		cfg.Archive.Store.Path = val
	}
	if val := os.Getenv("KESTREL_ARCHIVE_WORKERS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Archive.Workers = i
		}
	}
	if val := os.Getenv("KESTREL_ARCHIVE_QUEUE_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Archive.QueueSize = i
		}
	}
	if val := os.Getenv("KESTREL_ARCHIVE_UPLOAD_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Archive.UploadTimeout = d
		}
	}

	// Scheduler overrides
	if val := os.Getenv("KESTREL_SCHEDULER_SIZE_CHECK_SCHEDULE"); val != "" {
		cfg.Scheduler.SizeCheckSchedule = val
	}
	if val := os.Getenv("KESTREL_SCHEDULER_AGE_CHECK_SCHEDULE"); val != "" {
		cfg.Scheduler.AgeCheckSchedule = val
	}
	if val := os.Getenv("KESTREL_SCHEDULER_MAINTENANCE_SCHEDULE"); val != "" {
		cfg.Scheduler.MaintenanceSchedule = val
	}
	if val := os.Getenv("KESTREL_SCHEDULER_RETENTION_SCHEDULE"); val != "" {
		cfg.Scheduler.RetentionSchedule = val
	}

	// Watch override
	if val := os.Getenv("KESTREL_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Watch = b
		}
	}

	// S3 credential overrides for each configured backend, so secrets can
	// stay out of the config file.
	for name, backend := range cfg.Backends {
		if backend.Type != "s3" {
			continue
		}
		applyS3EnvOverrides(cfg, name)
	}
}

// applyS3EnvOverrides applies credential and endpoint overrides for one s3
// backend. Variables follow the format KESTREL_BACKENDS_<NAME>_<FIELD>
// where NAME is the uppercase backend name.
func applyS3EnvOverrides(cfg *Config, backendName string) {
	backend := cfg.Backends[backendName]
	prefix := fmt.Sprintf("KESTREL_BACKENDS_%s_", envName(backendName))

	modified := false
	if val := os.Getenv(prefix + "ACCESS_KEY"); val != "" {
		backend.AccessKey = val
		modified = true
	}
	if val := os.Getenv(prefix + "SECRET_KEY"); val != "" {
		backend.SecretKey = val
		modified = true
	}
	if val := os.Getenv(prefix + "ENDPOINT"); val != "" {
		backend.Endpoint = val
		modified = true
	}
	if val := os.Getenv(prefix + "BUCKET"); val != "" {
		backend.Bucket = val
		modified = true
	}

	if modified {
		cfg.Backends[backendName] = backend
	}
}

// envName maps a backend name to its environment variable segment:
// uppercase with dashes replaced by underscores.
func envName(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
			out[i] = c - 'a' + 'A'
		case c == '-':
			out[i] = '_'
		default:
			out[i] = c
		}
	}
	return string(out)
}
