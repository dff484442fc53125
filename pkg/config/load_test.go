package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
telemetry:
  logging:
    level: debug
    format: text
backends:
  nearline:
    type: local
    path: /var/lib/kestrel/archive
policies:
  wifi-scan:
    max_size: 100MB
    max_age: 7d
    max_files: 5
    archive_backend: nearline
files:
  - path: /var/log/kestrel/wifi.log
    policy: wifi-scan
retention:
  security:
    log_dir: /var/log/kestrel/security
    local_retention_days: 30
    archive_retention_days: 365
    compliance_retention_days: 2555
`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "kestrel.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, validYAML))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Telemetry.Logging.Level, "debug")
	}
	if cfg.Telemetry.Logging.Format != "text" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Telemetry.Logging.Format, "text")
	}

	policy, ok := cfg.Policies["wifi-scan"]
	if !ok {
		t.Fatal("policy wifi-scan not loaded")
	}
	if policy.MaxSize.Bytes() != 100<<20 {
		t.Errorf("MaxSize = %d, want %d", policy.MaxSize.Bytes(), 100<<20)
	}
	if policy.MaxAge.Duration() != 7*24*time.Hour {
		t.Errorf("MaxAge = %v, want %v", policy.MaxAge.Duration(), 7*24*time.Hour)
	}
	if policy.MaxFiles != 5 {
		t.Errorf("MaxFiles = %d, want 5", policy.MaxFiles)
	}
	if policy.ArchiveBackend != "nearline" {
		t.Errorf("ArchiveBackend = %q, want %q", policy.ArchiveBackend, "nearline")
	}

	if len(cfg.Files) != 1 || cfg.Files[0].Policy != "wifi-scan" {
		t.Errorf("Files = %+v, want one entry bound to wifi-scan", cfg.Files)
	}

	ret, ok := cfg.Retention["security"]
	if !ok {
		t.Fatal("retention category security not loaded")
	}
	if ret.ComplianceRetentionDays != 2555 {
		t.Errorf("ComplianceRetentionDays = %d, want 2555", ret.ComplianceRetentionDays)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfigFile(t, validYAML))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Telemetry.Metrics.ListenAddress != DefaultMetricsListenAddr {
		t.Errorf("Metrics.ListenAddress = %q, want %q", cfg.Telemetry.Metrics.ListenAddress, DefaultMetricsListenAddr)
	}
	if cfg.Archive.Store.Path != DefaultStorePath {
		t.Errorf("Store.Path = %q, want %q", cfg.Archive.Store.Path, DefaultStorePath)
	}
	if cfg.Archive.Workers != DefaultArchiveWorkers {
		t.Errorf("Archive.Workers = %d, want %d", cfg.Archive.Workers, DefaultArchiveWorkers)
	}
	if cfg.Scheduler.SizeCheckSchedule != DefaultSizeCheckSchedule {
		t.Errorf("SizeCheckSchedule = %q, want %q", cfg.Scheduler.SizeCheckSchedule, DefaultSizeCheckSchedule)
	}

	policy := cfg.Policies["wifi-scan"]
	if policy.Compression.Level != DefaultCompressionLevel {
		t.Errorf("Compression.Level = %d, want %d", policy.Compression.Level, DefaultCompressionLevel)
	}
	if !policy.CompressionEnabled() {
		t.Error("CompressionEnabled() = false, want true by default")
	}
	if policy.RetentionDays != DefaultRetentionDays {
		t.Errorf("RetentionDays = %d, want %d", policy.RetentionDays, DefaultRetentionDays)
	}
}

func TestLoadConfig_ExplicitDisableSurvivesDefaults(t *testing.T) {
	yaml := `
telemetry:
  metrics:
    enabled: false
archive:
  store:
    wal_mode: false
policies:
  wifi-scan:
    max_size: 100MB
files:
  - path: /var/log/kestrel/wifi.log
    policy: wifi-scan
`
	cfg, err := LoadConfig(writeConfigFile(t, yaml))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Telemetry.MetricsEnabled() {
		t.Error("MetricsEnabled() = true, want explicit enabled: false to stick")
	}
	if cfg.Archive.Store.WALEnabled() {
		t.Error("WALEnabled() = true, want explicit wal_mode: false to stick")
	}

	// Unset toggles still default to enabled.
	unset, err := LoadConfig(writeConfigFile(t, validYAML))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !unset.Telemetry.MetricsEnabled() {
		t.Error("MetricsEnabled() = false, want true by default")
	}
	if !unset.Archive.Store.WALEnabled() {
		t.Error("WALEnabled() = false, want true by default")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadConfig() on missing file should return an error")
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	if _, err := LoadConfig(writeConfigFile(t, "policies: [not: a: map")); err == nil {
		t.Error("LoadConfig() on malformed YAML should return an error")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	t.Setenv("KESTREL_LOGGING_LEVEL", "warn")
	t.Setenv("KESTREL_METRICS_LISTEN_ADDRESS", "0.0.0.0:9100")
	t.Setenv("KESTREL_ARCHIVE_WORKERS", "8")
	t.Setenv("KESTREL_ARCHIVE_UPLOAD_TIMEOUT", "5m")

	cfg, err := LoadConfigWithEnvOverrides(writeConfigFile(t, validYAML))
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Telemetry.Logging.Level, "warn")
	}
	if cfg.Telemetry.Metrics.ListenAddress != "0.0.0.0:9100" {
		t.Errorf("Metrics.ListenAddress = %q, want %q", cfg.Telemetry.Metrics.ListenAddress, "0.0.0.0:9100")
	}
	if cfg.Archive.Workers != 8 {
		t.Errorf("Archive.Workers = %d, want 8", cfg.Archive.Workers)
	}
	if cfg.Archive.UploadTimeout != 5*time.Minute {
		t.Errorf("Archive.UploadTimeout = %v, want 5m", cfg.Archive.UploadTimeout)
	}
}

func TestLoadConfigWithEnvOverrides_S3Credentials(t *testing.T) {
	yaml := `
backends:
  cold-storage:
    type: s3
    bucket: kestrel-archives
`
	t.Setenv("KESTREL_BACKENDS_COLD_STORAGE_ACCESS_KEY", "AKIAEXAMPLE")
	t.Setenv("KESTREL_BACKENDS_COLD_STORAGE_SECRET_KEY", "secret")

	cfg, err := LoadConfigWithEnvOverrides(writeConfigFile(t, yaml))
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	backend := cfg.Backends["cold-storage"]
	if backend.AccessKey != "AKIAEXAMPLE" {
		t.Errorf("AccessKey = %q, want %q", backend.AccessKey, "AKIAEXAMPLE")
	}
	if backend.SecretKey != "secret" {
		t.Errorf("SecretKey = %q, want %q", backend.SecretKey, "secret")
	}
	if backend.Endpoint != DefaultS3Endpoint {
		t.Errorf("Endpoint = %q, want default %q", backend.Endpoint, DefaultS3Endpoint)
	}
	if backend.StorageClass != DefaultS3StorageClass {
		t.Errorf("StorageClass = %q, want default %q", backend.StorageClass, DefaultS3StorageClass)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverrideRejected(t *testing.T) {
	t.Setenv("KESTREL_LOGGING_LEVEL", "loudest")

	if _, err := LoadConfigWithEnvOverrides(writeConfigFile(t, validYAML)); err == nil {
		t.Error("invalid env override should fail validation")
	}
}
