package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sigwatch-hq/kestrel/pkg/archive"
)

// TestRotateFiles_ArchivesArtifact verifies the force-rotation command runs
// the full pipeline: rename, compress, upload to the policy's backend, and
// record the upload, all before the command returns.
func TestRotateFiles_ArchivesArtifact(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "wifi.log")
	backendDir := filepath.Join(dir, "nearline")
	dbPath := filepath.Join(dir, "archive.db")

	content := strings.Repeat("802.11 beacon ssid=depot-ops rssi=-58\n", 50)
	if err := os.WriteFile(logPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to seed log file: %v", err)
	}

	cfgPath := filepath.Join(dir, "kestrel.yaml")
	cfgYAML := fmt.Sprintf(`
archive:
  store:
    path: %s
backends:
  nearline:
    type: local
    path: %s
policies:
  wifi-scan:
    max_size: 100MB
    archive_backend: nearline
files:
  - path: %s
    policy: wifi-scan
`, dbPath, backendDir, logPath)
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	prev := cfgFile
	cfgFile = cfgPath
	t.Cleanup(func() { cfgFile = prev })

	if err := rotateFiles(rotateCmd, []string{logPath}); err != nil {
		t.Fatalf("rotateFiles() error = %v", err)
	}

	// The rotated artifact is compressed in place.
	artifacts, err := filepath.Glob(logPath + ".*.gz")
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	if len(artifacts) != 1 {
		t.Fatalf("expected 1 compressed artifact, got %d", len(artifacts))
	}

	// The backend received a copy before the command returned.
	entries, err := os.ReadDir(backendDir)
	if err != nil {
		t.Fatalf("backend dir unreadable: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 uploaded artifact, got %d", len(entries))
	}
	if entries[0].Name() != filepath.Base(artifacts[0]) {
		t.Errorf("uploaded %q, want %q", entries[0].Name(), filepath.Base(artifacts[0]))
	}

	// One archive record was written.
	store, err := archive.NewRecordStore(&archive.StoreConfig{
		Path:        dbPath,
		WALMode:     true,
		BusyTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("failed to reopen record store: %v", err)
	}
	defer store.Close()

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("archive record count = %d, want 1", count)
	}
}

func TestRotateFiles_UnmanagedFile(t *testing.T) {
	dir := t.TempDir()

	cfgPath := filepath.Join(dir, "kestrel.yaml")
	cfgYAML := fmt.Sprintf(`
archive:
  store:
    path: %s
policies:
  wifi-scan:
    max_size: 100MB
files:
  - path: %s
    policy: wifi-scan
`, filepath.Join(dir, "archive.db"), filepath.Join(dir, "wifi.log"))
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	prev := cfgFile
	cfgFile = cfgPath
	t.Cleanup(func() { cfgFile = prev })

	err := rotateFiles(rotateCmd, []string{filepath.Join(dir, "stray.log")})
	if err == nil {
		t.Fatal("rotateFiles() on an unmanaged file should return an error")
	}
}
