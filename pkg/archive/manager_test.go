package archive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// fakeBackend records uploads and can be told to fail.
type fakeBackend struct {
	name string
	fail error

	mu      sync.Mutex
	uploads []fakeUpload
}

type fakeUpload struct {
	path string
	hash string
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Upload(ctx context.Context, localPath, contentHash string) error {
	if f.fail != nil {
		return f.fail
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, fakeUpload{path: localPath, hash: contentHash})
	return nil
}

func (f *fakeBackend) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

// writeTestArtifact writes a rotated artifact and returns its path.
func writeTestArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wifi-scan.log.20260115093000.gz")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write test artifact: %v", err)
	}
	return path
}

// TestManager_ArchiveLog tests the full hash-upload-record pipeline.
func TestManager_ArchiveLog(t *testing.T) {
	store := createTempStore(t)
	manager := NewManager(store, nil, nil)
	defer manager.Close()

	backend := &fakeBackend{name: "cold"}
	manager.RegisterBackend(backend)

	content := "beacon frames from channel 6"
	path := writeTestArtifact(t, content)

	if err := manager.ArchiveLog(context.Background(), path, "cold"); err != nil {
		t.Fatalf("ArchiveLog() failed: %v", err)
	}

	if backend.uploadCount() != 1 {
		t.Fatalf("Expected 1 upload, got %d", backend.uploadCount())
	}

	sum := sha256.Sum256([]byte(content))
	wantHash := hex.EncodeToString(sum[:])
	if backend.uploads[0].hash != wantHash {
		t.Errorf("Expected content hash %s, got %s", wantHash, backend.uploads[0].hash)
	}

	records, err := store.FindBySourceFile(context.Background(), filepath.Base(path))
	if err != nil {
		t.Fatalf("FindBySourceFile() failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 archive record, got %d", len(records))
	}
	if records[0].Backend != "cold" {
		t.Errorf("Expected backend 'cold', got %q", records[0].Backend)
	}
	if records[0].ContentHash != wantHash {
		t.Errorf("Expected recorded hash %s, got %s", wantHash, records[0].ContentHash)
	}
}

// TestManager_ArchiveLog_UnknownBackend tests the configuration error path.
func TestManager_ArchiveLog_UnknownBackend(t *testing.T) {
	store := createTempStore(t)
	manager := NewManager(store, nil, nil)
	defer manager.Close()

	path := writeTestArtifact(t, "data")

	err := manager.ArchiveLog(context.Background(), path, "nonexistent")
	if err == nil {
		t.Fatal("Expected error for unknown backend")
	}

	var unknownErr *UnknownBackendError
	if !errors.As(err, &unknownErr) {
		t.Errorf("Expected UnknownBackendError, got %T: %v", err, err)
	}
}

// TestManager_ArchiveLog_UploadFailure verifies no record is written on failure.
func TestManager_ArchiveLog_UploadFailure(t *testing.T) {
	store := createTempStore(t)
	manager := NewManager(store, nil, nil)
	defer manager.Close()

	backend := &fakeBackend{name: "cold", fail: errors.New("connection refused")}
	manager.RegisterBackend(backend)

	path := writeTestArtifact(t, "data")

	if err := manager.ArchiveLog(context.Background(), path, "cold"); err == nil {
		t.Fatal("Expected upload failure to propagate")
	}

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no archive record after failed upload, got %d", count)
	}
}

// TestManager_ArchiveLog_Retry verifies retrying a failed archival records
// exactly one success and does not corrupt prior records.
func TestManager_ArchiveLog_Retry(t *testing.T) {
	store := createTempStore(t)
	manager := NewManager(store, nil, nil)
	defer manager.Close()

	backend := &fakeBackend{name: "cold", fail: errors.New("timeout")}
	manager.RegisterBackend(backend)

	path := writeTestArtifact(t, "data")
	ctx := context.Background()

	if err := manager.ArchiveLog(ctx, path, "cold"); err == nil {
		t.Fatal("Expected first attempt to fail")
	}

	backend.fail = nil
	if err := manager.ArchiveLog(ctx, path, "cold"); err != nil {
		t.Fatalf("Retry failed: %v", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected exactly 1 record after retry, got %d", count)
	}
}

// TestManager_Enqueue tests the async worker path.
func TestManager_Enqueue(t *testing.T) {
	store := createTempStore(t)
	manager := NewManager(store, &ManagerConfig{Workers: 1, QueueSize: 4}, nil)

	backend := &fakeBackend{name: "cold"}
	manager.RegisterBackend(backend)

	path := writeTestArtifact(t, "enqueued data")
	manager.Enqueue(Request{Path: path, Backend: "cold"})

	// Close drains the queue.
	manager.Close()

	if backend.uploadCount() != 1 {
		t.Fatalf("Expected 1 upload after drain, got %d", backend.uploadCount())
	}

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 record after drain, got %d", count)
	}
}

// TestManager_Enqueue_RemoveOnSuccess tests staging-area cleanup.
func TestManager_Enqueue_RemoveOnSuccess(t *testing.T) {
	store := createTempStore(t)
	manager := NewManager(store, &ManagerConfig{Workers: 1, QueueSize: 4}, nil)

	backend := &fakeBackend{name: "cold"}
	manager.RegisterBackend(backend)

	path := writeTestArtifact(t, "staged data")
	manager.Enqueue(Request{Path: path, Backend: "cold", RemoveOnSuccess: true})
	manager.Close()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected local artifact to be removed after successful archival")
	}
}

// TestManager_Enqueue_FullQueueNeverBlocks verifies a saturated queue drops
// instead of blocking the caller.
func TestManager_Enqueue_FullQueueNeverBlocks(t *testing.T) {
	store := createTempStore(t)
	manager := NewManager(store, &ManagerConfig{Workers: 1, QueueSize: 1}, nil)

	block := make(chan struct{})
	backend := &blockingBackend{name: "slow", release: block}
	manager.RegisterBackend(backend)

	path := writeTestArtifact(t, "data")

	// First request occupies the worker, subsequent fill and overflow the queue.
	for i := 0; i < 8; i++ {
		manager.Enqueue(Request{Path: path, Backend: "slow"})
	}

	close(block)
	manager.Close()
}

// blockingBackend blocks uploads until released.
type blockingBackend struct {
	name    string
	release chan struct{}
}

func (b *blockingBackend) Name() string { return b.name }

func (b *blockingBackend) Upload(ctx context.Context, localPath, contentHash string) error {
	<-b.release
	return nil
}

// TestLocalBackend_Upload tests the filesystem copy backend.
func TestLocalBackend_Upload(t *testing.T) {
	targetDir := filepath.Join(t.TempDir(), "cold-storage")
	backend := NewLocalBackend("local", targetDir)

	content := "probe requests"
	path := writeTestArtifact(t, content)

	if err := backend.Upload(context.Background(), path, "abc123"); err != nil {
		t.Fatalf("Upload() failed: %v", err)
	}

	copied, err := os.ReadFile(filepath.Join(targetDir, filepath.Base(path)))
	if err != nil {
		t.Fatalf("Failed to read copied artifact: %v", err)
	}
	if string(copied) != content {
		t.Errorf("Expected copied content %q, got %q", content, string(copied))
	}

	// Retried uploads overwrite rather than corrupt.
	if err := backend.Upload(context.Background(), path, "abc123"); err != nil {
		t.Fatalf("Repeat Upload() failed: %v", err)
	}
}

// TestLocalBackend_Upload_MissingSource tests the error path.
func TestLocalBackend_Upload_MissingSource(t *testing.T) {
	backend := NewLocalBackend("local", t.TempDir())

	err := backend.Upload(context.Background(), "/nonexistent/file.gz", "abc")
	if err == nil {
		t.Fatal("Expected error for missing source file")
	}

	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) {
		t.Errorf("Expected UploadError, got %T", err)
	}
}

// TestSyslogBackend_Upload verifies the placeholder always refuses.
func TestSyslogBackend_Upload(t *testing.T) {
	backend := NewSyslogBackend("fleet-syslog", "logs.example.net:514")

	err := backend.Upload(context.Background(), "/tmp/whatever.gz", "abc")
	if !errors.Is(err, ErrNotImplemented) {
		t.Errorf("Expected ErrNotImplemented, got %v", err)
	}
}
