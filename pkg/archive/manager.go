package archive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"sigwatch-hq/kestrel/pkg/telemetry/metrics"
)

// hashChunkSize is the buffer size for streaming file hashing.
const hashChunkSize = 64 * 1024

// ManagerConfig contains configuration for the archive manager.
type ManagerConfig struct {
	// Workers is the number of background upload workers.
	// Default: 2
	Workers int

	// QueueSize is the size of the async upload queue. When the queue is
	// full new requests are dropped (logged), never blocking the caller.
	// Default: 64
	QueueSize int

	// UploadTimeout bounds one hash+upload attempt. A timeout is treated
	// identically to an upload failure. Default: 2 minutes.
	UploadTimeout time.Duration
}

// DefaultManagerConfig returns the default archive manager configuration.
func DefaultManagerConfig() *ManagerConfig {
	return &ManagerConfig{
		Workers:       2,
		QueueSize:     64,
		UploadTimeout: 2 * time.Minute,
	}
}

// Request is one queued archival request.
type Request struct {
	// Path is the local path of the rotated (possibly compressed) artifact.
	Path string

	// Backend is the registered backend name to upload to.
	Backend string

	// RemoveOnSuccess deletes the local artifact once the upload succeeds
	// and the record is written. Used by policies that treat local disk
	// as a staging area.
	RemoveOnSuccess bool
}

// Manager owns the registry of named storage backends, hashes rotated
// artifacts, delegates uploads, and persists an ArchiveRecord per success.
//
// Rotation hands artifacts to Enqueue, which never blocks: uploads run on a
// fixed worker pool so a slow backend cannot delay the log writer.
type Manager struct {
	config   *ManagerConfig
	store    *RecordStore
	metrics  *metrics.Collector
	logger   *slog.Logger
	requests chan Request
	wg       sync.WaitGroup

	mu       sync.RWMutex
	backends map[string]Backend

	closeOnce sync.Once
}

// NewManager creates an archive manager backed by the given record store.
// collector may be nil. Close must be called to drain the upload workers.
func NewManager(store *RecordStore, config *ManagerConfig, collector *metrics.Collector) *Manager {
	if config == nil {
		config = DefaultManagerConfig()
	}
	if config.Workers <= 0 {
		config.Workers = 2
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 64
	}
	if config.UploadTimeout <= 0 {
		config.UploadTimeout = 2 * time.Minute
	}

	m := &Manager{
		config:   config,
		store:    store,
		metrics:  collector,
		logger:   slog.Default().With("component", "archive.manager"),
		requests: make(chan Request, config.QueueSize),
		backends: make(map[string]Backend),
	}

	for i := 0; i < config.Workers; i++ {
		m.wg.Add(1)
		go m.runWorker()
	}

	return m
}

// RegisterBackend adds a named backend to the registry, replacing any
// previous backend with the same name.
func (m *Manager) RegisterBackend(b Backend) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backends[b.Name()] = b
}

// Backend returns the backend registered under name.
func (m *Manager) Backend(name string) (Backend, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.backends[name]
	if !ok {
		return nil, &UnknownBackendError{Name: name}
	}
	return b, nil
}

// ArchiveLog hashes the artifact, uploads it to the named backend, and on
// success persists one ArchiveRecord and reports the artifact size to the
// metrics sink. On any failure no record is written.
func (m *Manager) ArchiveLog(ctx context.Context, path, backendName string) error {
	backend, err := m.Backend(backendName)
	if err != nil {
		return err
	}

	contentHash, size, err := hashFile(path)
	if err != nil {
		return NewUploadError(backendName, path, fmt.Errorf("hash file: %w", err))
	}

	if err := backend.Upload(ctx, path, contentHash); err != nil {
		m.metrics.RecordArchiveUpload(backendName, metrics.OutcomeFailure)
		return err
	}

	record := &Record{
		ID:          uuid.NewString(),
		SourceFile:  filepath.Base(path),
		Backend:     backendName,
		ContentHash: contentHash,
		ArchivedAt:  time.Now().UTC(),
	}

	if err := m.store.Store(ctx, record); err != nil {
		// The artifact is durably uploaded but unrecorded; retention will
		// never expire it remotely. Surface the error so callers log it.
		m.metrics.RecordArchiveUpload(backendName, metrics.OutcomeFailure)
		return fmt.Errorf("record archival of %s: %w", path, err)
	}

	m.metrics.RecordArchiveUpload(backendName, metrics.OutcomeSuccess)
	m.metrics.SetArchiveSize(backendName, size)

	m.logger.Info("artifact archived",
		"file", record.SourceFile,
		"backend", backendName,
		"size", size,
		"content_hash", contentHash,
	)

	return nil
}

// Enqueue hands an archival request to the worker pool without blocking.
// When the queue is full the request is dropped and logged; the artifact
// stays on local disk where max_files pruning eventually caps it.
func (m *Manager) Enqueue(req Request) {
	select {
	case m.requests <- req:
	default:
		m.metrics.RecordArchiveUpload(req.Backend, metrics.OutcomeFailure)
		m.logger.Error("archive queue full, dropping request",
			"file", req.Path,
			"backend", req.Backend,
		)
	}
}

// runWorker consumes archival requests until the queue is closed.
func (m *Manager) runWorker() {
	defer m.wg.Done()

	for req := range m.requests {
		m.process(req)
	}
}

// process runs one archival attempt with the configured upload timeout.
// Failures are logged and swallowed: archival is best-effort and must never
// propagate back to the rotation path.
func (m *Manager) process(req Request) {
	ctx, cancel := context.WithTimeout(context.Background(), m.config.UploadTimeout)
	defer cancel()

	if err := m.ArchiveLog(ctx, req.Path, req.Backend); err != nil {
		m.logger.Error("archival failed",
			"file", req.Path,
			"backend", req.Backend,
			"error", err,
		)
		return
	}

	if req.RemoveOnSuccess {
		if err := os.Remove(req.Path); err != nil && !os.IsNotExist(err) {
			m.logger.Warn("failed to remove archived artifact",
				"file", req.Path,
				"error", err,
			)
		}
	}
}

// Close stops accepting requests and waits for in-flight uploads to finish.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.requests)
		m.wg.Wait()
	})
}

// hashFile computes the hex-encoded SHA-256 of the file's bytes, streaming
// in fixed-size chunks so large capture logs never load into memory whole.
// It also returns the file size in bytes.
func hashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, hashChunkSize)
	size, err := io.CopyBuffer(h, f, buf)
	if err != nil {
		return "", 0, err
	}

	return hex.EncodeToString(h.Sum(nil)), size, nil
}
