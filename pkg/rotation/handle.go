package rotation

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/sys/unix"

	"sigwatch-hq/kestrel/pkg/archive"
	"sigwatch-hq/kestrel/pkg/telemetry/metrics"
)

// rotatedTimestampLayout is the UTC suffix appended to rotated files.
const rotatedTimestampLayout = "20060102150405"

// Archiver accepts asynchronous archival requests for rotated artifacts.
// archive.Manager satisfies this interface.
type Archiver interface {
	Enqueue(req archive.Request)
}

// Handle is the per-log-file rotation unit. It holds the file's policy,
// evaluates rotation triggers, and performs the rotation action. The host
// logging framework writes records through it (Handle is an io.Writer);
// trigger checks run inline on that path, and the scheduler polls it so
// time- and disk-based triggers fire even when nothing is being logged.
//
// All check-then-act sequences are serialized by the handle's mutex.
type Handle struct {
	mu           sync.Mutex
	path         string
	policy       *Policy
	file         *os.File
	lastRollover time.Time

	archiver Archiver
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// NewHandle creates a rotation handle bound to the log file at path and
// opens the active stream for appending. archiver and collector may be nil.
func NewHandle(path string, policy *Policy, archiver Archiver, collector *metrics.Collector) (*Handle, error) {
	if policy == nil {
		return nil, NewConfigurationError("policy", "<nil>", fmt.Errorf("policy is required"))
	}

	h := &Handle{
		path:         path,
		policy:       policy,
		lastRollover: time.Now(),
		archiver:     archiver,
		metrics:      collector,
		logger: slog.Default().With(
			"component", "rotation.handle",
			"file", path,
			"policy", policy.Name,
		),
	}

	if err := h.openLocked(); err != nil {
		return nil, err
	}

	return h, nil
}

// Path returns the active log file path.
func (h *Handle) Path() string {
	return h.path
}

// Policy returns the handle's current policy.
func (h *Handle) Policy() *Policy {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.policy
}

// SetPolicy swaps the handle's policy. Used by configuration hot reload;
// takes effect on the next trigger evaluation.
func (h *Handle) SetPolicy(p *Policy) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.policy = p
}

// Write appends a record to the active log file, then rotates if the
// append crossed a trigger. Checking after the append means the crossing
// record lands in the rotated artifact and the active file starts empty.
// A failed rotation is logged and swallowed, so the producer never loses
// records.
func (h *Handle) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.file == nil {
		if err := h.openLocked(); err != nil {
			return 0, err
		}
	}

	n, err := h.file.Write(p)
	if err != nil {
		return n, err
	}

	if h.shouldRolloverLocked() {
		if err := h.rolloverLocked(); err != nil {
			h.logger.Error("rotation failed, continuing on active file", "error", err)
		}
	}

	return n, nil
}

// ShouldRollover reports whether any configured trigger is satisfied.
func (h *Handle) ShouldRollover() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.shouldRolloverLocked()
}

// shouldRolloverLocked evaluates the size, age, and free-space triggers.
// Caller must hold h.mu.
func (h *Handle) shouldRolloverLocked() bool {
	if h.policy.HasSizeTrigger() {
		if info, err := os.Stat(h.path); err == nil && info.Size() >= h.policy.MaxSizeBytes {
			return true
		}
		// Missing file: nothing to rotate, not an error.
	}

	if h.policy.HasAgeTrigger() {
		if time.Since(h.lastRollover) >= h.policy.MaxAge {
			return true
		}
	}

	if h.policy.HasFreeSpaceTrigger() {
		if free, err := freeSpace(filepath.Dir(h.path)); err == nil && free < h.policy.MinFreeSpaceBytes {
			return true
		}
	}

	return false
}

// Rollover performs the rotation action regardless of trigger state. It is
// the manual force-rotation entry point and the scheduler's action once a
// trigger check reports due.
func (h *Handle) Rollover() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rolloverLocked()
}

// rolloverLocked executes the atomic rotation action. Caller must hold h.mu.
//
// Rename and compression failures abort the attempt with the active file
// intact. Archival is enqueued, never awaited: the lock must not be held
// across an upload.
func (h *Handle) rolloverLocked() error {
	h.metrics.RecordRotation(h.policy.Name, metrics.OutcomeStart)

	if h.file != nil {
		if err := h.file.Close(); err != nil {
			h.logger.Warn("failed to close active stream", "error", err)
		}
		h.file = nil
	}

	rotated := h.path + "." + time.Now().UTC().Format(rotatedTimestampLayout)

	_, statErr := os.Stat(h.path)
	switch {
	case statErr == nil:
		if err := os.Rename(h.path, rotated); err != nil {
			h.metrics.RecordRotation(h.policy.Name, metrics.OutcomeFailure)
			if openErr := h.openLocked(); openErr != nil {
				h.logger.Error("failed to reopen active stream after aborted rotation", "error", openErr)
			}
			return NewRotationError(h.path, err)
		}

		artifact := rotated
		if h.policy.CompressionEnabled {
			start := time.Now()
			compressed, err := compressFile(rotated, h.policy.CompressionLevel)
			if err != nil {
				h.metrics.RecordRotation(h.policy.Name, metrics.OutcomeFailure)
				if openErr := h.openLocked(); openErr != nil {
					h.logger.Error("failed to reopen active stream after failed compression", "error", openErr)
				}
				return NewCompressionError(rotated, err)
			}
			h.metrics.ObserveCompressionDuration(h.policy.Name, time.Since(start))
			artifact = compressed
		}

		if h.policy.ArchiveBackend != "" && h.archiver != nil {
			h.archiver.Enqueue(archive.Request{
				Path:            artifact,
				Backend:         h.policy.ArchiveBackend,
				RemoveOnSuccess: h.policy.DeleteAfterArchive,
			})
		}

	case os.IsNotExist(statErr):
		// Rotating an empty or missing file is legal and produces nothing
		// to rotate.
		h.logger.Debug("active file missing, nothing to rotate")

	default:
		h.metrics.RecordRotation(h.policy.Name, metrics.OutcomeFailure)
		if openErr := h.openLocked(); openErr != nil {
			h.logger.Error("failed to reopen active stream after aborted rotation", "error", openErr)
		}
		return NewRotationError(h.path, statErr)
	}

	h.pruneLocked()

	h.lastRollover = time.Now()
	if err := h.openLocked(); err != nil {
		h.metrics.RecordRotation(h.policy.Name, metrics.OutcomeFailure)
		return err
	}

	h.metrics.RecordRotation(h.policy.Name, metrics.OutcomeSuccess)
	h.logger.Info("log rotated", "rotated", rotated)

	return nil
}

// CompressOldFiles compresses rotated-but-uncompressed artifacts left over
// from a crash or a policy change, deleting each plaintext original on
// success. Invoked by the daily maintenance job, not by the hot path.
//
// The sweep holds h.mu for its whole duration: a concurrent rotation
// compresses the freshly renamed plaintext under the same lock, and two
// writers racing on one .gz would corrupt it.
func (h *Handle) CompressOldFiles() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.policy.CompressionEnabled {
		return nil
	}

	artifacts, err := h.rotatedArtifacts()
	if err != nil {
		return err
	}

	for _, a := range artifacts {
		if strings.HasSuffix(a.path, ".gz") {
			continue
		}
		if _, err := compressFile(a.path, h.policy.CompressionLevel); err != nil {
			h.logger.Error("failed to compress leftover artifact",
				"artifact", a.path,
				"error", err,
			)
			continue
		}
		h.logger.Info("compressed leftover artifact", "artifact", a.path)
	}

	return nil
}

// Prune deletes rotated artifacts beyond the policy's max_files cap,
// oldest first. Exposed for the daily maintenance job.
func (h *Handle) Prune() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pruneLocked()
}

// pruneLocked enforces max_files. Per-file deletion failures are logged
// individually and never abort the prune. Caller must hold h.mu.
func (h *Handle) pruneLocked() {
	maxFiles := h.policy.MaxFiles
	if maxFiles <= 0 {
		return
	}

	artifacts, err := h.rotatedArtifacts()
	if err != nil {
		h.logger.Error("failed to list rotated artifacts", "error", err)
		return
	}

	if len(artifacts) <= maxFiles {
		return
	}

	for _, a := range artifacts[maxFiles:] {
		if err := os.Remove(a.path); err != nil {
			h.logger.Error("failed to prune artifact", "error", NewCleanupError(a.path, err))
			continue
		}
		h.logger.Debug("pruned artifact", "artifact", a.path)
	}
}

// Close flushes and closes the active stream.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.file == nil {
		return nil
	}

	err := h.file.Close()
	h.file = nil
	return err
}

// openLocked opens the active file for appending. Caller must hold h.mu.
func (h *Handle) openLocked() error {
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return NewRotationError(h.path, err)
	}

	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return NewRotationError(h.path, err)
	}

	h.file = f
	return nil
}

// artifact is one rotated sibling of the active file.
type artifact struct {
	path    string
	modTime time.Time
}

// rotatedArtifacts lists the handle's rotated files, newest first by
// modification time. Only names matching {path}.{14-digit timestamp} with
// an optional .gz suffix are considered.
func (h *Handle) rotatedArtifacts() ([]artifact, error) {
	matches, err := filepath.Glob(h.path + ".*")
	if err != nil {
		return nil, err
	}

	artifacts := make([]artifact, 0, len(matches))
	for _, m := range matches {
		if !isRotatedName(h.path, m) {
			continue
		}
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		artifacts = append(artifacts, artifact{path: m, modTime: info.ModTime()})
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].modTime.After(artifacts[j].modTime)
	})

	return artifacts, nil
}

// isRotatedName reports whether candidate is a rotated sibling of base.
func isRotatedName(base, candidate string) bool {
	suffix := strings.TrimPrefix(candidate, base+".")
	if suffix == candidate {
		return false
	}
	suffix = strings.TrimSuffix(suffix, ".gz")

	if len(suffix) != len(rotatedTimestampLayout) {
		return false
	}
	for _, c := range suffix {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// compressFile gzips src into src.gz at the given level and deletes src on
// success. A partial .gz is removed on failure so it can never stand in
// place of the original.
func compressFile(src string, level int) (string, error) {
	if level < gzip.BestSpeed || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}

	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	dst := src + ".gz"
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}

	gw, err := gzip.NewWriterLevel(out, level)
	if err != nil {
		out.Close()
		os.Remove(dst)
		return "", err
	}

	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		out.Close()
		os.Remove(dst)
		return "", err
	}
	if err := gw.Close(); err != nil {
		out.Close()
		os.Remove(dst)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", err
	}

	if err := os.Remove(src); err != nil {
		return "", err
	}

	return dst, nil
}

// freeSpace returns the available bytes on the volume holding dir.
func freeSpace(dir string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(dir, &st); err != nil {
		return 0, err
	}
	return uint64(st.Bavail) * uint64(st.Bsize), nil
}
