package archive

import (
	"context"
	"time"
)

// Record is the archival metadata persisted for every successfully uploaded
// artifact. Records are created exactly once per upload and never mutated;
// retention sweeps read and eventually delete them.
type Record struct {
	// ID is a unique record identifier (UUID).
	ID string

	// SourceFile is the base name of the rotated artifact at upload time.
	SourceFile string

	// Backend is the name of the storage backend that holds the artifact.
	Backend string

	// ContentHash is the hex-encoded SHA-256 digest of the artifact's
	// bytes at upload time.
	ContentHash string

	// ArchivedAt is the upload completion timestamp (UTC).
	ArchivedAt time.Time
}

// Backend is a pluggable destination capable of durably storing a rotated
// log artifact outside the local filesystem.
//
// Upload must be idempotent from the caller's perspective: callers retry
// failed archivals and a repeated upload of the same artifact must not
// corrupt a prior copy. Implementations must be safe for concurrent use.
type Backend interface {
	// Upload stores the file at localPath. contentHash is the hex-encoded
	// SHA-256 of the file, supplied so backends can attach it as
	// integrity metadata.
	Upload(ctx context.Context, localPath, contentHash string) error

	// Name returns the backend's registered name.
	Name() string
}
