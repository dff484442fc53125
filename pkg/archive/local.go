package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalBackend copies rotated artifacts into a target directory under their
// original base name. It is intended for secondary disks or NFS mounts on
// small collection nodes that have no object storage available.
type LocalBackend struct {
	name string
	dir  string
}

// NewLocalBackend creates a local filesystem backend writing into dir.
// The directory is created on first upload if it does not exist.
func NewLocalBackend(name, dir string) *LocalBackend {
	return &LocalBackend{name: name, dir: dir}
}

// Name returns the backend's registered name.
func (b *LocalBackend) Name() string {
	return b.name
}

// Upload copies the artifact's bytes into the target directory. Re-uploading
// the same artifact overwrites the previous copy, which keeps retries
// idempotent.
func (b *LocalBackend) Upload(ctx context.Context, localPath, contentHash string) error {
	if err := ctx.Err(); err != nil {
		return NewUploadError(b.name, localPath, err)
	}

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return NewUploadError(b.name, localPath, fmt.Errorf("create target dir: %w", err))
	}

	src, err := os.Open(localPath)
	if err != nil {
		return NewUploadError(b.name, localPath, err)
	}
	defer src.Close()

	target := filepath.Join(b.dir, filepath.Base(localPath))
	tmp := target + ".partial"

	dst, err := os.Create(tmp)
	if err != nil {
		return NewUploadError(b.name, localPath, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(tmp)
		return NewUploadError(b.name, localPath, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmp)
		return NewUploadError(b.name, localPath, err)
	}

	// Rename so a crashed copy never masquerades as a complete artifact.
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return NewUploadError(b.name, localPath, err)
	}

	return nil
}
