package archive

import (
	"context"
	"errors"
	"log/slog"
)

// ErrNotImplemented is returned by backends that exist in the configuration
// schema but have no working transport yet.
var ErrNotImplemented = errors.New("backend transport not implemented")

// SyslogBackend is a placeholder for forwarding rotated artifacts to a
// remote syslog collector. It accepts an address in configuration so fleet
// configs can declare the backend ahead of the transport landing, but every
// upload reports not-implemented.
type SyslogBackend struct {
	name    string
	address string
	logger  *slog.Logger
}

// NewSyslogBackend creates the placeholder backend for the given address.
func NewSyslogBackend(name, address string) *SyslogBackend {
	return &SyslogBackend{
		name:    name,
		address: address,
		logger:  slog.Default().With("component", "archive.syslog"),
	}
}

// Name returns the backend's registered name.
func (b *SyslogBackend) Name() string {
	return b.name
}

// Upload always fails with ErrNotImplemented.
func (b *SyslogBackend) Upload(ctx context.Context, localPath, contentHash string) error {
	b.logger.Warn("syslog backend has no transport, refusing upload",
		"address", b.address,
		"file", localPath,
	)
	return NewUploadError(b.name, localPath, ErrNotImplemented)
}
