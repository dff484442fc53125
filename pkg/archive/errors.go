package archive

import "fmt"

// StorageError represents an error from the archive record store.
type StorageError struct {
	Backend   string // Store backend type ("sqlite")
	Operation string // Operation that failed ("store", "query", "delete", etc.)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("archive store error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}

// UnknownBackendError indicates a policy or caller referenced a storage
// backend name that was never registered with the Manager.
type UnknownBackendError struct {
	Name string // Backend name that was requested
}

// Error implements the error interface.
func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown archive backend %q", e.Name)
}

// UploadError represents a failed upload to a storage backend.
type UploadError struct {
	Backend string // Backend name
	File    string // Local path of the artifact
	Cause   error  // Underlying error
}

// Error implements the error interface.
func (e *UploadError) Error() string {
	return fmt.Sprintf("upload error [backend=%s, file=%s]: %v", e.Backend, e.File, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *UploadError) Unwrap() error {
	return e.Cause
}

// NewUploadError creates a new UploadError.
func NewUploadError(backend, file string, cause error) *UploadError {
	return &UploadError{
		Backend: backend,
		File:    file,
		Cause:   cause,
	}
}
