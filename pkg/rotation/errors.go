package rotation

import "fmt"

// ConfigurationError indicates a caller referenced an unknown policy or an
// unregistered log file. It is fatal to the operation that requested it.
type ConfigurationError struct {
	Item  string // What was looked up ("policy", "handle")
	Name  string // The name or path that failed to resolve
	Cause error  // Underlying error, if any
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error [%s=%s]: %v", e.Item, e.Name, e.Cause)
	}
	return fmt.Sprintf("configuration error: unknown %s %q", e.Item, e.Name)
}

// Unwrap returns the underlying cause error.
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a new ConfigurationError.
func NewConfigurationError(item, name string, cause error) *ConfigurationError {
	return &ConfigurationError{Item: item, Name: name, Cause: cause}
}

// RotationError indicates the rename of an active log file failed. The
// rotation attempt aborts and the active file is left untouched.
type RotationError struct {
	File  string // Active log file path
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *RotationError) Error() string {
	return fmt.Sprintf("rotation error [file=%s]: %v", e.File, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *RotationError) Unwrap() error {
	return e.Cause
}

// NewRotationError creates a new RotationError.
func NewRotationError(file string, cause error) *RotationError {
	return &RotationError{File: file, Cause: cause}
}

// CompressionError indicates gzip compression of a rotated artifact failed.
// It is fatal to that rotation attempt: a partial compressed artifact is
// never allowed to stand in place of the original.
type CompressionError struct {
	File  string // Rotated artifact path
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *CompressionError) Error() string {
	return fmt.Sprintf("compression error [file=%s]: %v", e.File, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *CompressionError) Unwrap() error {
	return e.Cause
}

// NewCompressionError creates a new CompressionError.
func NewCompressionError(file string, cause error) *CompressionError {
	return &CompressionError{File: file, Cause: cause}
}

// CleanupError indicates a single artifact could not be deleted during
// pruning or a retention sweep. It is logged per file and never aborts the
// surrounding sweep.
type CleanupError struct {
	Path  string // Artifact that failed to delete
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *CleanupError) Error() string {
	return fmt.Sprintf("cleanup error [path=%s]: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *CleanupError) Unwrap() error {
	return e.Cause
}

// NewCleanupError creates a new CleanupError.
func NewCleanupError(path string, cause error) *CleanupError {
	return &CleanupError{Path: path, Cause: cause}
}
