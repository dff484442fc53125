// Package logging provides structured logger setup for Kestrel.
//
// All Kestrel components log through log/slog, deriving component loggers
// with slog.Default().With("component", ...). This package owns the handler
// construction: it parses the configured level and format, builds a JSON or
// text handler, and optionally installs it as the process default.
//
// Usage:
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	logging.SetDefault(logger)
package logging
