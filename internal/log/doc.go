// Package log provides logger construction for tangomine, built on top
// of the standard slog package.
//
// This package extends slog to provide:
//   - Configurable log levels with verbose mode support
//   - A component attribute stamped onto every record so interleaved
//     output from the pipeline stages stays attributable
//   - Consistent log formatting across the application
//
// # Usage
//
//	// Create the process logger
//	logger := log.NewLogger(os.Stderr, verbose)
//
//	// Derive a component logger for a subsystem
//	cacheLogger := log.WithComponent(logger, "tokencache")
//	cacheLogger.Debug("mtime index loaded", "entries", n)
//	// => level=DEBUG msg="mtime index loaded" entries=42 component=tokencache
//
// Library packages accept a plain *slog.Logger through functional
// options and default to slog.Default(), so they stay usable without
// this package.
package log
