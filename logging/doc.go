// Package logging provides a minimal logging interface over log/slog so the
// orchestrator, strategy engine and executor can emit structured records
// without depending on a concrete logging transport.
//
// The Logger interface defines the standard methods (Debug, Info, Warn,
// Error) used for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping an arbitrary *slog.Logger
//   - NoOpLogger for silent operation (tests, minimal setups)
package logging
