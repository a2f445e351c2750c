package core

import "errors"

// Programmer errors surfaced synchronously from the public API (spec §7,
// outcomes 4–5). ErrNamingConflict, ErrUnknownAgent and ErrInvalidConfig are
// returned before any sub-agent execution begins; ErrContextDerivation is
// returned from the swarm call in place of a report, possibly after earlier
// targets have already run. Each is wrapped with additional context via
// fmt.Errorf("...: %w", ...) at the call site.
var (
	// ErrNamingConflict is returned when a sub-agent is registered under
	// the orchestrator's own name.
	ErrNamingConflict = errors.New("naming conflict: sub-agent name collides with orchestrator name")
	// ErrUnknownAgent is returned when a target filter names an agent
	// that is not present in the registry.
	ErrUnknownAgent = errors.New("unknown agent")
	// ErrInvalidConfig is returned when a configuration value cannot be
	// decoded to its field's type. Non-positive concurrency settings are
	// clamped to 1 rather than rejected.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrContextDerivation is returned when a sub-context cannot be
	// derived, e.g. because State holds a non-copyable value.
	ErrContextDerivation = errors.New("context derivation failed")
)
