package core

import "context"

// SubAgent is the narrow capability the orchestrator dispatches against.
// Implementations need a stable Name and an Execute method, which may be
// called from several goroutines at once; nothing else is required. Failure is signaled by returning a non-nil
// error from Execute — the orchestrator never inspects panics.
//
// Execute must respect ctx cancellation: once ctx is done it should return
// promptly with ctx.Err() (or any more specific error) rather than continue
// working. Implementations that ignore cancellation are still supported —
// the per-attempt timeout (package executor) and fail-fast cancellation
// (package strategy) are cooperative, not preemptive.
type SubAgent interface {
	// Name returns the sub-agent's stable, registry-unique name.
	Name() string

	// Execute runs task under ctx against the supplied Context and returns
	// the produced output, or an error describing the failure.
	Execute(ctx context.Context, task string, execCtx *Context) (any, error)
}

// SubAgentFunc adapts a plain function to the SubAgent interface, the same
// way http.HandlerFunc adapts a function to http.Handler. Useful for tests
// and for small sub-agents that don't need any state of their own.
type SubAgentFunc struct {
	AgentName string
	Fn        func(ctx context.Context, task string, execCtx *Context) (any, error)
}

// Name returns the configured agent name.
func (f SubAgentFunc) Name() string { return f.AgentName }

// Execute delegates to the wrapped function.
func (f SubAgentFunc) Execute(ctx context.Context, task string, execCtx *Context) (any, error) {
	return f.Fn(ctx, task, execCtx)
}
