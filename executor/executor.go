package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nilsbraun/swarmmesh/core"
	"github.com/nilsbraun/swarmmesh/logging"
)

// Run executes agent against task under execCtx, retrying up to retries
// additional times (negative retries is treated as 0) after the first
// attempt. Each attempt is bounded by perAttemptTimeout when it is
// positive; a zero or negative value means no timeout. Retries are
// immediate — there is no backoff between attempts.
//
// Run always returns a fully-populated core.SubAgentResult; it never
// returns an error itself. The returned result's Success is true iff the
// final attempt completed without error and without timing out.
func Run(
	ctx context.Context,
	agent core.SubAgent,
	task string,
	execCtx *core.Context,
	perAttemptTimeout time.Duration,
	retries int,
	logger logging.Logger,
) core.SubAgentResult {
	if retries < 0 {
		retries = 0
	}
	maxAttempts := retries + 1

	start := time.Now()

	var (
		attempts int
		output   any
		lastErr  string
		timedOut bool
		success  bool
	)

	for attempts < maxAttempts {
		attempts++
		timedOut = false

		attemptCtx, cancel := withAttemptTimeout(ctx, perAttemptTimeout)
		out, err := agent.Execute(attemptCtx, task, execCtx)
		deadlineExceeded := perAttemptTimeout > 0 && errors.Is(attemptCtx.Err(), context.DeadlineExceeded)
		cancel()

		if err == nil && !deadlineExceeded {
			output = out
			success = true
			break
		}

		if deadlineExceeded {
			timedOut = true
			lastErr = fmt.Sprintf("%s%.3fs", core.TimeoutErrorPrefix, perAttemptTimeout.Seconds())
		} else {
			lastErr = err.Error()
		}

	}

	duration := time.Since(start)

	result := core.SubAgentResult{
		Agent:      agent.Name(),
		Success:    success,
		Output:     output,
		Attempts:   attempts,
		TimedOut:   timedOut,
		DurationMs: duration.Milliseconds(),
	}
	if !success {
		msg := lastErr
		result.Error = &msg
		if logger != nil {
			logger.Warn("sub-agent attempt failed", "agent", agent.Name(), "attempts", attempts, "timed_out", result.TimedOut, "error", lastErr)
		}
	}

	return result
}

// withAttemptTimeout derives a per-attempt context: a deadline-bound child
// of ctx when timeout is positive, or a plain cancelable child otherwise.
func withAttemptTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}
