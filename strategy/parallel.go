package strategy

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/nilsbraun/swarmmesh/core"
	"github.com/nilsbraun/swarmmesh/executor"
	"golang.org/x/sync/semaphore"
)

// dispatchParallel fans out to all targets concurrently, bounded by a
// weighted semaphore of capacity opts.MaxConcurrency. When fail_fast is
// set, the first non-successful result cancels a shared context: targets
// still waiting on the semaphore are recorded as cancelled without ever
// entering the executor, and in-flight executor calls observe the
// cancellation cooperatively through their per-attempt context. Dispatch
// does not return until every goroutine — including ones mid-attempt when
// cancellation fired — has finished.
func dispatchParallel(ctx context.Context, targets []Target, parent *core.Context, opts Options) ([]core.SubAgentResult, error) {
	cancelCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := semaphore.NewWeighted(int64(opts.MaxConcurrency))
	results := make([]core.SubAgentResult, len(targets))

	var (
		wg            sync.WaitGroup
		failTriggered atomic.Bool
		derivationErr atomic.Pointer[error]
	)

	for i, t := range targets {
		// Acquire in target order so a target never starts ahead of an
		// earlier one that is still waiting for a slot.
		if err := sem.Acquire(cancelCtx, 1); err != nil {
			results[i] = core.SkipResult(t.Agent.Name(), core.SkipFailFastParallel)
			continue
		}
		wg.Add(1)
		go func(i int, t Target) {
			defer wg.Done()
			defer sem.Release(1)

			if failTriggered.Load() {
				results[i] = core.SkipResult(t.Agent.Name(), core.SkipFailFastParallel)
				return
			}

			subCtx, err := core.Derive(parent, opts.IsolateContext, opts.OrchestratorName, t.Agent.Name())
			if err != nil {
				wrapped := fmt.Errorf("parallel dispatch: %w", err)
				derivationErr.Store(&wrapped)
				return
			}

			result := executor.Run(cancelCtx, t.Agent, t.Task, subCtx, opts.PerAttemptTimeout, opts.Retries, opts.Logger)
			results[i] = result

			if opts.FailFast && !result.Success && failTriggered.CompareAndSwap(false, true) {
				cancel()
			}
		}(i, t)
	}

	wg.Wait()

	if errPtr := derivationErr.Load(); errPtr != nil {
		return nil, *errPtr
	}
	return results, nil
}
