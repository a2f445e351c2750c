package strategy

import (
	"context"
	"fmt"

	"github.com/nilsbraun/swarmmesh/core"
	"github.com/nilsbraun/swarmmesh/executor"
)

// dispatchSequential iterates targets in order, deriving a sub-context and
// running the executor for each. Once fail_fast is set and a result isn't
// successful, every remaining target is recorded as a skip without being
// invoked.
func dispatchSequential(ctx context.Context, targets []Target, parent *core.Context, opts Options) ([]core.SubAgentResult, error) {
	results := make([]core.SubAgentResult, len(targets))
	skipping := false

	for i, t := range targets {
		if skipping {
			results[i] = core.SkipResult(t.Agent.Name(), core.SkipFailFastSequential)
			continue
		}

		subCtx, err := core.Derive(parent, opts.IsolateContext, opts.OrchestratorName, t.Agent.Name())
		if err != nil {
			return nil, fmt.Errorf("sequential dispatch: %w", err)
		}

		result := executor.Run(ctx, t.Agent, t.Task, subCtx, opts.PerAttemptTimeout, opts.Retries, opts.Logger)
		results[i] = result

		if opts.FailFast && !result.Success {
			skipping = true
		}
	}

	return results, nil
}
