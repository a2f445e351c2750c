package strategy

import (
	"context"

	"github.com/nilsbraun/swarmmesh/core"
)

// Dispatch runs targets against parent according to opts.Strategy and
// returns their results in original target order. It returns a non-nil
// error only for a hard context-derivation failure (spec §7 outcome 5);
// sub-agent failures, timeouts and fail-fast skips are all folded into the
// returned results.
func Dispatch(ctx context.Context, targets []Target, parent *core.Context, opts Options) ([]core.SubAgentResult, error) {
	if opts.Strategy == core.Sequential {
		return dispatchSequential(ctx, targets, parent, opts)
	}
	return dispatchParallel(ctx, targets, parent, opts)
}
