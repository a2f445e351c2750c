package strategy

import (
	"time"

	"github.com/nilsbraun/swarmmesh/core"
	"github.com/nilsbraun/swarmmesh/logging"
)

// Options configures one Dispatch call. MaxConcurrency is clamped to ≥ 1
// by the caller (config.Config.clamp for construction defaults,
// callOptions.clamp for per-call overrides) — Dispatch trusts it as given.
type Options struct {
	Strategy          core.Strategy
	MaxConcurrency    int
	PerAttemptTimeout time.Duration
	Retries           int
	FailFast          bool
	IsolateContext    bool
	OrchestratorName  string
	Logger            logging.Logger
}
