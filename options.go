package swarmmesh

import (
	"time"

	"github.com/nilsbraun/swarmmesh/config"
	"github.com/nilsbraun/swarmmesh/core"
	"github.com/nilsbraun/swarmmesh/logging"
	"github.com/nilsbraun/swarmmesh/metrics"
)

// Options configures a new Orchestrator. Construction defaults come from
// config.Default(); ConfigMap, if set, is decoded over those defaults via
// config.FromMap before any explicit field below is applied.
type Options struct {
	// Name is the orchestrator's own name, reserved against its registry
	// (see core.ErrNamingConflict).
	Name string
	// ConfigMap is the plain construction config map from spec §6,
	// decoded via config.FromMap. Explicit fields on Options below take
	// precedence over values decoded from ConfigMap.
	ConfigMap map[string]any

	Strategy           core.Strategy
	MaxConcurrency     int
	SubAgentTimeout    time.Duration
	SubAgentRetries    int
	FailFast           bool
	IsolateContext     bool
	MaxTaskConcurrency int

	Logger      logging.Logger
	MetricsSink metrics.Sink
}

func defaultOptions() Options {
	cfg := config.Default()
	return Options{
		Name:               "orchestrator",
		Strategy:           cfg.ParsedStrategy(),
		MaxConcurrency:     cfg.MaxConcurrency,
		SubAgentTimeout:    cfg.SubAgentTimeout(),
		SubAgentRetries:    cfg.SubAgentRetries,
		FailFast:           cfg.FailFast,
		IsolateContext:     cfg.IsolateContext,
		MaxTaskConcurrency: cfg.MaxTaskConcurrency,
		Logger:             logging.NoOpLogger{},
		MetricsSink:        metrics.NoOpSink{},
	}
}

// applyConfig overlays cfg onto o's construction-time fields. Called once
// during New, after ConfigMap (if any) has been decoded into cfg, and
// before the caller's explicit optFns run — so explicit Options fields set
// via functional options always win over ConfigMap.
func (o *Options) applyConfig(cfg config.Config) {
	o.Strategy = cfg.ParsedStrategy()
	o.MaxConcurrency = cfg.MaxConcurrency
	o.SubAgentTimeout = cfg.SubAgentTimeout()
	o.SubAgentRetries = cfg.SubAgentRetries
	o.FailFast = cfg.FailFast
	o.IsolateContext = cfg.IsolateContext
	o.MaxTaskConcurrency = cfg.MaxTaskConcurrency
}

// WithName sets the orchestrator's own reserved name.
func WithName(name string) func(*Options) {
	return func(o *Options) { o.Name = name }
}

// WithConfigMap sets the plain construction config map (spec §6),
// decoded via config.FromMap before other functional options are applied.
func WithConfigMap(m map[string]any) func(*Options) {
	return func(o *Options) { o.ConfigMap = m }
}

// WithStrategy overrides the default dispatch strategy.
func WithStrategy(s core.Strategy) func(*Options) {
	return func(o *Options) { o.Strategy = s }
}

// WithMaxConcurrency overrides the per-swarm parallel fan-out cap.
func WithMaxConcurrency(n int) func(*Options) {
	return func(o *Options) { o.MaxConcurrency = n }
}

// WithSubAgentTimeout overrides the per-attempt timeout. A non-positive
// value means no timeout.
func WithSubAgentTimeout(d time.Duration) func(*Options) {
	return func(o *Options) { o.SubAgentTimeout = d }
}

// WithSubAgentRetries overrides the retry budget.
func WithSubAgentRetries(n int) func(*Options) {
	return func(o *Options) { o.SubAgentRetries = n }
}

// WithFailFast overrides the fail-fast policy.
func WithFailFast(b bool) func(*Options) {
	return func(o *Options) { o.FailFast = b }
}

// WithIsolateContext overrides the context-isolation policy.
func WithIsolateContext(b bool) func(*Options) {
	return func(o *Options) { o.IsolateContext = b }
}

// WithMaxTaskConcurrency overrides the mass-swarm task-level concurrency cap.
func WithMaxTaskConcurrency(n int) func(*Options) {
	return func(o *Options) { o.MaxTaskConcurrency = n }
}

// WithLogger overrides the structured logger used for operation and
// sub-agent log records. A nil logger is replaced with logging.NoOpLogger.
func WithLogger(l logging.Logger) func(*Options) {
	return func(o *Options) { o.Logger = l }
}

// WithMetricsSink overrides the metrics sink operations report to.
func WithMetricsSink(s metrics.Sink) func(*Options) {
	return func(o *Options) { o.MetricsSink = s }
}

// callOptions captures the subset of Options a single ExecuteSwarm or
// ExecuteMassSwarm call can override, per spec §6 "per-call overrides
// supersede the construction defaults for that call only".
type callOptions struct {
	targetAgents []string
	subTasks     map[string]string

	strategy           core.Strategy
	maxConcurrency     int
	subAgentTimeout    time.Duration
	subAgentRetries    int
	failFast           bool
	isolateContext     bool
	maxTaskConcurrency int
	parallelTasks      bool
}

func (o *Options) callDefaults() callOptions {
	return callOptions{
		strategy:           o.Strategy,
		maxConcurrency:     o.MaxConcurrency,
		subAgentTimeout:    o.SubAgentTimeout,
		subAgentRetries:    o.SubAgentRetries,
		failFast:           o.FailFast,
		isolateContext:     o.IsolateContext,
		maxTaskConcurrency: o.MaxTaskConcurrency,
		parallelTasks:      true,
	}
}

// clamp enforces the same floors config.Config.clamp applies to the
// construction defaults: a CallOption can lower maxConcurrency or
// maxTaskConcurrency below 1, which would otherwise reach
// semaphore.NewWeighted with a non-positive capacity and block forever on
// the first Acquire. Called after every CallOption has been applied.
func (c *callOptions) clamp() {
	if c.maxConcurrency < 1 {
		c.maxConcurrency = 1
	}
	if c.maxTaskConcurrency < 1 {
		c.maxTaskConcurrency = 1
	}
	if c.subAgentRetries < 0 {
		c.subAgentRetries = 0
	}
}

// CallOption overrides construction defaults for a single ExecuteSwarm or
// ExecuteMassSwarm call.
type CallOption func(*callOptions)

// WithTargetAgents restricts the call to exactly the named sub-agents, in
// the given order. Unresolvable names surface core.ErrUnknownAgent before
// any execution starts.
func WithTargetAgents(names ...string) CallOption {
	return func(c *callOptions) { c.targetAgents = names }
}

// WithSubTasks supplies per-agent task overrides, keyed by sub-agent name.
func WithSubTasks(subTasks map[string]string) CallOption {
	return func(c *callOptions) { c.subTasks = subTasks }
}

// WithCallStrategy overrides the dispatch strategy for this call only.
func WithCallStrategy(s core.Strategy) CallOption {
	return func(c *callOptions) { c.strategy = s }
}

// WithCallMaxConcurrency overrides the parallel fan-out cap for this call only.
func WithCallMaxConcurrency(n int) CallOption {
	return func(c *callOptions) { c.maxConcurrency = n }
}

// WithCallTimeout overrides the per-attempt timeout for this call only.
func WithCallTimeout(d time.Duration) CallOption {
	return func(c *callOptions) { c.subAgentTimeout = d }
}

// WithCallRetries overrides the retry budget for this call only.
func WithCallRetries(n int) CallOption {
	return func(c *callOptions) { c.subAgentRetries = n }
}

// WithCallFailFast overrides the fail-fast policy for this call only.
func WithCallFailFast(b bool) CallOption {
	return func(c *callOptions) { c.failFast = b }
}

// WithCallIsolateContext overrides the context-isolation policy for this
// call only.
func WithCallIsolateContext(b bool) CallOption {
	return func(c *callOptions) { c.isolateContext = b }
}

// WithCallMaxTaskConcurrency overrides the mass-swarm task concurrency cap
// for this call only.
func WithCallMaxTaskConcurrency(n int) CallOption {
	return func(c *callOptions) { c.maxTaskConcurrency = n }
}

// WithParallelTasks selects whether ExecuteMassSwarm runs its inner swarms
// concurrently (true, the default) or sequentially (false).
func WithParallelTasks(b bool) CallOption {
	return func(c *callOptions) { c.parallelTasks = b }
}
