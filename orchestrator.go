package swarmmesh

import (
	"context"
	"fmt"
	"time"

	"github.com/nilsbraun/swarmmesh/config"
	"github.com/nilsbraun/swarmmesh/core"
	"github.com/nilsbraun/swarmmesh/logging"
	"github.com/nilsbraun/swarmmesh/metrics"
	"github.com/nilsbraun/swarmmesh/registry"
	"github.com/nilsbraun/swarmmesh/strategy"
	"golang.org/x/sync/semaphore"
)

// Orchestrator dispatches tasks to a named set of registered sub-agents. The
// zero value is not usable; construct with New.
type Orchestrator struct {
	name     string
	registry *registry.Registry
	opts     Options
}

// New constructs an Orchestrator. ConfigMap, if set via WithConfigMap, is
// decoded first; any other functional option applied after it wins over
// the decoded value.
func New(optFns ...func(*Options)) (*Orchestrator, error) {
	opts := defaultOptions()

	// A first pass picks up Name/ConfigMap so config decoding happens
	// before the remaining fields are finalized by a second pass, letting
	// explicit fields in the same optFns list still win over ConfigMap.
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.ConfigMap != nil {
		cfg, err := config.FromMap(opts.ConfigMap)
		if err != nil {
			return nil, fmt.Errorf("new orchestrator: %w", err)
		}
		base := defaultOptions()
		base.applyConfig(cfg)
		base.Name = opts.Name
		base.Logger = opts.Logger
		base.MetricsSink = opts.MetricsSink
		opts = base
		for _, fn := range optFns {
			fn(&opts)
		}
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.MetricsSink == nil {
		opts.MetricsSink = metrics.NoOpSink{}
	}
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = 1
	}
	if opts.MaxTaskConcurrency < 1 {
		opts.MaxTaskConcurrency = 1
	}
	if opts.SubAgentRetries < 0 {
		opts.SubAgentRetries = 0
	}

	return &Orchestrator{
		name:     opts.Name,
		registry: registry.New(opts.Name),
		opts:     opts,
	}, nil
}

// Name returns the orchestrator's own reserved name.
func (o *Orchestrator) Name() string { return o.name }

// AddSubAgent registers agent under agent.Name(). Registering an
// orchestrator as its own (direct or transitive) sub-agent is not guarded
// against: a swarm invocation would recurse until a per-attempt timeout or
// a resource limit intervenes.
func (o *Orchestrator) AddSubAgent(agent core.SubAgent) error {
	return o.registry.Add(agent)
}

// AddSubAgents registers each agent in order, stopping at the first error.
func (o *Orchestrator) AddSubAgents(agents []core.SubAgent) error {
	return o.registry.AddMany(agents)
}

// RemoveSubAgent removes name if present. Idempotent.
func (o *Orchestrator) RemoveSubAgent(name string) bool {
	return o.registry.Remove(name)
}

// ListSubAgents returns the registered names in registration order.
func (o *Orchestrator) ListSubAgents() []string {
	return o.registry.List()
}

// ExecuteSwarm dispatches task to the resolved target sub-agents and
// returns the aggregated report. ctx carries cancellation; execCtx is the
// caller-owned domain Context sub-agents run under.
func (o *Orchestrator) ExecuteSwarm(ctx context.Context, task string, execCtx *core.Context, callOpts ...CallOption) (SwarmReport, error) {
	c := o.opts.callDefaults()
	for _, fn := range callOpts {
		fn(&c)
	}
	c.clamp()
	return o.executeSwarm(ctx, task, execCtx, c, core.NewID())
}

// executeSwarm is the shared implementation behind ExecuteSwarm and the
// per-task calls ExecuteMassSwarm fans out, taking an already-resolved
// correlationID so inner swarms share the mass-swarm's correlation id.
func (o *Orchestrator) executeSwarm(ctx context.Context, task string, execCtx *core.Context, c callOptions, correlationID string) (SwarmReport, error) {
	operationID := core.NewID()
	startedAt := time.Now().UTC()

	agents, err := o.registry.Resolve(c.targetAgents)
	if err != nil {
		return SwarmReport{}, fmt.Errorf("execute swarm: %w", err)
	}

	targets := strategy.ResolveTargets(agents, task, c.subTasks)

	o.opts.Logger.Info("swarm started",
		"operation_id", operationID, "correlation_id", correlationID,
		"strategy", c.strategy.String(), "target_count", len(targets))

	results, err := strategy.Dispatch(ctx, targets, execCtx, strategy.Options{
		Strategy:          c.strategy,
		MaxConcurrency:    c.maxConcurrency,
		PerAttemptTimeout: c.subAgentTimeout,
		Retries:           c.subAgentRetries,
		FailFast:          c.failFast,
		IsolateContext:    c.isolateContext,
		OrchestratorName:  o.name,
		Logger:            o.opts.Logger,
	})
	if err != nil {
		return SwarmReport{}, fmt.Errorf("execute swarm: %w", err)
	}

	finishedAt := time.Now().UTC()
	report := buildSwarmReport(c.strategy, results, operationID, correlationID, startedAt, finishedAt)

	appendHistory(execCtx, historyEntry{
		OperationID: operationID,
		Kind:        "swarm",
		Task:        task,
		Success:     report.Success,
		StartedAt:   startedAt,
		DurationMs:  report.DurationMs,
		Successful:  report.SuccessfulAgents,
		Failed:      report.FailedAgents,
	})

	o.opts.Logger.Info("swarm finished",
		"operation_id", operationID, "correlation_id", correlationID,
		"success", report.Success, "successful_agents", report.SuccessfulAgents,
		"failed_agents", report.FailedAgents, "duration_ms", report.DurationMs)

	o.opts.MetricsSink.RecordSwarm(c.strategy.String(), swarmMetrics(results, report.DurationMs))

	return report, nil
}

// ExecuteMassSwarm runs execute_swarm once per input task, preserving input
// order in the returned report regardless of execution order. Tasks run
// concurrently (bounded by the task-level concurrency cap) unless
// WithParallelTasks(false) is passed.
func (o *Orchestrator) ExecuteMassSwarm(ctx context.Context, tasks []string, execCtx *core.Context, callOpts ...CallOption) (MassSwarmReport, error) {
	c := o.opts.callDefaults()
	for _, fn := range callOpts {
		fn(&c)
	}
	c.clamp()

	operationID := core.NewID()
	correlationID := operationID
	startedAt := time.Now().UTC()

	o.opts.Logger.Info("mass swarm started",
		"operation_id", operationID, "correlation_id", correlationID,
		"strategy", c.strategy.String(), "task_count", len(tasks))

	operations := make([]SwarmReport, len(tasks))

	if c.parallelTasks {
		if err := o.runMassSwarmParallel(ctx, tasks, execCtx, c, correlationID, operations); err != nil {
			return MassSwarmReport{}, err
		}
	} else {
		for i, task := range tasks {
			report, err := o.executeSwarm(ctx, task, execCtx, c, correlationID)
			if err != nil {
				return MassSwarmReport{}, err
			}
			operations[i] = report
		}
	}

	finishedAt := time.Now().UTC()
	report := buildMassSwarmReport(operations, operationID, correlationID, startedAt, finishedAt)

	appendHistory(execCtx, historyEntry{
		OperationID: operationID,
		Kind:        "mass_swarm",
		Tasks:       tasks,
		Success:     report.Success,
		StartedAt:   startedAt,
		DurationMs:  report.DurationMs,
		Successful:  report.SuccessfulTasks,
		Failed:      report.FailedTasks,
	})

	o.opts.Logger.Info("mass swarm finished",
		"operation_id", operationID, "correlation_id", correlationID,
		"success", report.Success, "successful_tasks", report.SuccessfulTasks,
		"failed_tasks", report.FailedTasks, "duration_ms", report.DurationMs)

	o.opts.MetricsSink.RecordMassSwarm(metrics.MassSwarmMetrics{
		Successes:              report.SuccessfulTasks,
		Failures:               report.FailedTasks,
		DurationMs:             report.DurationMs,
		OperationDurationP95Ms: metrics.P95(operationDurations(operations)),
	})

	return report, nil
}

// runMassSwarmParallel fans out tasks[i] -> executeSwarm concurrently,
// bounded by c.maxTaskConcurrency, writing into operations[i] so the
// caller sees input order regardless of completion order. This is the
// mass-swarm equivalent of strategy.dispatchParallel but at the
// execute_swarm level, per spec §9 "two independent semaphores".
func (o *Orchestrator) runMassSwarmParallel(ctx context.Context, tasks []string, execCtx *core.Context, c callOptions, correlationID string, operations []SwarmReport) error {
	sem := semaphore.NewWeighted(int64(c.maxTaskConcurrency))

	type outcome struct {
		report SwarmReport
		err    error
	}
	outcomes := make([]outcome, len(tasks))

	done := make(chan struct{}, len(tasks))
	for i, task := range tasks {
		go func(i int, task string) {
			defer func() { done <- struct{}{} }()

			if err := sem.Acquire(ctx, 1); err != nil {
				outcomes[i] = outcome{err: err}
				return
			}
			defer sem.Release(1)

			report, err := o.executeSwarm(ctx, task, execCtx, c, correlationID)
			outcomes[i] = outcome{report: report, err: err}
		}(i, task)
	}
	for range tasks {
		<-done
	}

	for i, oc := range outcomes {
		if oc.err != nil {
			return oc.err
		}
		operations[i] = oc.report
	}
	return nil
}

// Execute lets the orchestrator itself satisfy the core.SubAgent contract
// by delegating to ExecuteSwarm with construction defaults, so one
// orchestrator can be registered as a sub-agent of another (spec §4.6).
func (o *Orchestrator) Execute(ctx context.Context, task string, execCtx *core.Context) (any, error) {
	return o.ExecuteSwarm(ctx, task, execCtx)
}

func swarmMetrics(results []core.SubAgentResult, durationMs int64) metrics.SwarmMetrics {
	var m metrics.SwarmMetrics
	durations := make([]int64, 0, len(results))
	for _, r := range results {
		if r.Success {
			m.Successes++
		} else {
			m.Failures++
		}
		if r.TimedOut {
			m.Timeouts++
		}
		if r.Attempts > 1 {
			m.RetriesUsed += r.Attempts - 1
		}
		durations = append(durations, r.DurationMs)
	}
	m.DurationMs = durationMs
	m.SubAgentDurationP95Ms = metrics.P95(durations)
	return m
}

func operationDurations(operations []SwarmReport) []int64 {
	out := make([]int64, len(operations))
	for i, op := range operations {
		out[i] = op.DurationMs
	}
	return out
}
