package strategy_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nilsbraun/swarmmesh/core"
	"github.com/nilsbraun/swarmmesh/logging"
	"github.com/nilsbraun/swarmmesh/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseOptions() strategy.Options {
	return strategy.Options{
		Strategy:          core.Parallel,
		MaxConcurrency:    2,
		PerAttemptTimeout: 0,
		Retries:           0,
		FailFast:          false,
		IsolateContext:    true,
		OrchestratorName:  "swarm",
		Logger:            logging.NoOpLogger{},
	}
}

// concurrencyProbe is a sub-agent that records how many instances of it are
// running at once, sleeping briefly to widen the window for overlap.
func concurrencyProbe(name string, active, maxObserved *int64) core.SubAgent {
	return core.SubAgentFunc{AgentName: name, Fn: func(ctx context.Context, task string, c *core.Context) (any, error) {
		n := atomic.AddInt64(active, 1)
		defer atomic.AddInt64(active, -1)
		for {
			cur := atomic.LoadInt64(maxObserved)
			if n <= cur || atomic.CompareAndSwapInt64(maxObserved, cur, n) {
				break
			}
		}
		time.Sleep(15 * time.Millisecond)
		return "ok", nil
	}}
}

func TestDispatch_ParallelRespectsMaxConcurrency(t *testing.T) {
	var active, maxObserved int64
	agents := []core.SubAgent{
		concurrencyProbe("a1", &active, &maxObserved),
		concurrencyProbe("a2", &active, &maxObserved),
		concurrencyProbe("a3", &active, &maxObserved),
		concurrencyProbe("a4", &active, &maxObserved),
		concurrencyProbe("a5", &active, &maxObserved),
	}
	targets := strategy.ResolveTargets(agents, "go", nil)

	opts := baseOptions()
	opts.MaxConcurrency = 2

	results, err := strategy.Dispatch(context.Background(), targets, core.NewContext("s"), opts)
	require.NoError(t, err)
	require.Len(t, results, 5)

	for _, r := range results {
		assert.True(t, r.Success)
	}
	assert.LessOrEqual(t, atomic.LoadInt64(&maxObserved), int64(2))
}

func TestDispatch_ParallelPreservesOrder(t *testing.T) {
	agents := make([]core.SubAgent, 0, 10)
	for i := 0; i < 10; i++ {
		name := string(rune('a' + i))
		agents = append(agents, core.SubAgentFunc{AgentName: name, Fn: func(ctx context.Context, task string, c *core.Context) (any, error) {
			time.Sleep(time.Duration(10-len(name)) * time.Millisecond)
			return name, nil
		}})
	}
	targets := strategy.ResolveTargets(agents, "go", nil)

	opts := baseOptions()
	opts.MaxConcurrency = 4

	results, err := strategy.Dispatch(context.Background(), targets, core.NewContext("s"), opts)
	require.NoError(t, err)
	require.Len(t, results, 10)

	for i, r := range results {
		assert.Equal(t, agents[i].Name(), r.Agent)
	}
}

func TestDispatch_SequentialFailFastSkipsRemaining(t *testing.T) {
	var calledSecond bool
	agents := []core.SubAgent{
		core.SubAgentFunc{AgentName: "always-fail", Fn: func(ctx context.Context, task string, c *core.Context) (any, error) {
			return nil, errors.New("boom")
		}},
		core.SubAgentFunc{AgentName: "echo", Fn: func(ctx context.Context, task string, c *core.Context) (any, error) {
			calledSecond = true
			return task, nil
		}},
	}
	targets := strategy.ResolveTargets(agents, "go", nil)

	opts := baseOptions()
	opts.Strategy = core.Sequential
	opts.FailFast = true

	results, err := strategy.Dispatch(context.Background(), targets, core.NewContext("s"), opts)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.False(t, results[0].Success)
	assert.Equal(t, "always-fail", results[0].Agent)

	assert.False(t, results[1].Success)
	require.NotNil(t, results[1].Error)
	assert.Equal(t, core.SkipFailFastSequential, *results[1].Error)
	assert.False(t, calledSecond)
}

func TestDispatch_ParallelFailFastCancelsWaitingTargets(t *testing.T) {
	var started int64
	agents := []core.SubAgent{
		core.SubAgentFunc{AgentName: "always-fail", Fn: func(ctx context.Context, task string, c *core.Context) (any, error) {
			return nil, errors.New("boom")
		}},
		core.SubAgentFunc{AgentName: "blocked", Fn: func(ctx context.Context, task string, c *core.Context) (any, error) {
			atomic.AddInt64(&started, 1)
			return "unreachable", nil
		}},
	}
	targets := strategy.ResolveTargets(agents, "go", nil)

	opts := baseOptions()
	opts.MaxConcurrency = 1
	opts.FailFast = true

	results, err := strategy.Dispatch(context.Background(), targets, core.NewContext("s"), opts)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.False(t, results[0].Success)
	assert.Equal(t, "always-fail", results[0].Agent)

	assert.False(t, results[1].Success)
	require.NotNil(t, results[1].Error)
	assert.Equal(t, core.SkipFailFastParallel, *results[1].Error)
	assert.Equal(t, "blocked", results[1].Agent)
	assert.EqualValues(t, 0, atomic.LoadInt64(&started))
}

func TestDispatch_IsolatesStatePerTarget(t *testing.T) {
	agents := []core.SubAgent{
		core.SubAgentFunc{AgentName: "writer", Fn: func(ctx context.Context, task string, c *core.Context) (any, error) {
			c.State["touched"] = "writer"
			return nil, nil
		}},
	}
	targets := strategy.ResolveTargets(agents, "go", nil)

	parent := core.NewContext("s")
	parent.State["touched"] = "parent"

	opts := baseOptions()
	opts.Strategy = core.Sequential
	opts.IsolateContext = true

	_, err := strategy.Dispatch(context.Background(), targets, parent, opts)
	require.NoError(t, err)
	assert.Equal(t, "parent", parent.State["touched"])
}

func TestDispatch_SharesStateWhenNotIsolated(t *testing.T) {
	agents := []core.SubAgent{
		core.SubAgentFunc{AgentName: "writer", Fn: func(ctx context.Context, task string, c *core.Context) (any, error) {
			c.State["touched"] = "writer"
			return nil, nil
		}},
	}
	targets := strategy.ResolveTargets(agents, "go", nil)

	parent := core.NewContext("s")

	opts := baseOptions()
	opts.Strategy = core.Sequential
	opts.IsolateContext = false

	_, err := strategy.Dispatch(context.Background(), targets, parent, opts)
	require.NoError(t, err)
	assert.Equal(t, "writer", parent.State["touched"])
}
