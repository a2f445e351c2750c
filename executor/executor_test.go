package executor_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nilsbraun/swarmmesh/core"
	"github.com/nilsbraun/swarmmesh/executor"
	"github.com/nilsbraun/swarmmesh/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_SucceedsFirstAttempt(t *testing.T) {
	agent := core.SubAgentFunc{AgentName: "echo", Fn: func(ctx context.Context, task string, c *core.Context) (any, error) {
		return task, nil
	}}

	result := executor.Run(context.Background(), agent, "hello", core.NewContext("s"), 0, 0, logging.NoOpLogger{})

	require.True(t, result.Success)
	assert.Equal(t, 1, result.Attempts)
	assert.False(t, result.TimedOut)
	assert.Nil(t, result.Error)
	assert.Equal(t, "hello", result.Output)
}

func TestRun_RetryRecoversFlaky(t *testing.T) {
	var calls int32
	agent := core.SubAgentFunc{AgentName: "flaky", Fn: func(ctx context.Context, task string, c *core.Context) (any, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			return nil, errors.New("transient failure")
		}
		return map[string]any{"calls": n}, nil
	}}

	result := executor.Run(context.Background(), agent, "t", core.NewContext("s"), 0, 1, logging.NoOpLogger{})

	require.True(t, result.Success)
	assert.Equal(t, 2, result.Attempts)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestRun_AllAttemptsFailReturnsLastError(t *testing.T) {
	agent := core.SubAgentFunc{AgentName: "always-fail", Fn: func(ctx context.Context, task string, c *core.Context) (any, error) {
		return nil, errors.New("forced failure")
	}}

	result := executor.Run(context.Background(), agent, "t", core.NewContext("s"), 0, 2, logging.NoOpLogger{})

	require.False(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	require.NotNil(t, result.Error)
	assert.Equal(t, "forced failure", *result.Error)
	assert.False(t, result.TimedOut)
}

func TestRun_TimeoutMarksFailure(t *testing.T) {
	agent := core.SubAgentFunc{AgentName: "slow", Fn: func(ctx context.Context, task string, c *core.Context) (any, error) {
		select {
		case <-time.After(50 * time.Millisecond):
			return "done", nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}}

	result := executor.Run(context.Background(), agent, "t", core.NewContext("s"), 10*time.Millisecond, 0, logging.NoOpLogger{})

	require.False(t, result.Success)
	assert.True(t, result.TimedOut)
	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, core.TimeoutErrorPrefix)
}

func TestRun_NegativeRetriesTreatedAsZero(t *testing.T) {
	var calls int32
	agent := core.SubAgentFunc{AgentName: "counter", Fn: func(ctx context.Context, task string, c *core.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("fail")
	}}

	result := executor.Run(context.Background(), agent, "t", core.NewContext("s"), 0, -5, logging.NoOpLogger{})
	assert.Equal(t, 1, result.Attempts)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}
