package swarmmesh_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/nilsbraun/swarmmesh/core"
)

// echoAgent sleeps delay, then reports task and session id, per spec §8's
// Echo(name, delay_s) scenario fixture.
type echoAgent struct {
	name  string
	delay time.Duration
}

func newEcho(name string, delay time.Duration) core.SubAgent {
	return echoAgent{name: name, delay: delay}
}

func (e echoAgent) Name() string { return e.name }

func (e echoAgent) Execute(ctx context.Context, task string, c *core.Context) (any, error) {
	if e.delay > 0 {
		select {
		case <-time.After(e.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return map[string]any{
		"success":    true,
		"agent":      e.name,
		"task":       task,
		"session_id": c.SessionID,
	}, nil
}

// flakyOnceAgent raises on its first call, then succeeds on every
// subsequent call, per spec §8's FlakyOnce(name) fixture.
type flakyOnceAgent struct {
	name  string
	calls *int32
}

func newFlakyOnce(name string) core.SubAgent {
	return flakyOnceAgent{name: name, calls: new(int32)}
}

func (f flakyOnceAgent) Name() string { return f.name }

func (f flakyOnceAgent) Execute(ctx context.Context, task string, c *core.Context) (any, error) {
	n := atomic.AddInt32(f.calls, 1)
	if n == 1 {
		return nil, errors.New("transient failure")
	}
	return map[string]any{"success": true, "agent": f.name, "calls": n}, nil
}

// alwaysFailAgent raises "forced failure" on every call, per spec §8's
// AlwaysFail(name) fixture.
type alwaysFailAgent struct {
	name string
}

func newAlwaysFail(name string) core.SubAgent {
	return alwaysFailAgent{name: name}
}

func (a alwaysFailAgent) Name() string { return a.name }

func (a alwaysFailAgent) Execute(ctx context.Context, task string, c *core.Context) (any, error) {
	return nil, errors.New("forced failure")
}
