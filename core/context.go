package core

import (
	"fmt"
	"sync"

	"github.com/mohae/deepcopy"
)

// Context is the per-invocation execution context passed to every sub-agent.
// It is owned by the caller; the orchestrator never mutates Metadata and
// only ever writes to State["swarm_history"] at the top level (see
// Orchestrator.ExecuteSwarm).
type Context struct {
	// SessionID identifies the logical session this invocation belongs to.
	SessionID string
	// UserID optionally identifies the calling user.
	UserID string
	// Metadata carries caller-supplied, string-keyed opaque values.
	Metadata map[string]any
	// State is the mutable, string-keyed bag the orchestrator and
	// sub-agents read and write. Top-level orchestrator writes are
	// restricted to the "swarm_history" key.
	//
	// State is shared by every concurrently-running inner swarm that was
	// handed the same Context (e.g. ExecuteMassSwarm's parallel tasks), so
	// any access that isn't confined to a single goroutine's call must go
	// through Lock/Unlock: Derive's deep copy, and the orchestrator's
	// history append both do.
	State map[string]any

	mu sync.Mutex
}

// Lock acquires the mutex guarding State. Callers that read or write State
// outside of a single in-flight sub-agent call — Derive's deep copy,
// swarmmesh's swarm_history append — must hold it for the duration of that
// access.
func (c *Context) Lock() { c.mu.Lock() }

// Unlock releases the mutex acquired by Lock.
func (c *Context) Unlock() { c.mu.Unlock() }

// NewContext constructs a Context with initialized Metadata and State maps.
func NewContext(sessionID string) *Context {
	return &Context{
		SessionID: sessionID,
		Metadata:  map[string]any{},
		State:     map[string]any{},
	}
}

// Derive produces the sub-context passed to a single sub-agent dispatch.
//
// When isolate is false, parent is returned unchanged: the sub-agent shares
// parent.State and the caller is responsible for any synchronization needed
// under concurrent fan-out.
//
// When isolate is true (the default), Derive allocates a new Context with
// the same SessionID and UserID, a shallow copy of Metadata augmented with
// "swarm_parent" and "sub_agent", and a deep copy of State so the sub-agent's
// mutations never reach the parent. A State value that cannot be
// structurally copied surfaces as a wrapped error rather than silently
// aliasing it.
func Derive(parent *Context, isolate bool, orchestratorName, subAgentName string) (*Context, error) {
	if !isolate {
		return parent, nil
	}

	metadata := make(map[string]any, len(parent.Metadata)+2)
	for k, v := range parent.Metadata {
		metadata[k] = v
	}
	metadata["swarm_parent"] = orchestratorName
	metadata["sub_agent"] = subAgentName

	parent.Lock()
	state, err := deepCopyState(parent.State)
	parent.Unlock()
	if err != nil {
		return nil, fmt.Errorf("derive sub-context for %q: %w: %v", subAgentName, ErrContextDerivation, err)
	}

	return &Context{
		SessionID: parent.SessionID,
		UserID:    parent.UserID,
		Metadata:  metadata,
		State:     state,
	}, nil
}

// deepCopyState reproduces src with no aliasing to the original nested
// containers, surfacing a clear error instead of panicking on values
// deepcopy.Copy cannot handle (e.g. channels, funcs).
func deepCopyState(src map[string]any) (_ map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("state value is not deep-copyable: %v", r)
		}
	}()

	if src == nil {
		return map[string]any{}, nil
	}

	copied := deepcopy.Copy(src)
	m, ok := copied.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("state value is not deep-copyable: unexpected copy result type %T", copied)
	}
	return m, nil
}
