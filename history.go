package swarmmesh

import (
	"time"

	"github.com/nilsbraun/swarmmesh/core"
)

// historyEntry is one record appended to context.State["swarm_history"]
// per top-level ExecuteSwarm/ExecuteMassSwarm invocation (spec §3, §4.5).
type historyEntry struct {
	OperationID string    `json:"operation_id"`
	Kind        string    `json:"kind"`
	Task        string    `json:"task,omitempty"`
	Tasks       []string  `json:"tasks,omitempty"`
	Success     bool      `json:"success"`
	StartedAt   time.Time `json:"started_at"`
	DurationMs  int64     `json:"duration_ms"`
	Successful  int       `json:"successful"`
	Failed      int       `json:"failed"`
}

// appendHistory is the orchestrator's only write to ctx.State at the top
// level. It creates the "swarm_history" sequence if absent. Entries are
// stored as []any (rather than []historyEntry) so external callers can
// range over the sequence without importing this package's internals.
//
// ctx may be shared by concurrently-running inner swarms (ExecuteMassSwarm's
// parallel tasks all append to the same parent context), and by concurrent
// readers of ctx.State inside core.Derive, so the append holds ctx's own
// lock rather than relying on the caller to serialize it.
func appendHistory(ctx *core.Context, entry historyEntry) {
	ctx.Lock()
	defer ctx.Unlock()
	existing, _ := ctx.State["swarm_history"].([]any)
	ctx.State["swarm_history"] = append(existing, entry)
}
