// Package swarmmesh implements the swarm orchestration engine: it dispatches
// a task, or a batch of tasks, to a named set of sub-agents under per-attempt
// timeouts, bounded retries, bounded concurrency, context isolation and
// fail-fast cancellation, and returns a structured report of per-agent
// outcomes.
//
// Orchestrator is the package's central type. It owns a registry of
// core.SubAgent implementations and exposes ExecuteSwarm (one task fanned out
// across the registry), ExecuteMassSwarm (many tasks, each fanned out
// independently, with a separate task-level concurrency cap) and Execute
// (the orchestrator satisfying the same contract it dispatches against, so
// one orchestrator can be registered as a sub-agent of another).
package swarmmesh
