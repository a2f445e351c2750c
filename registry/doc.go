// Package registry holds the name-keyed set of sub-agents an orchestrator
// dispatches against. It enforces name uniqueness against a reserved
// orchestrator name and tolerates concurrent reads while a swarm is
// running.
package registry
