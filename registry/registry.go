package registry

import (
	"fmt"
	"sync"

	"github.com/nilsbraun/swarmmesh/core"
)

// Registry is the orchestrator's name-keyed sub-agent store. The zero value
// is not usable; construct with New. Exactly one agent is kept per name;
// re-registering under an existing name replaces it silently (last writer
// wins). All exported methods are safe for concurrent use.
type Registry struct {
	ownerName string

	mu     sync.RWMutex
	agents map[string]core.SubAgent
	order  []string // registration order, for List
}

// New constructs an empty Registry. ownerName is the orchestrator's own
// name and is reserved: Add rejects any sub-agent registered under it.
func New(ownerName string) *Registry {
	return &Registry{
		ownerName: ownerName,
		agents:    make(map[string]core.SubAgent),
	}
}

// Add registers agent under agent.Name(). It returns core.ErrNamingConflict
// if that name equals the registry's owner name. Re-registering an existing
// name replaces the prior entry without changing its position in
// registration order.
func (r *Registry) Add(agent core.SubAgent) error {
	name := agent.Name()
	if name == r.ownerName {
		return fmt.Errorf("add sub-agent %q: %w", name, core.ErrNamingConflict)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[name]; !exists {
		r.order = append(r.order, name)
	}
	r.agents[name] = agent
	return nil
}

// AddMany registers each agent in iteration order, stopping at the first
// error (e.g. a naming conflict).
func (r *Registry) AddMany(agents []core.SubAgent) error {
	for _, a := range agents {
		if err := r.Add(a); err != nil {
			return err
		}
	}
	return nil
}

// Remove deletes name if present. It is idempotent: removing an absent name
// returns false without error.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[name]; !exists {
		return false
	}
	delete(r.agents, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns the registered names in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Lookup returns the agent registered under name, if any.
func (r *Registry) Lookup(name string) (core.SubAgent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.agents[name]
	return a, ok
}

// Resolve returns the ordered list of sub-agents matching targetNames, or
// the full registration-order list when targetNames is empty. It returns
// core.ErrUnknownAgent (wrapped with the offending name) if any requested
// name is not registered — before any execution starts, per spec.
func (r *Registry) Resolve(targetNames []string) ([]core.SubAgent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(targetNames) == 0 {
		out := make([]core.SubAgent, 0, len(r.order))
		for _, name := range r.order {
			out = append(out, r.agents[name])
		}
		return out, nil
	}

	out := make([]core.SubAgent, 0, len(targetNames))
	for _, name := range targetNames {
		agent, ok := r.agents[name]
		if !ok {
			return nil, fmt.Errorf("resolve target %q: %w", name, core.ErrUnknownAgent)
		}
		out = append(out, agent)
	}
	return out, nil
}
