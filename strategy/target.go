package strategy

import "github.com/nilsbraun/swarmmesh/core"

// Target pairs a resolved sub-agent with the task string it will be
// invoked with (the common task, or its per-agent override).
type Target struct {
	Agent core.SubAgent
	Task  string
}

// ResolveTargets pairs each agent with task, substituting subTasks[name]
// when present.
func ResolveTargets(agents []core.SubAgent, task string, subTasks map[string]string) []Target {
	targets := make([]Target, len(agents))
	for i, a := range agents {
		t := task
		if subTasks != nil {
			if override, ok := subTasks[a.Name()]; ok {
				t = override
			}
		}
		targets[i] = Target{Agent: a, Task: t}
	}
	return targets
}
