package core_test

import (
	"testing"

	"github.com/nilsbraun/swarmmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive_Isolated(t *testing.T) {
	parent := core.NewContext("sess-1")
	parent.UserID = "user-1"
	parent.Metadata["env"] = "prod"
	parent.State["counter"] = 0
	parent.State["nested"] = map[string]any{"a": []int{1, 2, 3}}

	child, err := core.Derive(parent, true, "orchestrator-a", "worker-a")
	require.NoError(t, err)

	assert.Equal(t, parent.SessionID, child.SessionID)
	assert.Equal(t, parent.UserID, child.UserID)
	assert.Equal(t, "orchestrator-a", child.Metadata["swarm_parent"])
	assert.Equal(t, "worker-a", child.Metadata["sub_agent"])
	assert.Equal(t, "prod", child.Metadata["env"])

	// Mutating the child's State must never reach the parent.
	child.State["counter"] = 99
	nested := child.State["nested"].(map[string]any)
	nested["a"] = append(nested["a"].([]int), 4)

	assert.Equal(t, 0, parent.State["counter"])
	parentNested := parent.State["nested"].(map[string]any)
	assert.Equal(t, []int{1, 2, 3}, parentNested["a"])
}

func TestDerive_SharedWhenNotIsolated(t *testing.T) {
	parent := core.NewContext("sess-2")
	parent.State["counter"] = 0

	child, err := core.Derive(parent, false, "orchestrator-a", "worker-a")
	require.NoError(t, err)
	require.Same(t, parent, child)

	child.State["counter"] = 1
	assert.Equal(t, 1, parent.State["counter"])
}

func TestParseStrategy(t *testing.T) {
	cases := map[string]core.Strategy{
		"parallel":     core.Parallel,
		"  Parallel  ": core.Parallel,
		"SEQUENTIAL":   core.Sequential,
		"sequential":   core.Sequential,
		"bogus":        core.Parallel,
		"":             core.Parallel,
	}
	for in, want := range cases {
		assert.Equal(t, want, core.ParseStrategy(in), "input %q", in)
	}
}
