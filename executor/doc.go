// Package executor implements the single sub-agent run loop: attempt under
// a per-attempt timeout, retry on failure up to a budget, and classify the
// outcome into a core.SubAgentResult. It knows nothing about fail-fast or
// bounded fan-out concurrency — that is the strategy package's concern.
package executor
