package core

// SubAgentResult is the immutable record emitted for every attempted
// sub-agent dispatch. Exactly these seven fields are serialized, matching
// the report schema: Error and Output marshal to JSON null rather than
// an empty/omitted field when unset.
type SubAgentResult struct {
	Agent      string  `json:"agent"`
	Success    bool    `json:"success"`
	Output     any     `json:"output"`
	Error      *string `json:"error"`
	Attempts   int     `json:"attempts"`
	TimedOut   bool    `json:"timed_out"`
	DurationMs int64   `json:"duration_ms"`
}

// ErrString returns the error message, or "" if Error is nil. Convenience
// for callers and tests that don't want to dereference a pointer.
func (r SubAgentResult) ErrString() string {
	if r.Error == nil {
		return ""
	}
	return *r.Error
}

// errPtr is a small helper to take the address of a string literal/value
// inline.
func errPtr(s string) *string { return &s }

// Skip markers, verbatim per spec — test suites may match on these exact
// strings.
const (
	// SkipFailFastSequential is the error recorded for targets skipped by
	// the sequential strategy after fail-fast has triggered.
	SkipFailFastSequential = "Skipped due to fail_fast policy"
	// SkipFailFastParallel is the error recorded for targets cancelled
	// before they entered the executor under the parallel strategy.
	SkipFailFastParallel = "Cancelled by fail_fast"
	// TimeoutErrorPrefix must prefix every timeout error message.
	TimeoutErrorPrefix = "Timed out after "
)

// SkipResult builds the zero-attempt skip record used by both strategies,
// differing only in the error marker.
func SkipResult(agent, reason string) SubAgentResult {
	return SubAgentResult{
		Agent:    agent,
		Success:  false,
		Output:   nil,
		Error:    errPtr(reason),
		Attempts: 0,
		TimedOut: false,
	}
}
