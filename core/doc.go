// Package core provides the foundational domain types shared by the swarm
// orchestration engine: the Context every sub-agent runs under, the
// SubAgent capability interface, the SubAgentResult record emitted per
// sub-agent dispatch, and the error taxonomy surfaced on the public API.
//
// The package intentionally keeps concrete agent behavior, transport and
// persistence out of scope — it only defines the narrow contract the
// orchestrator dispatches against.
package core
