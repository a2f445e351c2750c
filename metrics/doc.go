// Package metrics defines the metrics payload emitted per swarm and
// mass-swarm operation (spec §6 "Observability outputs") behind a small
// Sink interface, plus a Prometheus-backed implementation. The core
// orchestrator only ever depends on the Sink interface — PrometheusSink is
// the one piece of this module that imports prometheus/client_golang.
package metrics
