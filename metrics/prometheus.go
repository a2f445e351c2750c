package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink records SwarmMetrics / MassSwarmMetrics onto a set of
// Prometheus collectors. Register it with a *prometheus.Registry (or the
// default global one, passed as reg) to expose them on a /metrics
// endpoint.
type PrometheusSink struct {
	swarmSuccesses   prometheus.Counter
	swarmFailures    prometheus.Counter
	swarmTimeouts    prometheus.Counter
	swarmRetries     prometheus.Counter
	swarmDuration    *prometheus.HistogramVec
	subAgentP95      prometheus.Gauge
	massSuccesses    prometheus.Counter
	massFailures     prometheus.Counter
	massDuration     prometheus.Histogram
	operationP95     prometheus.Gauge
}

// NewPrometheusSink constructs and registers the collectors on reg.
func NewPrometheusSink(reg prometheus.Registerer, namespace string) *PrometheusSink {
	s := &PrometheusSink{
		swarmSuccesses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "swarm", Name: "successes_total",
			Help: "Number of sub-agents that completed successfully.",
		}),
		swarmFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "swarm", Name: "failures_total",
			Help: "Number of sub-agents that did not complete successfully.",
		}),
		swarmTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "swarm", Name: "timeouts_total",
			Help: "Number of sub-agent attempts that ended by per-attempt timeout.",
		}),
		swarmRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "swarm", Name: "retries_used_total",
			Help: "Number of retry attempts consumed across all sub-agents.",
		}),
		swarmDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "swarm", Name: "duration_ms",
			Help:    "Wall-clock duration of an ExecuteSwarm call, in milliseconds.",
			Buckets: prometheus.ExponentialBuckets(10, 2, 12),
		}, []string{"strategy"}),
		subAgentP95: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "swarm", Name: "sub_agent_duration_p95_ms",
			Help: "95th percentile sub-agent duration for the most recent swarm, in milliseconds.",
		}),
		massSuccesses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "mass_swarm", Name: "successes_total",
			Help: "Number of tasks whose swarm report succeeded.",
		}),
		massFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "mass_swarm", Name: "failures_total",
			Help: "Number of tasks whose swarm report did not succeed.",
		}),
		massDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "mass_swarm", Name: "duration_ms",
			Help:    "Wall-clock duration of an ExecuteMassSwarm call, in milliseconds.",
			Buckets: prometheus.ExponentialBuckets(10, 2, 12),
		}),
		operationP95: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "mass_swarm", Name: "operation_duration_p95_ms",
			Help: "95th percentile per-task swarm duration for the most recent mass-swarm, in milliseconds.",
		}),
	}

	reg.MustRegister(
		s.swarmSuccesses, s.swarmFailures, s.swarmTimeouts, s.swarmRetries,
		s.swarmDuration, s.subAgentP95,
		s.massSuccesses, s.massFailures, s.massDuration, s.operationP95,
	)

	return s
}

// RecordSwarm implements Sink.
func (s *PrometheusSink) RecordSwarm(strategy string, m SwarmMetrics) {
	s.swarmSuccesses.Add(float64(m.Successes))
	s.swarmFailures.Add(float64(m.Failures))
	s.swarmTimeouts.Add(float64(m.Timeouts))
	s.swarmRetries.Add(float64(m.RetriesUsed))
	s.swarmDuration.WithLabelValues(strategy).Observe(float64(m.DurationMs))
	s.subAgentP95.Set(float64(m.SubAgentDurationP95Ms))
}

// RecordMassSwarm implements Sink.
func (s *PrometheusSink) RecordMassSwarm(m MassSwarmMetrics) {
	s.massSuccesses.Add(float64(m.Successes))
	s.massFailures.Add(float64(m.Failures))
	s.massDuration.Observe(float64(m.DurationMs))
	s.operationP95.Set(float64(m.OperationDurationP95Ms))
}
