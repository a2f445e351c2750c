package swarmmesh

import (
	"time"

	"github.com/nilsbraun/swarmmesh/core"
)

// SwarmReport is the aggregated outcome of one ExecuteSwarm call.
type SwarmReport struct {
	Success          bool                  `json:"success"`
	Strategy         string                `json:"strategy"`
	TotalAgents      int                   `json:"total_agents"`
	SuccessfulAgents int                   `json:"successful_agents"`
	FailedAgents     int                   `json:"failed_agents"`
	Results          []core.SubAgentResult `json:"results"`
	StartedAt        time.Time             `json:"started_at"`
	FinishedAt       time.Time             `json:"finished_at"`
	DurationMs       int64                 `json:"duration_ms"`
	OperationID      string                `json:"operation_id"`
	CorrelationID    string                `json:"correlation_id"`
	Summary          string                `json:"summary,omitempty"`
}

// MassSwarmReport is the aggregated outcome of one ExecuteMassSwarm call.
type MassSwarmReport struct {
	Success        bool          `json:"success"`
	TotalTasks     int           `json:"total_tasks"`
	SuccessfulTasks int          `json:"successful_tasks"`
	FailedTasks    int           `json:"failed_tasks"`
	Operations     []SwarmReport `json:"operations"`
	StartedAt      time.Time     `json:"started_at"`
	FinishedAt     time.Time     `json:"finished_at"`
	DurationMs     int64         `json:"duration_ms"`
	OperationID    string        `json:"operation_id"`
	CorrelationID  string        `json:"correlation_id"`
}

func buildSwarmReport(strategy core.Strategy, results []core.SubAgentResult, operationID, correlationID string, startedAt, finishedAt time.Time) SwarmReport {
	successful := 0
	for _, r := range results {
		if r.Success {
			successful++
		}
	}

	allSucceeded := true
	for _, r := range results {
		if !r.Success {
			allSucceeded = false
			break
		}
	}

	return SwarmReport{
		Success:          allSucceeded,
		Strategy:         strategy.String(),
		TotalAgents:      len(results),
		SuccessfulAgents: successful,
		FailedAgents:     len(results) - successful,
		Results:          results,
		StartedAt:        startedAt,
		FinishedAt:       finishedAt,
		DurationMs:       finishedAt.Sub(startedAt).Milliseconds(),
		OperationID:      operationID,
		CorrelationID:    correlationID,
	}
}

func buildMassSwarmReport(operations []SwarmReport, operationID, correlationID string, startedAt, finishedAt time.Time) MassSwarmReport {
	successful := 0
	allSucceeded := true
	for _, op := range operations {
		if op.Success {
			successful++
		} else {
			allSucceeded = false
		}
	}

	return MassSwarmReport{
		Success:         allSucceeded,
		TotalTasks:      len(operations),
		SuccessfulTasks: successful,
		FailedTasks:     len(operations) - successful,
		Operations:      operations,
		StartedAt:       startedAt,
		FinishedAt:      finishedAt,
		DurationMs:      finishedAt.Sub(startedAt).Milliseconds(),
		OperationID:     operationID,
		CorrelationID:   correlationID,
	}
}
