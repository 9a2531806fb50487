package domain

import "time"

// WorkflowStatus enumerates automation lifecycle states.
type WorkflowStatus string

const (
	WorkflowStatusActive WorkflowStatus = "ACTIVE"
	WorkflowStatusDraft  WorkflowStatus = "DRAFT"
	WorkflowStatusPaused WorkflowStatus = "PAUSED"
	WorkflowStatusError  WorkflowStatus = "ERROR"
)

// Workflow is an automation definition with run statistics.
type Workflow struct {
	ID          string
	Name        string
	Description string
	Status      WorkflowStatus
	Steps       int
	Triggers    []string
	Actions     []string
	RunCount    int
	SuccessRate float64
	LastRunAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WorkflowRunStatus enumerates execution outcomes.
type WorkflowRunStatus string

const (
	RunStatusSuccess WorkflowRunStatus = "SUCCESS"
	RunStatusSkipped WorkflowRunStatus = "SKIPPED"
	RunStatusFailed  WorkflowRunStatus = "FAILED"
)

// WorkflowRun is an immutable execution audit row.
type WorkflowRun struct {
	ID         string
	WorkflowID string
	Status     WorkflowRunStatus
	Message    string
	DurationMS int64
	CreatedAt  time.Time
}
