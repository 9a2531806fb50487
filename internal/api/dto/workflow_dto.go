package dto

import (
	"time"

	"github.com/spec-kit/bsm-service/internal/domain"
)

// CreateWorkflowRequest payload.
type CreateWorkflowRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Steps       int      `json:"steps"`
	Triggers    []string `json:"triggers"`
	Actions     []string `json:"actions"`
}

// UpdateWorkflowRequest payload; absent fields are left unchanged.
type UpdateWorkflowRequest struct {
	Name        *string                `json:"name,omitempty"`
	Description *string                `json:"description,omitempty"`
	Status      *domain.WorkflowStatus `json:"status,omitempty"`
	Steps       *int                   `json:"steps,omitempty"`
	Triggers    *[]string              `json:"triggers,omitempty"`
	Actions     *[]string              `json:"actions,omitempty"`
}

// RecordRunRequest payload for recording a workflow execution.
type RecordRunRequest struct {
	Status     domain.WorkflowRunStatus `json:"status"`
	Message    string                   `json:"message"`
	DurationMS int64                    `json:"duration_ms"`
}

// WorkflowResponse response shape for workflows.
type WorkflowResponse struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Status      domain.WorkflowStatus `json:"status"`
	Steps       int                   `json:"steps"`
	Triggers    []string              `json:"triggers"`
	Actions     []string              `json:"actions"`
	RunCount    int                   `json:"run_count"`
	SuccessRate float64               `json:"success_rate"`
	LastRunAt   *time.Time            `json:"last_run_at"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// WorkflowRunResponse response shape for run audit rows.
type WorkflowRunResponse struct {
	ID         string                   `json:"id"`
	WorkflowID string                   `json:"workflow_id"`
	Status     domain.WorkflowRunStatus `json:"status"`
	Message    string                   `json:"message"`
	DurationMS int64                    `json:"duration_ms"`
	CreatedAt  time.Time                `json:"created_at"`
}

// WorkflowFromDomain maps a workflow.
func WorkflowFromDomain(w *domain.Workflow) WorkflowResponse {
	return WorkflowResponse{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Status:      w.Status,
		Steps:       w.Steps,
		Triggers:    w.Triggers,
		Actions:     w.Actions,
		RunCount:    w.RunCount,
		SuccessRate: w.SuccessRate,
		LastRunAt:   w.LastRunAt,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

// RunFromDomain maps a workflow run.
func RunFromDomain(r *domain.WorkflowRun) WorkflowRunResponse {
	return WorkflowRunResponse{
		ID:         r.ID,
		WorkflowID: r.WorkflowID,
		Status:     r.Status,
		Message:    r.Message,
		DurationMS: r.DurationMS,
		CreatedAt:  r.CreatedAt,
	}
}
