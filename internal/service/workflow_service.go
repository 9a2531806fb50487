package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/bsm-service/internal/domain"
	"github.com/spec-kit/bsm-service/internal/events"
	"github.com/spec-kit/bsm-service/internal/listctl"
	"github.com/spec-kit/bsm-service/internal/repository"
	apperrors "github.com/spec-kit/bsm-service/pkg/util"
)

var workflowSchema = listctl.Schema[domain.Workflow]{
	Searchable: []func(domain.Workflow) string{
		func(w domain.Workflow) string { return w.Name },
		func(w domain.Workflow) string { return w.Description },
		func(w domain.Workflow) string { return strings.Join(w.Triggers, " ") },
	},
	Fields: map[string]listctl.FieldFunc[domain.Workflow]{
		"status": func(w domain.Workflow) (string, bool) { return string(w.Status), true },
	},
	Sorts: map[string]listctl.SortField[domain.Workflow]{
		"name":         {Kind: listctl.SortString, String: func(w domain.Workflow) string { return w.Name }},
		"runs":         {Kind: listctl.SortNumber, Number: func(w domain.Workflow) float64 { return float64(w.RunCount) }},
		"success_rate": {Kind: listctl.SortNumber, Number: func(w domain.Workflow) float64 { return w.SuccessRate }},
		"created_at":   {Kind: listctl.SortTime, Time: func(w domain.Workflow) time.Time { return w.CreatedAt }},
	},
}

// WorkflowService manages automation definitions and their run history.
type WorkflowService struct {
	workflows  repository.WorkflowRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// WorkflowDependencies bundles collaborators for the workflow service.
type WorkflowDependencies struct {
	WorkflowRepo repository.WorkflowRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewWorkflowService constructs the service.
func NewWorkflowService(deps WorkflowDependencies) *WorkflowService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkflowService{
		workflows:  deps.WorkflowRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// WorkflowCreateInput describes workflow creation payload.
type WorkflowCreateInput struct {
	Name        string
	Description string
	Steps       int
	Triggers    []string
	Actions     []string
}

// WorkflowUpdateInput carries optional field updates.
type WorkflowUpdateInput struct {
	Name        *string
	Description *string
	Status      *domain.WorkflowStatus
	Steps       *int
	Triggers    *[]string
	Actions     *[]string
}

// WorkflowSummary aggregates the visible workflow set.
type WorkflowSummary struct {
	Total     int            `json:"total"`
	ByStatus  map[string]int `json:"by_status"`
	TotalRuns int            `json:"total_runs"`
}

// CreateWorkflow registers a workflow in draft state.
func (s *WorkflowService) CreateWorkflow(ctx context.Context, actor events.Actor, input WorkflowCreateInput) (*domain.Workflow, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("workflow name is required", nil)
	}
	if input.Steps < 0 {
		return nil, apperrors.NewValidationError("steps cannot be negative", nil)
	}

	workflow := &domain.Workflow{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Status:      domain.WorkflowStatusDraft,
		Steps:       input.Steps,
		Triggers:    input.Triggers,
		Actions:     input.Actions,
	}
	if err := s.workflows.Create(ctx, workflow); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventWorkflowCreated,
		Resource: events.ResourceWorkflow,
		Action:   events.ActionCreated,
		EntityID: workflow.ID,
		Actor:    actor,
	})
	return workflow, nil
}

// ListWorkflows returns workflows filtered through the list controller.
func (s *WorkflowService) ListWorkflows(ctx context.Context, q listctl.Query) ([]domain.Workflow, error) {
	workflows, err := s.workflows.List(ctx)
	if err != nil {
		return nil, err
	}
	return listctl.Visible(workflowSchema, workflows, q), nil
}

// GetWorkflow fetches one workflow.
func (s *WorkflowService) GetWorkflow(ctx context.Context, id string) (*domain.Workflow, error) {
	return s.workflows.GetByID(ctx, id)
}

// ListRuns returns the most recent runs of one workflow.
func (s *WorkflowService) ListRuns(ctx context.Context, workflowID string, limit int) ([]domain.WorkflowRun, error) {
	if _, err := s.workflows.GetByID(ctx, workflowID); err != nil {
		return nil, err
	}
	return s.workflows.ListRuns(ctx, workflowID, limit)
}

// Summary tallies the workflows visible under the query.
func (s *WorkflowService) Summary(ctx context.Context, q listctl.Query) (*WorkflowSummary, error) {
	visible, err := s.ListWorkflows(ctx, q)
	if err != nil {
		return nil, err
	}
	summary := &WorkflowSummary{
		Total:    len(visible),
		ByStatus: listctl.CountBy(visible, func(w domain.Workflow) string { return string(w.Status) }),
	}
	for _, w := range visible {
		summary.TotalRuns += w.RunCount
	}
	return summary, nil
}

// UpdateWorkflow applies the patch to one workflow through the mutation
// sequencer.
func (s *WorkflowService) UpdateWorkflow(ctx context.Context, actor events.Actor, id string, input WorkflowUpdateInput) (*domain.Workflow, error) {
	if input.Steps != nil && *input.Steps < 0 {
		return nil, apperrors.NewValidationError("steps cannot be negative", nil)
	}

	coll := &storeCollection[*domain.Workflow]{
		ctx:    ctx,
		get:    s.workflows.GetByID,
		update: s.workflows.Update,
		remove: s.workflows.Delete,
	}
	updated, err := sequencedSave(coll, s.logger, id, func(w *domain.Workflow) *domain.Workflow {
		if input.Name != nil {
			w.Name = strings.TrimSpace(*input.Name)
		}
		if input.Description != nil {
			w.Description = strings.TrimSpace(*input.Description)
		}
		if input.Status != nil {
			w.Status = *input.Status
		}
		if input.Steps != nil {
			w.Steps = *input.Steps
		}
		if input.Triggers != nil {
			w.Triggers = *input.Triggers
		}
		if input.Actions != nil {
			w.Actions = *input.Actions
		}
		return w
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventWorkflowUpdated,
		Resource: events.ResourceWorkflow,
		Action:   events.ActionUpdated,
		EntityID: updated.ID,
		Actor:    actor,
	})
	return updated, nil
}

// DeleteWorkflow removes one workflow through the mutation sequencer.
func (s *WorkflowService) DeleteWorkflow(ctx context.Context, actor events.Actor, id string) error {
	coll := &storeCollection[*domain.Workflow]{
		ctx:    ctx,
		get:    s.workflows.GetByID,
		update: s.workflows.Update,
		remove: s.workflows.Delete,
	}
	if err := sequencedDelete(coll, s.logger, id); err != nil {
		return err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventWorkflowDeleted,
		Resource: events.ResourceWorkflow,
		Action:   events.ActionDeleted,
		EntityID: id,
		Actor:    actor,
	})
	return nil
}

// RecordRun appends a run to the audit trail and folds its outcome into the
// workflow's statistics. Skipped runs are recorded but do not move RunCount,
// SuccessRate or LastRunAt.
func (s *WorkflowService) RecordRun(ctx context.Context, actor events.Actor, workflowID string, status domain.WorkflowRunStatus, message string, durationMS int64) (*domain.WorkflowRun, error) {
	workflow, err := s.workflows.GetByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if workflow.Status != domain.WorkflowStatusActive && status != domain.RunStatusSkipped {
		return nil, apperrors.NewConflict("workflow is not active", map[string]any{"status": workflow.Status})
	}

	run := &domain.WorkflowRun{
		WorkflowID: workflow.ID,
		Status:     status,
		Message:    message,
		DurationMS: durationMS,
	}
	if err := s.workflows.CreateRun(ctx, run); err != nil {
		return nil, err
	}

	if status != domain.RunStatusSkipped {
		// the run rows are authoritative; recompute from them so the
		// stored rate never drifts
		total, successes, err := s.workflows.RunStats(ctx, workflow.ID)
		if err != nil {
			return nil, err
		}
		workflow.RunCount = total
		workflow.SuccessRate = 0
		if total > 0 {
			workflow.SuccessRate = float64(successes) / float64(total) * 100
		}
		now := nowUTC()
		workflow.LastRunAt = &now
		if status == domain.RunStatusFailed {
			workflow.Status = domain.WorkflowStatusError
		}
		if err := s.workflows.Update(ctx, workflow); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, events.Event{
		Type:     events.EventWorkflowRan,
		Resource: events.ResourceWorkflow,
		Action:   events.ActionUpdated,
		EntityID: workflow.ID,
		Actor:    actor,
		Payload: events.WorkflowRanPayload{
			RunID:  run.ID,
			Status: run.Status,
		},
	})
	return run, nil
}

func (s *WorkflowService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = newEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = nowUTC()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
