package events

import (
	"time"

	"github.com/spec-kit/bsm-service/internal/domain"
)

// Resource names the entity collection an event belongs to.
type Resource string

const (
	ResourceTicket   Resource = "ticket"
	ResourceAccount  Resource = "account"
	ResourceAsset    Resource = "asset"
	ResourceWorkflow Resource = "workflow"
	ResourceArticle  Resource = "article"
)

// Action names the mutation applied to the resource.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketUpdated       EventType = "ticket_updated"
	EventTicketDeleted       EventType = "ticket_deleted"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventAccountCreated      EventType = "account_created"
	EventAccountUpdated      EventType = "account_updated"
	EventAccountDeleted      EventType = "account_deleted"
	EventAssetCreated        EventType = "asset_created"
	EventAssetUpdated        EventType = "asset_updated"
	EventAssetDeleted        EventType = "asset_deleted"
	EventWorkflowCreated     EventType = "workflow_created"
	EventWorkflowUpdated     EventType = "workflow_updated"
	EventWorkflowDeleted     EventType = "workflow_deleted"
	EventWorkflowRan         EventType = "workflow_ran"
	EventArticleCreated      EventType = "article_created"
	EventArticleUpdated      EventType = "article_updated"
	EventArticleDeleted      EventType = "article_deleted"
	EventArticlePublished    EventType = "article_published"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type    domain.SubjectType `json:"type"`
	UserID  *string            `json:"user_id,omitempty"`
	StaffID *string            `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Resource  Resource    `json:"resource"`
	Action    Action      `json:"action"`
	EntityID  string      `json:"entity_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// WorkflowRanPayload payload.
type WorkflowRanPayload struct {
	RunID  string                   `json:"run_id"`
	Status domain.WorkflowRunStatus `json:"status"`
}

// UserActor builds an actor for a customer user.
func UserActor(userID string) Actor {
	return Actor{Type: domain.SubjectTypeUser, UserID: &userID}
}

// StaffActor builds an actor for a staff member.
func StaffActor(staffID string) Actor {
	return Actor{Type: domain.SubjectTypeStaff, StaffID: &staffID}
}
