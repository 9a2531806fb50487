package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/bsm-service/internal/domain"
	"github.com/spec-kit/bsm-service/internal/events"
	"github.com/spec-kit/bsm-service/internal/listctl"
	"github.com/spec-kit/bsm-service/internal/repository"
	"github.com/spec-kit/bsm-service/internal/upload"
	apperrors "github.com/spec-kit/bsm-service/pkg/util"
)

// ticketSchema drives search, criteria and sorting on ticket lists. Search
// covers number, subject, description and tags; criteria cover the
// categorical fields the list surfaces expose.
var ticketSchema = listctl.Schema[domain.Ticket]{
	Searchable: []func(domain.Ticket) string{
		func(t domain.Ticket) string { return t.Number },
		func(t domain.Ticket) string { return t.Subject },
		func(t domain.Ticket) string { return t.Description },
		func(t domain.Ticket) string { return strings.Join(t.Tags, " ") },
	},
	Fields: map[string]listctl.FieldFunc[domain.Ticket]{
		"status":   func(t domain.Ticket) (string, bool) { return string(t.Status), true },
		"priority": func(t domain.Ticket) (string, bool) { return string(t.Priority), true },
		"category": func(t domain.Ticket) (string, bool) { return t.Category, t.Category != "" },
		"assignee": func(t domain.Ticket) (string, bool) {
			if t.AssigneeID == nil {
				return "", false
			}
			return *t.AssigneeID, true
		},
	},
	Sorts: map[string]listctl.SortField[domain.Ticket]{
		"number":     {Kind: listctl.SortString, String: func(t domain.Ticket) string { return t.Number }},
		"subject":    {Kind: listctl.SortString, String: func(t domain.Ticket) string { return t.Subject }},
		"priority":   {Kind: listctl.SortNumber, Number: func(t domain.Ticket) float64 { return priorityRank(t.Priority) }},
		"created_at": {Kind: listctl.SortTime, Time: func(t domain.Ticket) time.Time { return t.CreatedAt }},
		"updated_at": {Kind: listctl.SortTime, Time: func(t domain.Ticket) time.Time { return t.UpdatedAt }},
	},
}

func priorityRank(p domain.TicketPriority) float64 {
	switch p {
	case domain.TicketPriorityUrgent:
		return 4
	case domain.TicketPriorityHigh:
		return 3
	case domain.TicketPriorityMedium:
		return 2
	case domain.TicketPriorityLow:
		return 1
	}
	return 0
}

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets     repository.TicketRepository
	attachments repository.AttachmentRepository
	accounts    repository.AccountRepository
	staff       repository.StaffRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	AttachmentRepo repository.AttachmentRepository
	AccountRepo    repository.AccountRepository
	StaffRepo      repository.StaffRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:     deps.TicketRepo,
		attachments: deps.AttachmentRepo,
		accounts:    deps.AccountRepo,
		staff:       deps.StaffRepo,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	AccountID   string
	Subject     string
	Description string
	Priority    domain.TicketPriority
	Category    string
	Tags        []string
	SLADueAt    *time.Time
}

// TicketUpdateInput carries optional field updates. Nil pointers leave the
// current value untouched.
type TicketUpdateInput struct {
	Subject     *string
	Description *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
	Category    *string
	Tags        *[]string
	SLADueAt    *time.Time
}

// TicketSummary aggregates the visible ticket set.
type TicketSummary struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByPriority map[string]int `json:"by_priority"`
}

// CreateTicket creates a ticket for a requester against a client account.
func (s *TicketService) CreateTicket(ctx context.Context, requesterID string, input TicketCreateInput) (*domain.Ticket, error) {
	account, err := s.accounts.GetByID(ctx, input.AccountID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("account", map[string]any{"account_id": input.AccountID})
		}
		return nil, err
	}
	if account.Status == domain.AccountStatusSuspended {
		return nil, apperrors.NewConflict("account suspended", nil)
	}

	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, apperrors.NewValidationError("subject is required", nil)
	}

	ticket := &domain.Ticket{
		Number:      generateTicketNumber(),
		AccountID:   account.ID,
		RequesterID: requesterID,
		Subject:     subject,
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusOpen,
		Priority:    input.Priority,
		Category:    input.Category,
		Tags:        input.Tags,
		SLADueAt:    input.SLADueAt,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		Resource: events.ResourceTicket,
		Action:   events.ActionCreated,
		EntityID: ticket.ID,
		Actor:    events.UserActor(requesterID),
	})
	return ticket, nil
}

// ListTickets returns all tickets filtered through the list controller.
func (s *TicketService) ListTickets(ctx context.Context, q listctl.Query) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	return listctl.Visible(ticketSchema, tickets, q), nil
}

// ListAccountTickets returns one account's tickets filtered through the list
// controller.
func (s *TicketService) ListAccountTickets(ctx context.Context, accountID string, q listctl.Query) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return listctl.Visible(ticketSchema, tickets, q), nil
}

// ListUserTickets returns tickets the requester opened.
func (s *TicketService) ListUserTickets(ctx context.Context, userID string, q listctl.Query) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	return listctl.Visible(ticketSchema, tickets, q), nil
}

// Summary tallies the tickets visible under the query by status and priority.
func (s *TicketService) Summary(ctx context.Context, q listctl.Query) (*TicketSummary, error) {
	visible, err := s.ListTickets(ctx, q)
	if err != nil {
		return nil, err
	}
	return &TicketSummary{
		Total:      len(visible),
		ByStatus:   listctl.CountBy(visible, func(t domain.Ticket) string { return string(t.Status) }),
		ByPriority: listctl.CountBy(visible, func(t domain.Ticket) string { return string(t.Priority) }),
	}, nil
}

// GetTicket fetches a ticket with its attachments.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, []domain.AttachmentReference, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	attachments, err := s.attachments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, err
	}
	return ticket, attachments, nil
}

// GetTicketForUser fetches a ticket ensuring requester ownership.
func (s *TicketService) GetTicketForUser(ctx context.Context, userID, ticketID string) (*domain.Ticket, []domain.AttachmentReference, error) {
	ticket, attachments, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if ticket.RequesterID != userID {
		return nil, nil, apperrors.NewForbidden("access denied")
	}
	return ticket, attachments, nil
}

// UpdateTicket applies the patch to one ticket through the mutation
// sequencer. Status changes are validated against the lifecycle before any
// field is touched; a rejected transition leaves the whole patch unapplied.
func (s *TicketService) UpdateTicket(ctx context.Context, actor events.Actor, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	current, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, err
	}
	if err := checkTransition(current.Status, input.Status); err != nil {
		return nil, err
	}

	var oldStatus domain.TicketStatus
	var transitionErr error

	coll := &storeCollection[*domain.Ticket]{
		ctx:    ctx,
		get:    s.tickets.GetByID,
		update: s.tickets.Update,
		remove: s.tickets.Delete,
	}
	updated, err := sequencedSave(coll, s.logger, ticketID, func(t *domain.Ticket) *domain.Ticket {
		oldStatus = t.Status
		// re-checked against the freshly loaded row; a rejected
		// transition returns the record untouched
		if transitionErr = checkTransition(t.Status, input.Status); transitionErr != nil {
			return t
		}
		if input.Subject != nil {
			t.Subject = strings.TrimSpace(*input.Subject)
		}
		if input.Description != nil {
			t.Description = strings.TrimSpace(*input.Description)
		}
		if input.Priority != nil {
			t.Priority = *input.Priority
		}
		if input.Category != nil {
			t.Category = *input.Category
		}
		if input.Tags != nil {
			t.Tags = *input.Tags
		}
		if input.SLADueAt != nil {
			t.SLADueAt = input.SLADueAt
		}
		if input.Status != nil && *input.Status != t.Status {
			applyStatusChange(t, *input.Status)
		}
		return t
	})
	if transitionErr != nil {
		return nil, transitionErr
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		Resource: events.ResourceTicket,
		Action:   events.ActionUpdated,
		EntityID: updated.ID,
		Actor:    actor,
	})
	if input.Status != nil && updated.Status != oldStatus {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			Resource: events.ResourceTicket,
			Action:   events.ActionUpdated,
			EntityID: updated.ID,
			Actor:    actor,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: updated.Status,
			},
		})
	}
	return updated, nil
}

// AssignTicket sets or clears the assignee and marks the first response time
// on first assignment.
func (s *TicketService) AssignTicket(ctx context.Context, actor events.Actor, ticketID string, assigneeID *string) (*domain.Ticket, error) {
	if assigneeID != nil {
		staff, err := s.staff.GetByID(ctx, *assigneeID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("staff member", map[string]any{"staff_id": *assigneeID})
			}
			return nil, err
		}
		if !staff.Active {
			return nil, apperrors.NewConflict("staff member inactive", nil)
		}
	}

	coll := &storeCollection[*domain.Ticket]{
		ctx:    ctx,
		get:    s.tickets.GetByID,
		update: s.tickets.Update,
		remove: s.tickets.Delete,
	}
	updated, err := sequencedSave(coll, s.logger, ticketID, func(t *domain.Ticket) *domain.Ticket {
		t.AssigneeID = assigneeID
		if assigneeID != nil && t.FirstResponseAt == nil {
			now := nowUTC()
			t.FirstResponseAt = &now
		}
		return t
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		Resource: events.ResourceTicket,
		Action:   events.ActionUpdated,
		EntityID: updated.ID,
		Actor:    actor,
	})
	return updated, nil
}

// DeleteTicket removes one ticket through the mutation sequencer.
func (s *TicketService) DeleteTicket(ctx context.Context, actor events.Actor, ticketID string) error {
	coll := &storeCollection[*domain.Ticket]{
		ctx:    ctx,
		get:    s.tickets.GetByID,
		update: s.tickets.Update,
		remove: s.tickets.Delete,
	}
	if err := sequencedDelete(coll, s.logger, ticketID); err != nil {
		return err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		Resource: events.ResourceTicket,
		Action:   events.ActionDeleted,
		EntityID: ticketID,
		Actor:    actor,
	})
	return nil
}

// AttachmentInput defines attachment metadata supplied by the upload surface.
type AttachmentInput struct {
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
}

// AddAttachments validates and records attachment metadata for a ticket.
func (s *TicketService) AddAttachments(ctx context.Context, ticketID string, inputs []AttachmentInput) ([]domain.AttachmentReference, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	metas := make([]upload.FileMeta, 0, len(inputs))
	for _, in := range inputs {
		metas = append(metas, upload.FileMeta{
			FileName:  in.FileName,
			MimeType:  in.MimeType,
			SizeBytes: in.SizeBytes,
		})
	}
	if problems := upload.Validate(metas); problems != nil {
		details := make(map[string]any, len(problems))
		for k, v := range problems {
			details[k] = v
		}
		return nil, apperrors.NewValidationError("attachment validation failed", details)
	}

	records := make([]domain.AttachmentReference, 0, len(inputs))
	for _, in := range inputs {
		record := &domain.AttachmentReference{
			TicketID:   ticket.ID,
			StorageKey: in.StorageKey,
			FileName:   in.FileName,
			MimeType:   in.MimeType,
			SizeBytes:  in.SizeBytes,
		}
		if err := s.attachments.Create(ctx, record); err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
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

func generateTicketNumber() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress, domain.TicketStatusResolved, domain.TicketStatusClosed},
	domain.TicketStatusInProgress: {domain.TicketStatusOpen, domain.TicketStatusResolved, domain.TicketStatusClosed},
	domain.TicketStatusResolved:   {domain.TicketStatusInProgress, domain.TicketStatusClosed},
	domain.TicketStatusClosed:     {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// checkTransition validates a requested status change against the lifecycle.
// A nil or no-op request passes.
func checkTransition(current domain.TicketStatus, requested *domain.TicketStatus) error {
	if requested == nil || *requested == current {
		return nil
	}
	if !isValidTransition(current, *requested) {
		return apperrors.NewConflict("invalid status transition", map[string]any{
			"from": current,
			"to":   *requested,
		})
	}
	return nil
}

func applyStatusChange(t *domain.Ticket, next domain.TicketStatus) {
	now := nowUTC()
	switch next {
	case domain.TicketStatusInProgress:
		if t.FirstResponseAt == nil {
			t.FirstResponseAt = &now
		}
		t.ResolvedAt = nil
	case domain.TicketStatusResolved:
		t.ResolvedAt = &now
	case domain.TicketStatusClosed:
		t.ClosedAt = &now
	case domain.TicketStatusOpen:
		t.ResolvedAt = nil
	}
	t.Status = next
}
