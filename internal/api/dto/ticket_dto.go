package dto

import (
	"time"

	"github.com/spec-kit/bsm-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	AccountID   string                `json:"account_id"`
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Category    string                `json:"category"`
	Tags        []string              `json:"tags"`
	SLADueAt    *time.Time            `json:"sla_due_at,omitempty"`
}

// UpdateTicketRequest payload; absent fields are left unchanged.
type UpdateTicketRequest struct {
	Subject     *string                `json:"subject,omitempty"`
	Description *string                `json:"description,omitempty"`
	Status      *domain.TicketStatus   `json:"status,omitempty"`
	Priority    *domain.TicketPriority `json:"priority,omitempty"`
	Category    *string                `json:"category,omitempty"`
	Tags        *[]string              `json:"tags,omitempty"`
	SLADueAt    *time.Time             `json:"sla_due_at,omitempty"`
}

// AssignTicketRequest payload; a null assignee clears the assignment.
type AssignTicketRequest struct {
	AssigneeID *string `json:"assignee_id"`
}

// TicketResponse response shape for tickets.
type TicketResponse struct {
	ID              string                `json:"id"`
	Number          string                `json:"number"`
	AccountID       string                `json:"account_id"`
	RequesterID     string                `json:"requester_id"`
	AssigneeID      *string               `json:"assignee_id"`
	Subject         string                `json:"subject"`
	Description     string                `json:"description"`
	Status          domain.TicketStatus   `json:"status"`
	Priority        domain.TicketPriority `json:"priority"`
	Category        string                `json:"category"`
	Tags            []string              `json:"tags"`
	SLADueAt        *time.Time            `json:"sla_due_at"`
	FirstResponseAt *time.Time            `json:"first_response_at"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	ResolvedAt      *time.Time            `json:"resolved_at"`
	ClosedAt        *time.Time            `json:"closed_at"`
}

// TicketDetailResponse adds attachments to the ticket shape.
type TicketDetailResponse struct {
	TicketResponse
	Attachments []AttachmentResponse `json:"attachments"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID        string `json:"id"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

// AttachmentRequest describes attachment input.
type AttachmentRequest struct {
	StorageKey string `json:"storage_key"`
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
}

// AddAttachmentsRequest payload.
type AddAttachmentsRequest struct {
	Attachments []AttachmentRequest `json:"attachments"`
}

// TicketFromDomain maps a ticket.
func TicketFromDomain(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:              t.ID,
		Number:          t.Number,
		AccountID:       t.AccountID,
		RequesterID:     t.RequesterID,
		AssigneeID:      t.AssigneeID,
		Subject:         t.Subject,
		Description:     t.Description,
		Status:          t.Status,
		Priority:        t.Priority,
		Category:        t.Category,
		Tags:            t.Tags,
		SLADueAt:        t.SLADueAt,
		FirstResponseAt: t.FirstResponseAt,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
		ResolvedAt:      t.ResolvedAt,
		ClosedAt:        t.ClosedAt,
	}
}

// TicketDetailFromDomain maps a ticket with its attachments.
func TicketDetailFromDomain(t *domain.Ticket, attachments []domain.AttachmentReference) TicketDetailResponse {
	resp := TicketDetailResponse{TicketResponse: TicketFromDomain(t)}
	resp.Attachments = make([]AttachmentResponse, 0, len(attachments))
	for _, att := range attachments {
		resp.Attachments = append(resp.Attachments, AttachmentResponse{
			ID:        att.ID,
			FileName:  att.FileName,
			MimeType:  att.MimeType,
			SizeBytes: att.SizeBytes,
		})
	}
	return resp
}
