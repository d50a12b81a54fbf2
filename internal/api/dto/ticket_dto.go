package dto

import (
	"time"

	"github.com/helpdesk-kit/ticketing-service/internal/domain"
)

// CreateTicketRequest is the ticket creation payload.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateStatusRequest carries the new status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// MLCorrectionRequest overrides classifier output; omitted fields stay.
type MLCorrectionRequest struct {
	Category *string `json:"category"`
	Priority *int    `json:"priority"`
}

// AssignRequest carries the target staff role.
type AssignRequest struct {
	AssignedTo string `json:"assignedTo"`
}

// AddCommentRequest carries a comment body.
type AddCommentRequest struct {
	Message string `json:"message"`
}

// TicketSummary is the listing representation.
type TicketSummary struct {
	ID         string                `json:"id"`
	OwnerID    string                `json:"ownerId"`
	Title      string                `json:"title"`
	Status     domain.TicketStatus   `json:"status"`
	Category   domain.TicketCategory `json:"category"`
	Priority   int                   `json:"priority"`
	AssignedTo domain.Role           `json:"assignedTo"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
}

// TicketDetail includes the thread and audit trail.
type TicketDetail struct {
	ID          string                `json:"id"`
	OwnerID     string                `json:"ownerId"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Category    domain.TicketCategory `json:"category"`
	Priority    int                   `json:"priority"`
	AssignedTo  domain.Role           `json:"assignedTo"`
	Comments    []CommentResponse     `json:"comments"`
	Attachments []AttachmentResponse  `json:"attachments"`
	History     []HistoryResponse     `json:"history"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// CommentResponse is one thread entry.
type CommentResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// AttachmentResponse is file metadata.
type AttachmentResponse struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// HistoryResponse is one audit entry.
type HistoryResponse struct {
	ID        string               `json:"id"`
	Action    domain.HistoryAction `json:"action"`
	OldValue  string               `json:"oldValue"`
	NewValue  string               `json:"newValue"`
	ChangedBy string               `json:"changedBy"`
	CreatedAt time.Time            `json:"timestamp"`
}
