package events

import (
	"time"

	"github.com/helpdesk-kit/ticketing-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated   EventType = "ticket_created"
	EventStatusChanged   EventType = "ticket_status_changed"
	EventTicketCorrected EventType = "ticket_corrected"
	EventTicketAssigned  EventType = "ticket_assigned"
	EventCommentAdded    EventType = "ticket_comment_added"
	EventTicketDeleted   EventType = "ticket_deleted"
)

// Event represents a domain event emitted by the lifecycle engine.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	TicketID  string          `json:"ticket_id"`
	Actor     domain.Identity `json:"actor"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   interface{}     `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title      string                `json:"title"`
	Category   domain.TicketCategory `json:"category"`
	Priority   int                   `json:"priority"`
	AssignedTo domain.Role           `json:"assigned_to"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketCorrectedPayload carries manual classification overrides.
type TicketCorrectedPayload struct {
	OldCategory domain.TicketCategory `json:"old_category"`
	NewCategory domain.TicketCategory `json:"new_category"`
	OldPriority int                   `json:"old_priority"`
	NewPriority int                   `json:"new_priority"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	OldAssignee domain.Role `json:"old_assignee"`
	NewAssignee domain.Role `json:"new_assignee"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID      string `json:"comment_id"`
	MessagePreview string `json:"message_preview"`
}
