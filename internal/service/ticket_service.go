package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-kit/ticketing-service/internal/classifier"
	"github.com/helpdesk-kit/ticketing-service/internal/domain"
	"github.com/helpdesk-kit/ticketing-service/internal/events"
	"github.com/helpdesk-kit/ticketing-service/internal/policy"
	"github.com/helpdesk-kit/ticketing-service/internal/repository"
	apperrors "github.com/helpdesk-kit/ticketing-service/pkg/util"
)

// TicketService is the ticket lifecycle engine: it owns every status,
// category, priority and assignment transition, gates each operation on the
// policy role sets, and guarantees the paired history entry for every
// mutation.
type TicketService struct {
	tickets    repository.TicketRepository
	classify   classifier.Classifier
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the lifecycle engine.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Classifier classifier.Classifier
	Dispatcher events.Dispatcher
}

// TicketCreateInput describes the ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
}

// ListOptions carries pagination.
type ListOptions struct {
	Limit  int
	Offset int
}

// TicketAdminFilter describes the operator/admin listing filters.
type TicketAdminFilter struct {
	Status     *domain.TicketStatus
	Category   *domain.TicketCategory
	Priority   *int
	OwnerID    *string
	AssignedTo *domain.Role
	Limit      int
	Offset     int
}

// CorrectionInput overrides classifier output; nil fields are left untouched.
type CorrectionInput struct {
	Category *domain.TicketCategory
	Priority *int
}

// NewTicketService constructs the engine.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		classify:   deps.Classifier,
		dispatcher: deps.Dispatcher,
	}
}

// Create files a new ticket. Only end-users create tickets; classification
// and routing derive category, priority and assignee.
func (s *TicketService) Create(ctx context.Context, actor domain.Identity, input TicketCreateInput) (*domain.Ticket, error) {
	if err := policy.CreateTicket.Authorize(actor.Role); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	result := s.classify.Classify(description)

	ticket := &domain.Ticket{
		OwnerID:     actor.SubjectID,
		Title:       title,
		Description: description,
		Status:      domain.StatusNew,
		Category:    result.Category,
		Priority:    result.Priority,
		AssignedTo:  policy.RouteForCategory(result.Category),
	}
	if ticket.Priority == 0 {
		ticket.Priority = domain.DefaultPriority
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketCreatedPayload{
			Title:      ticket.Title,
			Category:   ticket.Category,
			Priority:   ticket.Priority,
			AssignedTo: ticket.AssignedTo,
		},
	})
	return ticket, nil
}

// ListMine returns the caller's own tickets.
func (s *TicketService) ListMine(ctx context.Context, actor domain.Identity, opts ListOptions) ([]domain.Ticket, error) {
	if err := policy.ListMine.Authorize(actor.Role); err != nil {
		return nil, err
	}
	owner := actor.SubjectID
	return s.list(ctx, repository.TicketFilter{OwnerID: &owner, Limit: opts.Limit, Offset: opts.Offset})
}

// ListAll returns tickets matching the optional filters.
func (s *TicketService) ListAll(ctx context.Context, actor domain.Identity, filter TicketAdminFilter) ([]domain.Ticket, error) {
	if err := policy.ListAll.Authorize(actor.Role); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.TicketFilter{
		OwnerID:    filter.OwnerID,
		Status:     filter.Status,
		Category:   filter.Category,
		Priority:   filter.Priority,
		AssignedTo: filter.AssignedTo,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// ListByCategory returns tickets in one category. Specialists may only list
// the category the ownership table binds their role to; operator and admin
// may list any.
func (s *TicketService) ListByCategory(ctx context.Context, actor domain.Identity, category domain.TicketCategory, opts ListOptions) ([]domain.Ticket, error) {
	if err := policy.ListByCategory.Authorize(actor.Role); err != nil {
		return nil, err
	}
	if err := policy.AuthorizeCategoryListing(actor.Role, category); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.TicketFilter{Category: &category, Limit: opts.Limit, Offset: opts.Offset})
}

// GetForOwner fetches one ticket with its thread, ensuring ownership.
func (s *TicketService) GetForOwner(ctx context.Context, actor domain.Identity, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapTicketErr(err, ticketID)
	}
	if ticket.OwnerID != actor.SubjectID {
		return nil, apperrors.NewForbidden("not the ticket owner")
	}
	return ticket, nil
}

// UpdateStatus sets the ticket status. Any status may move to any other;
// there is deliberately no transition graph here.
func (s *TicketService) UpdateStatus(ctx context.Context, actor domain.Identity, ticketID string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if err := policy.UpdateStatus.Authorize(actor.Role); err != nil {
		return nil, err
	}
	return s.setStatus(ctx, actor, ticketID, newStatus)
}

// Close sets the ticket status to done.
func (s *TicketService) Close(ctx context.Context, actor domain.Identity, ticketID string) (*domain.Ticket, error) {
	if err := policy.CloseTicket.Authorize(actor.Role); err != nil {
		return nil, err
	}
	return s.setStatus(ctx, actor, ticketID, domain.StatusDone)
}

func (s *TicketService) setStatus(ctx context.Context, actor domain.Identity, ticketID string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	var oldStatus domain.TicketStatus
	ticket, err := s.tickets.Mutate(ctx, ticketID, func(t *domain.Ticket) ([]domain.HistoryEntry, error) {
		oldStatus = t.Status
		t.Status = newStatus
		return []domain.HistoryEntry{{
			Action:    domain.ActionStatusChange,
			OldValue:  string(oldStatus),
			NewValue:  string(newStatus),
			ChangedBy: actor.SubjectID,
		}}, nil
	})
	if err != nil {
		return nil, mapTicketErr(err, ticketID)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventStatusChanged,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload:  events.StatusChangedPayload{OldStatus: oldStatus, NewStatus: newStatus},
	})
	return ticket, nil
}

// CorrectClassification overrides classifier output directly. Each changed
// field gets its own history entry.
func (s *TicketService) CorrectClassification(ctx context.Context, actor domain.Identity, ticketID string, input CorrectionInput) (*domain.Ticket, error) {
	if err := policy.MLCorrection.Authorize(actor.Role); err != nil {
		return nil, err
	}
	if input.Category == nil && input.Priority == nil {
		return nil, apperrors.NewValidationError("category or priority required", nil)
	}

	var payload events.TicketCorrectedPayload
	ticket, err := s.tickets.Mutate(ctx, ticketID, func(t *domain.Ticket) ([]domain.HistoryEntry, error) {
		payload.OldCategory, payload.NewCategory = t.Category, t.Category
		payload.OldPriority, payload.NewPriority = t.Priority, t.Priority

		var entries []domain.HistoryEntry
		if input.Category != nil && *input.Category != t.Category {
			entries = append(entries, domain.HistoryEntry{
				Action:    domain.ActionCategoryChange,
				OldValue:  string(t.Category),
				NewValue:  string(*input.Category),
				ChangedBy: actor.SubjectID,
			})
			t.Category = *input.Category
			payload.NewCategory = t.Category
		}
		if input.Priority != nil && *input.Priority != t.Priority {
			entries = append(entries, domain.HistoryEntry{
				Action:    domain.ActionPriorityChange,
				OldValue:  strconv.Itoa(t.Priority),
				NewValue:  strconv.Itoa(*input.Priority),
				ChangedBy: actor.SubjectID,
			})
			t.Priority = *input.Priority
			payload.NewPriority = t.Priority
		}
		return entries, nil
	})
	if err != nil {
		return nil, mapTicketErr(err, ticketID)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCorrected,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload:  payload,
	})
	return ticket, nil
}

// Assign routes the ticket to a staff role manually.
func (s *TicketService) Assign(ctx context.Context, actor domain.Identity, ticketID string, assignee domain.Role) (*domain.Ticket, error) {
	if err := policy.AssignTicket.Authorize(actor.Role); err != nil {
		return nil, err
	}
	var payload events.TicketAssignedPayload
	ticket, err := s.tickets.Mutate(ctx, ticketID, func(t *domain.Ticket) ([]domain.HistoryEntry, error) {
		payload.OldAssignee, payload.NewAssignee = t.AssignedTo, assignee
		entry := domain.HistoryEntry{
			Action:    domain.ActionAssigned,
			OldValue:  string(t.AssignedTo),
			NewValue:  string(assignee),
			ChangedBy: actor.SubjectID,
		}
		t.AssignedTo = assignee
		return []domain.HistoryEntry{entry}, nil
	})
	if err != nil {
		return nil, mapTicketErr(err, ticketID)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload:  payload,
	})
	return ticket, nil
}

// AddComment appends a comment and its history entry in one transaction.
func (s *TicketService) AddComment(ctx context.Context, actor domain.Identity, ticketID, message string) (*domain.Ticket, error) {
	if err := policy.AddComment.Authorize(actor.Role); err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("message required", nil)
	}

	comment := &domain.Comment{AuthorID: actor.SubjectID, Message: message}
	entry := &domain.HistoryEntry{
		Action:    domain.ActionCommentAdded,
		NewValue:  preview(message, 120),
		ChangedBy: actor.SubjectID,
	}
	ticket, err := s.tickets.AddComment(ctx, ticketID, comment, entry)
	if err != nil {
		return nil, mapTicketErr(err, ticketID)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventCommentAdded,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload:  events.CommentAddedPayload{CommentID: comment.ID, MessagePreview: preview(message, 120)},
	})
	return ticket, nil
}

// Delete permanently removes a ticket. Admin only; no tombstone.
func (s *TicketService) Delete(ctx context.Context, actor domain.Identity, ticketID string) error {
	if err := policy.DeleteTicket.Authorize(actor.Role); err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		return mapTicketErr(err, ticketID)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticketID,
		Actor:    actor,
	})
	return nil
}

func (s *TicketService) list(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func mapTicketErr(err error, ticketID string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	return apperrors.MapError(err)
}

func preview(message string, max int) string {
	message = strings.TrimSpace(message)
	runes := []rune(message)
	if len(runes) <= max {
		return message
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
