package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-kit/ticketing-service/internal/api/dto"
	"github.com/helpdesk-kit/ticketing-service/internal/auth"
	"github.com/helpdesk-kit/ticketing-service/internal/domain"
	"github.com/helpdesk-kit/ticketing-service/internal/service"
	apperrors "github.com/helpdesk-kit/ticketing-service/pkg/util"
)

// StaffTicketsHandler manages the triage endpoints: listing, status,
// classification correction, assignment, close and delete.
type StaffTicketsHandler struct {
	service       *service.TicketService
	notifications *service.NotificationService
}

// NewStaffTicketsHandler constructs handler.
func NewStaffTicketsHandler(ticketService *service.TicketService, notifications *service.NotificationService) *StaffTicketsHandler {
	return &StaffTicketsHandler{service: ticketService, notifications: notifications}
}

// ListTickets GET /tickets.
func (h *StaffTicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	filter, err := parseAdminFilter(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.ListAll(c.UserContext(), principal.Identity, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummaries(tickets)})
}

// ListByCategory GET /tickets/category/:category.
func (h *StaffTicketsHandler) ListByCategory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	category, err := domain.ParseCategory(c.Params("category"))
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	tickets, err := h.service.ListByCategory(c.UserContext(), principal.Identity, category, parseListOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummaries(tickets)})
}

// UpdateStatus PATCH /tickets/:id/status.
func (h *StaffTicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	ticket, err := h.service.UpdateStatus(c.UserContext(), principal.Identity, c.Params("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// MLCorrection PATCH /tickets/:id/ml-correction.
func (h *StaffTicketsHandler) MLCorrection(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	var req dto.MLCorrectionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input := service.CorrectionInput{}
	if req.Category != nil {
		category, err := domain.ParseCategory(*req.Category)
		if err != nil {
			return apperrors.NewValidationError(err.Error(), nil)
		}
		input.Category = &category
	}
	if req.Priority != nil {
		priority, err := domain.ParsePriority(*req.Priority)
		if err != nil {
			return apperrors.NewValidationError(err.Error(), nil)
		}
		input.Priority = &priority
	}
	ticket, err := h.service.CorrectClassification(c.UserContext(), principal.Identity, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Assign PATCH /tickets/:id/assign.
func (h *StaffTicketsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	assignee, err := domain.ParseAssignee(req.AssignedTo)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	ticket, err := h.service.Assign(c.UserContext(), principal.Identity, c.Params("id"), assignee)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Close PATCH /tickets/:id/close.
func (h *StaffTicketsHandler) Close(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	ticket, err := h.service.Close(c.UserContext(), principal.Identity, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Delete DELETE /tickets/:id.
func (h *StaffTicketsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	if err := h.service.Delete(c.UserContext(), principal.Identity, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// Activity GET /tickets/activity.
func (h *StaffTicketsHandler) Activity(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	limit := int64(parseInt(c.Query("limit"), 20))
	feed, err := h.notifications.RecentActivity(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": feed})
}

func parseAdminFilter(c *fiber.Ctx) (service.TicketAdminFilter, error) {
	filter := service.TicketAdminFilter{}
	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return filter, apperrors.NewValidationError(err.Error(), nil)
		}
		filter.Status = &status
	}
	if raw := c.Query("category"); raw != "" {
		category, err := domain.ParseCategory(raw)
		if err != nil {
			return filter, apperrors.NewValidationError(err.Error(), nil)
		}
		filter.Category = &category
	}
	if raw := c.Query("priority"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return filter, apperrors.NewValidationError("priority must be an integer", nil)
		}
		priority, err := domain.ParsePriority(parsed)
		if err != nil {
			return filter, apperrors.NewValidationError(err.Error(), nil)
		}
		filter.Priority = &priority
	}
	if raw := c.Query("userId"); raw != "" {
		owner := raw
		filter.OwnerID = &owner
	}
	if raw := c.Query("assignedTo"); raw != "" {
		assignee, err := domain.ParseAssignee(raw)
		if err != nil {
			return filter, apperrors.NewValidationError(err.Error(), nil)
		}
		filter.AssignedTo = &assignee
	}
	opts := parseListOptions(c)
	filter.Limit = opts.Limit
	filter.Offset = opts.Offset
	return filter, nil
}
