package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-kit/ticketing-service/internal/api/http/handlers"
	"github.com/helpdesk-kit/ticketing-service/internal/auth"
	"github.com/helpdesk-kit/ticketing-service/internal/policy"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	StaffTickets   *handlers.StaffTicketsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Static ticket paths are registered before
// the parameterized ones so "mine", "activity" and "category" never match as
// ticket ids.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/stats", cfg.Health.Stats)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/reset/request", cfg.Users.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Users.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Users.ChangePassword)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle)
	admin.Post("/accounts", cfg.Users.CreateStaffAccount)
	admin.Patch("/accounts/:id/active", cfg.Users.SetAccountActive)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("/", auth.RequireRoles(policy.CreateTicket), cfg.Tickets.CreateTicket)
	tickets.Get("/mine", auth.RequireRoles(policy.ListMine), cfg.Tickets.ListMine)
	tickets.Get("/activity", auth.RequireRoles(policy.ViewActivity), cfg.StaffTickets.Activity)
	tickets.Get("/category/:category", auth.RequireRoles(policy.ListByCategory), cfg.StaffTickets.ListByCategory)
	tickets.Get("/", auth.RequireRoles(policy.ListAll), cfg.StaffTickets.ListTickets)
	tickets.Get("/:id", auth.RequireRoles(policy.ListMine), cfg.Tickets.GetTicket)
	tickets.Patch("/:id/status", auth.RequireRoles(policy.UpdateStatus), cfg.StaffTickets.UpdateStatus)
	tickets.Patch("/:id/ml-correction", auth.RequireRoles(policy.MLCorrection), cfg.StaffTickets.MLCorrection)
	tickets.Patch("/:id/assign", auth.RequireRoles(policy.AssignTicket), cfg.StaffTickets.Assign)
	tickets.Post("/:id/comment", auth.RequireRoles(policy.AddComment), cfg.Tickets.AddComment)
	tickets.Patch("/:id/close", auth.RequireRoles(policy.CloseTicket), cfg.StaffTickets.Close)
	tickets.Delete("/:id", auth.RequireRoles(policy.DeleteTicket), cfg.StaffTickets.Delete)
}
