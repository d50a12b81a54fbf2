package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-kit/ticketing-service/internal/policy"
	apperrors "github.com/helpdesk-kit/ticketing-service/pkg/util"
)

// RequireRoles gates a route on membership in the given role set.
func RequireRoles(allowed policy.RoleSet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("authentication required")
		}
		if err := allowed.Authorize(principal.Identity.Role); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a principal is present without role checks.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthenticated("authentication required")
		}
		return c.Next()
	}
}
