// Package policy holds the role-access tables: category routing for new
// tickets, category ownership for specialists, and the role set each
// operation admits.
package policy

import (
	"fmt"

	"github.com/helpdesk-kit/ticketing-service/internal/domain"
	apperrors "github.com/helpdesk-kit/ticketing-service/pkg/util"
)

// categoryRouting maps a classified category to the staff role that services
// it. Total over the category set.
var categoryRouting = map[domain.TicketCategory]domain.Role{
	domain.CategorySoftware:       domain.RoleITSupport,
	domain.CategoryNetwork:        domain.RoleNetworkAdmin,
	domain.CategoryInfrastructure: domain.RoleSysadmin,
	domain.CategorySecurity:       domain.RoleSecurity,
	domain.CategoryHardware:       domain.RoleHardwareSupport,
	domain.CategoryUnknown:        domain.RoleOperator,
}

// categoryOwnership is the inverse mapping restricted to specialist roles.
// Operator and admin have no owned category; they are exempted from the
// ownership gate instead.
var categoryOwnership = map[domain.Role]domain.TicketCategory{
	domain.RoleITSupport:       domain.CategorySoftware,
	domain.RoleNetworkAdmin:    domain.CategoryNetwork,
	domain.RoleSysadmin:        domain.CategoryInfrastructure,
	domain.RoleSecurity:        domain.CategorySecurity,
	domain.RoleHardwareSupport: domain.CategoryHardware,
}

// RouteForCategory returns the staff role a new ticket of the given category
// is assigned to.
func RouteForCategory(category domain.TicketCategory) domain.Role {
	if role, ok := categoryRouting[category]; ok {
		return role
	}
	return domain.RoleOperator
}

// OwnedCategory returns the category a specialist role services.
func OwnedCategory(role domain.Role) (domain.TicketCategory, bool) {
	category, ok := categoryOwnership[role]
	return category, ok
}

// AuthorizeCategoryListing gates the category-scoped listing: operator and
// admin may list any category, a specialist only the exact category the
// ownership table binds it to.
func AuthorizeCategoryListing(role domain.Role, category domain.TicketCategory) error {
	if role == domain.RoleOperator || role == domain.RoleAdmin {
		return nil
	}
	owned, ok := categoryOwnership[role]
	if !ok || owned != category {
		return apperrors.NewForbidden(fmt.Sprintf("role %s may not list category %s", role, category))
	}
	return nil
}

// RoleSet is a closed set of roles permitted to invoke an operation.
type RoleSet map[domain.Role]struct{}

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...domain.Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

// Allows reports membership.
func (s RoleSet) Allows(role domain.Role) bool {
	_, ok := s[role]
	return ok
}

// Authorize returns a Forbidden error when the role is outside the set.
func (s RoleSet) Authorize(role domain.Role) error {
	if !s.Allows(role) {
		return apperrors.NewForbidden(fmt.Sprintf("role %s not permitted", role))
	}
	return nil
}

// specialists are the category-bound staff roles.
var specialists = []domain.Role{
	domain.RoleITSupport,
	domain.RoleNetworkAdmin,
	domain.RoleSysadmin,
	domain.RoleSecurity,
	domain.RoleHardwareSupport,
}

// Per-operation role sets. These are the authoritative access lists; route
// guards and the lifecycle engine both consult them.
var (
	CreateTicket   = NewRoleSet(domain.RoleUser)
	ListMine       = NewRoleSet(domain.RoleUser)
	ListAll        = NewRoleSet(domain.RoleOperator, domain.RoleAdmin)
	ListByCategory = NewRoleSet(append(specialists, domain.RoleOperator, domain.RoleAdmin)...)
	UpdateStatus   = NewRoleSet(append(specialists, domain.RoleOperator, domain.RoleAdmin)...)
	MLCorrection   = NewRoleSet(domain.RoleOperator, domain.RoleAdmin)
	AssignTicket   = NewRoleSet(domain.RoleOperator, domain.RoleAdmin)
	AddComment     = NewRoleSet(append(specialists, domain.RoleUser, domain.RoleOperator, domain.RoleAdmin)...)
	CloseTicket    = NewRoleSet(append(specialists, domain.RoleOperator, domain.RoleAdmin)...)
	DeleteTicket   = NewRoleSet(domain.RoleAdmin)
	ViewActivity   = NewRoleSet(domain.RoleOperator, domain.RoleAdmin)
)
