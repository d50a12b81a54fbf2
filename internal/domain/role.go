package domain

import "fmt"

// Role enumerates every account role known to the system.
type Role string

const (
	RoleUser            Role = "user"
	RoleOperator        Role = "operator"
	RoleAdmin           Role = "admin"
	RoleITSupport       Role = "it_support"
	RoleNetworkAdmin    Role = "network_admin"
	RoleSysadmin        Role = "sysadmin"
	RoleSecurity        Role = "security"
	RoleHardwareSupport Role = "hardware_support"
)

var roles = map[Role]struct{}{
	RoleUser:            {},
	RoleOperator:        {},
	RoleAdmin:           {},
	RoleITSupport:       {},
	RoleNetworkAdmin:    {},
	RoleSysadmin:        {},
	RoleSecurity:        {},
	RoleHardwareSupport: {},
}

// ParseRole validates a raw role value.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if _, ok := roles[role]; !ok {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

// IsStaff reports whether the role may act on tickets filed by others.
func (r Role) IsStaff() bool {
	_, ok := roles[r]
	return ok && r != RoleUser
}

// ParseAssignee validates a raw value as a ticket assignee role.
// Only staff roles can service tickets.
func ParseAssignee(raw string) (Role, error) {
	role, err := ParseRole(raw)
	if err != nil {
		return "", err
	}
	if !role.IsStaff() {
		return "", fmt.Errorf("role %q cannot be assigned tickets", raw)
	}
	return role, nil
}
