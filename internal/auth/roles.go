package auth

import (
	"fmt"
	"strings"
)

// Role is a staff role.
type Role string

// Known staff roles.
const (
	RoleAdmin        Role = "admin"
	RoleReceptionist Role = "receptionist"
)

// ParseRole normalizes and validates a stored role name.
func ParseRole(value string) (Role, error) {
	switch role := Role(strings.ToLower(strings.TrimSpace(value))); role {
	case RoleAdmin, RoleReceptionist:
		return role, nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

// CanViewDashboard reports whether role may open the dashboard.
func CanViewDashboard(role Role) bool {
	return role == RoleAdmin || role == RoleReceptionist
}

// CanManageRecords reports whether role may list and create back-office records.
func CanManageRecords(role Role) bool {
	return role == RoleAdmin || role == RoleReceptionist
}

// CanViewReports reports whether role may open the reports page.
func CanViewReports(role Role) bool {
	return role == RoleAdmin
}
