package model

import (
	"slices"

	"github.com/google/uuid"
)

// Roles known to the system.
const (
	RoleAdmin    = "Admin"
	RoleCustomer = "Customer"
)

// Caller identifies the authenticated user behind a request.
type Caller struct {
	UserID uuid.UUID
	Email  string
	Roles  []string
}

// IsAdmin reports whether the caller holds the Admin role.
func (c Caller) IsAdmin() bool {
	return slices.Contains(c.Roles, RoleAdmin)
}

// CanAccess reports whether the caller owns a resource or is an admin.
func (c Caller) CanAccess(ownerID uuid.UUID) bool {
	return c.UserID == ownerID || c.IsAdmin()
}

// ValidRole reports whether role is one the system assigns.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCustomer
}
