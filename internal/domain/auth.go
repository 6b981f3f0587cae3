package domain

import (
	"strings"
	"time"
)

// Role differentiates ordinary customers from administrators.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// ParseRole maps a stored or claimed role onto the closed set of roles.
// Anything that is not exactly an administrator is treated as a customer.
func ParseRole(raw string) Role {
	if strings.EqualFold(strings.TrimSpace(raw), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleCustomer
}

// Token represents issued authentication token metadata.
type Token struct {
	Value     string
	SubjectID string
	Email     string
	Role      Role
	ExpiresAt time.Time
}
