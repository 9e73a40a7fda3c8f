package domain

import "time"

// Role enumerates the privileges a session token can carry.
type Role string

const (
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin:
		return true
	default:
		return false
	}
}

// Identity is the verified caller reconstructed from a session token.
type Identity struct {
	SubjectID string
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
