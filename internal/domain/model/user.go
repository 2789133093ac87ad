package model

import "time"

// Role grants access levels to API consumers.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered marketplace customer or administrator.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Principal is the authenticated caller extracted from a bearer credential.
type Principal struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether principal has administrative rights.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Registration carries sign-up form values.
type Registration struct {
	Name     string
	Email    string
	Password string
	Phone    string
}
