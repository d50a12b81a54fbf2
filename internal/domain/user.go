package domain

import "time"

// User is an account holder: either an end-user filing tickets or a staff
// member servicing them, distinguished by Role.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Company      string
	Phone        string
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the claim extracted from a verified credential. It is the only
// source of caller identity; request bodies are never trusted for it.
type Identity struct {
	SubjectID string
	Role      Role
}
