package repository

import (
	"errors"
	"time"
)

// ErrConflict is returned when an insert collides with a unique key.
var ErrConflict = errors.New("repository: conflict")

// User represents a user row.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session represents a remembered sign-in.
type Session struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
