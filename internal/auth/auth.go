// Package auth is the boundary to the identity platform: the Provider that
// emits sign-in state changes, the RoleResolver that maps an identity to a
// role, and a local sqlite-backed provider implementing both sides.
package auth

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrInvalidCredentials is returned when email or password do not match.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrEmailTaken is returned by sign-up for an existing account.
	ErrEmailTaken = errors.New("auth: email already registered")
	// ErrWeakPassword is returned by sign-up for passwords under MinPasswordLen.
	ErrWeakPassword = errors.New("auth: password too short")
	// ErrInvalidEmail is returned by sign-up for malformed addresses.
	ErrInvalidEmail = errors.New("auth: invalid email")
	// ErrSessionExpired is returned when a remembered session is past its expiry.
	ErrSessionExpired = errors.New("auth: session expired")
	// ErrMissingRole is returned when no role can be determined for an identity.
	ErrMissingRole = errors.New("auth: role not resolved")
)

// Identity is an opaque reference to a signed-in account.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
}

// Provider emits sign-in state changes. The listener receives nil on sign-out.
// The returned func releases the subscription; calling it more than once is a no-op.
type Provider interface {
	Subscribe(listener func(*Identity)) (unsubscribe func())
}

// Role is the privilege class of a signed-in account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole accepts "admin" and "user" in any case.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleUser:
		return RoleUser, true
	default:
		return "", false
	}
}

// RoleResolver maps an identity to its role.
type RoleResolver interface {
	Resolve(ctx context.Context, id Identity) (Role, error)
}

// ResolverFunc adapts a function to RoleResolver.
type ResolverFunc func(ctx context.Context, id Identity) (Role, error)

// Resolve implements RoleResolver.
func (f ResolverFunc) Resolve(ctx context.Context, id Identity) (Role, error) {
	return f(ctx, id)
}
