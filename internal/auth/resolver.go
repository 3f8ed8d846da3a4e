package auth

import (
	"context"
	"fmt"

	"github.com/jask/wastewise/internal/database/repository"
)

// UserRoleResolver reads the role column of the users table.
type UserRoleResolver struct {
	Users *repository.UserRepo
}

// Resolve implements RoleResolver. Unknown accounts and unrecognised role
// values both yield ErrMissingRole.
func (r *UserRoleResolver) Resolve(ctx context.Context, id Identity) (Role, error) {
	u, err := r.Users.ByID(ctx, id.UID)
	if err != nil {
		return "", fmt.Errorf("resolve role for %s: %w", id.UID, err)
	}
	if u == nil {
		return "", fmt.Errorf("resolve role for %s: no account: %w", id.UID, ErrMissingRole)
	}
	role, ok := ParseRole(u.Role)
	if !ok {
		return "", fmt.Errorf("resolve role for %s: %q: %w", id.UID, u.Role, ErrMissingRole)
	}
	return role, nil
}
