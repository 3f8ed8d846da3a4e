package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/wastewise/internal/database/repository"
)

// SeedAdmin ensures an admin account exists for email. It is idempotent and
// safe to run on every startup; an existing account is promoted, never re-keyed.
func SeedAdmin(ctx context.Context, db *sql.DB, email, passwordHash string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	users := repository.NewUserRepo(db)
	existing, err := users.ByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Role == "admin" {
			return nil
		}
		return users.SetRole(ctx, existing.ID, "admin")
	}
	if passwordHash == "" {
		return errors.New("seed admin: password required for new account")
	}
	now := Now()
	return users.Create(ctx, repository.User{
		ID:           uuid.NewSHA1(uuid.NameSpaceOID, []byte("admin:"+email)).String(),
		Email:        email,
		DisplayName:  "Administrator",
		PasswordHash: passwordHash,
		Role:         "admin",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}
