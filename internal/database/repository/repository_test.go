package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/wastewise/internal/database"
	"github.com/jask/wastewise/internal/database/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Bootstrap(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUserRepoCreateAndLookup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	users := repository.NewUserRepo(openTestDB(t))

	now := database.Now()
	u := repository.User{ID: "u1", Email: " Resident@Example.com ", DisplayName: "Res", PasswordHash: "x", Role: "user", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, users.Create(ctx, u))

	got, err := users.ByEmail(ctx, "resident@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "u1", got.ID)
	require.Equal(t, "resident@example.com", got.Email)
	require.True(t, now.Equal(got.CreatedAt))

	dup := u
	dup.ID = "u2"
	require.ErrorIs(t, users.Create(ctx, dup), repository.ErrConflict)

	missing, err := users.ByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, missing)

	require.NoError(t, users.SetRole(ctx, "u1", "admin"))
	got, err = users.ByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "admin", got.Role)
	require.ErrorIs(t, users.SetRole(ctx, "ghost", "admin"), sql.ErrNoRows)

	n, err := users.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestSessionRepoExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openTestDB(t)
	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)

	now := database.Now()
	require.NoError(t, users.Create(ctx, repository.User{ID: "u1", Email: "a@example.com", PasswordHash: "x", Role: "user", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, sessions.Create(ctx, repository.Session{Token: "live", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, sessions.Create(ctx, repository.Session{Token: "stale", UserID: "u1", CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}))

	s, err := sessions.Get(ctx, "live")
	require.NoError(t, err)
	require.NotNil(t, s)
	require.False(t, s.Expired(now))
	require.True(t, s.Expired(now.Add(time.Hour)))

	removed, err := sessions.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	gone, err := sessions.Get(ctx, "stale")
	require.NoError(t, err)
	require.Nil(t, gone)

	n, err := sessions.CountForUser(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, sessions.Delete(ctx, "live"))
	n, err = sessions.CountForUser(ctx, "u1")
	require.NoError(t, err)
	require.Zero(t, n)
}
