package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/wastewise/internal/database/repository"
)

func TestBootstrapIsRepeatable(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "ww.db")

	db, err := Bootstrap(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Bootstrap(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('users','sessions')`).Scan(&n))
	require.Equal(t, 2, n)
}

func TestSeedAdminIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, err := Bootstrap(filepath.Join(t.TempDir(), "ww.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, SeedAdmin(ctx, db, "", ""))
	require.Error(t, SeedAdmin(ctx, db, "ops@example.com", ""))

	require.NoError(t, SeedAdmin(ctx, db, "Ops@Example.com", "hash"))
	require.NoError(t, SeedAdmin(ctx, db, "ops@example.com", "other-hash"))

	users := repository.NewUserRepo(db)
	n, err := users.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	u, err := users.ByEmail(ctx, "ops@example.com")
	require.NoError(t, err)
	require.Equal(t, "admin", u.Role)
	require.Equal(t, "hash", u.PasswordHash)
}

func TestSeedAdminPromotesExistingUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, err := Bootstrap(filepath.Join(t.TempDir(), "ww.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := repository.NewUserRepo(db)
	now := Now()
	require.NoError(t, users.Create(ctx, repository.User{ID: "u1", Email: "lead@example.com", PasswordHash: "h", Role: "user", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, SeedAdmin(ctx, db, "lead@example.com", ""))

	u, err := users.ByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "admin", u.Role)
}

func TestWithTxRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, err := Bootstrap(filepath.Join(t.TempDir(), "ww.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	boom := errors.New("boom")
	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		now := Now()
		if _, err := tx.ExecContext(ctx, `INSERT INTO users(id, email, password_hash, role, created_at, updated_at) VALUES ('x','x@example.com','h','user',?,?)`, now, now); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := repository.NewUserRepo(db).Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}
