package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jask/wastewise/internal/database"
	"github.com/jask/wastewise/internal/database/repository"
)

// MaintenanceService houses housekeeping and destructive actions run at startup.
type MaintenanceService struct {
	DB *sql.DB
}

// PurgeExpiredSessions deletes sessions that expired before now and reports how many went.
func (s *MaintenanceService) PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	if s.DB == nil {
		return 0, fmt.Errorf("maintenance: db not configured")
	}
	n, err := repository.NewSessionRepo(s.DB).DeleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return n, nil
}

// Reset signs every client out and removes all accounts. The schema is kept so
// the app can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		for _, t := range []string{"sessions", "users"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
