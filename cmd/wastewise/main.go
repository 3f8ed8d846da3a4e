package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/wastewise/internal/auth"
	"github.com/jask/wastewise/internal/config"
	"github.com/jask/wastewise/internal/database"
	"github.com/jask/wastewise/internal/database/repository"
	"github.com/jask/wastewise/internal/logging"
	"github.com/jask/wastewise/internal/navigation"
	"github.com/jask/wastewise/internal/secrets"
	"github.com/jask/wastewise/internal/service"
	"github.com/jask/wastewise/internal/session"
	"github.com/jask/wastewise/internal/theme"
	"github.com/jask/wastewise/internal/tui"
)

func main() {
	reset := flag.Bool("reset", false, "remove all accounts and sessions before starting")
	writeConfig := flag.Bool("write-config", false, "write the effective config file and exit")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *writeConfig {
		if err := config.Save(cfg); err != nil {
			log.Fatalf("write config: %v", err)
		}
		return
	}

	logger, closeLog, err := logging.Open(cfg.Log.Path, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("log: %v", err)
	}
	defer closeLog()

	db, err := database.Bootstrap(cfg.Database.Path)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	maintenance := &service.MaintenanceService{DB: db}
	if *reset {
		if err := maintenance.Reset(ctx); err != nil {
			log.Fatalf("reset: %v", err)
		}
		logger.Info("accounts reset")
	}
	if n, err := maintenance.PurgeExpiredSessions(ctx, database.Now()); err != nil {
		logger.Warn("purge sessions failed", "err", err)
	} else if n > 0 {
		logger.Info("purged expired sessions", "count", n)
	}

	if err := seedAdmin(ctx, db, cfg.Auth); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	registry, err := buildRegistry(cfg.UI.ScreensPath)
	if err != nil {
		log.Fatalf("screens: %v", err)
	}

	users := repository.NewUserRepo(db)
	opts := auth.LocalOptions{TTL: cfg.Auth.SessionTTL, Logger: logger}
	if cfg.Auth.Remember {
		opts.Tokens = secrets.NewStore(cfg.Auth.TokenDir)
	}
	provider := auth.NewLocalProvider(users, repository.NewSessionRepo(db), opts)

	router := session.New(registry, session.Options{
		Resolver: &auth.UserRoleResolver{Users: users},
		Logger:   logger,
	})
	if err := router.Start(ctx, provider); err != nil {
		log.Fatalf("router: %v", err)
	}
	defer router.Stop()

	styles := make(chan theme.Styles, 1)
	go func() {
		palette, err := theme.Load(cfg.UI.ThemePath)
		if err != nil {
			logger.Warn("palette load failed, using default", "path", cfg.UI.ThemePath, "err", err)
		}
		styles <- theme.NewStyles(palette)
		router.OnReadinessChange(true, false)
	}()
	go provider.Restore(ctx)

	feed := tui.NewFeed()
	defer router.Subscribe(feed.Push)()

	go awaitReady(ctx, router, cfg.UI.ReadyTimeout, logger)

	model := tui.NewModel(ctx, tui.Options{
		Accounts:  provider,
		Navigator: router,
		Feed:      feed,
		Styles:    <-styles,
		Logger:    logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

func seedAdmin(ctx context.Context, db *sql.DB, a config.AuthConfig) error {
	if a.AdminEmail == "" {
		return nil
	}
	var hash string
	if a.AdminPassword != "" {
		h, err := auth.HashPassword(a.AdminPassword)
		if err != nil {
			return err
		}
		hash = h
	}
	return database.SeedAdmin(ctx, db, a.AdminEmail, hash)
}

func buildRegistry(path string) (*navigation.Registry, error) {
	base := navigation.Default()
	if path == "" {
		return base, nil
	}
	extra, err := navigation.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return base.With(extra...)
}

// awaitReady only reports a slow start; the UI stays blank until the router is ready.
func awaitReady(ctx context.Context, r *session.Router, timeout time.Duration, logger *slog.Logger) {
	if timeout <= 0 {
		return
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := r.AwaitReady(waitCtx); err != nil && ctx.Err() == nil {
		logger.Warn("client not ready", "timeout", timeout, "err", err)
	}
}
