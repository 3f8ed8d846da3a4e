package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("WASTEWISE_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".local", "share", "wastewise", "wastewise.db"), cfg.Database.Path)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "text", cfg.Log.Format)
	require.Equal(t, 720*time.Hour, cfg.Auth.SessionTTL)
	require.True(t, cfg.Auth.Remember)
	require.Equal(t, 10*time.Second, cfg.UI.ReadyTimeout)
	require.Empty(t, cfg.UI.ScreensPath)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[database]
path = "/tmp/ww.db"

[auth]
session_ttl = "1h"
admin_email = "ops@example.com"

[ui]
screens_path = "/etc/wastewise/screens.toml"
`), 0o600))
	t.Setenv("WASTEWISE_CONFIG", path)
	t.Setenv("WASTEWISE_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/ww.db", cfg.Database.Path)
	require.Equal(t, time.Hour, cfg.Auth.SessionTTL)
	require.Equal(t, "ops@example.com", cfg.Auth.AdminEmail)
	require.Equal(t, "/etc/wastewise/screens.toml", cfg.UI.ScreensPath)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[database\npath = "), 0o600))
	t.Setenv("WASTEWISE_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "saved.toml")
	t.Setenv("WASTEWISE_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.Auth.AdminEmail = "admin@example.com"
	cfg.Auth.AdminPassword = "hunter22"
	cfg.UI.ReadyTimeout = 3 * time.Second
	require.NoError(t, Save(cfg))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "hunter22")

	again, err := Load()
	require.NoError(t, err)
	require.Equal(t, "admin@example.com", again.Auth.AdminEmail)
	require.Equal(t, 3*time.Second, again.UI.ReadyTimeout)
	require.Empty(t, again.Auth.AdminPassword)
}
