package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Log      LogConfig
	Auth     AuthConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// LogConfig holds logger settings. The UI owns the terminal, so logs always go to a file.
type LogConfig struct {
	Path   string
	Level  string
	Format string
}

// AuthConfig holds local auth provider settings.
type AuthConfig struct {
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	Remember      bool
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
	TokenDir      string `mapstructure:"token_dir"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	ThemePath    string        `mapstructure:"theme_path"`
	ScreensPath  string        `mapstructure:"screens_path"`
	ReadyTimeout time.Duration `mapstructure:"ready_timeout"`
}

// Load reads configuration from file and env. Env var overrides use prefix WASTEWISE_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("WASTEWISE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(configDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("WASTEWISE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine; a file that does not parse is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	home := os.Getenv("HOME")
	dataDir := filepath.Join(home, ".local", "share", "wastewise")
	v.SetDefault("database.path", filepath.Join(dataDir, "wastewise.db"))
	v.SetDefault("log.path", filepath.Join(dataDir, "wastewise.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("auth.session_ttl", "720h")
	v.SetDefault("auth.remember", true)
	v.SetDefault("auth.admin_email", "")
	v.SetDefault("auth.admin_password", "")
	v.SetDefault("auth.token_dir", configDir())
	v.SetDefault("ui.theme_path", "")
	v.SetDefault("ui.screens_path", "")
	v.SetDefault("ui.ready_timeout", "10s")
}

func configDir() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "wastewise")
}

// Save writes the provided config to disk, creating the config directory if needed.
// The admin password is never written back; seed it through the environment instead.
func Save(cfg Config) error {
	path := os.Getenv("WASTEWISE_CONFIG")
	if path == "" {
		path = filepath.Join(configDir(), "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("auth.session_ttl", cfg.Auth.SessionTTL.String())
	v.Set("auth.remember", cfg.Auth.Remember)
	v.Set("auth.admin_email", cfg.Auth.AdminEmail)
	v.Set("auth.token_dir", cfg.Auth.TokenDir)
	v.Set("ui.theme_path", cfg.UI.ThemePath)
	v.Set("ui.screens_path", cfg.UI.ScreensPath)
	v.Set("ui.ready_timeout", cfg.UI.ReadyTimeout.String())

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
