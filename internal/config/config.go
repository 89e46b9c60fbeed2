// Package config provides configuration loading for sed-notifications.
// Configuration is read from a TOML file, then overlaid with
// SED_NOTIFY_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/AzerQ/sed-notifications/internal/domain"
)

// File permission constants.
const (
	// FileModeDir is the permission for directories (rwxr-xr-x).
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for data files (rw-r--r--).
	FileModeFile os.FileMode = 0644
)

// ServerConfig configures the reference backend.
type ServerConfig struct {
	// Addr is the listen address, host:port.
	Addr string `toml:"addr"`
	// DatabasePath is the sqlite database file location.
	DatabasePath string `toml:"database_path"`
	// AllowAllOrigins relaxes CORS for local development.
	AllowAllOrigins bool `toml:"allow_all_origins"`
}

// ClientConfig configures the coordinator-side transports.
type ClientConfig struct {
	// BaseURL is the data service HTTP endpoint.
	BaseURL string `toml:"base_url"`
	// WebSocketURL is the push channel endpoint.
	WebSocketURL string `toml:"websocket_url"`
	// PageSize is the history page size.
	PageSize int `toml:"page_size"`
	// UnreadPageSize is the unread panel fetch size.
	UnreadPageSize int `toml:"unread_page_size"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

// Config is the root configuration document.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Client  ClientConfig  `toml:"client"`
	Logging LoggingConfig `toml:"logging"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         "127.0.0.1:8467",
			DatabasePath: defaultDatabasePath(),
		},
		Client: ClientConfig{
			BaseURL:        "http://127.0.0.1:8467",
			WebSocketURL:   "ws://127.0.0.1:8467/ws/notifications",
			PageSize:       domain.DefaultPageSize,
			UnreadPageSize: domain.DefaultUnreadPageSize,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path (optional) and the environment.
// A missing file is not an error; defaults apply. A present but
// malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overlay
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks bounds that a typo'd config would most likely break.
func (c Config) Validate() error {
	if c.Client.PageSize < 1 {
		return fmt.Errorf("client.page_size must be positive, got %d", c.Client.PageSize)
	}
	if c.Client.UnreadPageSize < 1 {
		return fmt.Errorf("client.unread_page_size must be positive, got %d", c.Client.UnreadPageSize)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}
	return nil
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "sed-notifications", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "sed-notifications", "config.toml")
}

func defaultDatabasePath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "sed-notifications", "notifications.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "notifications.db"
	}
	return filepath.Join(home, ".local", "state", "sed-notifications", "notifications.db")
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SED_NOTIFY_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SED_NOTIFY_DATABASE_PATH"); v != "" {
		cfg.Server.DatabasePath = v
	}
	if v := os.Getenv("SED_NOTIFY_BASE_URL"); v != "" {
		cfg.Client.BaseURL = v
	}
	if v := os.Getenv("SED_NOTIFY_WEBSOCKET_URL"); v != "" {
		cfg.Client.WebSocketURL = v
	}
	if v := os.Getenv("SED_NOTIFY_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Client.PageSize = n
		}
	}
	if v := os.Getenv("SED_NOTIFY_UNREAD_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Client.UnreadPageSize = n
		}
	}
	if v := os.Getenv("SED_NOTIFY_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
