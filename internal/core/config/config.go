// Package config handles configuration loading and validation for foodverse.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/foodverse/foodverse/internal/core/api"
	"github.com/foodverse/foodverse/internal/core/notify"
	"github.com/foodverse/foodverse/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	API           APIConfig           `yaml:"api"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Dashboard     DashboardConfig     `yaml:"dashboard"`
	TUI           TUIConfig           `yaml:"tui"`
	Database      DatabaseConfig      `yaml:"database"`
	DataDir       string              `yaml:"-"` // set by caller, not from config file
}

// APIConfig points the client at the FoodVerse backend.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// NotificationsConfig controls toast lifetime and the persisted history.
type NotificationsConfig struct {
	DefaultDuration time.Duration `yaml:"default_duration"`
	History         *bool         `yaml:"history"`       // nil = enabled
	HistoryLimit    int           `yaml:"history_limit"` // rows kept; 0 = unlimited
}

// HistoryEnabled reports whether notifications are written to the database.
func (n NotificationsConfig) HistoryEnabled() bool {
	return n.History == nil || *n.History
}

// DashboardConfig is the location consumers search around.
type DashboardConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	RadiusKM  float64 `yaml:"radius_km"`
}

// TUIConfig holds dashboard display settings.
type TUIConfig struct {
	MaxToasts int    `yaml:"max_toasts"`
	Theme     string `yaml:"theme"`
}

// DatabaseConfig tunes the SQLite connection pool.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: api.DefaultBaseURL,
			Timeout: 30 * time.Second,
		},
		Notifications: NotificationsConfig{
			DefaultDuration: notify.DefaultDuration,
			HistoryLimit:    500,
		},
		Dashboard: DashboardConfig{
			Latitude:  -6.2088,
			Longitude: 106.8456,
			RadiusKM:  10,
		},
		TUI: TUIConfig{
			MaxToasts: 5,
			Theme:     styles.DefaultTheme,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = defaults.API.Timeout
	}
	if c.Notifications.DefaultDuration == 0 {
		c.Notifications.DefaultDuration = defaults.Notifications.DefaultDuration
	}
	if c.Dashboard.Latitude == 0 && c.Dashboard.Longitude == 0 {
		c.Dashboard.Latitude = defaults.Dashboard.Latitude
		c.Dashboard.Longitude = defaults.Dashboard.Longitude
	}
	if c.Dashboard.RadiusKM == 0 {
		c.Dashboard.RadiusKM = defaults.Dashboard.RadiusKM
	}
	if c.TUI.MaxToasts == 0 {
		c.TUI.MaxToasts = defaults.TUI.MaxToasts
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}
