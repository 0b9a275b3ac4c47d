package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/trailquest/trailquest-go/pkg/observability"
	"github.com/trailquest/trailquest-go/pkg/session"
)

// Store backends
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config holds all SDK configuration
type Config struct {
	// API configuration
	API APIConfig

	// Session policy
	Session SessionConfig

	// Credential store configuration
	Store StoreConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// APIConfig holds endpoint configuration
type APIConfig struct {
	BaseURL     string
	HTTPTimeout time.Duration
}

// SessionConfig holds the credential lifecycle policy. Both knobs trade
// server load against renewal latency.
type SessionConfig struct {
	RefreshWindow time.Duration
	CheckInterval time.Duration
}

// StoreConfig selects and locates the credential store backend
type StoreConfig struct {
	Backend string
	Path    string
}

// ObservabilityConfig holds logging and metrics settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		API: APIConfig{
			BaseURL:     getEnv("TRAILQUEST_API_URL", "https://api.trailquest.app"),
			HTTPTimeout: getEnvDuration("TRAILQUEST_HTTP_TIMEOUT", 15*time.Second),
		},
		Session: SessionConfig{
			RefreshWindow: getEnvDuration("TRAILQUEST_REFRESH_WINDOW", session.DefaultRefreshWindow),
			CheckInterval: getEnvDuration("TRAILQUEST_CHECK_INTERVAL", session.DefaultCheckInterval),
		},
		Store: StoreConfig{
			Backend: getEnv("TRAILQUEST_STORE_BACKEND", StoreFile),
			Path:    getEnv("TRAILQUEST_STORE_PATH", defaultStorePath()),
		},
		Observability: ObservabilityConfig{
			LogLevel:       observability.ParseLogLevel(getEnv("TRAILQUEST_LOG_LEVEL", "info")),
			MetricsEnabled: getEnvBool("TRAILQUEST_METRICS_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("API base URL must be http(s): %q", c.API.BaseURL)
	}
	if c.Session.RefreshWindow <= 0 {
		return fmt.Errorf("refresh window must be positive")
	}
	if c.Session.CheckInterval <= 0 {
		return fmt.Errorf("check interval must be positive")
	}
	if c.Session.CheckInterval >= c.Session.RefreshWindow {
		return fmt.Errorf("check interval (%s) must be shorter than the refresh window (%s), or expiry can slip between checks",
			c.Session.CheckInterval, c.Session.RefreshWindow)
	}

	switch c.Store.Backend {
	case StoreMemory:
	case StoreFile, StoreSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store path is required for the %s backend", c.Store.Backend)
		}
	default:
		return fmt.Errorf("unknown store backend: %q", c.Store.Backend)
	}
	return nil
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".trailquest", "session.json")
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return strings.ToLower(value) == "true"
}
