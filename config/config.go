// Package config assembles a Config from environment variables with
// typed defaults, mirroring the teacher's env-driven loader.
package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Session SessionConfig
	Batch   BatchDefaultsConfig
	Webhook WebhookConfig
	Log     LogConfig
}

// ServerConfig controls the optional observability HTTP surface (C10).
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// SessionConfig controls the locally-cached session store.
type SessionConfig struct {
	// CacheTTLHours is the age after which a persisted Session is
	// treated as expired and no longer loaded.
	CacheTTLHours int // default: 96

	// StateDir is read from WMS_STATE_DIR. sessionstore does not consult
	// it: the session file always lives in the platform default
	// directory.
	StateDir string
}

// BatchDefaultsConfig seeds BatchConfig fields the CLI doesn't
// override, so `scrape` works with minimal flags.
type BatchDefaultsConfig struct {
	MaxPagesPerPublisher              int // default: 10
	RequestIntervalSecs               int // default: 3
	MaxConcurrentPublishers           int // default: 4
	MaxConcurrentRequestsPerPublisher int // default: 3
}

// WebhookConfig controls the optional progress-forwarding webhook.
type WebhookConfig struct {
	URL    string // empty disables forwarding
	Secret string // empty means unsigned payloads
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("WMS_HOST", "0.0.0.0"),
			Port: envIntOr("WMS_PORT", 8080),
			Mode: envOr("WMS_MODE", "release"),
		},
		Session: SessionConfig{
			CacheTTLHours: envIntOr("WMS_CACHE_TTL_HOURS", 96),
			StateDir:      os.Getenv("WMS_STATE_DIR"),
		},
		Batch: BatchDefaultsConfig{
			MaxPagesPerPublisher:              envIntOr("WMS_MAX_PAGES", 10),
			RequestIntervalSecs:               envIntOr("WMS_REQUEST_INTERVAL_SECS", 3),
			MaxConcurrentPublishers:           envIntOr("WMS_MAX_CONCURRENT_PUBLISHERS", 4),
			MaxConcurrentRequestsPerPublisher: envIntOr("WMS_MAX_CONCURRENT_REQUESTS", 3),
		},
		Webhook: WebhookConfig{
			URL:    os.Getenv("WMS_WEBHOOK_URL"),
			Secret: os.Getenv("WMS_WEBHOOK_SECRET"),
		},
		Log: LogConfig{
			Level:  envOr("WMS_LOG_LEVEL", "info"),
			Format: envOr("WMS_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
