// Package config provides centralized configuration for TaskFlow runtime values.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the authentication API base path, set at build time via
// -ldflags "-X github.com/manav03panchal/taskflow/internal/config.DefaultAPIURL=...".
var DefaultAPIURL = "http://127.0.0.1:8000/api"

// RuntimeConfig holds all runtime configuration values.
type RuntimeConfig struct {
	API      APIConfig
	Reminder ReminderConfig
	Storage  StorageConfig
	Notify   NotifyConfig
}

// APIConfig holds authentication API client configuration.
type APIConfig struct {
	// BaseURL is the API base path; endpoints are appended to it.
	BaseURL string

	// Timeout is the per-request HTTP timeout.
	// Default: 15s
	Timeout time.Duration
}

// ReminderConfig holds reminder scheduler configuration.
type ReminderConfig struct {
	// CheckInterval is how often todos are scanned for due reminders.
	// Default: 30s
	CheckInterval time.Duration

	// Lookahead is the window before a reminder instant in which it fires.
	// Default: 1m
	Lookahead time.Duration
}

// StorageConfig holds storage-related configuration.
type StorageConfig struct {
	// Path is the database directory. Empty means the XDG data directory;
	// ":memory:" selects an in-memory database.
	Path string
}

// NotifyConfig holds platform notification configuration.
type NotifyConfig struct {
	// WebhookURL, when set, sends platform notifications to a chat webhook
	// in addition to the terminal.
	WebhookURL string

	// WebhookType is one of "slack", "discord" or "generic".
	// Default: generic
	WebhookType string

	// MaxRetries bounds webhook delivery attempts.
	// Default: 3
	MaxRetries int

	// RetryDelays are the delays before each delivery attempt.
	// Default: [0s, 2s, 5s]
	RetryDelays []time.Duration
}

// DefaultRuntimeConfig returns the default runtime configuration.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		API: APIConfig{
			BaseURL: DefaultAPIURL,
			Timeout: 15 * time.Second,
		},
		Reminder: ReminderConfig{
			CheckInterval: 30 * time.Second,
			Lookahead:     time.Minute,
		},
		Notify: NotifyConfig{
			WebhookType: "generic",
			MaxRetries:  3,
			RetryDelays: []time.Duration{
				0,
				2 * time.Second,
				5 * time.Second,
			},
		},
	}
}

// Global holds the global runtime configuration instance.
// It is initialized with defaults, a .env file if present, and environment overrides.
var Global = initGlobal()

func initGlobal() *RuntimeConfig {
	// A missing .env file is the normal case.
	_ = godotenv.Load()

	cfg := DefaultRuntimeConfig()
	cfg.loadFromEnv()
	return cfg
}

// loadFromEnv loads configuration overrides from environment variables.
func (c *RuntimeConfig) loadFromEnv() {
	if v := os.Getenv("TASKFLOW_API_URL"); v != "" {
		c.API.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("TASKFLOW_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.API.Timeout = d
		}
	}

	if v := os.Getenv("TASKFLOW_REMINDER_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= time.Second {
			c.Reminder.CheckInterval = d
		}
	}
	if v := os.Getenv("TASKFLOW_REMINDER_LOOKAHEAD"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Reminder.Lookahead = d
		}
	}

	if v := os.Getenv("TASKFLOW_DATABASE"); v != "" {
		c.Storage.Path = v
	}

	if v := os.Getenv("TASKFLOW_WEBHOOK_URL"); v != "" {
		c.Notify.WebhookURL = v
	}
	if v := os.Getenv("TASKFLOW_WEBHOOK_TYPE"); v != "" {
		c.Notify.WebhookType = strings.ToLower(v)
	}
}

// ReloadFromEnv reloads configuration from environment variables.
func (c *RuntimeConfig) ReloadFromEnv() {
	c.loadFromEnv()
}

// Reset resets the configuration to defaults.
// This is primarily useful for testing.
func (c *RuntimeConfig) Reset() {
	defaults := DefaultRuntimeConfig()
	*c = *defaults
}
