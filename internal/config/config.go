package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Backend  BackendConfig  `mapstructure:"backend" validate:"required"`
	Session  SessionConfig  `mapstructure:"session" validate:"required"`
	Store    StoreConfig    `mapstructure:"store" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
// An empty URL runs the server without Postgres; saved course cards are
// then kept in memory.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// Section sources.
const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// BackendConfig selects and tunes the source of terms and sections.
type BackendConfig struct {
	Source            string        `mapstructure:"source" validate:"required,oneof=http postgres"`
	BaseURL           string        `mapstructure:"base_url" validate:"required_if=Source http,omitempty,url"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" validate:"gte=0"`
	Burst             int           `mapstructure:"burst" validate:"gte=1"`
	BreakerFailures   uint          `mapstructure:"breaker_failures" validate:"gte=1"`
	BreakerDelay      time.Duration `mapstructure:"breaker_delay" validate:"gt=0"`
}

// SessionConfig configures the signed session cookie.
type SessionConfig struct {
	Secret string `mapstructure:"secret" validate:"required,min=32"`
	MaxAge int    `mapstructure:"max_age" validate:"gt=0"`
	Secure bool   `mapstructure:"secure"`
}

// StoreConfig bounds the per-session course card stores.
type StoreConfig struct {
	MaxSessions        int           `mapstructure:"max_sessions" validate:"gte=0"`
	SessionTTL         time.Duration `mapstructure:"session_ttl" validate:"gte=0"`
	ReplaceConcurrency int           `mapstructure:"replace_concurrency" validate:"gte=1"`
}
