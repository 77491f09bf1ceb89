// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

// Package config builds the single Config value that every CineScope
// component receives at startup. Nothing outside this package reads the
// process environment.
package config

import (
	"time"
)

// Config is the complete application configuration.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Database      DatabaseConfig      `koanf:"database"`
	Security      SecurityConfig      `koanf:"security"`
	Catalog       CatalogConfig       `koanf:"catalog"`
	API           APIConfig           `koanf:"api"`
	Uploads       UploadsConfig       `koanf:"uploads"`
	Reports       ReportsConfig       `koanf:"reports"`
	Notifications NotificationsConfig `koanf:"notifications"`
	Logging       LoggingConfig       `koanf:"logging"`
	Telemetry     TelemetryConfig     `koanf:"telemetry"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// Environment is development, test or production. Stack traces are
	// only returned to clients outside production.
	Environment string `koanf:"environment"`
}

// DatabaseConfig selects and configures the document store backend.
type DatabaseConfig struct {
	// Backend is "badger" (embedded, default) or "mongo".
	Backend       string        `koanf:"backend"`
	Path          string        `koanf:"path"`
	InMemory      bool          `koanf:"in_memory"`
	SyncWrites    bool          `koanf:"sync_writes"`
	MongoURI      string        `koanf:"mongo_uri"`
	MongoDatabase string        `koanf:"mongo_database"`
	Timeout       time.Duration `koanf:"timeout"`
}

// SecurityConfig holds credential, CORS and rate limiting settings.
type SecurityConfig struct {
	JWTSecret  string        `koanf:"jwt_secret"`
	TokenTTL   time.Duration `koanf:"token_ttl"`
	BcryptCost int           `koanf:"bcrypt_cost"`

	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// LoginAttemptsPerMinute throttles login attempts per e-mail address.
	LoginAttemptsPerMinute int `koanf:"login_attempts_per_minute"`

	// AuthzCacheTTL is how long authorization decisions are memoized.
	AuthzCacheTTL time.Duration `koanf:"authz_cache_ttl"`
}

// CatalogConfig configures the TMDB client and its circuit breaker.
type CatalogConfig struct {
	APIKey   string        `koanf:"api_key"`
	BaseURL  string        `koanf:"base_url"`
	Language string        `koanf:"language"`
	Timeout  time.Duration `koanf:"timeout"`

	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
}

// APIConfig bounds list pagination.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// UploadsConfig configures profile photo storage.
type UploadsConfig struct {
	Dir           string `koanf:"dir"`
	MaxPhotoBytes int64  `koanf:"max_photo_bytes"`
	URLPrefix     string `koanf:"url_prefix"`
}

// ReportsConfig configures generated analytics PDFs.
type ReportsConfig struct {
	Dir string `koanf:"dir"`
	// DeleteAfter is the delay between a completed download and removal.
	DeleteAfter time.Duration `koanf:"delete_after"`
	// SweepInterval and MaxAge drive the janitor that removes report files
	// left behind by a crash or restart.
	SweepInterval time.Duration `koanf:"sweep_interval"`
	MaxAge        time.Duration `koanf:"max_age"`
}

// NotificationsConfig configures live notification push.
type NotificationsConfig struct {
	StreamEnabled bool  `koanf:"stream_enabled"`
	BufferSize    int64 `koanf:"buffer_size"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// TelemetryConfig configures Sentry error reporting. An empty DSN disables it.
type TelemetryConfig struct {
	SentryDSN  string  `koanf:"sentry_dsn"`
	SampleRate float64 `koanf:"sample_rate"`
	Release    string  `koanf:"release"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load reads configuration from defaults, an optional YAML file, an
// optional .env file and the environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
