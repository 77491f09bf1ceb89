// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinescope/config.yaml",
}

const (
	// ConfigPathEnvVar overrides the YAML config file location.
	ConfigPathEnvVar = "CONFIG_PATH"

	// DotEnvPathEnvVar overrides the .env file location.
	DotEnvPathEnvVar = "DOTENV_PATH"
)

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Backend:       "badger",
			Path:          "./data/cinescope",
			MongoDatabase: "cinescope",
			Timeout:       10 * time.Second,
		},
		Security: SecurityConfig{
			TokenTTL:               30 * 24 * time.Hour,
			BcryptCost:             12,
			CORSOrigins:            []string{"*"},
			RateLimitReqs:          100,
			RateLimitWindow:        time.Minute,
			LoginAttemptsPerMinute: 10,
			AuthzCacheTTL:          5 * time.Minute,
		},
		Catalog: CatalogConfig{
			BaseURL:             "https://api.themoviedb.org/3",
			Language:            "en-US",
			Timeout:             10 * time.Second,
			BreakerMaxRequests:  3,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      30 * time.Second,
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
		},
		API: APIConfig{
			DefaultPageSize: 10,
			MaxPageSize:     100,
		},
		Uploads: UploadsConfig{
			Dir:           "uploads",
			MaxPhotoBytes: 5 << 20,
			URLPrefix:     "/uploads",
		},
		Reports: ReportsConfig{
			Dir:           "temp",
			DeleteAfter:   5 * time.Second,
			SweepInterval: time.Minute,
			MaxAge:        10 * time.Minute,
		},
		Notifications: NotificationsConfig{
			StreamEnabled: true,
			BufferSize:    64,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			SampleRate: 0.2,
		},
	}
}

// LoadWithKoanf layers configuration sources, lowest priority first:
// struct defaults, YAML file, environment (after merging .env).
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	if err := k.Load(env.ProviderWithValue("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// loadDotEnv merges a .env file into the process environment. Variables
// that are already set keep their values.
func loadDotEnv() error {
	path := os.Getenv(DotEnvPathEnvVar)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := make([]string, 0)
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) == 0 {
			continue
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// MONGODB_URI, TMDB_API_KEY, PORT and NODE_ENV keep the names used by
// existing CineScope deployments.
var envMappings = map[string]string{
	"port":             "server.port",
	"http_port":        "server.port",
	"host":             "server.host",
	"server_timeout":   "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",
	"node_env":         "server.environment",

	"db_backend":       "database.backend",
	"db_path":          "database.path",
	"db_in_memory":     "database.in_memory",
	"db_sync_writes":   "database.sync_writes",
	"db_timeout":       "database.timeout",
	"mongodb_uri":      "database.mongo_uri",
	"mongodb_database": "database.mongo_database",

	"jwt_secret":                "security.jwt_secret",
	"token_ttl":                 "security.token_ttl",
	"bcrypt_cost":               "security.bcrypt_cost",
	"cors_origins":              "security.cors_origins",
	"rate_limit_requests":       "security.rate_limit_reqs",
	"rate_limit_window":         "security.rate_limit_window",
	"disable_rate_limit":        "security.rate_limit_disabled",
	"login_attempts_per_minute": "security.login_attempts_per_minute",
	"authz_cache_ttl":           "security.authz_cache_ttl",

	"tmdb_api_key":         "catalog.api_key",
	"tmdb_base_url":        "catalog.base_url",
	"tmdb_language":        "catalog.language",
	"tmdb_timeout":         "catalog.timeout",
	"tmdb_breaker_timeout": "catalog.breaker_timeout",

	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",

	"upload_dir":       "uploads.dir",
	"upload_max_bytes": "uploads.max_photo_bytes",

	"report_dir":            "reports.dir",
	"report_delete_after":   "reports.delete_after",
	"report_sweep_interval": "reports.sweep_interval",
	"report_max_age":        "reports.max_age",

	"notification_stream_enabled": "notifications.stream_enabled",
	"notification_buffer_size":    "notifications.buffer_size",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"sentry_dsn":         "telemetry.sentry_dsn",
	"sentry_sample_rate": "telemetry.sample_rate",
	"sentry_release":     "telemetry.release",
}

// envTransformFunc maps a known variable to its config path. Unknown and
// empty variables are dropped so they cannot blank out defaults.
func envTransformFunc(key, value string) (string, interface{}) {
	path, ok := envMappings[strings.ToLower(key)]
	if !ok || value == "" {
		return "", nil
	}
	return path, value
}
