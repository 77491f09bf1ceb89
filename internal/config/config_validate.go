// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	minJWTSecretLength = 32
	minTokenTTL        = time.Minute
	maxTokenTTL        = 90 * 24 * time.Hour
	maxRateLimitReqs   = 10000
	maxPhotoBytes      = 50 << 20
)

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateSecurity,
		c.validateCatalog,
		c.validateAPI,
		c.validateUploads,
		c.validateReports,
		c.validateLogging,
		c.validateTelemetry,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive")
	}
	switch c.Server.Environment {
	case "development", "test", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, test or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Backend {
	case "badger":
		if c.Database.Path == "" && !c.Database.InMemory {
			return fmt.Errorf("DB_PATH is required when DB_BACKEND=badger and DB_IN_MEMORY is false")
		}
	case "mongo":
		if c.Database.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required when DB_BACKEND=mongo")
		}
		if !strings.HasPrefix(c.Database.MongoURI, "mongodb://") && !strings.HasPrefix(c.Database.MongoURI, "mongodb+srv://") {
			return fmt.Errorf("MONGODB_URI must start with mongodb:// or mongodb+srv://")
		}
		if c.Database.MongoDatabase == "" {
			return fmt.Errorf("MONGODB_DATABASE must not be empty")
		}
	default:
		return fmt.Errorf("DB_BACKEND must be badger or mongo, got %q", c.Database.Backend)
	}
	if c.Database.Timeout <= 0 {
		return fmt.Errorf("DB_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := c.Security
	if len(s.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters for security", minJWTSecretLength)
	}
	if c.IsProduction() && containsPlaceholder(s.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value; generate a random secret for production")
	}
	if s.TokenTTL < minTokenTTL || s.TokenTTL > maxTokenTTL {
		return fmt.Errorf("TOKEN_TTL must be between %v and %v", minTokenTTL, maxTokenTTL)
	}
	if s.BcryptCost < 4 || s.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", s.BcryptCost)
	}
	if c.IsProduction() && s.BcryptCost < 10 {
		return fmt.Errorf("BCRYPT_COST must be at least 10 in production")
	}
	if !s.RateLimitDisabled {
		if s.RateLimitReqs < 1 || s.RateLimitReqs > maxRateLimitReqs {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be between 1 and %d", maxRateLimitReqs)
		}
		if s.RateLimitWindow < time.Second || s.RateLimitWindow > time.Hour {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be between 1s and 1h")
		}
	}
	if s.LoginAttemptsPerMinute < 1 {
		return fmt.Errorf("LOGIN_ATTEMPTS_PER_MINUTE must be at least 1")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	cat := c.Catalog
	if err := validateBaseURL(cat.BaseURL, "TMDB_BASE_URL"); err != nil {
		return err
	}
	if cat.Language == "" {
		return fmt.Errorf("TMDB_LANGUAGE must not be empty")
	}
	if cat.Timeout <= 0 || cat.Timeout > 2*time.Minute {
		return fmt.Errorf("TMDB_TIMEOUT must be between 0 and 2m")
	}
	if cat.BreakerFailureRatio <= 0 || cat.BreakerFailureRatio > 1 {
		return fmt.Errorf("catalog.breaker_failure_ratio must be in (0, 1]")
	}
	if cat.BreakerTimeout <= 0 {
		return fmt.Errorf("TMDB_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize || c.API.MaxPageSize > 1000 {
		return fmt.Errorf("API_MAX_PAGE_SIZE must be between API_DEFAULT_PAGE_SIZE and 1000")
	}
	return nil
}

func (c *Config) validateUploads() error {
	if c.Uploads.Dir == "" {
		return fmt.Errorf("UPLOAD_DIR must not be empty")
	}
	if c.Uploads.MaxPhotoBytes <= 0 || c.Uploads.MaxPhotoBytes > maxPhotoBytes {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be between 1 and %d", maxPhotoBytes)
	}
	if !strings.HasPrefix(c.Uploads.URLPrefix, "/") {
		return fmt.Errorf("uploads.url_prefix must start with /")
	}
	return nil
}

func (c *Config) validateReports() error {
	r := c.Reports
	if r.Dir == "" {
		return fmt.Errorf("REPORT_DIR must not be empty")
	}
	if r.DeleteAfter < 0 {
		return fmt.Errorf("REPORT_DELETE_AFTER must not be negative")
	}
	if r.SweepInterval <= 0 {
		return fmt.Errorf("REPORT_SWEEP_INTERVAL must be positive")
	}
	if r.MaxAge < r.DeleteAfter {
		return fmt.Errorf("REPORT_MAX_AGE must be at least REPORT_DELETE_AFTER")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a recognized level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateTelemetry() error {
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return fmt.Errorf("SENTRY_SAMPLE_RATE must be between 0 and 1")
	}
	return nil
}

func validateBaseURL(raw, field string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", field, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s host is required", field)
	}
	if u.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters", field)
	}
	return nil
}

func containsPlaceholder(secret string) bool {
	lower := strings.ToLower(secret)
	for _, p := range []string{"changeme", "change-me", "your-secret", "placeholder", "example"} {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
