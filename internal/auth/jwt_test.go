// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/cinescope/internal/config"
)

// testSecurityConfig returns a standard test security config for JWT
func testSecurityConfig() *config.SecurityConfig {
	return &config.SecurityConfig{
		JWTSecret:  "test-secret-key-that-is-at-least-32-characters-long",
		TokenTTL:   time.Hour,
		BcryptCost: 4,
	}
}

func newTestJWTManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(testSecurityConfig())
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return m
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewJWTManager(&config.SecurityConfig{TokenTTL: time.Hour}); err == nil {
		t.Error("NewJWTManager() with empty secret error = nil, want error")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	manager := newTestJWTManager(t)
	tests := []struct {
		name      string
		accountID string
	}{
		{"uuid account", "3f9c1e52-7a0b-4c1d-9e11-7f0e2c5d8a01"},
		{"short account", "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			token, err := manager.GenerateToken(tt.accountID)
			if err != nil {
				t.Fatalf("GenerateToken() error = %v", err)
			}
			claims, err := manager.ValidateToken(token)
			if err != nil {
				t.Fatalf("ValidateToken() error = %v", err)
			}
			if claims.AccountID() != tt.accountID {
				t.Errorf("AccountID() = %q, want %q", claims.AccountID(), tt.accountID)
			}
			if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
				t.Errorf("token lifetime = %v, want 1h", got)
			}
		})
	}
}

func TestValidateTokenRejects(t *testing.T) {
	t.Parallel()

	manager := newTestJWTManager(t)

	other, err := NewJWTManager(&config.SecurityConfig{
		JWTSecret: "second_secret_key_that_is_different_from_first_12345",
		TokenTTL:  time.Hour,
	})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	foreign, err := other.GenerateToken("alice")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	expiredManager := newTestJWTManager(t)
	expiredManager.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredManager.GenerateToken("alice")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString(none) error = %v", err)
	}

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	wrongAlg, err := hs512.SignedString([]byte(testSecurityConfig().JWTSecret))
	if err != nil {
		t.Fatalf("SignedString(HS512) error = %v", err)
	}

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	anonymous, err := noSubject.SignedString([]byte(testSecurityConfig().JWTSecret))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"}})
	forever, err := noExpiry.SignedString([]byte(testSecurityConfig().JWTSecret))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"malformed", "not_a_jwt_token"},
		{"invalid segments", "invalid.token.format"},
		{"wrong secret", foreign},
		{"expired", expired},
		{"alg none", unsigned},
		{"other hmac algorithm", wrongAlg},
		{"missing subject", anonymous},
		{"missing expiry", forever},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := manager.ValidateToken(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ValidateToken() error = %v, want ErrInvalidToken", err)
			}
			if claims != nil {
				t.Error("ValidateToken() returned claims for a rejected token")
			}
		})
	}
}
