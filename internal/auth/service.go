// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package auth

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/cinescope/internal/config"
	"github.com/tomtom215/cinescope/internal/logging"
	"github.com/tomtom215/cinescope/internal/models"
	"github.com/tomtom215/cinescope/internal/store"
)

// usernameAttempts bounds retries when a generated username collides.
const usernameAttempts = 5

// RegisterInput is a validated registration request.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Username string
}

// Session is the result of a successful register or login.
type Session struct {
	Token   string
	Account *models.Account
}

// Service implements registration, login and password reset requests.
type Service struct {
	accounts  *store.Collection[models.Account]
	tokens    *JWTManager
	passwords *PasswordHasher
	limiter   *LoginLimiter
	now       func() time.Time
}

// NewService wires the auth service over the account collection.
func NewService(accounts *store.Collection[models.Account], tokens *JWTManager, cfg *config.SecurityConfig, limiter *LoginLimiter) *Service {
	return &Service{
		accounts:  accounts,
		tokens:    tokens,
		passwords: NewPasswordHasher(cfg.BcryptCost),
		limiter:   limiter,
		now:       time.Now,
	}
}

// Tokens returns the JWT manager.
func (s *Service) Tokens() *JWTManager {
	return s.tokens
}

// Register creates an account and signs a token for it. ErrEmailTaken when
// the address is registered; ErrUsernameTaken when an explicitly chosen
// username is.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := models.NormalizeEmail(in.Email)
	if _, err := s.accounts.GetByUnique(ctx, store.EmailKey(email)); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("look up e-mail: %w", err)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	account := &models.Account{
		ID:             uuid.NewString(),
		FullName:       strings.TrimSpace(in.FullName),
		Email:          email,
		PasswordHash:   hash,
		FavoriteGenres: []string{},
		WatchHistory:   []models.WatchEntry{},
		Ratings:        []models.MovieRating{},
		Privacy:        models.DefaultPrivacy(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	chosen := strings.TrimSpace(in.Username)
	for attempt := 0; ; attempt++ {
		account.Username = chosen
		if chosen == "" {
			account.Username = GenerateUsername(email)
		}

		err = s.accounts.Insert(ctx, account)
		if err == nil {
			break
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("insert account: %w", err)
		}
		// Lost a race on the e-mail address, or the username collided.
		if _, lookupErr := s.accounts.GetByUnique(ctx, store.EmailKey(email)); lookupErr == nil {
			return nil, ErrEmailTaken
		}
		if chosen != "" {
			return nil, ErrUsernameTaken
		}
		if attempt+1 >= usernameAttempts {
			return nil, fmt.Errorf("generate unique username: %w", err)
		}
	}

	token, err := s.tokens.GenerateToken(account.ID)
	if err != nil {
		return nil, err
	}
	logging.LogRegistration(ctx, account.ID, account.Email)
	return &Session{Token: token, Account: account}, nil
}

// Login verifies credentials. Unknown e-mail and wrong password both return
// ErrInvalidCredentials after a bcrypt comparison of the same cost.
func (s *Service) Login(ctx context.Context, email, password, ip string) (*Session, error) {
	email = models.NormalizeEmail(email)
	if s.limiter != nil && !s.limiter.Allow(email) {
		logging.LogLoginFailure(ctx, email, ip, "throttled")
		return nil, ErrTooManyAttempts
	}

	account, err := s.accounts.GetByUnique(ctx, store.EmailKey(email))
	if errors.Is(err, store.ErrNotFound) {
		s.passwords.VerifyDummy(password)
		logging.LogLoginFailure(ctx, email, ip, "unknown_email")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("look up account: %w", err)
	}

	if !s.passwords.Verify(account.PasswordHash, password) {
		logging.LogLoginFailure(ctx, email, ip, "wrong_password")
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(account.ID)
	if err != nil {
		return nil, err
	}
	logging.LogLoginSuccess(ctx, account.ID, ip)
	return &Session{Token: token, Account: account}, nil
}

// ForgotPassword records a reset request. It never reveals whether the
// address is registered and sends no e-mail.
func (s *Service) ForgotPassword(ctx context.Context, email string) {
	email = models.NormalizeEmail(email)
	_, err := s.accounts.GetByUnique(ctx, store.EmailKey(email))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		logging.Ctx(ctx).Warn().Err(err).Msg("Password reset lookup failed")
	}
	logging.LogPasswordResetRequested(ctx, email, err == nil)
}

// GenerateUsername derives a username from the local part of email plus a
// six digit suffix.
func GenerateUsername(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		local = email[:at]
	}

	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
		if b.Len() >= 20 {
			break
		}
	}
	base := b.String()
	if base == "" {
		base = "user"
	}
	return fmt.Sprintf("%s%06d", base, rand.IntN(1_000_000))
}
