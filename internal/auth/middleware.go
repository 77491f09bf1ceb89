// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/cinescope/internal/logging"
	"github.com/tomtom215/cinescope/internal/models"
	"github.com/tomtom215/cinescope/internal/store"
)

type contextKey string

const accountContextKey contextKey = "account"

// TokenCookieName is the cookie checked when no Authorization header is sent.
const TokenCookieName = "token"

// AccountLoader loads the account named by a token.
type AccountLoader interface {
	Get(ctx context.Context, id string) (*models.Account, error)
}

// ErrorHandler writes the response for a rejected request.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Middleware authenticates requests with bearer JWTs.
type Middleware struct {
	tokens   *JWTManager
	accounts AccountLoader
	onError  ErrorHandler
}

// NewMiddleware creates the authentication middleware. A nil onError falls
// back to a plain-text 401.
func NewMiddleware(tokens *JWTManager, accounts AccountLoader, onError ErrorHandler) *Middleware {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, "Unauthorized: authentication required", http.StatusUnauthorized)
		}
	}
	return &Middleware{tokens: tokens, accounts: accounts, onError: onError}
}

// Authenticate rejects requests without a valid token for an existing
// account.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return m.authenticate(next, false)
}

// AuthenticateStream is Authenticate plus the "token" query parameter.
func (m *Middleware) AuthenticateStream(next http.Handler) http.Handler {
	return m.authenticate(next, true)
}

func (m *Middleware) authenticate(next http.Handler, allowQuery bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, err := m.resolve(r, allowQuery)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Str("path", r.URL.Path).Msg("Authentication failed")
			m.onError(w, r, err)
			return
		}

		ctx := WithAccount(r.Context(), account)
		ctx = logging.ContextWithAccountID(ctx, account.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) resolve(r *http.Request, allowQuery bool) (*models.Account, error) {
	token, err := extractToken(r, allowQuery)
	if err != nil {
		return nil, err
	}

	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	account, err := m.accounts.Get(r.Context(), claims.AccountID())
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnknownAccount
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	return account, nil
}

// extractToken extracts the JWT from the Authorization header, the token
// cookie or, when allowed, the token query parameter.
func extractToken(r *http.Request, allowQuery bool) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", fmt.Errorf("%w: invalid authorization header", ErrInvalidToken)
		}
		return strings.TrimSpace(parts[1]), nil
	}

	if cookie, err := r.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	if allowQuery {
		if token := r.URL.Query().Get("token"); token != "" {
			return token, nil
		}
	}
	return "", ErrNoCredentials
}

// WithAccount attaches the authenticated account to ctx.
func WithAccount(ctx context.Context, account *models.Account) context.Context {
	return context.WithValue(ctx, accountContextKey, account)
}

// AccountFromContext returns the account attached by the middleware.
func AccountFromContext(ctx context.Context) (*models.Account, bool) {
	account, ok := ctx.Value(accountContextKey).(*models.Account)
	return account, ok && account != nil
}
