// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/cinescope/internal/logging"
	"github.com/tomtom215/cinescope/internal/models"
	"github.com/tomtom215/cinescope/internal/store"
)

type fakeAccounts map[string]*models.Account

func (f fakeAccounts) Get(_ context.Context, id string) (*models.Account, error) {
	if a, ok := f[id]; ok {
		return a, nil
	}
	return nil, store.ErrNotFound
}

func TestMiddlewareAuthenticate(t *testing.T) {
	t.Parallel()

	tokens := newTestJWTManager(t)
	accounts := fakeAccounts{"alice": {ID: "alice", FullName: "Alice"}}

	valid, err := tokens.GenerateToken("alice")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	orphan, err := tokens.GenerateToken("deleted-account")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tests := []struct {
		name    string
		stream  bool
		prepare func(r *http.Request)
		wantErr error
	}{
		{"bearer header", false, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+valid) }, nil},
		{"lowercase scheme", false, func(r *http.Request) { r.Header.Set("Authorization", "bearer "+valid) }, nil},
		{"cookie", false, func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: valid}) }, nil},
		{"no credentials", false, func(*http.Request) {}, ErrNoCredentials},
		{"basic scheme", false, func(r *http.Request) { r.Header.Set("Authorization", "Basic YWxpY2U6cHc=") }, ErrInvalidToken},
		{"garbage token", false, func(r *http.Request) { r.Header.Set("Authorization", "Bearer garbage") }, ErrInvalidToken},
		{"unknown account", false, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+orphan) }, ErrUnknownAccount},
		{"query token ignored", false, func(r *http.Request) { r.URL.RawQuery = "token=" + valid }, ErrNoCredentials},
		{"query token on stream", true, func(r *http.Request) { r.URL.RawQuery = "token=" + valid }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotErr error
			mw := NewMiddleware(tokens, accounts, func(w http.ResponseWriter, _ *http.Request, err error) {
				gotErr = err
				w.WriteHeader(http.StatusUnauthorized)
			})

			var seen *models.Account
			var seenID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = AccountFromContext(r.Context())
				seenID = logging.AccountIDFromContext(r.Context())
				w.WriteHeader(http.StatusNoContent)
			})

			handler := mw.Authenticate(next)
			if tt.stream {
				handler = mw.AuthenticateStream(next)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if tt.wantErr != nil {
				if rec.Code != http.StatusUnauthorized {
					t.Errorf("status = %d, want 401", rec.Code)
				}
				if !errors.Is(gotErr, tt.wantErr) {
					t.Errorf("error = %v, want %v", gotErr, tt.wantErr)
				}
				if seen != nil {
					t.Error("next handler ran for a rejected request")
				}
				return
			}

			if rec.Code != http.StatusNoContent {
				t.Errorf("status = %d, want 204", rec.Code)
			}
			if seen == nil || seen.ID != "alice" {
				t.Errorf("account in context = %+v, want alice", seen)
			}
			if seenID != "alice" {
				t.Errorf("logging account id = %q, want alice", seenID)
			}
		})
	}
}

func TestMiddlewareDefaultErrorHandler(t *testing.T) {
	t.Parallel()

	mw := NewMiddleware(newTestJWTManager(t), fakeAccounts{}, nil)
	rec := httptest.NewRecorder()
	mw.Authenticate(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAccountFromContextEmpty(t *testing.T) {
	t.Parallel()

	if _, ok := AccountFromContext(context.Background()); ok {
		t.Error("AccountFromContext() on empty context ok = true")
	}
}
