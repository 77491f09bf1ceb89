// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinescope/internal/analytics"
	"github.com/tomtom215/cinescope/internal/auth"
	"github.com/tomtom215/cinescope/internal/authz"
	"github.com/tomtom215/cinescope/internal/catalog"
	"github.com/tomtom215/cinescope/internal/config"
	"github.com/tomtom215/cinescope/internal/notify"
	"github.com/tomtom215/cinescope/internal/recommend"
	"github.com/tomtom215/cinescope/internal/store"
	"github.com/tomtom215/cinescope/internal/testinfra"
	"github.com/tomtom215/cinescope/internal/uploads"
)

// testServer is the full router over an in-memory store and a fake TMDB.
type testServer struct {
	t       *testing.T
	handler http.Handler
	store   *store.Store
	tmdb    *testinfra.FakeTMDB
	config  *config.Config
}

func testAppConfig(t *testing.T, tmdbURL string) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{Environment: "test", Timeout: 5 * time.Second},
		Security: config.SecurityConfig{
			JWTSecret:              "test-secret-key-that-is-at-least-32-characters-long",
			TokenTTL:               time.Hour,
			BcryptCost:             4,
			CORSOrigins:            []string{"http://localhost:3000"},
			RateLimitDisabled:      true,
			LoginAttemptsPerMinute: 100,
			AuthzCacheTTL:          time.Minute,
		},
		Catalog: config.CatalogConfig{
			APIKey:              testinfra.FakeTMDBKey,
			BaseURL:             tmdbURL,
			Language:            "en-US",
			Timeout:             2 * time.Second,
			BreakerMaxRequests:  1,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      time.Minute,
			BreakerMinRequests:  100,
			BreakerFailureRatio: 0.9,
		},
		API:     config.APIConfig{DefaultPageSize: 10, MaxPageSize: 100},
		Uploads: config.UploadsConfig{Dir: t.TempDir(), MaxPhotoBytes: 1 << 20, URLPrefix: "/uploads"},
		Reports: config.ReportsConfig{
			Dir:           t.TempDir(),
			DeleteAfter:   time.Hour,
			SweepInterval: time.Minute,
			MaxAge:        time.Hour,
		},
		Notifications: config.NotificationsConfig{StreamEnabled: false, BufferSize: 8},
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	tmdb := testinfra.NewFakeTMDB(t)
	cfg := testAppConfig(t, tmdb.URL())

	backend, err := store.OpenBadger(store.BadgerConfig{InMemory: true})
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	s := store.New(backend)
	t.Cleanup(func() { _ = s.Close() })

	tokens, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	authorizer, err := authz.New(cfg.Security.AuthzCacheTTL)
	if err != nil {
		t.Fatalf("authz.New() error = %v", err)
	}
	photos, err := uploads.NewPhotos(&cfg.Uploads)
	if err != nil {
		t.Fatalf("NewPhotos() error = %v", err)
	}
	reports, err := analytics.NewReports(&cfg.Reports)
	if err != nil {
		t.Fatalf("NewReports() error = %v", err)
	}
	notifications := notify.NewService(s.Notifications, &cfg.Notifications)
	t.Cleanup(func() { _ = notifications.Close() })

	cat := catalog.New(&cfg.Catalog)
	handler := NewHandler(Dependencies{
		Config:     cfg,
		Store:      s,
		Auth:       auth.NewService(s.Accounts, tokens, &cfg.Security, auth.NewLoginLimiter(cfg.Security.LoginAttemptsPerMinute)),
		Authorizer: authorizer,
		Catalog:    cat,
		Recommend:  recommend.NewService(cat),
		Analytics:  analytics.NewService(s, time.Minute),
		Reports:    reports,
		Photos:     photos,
		Notify:     notifications,
	})

	return &testServer{
		t:       t,
		handler: NewRouter(handler, tokens, cfg).SetupChi(),
		store:   s,
		tmdb:    tmdb,
		config:  cfg,
	}
}

// testResponse is a recorded response with its decoded envelope.
type testResponse struct {
	Code int
	Body *APIResponse
	Data json.RawMessage
	Raw  *httptest.ResponseRecorder
}

// decode unmarshals the envelope data into dst.
func (r *testResponse) decode(t *testing.T, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(r.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", r.Data, err)
	}
}

func (r *testResponse) errorCode() string {
	if r.Body == nil || r.Body.Error == nil {
		return ""
	}
	return r.Body.Error.Code
}

func (r *testResponse) errorMessage() string {
	if r.Body == nil || r.Body.Error == nil {
		return ""
	}
	return r.Body.Error.Message
}

// do sends a request with an optional bearer token and JSON body.
func (s *testServer) do(method, path, token string, body interface{}) *testResponse {
	s.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.serve(req)
}

// serve records req against the router and decodes a JSON envelope.
func (s *testServer) serve(req *http.Request) *testResponse {
	s.t.Helper()

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	resp := &testResponse{Code: rec.Code, Raw: rec}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		var envelope struct {
			APIResponse
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			s.t.Fatalf("%s %s: decode envelope %q: %v", req.Method, req.URL.Path, rec.Body.String(), err)
		}
		resp.Body = &envelope.APIResponse
		resp.Data = envelope.Data
	}
	return resp
}

// expect fails the test unless resp has status code.
func (s *testServer) expect(resp *testResponse, code int) {
	s.t.Helper()
	if resp.Code != code {
		s.t.Fatalf("status = %d, want %d; body = %s", resp.Code, code, resp.Raw.Body.String())
	}
}

// testAccount is a registered account and its token.
type testAccount struct {
	ID       string
	Token    string
	FullName string
}

// register creates an account and returns its session.
func (s *testServer) register(fullName, email string) testAccount {
	s.t.Helper()

	resp := s.do(http.MethodPost, "/api/auth/register", "", RegisterRequest{
		FullName: fullName,
		Email:    email,
		Password: "secret1",
	})
	s.expect(resp, http.StatusCreated)

	var session SessionResponse
	resp.decode(s.t, &session)
	return testAccount{ID: session.User.ID, Token: session.Token, FullName: fullName}
}
