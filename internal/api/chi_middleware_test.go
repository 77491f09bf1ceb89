// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// =====================================================
// ChiMiddleware Configuration Tests
// =====================================================

func TestNewChiMiddleware_DefaultConfig(t *testing.T) {
	m := NewChiMiddleware(nil)

	if m.config == nil {
		t.Fatal("config is nil")
	}
	// Default should be empty (requires explicit configuration)
	if len(m.config.CORSAllowedOrigins) != 0 {
		t.Errorf("CORSAllowedOrigins = %v, want []", m.config.CORSAllowedOrigins)
	}
	if m.config.CORSMaxAge != 86400 {
		t.Errorf("CORSMaxAge = %d, want 86400", m.config.CORSMaxAge)
	}
}

func TestNewChiMiddlewareFromSecurity(t *testing.T) {
	corsOrigins := []string{"https://example.com", "https://other.com"}
	m := NewChiMiddlewareFromSecurity(corsOrigins, 200, time.Minute*2, false)

	if len(m.config.CORSAllowedOrigins) != 2 {
		t.Errorf("CORSAllowedOrigins length = %d, want 2", len(m.config.CORSAllowedOrigins))
	}
	if m.config.RateLimitRequests != 200 {
		t.Errorf("RateLimitRequests = %d, want 200", m.config.RateLimitRequests)
	}
	if m.config.RateLimitWindow != time.Minute*2 {
		t.Errorf("RateLimitWindow = %v, want 2m", m.config.RateLimitWindow)
	}
}

// =====================================================
// CORS Middleware Tests
// =====================================================

func corsRequest(t *testing.T, origins []string, method, origin string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	config := DefaultChiMiddlewareConfig()
	config.CORSAllowedOrigins = origins
	m := NewChiMiddleware(config)

	handlerCalled := false
	handler := m.CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(method, "/", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if method == http.MethodOptions {
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w, handlerCalled
}

func TestChiMiddleware_CORS(t *testing.T) {
	tests := []struct {
		name            string
		origins         []string
		method          string
		origin          string
		wantAllowOrigin string
		wantCredentials string
		wantHandler     bool
	}{
		{"wildcard origin", []string{"*"}, http.MethodGet, "https://example.com", "*", "", true},
		{"specific origin", []string{"https://allowed.com"}, http.MethodGet, "https://allowed.com", "https://allowed.com", "true", true},
		{"disallowed origin", []string{"https://allowed.com"}, http.MethodGet, "https://not-allowed.com", "", "", true},
		{"same-origin request", []string{"https://allowed.com"}, http.MethodGet, "", "", "", true},
		{"preflight", []string{"https://allowed.com"}, http.MethodOptions, "https://allowed.com", "https://allowed.com", "true", false},
		{"preflight disallowed", []string{"https://allowed.com"}, http.MethodOptions, "https://evil.com", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, handlerCalled := corsRequest(t, tt.origins, tt.method, tt.origin)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllowOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantAllowOrigin)
			}
			if got := w.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCredentials {
				t.Errorf("Access-Control-Allow-Credentials = %q, want %q", got, tt.wantCredentials)
			}
			if handlerCalled != tt.wantHandler {
				t.Errorf("handler called = %v, want %v", handlerCalled, tt.wantHandler)
			}
		})
	}
}

// =====================================================
// Rate Limiting Middleware Tests
// =====================================================

func countStatuses(handler http.Handler, n int, remoteAddr string) map[int]int {
	counts := map[int]int{}
	for i := 0; i < n; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		counts[w.Code]++
	}
	return counts
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestChiMiddleware_RateLimit_Disabled(t *testing.T) {
	m := NewChiMiddleware(&ChiMiddlewareConfig{
		RateLimitDisabled: true,
		RateLimitRequests: 3,
		RateLimitWindow:   time.Second,
	})

	counts := countStatuses(m.RateLimit()(okHandler()), 10, "192.168.1.1:12345")
	if counts[http.StatusOK] != 10 {
		t.Errorf("statuses = %v, want 10 OK", counts)
	}
}

func TestChiMiddleware_RateLimit_Enabled(t *testing.T) {
	m := NewChiMiddleware(&ChiMiddlewareConfig{
		RateLimitRequests: 3,
		RateLimitWindow:   time.Minute, // Use a longer window for test stability
	})

	handler := m.RateLimit()(okHandler())
	counts := countStatuses(handler, 5, "192.168.1.1:12345")
	if counts[http.StatusOK] != 3 || counts[http.StatusTooManyRequests] != 2 {
		t.Errorf("statuses = %v, want 3 OK and 2 limited", counts)
	}

	// Different IPs should have separate rate limits
	for _, ip := range []string{"192.168.1.2:12345", "192.168.1.3:12345"} {
		if got := countStatuses(handler, 3, ip); got[http.StatusOK] != 3 {
			t.Errorf("IP %s statuses = %v, want 3 OK", ip, got)
		}
	}
}

func TestChiMiddleware_RateLimit_Envelope(t *testing.T) {
	m := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitRequests: 1, RateLimitWindow: time.Minute})
	handler := m.RateLimit()(okHandler())

	var last *httptest.ResponseRecorder
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", last.Code)
	}
	response := decodeEnvelope(t, last)
	if response.Error == nil || response.Error.Code != ErrCodeRateLimited {
		t.Errorf("error = %+v, want %s", response.Error, ErrCodeRateLimited)
	}
}

func TestChiMiddleware_RateLimitCustom_KeyFunc(t *testing.T) {
	m := NewChiMiddleware(&ChiMiddlewareConfig{
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RateLimitKeyFunc: func(r *http.Request) (string, error) {
			return r.Header.Get("X-Account"), nil
		},
	})
	handler := m.RateLimitCustom(RateLimitConfig{Requests: 1, Window: time.Minute})(okHandler())

	send := func(account, ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Account", account)
		req.RemoteAddr = ip
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	if got := send("a", "10.0.0.1:1"); got != http.StatusOK {
		t.Errorf("first request = %d", got)
	}
	// Same account from another address shares the bucket.
	if got := send("a", "10.0.0.2:1"); got != http.StatusTooManyRequests {
		t.Errorf("same account = %d, want 429", got)
	}
	if got := send("b", "10.0.0.1:1"); got != http.StatusOK {
		t.Errorf("other account = %d, want 200", got)
	}
}

func TestChiMiddleware_RateLimitCustom_ZeroRequestsIsNoop(t *testing.T) {
	m := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitRequests: 1, RateLimitWindow: time.Minute})
	handler := m.RateLimitCustom(RateLimitConfig{Requests: 0, Window: time.Minute})(okHandler())

	if counts := countStatuses(handler, 5, "10.0.0.9:1"); counts[http.StatusOK] != 5 {
		t.Errorf("statuses = %v, want 5 OK", counts)
	}
}

// =====================================================
// Security Headers, Recovery and Fallback Tests
// =====================================================

func TestAPISecurityHeaders(t *testing.T) {
	handler := APISecurityHeaders()(okHandler())

	tests := []struct {
		name     string
		proto    string
		wantHSTS bool
	}{
		{"plain http", "", false},
		{"behind tls proxy", "https", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tt.proto)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			for header, want := range map[string]string{
				"X-Content-Type-Options": "nosniff",
				"X-Frame-Options":        "DENY",
				"Cache-Control":          "no-store",
			} {
				if got := w.Header().Get(header); got != want {
					t.Errorf("%s = %q, want %q", header, got, want)
				}
			}
			if got := w.Header().Get("Strict-Transport-Security") != ""; got != tt.wantHSTS {
				t.Errorf("HSTS set = %v, want %v", got, tt.wantHSTS)
			}
		})
	}
}

func TestRecoverer(t *testing.T) {
	handler := DebugErrors(true)(Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("handler bug")
	})))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	response := decodeEnvelope(t, w)
	if response.Error == nil || response.Error.Code != ErrCodeInternalError {
		t.Fatalf("error = %+v", response.Error)
	}
	details, _ := response.Error.Details.(map[string]interface{})
	if details["error"] != "panic: handler bug" {
		t.Errorf("details = %v", details)
	}
}

func TestRecoverer_AbortHandlerPropagates(t *testing.T) {
	handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler { //nolint:errorlint // sentinel compared by identity
			t.Errorf("recovered %v, want http.ErrAbortHandler", rec)
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantCode   string
	}{
		{"not found", NotFound, http.StatusNotFound, ErrCodeNotFound},
		{"method not allowed", MethodNotAllowed, http.StatusMethodNotAllowed, ErrCodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if response := decodeEnvelope(t, w); response.Error == nil || response.Error.Code != tt.wantCode {
				t.Errorf("error = %+v", response.Error)
			}
		})
	}
}
