// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

// Package telemetry reports errors and panics to Sentry. Every function is
// a no-op until Init succeeds with a DSN.
package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/tomtom215/cinescope/internal/config"
	"github.com/tomtom215/cinescope/internal/logging"
)

const flushTimeout = 2 * time.Second

// Init configures the Sentry SDK. It reports whether reporting is enabled;
// an empty DSN disables it without error.
func Init(cfg *config.TelemetryConfig, environment string) (bool, error) {
	if cfg.SentryDSN == "" {
		logging.Info().Msg("Sentry DSN not set, error reporting disabled")
		return false, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      environment,
		Release:          cfg.Release,
		SampleRate:       cfg.SampleRate,
		AttachStacktrace: true,
		Tags:             map[string]string{"service": "cinescope"},
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return scrubPII(event)
		},
	})
	if err != nil {
		return false, fmt.Errorf("sentry init: %w", err)
	}

	logging.Info().Str("environment", environment).Msg("Sentry error reporting enabled")
	return true, nil
}

// Middleware binds a Sentry hub to each request and reports panics before
// re-panicking, leaving the response to the outer recover middleware.
func Middleware(next http.Handler) http.Handler {
	return sentryhttp.New(sentryhttp.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         flushTimeout,
	}).Handle(next)
}

// CaptureError reports err with tags, using the request hub when ctx
// carries one.
func CaptureError(ctx context.Context, err error, tags map[string]string) {
	if err == nil {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		if id := logging.RequestIDFromContext(ctx); id != "" {
			scope.SetTag("request_id", id)
		}
		if id := logging.AccountIDFromContext(ctx); id != "" {
			scope.SetUser(sentry.User{ID: id})
		}
		hub.CaptureException(err)
	})
}

// Flush waits for buffered events to be sent.
func Flush() {
	sentry.Flush(flushTimeout)
}

// scrubPII strips addresses and credentials before events leave the process.
func scrubPII(event *sentry.Event) *sentry.Event {
	if event == nil {
		return nil
	}

	if event.User.Email != "" {
		event.User.Email = "[redacted]"
	}
	event.User.IPAddress = ""

	if event.Request != nil {
		for k := range event.Request.Headers {
			switch http.CanonicalHeaderKey(k) {
			case "Authorization", "Cookie", "Set-Cookie":
				event.Request.Headers[k] = "[redacted]"
			}
		}
		if event.Request.Cookies != "" {
			event.Request.Cookies = "[redacted]"
		}
	}
	return event
}
