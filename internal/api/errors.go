// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/cinescope/internal/auth"
	"github.com/tomtom215/cinescope/internal/authz"
	"github.com/tomtom215/cinescope/internal/catalog"
	"github.com/tomtom215/cinescope/internal/logging"
	"github.com/tomtom215/cinescope/internal/store"
	"github.com/tomtom215/cinescope/internal/uploads"
	"github.com/tomtom215/cinescope/internal/validation"
)

// Fail classifies err and writes the matching error response. Handlers
// call it for anything they do not answer with a specific message.
func (rw *ResponseWriter) Fail(err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		rw.ValidationError(verr)

	case errors.Is(err, store.ErrDuplicate):
		rw.Duplicate("Resource already exists")
	case errors.Is(err, store.ErrNotFound):
		rw.NotFound("Resource not found")
	case errors.Is(err, authz.ErrForbidden):
		rw.Forbidden("Not authorized")

	case errors.Is(err, auth.ErrTooManyAttempts):
		rw.TooManyRequests("Too many login attempts, try again later")
	case errors.Is(err, auth.ErrInvalidCredentials):
		rw.Unauthorized("Invalid credentials")
	case errors.Is(err, auth.ErrNoCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrUnknownAccount):
		rw.AuthRequired("Not authorized, token failed")

	case errors.Is(err, uploads.ErrTooLarge):
		rw.BadRequest("File too large")
	case errors.Is(err, uploads.ErrUnsupportedType):
		rw.BadRequest("Only image files are allowed")

	case errors.Is(err, catalog.ErrNotFound):
		rw.NotFound("Title not found")
	case errors.Is(err, catalog.ErrInvalidCredentials), errors.Is(err, catalog.ErrUnavailable):
		rw.ExternalServiceError("tmdb", catalog.StatusCode(err), err)

	case errors.Is(err, context.Canceled):
		logging.Ctx(rw.r.Context()).Debug().Err(err).Msg("Request canceled by client")
		rw.Error(http.StatusServiceUnavailable, ErrCodeInternalError, "Request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		rw.Error(http.StatusServiceUnavailable, ErrCodeInternalError, "Request timed out")

	default:
		rw.InternalError(err)
	}
}

// writeAuthError is the authentication middleware's error handler.
func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)
	switch {
	case errors.Is(err, auth.ErrNoCredentials):
		rw.AuthRequired("Not authorized, no token")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrUnknownAccount):
		rw.AuthRequired("Not authorized, token failed")
	default:
		rw.InternalError(err)
	}
}
