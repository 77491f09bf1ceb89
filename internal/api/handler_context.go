// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

/*
handler_context.go - Request Context Helpers for Authorization

HandlerContext carries the authenticated account of a request together with
the authorizer, so handlers can ask one question for every ownership and
membership check:

	hctx := h.context(r)
	if err := hctx.Authorize(review, authz.ActionUpdate); err != nil {
	    rw.Forbidden("Not authorized to update this review")
	    return
	}
*/

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/cinescope/internal/auth"
	"github.com/tomtom215/cinescope/internal/authz"
	"github.com/tomtom215/cinescope/internal/logging"
	"github.com/tomtom215/cinescope/internal/models"
)

// HandlerContext provides request-scoped identity for handlers.
type HandlerContext struct {
	// Account is the authenticated account. Nil on public routes.
	Account *models.Account

	// AccountID is Account.ID, or empty.
	AccountID string

	// RequestID is the unique identifier for this request.
	RequestID string

	authorizer *authz.Authorizer
	ctx        context.Context
}

// GetHandlerContext extracts the authentication context from r.
func GetHandlerContext(r *http.Request, authorizer *authz.Authorizer) *HandlerContext {
	hctx := &HandlerContext{
		RequestID:  logging.RequestIDFromContext(r.Context()),
		authorizer: authorizer,
		ctx:        r.Context(),
	}
	if account, ok := auth.AccountFromContext(r.Context()); ok {
		hctx.Account = account
		hctx.AccountID = account.ID
	}
	return hctx
}

// IsAuthenticated returns true if the request has valid authentication.
func (hctx *HandlerContext) IsAuthenticated() bool {
	return hctx != nil && hctx.Account != nil
}

// Authorize returns nil if the account may perform action on resource, and
// an error wrapping authz.ErrForbidden otherwise.
func (hctx *HandlerContext) Authorize(resource any, action authz.Action) error {
	return hctx.authorizer.Authorize(hctx.ctx, hctx.AccountID, resource, action)
}

// Can is Authorize reduced to a boolean. Policy evaluation failures count
// as a denial and are logged.
func (hctx *HandlerContext) Can(resource any, action authz.Action) bool {
	err := hctx.Authorize(resource, action)
	if err != nil && !isForbidden(err) {
		logging.Ctx(hctx.ctx).Error().Err(err).Str("action", string(action)).Msg("Authorization check failed")
	}
	return err == nil
}

// Owns reports whether ownerID is the authenticated account.
func (hctx *HandlerContext) Owns(ownerID string) bool {
	return hctx.IsAuthenticated() && ownerID == hctx.AccountID
}
