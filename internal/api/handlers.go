// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/cinescope/internal/analytics"
	"github.com/tomtom215/cinescope/internal/auth"
	"github.com/tomtom215/cinescope/internal/authz"
	"github.com/tomtom215/cinescope/internal/catalog"
	"github.com/tomtom215/cinescope/internal/config"
	"github.com/tomtom215/cinescope/internal/notify"
	"github.com/tomtom215/cinescope/internal/recommend"
	"github.com/tomtom215/cinescope/internal/store"
	"github.com/tomtom215/cinescope/internal/uploads"
)

// Handler contains dependencies for API handlers
//
// Handler methods are split across files by resource:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: request binding, paging and lookup helpers
//   - handlers_health.go: health endpoint
//   - handlers_auth.go: registration, login, current account
//   - handlers_users.go: profiles, photo, watch history, ratings
//   - handlers_movies.go: catalog proxy
//   - handlers_watchlist.go: personal watchlist
//   - handlers_reviews.go, handlers_blogs.go: community content
//   - handlers_social.go: friends, user search, notifications
//   - handlers_shared_watchlists.go: collaborative lists
//   - handlers_recommend.go, handlers_analytics.go: derived views
type Handler struct {
	config    *config.Config
	store     *store.Store
	auth      *auth.Service
	authz     *authz.Authorizer
	catalog   catalog.Catalog
	breaker   *catalog.BreakerClient
	recommend *recommend.Service
	analytics *analytics.Service
	reports   *analytics.Reports
	photos    *uploads.Photos
	notify    *notify.Service
	hub       *notify.Hub
	upgrader  websocket.Upgrader
	startTime time.Time
	now       func() time.Time
}

// Dependencies are the services a Handler is built from. Hub may be nil
// when live notification streaming is disabled.
type Dependencies struct {
	Config     *config.Config
	Store      *store.Store
	Auth       *auth.Service
	Authorizer *authz.Authorizer
	Catalog    *catalog.BreakerClient
	Recommend  *recommend.Service
	Analytics  *analytics.Service
	Reports    *analytics.Reports
	Photos     *uploads.Photos
	Notify     *notify.Service
	Hub        *notify.Hub
}

// NewHandler creates a new API handler with all required dependencies.
//
// Example:
//
//	handler := api.NewHandler(deps)
//	router := api.NewRouter(handler, tokens, cfg)
//	http.ListenAndServe(":5000", router.SetupChi())
func NewHandler(deps Dependencies) *Handler {
	h := &Handler{
		config:    deps.Config,
		store:     deps.Store,
		auth:      deps.Auth,
		authz:     deps.Authorizer,
		breaker:   deps.Catalog,
		recommend: deps.Recommend,
		analytics: deps.Analytics,
		reports:   deps.Reports,
		photos:    deps.Photos,
		notify:    deps.Notify,
		hub:       deps.Hub,
		upgrader:  notify.Upgrader(deps.Config.Security.CORSOrigins),
		startTime: time.Now(),
		now:       time.Now,
	}
	if deps.Catalog != nil {
		h.catalog = deps.Catalog
	}
	return h
}

// context builds the HandlerContext of r.
func (h *Handler) context(r *http.Request) *HandlerContext {
	return GetHandlerContext(r, h.authz)
}

// clock returns the current time in UTC.
func (h *Handler) clock() time.Time {
	return h.now().UTC()
}
