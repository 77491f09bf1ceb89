// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/cinescope/internal/authz"
	"github.com/tomtom215/cinescope/internal/models"
	"github.com/tomtom215/cinescope/internal/store"
)

// WatchlistResponse is the body of GET /api/watchlist.
type WatchlistResponse struct {
	Count     int                    `json:"count"`
	Watchlist []models.WatchlistItem `json:"watchlist"`
}

// GetWatchlist returns the caller's watchlist, most recently added first.
//
// @Summary Get own watchlist
// @Tags Watchlist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=WatchlistResponse}
// @Router /watchlist [get]
func (h *Handler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)

	items, err := h.store.Watchlist.Find(r.Context(), store.UserRef(hctx.AccountID))
	if err != nil {
		rw.Fail(err)
		return
	}
	store.SortNewestFirst(items,
		func(i *models.WatchlistItem) time.Time { return i.AddedAt },
		func(i *models.WatchlistItem) string { return i.ID })

	rw.Success(WatchlistResponse{Count: len(items), Watchlist: items})
}

// AddToWatchlist saves a movie with a catalog snapshot.
//
// @Summary Add a movie to the watchlist
// @Tags Watchlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body WatchlistAddRequest true "Movie"
// @Success 201 {object} APIResponse{data=map[string]models.WatchlistItem}
// @Failure 400 {object} APIResponse "Movie already in watchlist"
// @Router /watchlist [post]
func (h *Handler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	var req WatchlistAddRequest
	if !bind(rw, r, &req) {
		return
	}

	_, err := h.store.Watchlist.GetByUnique(ctx, store.UserMovieKey(hctx.AccountID, req.MovieID))
	if err == nil {
		rw.Duplicate("Movie already in watchlist")
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		rw.Fail(err)
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	now := h.clock()
	item := &models.WatchlistItem{
		ID:            uuid.NewString(),
		UserID:        hctx.AccountID,
		MovieID:       req.MovieID,
		MovieTitle:    strings.TrimSpace(req.MovieTitle),
		MovieSnapshot: h.movieSnapshot(ctx, req.MovieID),
		Priority:      priority,
		Notes:         req.Notes,
		AddedAt:       now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := h.store.Watchlist.Insert(ctx, item); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			rw.Duplicate("Movie already in watchlist")
			return
		}
		rw.Fail(err)
		return
	}
	h.analytics.Invalidate(hctx.AccountID)

	rw.Created(map[string]interface{}{"watchlistItem": item})
}

// RemoveMovieFromWatchlist deletes the caller's entry for a movie.
//
// @Summary Remove a movie from the watchlist by movie ID
// @Tags Watchlist
// @Produce json
// @Security BearerAuth
// @Param movieId path int true "TMDB movie ID"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse "Movie not found in watchlist"
// @Router /watchlist/movie/{movieId} [delete]
func (h *Handler) RemoveMovieFromWatchlist(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	movieID, ok := pathInt(r, "movieId")
	if !ok {
		rw.BadRequest("Invalid movie ID")
		return
	}

	item, err := h.store.Watchlist.GetByUnique(ctx, store.UserMovieKey(hctx.AccountID, movieID))
	if errors.Is(err, store.ErrNotFound) {
		rw.NotFound("Movie not found in watchlist")
		return
	}
	if err != nil {
		rw.Fail(err)
		return
	}
	if err := h.store.Watchlist.Delete(ctx, item.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		rw.Fail(err)
		return
	}
	h.analytics.Invalidate(hctx.AccountID)

	rw.Message("Movie removed from watchlist")
}

// loadWatchlistItem loads the item named by the id URL parameter and checks
// that the caller may perform action on it. It writes the error response
// and returns nil on failure.
func (h *Handler) loadWatchlistItem(rw *ResponseWriter, r *http.Request, action authz.Action, deniedMsg string) *models.WatchlistItem {
	item, err := h.store.Watchlist.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		rw.NotFound("Watchlist item not found")
		return nil
	}
	if err != nil {
		rw.Fail(err)
		return nil
	}
	if err := h.context(r).Authorize(item, action); err != nil {
		if isForbidden(err) {
			rw.Forbidden(deniedMsg)
			return nil
		}
		rw.Fail(err)
		return nil
	}
	return item
}

// UpdateWatchlistItem changes priority or notes.
//
// @Summary Update a watchlist item
// @Tags Watchlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Watchlist item ID"
// @Param request body models.WatchlistItemUpdate true "Fields to change"
// @Success 200 {object} APIResponse{data=map[string]models.WatchlistItem}
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /watchlist/{id} [put]
func (h *Handler) UpdateWatchlistItem(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req models.WatchlistItemUpdate
	if !bind(rw, r, &req) {
		return
	}
	item := h.loadWatchlistItem(rw, r, authz.ActionUpdate, "Not authorized to update this item")
	if item == nil {
		return
	}

	now := h.clock()
	updated, err := h.store.Watchlist.Update(r.Context(), item.ID, func(i *models.WatchlistItem) error {
		req.Apply(i, now)
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		rw.NotFound("Watchlist item not found")
		return
	}
	if err != nil {
		rw.Fail(err)
		return
	}

	rw.Success(map[string]interface{}{"watchlistItem": updated})
}

// DeleteWatchlistItem removes a watchlist item by its ID.
//
// @Summary Delete a watchlist item
// @Tags Watchlist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Watchlist item ID"
// @Success 200 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /watchlist/{id} [delete]
func (h *Handler) DeleteWatchlistItem(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	item := h.loadWatchlistItem(rw, r, authz.ActionDelete, "Not authorized to delete this item")
	if item == nil {
		return
	}
	if err := h.store.Watchlist.Delete(r.Context(), item.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		rw.Fail(err)
		return
	}
	h.analytics.Invalidate(item.UserID)

	rw.Message("Movie removed from watchlist")
}
