// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/cinescope/internal/authz"
	"github.com/tomtom215/cinescope/internal/models"
	"github.com/tomtom215/cinescope/internal/notify"
	"github.com/tomtom215/cinescope/internal/store"
)

// errMovieOnList aborts a shared watchlist update that would add a
// duplicate movie.
var errMovieOnList = errors.New("movie already on shared watchlist")

// errMovieNotOnList aborts a removal of a movie that is not on the list.
var errMovieNotOnList = errors.New("movie not on shared watchlist")

func (h *Handler) sharedWatchlistViews(ctx context.Context, lists []models.SharedWatchlist) ([]models.SharedWatchlistView, error) {
	var ids []string
	for i := range lists {
		ids = append(ids, lists[i].OwnerID)
		ids = append(ids, lists[i].MemberIDs()...)
		for _, m := range lists[i].Movies {
			ids = append(ids, m.AddedBy)
		}
	}
	accounts, err := h.accountSummaries(ctx, ids...)
	if err != nil {
		return nil, err
	}

	views := make([]models.SharedWatchlistView, 0, len(lists))
	for i := range lists {
		l := lists[i]
		members := make([]models.MemberView, 0, len(l.Members))
		for _, m := range l.Members {
			members = append(members, models.MemberView{Member: m, User: accounts[m.UserID]})
		}
		movies := make([]models.SharedMovieView, 0, len(l.Movies))
		for _, m := range l.Movies {
			movies = append(movies, models.SharedMovieView{SharedMovie: m, AddedByUser: accounts[m.AddedBy]})
		}
		views = append(views, models.SharedWatchlistView{
			SharedWatchlist: l,
			Owner:           accounts[l.OwnerID],
			Members:         members,
			Movies:          movies,
			MovieCount:      len(l.Movies),
		})
	}
	return views, nil
}

func (h *Handler) sharedWatchlistView(ctx context.Context, list *models.SharedWatchlist) (*models.SharedWatchlistView, error) {
	views, err := h.sharedWatchlistViews(ctx, []models.SharedWatchlist{*list})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// loadSharedWatchlist loads the list named by the id URL parameter and
// checks that the caller may perform action on it. It writes the error
// response and returns nil on failure.
func (h *Handler) loadSharedWatchlist(rw *ResponseWriter, r *http.Request, action authz.Action, deniedMsg string) *models.SharedWatchlist {
	list, err := h.store.SharedWatchlists.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		rw.NotFound("Shared watchlist not found")
		return nil
	}
	if err != nil {
		rw.Fail(err)
		return nil
	}
	if err := h.context(r).Authorize(list, action); err != nil {
		if isForbidden(err) {
			rw.Forbidden(deniedMsg)
			return nil
		}
		rw.Fail(err)
		return nil
	}
	return list
}

// ShareWatchlist creates a shared watchlist owned by the caller. Listed
// accounts join as viewers and are notified.
//
// @Summary Create a shared watchlist
// @Tags Shared Watchlists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SharedWatchlistCreateRequest true "Watchlist"
// @Success 201 {object} APIResponse{data=map[string]models.SharedWatchlistView}
// @Failure 400 {object} APIResponse
// @Router /social/watchlist/share [post]
func (h *Handler) ShareWatchlist(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	var req SharedWatchlistCreateRequest
	if !bind(rw, r, &req) {
		return
	}

	now := h.clock()
	list := &models.SharedWatchlist{
		ID:          uuid.NewString(),
		OwnerID:     hctx.AccountID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Members:     []models.Member{{UserID: hctx.AccountID, Role: models.RoleOwner, AddedAt: now}},
		Movies:      []models.SharedMovie{},
		IsPublic:    req.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var invited []string
	for _, id := range req.Members {
		id = strings.TrimSpace(id)
		if id == "" || list.RoleOf(id) != "" {
			continue
		}
		if _, err := h.store.Accounts.Get(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				rw.NotFound("User not found")
				return
			}
			rw.Fail(err)
			return
		}
		list.SetMember(id, models.RoleViewer, now)
		invited = append(invited, id)
	}

	if err := h.store.SharedWatchlists.Insert(ctx, list); err != nil {
		rw.Fail(err)
		return
	}

	for _, id := range invited {
		h.notify.NotifyQuietly(ctx, notify.Event{
			UserID:        id,
			Type:          models.NotificationWatchlistShared,
			Title:         "Shared Watchlist",
			Message:       fmt.Sprintf("%s shared a watchlist with you: %s", hctx.Account.FullName, list.Name),
			RelatedUserID: hctx.AccountID,
		})
	}

	view, err := h.sharedWatchlistView(ctx, list)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Created(map[string]interface{}{"sharedWatchlist": view})
}

// GetSharedWatchlists lists the lists the caller owns or belongs to, and
// every public list, most recently updated first.
//
// @Summary List shared watchlists
// @Tags Shared Watchlists
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=map[string][]models.SharedWatchlistView}
// @Router /social/watchlist/shared [get]
func (h *Handler) GetSharedWatchlists(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	mine, err := h.store.SharedWatchlists.Find(ctx, store.MemberRef(hctx.AccountID))
	if err != nil {
		rw.Fail(err)
		return
	}
	public, err := h.store.SharedWatchlists.Find(ctx, store.PublicRef)
	if err != nil {
		rw.Fail(err)
		return
	}

	seen := make(map[string]struct{}, len(mine)+len(public))
	lists := make([]models.SharedWatchlist, 0, len(mine)+len(public))
	for _, l := range append(mine, public...) {
		if _, dup := seen[l.ID]; dup {
			continue
		}
		seen[l.ID] = struct{}{}
		lists = append(lists, l)
	}
	store.SortNewestFirst(lists,
		func(l *models.SharedWatchlist) time.Time { return l.UpdatedAt },
		func(l *models.SharedWatchlist) string { return l.ID })

	views, err := h.sharedWatchlistViews(ctx, lists)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(map[string]interface{}{"sharedWatchlists": views})
}

// GetSharedWatchlist returns one list to its members, or to anyone when
// it is public.
//
// @Summary Get a shared watchlist
// @Tags Shared Watchlists
// @Produce json
// @Security BearerAuth
// @Param id path string true "Shared watchlist ID"
// @Success 200 {object} APIResponse{data=map[string]models.SharedWatchlistView}
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /social/watchlist/shared/{id} [get]
func (h *Handler) GetSharedWatchlist(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	list := h.loadSharedWatchlist(rw, r, authz.ActionView,
		"Not authorized to view this watchlist. You must be a member or the watchlist must be public.")
	if list == nil {
		return
	}

	view, err := h.sharedWatchlistView(r.Context(), list)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(map[string]interface{}{"sharedWatchlist": view})
}

// UpdateSharedWatchlist changes name, description or visibility.
//
// @Summary Update a shared watchlist
// @Tags Shared Watchlists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Shared watchlist ID"
// @Param request body models.SharedWatchlistUpdate true "Fields to change"
// @Success 200 {object} APIResponse{data=map[string]models.SharedWatchlistView}
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /social/watchlist/shared/{id} [put]
func (h *Handler) UpdateSharedWatchlist(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ctx := r.Context()

	var req models.SharedWatchlistUpdate
	if !bind(rw, r, &req) {
		return
	}
	list := h.loadSharedWatchlist(rw, r, authz.ActionUpdate, "Only the owner can update this watchlist")
	if list == nil {
		return
	}

	now := h.clock()
	updated, err := h.store.SharedWatchlists.Update(ctx, list.ID, func(l *models.SharedWatchlist) error {
		req.Apply(l, now)
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		rw.NotFound("Shared watchlist not found")
		return
	}
	if err != nil {
		rw.Fail(err)
		return
	}

	view, err := h.sharedWatchlistView(ctx, updated)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(map[string]interface{}{"sharedWatchlist": view})
}

// DeleteSharedWatchlist removes a list.
//
// @Summary Delete a shared watchlist
// @Tags Shared Watchlists
// @Produce json
// @Security BearerAuth
// @Param id path string true "Shared watchlist ID"
// @Success 200 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /social/watchlist/shared/{id} [delete]
func (h *Handler) DeleteSharedWatchlist(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	list := h.loadSharedWatchlist(rw, r, authz.ActionDelete, "Only the owner can delete this watchlist")
	if list == nil {
		return
	}
	if err := h.store.SharedWatchlists.Delete(r.Context(), list.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		rw.Fail(err)
		return
	}

	rw.Message("Shared watchlist deleted")
}

// AddSharedWatchlistMember adds an account or changes its role.
//
// @Summary Add a member to a shared watchlist
// @Tags Shared Watchlists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Shared watchlist ID"
// @Param request body MemberRequest true "Member"
// @Success 200 {object} APIResponse{data=map[string]models.SharedWatchlistView}
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /social/watchlist/shared/{id}/members [post]
func (h *Handler) AddSharedWatchlistMember(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	var req MemberRequest
	if !bind(rw, r, &req) {
		return
	}
	list := h.loadSharedWatchlist(rw, r, authz.ActionManageMembers, "Only the owner can manage members")
	if list == nil {
		return
	}
	if req.UserID == list.OwnerID {
		rw.BadRequest("The owner is already a member")
		return
	}
	if _, err := h.store.Accounts.Get(ctx, req.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rw.NotFound("User not found")
			return
		}
		rw.Fail(err)
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleViewer
	}
	wasMember := list.RoleOf(req.UserID) != ""

	now := h.clock()
	updated, err := h.store.SharedWatchlists.Update(ctx, list.ID, func(l *models.SharedWatchlist) error {
		l.SetMember(req.UserID, role, now)
		l.UpdatedAt = now
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		rw.NotFound("Shared watchlist not found")
		return
	}
	if err != nil {
		rw.Fail(err)
		return
	}

	if !wasMember {
		h.notify.NotifyQuietly(ctx, notify.Event{
			UserID:        req.UserID,
			Type:          models.NotificationWatchlistShared,
			Title:         "Shared Watchlist",
			Message:       fmt.Sprintf("%s shared a watchlist with you: %s", hctx.Account.FullName, updated.Name),
			RelatedUserID: hctx.AccountID,
		})
	}

	view, err := h.sharedWatchlistView(ctx, updated)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(map[string]interface{}{"sharedWatchlist": view})
}

// RemoveSharedWatchlistMember removes a member. Members may remove
// themselves; removing others requires ownership. The owner can never be
// removed.
//
// @Summary Remove a member or leave a shared watchlist
// @Tags Shared Watchlists
// @Produce json
// @Security BearerAuth
// @Param id path string true "Shared watchlist ID"
// @Param userId path string true "Member account ID"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse "The owner cannot be removed"
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /social/watchlist/shared/{id}/members/{userId} [delete]
func (h *Handler) RemoveSharedWatchlistMember(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	memberID := chi.URLParam(r, "userId")
	action, denied := authz.ActionManageMembers, "Only the owner can manage members"
	if memberID == hctx.AccountID {
		action, denied = authz.ActionLeave, "Not a member of this watchlist"
	}
	list := h.loadSharedWatchlist(rw, r, action, denied)
	if list == nil {
		return
	}
	if memberID == list.OwnerID {
		rw.BadRequest("The owner cannot leave or be removed from the watchlist")
		return
	}

	now := h.clock()
	_, err := h.store.SharedWatchlists.Update(ctx, list.ID, func(l *models.SharedWatchlist) error {
		if !l.RemoveMember(memberID) {
			return store.ErrNotFound
		}
		l.UpdatedAt = now
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		rw.NotFound("Member not found")
		return
	}
	if err != nil {
		rw.Fail(err)
		return
	}

	if memberID == hctx.AccountID {
		rw.Message("Left shared watchlist")
		return
	}
	rw.Message("Member removed from shared watchlist")
}

// AddSharedWatchlistMovie adds a movie with a catalog snapshot and the
// caller's attribution.
//
// @Summary Add a movie to a shared watchlist
// @Tags Shared Watchlists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Shared watchlist ID"
// @Param request body SharedMovieRequest true "Movie"
// @Success 201 {object} APIResponse{data=map[string]models.SharedWatchlistView}
// @Failure 400 {object} APIResponse "Movie already in watchlist"
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /social/watchlist/shared/{id}/movies [post]
func (h *Handler) AddSharedWatchlistMovie(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	var req SharedMovieRequest
	if !bind(rw, r, &req) {
		return
	}
	list := h.loadSharedWatchlist(rw, r, authz.ActionAddMovie, "Not authorized to add movies to this watchlist")
	if list == nil {
		return
	}
	if list.HasMovie(req.MovieID) {
		rw.Duplicate("Movie already in watchlist")
		return
	}

	movie := models.SharedMovie{
		MovieID:       req.MovieID,
		MovieTitle:    strings.TrimSpace(req.MovieTitle),
		MovieSnapshot: h.movieSnapshot(ctx, req.MovieID),
		AddedBy:       hctx.AccountID,
	}

	now := h.clock()
	updated, err := h.store.SharedWatchlists.Update(ctx, list.ID, func(l *models.SharedWatchlist) error {
		if l.HasMovie(movie.MovieID) {
			return errMovieOnList
		}
		m := movie
		m.AddedAt = now
		l.Movies = append(l.Movies, m)
		l.UpdatedAt = now
		return nil
	})
	switch {
	case errors.Is(err, errMovieOnList):
		rw.Duplicate("Movie already in watchlist")
		return
	case errors.Is(err, store.ErrNotFound):
		rw.NotFound("Shared watchlist not found")
		return
	case err != nil:
		rw.Fail(err)
		return
	}

	view, err := h.sharedWatchlistView(ctx, updated)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Created(map[string]interface{}{
		"message":         "Movie added to shared watchlist",
		"sharedWatchlist": view,
	})
}

// RemoveSharedWatchlistMovie removes a movie. Editors and the owner may
// remove movies.
//
// @Summary Remove a movie from a shared watchlist
// @Tags Shared Watchlists
// @Produce json
// @Security BearerAuth
// @Param id path string true "Shared watchlist ID"
// @Param movieId path int true "TMDB movie ID"
// @Success 200 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /social/watchlist/shared/{id}/movies/{movieId} [delete]
func (h *Handler) RemoveSharedWatchlistMovie(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	movieID, ok := pathInt(r, "movieId")
	if !ok {
		rw.BadRequest("Invalid movie ID")
		return
	}
	list := h.loadSharedWatchlist(rw, r, authz.ActionRemoveMovie, "Not authorized to remove movies from this watchlist")
	if list == nil {
		return
	}

	now := h.clock()
	_, err := h.store.SharedWatchlists.Update(r.Context(), list.ID, func(l *models.SharedWatchlist) error {
		if !l.RemoveMovie(movieID) {
			return errMovieNotOnList
		}
		l.UpdatedAt = now
		return nil
	})
	switch {
	case errors.Is(err, errMovieNotOnList):
		rw.NotFound("Movie not found in watchlist")
		return
	case errors.Is(err, store.ErrNotFound):
		rw.NotFound("Shared watchlist not found")
		return
	case err != nil:
		rw.Fail(err)
		return
	}

	rw.Message("Movie removed from shared watchlist")
}
