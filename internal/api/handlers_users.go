// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinescope/internal/authz"
	"github.com/tomtom215/cinescope/internal/logging"
	"github.com/tomtom215/cinescope/internal/models"
	"github.com/tomtom215/cinescope/internal/store"
)

// multipartOverhead is allowed on top of the photo size limit for form
// boundaries and headers.
const multipartOverhead = 64 << 10

// ProfileStats are counters shown on the owner's profile.
type ProfileStats struct {
	MoviesWatched  int `json:"moviesWatched"`
	ReviewsWritten int `json:"reviewsWritten"`
	Friends        int `json:"friends"`
}

// ProfileResponse is the body of GET /api/users/profile.
type ProfileResponse struct {
	User  models.AccountProfile `json:"user"`
	Stats ProfileStats          `json:"stats"`
}

// GetProfile returns the caller's profile and counters.
//
// @Summary Get own profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=ProfileResponse}
// @Router /users/profile [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	reviews, err := h.store.Reviews.Find(ctx, store.UserRef(hctx.AccountID))
	if err != nil {
		rw.Fail(err)
		return
	}
	friends, err := h.friendIDs(ctx, hctx.AccountID)
	if err != nil {
		rw.Fail(err)
		return
	}

	rw.Success(ProfileResponse{
		User: hctx.Account.Profile(),
		Stats: ProfileStats{
			MoviesWatched:  len(hctx.Account.WatchHistory),
			ReviewsWritten: len(reviews),
			Friends:        len(friends),
		},
	})
}

// UpdateProfile applies a partial profile update.
//
// @Summary Update own profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.AccountUpdate true "Fields to change"
// @Success 200 {object} APIResponse{data=map[string]models.AccountProfile}
// @Failure 400 {object} APIResponse
// @Router /users/profile [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)

	var req models.AccountUpdate
	if !bind(rw, r, &req) {
		return
	}

	now := h.clock()
	account, err := h.store.Accounts.Update(r.Context(), hctx.AccountID, func(a *models.Account) error {
		req.Apply(a, now)
		return nil
	})
	if errors.Is(err, store.ErrDuplicate) {
		rw.Duplicate("Email already in use")
		return
	}
	if err != nil {
		rw.Fail(err)
		return
	}

	rw.Success(map[string]interface{}{"user": account.Profile()})
}

// UploadPhoto replaces the caller's profile photo.
//
// @Summary Upload profile photo
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param photo formData file true "Image file"
// @Success 200 {object} APIResponse{data=map[string]models.AccountProfile}
// @Failure 400 {object} APIResponse "Missing, oversized or non-image file"
// @Router /users/profile/photo [post]
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)

	r.Body = http.MaxBytesReader(w, r.Body, h.photos.MaxBytes()+multipartOverhead)
	file, header, err := r.FormFile("photo")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			rw.BadRequest("File too large")
			return
		}
		rw.BadRequest("No file uploaded")
		return
	}
	defer file.Close()

	url, err := h.photos.Save(hctx.AccountID, header.Filename, file)
	if err != nil {
		rw.Fail(err)
		return
	}

	var previous string
	now := h.clock()
	account, err := h.store.Accounts.Update(r.Context(), hctx.AccountID, func(a *models.Account) error {
		previous = a.Photo
		a.Photo = url
		a.UpdatedAt = now
		return nil
	})
	if err != nil {
		h.photos.Remove(url)
		rw.Fail(err)
		return
	}
	if previous != "" && previous != url {
		h.photos.Remove(previous)
	}

	logging.Ctx(r.Context()).Info().Str("account_id", hctx.AccountID).Str("photo", url).Msg("Profile photo updated")
	rw.Success(map[string]interface{}{"user": account.Profile()})
}

// GetUser returns another account's profile as its privacy settings allow.
//
// @Summary Get a user profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 200 {object} APIResponse{data=map[string]models.AccountProfile}
// @Failure 403 {object} APIResponse "Profile is private"
// @Failure 404 {object} APIResponse "User not found"
// @Router /users/{id} [get]
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	account, err := h.store.Accounts.Get(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		rw.NotFound("User not found")
		return
	}
	if err != nil {
		rw.Fail(err)
		return
	}

	if hctx.Owns(account.ID) {
		rw.Success(map[string]interface{}{"user": account.Profile()})
		return
	}

	friend, err := h.areFriends(ctx, hctx.AccountID, account.ID)
	if err != nil {
		rw.Fail(err)
		return
	}
	if err := hctx.Authorize(authz.Profile{Account: account, Friend: friend}, authz.ActionView); err != nil {
		if isForbidden(err) {
			rw.Forbidden("Profile is private")
			return
		}
		rw.Fail(err)
		return
	}

	rw.Success(map[string]interface{}{"user": account.PublicProfile()})
}

// AddWatchHistory records that the caller watched a movie.
//
// @Summary Record a viewing
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body WatchHistoryRequest true "Viewing"
// @Success 200 {object} APIResponse{data=map[string][]models.WatchEntry}
// @Router /users/watch-history [post]
func (h *Handler) AddWatchHistory(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)

	var req WatchHistoryRequest
	if !bind(rw, r, &req) {
		return
	}
	progress := 100
	if req.Progress != nil {
		progress = *req.Progress
	}

	now := h.clock()
	account, err := h.store.Accounts.Update(r.Context(), hctx.AccountID, func(a *models.Account) error {
		a.UpsertWatchEntry(req.MovieID, req.MovieTitle, progress, now)
		a.UpdatedAt = now
		return nil
	})
	if err != nil {
		rw.Fail(err)
		return
	}
	h.analytics.Invalidate(hctx.AccountID)

	rw.Success(map[string]interface{}{"watchHistory": account.WatchHistory})
}

// RateMovie sets the caller's rating of a movie.
//
// @Summary Rate a movie
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RatingRequest true "Rating"
// @Success 200 {object} APIResponse{data=map[string][]models.MovieRating}
// @Router /users/rating [post]
func (h *Handler) RateMovie(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)

	var req RatingRequest
	if !bind(rw, r, &req) {
		return
	}

	now := h.clock()
	account, err := h.store.Accounts.Update(r.Context(), hctx.AccountID, func(a *models.Account) error {
		a.UpsertRating(req.MovieID, req.Rating, now)
		a.UpdatedAt = now
		return nil
	})
	if err != nil {
		rw.Fail(err)
		return
	}
	h.analytics.Invalidate(hctx.AccountID)

	rw.Success(map[string]interface{}{"ratings": account.Ratings})
}
