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
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/cinescope/internal/authz"
	"github.com/tomtom215/cinescope/internal/models"
	"github.com/tomtom215/cinescope/internal/notify"
	"github.com/tomtom215/cinescope/internal/store"
)

// defaultReviewPageSize is the page size of GET /api/reviews.
const defaultReviewPageSize = 10

// LikeResponse is the result of a like toggle.
type LikeResponse struct {
	Likes   int  `json:"likes"`
	IsLiked bool `json:"isLiked"`
}

// reviewViews resolves the authors and commenters of reviews.
func (h *Handler) reviewViews(ctx context.Context, reviews []models.Review) ([]models.ReviewView, error) {
	ids := make([]string, 0, len(reviews))
	for i := range reviews {
		ids = append(ids, reviews[i].UserID)
		ids = append(ids, commentAuthors(reviews[i].Comments)...)
	}
	accounts, err := h.accountSummaries(ctx, ids...)
	if err != nil {
		return nil, err
	}

	views := make([]models.ReviewView, 0, len(reviews))
	for i := range reviews {
		views = append(views, models.ReviewView{
			Review:    reviews[i],
			User:      accounts[reviews[i].UserID],
			Comments:  commentViews(reviews[i].Comments, accounts),
			LikeCount: len(reviews[i].Likes),
		})
	}
	return views, nil
}

func (h *Handler) reviewView(ctx context.Context, review *models.Review) (*models.ReviewView, error) {
	views, err := h.reviewViews(ctx, []models.Review{*review})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListReviews returns public reviews, newest first.
//
// @Summary List public reviews
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param movieId query int false "Filter by TMDB movie ID"
// @Param userId query string false "Filter by author"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} APIResponse{data=map[string][]models.ReviewView}
// @Router /reviews [get]
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ctx := r.Context()
	q := r.URL.Query()

	ref := store.PublicRef
	movieID := 0
	if raw := q.Get("movieId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			rw.BadRequest("Invalid movie ID")
			return
		}
		movieID = id
		ref = store.MovieRef(id)
	}
	userID := q.Get("userId")
	if userID != "" && movieID == 0 {
		ref = store.UserRef(userID)
	}

	reviews, err := h.store.Reviews.FindWhere(ctx, ref, func(rv *models.Review) bool {
		if !rv.IsPublic {
			return false
		}
		if movieID != 0 && rv.MovieID != movieID {
			return false
		}
		return userID == "" || rv.UserID == userID
	})
	if err != nil {
		rw.Fail(err)
		return
	}
	store.SortNewestFirst(reviews,
		func(rv *models.Review) time.Time { return rv.CreatedAt },
		func(rv *models.Review) string { return rv.ID })

	offset, limit := listWindow(r, defaultReviewPageSize, h.config.API.MaxPageSize)
	window := store.Paginate(reviews, offset, limit)
	views, err := h.reviewViews(ctx, window)
	if err != nil {
		rw.Fail(err)
		return
	}

	rw.SuccessWithPagination(map[string]interface{}{"reviews": views},
		NewPagination(len(reviews), len(views), offset, limit))
}

// CreateReview reviews a movie. Each account may review a movie once.
//
// @Summary Create a review
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ReviewCreateRequest true "Review"
// @Success 201 {object} APIResponse{data=map[string]models.ReviewView}
// @Failure 400 {object} APIResponse "Validation error or movie already reviewed"
// @Router /reviews [post]
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	var req ReviewCreateRequest
	if !bind(rw, r, &req) {
		return
	}

	now := h.clock()
	review := &models.Review{
		ID:          uuid.NewString(),
		UserID:      hctx.AccountID,
		MovieID:     req.MovieID,
		MovieTitle:  strings.TrimSpace(req.MovieTitle),
		MoviePoster: req.MoviePoster,
		Rating:      req.Rating,
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		Likes:       []string{},
		Comments:    []models.Comment{},
		IsPublic:    req.IsPublic == nil || *req.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.store.Reviews.Insert(ctx, review); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			rw.Duplicate("You have already reviewed this movie")
			return
		}
		rw.Fail(err)
		return
	}
	h.analytics.Invalidate(hctx.AccountID)

	view, err := h.reviewView(ctx, review)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Created(map[string]interface{}{"review": view})
}

// loadReview loads the review named by the id URL parameter and checks
// that the caller may perform action on it. It writes the error response
// and returns nil on failure.
func (h *Handler) loadReview(rw *ResponseWriter, r *http.Request, action authz.Action) *models.Review {
	review, err := h.store.Reviews.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		rw.NotFound("Review not found")
		return nil
	}
	if err != nil {
		rw.Fail(err)
		return nil
	}
	if err := h.context(r).Authorize(review, action); err != nil {
		if isForbidden(err) {
			rw.Forbidden(fmt.Sprintf("Not authorized to %s this review", action))
			return nil
		}
		rw.Fail(err)
		return nil
	}
	return review
}

// GetReview returns one review. Private reviews are visible to their
// author only.
//
// @Summary Get a review
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} APIResponse{data=map[string]models.ReviewView}
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /reviews/{id} [get]
func (h *Handler) GetReview(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	review := h.loadReview(rw, r, authz.ActionView)
	if review == nil {
		return
	}
	view, err := h.reviewView(r.Context(), review)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(map[string]interface{}{"review": view})
}

// UpdateReview applies a partial update. Only the author may update.
//
// @Summary Update a review
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param request body models.ReviewUpdate true "Fields to change"
// @Success 200 {object} APIResponse{data=map[string]models.ReviewView}
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /reviews/{id} [put]
func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ctx := r.Context()

	var req models.ReviewUpdate
	if !bind(rw, r, &req) {
		return
	}
	review := h.loadReview(rw, r, authz.ActionUpdate)
	if review == nil {
		return
	}

	now := h.clock()
	updated, err := h.store.Reviews.Update(ctx, review.ID, func(rv *models.Review) error {
		req.Apply(rv, now)
		return nil
	})
	if err != nil {
		rw.Fail(err)
		return
	}
	h.analytics.Invalidate(updated.UserID)

	view, err := h.reviewView(ctx, updated)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(map[string]interface{}{"review": view})
}

// DeleteReview deletes a review. Only the author may delete.
//
// @Summary Delete a review
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /reviews/{id} [delete]
func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	review := h.loadReview(rw, r, authz.ActionDelete)
	if review == nil {
		return
	}
	if err := h.store.Reviews.Delete(r.Context(), review.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		rw.Fail(err)
		return
	}
	h.analytics.Invalidate(review.UserID)

	rw.Message("Review deleted successfully")
}

// LikeReview toggles the caller's like. Liking someone else's review
// notifies its author.
//
// @Summary Like or unlike a review
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} APIResponse{data=LikeResponse}
// @Failure 404 {object} APIResponse
// @Router /reviews/{id}/like [post]
func (h *Handler) LikeReview(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	review := h.loadReview(rw, r, authz.ActionLike)
	if review == nil {
		return
	}

	var liked bool
	updated, err := h.store.Reviews.Update(ctx, review.ID, func(rv *models.Review) error {
		rv.Likes, liked = models.ToggleMember(rv.Likes, hctx.AccountID)
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		rw.NotFound("Review not found")
		return
	}
	if err != nil {
		rw.Fail(err)
		return
	}

	if liked && updated.UserID != hctx.AccountID {
		h.notify.NotifyQuietly(ctx, notify.Event{
			UserID:          updated.UserID,
			Type:            models.NotificationReviewLiked,
			Title:           "Review Liked",
			Message:         fmt.Sprintf("%s liked your review of %s", hctx.Account.FullName, updated.MovieTitle),
			RelatedUserID:   hctx.AccountID,
			RelatedMovieID:  updated.MovieID,
			RelatedReviewID: updated.ID,
		})
	}

	rw.Success(LikeResponse{Likes: len(updated.Likes), IsLiked: liked})
}

// CommentOnReview appends a comment. Commenting on someone else's review
// notifies its author.
//
// @Summary Comment on a review
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param request body CommentRequest true "Comment"
// @Success 200 {object} APIResponse{data=map[string]models.ReviewView}
// @Failure 404 {object} APIResponse
// @Router /reviews/{id}/comment [post]
func (h *Handler) CommentOnReview(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	var req CommentRequest
	if !bind(rw, r, &req) {
		return
	}
	review := h.loadReview(rw, r, authz.ActionComment)
	if review == nil {
		return
	}

	now := h.clock()
	comment := models.Comment{ID: uuid.NewString(), UserID: hctx.AccountID, Content: req.Content, CreatedAt: now}
	updated, err := h.store.Reviews.Update(ctx, review.ID, func(rv *models.Review) error {
		rv.Comments = append(rv.Comments, comment)
		rv.UpdatedAt = now
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		rw.NotFound("Review not found")
		return
	}
	if err != nil {
		rw.Fail(err)
		return
	}

	if updated.UserID != hctx.AccountID {
		h.notify.NotifyQuietly(ctx, notify.Event{
			UserID:          updated.UserID,
			Type:            models.NotificationReviewComment,
			Title:           "New Comment",
			Message:         fmt.Sprintf("%s commented on your review", hctx.Account.FullName),
			RelatedUserID:   hctx.AccountID,
			RelatedMovieID:  updated.MovieID,
			RelatedReviewID: updated.ID,
		})
	}

	view, err := h.reviewView(ctx, updated)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(map[string]interface{}{"review": view})
}
