// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/cinescope/internal/logging"
	"github.com/tomtom215/cinescope/internal/recommend"
	"github.com/tomtom215/cinescope/internal/store"
)

// RecommendationsResponse is the body of GET /api/recommendations.
type RecommendationsResponse struct {
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Signals         []recommend.Signal         `json:"signals"`
	Source          string                     `json:"source,omitempty"`
	Count           int                        `json:"count"`
	Message         string                     `json:"message,omitempty"`
}

// MoodResponse is the body of GET /api/recommendations/mood.
type MoodResponse struct {
	Message         string                     `json:"message"`
	Genres          []string                   `json:"genres"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// GetRecommendations returns popular movies annotated with the caller's
// rating signals.
//
// @Summary Personal recommendations
// @Description Popular movies resolved to details. Falls back to a fixed list when the catalog is unavailable; never fails.
// @Tags Recommendations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=RecommendationsResponse}
// @Router /recommendations [get]
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)
	ctx := r.Context()

	unavailable := RecommendationsResponse{
		Recommendations: []recommend.Recommendation{},
		Signals:         []recommend.Signal{},
		Message:         "Recommendations temporarily unavailable",
	}

	watchlist, err := h.store.Watchlist.Find(ctx, store.UserRef(hctx.AccountID))
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to load watchlist for recommendations")
		rw.Success(unavailable)
		return
	}
	signals := recommend.MergeSignals(hctx.Account.Ratings, watchlist)

	result, err := h.recommend.ForAccount(ctx, signals)
	if err != nil {
		if ctx.Err() != nil {
			rw.Fail(err)
			return
		}
		logging.Ctx(ctx).Error().Err(err).Msg("Recommendations failed")
		unavailable.Signals = signals
		rw.Success(unavailable)
		return
	}

	rw.Success(RecommendationsResponse{
		Recommendations: result.Recommendations,
		Signals:         result.Signals,
		Source:          result.Source,
		Count:           len(result.Recommendations),
	})
}

// ContentBasedRecommendations returns titles similar to a movie.
//
// @Summary Content-based recommendations
// @Tags Recommendations
// @Produce json
// @Security BearerAuth
// @Param movieId path int true "TMDB movie ID"
// @Success 200 {object} APIResponse{data=RecommendationsResponse}
// @Failure 404 {object} APIResponse
// @Router /recommendations/content-based/{movieId} [get]
func (h *Handler) ContentBasedRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	movieID, ok := pathInt(r, "movieId")
	if !ok {
		rw.BadRequest("Invalid movie ID")
		return
	}

	recs, err := h.recommend.ContentBased(r.Context(), movieID)
	if err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(RecommendationsResponse{
		Recommendations: recs,
		Signals:         []recommend.Signal{},
		Count:           len(recs),
	})
}

// MoodRecommendations echoes the requested genres, or the caller's
// favorites.
//
// @Summary Mood-based recommendations
// @Tags Recommendations
// @Produce json
// @Security BearerAuth
// @Param genres query string false "Comma separated genre names"
// @Success 200 {object} APIResponse{data=MoodResponse}
// @Router /recommendations/mood [get]
func (h *Handler) MoodRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	hctx := h.context(r)

	var requested []string
	if raw := r.URL.Query().Get("genres"); raw != "" {
		for _, g := range strings.Split(raw, ",") {
			requested = append(requested, strings.TrimSpace(g))
		}
	}

	rw.Success(MoodResponse{
		Message:         "Mood-based recommendations",
		Genres:          recommend.MoodGenres(requested, hctx.Account.FavoriteGenres),
		Recommendations: []recommend.Recommendation{},
	})
}
