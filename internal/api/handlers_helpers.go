// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cinescope/internal/authz"
	"github.com/tomtom215/cinescope/internal/logging"
	"github.com/tomtom215/cinescope/internal/models"
	"github.com/tomtom215/cinescope/internal/store"
	"github.com/tomtom215/cinescope/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// bind decodes the JSON body of r into dst and validates it. On failure it
// writes the error response and returns false.
func bind(rw *ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(rw.w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			rw.BadRequest("Request body too large")
		case errors.Is(err, io.EOF):
			rw.BadRequest("Request body is required")
		default:
			logging.Ctx(r.Context()).Debug().Str("error", sanitizeLogValue(err.Error())).Msg("Malformed request body")
			rw.BadRequest("Invalid request body")
		}
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		rw.ValidationError(verr)
		return false
	}
	return true
}

// pathInt parses the chi URL parameter name as a positive integer.
func pathInt(r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// queryInt returns the integer query parameter name, or def when absent or
// unparsable.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// pageQuery returns the "page" query parameter clamped to at least 1.
func pageQuery(r *http.Request) int {
	if p := queryInt(r, "page", 1); p > 1 {
		return p
	}
	return 1
}

// maxListOffset bounds list offsets so page*limit arithmetic cannot overflow.
const maxListOffset = 1 << 30

// listWindow resolves limit and offset from either offset/limit or
// page/limit. limit falls back to def and is capped at max. Offsets past
// maxListOffset are clamped to it.
func listWindow(r *http.Request, def, max int) (offset, limit int) {
	limit = queryInt(r, "limit", def)
	if limit <= 0 {
		limit = def
	}
	if max > 0 && limit > max {
		limit = max
	}

	if r.URL.Query().Has("offset") {
		offset = queryInt(r, "offset", 0)
		if offset < 0 {
			offset = 0
		}
		if offset > maxListOffset {
			offset = maxListOffset
		}
		return offset, limit
	}
	page := pageQuery(r)
	if page-1 > maxListOffset/limit {
		return maxListOffset, limit
	}
	return (page - 1) * limit, limit
}

func isForbidden(err error) bool {
	return errors.Is(err, authz.ErrForbidden)
}

// accountSummaries loads the display summaries of ids. Accounts that no
// longer exist are left out of the map.
func (h *Handler) accountSummaries(ctx context.Context, ids ...string) (map[string]*models.AccountSummary, error) {
	out := make(map[string]*models.AccountSummary, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, seen := out[id]; seen {
			continue
		}
		account, err := h.store.Accounts.Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load account %s: %w", id, err)
		}
		summary := account.Summary()
		out[id] = &summary
	}
	return out, nil
}

func commentViews(comments []models.Comment, accounts map[string]*models.AccountSummary) []models.CommentView {
	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, models.CommentView{Comment: c, User: accounts[c.UserID]})
	}
	return views
}

func commentAuthors(comments []models.Comment) []string {
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	return ids
}

// friendIDs returns the accounts with an accepted friendship with
// accountID.
func (h *Handler) friendIDs(ctx context.Context, accountID string) ([]string, error) {
	edges, err := h.store.Friendships.FindWhere(ctx, store.UserRef(accountID), func(f *models.Friendship) bool {
		return f.Status == models.FriendshipAccepted
	})
	if err != nil {
		return nil, fmt.Errorf("load friendships: %w", err)
	}
	ids := make([]string, 0, len(edges))
	for i := range edges {
		ids = append(ids, edges[i].Other(accountID))
	}
	return ids, nil
}

// areFriends reports whether a and b have an accepted friendship.
func (h *Handler) areFriends(ctx context.Context, a, b string) (bool, error) {
	if a == "" || b == "" || a == b {
		return false, nil
	}
	edge, err := h.store.Friendships.GetByUnique(ctx, store.PairKey(a, b))
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load friendship: %w", err)
	}
	return edge.Status == models.FriendshipAccepted, nil
}

// movieSnapshot copies catalog metadata for movieID. A failed lookup yields
// an empty snapshot; saving a movie never depends on the catalog.
func (h *Handler) movieSnapshot(ctx context.Context, movieID int) models.MovieSnapshot {
	details, err := h.catalog.MovieDetails(ctx, movieID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int("movie_id", movieID).Msg("Movie details unavailable, saving without snapshot")
		return models.MovieSnapshot{}
	}
	return models.MovieSnapshot{
		MoviePoster:      details.PosterPath,
		MovieBackdrop:    details.BackdropPath,
		MovieOverview:    details.Overview,
		MovieReleaseDate: details.ReleaseDate,
		MovieRating:      details.VoteAverage,
		Genres:           details.GenreNames(),
	}
}
