// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"bytes"
	"mime"
	"net/http"
	"testing"

	"github.com/tomtom215/cinescope/internal/analytics"
)

func TestGetAnalytics(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")

	addToWatchlist(t, srv, a.Token, 13, "Forrest Gump")
	addToWatchlist(t, srv, a.Token, 550, "Fight Club")
	srv.expect(srv.do(http.MethodPost, "/api/users/rating", a.Token, RatingRequest{MovieID: 13, Rating: 5}), http.StatusOK)
	srv.expect(srv.do(http.MethodPost, "/api/users/rating", a.Token, RatingRequest{MovieID: 550, Rating: 4}), http.StatusOK)
	srv.expect(srv.do(http.MethodPost, "/api/users/watch-history", a.Token,
		WatchHistoryRequest{MovieID: 550, MovieTitle: "Fight Club"}), http.StatusOK)
	srv.expect(createReview(t, srv, a.Token, 550, "Fight Club"), http.StatusCreated)

	resp := srv.do(http.MethodGet, "/api/analytics", a.Token, nil)
	srv.expect(resp, http.StatusOK)
	var got analytics.Summary
	resp.decode(t, &got)

	if got.MoviesWatched != 1 || got.ReviewsWritten != 1 || got.WatchlistCount != 2 {
		t.Errorf("counts = watched %d, reviews %d, watchlist %d", got.MoviesWatched, got.ReviewsWritten, got.WatchlistCount)
	}
	if got.AverageRating != 4.5 {
		t.Errorf("averageRating = %v, want 4.5", got.AverageRating)
	}
	if len(got.WeeklyWatchTime) != 7 {
		t.Errorf("weeklyWatchTime has %d days, want 7", len(got.WeeklyWatchTime))
	}
	if len(got.GenreFrequency) == 0 || got.GenreFrequency[0].Name != "Drama" || got.GenreFrequency[0].Value != 2 {
		t.Errorf("genreFrequency = %+v, want Drama first", got.GenreFrequency)
	}
}

func TestGetAnalytics_InvalidatedByWrites(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")

	var got analytics.Summary
	resp := srv.do(http.MethodGet, "/api/analytics", a.Token, nil)
	resp.decode(t, &got)
	if got.WatchlistCount != 0 {
		t.Fatalf("watchlistCount = %d, want 0", got.WatchlistCount)
	}

	addToWatchlist(t, srv, a.Token, 680, "Pulp Fiction")

	resp = srv.do(http.MethodGet, "/api/analytics", a.Token, nil)
	resp.decode(t, &got)
	if got.WatchlistCount != 1 {
		t.Errorf("watchlistCount after add = %d, want 1 (stale cache?)", got.WatchlistCount)
	}
}

func TestExportAnalyticsPDF(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")
	addToWatchlist(t, srv, a.Token, 550, "Fight Club")

	resp := srv.do(http.MethodGet, "/api/analytics/pdf", a.Token, nil)
	srv.expect(resp, http.StatusOK)

	header := resp.Raw.Header()
	if ct := header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	disposition, params, err := mime.ParseMediaType(header.Get("Content-Disposition"))
	if err != nil {
		t.Fatalf("parse Content-Disposition: %v", err)
	}
	if disposition != "attachment" || params["filename"] != analytics.DownloadName(a.ID) {
		t.Errorf("Content-Disposition = %q %v", disposition, params)
	}
	if !bytes.HasPrefix(resp.Raw.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body is not a PDF")
	}
}
