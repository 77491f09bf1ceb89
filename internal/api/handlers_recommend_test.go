// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"net/http"
	"testing"

	"github.com/tomtom215/cinescope/internal/recommend"
)

func TestGetRecommendations_SignalsFromRatingsAndWatchlist(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")

	addToWatchlist(t, srv, a.Token, 550, "Fight Club")
	addToWatchlist(t, srv, a.Token, 13, "Forrest Gump")
	srv.expect(srv.do(http.MethodPost, "/api/users/rating", a.Token, RatingRequest{MovieID: 13, Rating: 2}), http.StatusOK)

	resp := srv.do(http.MethodGet, "/api/recommendations", a.Token, nil)
	srv.expect(resp, http.StatusOK)
	var got RecommendationsResponse
	resp.decode(t, &got)

	if got.Source != recommend.SourcePopular {
		t.Errorf("source = %q, want %q", got.Source, recommend.SourcePopular)
	}
	if got.Count == 0 || got.Count != len(got.Recommendations) {
		t.Errorf("count = %d, recommendations = %d", got.Count, len(got.Recommendations))
	}
	for _, rec := range got.Recommendations {
		if rec.Reason != recommend.Reason {
			t.Errorf("reason = %q", rec.Reason)
		}
	}

	want := []recommend.Signal{
		{MovieID: 13, Rating: 2, Source: recommend.SourceRating},
		{MovieID: 550, Rating: recommend.ImplicitWatchlistRating, Source: recommend.SourceWatchlist},
	}
	if len(got.Signals) != len(want) {
		t.Fatalf("signals = %+v, want %+v", got.Signals, want)
	}
	for i := range want {
		if got.Signals[i] != want[i] {
			t.Errorf("signal %d = %+v, want %+v", i, got.Signals[i], want[i])
		}
	}
}

func TestGetRecommendations_FallsBackWhenPopularFails(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")
	srv.tmdb.FailWith("/movie/popular", http.StatusServiceUnavailable)

	resp := srv.do(http.MethodGet, "/api/recommendations", a.Token, nil)
	srv.expect(resp, http.StatusOK)
	var got RecommendationsResponse
	resp.decode(t, &got)
	if got.Source != recommend.SourceFallback {
		t.Errorf("source = %q, want %q", got.Source, recommend.SourceFallback)
	}
	// Only the fallback ids the catalog knows resolve.
	if got.Count != 4 {
		t.Errorf("count = %d, want 4", got.Count)
	}
}

func TestContentBasedRecommendations(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")

	resp := srv.do(http.MethodGet, "/api/recommendations/content-based/550", a.Token, nil)
	srv.expect(resp, http.StatusOK)
	var got RecommendationsResponse
	resp.decode(t, &got)
	if got.Recommendations == nil || got.Count != 0 {
		t.Errorf("content-based = %+v, want an empty list", got)
	}

	srv.expect(srv.do(http.MethodGet, "/api/recommendations/content-based/424242", a.Token, nil), http.StatusNotFound)
}

func TestMoodRecommendations(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")
	srv.expect(srv.do(http.MethodPut, "/api/users/profile", a.Token,
		map[string]interface{}{"favoriteGenres": []string{"Drama"}}), http.StatusOK)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Drama"}},
		{"?genres=Comedy,%20Action", []string{"Comedy", "Action"}},
		{"?genres=,", []string{"Drama"}},
	}
	for _, tt := range tests {
		resp := srv.do(http.MethodGet, "/api/recommendations/mood"+tt.query, a.Token, nil)
		srv.expect(resp, http.StatusOK)
		var got MoodResponse
		resp.decode(t, &got)
		if len(got.Genres) != len(tt.want) {
			t.Errorf("%q: genres = %v, want %v", tt.query, got.Genres, tt.want)
			continue
		}
		for i := range tt.want {
			if got.Genres[i] != tt.want[i] {
				t.Errorf("%q: genres = %v, want %v", tt.query, got.Genres, tt.want)
				break
			}
		}
	}
}
