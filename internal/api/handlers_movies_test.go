// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"net/http"
	"testing"

	"github.com/tomtom215/cinescope/internal/catalog"
)

func TestSearchMovies_Validation(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")

	tests := []struct {
		name    string
		path    string
		wantMsg string
	}{
		{"missing query", "/api/movies/search", "Search query is required"},
		{"blank query", "/api/movies/search?query=%20%20", "Search query is required"},
		{"unknown type", "/api/movies/search?query=club&type=anime", "Search type must be one of multi, movie, tv, person"},
	}
	for _, tt := range tests {
		resp := srv.do(http.MethodGet, tt.path, a.Token, nil)
		if resp.Code != http.StatusBadRequest || resp.errorMessage() != tt.wantMsg {
			t.Errorf("%s: %d %q, want 400 %q", tt.name, resp.Code, resp.errorMessage(), tt.wantMsg)
		}
	}
}

func TestSearchMovies_MultiSearchesEveryKind(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")

	resp := srv.do(http.MethodGet, "/api/movies/search?query=club", a.Token, nil)
	srv.expect(resp, http.StatusOK)
	var got SearchResults
	resp.decode(t, &got)
	if got.Movies == nil || got.TV == nil || got.Persons == nil {
		t.Fatalf("multi search left a kind out: %+v", got)
	}
	if len(got.Movies.Results) != 1 || got.Movies.Results[0].ID != 550 {
		t.Errorf("movies = %+v, want Fight Club", got.Movies.Results)
	}

	resp = srv.do(http.MethodGet, "/api/movies/search?query=brad&type=person", a.Token, nil)
	srv.expect(resp, http.StatusOK)
	got = SearchResults{}
	resp.decode(t, &got)
	if got.Movies != nil || got.Persons == nil || len(got.Persons.Results) != 1 {
		t.Errorf("person search = %+v", got)
	}
}

func TestSearchMovies_FailedKindIsEmpty(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")
	srv.tmdb.FailWith("/search/tv", http.StatusUnauthorized)

	resp := srv.do(http.MethodGet, "/api/movies/search?query=club", a.Token, nil)
	srv.expect(resp, http.StatusOK)
	var got SearchResults
	resp.decode(t, &got)
	if got.TV == nil || len(got.TV.Results) != 0 {
		t.Errorf("failed TV search = %+v, want empty page", got.TV)
	}
	if got.Movies == nil || len(got.Movies.Results) != 1 {
		t.Errorf("movie search should survive a TV failure: %+v", got.Movies)
	}
}

func TestPopularAnime_CombinesMoviesAndTV(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")

	resp := srv.do(http.MethodGet, "/api/movies/popular-anime", a.Token, nil)
	srv.expect(resp, http.StatusOK)
	var page catalog.Page[catalog.Media]
	resp.decode(t, &page)

	ids := map[int]bool{}
	for _, m := range page.Results {
		ids[m.ID] = true
	}
	if !ids[129] || !ids[37854] {
		t.Errorf("anime ids = %v, want Spirited Away and One Piece", ids)
	}
}

func TestMovieDetails(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")

	tests := []struct {
		path string
		want int
	}{
		{"/api/movies/550", http.StatusOK},
		{"/api/movies/1396?type=tv", http.StatusOK},
		{"/api/movies/424242", http.StatusNotFound},
		{"/api/movies/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		resp := srv.do(http.MethodGet, tt.path, a.Token, nil)
		if resp.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.path, resp.Code, tt.want)
		}
	}

	resp := srv.do(http.MethodGet, "/api/movies/550", a.Token, nil)
	var body struct {
		Movie catalog.Details `json:"movie"`
	}
	resp.decode(t, &body)
	if len(body.Movie.Genres) != 1 || body.Movie.Genres[0].Name != "Drama" {
		t.Errorf("genres = %+v", body.Movie.Genres)
	}
}

func TestCatalogOutageIsBadGateway(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")
	srv.tmdb.FailWith("/movie/top_rated", http.StatusUnauthorized)

	resp := srv.do(http.MethodGet, "/api/movies/top-rated", a.Token, nil)
	srv.expect(resp, http.StatusBadGateway)
	if resp.errorCode() != ErrCodeExternalService {
		t.Errorf("code = %q, want %q", resp.errorCode(), ErrCodeExternalService)
	}
}

func TestGenres(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	a := srv.register("Account A", "a@example.com")

	resp := srv.do(http.MethodGet, "/api/movies/genres", a.Token, nil)
	srv.expect(resp, http.StatusOK)
	var got GenresResponse
	resp.decode(t, &got)
	if len(got.Movie) == 0 || len(got.TV) == 0 {
		t.Errorf("genres = %+v", got)
	}

	srv.expect(srv.do(http.MethodGet, "/api/movies/genre/18", a.Token, nil), http.StatusOK)
	srv.expect(srv.do(http.MethodGet, "/api/movies/genre/drama", a.Token, nil), http.StatusBadRequest)
}
