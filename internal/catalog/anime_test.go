// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package catalog

import (
	"context"
	"net/http"
	"testing"

	"github.com/tomtom215/cinescope/internal/testinfra"
)

func TestPopularAnime(t *testing.T) {
	t.Parallel()

	tmdb := testinfra.NewFakeTMDB(t)
	c := NewClient(testConfig(tmdb.URL()))

	page, err := PopularAnime(context.Background(), c, 1)
	if err != nil {
		t.Fatalf("PopularAnime() error = %v", err)
	}
	if page.Page != 1 || page.TotalPages != 1 || page.TotalResults != 2 {
		t.Errorf("page meta = %d/%d/%d", page.Page, page.TotalPages, page.TotalResults)
	}
	if len(page.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(page.Results))
	}
	if page.Results[0].ID != 129 || page.Results[0].MediaType != MediaMovie {
		t.Errorf("Results[0] = %d %q, want Spirited Away as movie", page.Results[0].ID, page.Results[0].MediaType)
	}
	if page.Results[1].ID != 37854 || page.Results[1].MediaType != MediaTV {
		t.Errorf("Results[1] = %d %q, want One Piece as tv", page.Results[1].ID, page.Results[1].MediaType)
	}

	for _, u := range tmdb.Requests() {
		if u.Path != "/discover/movie" && u.Path != "/discover/tv" {
			continue
		}
		q := u.Query()
		if q.Get("with_genres") != "16" || q.Get("sort_by") != "popularity.desc" {
			t.Errorf("%s query = %v", u.Path, q)
		}
	}
}

func TestPopularAnimeFallsBackToPopularMovies(t *testing.T) {
	t.Parallel()

	tmdb := testinfra.NewFakeTMDB(t)
	tmdb.FailWith("/discover/tv", http.StatusInternalServerError)
	c := NewClient(testConfig(tmdb.URL()))

	page, err := PopularAnime(context.Background(), c, 1)
	if err != nil {
		t.Fatalf("PopularAnime() error = %v", err)
	}
	if tmdb.RequestCount("/movie/popular") != 1 {
		t.Errorf("popular movies requested %d times, want 1", tmdb.RequestCount("/movie/popular"))
	}
	for _, m := range page.Results {
		if m.MediaType == MediaTV {
			t.Errorf("fallback page contains TV title %d", m.ID)
		}
	}
	if len(page.Results) == 0 {
		t.Error("fallback page is empty")
	}
}
