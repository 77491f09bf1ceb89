// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package api

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinescope/internal/catalog"
	"github.com/tomtom215/cinescope/internal/logging"
)

// Search types accepted by GET /api/movies/search.
const (
	searchMulti  = "multi"
	searchMovie  = "movie"
	searchTV     = "tv"
	searchPerson = "person"
)

// SearchResults holds one page per requested search kind. A kind that
// failed upstream is an empty page.
type SearchResults struct {
	Movies  *catalog.Page[catalog.Media]  `json:"movies,omitempty"`
	TV      *catalog.Page[catalog.Media]  `json:"tv,omitempty"`
	Persons *catalog.Page[catalog.Person] `json:"persons,omitempty"`
}

// GenresResponse is the body of GET /api/movies/genres.
type GenresResponse struct {
	Movie []catalog.Genre `json:"movie"`
	TV    []catalog.Genre `json:"tv"`
}

// SearchMovies searches movies, TV shows and people.
//
// @Summary Search the catalog
// @Description Searches TMDB. With type=multi all three kinds are searched; a kind that fails upstream is returned empty.
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Param query query string true "Search text"
// @Param type query string false "multi, movie, tv or person" default(multi)
// @Param page query int false "Page" default(1)
// @Success 200 {object} APIResponse{data=SearchResults}
// @Failure 400 {object} APIResponse "Search query is required"
// @Router /movies/search [get]
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		rw.BadRequest("Search query is required")
		return
	}
	kind := r.URL.Query().Get("type")
	if kind == "" {
		kind = searchMulti
	}
	switch kind {
	case searchMulti, searchMovie, searchTV, searchPerson:
	default:
		rw.BadRequest("Search type must be one of multi, movie, tv, person")
		return
	}
	page := pageQuery(r)

	results := searchAll(r.Context(), h.catalog, query, kind, page)
	if err := r.Context().Err(); err != nil {
		rw.Fail(err)
		return
	}
	rw.Success(results)
}

// searchAll runs the requested searches concurrently. Failures degrade to
// empty pages and are never returned.
func searchAll(ctx context.Context, c catalog.Catalog, query, kind string, page int) *SearchResults {
	results := &SearchResults{}
	log := logging.Ctx(ctx)

	var g errgroup.Group
	if kind == searchMulti || kind == searchMovie {
		g.Go(func() error {
			p, err := c.SearchMovies(ctx, query, page)
			if err != nil {
				log.Warn().Err(err).Msg("Movie search failed")
				p = &catalog.Page[catalog.Media]{Results: []catalog.Media{}}
			}
			results.Movies = p
			return nil
		})
	}
	if kind == searchMulti || kind == searchTV {
		g.Go(func() error {
			p, err := c.SearchTV(ctx, query, page)
			if err != nil {
				log.Warn().Err(err).Msg("TV search failed")
				p = &catalog.Page[catalog.Media]{Results: []catalog.Media{}}
			}
			results.TV = p
			return nil
		})
	}
	if kind == searchMulti || kind == searchPerson {
		g.Go(func() error {
			p, err := c.SearchPeople(ctx, query, page)
			if err != nil {
				log.Warn().Err(err).Msg("Person search failed")
				p = &catalog.Page[catalog.Person]{Results: []catalog.Person{}}
			}
			results.Persons = p
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// listHandler adapts a paged catalog list call to a handler.
func (h *Handler) listHandler(fetch func(ctx context.Context, page int) (*catalog.Page[catalog.Media], error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rw := NewResponseWriter(w, r)
		page, err := fetch(r.Context(), pageQuery(r))
		if err != nil {
			rw.Fail(err)
			return
		}
		rw.Success(page)
	}
}

// PopularMovies lists popular movies.
//
// @Summary Popular movies
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Success 200 {object} APIResponse{data=catalog.Page[catalog.Media]}
// @Failure 502 {object} APIResponse
// @Router /movies/popular [get]
func (h *Handler) PopularMovies(w http.ResponseWriter, r *http.Request) {
	h.listHandler(h.catalog.PopularMovies)(w, r)
}

// PopularTV lists popular TV shows.
//
// @Summary Popular TV shows
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Success 200 {object} APIResponse{data=catalog.Page[catalog.Media]}
// @Router /movies/popular-tv [get]
func (h *Handler) PopularTV(w http.ResponseWriter, r *http.Request) {
	h.listHandler(h.catalog.PopularTV)(w, r)
}

// PopularAnime lists popular animated movies and TV shows combined.
//
// @Summary Popular anime
// @Description Combines animation-genre movie and TV discovery, capped at 20 titles. Falls back to popular movies.
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Success 200 {object} APIResponse{data=catalog.Page[catalog.Media]}
// @Router /movies/popular-anime [get]
func (h *Handler) PopularAnime(w http.ResponseWriter, r *http.Request) {
	h.listHandler(func(ctx context.Context, page int) (*catalog.Page[catalog.Media], error) {
		return catalog.PopularAnime(ctx, h.catalog, page)
	})(w, r)
}

// TopRatedMovies lists top rated movies.
//
// @Summary Top rated movies
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Success 200 {object} APIResponse{data=catalog.Page[catalog.Media]}
// @Router /movies/top-rated [get]
func (h *Handler) TopRatedMovies(w http.ResponseWriter, r *http.Request) {
	h.listHandler(h.catalog.TopRatedMovies)(w, r)
}

// UpcomingMovies lists upcoming releases.
//
// @Summary Upcoming movies
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Success 200 {object} APIResponse{data=catalog.Page[catalog.Media]}
// @Router /movies/upcoming [get]
func (h *Handler) UpcomingMovies(w http.ResponseWriter, r *http.Request) {
	h.listHandler(h.catalog.UpcomingMovies)(w, r)
}

// MoviesByGenre discovers movies of one genre.
//
// @Summary Movies by genre
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Param genreId path int true "TMDB genre ID"
// @Param page query int false "Page" default(1)
// @Success 200 {object} APIResponse{data=catalog.Page[catalog.Media]}
// @Router /movies/genre/{genreId} [get]
func (h *Handler) MoviesByGenre(w http.ResponseWriter, r *http.Request) {
	genreID, ok := pathInt(r, "genreId")
	if !ok {
		NewResponseWriter(w, r).BadRequest("Invalid genre ID")
		return
	}
	h.listHandler(func(ctx context.Context, page int) (*catalog.Page[catalog.Media], error) {
		return h.catalog.DiscoverMovies(ctx, catalog.DiscoverParams{GenreID: genreID, Page: page})
	})(w, r)
}

// Genres returns the movie and TV genre lists.
//
// @Summary Genre lists
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse{data=GenresResponse}
// @Router /movies/genres [get]
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var movie, tv *catalog.GenreList
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		movie, err = h.catalog.MovieGenres(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tv, err = h.catalog.TVGenres(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		rw.Fail(err)
		return
	}

	rw.Success(GenresResponse{Movie: movie.Genres, TV: tv.Genres})
}

// MovieDetails returns a movie or TV show with credits, videos and
// recommendations.
//
// @Summary Title details
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Param id path int true "TMDB ID"
// @Param type query string false "movie or tv" default(movie)
// @Success 200 {object} APIResponse{data=map[string]catalog.Details}
// @Failure 404 {object} APIResponse
// @Router /movies/{id} [get]
func (h *Handler) MovieDetails(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, ok := pathInt(r, "id")
	if !ok {
		rw.BadRequest("Invalid movie ID")
		return
	}

	var (
		details *catalog.Details
		err     error
	)
	if r.URL.Query().Get("type") == catalog.MediaTV {
		details, err = h.catalog.TVDetails(r.Context(), id)
	} else {
		details, err = h.catalog.MovieDetails(r.Context(), id)
	}
	if err != nil {
		rw.Fail(err)
		return
	}

	rw.Success(map[string]interface{}{"movie": details})
}
