// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinescope/internal/config"
	"github.com/tomtom215/cinescope/internal/metrics"
)

// Catalog is the set of TMDB operations CineScope uses. Both Client and
// BreakerClient implement it.
type Catalog interface {
	SearchMovies(ctx context.Context, query string, page int) (*Page[Media], error)
	SearchTV(ctx context.Context, query string, page int) (*Page[Media], error)
	SearchPeople(ctx context.Context, query string, page int) (*Page[Person], error)
	MovieDetails(ctx context.Context, id int) (*Details, error)
	TVDetails(ctx context.Context, id int) (*Details, error)
	PopularMovies(ctx context.Context, page int) (*Page[Media], error)
	TopRatedMovies(ctx context.Context, page int) (*Page[Media], error)
	UpcomingMovies(ctx context.Context, page int) (*Page[Media], error)
	PopularTV(ctx context.Context, page int) (*Page[Media], error)
	DiscoverMovies(ctx context.Context, p DiscoverParams) (*Page[Media], error)
	DiscoverTV(ctx context.Context, p DiscoverParams) (*Page[Media], error)
	MovieGenres(ctx context.Context) (*GenreList, error)
	TVGenres(ctx context.Context) (*GenreList, error)
}

var _ Catalog = (*Client)(nil)

// maxErrorBody bounds how much of an error response is read for logging.
const maxErrorBody = 4 << 10

// Client calls the TMDB v3 REST API.
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a TMDB client from cfg.
func NewClient(cfg *config.CatalogConfig) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		language:   cfg.Language,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
	}
}

// get performs GET path with params and decodes the JSON body into out.
// endpoint is the low-cardinality metrics label for path.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordCatalogRequest(endpoint, outcome(err), time.Since(start))
	}()

	if c.apiKey == "" {
		return &UpstreamError{Endpoint: endpoint, Kind: ErrInvalidCredentials}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return &UpstreamError{Endpoint: endpoint, Kind: ErrUnavailable, Cause: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Endpoint: endpoint, Kind: ErrUnavailable, Cause: redactKey(err, c.apiKey)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &UpstreamError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Kind:     kindForStatus(resp.StatusCode),
			Cause:    upstreamMessage(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UpstreamError{Endpoint: endpoint, Status: resp.StatusCode, Kind: ErrUnavailable, Cause: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrInvalidCredentials
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrUnavailable
	}
}

// upstreamMessage extracts TMDB's status_message from an error body.
func upstreamMessage(body []byte) error {
	var payload struct {
		StatusMessage string `json:"status_message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.StatusMessage != "" {
		return errors.New(payload.StatusMessage)
	}
	return nil
}

// redactKey strips the API key from transport errors, which embed the URL.
// The original error stays reachable through errors.Is and errors.As.
func redactKey(err error, key string) error {
	msg := err.Error()
	if key == "" || !strings.Contains(msg, key) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(msg, key, "REDACTED"), cause: err}
}

type redactedError struct {
	msg   string
	cause error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.cause }

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidCredentials):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "unavailable"
	}
}

func pageParams(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}

func searchParams(query string, page int) url.Values {
	v := pageParams(page)
	v.Set("query", query)
	v.Set("include_adult", "false")
	return v
}

func (c *Client) listPage(ctx context.Context, endpoint, path string, params url.Values) (*Page[Media], error) {
	var out Page[Media]
	if err := c.get(ctx, endpoint, path, params, &out); err != nil {
		return nil, err
	}
	if out.Results == nil {
		out.Results = []Media{}
	}
	return &out, nil
}

// SearchMovies searches movies by title.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*Page[Media], error) {
	return c.listPage(ctx, "search_movie", "/search/movie", searchParams(query, page))
}

// SearchTV searches TV shows by name.
func (c *Client) SearchTV(ctx context.Context, query string, page int) (*Page[Media], error) {
	return c.listPage(ctx, "search_tv", "/search/tv", searchParams(query, page))
}

// SearchPeople searches cast and crew.
func (c *Client) SearchPeople(ctx context.Context, query string, page int) (*Page[Person], error) {
	var out Page[Person]
	if err := c.get(ctx, "search_person", "/search/person", searchParams(query, page), &out); err != nil {
		return nil, err
	}
	if out.Results == nil {
		out.Results = []Person{}
	}
	return &out, nil
}

func (c *Client) details(ctx context.Context, endpoint, kind string, id int) (*Details, error) {
	params := url.Values{"append_to_response": {"credits,videos,recommendations"}}
	var out Details
	if err := c.get(ctx, endpoint, "/"+kind+"/"+strconv.Itoa(id), params, &out); err != nil {
		return nil, err
	}
	out.MediaType = kind
	return &out, nil
}

// MovieDetails returns a movie with credits, videos and recommendations.
func (c *Client) MovieDetails(ctx context.Context, id int) (*Details, error) {
	return c.details(ctx, "movie_details", MediaMovie, id)
}

// TVDetails returns a TV show with credits, videos and recommendations.
func (c *Client) TVDetails(ctx context.Context, id int) (*Details, error) {
	return c.details(ctx, "tv_details", MediaTV, id)
}

func (c *Client) PopularMovies(ctx context.Context, page int) (*Page[Media], error) {
	return c.listPage(ctx, "movie_popular", "/movie/popular", pageParams(page))
}

func (c *Client) TopRatedMovies(ctx context.Context, page int) (*Page[Media], error) {
	return c.listPage(ctx, "movie_top_rated", "/movie/top_rated", pageParams(page))
}

func (c *Client) UpcomingMovies(ctx context.Context, page int) (*Page[Media], error) {
	return c.listPage(ctx, "movie_upcoming", "/movie/upcoming", pageParams(page))
}

func (c *Client) PopularTV(ctx context.Context, page int) (*Page[Media], error) {
	return c.listPage(ctx, "tv_popular", "/tv/popular", pageParams(page))
}

func discoverParams(p DiscoverParams) url.Values {
	v := pageParams(p.Page)
	if p.GenreID > 0 {
		v.Set("with_genres", strconv.Itoa(p.GenreID))
	}
	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = "popularity.desc"
	}
	v.Set("sort_by", sortBy)
	return v
}

// DiscoverMovies browses movies by genre.
func (c *Client) DiscoverMovies(ctx context.Context, p DiscoverParams) (*Page[Media], error) {
	return c.listPage(ctx, "discover_movie", "/discover/movie", discoverParams(p))
}

// DiscoverTV browses TV shows by genre.
func (c *Client) DiscoverTV(ctx context.Context, p DiscoverParams) (*Page[Media], error) {
	return c.listPage(ctx, "discover_tv", "/discover/tv", discoverParams(p))
}

func (c *Client) genres(ctx context.Context, endpoint, path string) (*GenreList, error) {
	var out GenreList
	if err := c.get(ctx, endpoint, path, nil, &out); err != nil {
		return nil, err
	}
	if out.Genres == nil {
		out.Genres = []Genre{}
	}
	return &out, nil
}

func (c *Client) MovieGenres(ctx context.Context) (*GenreList, error) {
	return c.genres(ctx, "genre_movie", "/genre/movie/list")
}

func (c *Client) TVGenres(ctx context.Context) (*GenreList, error) {
	return c.genres(ctx, "genre_tv", "/genre/tv/list")
}
