// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package recommend

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinescope/internal/catalog"
	"github.com/tomtom215/cinescope/internal/logging"
)

// Reason labels every recommendation.
const Reason = "AI Recommendation"

// DefaultLimit is how many recommendations are returned.
const DefaultLimit = 10

// detailConcurrency bounds parallel detail lookups against the catalog.
const detailConcurrency = 5

// FallbackMovieIDs are resolved when the popular list is unavailable.
var FallbackMovieIDs = []int{550, 238, 240, 424, 497, 680, 13, 769, 155, 429}

// Result sources.
const (
	SourcePopular  = "popular"
	SourceFallback = "fallback"
)

// Recommendation is a resolved movie with the reason it was picked.
type Recommendation struct {
	*catalog.Details
	Reason string `json:"reason"`
}

// Result is a set of recommendations and the signals they were built for.
type Result struct {
	Recommendations []Recommendation `json:"recommendations"`
	Signals         []Signal         `json:"signals"`
	Source          string           `json:"source"`
}

// Service builds recommendations from the catalog.
type Service struct {
	catalog catalog.Catalog
	limit   int
}

// NewService creates a Service returning DefaultLimit recommendations.
func NewService(c catalog.Catalog) *Service {
	return &Service{catalog: c, limit: DefaultLimit}
}

// ForAccount returns recommendations annotated with signals. A catalog
// failure on the popular list switches to FallbackMovieIDs; it is not an
// error. Only context cancellation is returned as one.
func (s *Service) ForAccount(ctx context.Context, signals []Signal) (*Result, error) {
	if signals == nil {
		signals = []Signal{}
	}

	source := SourcePopular
	ids, err := s.popularIDs(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logging.Ctx(ctx).Warn().Err(err).Msg("Popular movies unavailable, using fallback recommendations")
		source = SourceFallback
		ids = FallbackMovieIDs
	}
	if len(ids) > s.limit {
		ids = ids[:s.limit]
	}

	recs, err := s.resolve(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &Result{Recommendations: recs, Signals: signals, Source: source}, nil
}

func (s *Service) popularIDs(ctx context.Context) ([]int, error) {
	page, err := s.catalog.PopularMovies(ctx, 1)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(page.Results))
	for _, m := range page.Results {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// resolve looks up details for ids concurrently, preserving order and
// dropping ids whose lookup failed.
func (s *Service) resolve(ctx context.Context, ids []int) ([]Recommendation, error) {
	details := make([]*catalog.Details, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			d, err := s.catalog.MovieDetails(gctx, id)
			if err != nil {
				if errors.Is(err, context.Canceled) && ctx.Err() != nil {
					return ctx.Err()
				}
				logging.Ctx(ctx).Debug().Err(err).Int("movie_id", id).Msg("Dropping recommendation")
				return nil
			}
			details[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(ids))
	for _, d := range details {
		if d != nil {
			recs = append(recs, Recommendation{Details: d, Reason: Reason})
		}
	}
	return recs, nil
}

// ContentBased resolves the seed movie and returns no recommendations. The
// seed lookup makes an unknown id a catalog.ErrNotFound.
func (s *Service) ContentBased(ctx context.Context, movieID int) ([]Recommendation, error) {
	if _, err := s.catalog.MovieDetails(ctx, movieID); err != nil {
		return nil, err
	}
	return []Recommendation{}, nil
}

// MoodGenres returns the requested genres, or favorites when none were
// requested. The result is never nil.
func MoodGenres(requested, favorites []string) []string {
	out := make([]string, 0, len(requested))
	for _, g := range requested {
		if g != "" {
			out = append(out, g)
		}
	}
	if len(out) == 0 {
		out = append(out, favorites...)
	}
	return out
}
