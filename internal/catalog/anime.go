// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinescope/internal/logging"
)

// AnimeLimit caps the combined anime list.
const AnimeLimit = 20

// PopularAnime merges the most popular animated movies and TV shows into a
// single page of at most AnimeLimit titles, movies first, each tagged with
// its media type. TotalResults counts the merged list before the cap. If
// either discover call fails the popular movies page is returned instead.
func PopularAnime(ctx context.Context, c Catalog, page int) (*Page[Media], error) {
	params := DiscoverParams{GenreID: AnimationGenreID, SortBy: "popularity.desc", Page: page}

	var movies, tv *Page[Media]
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		movies, err = c.DiscoverMovies(gctx, params)
		return err
	})
	g.Go(func() error {
		var err error
		tv, err = c.DiscoverTV(gctx, params)
		return err
	})
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logging.Ctx(ctx).Warn().Err(err).Msg("Anime discover failed, falling back to popular movies")
		return c.PopularMovies(ctx, page)
	}

	combined := make([]Media, 0, len(movies.Results)+len(tv.Results))
	for _, m := range movies.Results {
		m.MediaType = MediaMovie
		combined = append(combined, m)
	}
	for _, t := range tv.Results {
		t.MediaType = MediaTV
		combined = append(combined, t)
	}

	total := len(combined)
	if len(combined) > AnimeLimit {
		combined = combined[:AnimeLimit]
	}
	return &Page[Media]{Page: 1, Results: combined, TotalPages: 1, TotalResults: total}, nil
}
