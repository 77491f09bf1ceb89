// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package recommend

import (
	"sort"

	"github.com/tomtom215/cinescope/internal/models"
)

// ImplicitWatchlistRating is the rating assumed for a movie the account
// saved to its watchlist without rating it.
const ImplicitWatchlistRating = 4

// Signal sources.
const (
	SourceRating    = "rating"
	SourceWatchlist = "watchlist"
)

// Signal is one movie preference of an account.
type Signal struct {
	MovieID int    `json:"movieId"`
	Rating  int    `json:"rating"`
	Source  string `json:"source"`
}

// MergeSignals combines explicit ratings with implicit watchlist ratings.
// An explicit rating wins over the implicit one for the same movie. The
// result is ordered by movie id and never nil.
func MergeSignals(ratings []models.MovieRating, watchlist []models.WatchlistItem) []Signal {
	byMovie := make(map[int]Signal, len(ratings)+len(watchlist))
	for _, item := range watchlist {
		byMovie[item.MovieID] = Signal{MovieID: item.MovieID, Rating: ImplicitWatchlistRating, Source: SourceWatchlist}
	}
	for _, r := range ratings {
		byMovie[r.MovieID] = Signal{MovieID: r.MovieID, Rating: r.Rating, Source: SourceRating}
	}

	signals := make([]Signal, 0, len(byMovie))
	for _, s := range byMovie {
		signals = append(signals, s)
	}
	sort.Slice(signals, func(i, j int) bool { return signals[i].MovieID < signals[j].MovieID })
	return signals
}
