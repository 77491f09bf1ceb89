// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/tomtom215/cinescope/internal/models"
)

// HoursPerTitle is the watch time credited for every watched title.
const HoursPerTitle = 2.0

// weekdays orders the weekly chart Monday first.
var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// DayHours is the watch time credited to one weekday.
type DayHours struct {
	Day   string  `json:"day"`
	Hours float64 `json:"hours"`
}

// GenreCount is how often a genre appears across the watchlist.
type GenreCount struct {
	Name       string  `json:"name"`
	Value      int     `json:"value"`
	Percentage float64 `json:"percentage"`
}

// Summary is the analytics view of one account.
type Summary struct {
	MoviesWatched   int          `json:"moviesWatched"`
	TotalWatchTime  float64      `json:"totalWatchTime"`
	AverageRating   float64      `json:"averageRating"`
	ReviewsWritten  int          `json:"reviewsWritten"`
	WatchlistCount  int          `json:"watchlistCount"`
	WeeklyWatchTime []DayHours   `json:"weeklyWatchTime"`
	GenreFrequency  []GenreCount `json:"genreFrequency"`
	GeneratedAt     time.Time    `json:"generatedAt"`
}

// Aggregate folds an account's records into a Summary. Watches within the
// seven days before now are spread over the weekly chart by weekday.
func Aggregate(account *models.Account, reviewsWritten int, watchlist []models.WatchlistItem, now time.Time) *Summary {
	s := &Summary{
		MoviesWatched:  len(account.WatchHistory),
		TotalWatchTime: float64(len(account.WatchHistory)) * HoursPerTitle,
		AverageRating:  averageRating(account.Ratings),
		ReviewsWritten: reviewsWritten,
		WatchlistCount: len(watchlist),
		GeneratedAt:    now,
	}
	s.WeeklyWatchTime = weeklyWatchTime(account.WatchHistory, now)
	s.GenreFrequency = genreFrequency(watchlist)
	return s
}

// averageRating is the mean of ratings rounded to one decimal, 0 for none.
func averageRating(ratings []models.MovieRating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(ratings))*10) / 10
}

func weeklyWatchTime(history []models.WatchEntry, now time.Time) []DayHours {
	since := now.Add(-7 * 24 * time.Hour)
	hours := make(map[time.Weekday]float64, 7)
	for _, w := range history {
		if w.WatchedAt.Before(since) || w.WatchedAt.After(now) {
			continue
		}
		hours[w.WatchedAt.Weekday()] += HoursPerTitle
	}

	out := make([]DayHours, 0, len(weekdays))
	for _, d := range weekdays {
		out = append(out, DayHours{Day: d.String()[:3], Hours: hours[d]})
	}
	return out
}

// genreFrequency counts genres across watchlist snapshots, most frequent
// first and ties by name.
func genreFrequency(watchlist []models.WatchlistItem) []GenreCount {
	counts := make(map[string]int)
	total := 0
	for _, item := range watchlist {
		for _, g := range item.Genres {
			if g == "" {
				continue
			}
			counts[g]++
			total++
		}
	}

	out := make([]GenreCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, GenreCount{
			Name:       name,
			Value:      n,
			Percentage: math.Round(float64(n)/float64(total)*1000) / 10,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}
