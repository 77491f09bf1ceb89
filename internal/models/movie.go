// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package models

import "time"

// MovieSnapshot is catalog metadata copied onto a record when a movie is
// saved, so lists render without calling the catalog again.
type MovieSnapshot struct {
	MoviePoster      string   `json:"moviePoster,omitempty"`
	MovieBackdrop    string   `json:"movieBackdrop,omitempty"`
	MovieOverview    string   `json:"movieOverview,omitempty"`
	MovieReleaseDate string   `json:"movieReleaseDate,omitempty"`
	MovieRating      float64  `json:"movieRating,omitempty"`
	Genres           []string `json:"genres,omitempty"`
}

// Comment is an entry in a review or blog comment thread.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentView is a Comment with its author resolved.
type CommentView struct {
	Comment
	User *AccountSummary `json:"user,omitempty"`
}

// ToggleMember adds id to list if absent and removes it otherwise. It
// reports whether id is present afterwards.
func ToggleMember(list []string, id string) ([]string, bool) {
	for i, v := range list {
		if v == id {
			return append(list[:i:i], list[i+1:]...), false
		}
	}
	return append(list, id), true
}

// Contains reports whether list holds id.
func Contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
