// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package models

import "time"

// Watchlist priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// WatchlistItem is a movie saved by one account. The (UserID, MovieID)
// pair is unique.
type WatchlistItem struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	MovieID    int    `json:"movieId"`
	MovieTitle string `json:"movieTitle"`
	MovieSnapshot
	Priority  string    `json:"priority"`
	Notes     string    `json:"notes,omitempty"`
	AddedAt   time.Time `json:"addedAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WatchlistItemUpdate is a partial watchlist item update.
type WatchlistItemUpdate struct {
	Priority *string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// Apply copies the non-nil fields of u onto w.
func (u *WatchlistItemUpdate) Apply(w *WatchlistItem, now time.Time) {
	if u.Priority != nil {
		w.Priority = *u.Priority
	}
	if u.Notes != nil {
		w.Notes = *u.Notes
	}
	w.UpdatedAt = now
}
