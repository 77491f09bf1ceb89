// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package models

import (
	"strings"
	"time"
)

// Review is one account's review of one movie. The (UserID, MovieID) pair
// is unique.
type Review struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	MovieID     int       `json:"movieId"`
	MovieTitle  string    `json:"movieTitle"`
	MoviePoster string    `json:"moviePoster,omitempty"`
	Rating      int       `json:"rating"`
	Title       string    `json:"title,omitempty"`
	Content     string    `json:"content"`
	Likes       []string  `json:"likes"`
	Comments    []Comment `json:"comments"`
	IsPublic    bool      `json:"isPublic"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ReviewView is a Review with accounts resolved for display.
type ReviewView struct {
	Review
	User      *AccountSummary `json:"user,omitempty"`
	Comments  []CommentView   `json:"comments"`
	LikeCount int             `json:"likeCount"`
}

// ReviewUpdate is a partial review update.
type ReviewUpdate struct {
	Rating   *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Title    *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Content  *string `json:"content,omitempty" validate:"omitempty,notblank,max=5000"`
	IsPublic *bool   `json:"isPublic,omitempty"`
}

// Apply copies the non-nil fields of u onto r.
func (u *ReviewUpdate) Apply(r *Review, now time.Time) {
	if u.Rating != nil {
		r.Rating = *u.Rating
	}
	if u.Title != nil {
		r.Title = strings.TrimSpace(*u.Title)
	}
	if u.Content != nil {
		r.Content = *u.Content
	}
	if u.IsPublic != nil {
		r.IsPublic = *u.IsPublic
	}
	r.UpdatedAt = now
}
