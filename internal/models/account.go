// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package models

import (
	"strings"
	"time"
)

// Profile visibility levels.
const (
	VisibilityPublic  = "public"
	VisibilityFriends = "friends"
	VisibilityPrivate = "private"
)

// WatchEntry records that an account watched a movie.
type WatchEntry struct {
	MovieID    int       `json:"movieId"`
	MovieTitle string    `json:"movieTitle"`
	WatchedAt  time.Time `json:"watchedAt"`
	Progress   int       `json:"progress"`
}

// MovieRating is an account's explicit 1..5 rating of a movie.
type MovieRating struct {
	MovieID   int       `json:"movieId"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

// Privacy controls what other accounts can see.
type Privacy struct {
	ProfileVisibility string `json:"profileVisibility"`
	ShowWatchHistory  bool   `json:"showWatchHistory"`
	ShowRatings       bool   `json:"showRatings"`
}

// DefaultPrivacy is applied to new accounts.
func DefaultPrivacy() Privacy {
	return Privacy{ProfileVisibility: VisibilityPublic, ShowWatchHistory: true, ShowRatings: true}
}

// Account is a registered user. Accounts are never hard-deleted.
type Account struct {
	ID               string        `json:"id"`
	FullName         string        `json:"fullName"`
	Email            string        `json:"email"`
	PasswordHash     string        `json:"passwordHash"`
	Username         string        `json:"username"`
	Bio              string        `json:"bio,omitempty"`
	Photo            string        `json:"photo"`
	FavoriteGenres   []string      `json:"favoriteGenres"`
	WatchHistory     []WatchEntry  `json:"watchHistory"`
	Ratings          []MovieRating `json:"ratings"`
	Privacy          Privacy       `json:"privacy"`
	IsPremium        bool          `json:"isPremium"`
	PremiumExpiresAt *time.Time    `json:"premiumExpiresAt,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// NormalizeEmail lowercases and trims an e-mail address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AccountSummary is the public identity shown next to content.
type AccountSummary struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Photo    string `json:"photo"`
}

// Summary returns the display identity of a.
func (a *Account) Summary() AccountSummary {
	return AccountSummary{ID: a.ID, FullName: a.FullName, Username: a.Username, Photo: a.Photo}
}

// AccountProfile is an Account without credentials.
type AccountProfile struct {
	ID               string        `json:"id"`
	FullName         string        `json:"fullName"`
	Email            string        `json:"email,omitempty"`
	Username         string        `json:"username"`
	Bio              string        `json:"bio,omitempty"`
	Photo            string        `json:"photo"`
	FavoriteGenres   []string      `json:"favoriteGenres"`
	WatchHistory     []WatchEntry  `json:"watchHistory,omitempty"`
	Ratings          []MovieRating `json:"ratings,omitempty"`
	Privacy          Privacy       `json:"privacy"`
	IsPremium        bool          `json:"isPremium"`
	PremiumExpiresAt *time.Time    `json:"premiumExpiresAt,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// Profile returns the full credential-free view, as seen by the owner.
func (a *Account) Profile() AccountProfile {
	return AccountProfile{
		ID:               a.ID,
		FullName:         a.FullName,
		Email:            a.Email,
		Username:         a.Username,
		Bio:              a.Bio,
		Photo:            a.Photo,
		FavoriteGenres:   nonNilStrings(a.FavoriteGenres),
		WatchHistory:     a.WatchHistory,
		Ratings:          a.Ratings,
		Privacy:          a.Privacy,
		IsPremium:        a.IsPremium,
		PremiumExpiresAt: a.PremiumExpiresAt,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

// PublicProfile is the view another account gets. The e-mail address is
// withheld and the privacy flags decide whether history and ratings show.
func (a *Account) PublicProfile() AccountProfile {
	p := a.Profile()
	p.Email = ""
	if !a.Privacy.ShowWatchHistory {
		p.WatchHistory = nil
	}
	if !a.Privacy.ShowRatings {
		p.Ratings = nil
	}
	return p
}

// UpsertWatchEntry records a viewing. An existing entry for the same movie
// gets the new progress and timestamp; otherwise one is appended.
func (a *Account) UpsertWatchEntry(movieID int, title string, progress int, now time.Time) {
	for i := range a.WatchHistory {
		if a.WatchHistory[i].MovieID == movieID {
			a.WatchHistory[i].Progress = progress
			a.WatchHistory[i].WatchedAt = now
			return
		}
	}
	a.WatchHistory = append(a.WatchHistory, WatchEntry{
		MovieID:    movieID,
		MovieTitle: title,
		WatchedAt:  now,
		Progress:   progress,
	})
}

// UpsertRating sets the account's rating for a movie.
func (a *Account) UpsertRating(movieID, rating int, now time.Time) {
	for i := range a.Ratings {
		if a.Ratings[i].MovieID == movieID {
			a.Ratings[i].Rating = rating
			a.Ratings[i].CreatedAt = now
			return
		}
	}
	a.Ratings = append(a.Ratings, MovieRating{MovieID: movieID, Rating: rating, CreatedAt: now})
}

// PrivacyUpdate is the partial form of Privacy.
type PrivacyUpdate struct {
	ProfileVisibility *string `json:"profileVisibility,omitempty" validate:"omitempty,oneof=public friends private"`
	ShowWatchHistory  *bool   `json:"showWatchHistory,omitempty"`
	ShowRatings       *bool   `json:"showRatings,omitempty"`
}

// AccountUpdate is a partial profile update.
type AccountUpdate struct {
	FullName       *string        `json:"fullName,omitempty" validate:"omitempty,notblank,max=100"`
	Email          *string        `json:"email,omitempty" validate:"omitempty,email"`
	Bio            *string        `json:"bio,omitempty" validate:"omitempty,max=500"`
	FavoriteGenres *[]string      `json:"favoriteGenres,omitempty" validate:"omitempty,max=30,dive,max=50"`
	Privacy        *PrivacyUpdate `json:"privacy,omitempty"`
}

// Apply copies the non-nil fields of u onto a.
func (u *AccountUpdate) Apply(a *Account, now time.Time) {
	if u.FullName != nil {
		a.FullName = strings.TrimSpace(*u.FullName)
	}
	if u.Email != nil {
		a.Email = NormalizeEmail(*u.Email)
	}
	if u.Bio != nil {
		a.Bio = *u.Bio
	}
	if u.FavoriteGenres != nil {
		a.FavoriteGenres = append([]string(nil), (*u.FavoriteGenres)...)
	}
	if p := u.Privacy; p != nil {
		if p.ProfileVisibility != nil {
			a.Privacy.ProfileVisibility = *p.ProfileVisibility
		}
		if p.ShowWatchHistory != nil {
			a.Privacy.ShowWatchHistory = *p.ShowWatchHistory
		}
		if p.ShowRatings != nil {
			a.Privacy.ShowRatings = *p.ShowRatings
		}
	}
	a.UpdatedAt = now
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
