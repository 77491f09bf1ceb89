// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package models

import (
	"strings"
	"time"
)

// Shared watchlist member roles, strongest first.
const (
	RoleOwner  = "owner"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// Member is an account's membership in a shared watchlist.
type Member struct {
	UserID  string    `json:"userId"`
	Role    string    `json:"role"`
	AddedAt time.Time `json:"addedAt"`
}

// SharedMovie is a movie on a shared watchlist.
type SharedMovie struct {
	MovieID    int    `json:"movieId"`
	MovieTitle string `json:"movieTitle"`
	MovieSnapshot
	AddedBy string    `json:"addedBy"`
	AddedAt time.Time `json:"addedAt"`
}

// SharedWatchlist is a collaborative list.
type SharedWatchlist struct {
	ID          string        `json:"id"`
	OwnerID     string        `json:"ownerId"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Members     []Member      `json:"members"`
	Movies      []SharedMovie `json:"movies"`
	IsPublic    bool          `json:"isPublic"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// RoleOf returns the member role of accountID, or "" for non-members.
func (s *SharedWatchlist) RoleOf(accountID string) string {
	if accountID == s.OwnerID {
		return RoleOwner
	}
	for _, m := range s.Members {
		if m.UserID == accountID {
			return m.Role
		}
	}
	return ""
}

// HasMovie reports whether movieID is already on the list.
func (s *SharedWatchlist) HasMovie(movieID int) bool {
	for _, m := range s.Movies {
		if m.MovieID == movieID {
			return true
		}
	}
	return false
}

// RemoveMovie drops movieID and reports whether it was present.
func (s *SharedWatchlist) RemoveMovie(movieID int) bool {
	for i, m := range s.Movies {
		if m.MovieID == movieID {
			s.Movies = append(s.Movies[:i:i], s.Movies[i+1:]...)
			return true
		}
	}
	return false
}

// SetMember adds accountID with role, or changes the role of an existing
// member. The owner's role cannot be changed.
func (s *SharedWatchlist) SetMember(accountID, role string, now time.Time) {
	for i := range s.Members {
		if s.Members[i].UserID == accountID {
			if s.Members[i].Role != RoleOwner {
				s.Members[i].Role = role
			}
			return
		}
	}
	s.Members = append(s.Members, Member{UserID: accountID, Role: role, AddedAt: now})
}

// RemoveMember drops accountID and reports whether it was a member.
func (s *SharedWatchlist) RemoveMember(accountID string) bool {
	for i, m := range s.Members {
		if m.UserID == accountID {
			s.Members = append(s.Members[:i:i], s.Members[i+1:]...)
			return true
		}
	}
	return false
}

// MemberIDs returns the ids of every member, owner included.
func (s *SharedWatchlist) MemberIDs() []string {
	ids := make([]string, 0, len(s.Members))
	for _, m := range s.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

// MemberView is a Member with the account resolved.
type MemberView struct {
	Member
	User *AccountSummary `json:"user,omitempty"`
}

// SharedMovieView is a SharedMovie with the adding account resolved.
type SharedMovieView struct {
	SharedMovie
	AddedByUser *AccountSummary `json:"addedByUser,omitempty"`
}

// SharedWatchlistView adds resolved accounts and the derived movie count.
type SharedWatchlistView struct {
	SharedWatchlist
	Owner      *AccountSummary   `json:"owner,omitempty"`
	Members    []MemberView      `json:"members"`
	Movies     []SharedMovieView `json:"movies"`
	MovieCount int               `json:"movieCount"`
}

// SharedWatchlistUpdate is a partial shared watchlist update.
type SharedWatchlistUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	IsPublic    *bool   `json:"isPublic,omitempty"`
}

// Apply copies the non-nil fields of u onto s.
func (u *SharedWatchlistUpdate) Apply(s *SharedWatchlist, now time.Time) {
	if u.Name != nil {
		s.Name = strings.TrimSpace(*u.Name)
	}
	if u.Description != nil {
		s.Description = *u.Description
	}
	if u.IsPublic != nil {
		s.IsPublic = *u.IsPublic
	}
	s.UpdatedAt = now
}
