// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

// Request bodies with go-playground/validator tags. Field names in
// validation errors are the JSON names.
//
// Partial updates reuse the models.*Update types, whose pointer fields
// distinguish "absent" from "zero".
package api

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required,notblank,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Username string `json:"username,omitempty" validate:"omitempty,min=3,max=30,alphanum"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest is the body of POST /api/auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// WatchHistoryRequest is the body of POST /api/users/watch-history.
// Progress defaults to 100 when absent.
type WatchHistoryRequest struct {
	MovieID    int    `json:"movieId" validate:"required,gt=0"`
	MovieTitle string `json:"movieTitle" validate:"required,notblank,max=300"`
	Progress   *int   `json:"progress,omitempty" validate:"omitempty,min=0,max=100"`
}

// RatingRequest is the body of POST /api/users/rating.
type RatingRequest struct {
	MovieID int `json:"movieId" validate:"required,gt=0"`
	Rating  int `json:"rating" validate:"required,min=1,max=5"`
}

// WatchlistAddRequest is the body of POST /api/watchlist.
type WatchlistAddRequest struct {
	MovieID    int    `json:"movieId" validate:"required,gt=0"`
	MovieTitle string `json:"movieTitle" validate:"required,notblank,max=300"`
	Priority   string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Notes      string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// ReviewCreateRequest is the body of POST /api/reviews. IsPublic defaults
// to true.
type ReviewCreateRequest struct {
	MovieID     int    `json:"movieId" validate:"required,gt=0"`
	MovieTitle  string `json:"movieTitle" validate:"required,notblank,max=300"`
	MoviePoster string `json:"moviePoster,omitempty" validate:"omitempty,max=2048"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Title       string `json:"title,omitempty" validate:"omitempty,max=200"`
	Content     string `json:"content" validate:"required,notblank,max=5000"`
	IsPublic    *bool  `json:"isPublic,omitempty"`
}

// CommentRequest is the body of the review and blog comment endpoints.
type CommentRequest struct {
	Content string `json:"content" validate:"required,notblank,max=1000"`
}

// BlogCreateRequest is the body of POST /api/blogs. Category defaults to
// Other and IsPublished to true.
type BlogCreateRequest struct {
	Title       string   `json:"title" validate:"required,notblank,max=200"`
	Content     string   `json:"content" validate:"required,notblank"`
	Excerpt     string   `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	CoverImage  string   `json:"coverImage,omitempty" validate:"omitempty,max=2048"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
	Category    string   `json:"category,omitempty" validate:"omitempty,oneof=Reviews Trends News Analysis Interviews Other"`
	IsPublished *bool    `json:"isPublished,omitempty"`
}

// FriendRequestRequest is the body of POST /api/social/friends/request.
type FriendRequestRequest struct {
	UserID string `json:"userId" validate:"required,notblank"`
}

// SharedWatchlistCreateRequest is the body of POST /api/social/watchlist/share.
// Members become viewers.
type SharedWatchlistCreateRequest struct {
	Name        string   `json:"name" validate:"required,notblank,max=100"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=1000"`
	Members     []string `json:"members,omitempty" validate:"omitempty,max=50,dive,required"`
	IsPublic    bool     `json:"isPublic,omitempty"`
}

// MemberRequest is the body of POST /api/social/watchlist/shared/{id}/members.
type MemberRequest struct {
	UserID string `json:"userId" validate:"required,notblank"`
	Role   string `json:"role,omitempty" validate:"omitempty,oneof=editor viewer"`
}

// SharedMovieRequest is the body of POST /api/social/watchlist/shared/{id}/movies.
type SharedMovieRequest struct {
	MovieID    int    `json:"movieId" validate:"required,gt=0"`
	MovieTitle string `json:"movieTitle" validate:"required,notblank,max=300"`
}
