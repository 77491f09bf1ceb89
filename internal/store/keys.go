// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package store

import (
	"strconv"
	"strings"
)

// PublicRef tags records visible to every account.
const PublicRef = "public"

// PublishedRef tags published blog posts.
const PublishedRef = "published"

func EmailKey(email string) string { return "email:" + strings.ToLower(email) }

func UsernameKey(username string) string { return "username:" + strings.ToLower(username) }

func SlugKey(slug string) string { return "slug:" + slug }

// UserMovieKey is unique per account and movie.
func UserMovieKey(userID string, movieID int) string {
	return "user_movie:" + userID + "|" + strconv.Itoa(movieID)
}

// PairKey identifies an unordered pair of accounts: PairKey(a, b) equals
// PairKey(b, a).
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return "pair:" + a + "|" + b
}

func UserRef(userID string) string { return "user:" + userID }

func MovieRef(movieID int) string { return "movie:" + strconv.Itoa(movieID) }

func MemberRef(userID string) string { return "member:" + userID }

func AuthorRef(userID string) string { return "author:" + userID }
