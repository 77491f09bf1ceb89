// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

/*
Package models defines the persisted records of CineScope and their
partial-update types.

Records are stored as JSON documents, so their json tags are the storage
schema. Credentials never leave the server: Account carries the password
hash, and handlers render AccountProfile or AccountSummary instead.

Record types:

  - Account: credentials, profile fields, embedded watch history and ratings
  - Review: one account's review of one movie, with likes and comments
  - Blog: long-form post addressed by slug
  - WatchlistItem: one account's saved movie with a metadata snapshot
  - SharedWatchlist: collaborative list with role-based members
  - Friendship: pending or accepted edge between two accounts
  - Notification: event addressed to one account

Every mutable record has an Update type whose fields are pointers. Apply
copies the non-nil fields only:

	upd := models.ReviewUpdate{Rating: &five}
	upd.Apply(&review, time.Now())

Relationships are account ids. Views such as ReviewView embed the record
and add the resolved AccountSummary for display.
*/
package models
