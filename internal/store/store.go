// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

// Package store persists CineScope records as JSON documents.
//
// A Backend stores opaque document bodies together with two kinds of index
// entries supplied by the caller:
//
//   - unique keys ("email:a@b.c", "pair:x|y"), enforced in the same
//     transaction as the write so concurrent duplicates cannot both succeed
//   - reference keys ("user:<id>", "movie:550") used by Find
//
// Two backends exist: Badger (embedded, default) and MongoDB. Mutate runs a
// read-modify-write as one transaction on both; the function passed to it
// may run more than once when a concurrent writer wins and must not have
// side effects.
//
// Typed access goes through Collection[T] and the Store aggregate.
package store

import (
	"context"
	"errors"
)

// Sentinel errors returned by every backend.
var (
	ErrNotFound  = errors.New("store: document not found")
	ErrDuplicate = errors.New("store: unique key already exists")
	ErrConflict  = errors.New("store: concurrent modification, retries exhausted")
)

// Document is a record as seen by a backend.
type Document struct {
	ID     string
	Body   []byte
	Unique []string
	Refs   []string
}

// MutateFunc receives the current body and returns the replacement
// document. Returning an error aborts the transaction with that error.
type MutateFunc func(current []byte) (Document, error)

// Backend is the storage contract shared by the Badger and MongoDB
// implementations.
type Backend interface {
	// Insert stores a new document. ErrDuplicate if the id or any unique
	// key is taken.
	Insert(ctx context.Context, coll string, doc Document) error

	// Get returns the body stored under id.
	Get(ctx context.Context, coll, id string) ([]byte, error)

	// GetByUnique returns the body of the document owning a unique key.
	GetByUnique(ctx context.Context, coll, key string) ([]byte, error)

	// Find returns every body carrying ref, or the whole collection when
	// ref is empty. Order is unspecified.
	Find(ctx context.Context, coll, ref string) ([][]byte, error)

	// Mutate atomically replaces a document with the result of fn.
	Mutate(ctx context.Context, coll, id string, fn MutateFunc) error

	// Delete removes a document and its index entries.
	Delete(ctx context.Context, coll, id string) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend.
	Close() error
}

// maxMutateAttempts bounds optimistic retries in Mutate.
const maxMutateAttempts = 16

// Collection names.
const (
	CollAccounts         = "accounts"
	CollReviews          = "reviews"
	CollBlogs            = "blogs"
	CollWatchlist        = "watchlist"
	CollSharedWatchlists = "shared_watchlists"
	CollFriendships      = "friendships"
	CollNotifications    = "notifications"
)

// Collections lists every collection the application uses.
var Collections = []string{
	CollAccounts,
	CollReviews,
	CollBlogs,
	CollWatchlist,
	CollSharedWatchlists,
	CollFriendships,
	CollNotifications,
}

func diff(old, updated []string) (removed, added []string) {
	oldSet := make(map[string]struct{}, len(old))
	for _, k := range old {
		oldSet[k] = struct{}{}
	}
	newSet := make(map[string]struct{}, len(updated))
	for _, k := range updated {
		newSet[k] = struct{}{}
		if _, ok := oldSet[k]; !ok {
			added = append(added, k)
		}
	}
	for _, k := range old {
		if _, ok := newSet[k]; !ok {
			removed = append(removed, k)
		}
	}
	return removed, added
}
