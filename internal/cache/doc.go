// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

// Package cache provides a thread-safe in-memory cache with per-entry
// expiration.
//
// Usage:
//
//	c := cache.New[string, *Summary](time.Minute)
//	c.Set(accountID, summary)
//	if s, ok := c.Get(accountID); ok {
//	    // Use cached value
//	}
//
// Expired entries are never returned. They are removed lazily on Get and
// in bulk by Serve, which is meant to run under a supervisor.
package cache
