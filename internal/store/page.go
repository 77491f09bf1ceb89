// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package store

import (
	"sort"
	"time"
)

// SortNewestFirst orders items by the timestamp returned by at, newest
// first. Ties keep id order so pages are stable.
func SortNewestFirst[T any](items []T, at func(*T) time.Time, id func(*T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, tj := at(&items[i]), at(&items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return id(&items[i]) < id(&items[j])
	})
}

// Paginate returns the window [offset, offset+limit) of items. Out of range
// windows yield an empty, non-nil slice.
func Paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) || limit <= 0 {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
