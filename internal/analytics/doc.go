// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

// Package analytics computes per-account viewing statistics and renders
// them as a downloadable PDF.
//
// Summaries are a fold over the account's watch history, ratings, reviews
// and watchlist. Every watched title counts as two hours. Computed
// summaries are cached per account for a short TTL and invalidated when the
// account records a viewing or rating, writes a review or edits its
// watchlist.
//
// PDF reports are written to a scratch directory, streamed to the client
// and removed after a short delay. A janitor removes files older than the
// configured maximum age, which covers reports orphaned by a restart.
package analytics
