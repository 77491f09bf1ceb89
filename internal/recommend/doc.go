// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

// Package recommend produces movie recommendations.
//
// There is no trained model behind it. Recommendations are the first ten
// currently popular catalog movies, each resolved to full details and
// labelled with a constant reason. When the popular list cannot be fetched
// a fixed list of well-known titles is resolved instead. Detail lookups run
// concurrently and individual failures are dropped.
//
// The account's taste signals (explicit ratings merged with an implied
// rating for every watchlist entry) are computed by MergeSignals and
// reported alongside the results. They do not influence ranking yet.
package recommend
