// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

// Package services adapts CineScope components to suture.Service.
//
// Components that already expose Serve(ctx) error (the notification hub,
// the report janitor, the caches and the login limiter) are added to the
// tree directly. This package covers the two lifecycles that need
// translating: the blocking ListenAndServe of *http.Server, and plain
// functions that must run on a fixed interval.
package services
