// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

/*
Package catalog is the read-through client for The Movie Database (TMDB) v3
API.

Every call carries the configured API key and language and is bounded by the
configured timeout. Responses are never cached and failed calls are never
retried. Non-2xx answers are normalized into three categories that callers
test with errors.Is:

  - ErrInvalidCredentials: upstream 401, or no API key configured (no
    network call is made)
  - ErrNotFound: upstream 404
  - ErrUnavailable: everything else, including transport errors; the
    upstream status is available through StatusCode

BreakerClient wraps Client with a sony/gobreaker circuit breaker so a
failing TMDB is answered immediately with ErrUnavailable instead of tying up
request goroutines until the timeout. Not-found and credential errors are
answers, not failures, and do not count toward tripping the breaker.
*/
package catalog
