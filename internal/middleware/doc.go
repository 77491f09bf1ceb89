// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

/*
Package middleware provides the infrastructure middleware shared by every
route: request IDs, access logging and Prometheus instrumentation.

All middleware has the chi signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)

Request IDs:

RequestID accepts a well-formed X-Request-ID from an upstream proxy or
generates a UUID. The ID is echoed in the response header and stored in the
logging context, so every log line written through logging.Ctx carries it.

Metrics:

PrometheusMetrics labels requests with the chi route pattern (for example
/api/reviews/{id}) rather than the raw path, keeping label cardinality
bounded. Requests that match no route are recorded as "unmatched".

Authentication and the response envelope live in internal/auth and
internal/api.
*/
package middleware
