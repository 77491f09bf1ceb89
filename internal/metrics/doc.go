// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

/*
Package metrics provides Prometheus metrics for CineScope.

Collectors are registered on the default registry through promauto and are
exported at /metrics in Prometheus text format:

	curl http://localhost:5000/metrics

# Available Metrics

API:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Document store:
  - store_operation_duration_seconds{operation, collection}
  - store_operation_errors_total{operation, collection, error_type}

Catalog (TMDB):
  - catalog_requests_total{endpoint, outcome}
  - catalog_request_duration_seconds{endpoint}
  - circuit_breaker_state{name}, circuit_breaker_requests_total{name, result}
  - circuit_breaker_state_transitions_total{name, from_state, to_state}

Authorization:
  - authz_decisions_total{resource, action, decision}
  - authz_cache_hits_total, authz_cache_misses_total

Social and reports:
  - notifications_published_total{type}
  - notification_stream_connections
  - analytics_cache_hits_total, analytics_cache_misses_total
  - reports_generated_total{result}, reports_removed_total{reason}
  - photo_uploads_total{result}
  - supervisor_service_restarts_total{service}
*/
package metrics
