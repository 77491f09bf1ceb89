// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package metrics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordStoreOperation(t *testing.T) {
	t.Parallel()

	RecordStoreOperation("get", "test_ok", time.Millisecond, nil, false)
	RecordStoreOperation("get", "test_missing", time.Millisecond, errors.New("store: document not found"), true)
	RecordStoreOperation("insert", "test_failed", time.Millisecond, context.DeadlineExceeded, false)

	if got := testutil.CollectAndCount(StoreOperationDuration, "store_operation_duration_seconds"); got < 3 {
		t.Errorf("duration series = %d, want at least 3", got)
	}
	if got := testutil.ToFloat64(StoreOperationErrors.WithLabelValues("get", "test_missing", "store: document not found")); got != 0 {
		t.Errorf("not-found counted as error: %v", got)
	}
	if got := testutil.ToFloat64(StoreOperationErrors.WithLabelValues("insert", "test_failed", "timeout")); got != 1 {
		t.Errorf("timeout errors = %v, want 1", got)
	}
}

func TestRecordCatalogRequest(t *testing.T) {
	t.Parallel()

	RecordCatalogRequest("test_endpoint", "ok", 10*time.Millisecond)
	RecordCatalogRequest("test_endpoint", "ok", 20*time.Millisecond)
	RecordCatalogRequest("test_endpoint", "not_found", 5*time.Millisecond)

	if got := testutil.ToFloat64(CatalogRequestsTotal.WithLabelValues("test_endpoint", "ok")); got != 2 {
		t.Errorf("ok requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(CatalogRequestsTotal.WithLabelValues("test_endpoint", "not_found")); got != 1 {
		t.Errorf("not_found requests = %v, want 1", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	t.Parallel()

	RecordAPIRequest("GET", "/api/test-metrics", "200", time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/test-metrics", "200")); got != 1 {
		t.Errorf("api requests = %v, want 1", got)
	}
}

func TestErrorType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"canceled", context.Canceled, "canceled"},
		{"wrapped deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), "timeout"},
		{"short", errors.New("boom"), "boom"},
		{"long", errors.New(strings.Repeat("x", 80)), strings.Repeat("x", 50)},
	}
	for _, tt := range tests {
		if got := errorType(tt.err); got != tt.want {
			t.Errorf("%s: errorType() = %q, want %q", tt.name, got, tt.want)
		}
	}
}
