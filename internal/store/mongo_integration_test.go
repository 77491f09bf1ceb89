// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

//go:build integration

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/cinescope/internal/models"
	"github.com/tomtom215/cinescope/internal/testinfra"
)

var contractCollections = []string{
	"contract_get",
	"contract_dup_id",
	"contract_unique",
	"contract_find",
	"contract_mutate",
	"contract_abort",
	"contract_counter",
	"contract_delete",
}

func newTestMongo(t *testing.T) *MongoBackend {
	t.Helper()
	container := testinfra.StartMongo(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	b, err := OpenMongo(ctx, MongoConfig{URI: container.URI, Database: testinfra.DatabaseName(t), Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("OpenMongo() error = %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	if err := b.EnsureIndexes(ctx, contractCollections...); err != nil {
		t.Fatalf("EnsureIndexes() error = %v", err)
	}
	return b
}

func TestMongoBackendContract(t *testing.T) {
	runBackendContract(t, newTestMongo(t))
}

func TestMongoStoreReviewUniqueness(t *testing.T) {
	s := New(Instrument(newTestMongo(t)))
	ctx := context.Background()

	if err := s.Reviews.Insert(ctx, &models.Review{ID: "r1", UserID: "alice", MovieID: 550, MovieTitle: "Fight Club", Rating: 5}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	err := s.Reviews.Insert(ctx, &models.Review{ID: "r2", UserID: "alice", MovieID: 550, MovieTitle: "Fight Club", Rating: 2})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("second review error = %v, want ErrDuplicate", err)
	}
}
