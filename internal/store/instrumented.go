// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package store

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/cinescope/internal/metrics"
)

// instrumented records duration and error metrics for every call to the
// wrapped backend.
type instrumented struct {
	next Backend
}

// Instrument wraps b so that each operation is reported to Prometheus.
func Instrument(b Backend) Backend {
	return &instrumented{next: b}
}

func observe(op, coll string, start time.Time, err error) {
	metrics.RecordStoreOperation(op, coll, time.Since(start), err, errors.Is(err, ErrNotFound))
}

func (i *instrumented) Insert(ctx context.Context, coll string, doc Document) error {
	start := time.Now()
	err := i.next.Insert(ctx, coll, doc)
	observe("insert", coll, start, err)
	return err
}

func (i *instrumented) Get(ctx context.Context, coll, id string) ([]byte, error) {
	start := time.Now()
	body, err := i.next.Get(ctx, coll, id)
	observe("get", coll, start, err)
	return body, err
}

func (i *instrumented) GetByUnique(ctx context.Context, coll, key string) ([]byte, error) {
	start := time.Now()
	body, err := i.next.GetByUnique(ctx, coll, key)
	observe("get_by_unique", coll, start, err)
	return body, err
}

func (i *instrumented) Find(ctx context.Context, coll, ref string) ([][]byte, error) {
	start := time.Now()
	bodies, err := i.next.Find(ctx, coll, ref)
	observe("find", coll, start, err)
	return bodies, err
}

func (i *instrumented) Mutate(ctx context.Context, coll, id string, fn MutateFunc) error {
	start := time.Now()
	err := i.next.Mutate(ctx, coll, id, fn)
	observe("mutate", coll, start, err)
	return err
}

func (i *instrumented) Delete(ctx context.Context, coll, id string) error {
	start := time.Now()
	err := i.next.Delete(ctx, coll, id)
	observe("delete", coll, start, err)
	return err
}

func (i *instrumented) Ping(ctx context.Context) error {
	return i.next.Ping(ctx)
}

func (i *instrumented) Close() error {
	return i.next.Close()
}
