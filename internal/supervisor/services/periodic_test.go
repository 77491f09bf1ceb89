// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPeriodicServiceKeepsRunningAfterFailure(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	svc := NewPeriodicService("badger-gc", 5*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return errors.New("gc failed")
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("fn called %d times, want at least 3", calls.Load())
		}
		time.Sleep(time.Millisecond)
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v, want context.Canceled", err)
	}
	if svc.String() != "badger-gc" {
		t.Errorf("String() = %q, want badger-gc", svc.String())
	}
}

func TestNewPeriodicServiceDefaultInterval(t *testing.T) {
	t.Parallel()

	svc := NewPeriodicService("noop", 0, func(context.Context) error { return nil })
	if svc.interval != time.Minute {
		t.Errorf("interval = %v, want 1m", svc.interval)
	}
}
