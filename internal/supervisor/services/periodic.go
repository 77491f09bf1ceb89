// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package services

import (
	"context"
	"time"

	"github.com/tomtom215/cinescope/internal/logging"
)

// PeriodicService calls fn every interval. A failing call is logged and
// the loop continues; only context cancellation stops it.
type PeriodicService struct {
	name     string
	interval time.Duration
	fn       func(ctx context.Context) error
}

// NewPeriodicService creates a service named name that runs fn every
// interval, first after one interval has passed.
func NewPeriodicService(name string, interval time.Duration, fn func(ctx context.Context) error) *PeriodicService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PeriodicService{name: name, interval: interval, fn: fn}
}

// Serve implements suture.Service.
func (p *PeriodicService) Serve(ctx context.Context) error {
	log := logging.WithComponent(p.name)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.fn(ctx); err != nil {
				log.Warn().Err(err).Msg("Periodic task failed")
			}
		}
	}
}

func (p *PeriodicService) String() string {
	return p.name
}
