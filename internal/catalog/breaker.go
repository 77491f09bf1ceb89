// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package catalog

import (
	"context"
	"errors"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinescope/internal/config"
	"github.com/tomtom215/cinescope/internal/logging"
	"github.com/tomtom215/cinescope/internal/metrics"
)

var _ Catalog = (*BreakerClient)(nil)

// BreakerName labels the TMDB breaker in metrics and logs.
const BreakerName = "tmdb-api"

// BreakerClient wraps a Catalog with a circuit breaker.
//
// The breaker uses real time (via sony/gobreaker) for its interval and
// timeout calculations.
type BreakerClient struct {
	next Catalog
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// New returns the production catalog: a TMDB Client behind a breaker.
func New(cfg *config.CatalogConfig) *BreakerClient {
	return NewBreakerClient(NewClient(cfg), cfg)
}

// NewBreakerClient wraps next. The breaker opens once at least
// BreakerMinRequests calls were made in the current interval and the
// failure ratio reaches BreakerFailureRatio. After BreakerTimeout it lets
// BreakerMaxRequests probes through.
func NewBreakerClient(next Catalog, cfg *config.CatalogConfig) *BreakerClient {
	name := BreakerName

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= cfg.BreakerFailureRatio
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening TMDB circuit")
			}
			return shouldTrip
		},

		// Not-found, bad credentials and callers hanging up say nothing
		// about TMDB's health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, ErrInvalidCredentials) ||
				errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] TMDB state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerClient{next: next, cb: cb, name: name}
}

// State reports the breaker state ("closed", "half-open", "open").
func (b *BreakerClient) State() string {
	return stateToString(b.cb.State())
}

func (b *BreakerClient) execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] TMDB request rejected")
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.cb.Counts().ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return result, nil
}

// call runs fn through the breaker and restores its static type.
func call[T any](b *BreakerClient, fn func() (T, error)) (T, error) {
	var zero T
	result, err := b.execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func (b *BreakerClient) SearchMovies(ctx context.Context, query string, page int) (*Page[Media], error) {
	return call(b, func() (*Page[Media], error) { return b.next.SearchMovies(ctx, query, page) })
}

func (b *BreakerClient) SearchTV(ctx context.Context, query string, page int) (*Page[Media], error) {
	return call(b, func() (*Page[Media], error) { return b.next.SearchTV(ctx, query, page) })
}

func (b *BreakerClient) SearchPeople(ctx context.Context, query string, page int) (*Page[Person], error) {
	return call(b, func() (*Page[Person], error) { return b.next.SearchPeople(ctx, query, page) })
}

func (b *BreakerClient) MovieDetails(ctx context.Context, id int) (*Details, error) {
	return call(b, func() (*Details, error) { return b.next.MovieDetails(ctx, id) })
}

func (b *BreakerClient) TVDetails(ctx context.Context, id int) (*Details, error) {
	return call(b, func() (*Details, error) { return b.next.TVDetails(ctx, id) })
}

func (b *BreakerClient) PopularMovies(ctx context.Context, page int) (*Page[Media], error) {
	return call(b, func() (*Page[Media], error) { return b.next.PopularMovies(ctx, page) })
}

func (b *BreakerClient) TopRatedMovies(ctx context.Context, page int) (*Page[Media], error) {
	return call(b, func() (*Page[Media], error) { return b.next.TopRatedMovies(ctx, page) })
}

func (b *BreakerClient) UpcomingMovies(ctx context.Context, page int) (*Page[Media], error) {
	return call(b, func() (*Page[Media], error) { return b.next.UpcomingMovies(ctx, page) })
}

func (b *BreakerClient) PopularTV(ctx context.Context, page int) (*Page[Media], error) {
	return call(b, func() (*Page[Media], error) { return b.next.PopularTV(ctx, page) })
}

func (b *BreakerClient) DiscoverMovies(ctx context.Context, p DiscoverParams) (*Page[Media], error) {
	return call(b, func() (*Page[Media], error) { return b.next.DiscoverMovies(ctx, p) })
}

func (b *BreakerClient) DiscoverTV(ctx context.Context, p DiscoverParams) (*Page[Media], error) {
	return call(b, func() (*Page[Media], error) { return b.next.DiscoverTV(ctx, p) })
}

func (b *BreakerClient) MovieGenres(ctx context.Context) (*GenreList, error) {
	return call(b, func() (*GenreList, error) { return b.next.MovieGenres(ctx) })
}

func (b *BreakerClient) TVGenres(ctx context.Context) (*GenreList, error) {
	return call(b, func() (*GenreList, error) { return b.next.TVGenres(ctx) })
}

// stateToFloat converts circuit breaker state to a gauge value
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
