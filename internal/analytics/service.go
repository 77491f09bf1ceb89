// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/cinescope/internal/cache"
	"github.com/tomtom215/cinescope/internal/metrics"
	"github.com/tomtom215/cinescope/internal/models"
	"github.com/tomtom215/cinescope/internal/store"
)

// DefaultCacheTTL is how long a computed Summary is served from cache.
const DefaultCacheTTL = time.Minute

// Service computes and caches account summaries.
type Service struct {
	store *store.Store
	cache *cache.Cache[string, *Summary]
	now   func() time.Time
}

// NewService creates a Service caching summaries for ttl.
func NewService(s *store.Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{store: s, cache: cache.New[string, *Summary](ttl), now: time.Now}
}

// Cache exposes the summary cache so its janitor can be supervised.
func (s *Service) Cache() *cache.Cache[string, *Summary] {
	return s.cache
}

// Summary returns the analytics of account.
func (s *Service) Summary(ctx context.Context, account *models.Account) (*Summary, error) {
	if cached, ok := s.cache.Get(account.ID); ok {
		metrics.AnalyticsCacheHits.Inc()
		return cached, nil
	}
	metrics.AnalyticsCacheMisses.Inc()

	reviews, err := s.store.Reviews.Find(ctx, store.UserRef(account.ID))
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	watchlist, err := s.store.Watchlist.Find(ctx, store.UserRef(account.ID))
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}

	summary := Aggregate(account, len(reviews), watchlist, s.now().UTC())
	s.cache.Set(account.ID, summary)
	return summary, nil
}

// Invalidate drops the cached summary of accountID.
func (s *Service) Invalidate(accountID string) {
	s.cache.Delete(accountID)
}
