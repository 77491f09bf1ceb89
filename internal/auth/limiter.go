// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package auth

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginLimiter implements per-key rate limiting with periodic cleanup.
type LoginLimiter struct {
	limiters map[string]*limiterEntry
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewLoginLimiter allows perMinute attempts per key per minute, with the
// full minute's budget available as a burst. perMinute <= 0 disables it.
func NewLoginLimiter(perMinute int) *LoginLimiter {
	l := &LoginLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Inf,
		burst:    perMinute,
		idle:     time.Hour,
		now:      time.Now,
	}
	if perMinute > 0 {
		l.rate = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return l
}

// Allow reports whether another attempt for key is permitted now.
func (l *LoginLimiter) Allow(key string) bool {
	if l.rate == rate.Inf {
		return true
	}

	now := l.now()
	l.mu.Lock()
	entry, ok := l.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastAccess = now
	limiter := entry.limiter
	l.mu.Unlock()

	return limiter.AllowN(now, 1)
}

// Serve removes idle limiters every interval until ctx is done. It
// satisfies suture.Service.
func (l *LoginLimiter) Serve(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// cleanup removes limiters that have not been used within the idle window
func (l *LoginLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	threshold := l.now().Add(-l.idle)
	for key, entry := range l.limiters {
		if entry.lastAccess.Before(threshold) {
			delete(l.limiters, key)
		}
	}
}

func (l *LoginLimiter) String() string { return "login-limiter" }
