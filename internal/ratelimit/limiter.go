// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

// Package ratelimit guards public endpoints with a fixed-window counter per
// {scope}:{identifier} key. The window is a deliberate simplicity/cost
// trade-off: some imprecision at window boundaries is accepted, and a
// sliding-log or token-bucket algorithm can be substituted behind the same
// interface without changing callers.
package ratelimit

import (
	"context"
	"time"

	"github.com/dkorchagin/vaultguard/internal/cache"
	"github.com/dkorchagin/vaultguard/internal/logger"
)

// Decision is the outcome of a rate-limit check.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool

	// Remaining is the number of requests left in the current window.
	Remaining int64

	// ResetAt is when the current window ends, as reported by the counter's
	// remaining TTL. Only when the cache is unavailable does it degrade to a
	// best-effort now+window upper bound.
	ResetAt time.Time
}

// Limiter counts requests per scope and identifier over a TTL cache.
// Distinct scopes use independent counters and windows, so exhausting one
// never affects another.
type Limiter struct {
	cache  cache.Cache
	logger *logger.Logger

	now func() time.Time
}

// NewLimiter constructs a limiter over the given cache.
func NewLimiter(c cache.Cache, log *logger.Logger) *Limiter {
	return &Limiter{
		cache:  c,
		logger: log,
		now:    time.Now,
	}
}

// Check records one request for {scope}:{identifier} and decides whether it
// fits within limit requests per window. The first request in a window
// creates the counter with the window as its TTL; the counter then grows
// monotonically until the window expires.
//
// The limiter must never block legitimate traffic because its backing cache
// is down: any cache failure is logged and the request is allowed (fail
// open).
func (l *Limiter) Check(ctx context.Context, scope, identifier string, limit int64, window time.Duration) Decision {
	count, expiresAt, err := l.cache.Increment(ctx, scope+":"+identifier, window)
	if err != nil {
		l.logger.Err(err).
			Str("scope", scope).
			Msg("rate limiter cache unavailable, failing open")
		return Decision{Allowed: true, Remaining: limit, ResetAt: l.now().Add(window)}
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= limit,
		Remaining: remaining,
		ResetAt:   expiresAt,
	}
}

// SetClock replaces the limiter's time source. Intended for tests.
func (l *Limiter) SetClock(now func() time.Time) {
	l.now = now
}
