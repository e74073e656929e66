// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

// Package cache abstracts the durable key/value cache with per-key expiry
// that backs sessions and rate-limit counters. The core treats the cache as
// get/put/delete plus an atomic counter with TTL — no transactions, no
// locks. Two implementations exist: Redis for deployments and an in-memory
// map for tests.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key does not exist or has expired.
var ErrCacheMiss = errors.New("cache: key not found")

// Cache is the capability the session store and the rate limiter are built
// on. Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value stored under key, or ErrCacheMiss if the key is
	// absent or past its TTL.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with the given TTL. A non-positive TTL is
	// invalid; every entry in this cache carries an explicit expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Increment atomically adds one to the integer counter stored under key
	// and returns the new value together with the counter's absolute expiry.
	// When the increment creates the key, the TTL is applied; subsequent
	// increments leave the existing expiry untouched, which is exactly the
	// fixed-window behavior the rate limiter needs. The reported expiry is
	// the end of the window armed at the first increment, not the current
	// call's now+TTL.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, time.Time, error)
}
