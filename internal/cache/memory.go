// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// entry is a stored value with its absolute expiry.
type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a process-local [Cache] used in tests and single-node
// development runs. Expired entries are purged lazily on access; there is
// no background sweep.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]entry

	// now is injectable so tests can step through window boundaries.
	now func() time.Time
}

// NewMemoryCache constructs an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get implements [Cache].
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, ErrCacheMiss
	}

	value := make([]byte, len(e.value))
	copy(value, e.value)

	return value, nil
}

// Set implements [Cache].
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	c.entries[key] = entry{value: stored, expiresAt: c.now().Add(ttl)}

	return nil
}

// Delete implements [Cache].
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)

	return nil
}

// Increment implements [Cache]. The TTL is applied only when the increment
// creates the counter, matching the Redis INCR + EXPIRE NX pipeline.
func (c *MemoryCache) Increment(_ context.Context, key string, ttl time.Duration) (int64, time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	e, ok := c.entries[key]
	if ok && now.Before(e.expiresAt) {
		count, err := strconv.ParseInt(string(e.value), 10, 64)
		if err != nil {
			count = 0
		}
		count++
		c.entries[key] = entry{value: []byte(strconv.FormatInt(count, 10)), expiresAt: e.expiresAt}
		return count, e.expiresAt, nil
	}

	expiresAt := now.Add(ttl)
	c.entries[key] = entry{value: []byte("1"), expiresAt: expiresAt}

	return 1, expiresAt, nil
}

// SetClock replaces the cache's time source. Intended for tests.
func (c *MemoryCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = now
}
