// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dkorchagin/vaultguard/internal/config"
	"github.com/dkorchagin/vaultguard/internal/logger"
)

// RedisCache implements [Cache] on top of a Redis server. Per-key expiry is
// delegated to Redis itself, so expired entries surface as plain misses.
type RedisCache struct {
	client *redis.Client
	logger *logger.Logger
}

// NewRedisCache connects to Redis using cfg and verifies the connection
// with a ping before returning.
func NewRedisCache(ctx context.Context, cfg config.Redis, log *logger.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Err(err).Str("func", "NewRedisCache").Msg("error connecting to redis (ping)")
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Info().Str("func", "NewRedisCache").Msg("connected to redis successfully")

	return &RedisCache{client: client, logger: log}, nil
}

// Get implements [Cache].
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	return value, nil
}

// Set implements [Cache].
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Delete implements [Cache].
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}

	return nil
}

// Increment implements [Cache]. INCR, the conditional EXPIRE, and a PTTL
// read run in one pipeline; ExpireNX only sets the TTL when the key has
// none, i.e. on the increment that created it, and PTTL reports the window
// end armed back then.
func (c *RedisCache) Increment(ctx context.Context, key string, ttl time.Duration) (int64, time.Time, error) {
	var (
		incr *redis.IntCmd
		pttl *redis.DurationCmd
	)
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, ttl)
		pttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis incr: %w", err)
	}

	remaining := pttl.Val()
	if remaining < 0 {
		// PTTL reports a negative duration for a key with no expiry; fall
		// back to the full window rather than a nonsense instant.
		remaining = ttl
	}

	return incr.Val(), time.Now().Add(remaining), nil
}

// Close releases the underlying Redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
