// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

// Package session issues and validates the opaque bearer tokens that carry
// an authenticated identity between requests. Tokens are high-entropy random
// strings with no internal structure; validity is decided solely by the
// presence of a matching, unexpired record in the backing cache.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dkorchagin/vaultguard/internal/cache"
	"github.com/dkorchagin/vaultguard/internal/logger"
	"github.com/dkorchagin/vaultguard/models"
)

// ErrSessionNotFound is returned by Get when no live session exists for the
// token. Expired records are reported identically to absent ones.
var ErrSessionNotFound = errors.New("session not found")

// tokenBytes is the entropy of a bearer token before encoding (256 bits).
const tokenBytes = 32

const keyPrefix = "session:"

// genKeyPrefix keys the per-user revocation generation counter. Sessions
// record the counter at issue time; bumping it strands every outstanding
// token at once.
const genKeyPrefix = "sessiongen:"

// Store mints, looks up, and revokes sessions against a TTL cache. Every
// record carries an explicit expiry; expiry is enforced lazily on read, with
// no background sweep.
type Store struct {
	cache  cache.Cache
	ttl    time.Duration
	logger *logger.Logger

	now func() time.Time
}

// NewStore constructs a session store with the given fixed TTL.
func NewStore(c cache.Cache, ttl time.Duration, log *logger.Logger) *Store {
	return &Store{
		cache:  c,
		ttl:    ttl,
		logger: log,
		now:    time.Now,
	}
}

// Create mints a fresh session for userID and returns it together with its
// opaque token.
func (s *Store) Create(ctx context.Context, userID int64) (models.Session, error) {
	token, err := generateToken()
	if err != nil {
		return models.Session{}, fmt.Errorf("generate session token: %w", err)
	}

	gen, err := s.generation(ctx, userID)
	if err != nil {
		return models.Session{}, fmt.Errorf("read session generation: %w", err)
	}

	now := s.now()
	record := models.Session{
		Token:      token,
		UserID:     userID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
		Generation: gen,
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return models.Session{}, fmt.Errorf("marshal session record: %w", err)
	}

	if err := s.cache.Set(ctx, keyPrefix+token, payload, s.ttl); err != nil {
		return models.Session{}, fmt.Errorf("store session record: %w", err)
	}

	return record, nil
}

// Get returns the live session for token, or [ErrSessionNotFound] if the
// token is unknown or the record is past its expiry. A record found past its
// expiry is deleted on the spot and treated as if it never existed.
func (s *Store) Get(ctx context.Context, token string) (models.Session, error) {
	payload, err := s.cache.Get(ctx, keyPrefix+token)
	if errors.Is(err, cache.ErrCacheMiss) {
		return models.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("read session record: %w", err)
	}

	var record models.Session
	if err := json.Unmarshal(payload, &record); err != nil {
		return models.Session{}, fmt.Errorf("unmarshal session record: %w", err)
	}
	record.Token = token

	// The cache TTL normally purges expired records, but a record can
	// outlive its logical expiry when the backing store is lenient (e.g. an
	// in-memory cache with an injected clock). Enforce expiry here too.
	if record.Expired(s.now()) {
		if err := s.cache.Delete(ctx, keyPrefix+token); err != nil {
			s.logger.Err(err).Msg("failed to purge expired session")
		}
		return models.Session{}, ErrSessionNotFound
	}

	gen, err := s.generation(ctx, record.UserID)
	if err != nil {
		return models.Session{}, fmt.Errorf("read session generation: %w", err)
	}
	if record.Generation < gen {
		if err := s.cache.Delete(ctx, keyPrefix+token); err != nil {
			s.logger.Err(err).Msg("failed to purge revoked session")
		}
		return models.Session{}, ErrSessionNotFound
	}

	return record, nil
}

// RevokeUser invalidates every session issued to userID so far by bumping
// the account's generation; tokens minted afterwards are unaffected.
//
// The generation is the UnixNano timestamp of the latest bulk revocation
// (floored to strictly exceed the stored value, for frozen test clocks).
// Wall time keeps bumps increasing even after the generation key itself
// expires. The key lives one full session TTL from the bump, outlasting
// every token it strands, so its expiry can never resurrect one.
func (s *Store) RevokeUser(ctx context.Context, userID int64) error {
	gen, err := s.generation(ctx, userID)
	if err != nil {
		return fmt.Errorf("read session generation: %w", err)
	}

	next := s.now().UnixNano()
	if next <= gen {
		next = gen + 1
	}

	payload := []byte(strconv.FormatInt(next, 10))
	if err := s.cache.Set(ctx, genKey(userID), payload, s.ttl); err != nil {
		return fmt.Errorf("bump session generation: %w", err)
	}

	return nil
}

// generation returns the current revocation generation for userID. An
// absent key means no revocation has happened within a session TTL, which
// reads as generation zero.
func (s *Store) generation(ctx context.Context, userID int64) (int64, error) {
	payload, err := s.cache.Get(ctx, genKey(userID))
	if errors.Is(err, cache.ErrCacheMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	gen, err := strconv.ParseInt(string(payload), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse session generation: %w", err)
	}

	return gen, nil
}

func genKey(userID int64) string {
	return genKeyPrefix + strconv.FormatInt(userID, 10)
}

// Delete revokes the session for token. It is idempotent: revoking an
// unknown or already-expired token is a success, because the caller's intent
// (the token no longer grants access) is already satisfied.
func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.cache.Delete(ctx, keyPrefix+token); err != nil {
		return fmt.Errorf("delete session record: %w", err)
	}

	return nil
}

// SetClock replaces the store's time source. Intended for tests.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func generateToken() (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}
