// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package service

import (
	"context"
	"time"

	"github.com/dkorchagin/vaultguard/internal/ratelimit"
	"github.com/dkorchagin/vaultguard/models"
)

// AuthService orchestrates the zero-knowledge authentication protocol:
// registration, login, logout, and credential recovery. Implementations
// compose key derivation, the envelope, and the peppered verifier against
// user records, and never see the master password or the raw DEK.
type AuthService interface {
	// Register creates a new account from client-derived credentials and
	// issues a session. Duplicate normalized emails fail with
	// store.ErrEmailAlreadyExists regardless of how the race resolved.
	Register(ctx context.Context, creds models.Credentials) (models.SessionGrant, error)

	// PreLogin returns the public salt and KDF cost settings a client needs
	// to reproduce its AuthSecret derivation before calling Login. Unknown
	// emails receive a deterministic decoy so the response never reveals
	// whether an account exists.
	PreLogin(ctx context.Context, email string) (models.PreLoginParams, error)

	// Login verifies the supplied AuthSecret against the stored peppered
	// verifier and, on success, returns a session plus the keyset the client
	// needs to unwrap its DEK. Failures are ErrInvalidCredentials or
	// ErrAccountLocked; the two never reveal whether the email exists.
	Login(ctx context.Context, email string, authSecret []byte) (models.LoginGrant, error)

	// Logout revokes the session for token. Idempotent: always succeeds if
	// the backing store is reachable, even for unknown tokens.
	Logout(ctx context.Context, token string) error

	// Recover rotates the full credential set after the caller has proven
	// possession of the original DEK through the external recovery-phrase
	// flow. Lockout state is reset, every session issued before the
	// rotation is revoked, and a fresh session issued.
	Recover(ctx context.Context, creds models.Credentials) (models.SessionGrant, error)

	// Authenticate resolves a bearer token to the session it identifies.
	Authenticate(ctx context.Context, token string) (models.Session, error)
}

// SessionStore is the capability the auth service needs from the session
// layer. It is deliberately narrow so the core stays decoupled from the
// cache technology behind it.
type SessionStore interface {
	Create(ctx context.Context, userID int64) (models.Session, error)
	Get(ctx context.Context, token string) (models.Session, error)
	Delete(ctx context.Context, token string) error

	// RevokeUser invalidates every session issued to userID so far.
	// Credential recovery uses it so tokens minted under the old password
	// die with the rotation.
	RevokeUser(ctx context.Context, userID int64) error
}

// RateLimiter is the capability the transport layer uses to guard public
// endpoints. Defined here alongside SessionStore because the two are
// logically separate even when backed by the same physical cache.
type RateLimiter interface {
	Check(ctx context.Context, scope, identifier string, limit int64, window time.Duration) ratelimit.Decision
}

// AppInfoService reports build/version metadata about the running service.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
