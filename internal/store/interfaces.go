// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package store

import (
	"context"
	"time"

	"github.com/dkorchagin/vaultguard/models"
)

// UserRepository is the persistence boundary for user records. The
// authentication protocol is its only mutator.
type UserRepository interface {
	// CreateUser persists a new account. Email uniqueness is enforced by the
	// database constraint, not by a check-then-insert, so a concurrent
	// duplicate registration surfaces as ErrEmailAlreadyExists from exactly
	// one of the racing calls.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByEmail looks up an account by its normalized email.
	// Returns ErrNoUserWasFound when no row matches.
	FindUserByEmail(ctx context.Context, email string) (models.User, error)

	// UpdateLoginState persists the outcome of a login attempt: the failure
	// counter and the lock expiry (nil clears the lock).
	UpdateLoginState(ctx context.Context, userID int64, failedAttempts int, lockedUntil *time.Time) error

	// ReplaceCredentials rotates the verifier, both salts, the wrapped DEK,
	// and the KDF parameters in one statement, resetting lockout state.
	// There is no partial-update path: salts and verifier always change
	// together.
	ReplaceCredentials(ctx context.Context, user models.User) error
}
