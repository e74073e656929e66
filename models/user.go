// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package models

import "time"

// User represents an account entity used for authentication and vault-key
// custody. The server never sees the master password: it stores only the
// peppered verifier derived from the client-side AuthSecret, the salts the
// client needs to reproduce its derivations, and the wrapped (encrypted)
// data-encryption key, which is opaque ciphertext to the server.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	// It is not exposed via JSON and is used only at the persistence layer.
	UserID int64 `json:"-"`

	// Email is the unique, lower-cased account identifier.
	// Uniqueness is enforced case-insensitively by the database.
	Email string `json:"email"`

	// AuthVerifier is HMAC-SHA256(pepper, AuthSecret). It is the only
	// credential-derived value persisted server-side and is useless without
	// the process-wide pepper.
	AuthVerifier []byte `json:"-"`

	// AuthSalt is the public salt the client uses to derive the AuthSecret.
	AuthSalt []byte `json:"-"`

	// KekSalt is the public salt the client uses to derive the KEK.
	// It is distinct from AuthSalt so the two derivations never collide.
	KekSalt []byte `json:"-"`

	// WrappedDEK is the AES-256-GCM ciphertext of the client's DEK,
	// encrypted under the client-side KEK. Opaque to the server.
	WrappedDEK []byte `json:"-"`

	// DEKNonce is the GCM nonce used when the client wrapped the DEK.
	DEKNonce []byte `json:"-"`

	// KDF records the Argon2id cost parameters used at (re-)registration so
	// future logins reproduce the identical derivation even if server-wide
	// defaults change later.
	KDF KDFParams `json:"-"`

	// FailedLoginAttempts counts consecutive verifier mismatches since the
	// last successful login. Reset to zero on success.
	FailedLoginAttempts int `json:"-"`

	// LockedUntil, when set and in the future, blocks credential checks.
	// A value in the past is treated as not locked (lazy clear).
	LockedUntil *time.Time `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
