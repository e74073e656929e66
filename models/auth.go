// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package models

import "time"

// Credentials is the full client-produced credential set supplied at
// registration and, in its entirety again, at recovery. The server persists
// it after replacing AuthSecret with the peppered verifier; it never stores
// the AuthSecret itself.
type Credentials struct {
	// Email is the account identifier. Normalized to lower case before any
	// lookup or insert.
	Email string

	// AuthSecret is the client-derived login secret (Argon2id of the master
	// password under AuthSalt). It stands in for the password on the wire.
	AuthSecret []byte

	// AuthSalt and KekSalt are the public salts for the two derivations.
	AuthSalt []byte
	KekSalt  []byte

	// WrappedDEK and DEKNonce carry the client's DEK wrapped under its KEK.
	WrappedDEK []byte
	DEKNonce   []byte

	// KDF is the cost setting the client used; persisted per user.
	KDF KDFParams
}

// SessionGrant is the minimal successful-authentication payload: who the
// caller is and the bearer token proving it.
type SessionGrant struct {
	UserID    int64     `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Keyset carries everything the client needs to reconstruct its KEK and
// unwrap its DEK after a successful login. All fields are public values or
// ciphertext; none of them is usable without the master password.
type Keyset struct {
	AuthSalt   []byte    `json:"auth_salt"`
	KekSalt    []byte    `json:"kek_salt"`
	WrappedDEK []byte    `json:"wrapped_dek"`
	DEKNonce   []byte    `json:"dek_nonce"`
	KDF        KDFParams `json:"kdf"`
}

// LoginGrant is the full login result: a session plus the key material the
// client needs to unlock its vault.
type LoginGrant struct {
	SessionGrant
	Keyset Keyset `json:"keyset"`
}

// PreLoginParams is what a client needs before it can attempt a login: the
// public salt and cost settings for reproducing the AuthSecret derivation.
// For unknown emails the server answers with a deterministic decoy so the
// response shape never reveals whether an account exists.
type PreLoginParams struct {
	AuthSalt []byte    `json:"auth_salt"`
	KDF      KDFParams `json:"kdf"`
}
