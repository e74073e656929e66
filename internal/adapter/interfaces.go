// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

// Package adapter provides transport-layer abstractions for communicating
// with the vaultguard server.
//
// The primary abstraction is [ServerAdapter], which decouples the client
// runtime from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrAccountLocked] for 423).
package adapter

import (
	"context"

	"github.com/dkorchagin/vaultguard/models"
)

// ServerAdapter defines transport-agnostic communication with the vaultguard
// server. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel
// values defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all
	// subsequent authenticated requests. It should be called immediately
	// after a successful Register, Login, or Recover.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// PreLogin fetches the AuthSalt and KDF parameters recorded for email
	// so the caller can reproduce its AuthSecret derivation. The server
	// answers unknown emails with a decoy, so a successful response proves
	// nothing about account existence.
	PreLogin(ctx context.Context, email string) (models.PreLoginParams, error)

	// Register sends a registration request with the client-derived
	// credential set. On success it stores the returned bearer token via
	// SetToken and returns the session grant.
	Register(ctx context.Context, creds models.Credentials) (models.SessionGrant, error)

	// Login authenticates with the pre-computed AuthSecret. On success it
	// stores the returned bearer token via SetToken and returns the full
	// grant, including the keyset needed to unwrap the DEK.
	Login(ctx context.Context, email string, authSecret []byte) (models.LoginGrant, error)

	// Logout revokes the stored session token on the server and clears it
	// from the adapter. Safe to call with no token set.
	Logout(ctx context.Context) error

	// Recover replaces the full credential set after the external
	// recovery-phrase flow has proven DEK possession. On success it stores
	// the fresh bearer token via SetToken and returns the session grant.
	Recover(ctx context.Context, creds models.Credentials) (models.SessionGrant, error)

	// ServerVersion fetches the server's build version string.
	ServerVersion(ctx context.Context) (string, error)
}
