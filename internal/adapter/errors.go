// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package adapter

import "errors"

// Sentinel errors mapped from server HTTP status codes by mapHTTPError.
// Callers match them with errors.Is; the wrapped message carries the
// server-provided detail.
var (
	// ErrBadRequest is returned for HTTP 400: the request payload failed
	// server-side validation (missing fields, weak KDF parameters).
	ErrBadRequest = errors.New("bad request")
	// ErrUnauthorized is returned for HTTP 401: the credentials were wrong
	// or the session token is expired or unknown.
	ErrUnauthorized = errors.New("client unauthorized")
	// ErrConflict is returned for HTTP 409: the email is already registered.
	ErrConflict = errors.New("conflict")
	// ErrAccountLocked is returned for HTTP 423: too many failed login
	// attempts; retry after the lockout expires.
	ErrAccountLocked = errors.New("account locked")
	// ErrRateLimited is returned for HTTP 429: the per-scope request budget
	// is exhausted for the current window.
	ErrRateLimited = errors.New("rate limited")
	// ErrInternalServerError is returned for HTTP 5xx responses.
	ErrInternalServerError = errors.New("internal server error")
)
