// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidDataProvided is returned when an operation receives input
	// missing a required field. Shape validation happens at the HTTP
	// boundary; this is the service's own last-line check.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrInvalidCredentials is the single, deliberately generic failure for
	// a login that did not succeed: unknown email and wrong password are
	// indistinguishable to the caller, which prevents account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountLocked is returned while a temporary lockout is active.
	// Use [AsAccountLocked] to read the remaining duration.
	ErrAccountLocked = errors.New("account temporarily locked")

	// ErrTokenIsExpiredOrInvalid is the normalised failure for bearer-token
	// validation; callers never learn whether the token expired, was revoked,
	// or never existed.
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrVersionIsNotSpecified = errors.New("application version is not specified")

	// ErrEmptyPepper rejects construction of the auth service without the
	// server-side verifier secret.
	ErrEmptyPepper = errors.New("verifier pepper is not configured")
)

// AccountLockedError carries how long the caller has to wait before the
// next credential check will be evaluated. It matches [ErrAccountLocked]
// under [errors.Is].
type AccountLockedError struct {
	RetryAfter time.Duration
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account temporarily locked, retry after %s", e.RetryAfter.Round(time.Second))
}

// Unwrap lets errors.Is(err, ErrAccountLocked) succeed on the typed error.
func (e *AccountLockedError) Unwrap() error {
	return ErrAccountLocked
}

// AsAccountLocked extracts the typed lockout error from an error chain.
func AsAccountLocked(err error) (*AccountLockedError, bool) {
	var locked *AccountLockedError
	if errors.As(err, &locked) {
		return locked, true
	}
	return nil, false
}
