// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package client

import "errors"

var (
	// ErrNotLoggedIn is returned when an operation needs an unlocked vault
	// but no session has been established.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrEmptyPassword rejects empty master passwords before any derivation
	// work is done.
	ErrEmptyPassword = errors.New("master password must not be empty")
	// ErrEmptyEmail rejects requests without an account identifier.
	ErrEmptyEmail = errors.New("email must not be empty")
)
