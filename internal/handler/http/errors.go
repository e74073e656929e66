// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package http

import "errors"

// Sentinel errors produced while parsing the Authorization header. The auth
// middleware maps all of them to INVALID_CREDENTIALS so a probing client
// cannot tell which part of the header was malformed.
var (
	ErrEmptyAuthorizationHeader   = errors.New("empty `Authorization` header")
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")
	ErrEmptyToken                 = errors.New("empty token in `Authorization` header")
)
