// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package models

import "time"

// Session is the server-side record behind an opaque bearer token. Records
// are immutable after creation; expiry is handled lazily by the session
// store on read.
type Session struct {
	// Token is the opaque, high-entropy bearer credential. Never logged.
	Token string `json:"-"`

	// UserID identifies the account the session belongs to.
	UserID int64 `json:"user_id"`

	// CreatedAt is the moment the session was issued.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is CreatedAt plus the fixed session TTL. A record past this
	// instant is treated as absent.
	ExpiresAt time.Time `json:"expires_at"`

	// Generation is the owner's revocation generation at issue time. A
	// session whose generation is behind the account's current one has been
	// revoked in bulk (credential recovery) and no longer grants access.
	Generation int64 `json:"generation"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
