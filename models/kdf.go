// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package models

// KDFParams holds the Argon2id cost parameters recorded per user at
// registration (and replaced wholesale at recovery). They are returned to
// the client on login so it can reproduce the exact derivation.
type KDFParams struct {
	// Iterations is the Argon2id time cost (passes over memory).
	Iterations uint32 `json:"iterations"`

	// MemoryKiB is the Argon2id memory cost in KiB.
	MemoryKiB uint32 `json:"memory_kib"`

	// Parallelism is the Argon2id lane count.
	Parallelism uint8 `json:"parallelism"`

	// KeyLength is the derived key size in bytes. Always the cipher key
	// size (32) for keys accepted by the envelope.
	KeyLength uint32 `json:"key_length"`
}
