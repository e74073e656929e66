// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

// Package crypto implements the cryptographic core of the zero-knowledge
// scheme: memory-hard key derivation (Argon2id), authenticated symmetric
// encryption (AES-256-GCM), and the peppered verifier transform.
//
// The package knows nothing about users, storage, or transport. Both the
// server and the client build on these primitives:
//
//	AuthSecret = DeriveKey(password, authSalt, authParams)   (client)
//	KEK        = DeriveKey(password, kekSalt, kekParams)     (client)
//	wrappedDEK = WrapKey(DEK, KEK)                           (client)
//	verifier   = ComputeVerifier(AuthSecret, pepper)         (server)
package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"

	"github.com/dkorchagin/vaultguard/models"
)

// Hard floors for Argon2id cost parameters. Parameters below these values
// are rejected before any derivation work begins so a buggy or malicious
// client can never force a cheap, crackable verifier.
const (
	// MinIterations is the minimum Argon2id time cost.
	MinIterations uint32 = 1

	// MinMemoryKiB is the minimum Argon2id memory cost (64 MiB).
	MinMemoryKiB uint32 = 64 * 1024

	// MinParallelism is the minimum Argon2id lane count.
	MinParallelism uint8 = 1

	// KeySize is the only accepted derived-key length: the AES-256 key size.
	KeySize = 32

	// SaltSize is the length of the salts generated for both derivations.
	SaltSize = 16
)

// ErrWeakKDFParams is returned when supplied Argon2id parameters fall below
// the configured floors or the requested key length does not match the
// cipher key size.
var ErrWeakKDFParams = errors.New("kdf parameters below required floor")

// ErrEmptySalt is returned when a derivation is attempted without a salt.
var ErrEmptySalt = errors.New("empty derivation salt")

// AuthParams returns the default cost preset for AuthSecret derivation.
// It is the lighter of the two presets, tuned for login latency.
func AuthParams() models.KDFParams {
	return models.KDFParams{
		Iterations:  1,
		MemoryKiB:   64 * 1024,
		Parallelism: 4,
		KeyLength:   KeySize,
	}
}

// KEKParams returns the default cost preset for KEK derivation. It is
// heavier than [AuthParams] because the KEK protects the wrapped DEK against
// offline attack if the server datastore leaks.
func KEKParams() models.KDFParams {
	return models.KDFParams{
		Iterations:  3,
		MemoryKiB:   128 * 1024,
		Parallelism: 4,
		KeyLength:   KeySize,
	}
}

// ValidateParams checks p against the package floors. It is called by
// [DeriveKey] and is exported so the HTTP boundary can reject out-of-range
// client-supplied parameters before they reach the core.
func ValidateParams(p models.KDFParams) error {
	switch {
	case p.Iterations < MinIterations:
		return fmt.Errorf("%w: iterations %d < %d", ErrWeakKDFParams, p.Iterations, MinIterations)
	case p.MemoryKiB < MinMemoryKiB:
		return fmt.Errorf("%w: memory %d KiB < %d KiB", ErrWeakKDFParams, p.MemoryKiB, MinMemoryKiB)
	case p.Parallelism < MinParallelism:
		return fmt.Errorf("%w: parallelism %d < %d", ErrWeakKDFParams, p.Parallelism, MinParallelism)
	case p.KeyLength != KeySize:
		return fmt.Errorf("%w: key length %d != %d", ErrWeakKDFParams, p.KeyLength, KeySize)
	}

	return nil
}

// DeriveKey derives a key from password and salt using Argon2id with the
// given cost parameters. The derivation is deterministic and has no side
// effects; zeroing the password bytes afterwards is the caller's
// responsibility.
//
// Returns [ErrWeakKDFParams] (wrapped) if p fails validation, or
// [ErrEmptySalt] if salt is empty. No derivation work happens in either case.
func DeriveKey(password, salt []byte, p models.KDFParams) ([]byte, error) {
	if err := ValidateParams(p); err != nil {
		return nil, err
	}
	if len(salt) == 0 {
		return nil, ErrEmptySalt
	}

	return argon2.IDKey(password, salt, p.Iterations, p.MemoryKiB, p.Parallelism, p.KeyLength), nil
}

// GenerateSalt reads [SaltSize] random bytes from the OS CSPRNG. Salts are
// not secret — they are stored on the server in the clear so the client can
// repeat its derivations.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}
