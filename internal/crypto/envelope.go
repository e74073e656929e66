// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// NonceSize is the AES-GCM nonce length in bytes (96 bits). A nonce is
// generated fresh and uniformly at random for every encryption; reusing one
// with the same key corrupts confidentiality, so nonces are never accepted
// from callers on the encrypt path.
const NonceSize = 12

// Sentinel errors returned by the envelope primitives. Callers should match
// against them with [errors.Is].
var (
	// ErrAuthenticationFailed is returned when GCM tag verification fails:
	// wrong key, wrong nonce, wrong AAD, or tampered ciphertext.
	ErrAuthenticationFailed = errors.New("envelope authentication failed")

	// ErrInvalidKeySize is returned when a key is not exactly [KeySize] bytes.
	ErrInvalidKeySize = errors.New("invalid envelope key size")

	// ErrInvalidNonceSize is returned when a nonce is not exactly [NonceSize] bytes.
	ErrInvalidNonceSize = errors.New("invalid envelope nonce size")
)

// Encrypt seals plaintext under a 256-bit key with AES-GCM and returns the
// ciphertext (with the 16-byte authentication tag appended by GCM) and the
// freshly generated nonce. aad, when non-nil, is bound to the ciphertext and
// must be presented unchanged at decryption.
//
// Key length is validated before any cryptographic work. Empty plaintext is
// a valid input and round-trips to empty.
func Encrypt(plaintext, key, aad []byte) (ciphertext, nonce []byte, err error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, fmt.Errorf("generate nonce: %w", err)
	}

	return gcm.Seal(nil, nonce, plaintext, aad), nonce, nil
}

// Decrypt opens ciphertext produced by [Encrypt] with the same key, nonce,
// and AAD. A failed tag check returns [ErrAuthenticationFailed] rather than
// garbage; callers must treat that as a hard error, never retry with weaker
// validation.
func Decrypt(ciphertext, key, nonce, aad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidNonceSize, len(nonce), NonceSize)
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}

	return plaintext, nil
}

// WrapKey encrypts the raw DEK under the KEK. It is [Encrypt] applied to a
// key payload; the wrapped blob and its nonce are safe to store server-side
// because without the KEK they are indistinguishable from random noise.
func WrapKey(dek, kek []byte) (wrapped, nonce []byte, err error) {
	return Encrypt(dek, kek, nil)
}

// UnwrapKey reverses [WrapKey]. An [ErrAuthenticationFailed] here almost
// always means the wrong master password produced the wrong KEK.
func UnwrapKey(wrapped, kek, nonce []byte) ([]byte, error) {
	return Decrypt(wrapped, kek, nonce, nil)
}

// GenerateDEK reads a fresh 256-bit data-encryption key from the OS CSPRNG.
// The DEK exists in the clear only in client memory.
func GenerateDEK() ([]byte, error) {
	dek := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, dek); err != nil {
		return nil, err
	}
	return dek, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeySize, len(key), KeySize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	return cipher.NewGCM(block)
}
