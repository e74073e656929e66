// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, KeySize)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := testKey(0x2A)
	aad := []byte("user:42")

	payloads := [][]byte{
		nil,
		{},
		[]byte("x"),
		[]byte("the quick brown fox"),
		bytes.Repeat([]byte{0xFF}, 4096),
	}

	for _, plaintext := range payloads {
		ciphertext, nonce, err := Encrypt(plaintext, key, aad)
		require.NoError(t, err)
		require.Len(t, nonce, NonceSize)
		// GCM appends a 16-byte tag.
		require.Len(t, ciphertext, len(plaintext)+16)

		decrypted, err := Decrypt(ciphertext, key, nonce, aad)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(decrypted, plaintext), "round-trip mismatch for %x", plaintext)
	}
}

func TestEncrypt_FreshNoncePerCall(t *testing.T) {
	key := testKey(0x11)

	_, n1, err := Encrypt([]byte("same payload"), key, nil)
	require.NoError(t, err)
	_, n2, err := Encrypt([]byte("same payload"), key, nil)
	require.NoError(t, err)

	assert.NotEqual(t, n1, n2, "two encryptions must use different nonces")
}

func TestDecrypt_AuthenticationFailures(t *testing.T) {
	key := testKey(0x2A)
	aad := []byte("ctx")

	ciphertext, nonce, err := Encrypt([]byte("secret"), key, aad)
	require.NoError(t, err)

	t.Run("wrong key", func(t *testing.T) {
		_, err := Decrypt(ciphertext, testKey(0x2B), nonce, aad)
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("wrong nonce", func(t *testing.T) {
		wrongNonce := bytes.Repeat([]byte{0x00}, NonceSize)
		if bytes.Equal(wrongNonce, nonce) {
			wrongNonce[0] = 0x01
		}
		_, err := Decrypt(ciphertext, key, wrongNonce, aad)
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("wrong aad", func(t *testing.T) {
		_, err := Decrypt(ciphertext, key, nonce, []byte("other"))
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		tampered := append([]byte(nil), ciphertext...)
		tampered[0] ^= 0x01
		_, err := Decrypt(tampered, key, nonce, aad)
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})
}

func TestEncryptDecrypt_LengthValidation(t *testing.T) {
	_, _, err := Encrypt([]byte("x"), []byte("short key"), nil)
	assert.ErrorIs(t, err, ErrInvalidKeySize)

	key := testKey(0x33)
	ciphertext, _, err := Encrypt([]byte("x"), key, nil)
	require.NoError(t, err)

	_, err = Decrypt(ciphertext, key, []byte("bad nonce length"), nil)
	assert.ErrorIs(t, err, ErrInvalidNonceSize)

	_, err = Decrypt(ciphertext, []byte("short"), make([]byte, NonceSize), nil)
	assert.ErrorIs(t, err, ErrInvalidKeySize)
}

func TestWrapUnwrapKey_RoundTrip(t *testing.T) {
	dek, err := GenerateDEK()
	require.NoError(t, err)
	kek := testKey(0x77)

	wrapped, nonce, err := WrapKey(dek, kek)
	require.NoError(t, err)

	unwrapped, err := UnwrapKey(wrapped, kek, nonce)
	require.NoError(t, err)
	assert.Equal(t, dek, unwrapped)

	// Wrong KEK — the usual "wrong master password" path.
	_, err = UnwrapKey(wrapped, testKey(0x78), nonce)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestGenerateDEK_LengthAndRandomness(t *testing.T) {
	d1, err := GenerateDEK()
	require.NoError(t, err)
	d2, err := GenerateDEK()
	require.NoError(t, err)

	assert.Len(t, d1, KeySize)
	assert.Len(t, d2, KeySize)
	assert.NotEqual(t, d1, d2, "two generated DEKs must differ")
}
