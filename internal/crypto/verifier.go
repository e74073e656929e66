// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
)

// ComputeVerifier applies the keyed one-way transform that converts a
// client-derived AuthSecret into the value persisted server-side:
// HMAC-SHA256 keyed by the process-wide pepper.
//
// The pepper never leaves the server, so a datastore dump alone does not
// yield a crackable password-equivalent, and the pepper alone is useless
// without the datastore.
func ComputeVerifier(authSecret, pepper []byte) []byte {
	mac := hmac.New(sha256.New, pepper)
	mac.Write(authSecret)
	return mac.Sum(nil)
}

// VerifierMatch compares two verifiers in constant time. Length is checked
// first (length leakage is accepted as non-sensitive); the byte comparison
// never short-circuits on a mismatching byte.
func VerifierMatch(a, b []byte) bool {
	return hmac.Equal(a, b)
}
