// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package store

const (
	createUser = `INSERT INTO users (email, auth_verifier, auth_salt, kek_salt, wrapped_dek, dek_nonce,
    kdf_iterations, kdf_memory_kib, kdf_parallelism, kdf_key_length)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    RETURNING user_id, created_at;`

	findUserByEmail = `SELECT user_id, email, auth_verifier, auth_salt, kek_salt, wrapped_dek, dek_nonce,
    kdf_iterations, kdf_memory_kib, kdf_parallelism, kdf_key_length,
    failed_login_attempts, locked_until, created_at
    FROM users
    WHERE email = $1;`
)
