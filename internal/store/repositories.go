// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package store

import "github.com/dkorchagin/vaultguard/internal/logger"

// Repositories groups every repository the service layer depends on.
type Repositories struct {
	UserRepository UserRepository
}

// NewRepositories wires all repositories to the given database connection.
func NewRepositories(db *DB, logger *logger.Logger) *Repositories {
	return &Repositories{
		UserRepository: NewUserRepository(db, logger),
	}
}
