// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration values are missing.
var (
	// ErrMissingVerifierPepper indicates that no verifier pepper was
	// provided by any configuration source.
	ErrMissingVerifierPepper = errors.New("verifier pepper is required")
	// ErrMissingDatabaseDSN indicates an empty database connection string.
	ErrMissingDatabaseDSN = errors.New("database DSN is required")
	// ErrMissingRedisAddress indicates an empty Redis cache address.
	ErrMissingRedisAddress = errors.New("redis address is required")
	// ErrMissingServerAddress indicates an empty HTTP listen address.
	ErrMissingServerAddress = errors.New("server address is required")
	// ErrInvalidAdapterConfigs indicates the client has no usable server
	// address or request timeout.
	ErrInvalidAdapterConfigs = errors.New("invalid client adapter configs")
)
