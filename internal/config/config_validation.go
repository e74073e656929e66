// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package config

// validate checks that the final merged [StructuredConfig] satisfies the
// invariants the server cannot start without. Secrets are checked for
// presence only; their values are never echoed back in errors or logs.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.VerifierPepper == "" {
		return ErrMissingVerifierPepper
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrMissingDatabaseDSN
	}

	if cfg.Redis.Address == "" {
		return ErrMissingRedisAddress
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrMissingServerAddress
	}

	return nil
}

// validate checks that the client config view carries enough to reach the
// server.
func (cfg *ClientConfig) validate() error {
	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	return nil
}
