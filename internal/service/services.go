// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package service

import (
	"fmt"

	"github.com/dkorchagin/vaultguard/internal/config"
	"github.com/dkorchagin/vaultguard/internal/logger"
	"github.com/dkorchagin/vaultguard/internal/store"
)

// Services groups every service the transport layer depends on.
type Services struct {
	AuthService    AuthService
	AppInfoService AppInfoService
	RateLimiter    RateLimiter
}

// NewServices wires the service layer together.
func NewServices(repos *store.Repositories, sessions SessionStore, limiter RateLimiter, cfg *config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	authService, err := NewAuthService(repos.UserRepository, sessions, cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating auth service: %w", err)
	}

	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	return &Services{
		AuthService:    authService,
		AppInfoService: appInfoService,
		RateLimiter:    limiter,
	}, nil
}
