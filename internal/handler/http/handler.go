// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package http

import (
	"github.com/dkorchagin/vaultguard/internal/config"
	"github.com/dkorchagin/vaultguard/internal/logger"
	"github.com/dkorchagin/vaultguard/internal/service"
)

type Handler struct {
	services *service.Services

	rateLimits config.RateLimits

	logger *logger.Logger
}

func NewHandler(services *service.Services, rateLimits config.RateLimits, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:   services,
		rateLimits: rateLimits,
		logger:     logger,
	}
}
