// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package handler

import (
	"github.com/dkorchagin/vaultguard/internal/config"
	"github.com/dkorchagin/vaultguard/internal/handler/http"
	"github.com/dkorchagin/vaultguard/internal/logger"
	"github.com/dkorchagin/vaultguard/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg *config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.Server.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{
		HTTP: http.NewHandler(services, cfg.RateLimits, logger),
	}, nil
}
