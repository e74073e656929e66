// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package main

import (
	"context"
	"fmt"

	"github.com/dkorchagin/vaultguard/internal/cache"
	"github.com/dkorchagin/vaultguard/internal/config"
	"github.com/dkorchagin/vaultguard/internal/handler"
	"github.com/dkorchagin/vaultguard/internal/logger"
	"github.com/dkorchagin/vaultguard/internal/ratelimit"
	"github.com/dkorchagin/vaultguard/internal/server"
	"github.com/dkorchagin/vaultguard/internal/service"
	"github.com/dkorchagin/vaultguard/internal/session"
	"github.com/dkorchagin/vaultguard/internal/store"
	"github.com/dkorchagin/vaultguard/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("vaultguard-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	// config carries the verifier pepper and cache password, so only the
	// addresses are safe to echo
	log.Debug().
		Str("http_address", cfg.Server.HTTPAddress).
		Str("redis_address", cfg.Redis.Address).
		Msg("received configs")

	ctx := context.Background()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = migrations.Migrate(db.DB); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	redisCache, err := cache.NewRedisCache(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to redis")
	}
	defer redisCache.Close()

	repos := store.NewRepositories(db, log)
	sessions := session.NewStore(redisCache, cfg.App.SessionTTL, log)
	limiter := ratelimit.NewLimiter(redisCache, log)

	services, err := service.NewServices(repos, sessions, limiter, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
