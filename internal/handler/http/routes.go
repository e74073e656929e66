// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization, each behind its own rate-limit scope
	router.Group(func(r chi.Router) {
		r.With(h.withRateLimit(ScopeRegister, h.rateLimits.Register)).
			Post("/api/user/register", h.register)
		// params shares the api scope: burning the strict login budget on
		// salt fetches would halve the real attempts a user gets
		r.With(h.withRateLimit(ScopeAPI, h.rateLimits.API)).
			Post("/api/user/params", h.preLogin)
		r.With(h.withRateLimit(ScopeLogin, h.rateLimits.Login)).
			Post("/api/user/login", h.login)
		r.With(h.withRateLimit(ScopeRecover, h.rateLimits.Recover)).
			Post("/api/user/recover", h.recover)
		r.With(h.withRateLimit(ScopeAPI, h.rateLimits.API)).
			Get("/api/version/", h.getServerVersion)
		// logout is idempotent and must succeed for dead tokens too,
		// so it stays outside the auth middleware
		r.With(h.withRateLimit(ScopeAPI, h.rateLimits.API)).
			Post("/api/user/logout", h.logout)
	})

	// routes requiring a valid session token
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/api/user/whoami", h.whoami)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
