// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package http

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/dkorchagin/vaultguard/internal/config"
	"github.com/dkorchagin/vaultguard/internal/logger"
	"github.com/dkorchagin/vaultguard/internal/utils"
)

// Rate-limit scopes. Each scope has its own counter per client, so
// exhausting the login budget never blocks registration or the rest of
// the API.
const (
	ScopeLogin    = "login"
	ScopeRegister = "register"
	ScopeRecover  = "recover"
	ScopeAPI      = "api"
)

// withRateLimit returns a middleware enforcing the given fixed-window policy
// for one scope. The client is identified by its remote IP. The standard
// X-RateLimit headers are set on every response; exceeded budgets get 429
// with a Retry-After hint.
func (h *Handler) withRateLimit(scope string, rate config.Rate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromRequest(r)

			decision := h.services.RateLimiter.Check(r.Context(), scope, clientIP(r), int64(rate.Limit), rate.Window)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rate.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

			if !decision.Allowed {
				log.Warn().Str("scope", scope).Msg("rate limit exceeded")

				retryAfter := int64(time.Until(decision.ResetAt).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
				utils.WriteJSON(w, errorResponse{
					Code:              CodeRateLimited,
					Message:           codeMessages[CodeRateLimited],
					RetryAfterSeconds: retryAfter,
				}, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from the request's remote address. RemoteAddr is
// always host:port for connections accepted by net/http; the raw value is
// kept as a fallback for tests that set it directly.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
