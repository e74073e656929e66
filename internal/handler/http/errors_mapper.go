// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/dkorchagin/vaultguard/internal/crypto"
	"github.com/dkorchagin/vaultguard/internal/logger"
	"github.com/dkorchagin/vaultguard/internal/service"
	"github.com/dkorchagin/vaultguard/internal/store"
	"github.com/dkorchagin/vaultguard/internal/utils"
)

// Machine-readable error codes returned in every error response body.
const (
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountLocked      = "ACCOUNT_LOCKED"
	CodeValidationError    = "VALIDATION_ERROR"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL"
)

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// RetryAfterSeconds is set only for ACCOUNT_LOCKED and RATE_LIMITED
	// responses; it mirrors the Retry-After header.
	RetryAfterSeconds int64 `json:"retry_after_seconds,omitempty"`
}

type errorMapping struct {
	status int
	code   string
}

var errorStatusMap = map[error]errorMapping{
	service.ErrInvalidDataProvided:     {http.StatusBadRequest, CodeValidationError},
	crypto.ErrWeakKDFParams:            {http.StatusBadRequest, CodeValidationError},
	crypto.ErrEmptySalt:                {http.StatusBadRequest, CodeValidationError},
	service.ErrInvalidCredentials:      {http.StatusUnauthorized, CodeInvalidCredentials},
	service.ErrTokenIsExpiredOrInvalid: {http.StatusUnauthorized, CodeInvalidCredentials},
	service.ErrAccountLocked:           {http.StatusLocked, CodeAccountLocked},
	service.ErrVersionIsNotSpecified:   {http.StatusBadRequest, CodeValidationError},

	store.ErrEmailAlreadyExists: {http.StatusConflict, CodeEmailExists},

	store.ErrBuildingSQLQuery:   {http.StatusInternalServerError, CodeInternal},
	store.ErrExecutingStatement: {http.StatusInternalServerError, CodeInternal},
	store.ErrScanningRow:        {http.StatusInternalServerError, CodeInternal},
	store.ErrUserNotUpdated:     {http.StatusInternalServerError, CodeInternal},
}

func mapError(err error) errorMapping {
	for target, mapping := range errorStatusMap {
		if errors.Is(err, target) {
			return mapping
		}
	}
	return errorMapping{http.StatusInternalServerError, CodeInternal}
}

// messages safe to return to clients, keyed by code. Infrastructure detail
// stays in the server logs only.
var codeMessages = map[string]string{
	CodeEmailExists:        "email already registered",
	CodeInvalidCredentials: "invalid credentials",
	CodeAccountLocked:      "account temporarily locked",
	CodeValidationError:    "invalid request data",
	CodeRateLimited:        "too many requests",
	CodeInternal:           "internal server error",
}

// writeError translates a service-layer error into the uniform error
// response. The original error is logged with full detail; the body carries
// only the generic code and message so infrastructure failures and
// credential probes leak nothing.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)
	mapping := mapError(err)

	resp := errorResponse{
		Code:    mapping.code,
		Message: codeMessages[mapping.code],
	}

	if locked, ok := service.AsAccountLocked(err); ok {
		seconds := int64(math.Ceil(locked.RetryAfter.Seconds()))
		if seconds < 1 {
			seconds = 1
		}
		resp.RetryAfterSeconds = seconds
		w.Header().Set("Retry-After", strconv.FormatInt(seconds, 10))
	}

	if mapping.status >= http.StatusInternalServerError {
		log.Err(err).Msg("request failed")
	} else {
		log.Warn().Err(err).Str("code", mapping.code).Msg("request rejected")
	}

	utils.WriteJSON(w, resp, mapping.status)
}
