// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package http

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"github.com/dkorchagin/vaultguard/internal/logger"
	"github.com/dkorchagin/vaultguard/internal/service"
	"github.com/dkorchagin/vaultguard/internal/utils"
	"github.com/dkorchagin/vaultguard/models"
)

// validEmailShape reports whether s is a bare RFC 5322 address with no
// display name or angle brackets. The service layer treats the email as an
// opaque identifier, so shape is enforced once here at the boundary.
func validEmailShape(s string) bool {
	trimmed := strings.TrimSpace(s)
	addr, err := mail.ParseAddress(trimmed)
	return err == nil && addr.Address == trimmed
}

// credentialsRequest is the JSON body of register and recover calls.
// Byte fields travel base64-encoded (encoding/json's default for []byte).
type credentialsRequest struct {
	Email      string           `json:"email"`
	AuthSecret []byte           `json:"auth_secret"`
	AuthSalt   []byte           `json:"auth_salt"`
	KekSalt    []byte           `json:"kek_salt"`
	WrappedDEK []byte           `json:"wrapped_dek"`
	DEKNonce   []byte           `json:"dek_nonce"`
	KDF        models.KDFParams `json:"kdf"`
}

func (req credentialsRequest) toCredentials() models.Credentials {
	return models.Credentials{
		Email:      req.Email,
		AuthSecret: req.AuthSecret,
		AuthSalt:   req.AuthSalt,
		KekSalt:    req.KekSalt,
		WrappedDEK: req.WrappedDEK,
		DEKNonce:   req.DEKNonce,
		KDF:        req.KDF,
	}
}

// loginRequest is the JSON body of a login call.
type loginRequest struct {
	Email      string `json:"email"`
	AuthSecret []byte `json:"auth_secret"`
}

// preLoginRequest asks for the derivation parameters recorded for an email.
type preLoginRequest struct {
	Email string `json:"email"`
}

// whoamiResponse echoes the authenticated caller's identity.
type whoamiResponse struct {
	UserID int64 `json:"user_id"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}
	if !validEmailShape(req.Email) {
		log.Warn().Msg("register rejected: identifier is not an email address")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	grant, err := h.services.AuthService.Register(ctx, req.toCredentials())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	log.Info().Int64("id", grant.UserID).Msg("user registered")
	utils.WriteJSON(w, grant, http.StatusOK)
}

// preLogin hands out the salt and KDF parameters a client needs to derive
// its AuthSecret. Unknown emails receive a stable decoy from the service
// layer, so this endpoint is safe to expose without authentication.
func (h *Handler) preLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req preLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}
	if !validEmailShape(req.Email) {
		log.Warn().Msg("prelogin rejected: identifier is not an email address")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	params, err := h.services.AuthService.PreLogin(ctx, req.Email)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, params, http.StatusOK)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}
	if !validEmailShape(req.Email) {
		log.Warn().Msg("login rejected: identifier is not an email address")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	grant, err := h.services.AuthService.Login(ctx, req.Email, req.AuthSecret)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	log.Info().Int64("id", grant.UserID).Msg("user logged in")
	utils.WriteJSON(w, grant, http.StatusOK)
}

// logout revokes the caller's session. It deliberately sits outside the
// auth middleware: revocation is idempotent, so a missing, malformed, or
// already-dead token still yields 204. The caller's intent is satisfied
// either way and the response leaks nothing about token validity.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	token, err := getTokenFromAuthHeader(r.Header.Get("Authorization"))
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.services.AuthService.Logout(r.Context(), token); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) recover(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}
	if !validEmailShape(req.Email) {
		log.Warn().Msg("recover rejected: identifier is not an email address")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	grant, err := h.services.AuthService.Recover(ctx, req.toCredentials())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	log.Info().Int64("id", grant.UserID).Msg("credentials rotated")
	utils.WriteJSON(w, grant, http.StatusOK)
}

func (h *Handler) whoami(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, service.ErrTokenIsExpiredOrInvalid)
		return
	}

	utils.WriteJSON(w, whoamiResponse{UserID: userID}, http.StatusOK)
}
