// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/dkorchagin/vaultguard/internal/config"
	"github.com/dkorchagin/vaultguard/internal/logger"
	"github.com/dkorchagin/vaultguard/internal/utils"
	"github.com/dkorchagin/vaultguard/models"
	"github.com/go-resty/resty/v2"
)

// credentialsRequest mirrors the server's register/recover body. Byte fields
// travel base64-encoded (encoding/json's default for []byte).
type credentialsRequest struct {
	Email      string           `json:"email"`
	AuthSecret []byte           `json:"auth_secret"`
	AuthSalt   []byte           `json:"auth_salt"`
	KekSalt    []byte           `json:"kek_salt"`
	WrappedDEK []byte           `json:"wrapped_dek"`
	DEKNonce   []byte           `json:"dek_nonce"`
	KDF        models.KDFParams `json:"kdf"`
}

func toCredentialsRequest(creds models.Credentials) credentialsRequest {
	return credentialsRequest{
		Email:      creds.Email,
		AuthSecret: creds.AuthSecret,
		AuthSalt:   creds.AuthSalt,
		KekSalt:    creds.KekSalt,
		WrappedDEK: creds.WrappedDEK,
		DEKNonce:   creds.DEKNonce,
		KDF:        creds.KDF,
	}
}

// loginRequest mirrors the server's login body.
type loginRequest struct {
	Email      string `json:"email"`
	AuthSecret []byte `json:"auth_secret"`
}

// preLoginRequest mirrors the server's params body.
type preLoginRequest struct {
	Email string `json:"email"`
}

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and configures the underlying HTTP client with the
// resolved base URL and request timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as
// a valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed)
// for use in the Authorization header of all subsequent authenticated
// requests. Safe for concurrent use.
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter]. It returns the bearer token currently
// held by the adapter, or an empty string if none has been set.
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// PreLogin implements [ServerAdapter]. It POSTs email to
// POST /api/user/params and returns the salt and KDF parameters the server
// recorded for the account. Unknown emails receive a server-generated decoy,
// so a successful response never confirms account existence.
func (h *httpServerAdapter) PreLogin(ctx context.Context, email string) (models.PreLoginParams, error) {
	var params models.PreLoginParams

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(preLoginRequest{Email: email}).
		SetResult(&params).
		Post("/api/user/params")
	if err != nil {
		return models.PreLoginParams{}, fmt.Errorf("pre-login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PreLoginParams{}, err
	}

	return params, nil
}

// Register implements [ServerAdapter]. It POSTs the full client-derived
// credential set to POST /api/user/register. On success the returned session
// token is stored via SetToken. Returns [ErrConflict] (wrapped) when the
// email is already registered.
func (h *httpServerAdapter) Register(ctx context.Context, creds models.Credentials) (models.SessionGrant, error) {
	var grant models.SessionGrant

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(toCredentialsRequest(creds)).
		SetResult(&grant).
		Post("/api/user/register")
	if err != nil {
		return models.SessionGrant{}, fmt.Errorf("register request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SessionGrant{}, err
	}

	h.SetToken(grant.Token)
	return grant, nil
}

// Login implements [ServerAdapter]. It POSTs the pre-computed AuthSecret to
// POST /api/user/login. On success the returned session token is stored via
// SetToken and the grant carries the keyset needed to unwrap the DEK.
// Returns [ErrUnauthorized] (wrapped) on wrong credentials and
// [ErrAccountLocked] (wrapped) while a lockout is active.
func (h *httpServerAdapter) Login(ctx context.Context, email string, authSecret []byte) (models.LoginGrant, error) {
	var grant models.LoginGrant

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(loginRequest{Email: email, AuthSecret: authSecret}).
		SetResult(&grant).
		Post("/api/user/login")
	if err != nil {
		return models.LoginGrant{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.LoginGrant{}, err
	}

	h.SetToken(grant.Token)
	return grant, nil
}

// Logout implements [ServerAdapter]. It POSTs to POST /api/user/logout with
// the stored bearer token and clears the token locally. Revocation is
// idempotent on the server side, so calling Logout without a live session is
// not an error.
func (h *httpServerAdapter) Logout(ctx context.Context) error {
	resp, err := h.authedRequest(ctx).Post("/api/user/logout")
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	h.SetToken("")
	return nil
}

// Recover implements [ServerAdapter]. It POSTs a full replacement credential
// set to POST /api/user/recover. On success all previous sessions are dead on
// the server; the fresh token from the grant is stored via SetToken.
func (h *httpServerAdapter) Recover(ctx context.Context, creds models.Credentials) (models.SessionGrant, error) {
	var grant models.SessionGrant

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(toCredentialsRequest(creds)).
		SetResult(&grant).
		Post("/api/user/recover")
	if err != nil {
		return models.SessionGrant{}, fmt.Errorf("recover request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SessionGrant{}, err
	}

	h.SetToken(grant.Token)
	return grant, nil
}

// ServerVersion implements [ServerAdapter]. It GETs GET /api/version/ and
// returns the plain-text version string.
func (h *httpServerAdapter) ServerVersion(ctx context.Context) (string, error) {
	resp, err := h.client.R().SetContext(ctx).Get("/api/version/")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return strings.TrimSpace(string(resp.Body())), nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
