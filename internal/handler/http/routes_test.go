// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dkorchagin/vaultguard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoutes_PublicEndpointsReachable drives requests through the full
// router, middleware chain included.
func TestRoutes_PublicEndpointsReachable(t *testing.T) {
	auth := &mockAuthService{
		registerFn: func(_ context.Context, _ models.Credentials) (models.SessionGrant, error) {
			return models.SessionGrant{UserID: 1, Token: "tok"}, nil
		},
		preLoginFn: func(_ context.Context, _ string) (models.PreLoginParams, error) {
			return models.PreLoginParams{AuthSalt: []byte("salt")}, nil
		},
		loginFn: func(_ context.Context, _ string, _ []byte) (models.LoginGrant, error) {
			return models.LoginGrant{SessionGrant: models.SessionGrant{UserID: 1, Token: "tok"}}, nil
		},
		recoverFn: func(_ context.Context, _ models.Credentials) (models.SessionGrant, error) {
			return models.SessionGrant{UserID: 1, Token: "tok"}, nil
		},
	}
	router := newHandlerWithAuth(t, auth).Init()

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodPost, "/api/user/register", `{"email":"a@b.c"}`, http.StatusOK},
		{http.MethodPost, "/api/user/params", `{"email":"a@b.c"}`, http.StatusOK},
		{http.MethodPost, "/api/user/login", `{"email":"a@b.c"}`, http.StatusOK},
		{http.MethodPost, "/api/user/recover", `{"email":"a@b.c"}`, http.StatusOK},
		{http.MethodGet, "/api/version/", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRoutes_LogoutWithoutTokenIsNoContent(t *testing.T) {
	router := newHandlerWithAuth(t, &mockAuthService{}).Init()

	req := httptest.NewRequest(http.MethodPost, "/api/user/logout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRoutes_WhoamiRequiresAuth(t *testing.T) {
	router := newHandlerWithAuth(t, &mockAuthService{}).Init()

	req := httptest.NewRequest(http.MethodGet, "/api/user/whoami", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoutes_WhoamiWithToken(t *testing.T) {
	auth := &mockAuthService{
		authenticateFn: func(_ context.Context, token string) (models.Session, error) {
			return models.Session{Token: token, UserID: 9}, nil
		},
	}
	router := newHandlerWithAuth(t, auth).Init()

	req := httptest.NewRequest(http.MethodGet, "/api/user/whoami", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":9`)
}

// unsupported methods answer 404, not 405, so probing never confirms a
// route exists
func TestRoutes_WrongMethodHidesRoute(t *testing.T) {
	router := newHandlerWithAuth(t, &mockAuthService{}).Init()

	req := httptest.NewRequest(http.MethodGet, "/api/user/login", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutes_RateLimitHeadersPresent(t *testing.T) {
	auth := &mockAuthService{
		preLoginFn: func(_ context.Context, _ string) (models.PreLoginParams, error) {
			return models.PreLoginParams{}, nil
		},
	}
	router := newHandlerWithAuth(t, auth).Init()

	req := httptest.NewRequest(http.MethodPost, "/api/user/params", strings.NewReader(`{"email":"a@b.c"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Remaining"))
}
