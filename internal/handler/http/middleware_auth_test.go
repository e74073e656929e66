// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dkorchagin/vaultguard/internal/service"
	"github.com/dkorchagin/vaultguard/internal/utils"
	"github.com/dkorchagin/vaultguard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nextHandlerRecorder captures whether the wrapped handler ran and which
// user ID it saw in the request context.
type nextHandlerRecorder struct {
	called bool
	userID int64
	hasID  bool
}

func (n *nextHandlerRecorder) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n.called = true
		n.userID, n.hasID = utils.GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	auth := &mockAuthService{
		authenticateFn: func(_ context.Context, token string) (models.Session, error) {
			assert.Equal(t, "tok-valid", token)
			return models.Session{Token: token, UserID: 42}, nil
		},
	}
	h := newHandlerWithAuth(t, auth)

	next := &nextHandlerRecorder{}
	req := httptest.NewRequest(http.MethodGet, "/api/user/whoami", nil)
	req.Header.Set("Authorization", "Bearer tok-valid")
	rec := httptest.NewRecorder()

	h.auth(next.handler()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, next.called)
	assert.True(t, next.hasID)
	assert.Equal(t, int64(42), next.userID)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	h := newHandlerWithAuth(t, &mockAuthService{})

	next := &nextHandlerRecorder{}
	req := httptest.NewRequest(http.MethodGet, "/api/user/whoami", nil)
	rec := httptest.NewRecorder()

	h.auth(next.handler()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, next.called)
	assert.Equal(t, CodeInvalidCredentials, decodeErrorResponse(t, rec).Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	h := newHandlerWithAuth(t, &mockAuthService{})

	next := &nextHandlerRecorder{}
	req := httptest.NewRequest(http.MethodGet, "/api/user/whoami", nil)
	req.Header.Set("Authorization", "Bearer")
	rec := httptest.NewRecorder()

	h.auth(next.handler()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, next.called)
}

func TestAuthMiddleware_RejectedToken(t *testing.T) {
	auth := &mockAuthService{
		authenticateFn: func(_ context.Context, _ string) (models.Session, error) {
			return models.Session{}, service.ErrTokenIsExpiredOrInvalid
		},
	}
	h := newHandlerWithAuth(t, auth)

	next := &nextHandlerRecorder{}
	req := httptest.NewRequest(http.MethodGet, "/api/user/whoami", nil)
	req.Header.Set("Authorization", "Bearer tok-dead")
	rec := httptest.NewRecorder()

	h.auth(next.handler()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, next.called)
}

func TestGetTokenFromAuthHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "valid bearer", header: "Bearer abc123", want: "abc123"},
		{name: "missing token", header: "Bearer", wantErr: ErrInvalidAuthorizationHeader},
		{name: "empty token", header: "Bearer ", wantErr: ErrEmptyToken},
		{name: "no scheme", header: "abc123", wantErr: ErrInvalidAuthorizationHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := getTokenFromAuthHeader(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
