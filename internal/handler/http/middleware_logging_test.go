// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkorchagin/vaultguard/internal/logger"
)

// serveLogged runs one request through withLogging with a buffer-backed
// logger injected into the request context, the same way withTraceID does it
// in the real pipeline.
func serveLogged(t *testing.T, method, target string, next http.HandlerFunc) string {
	t.Helper()

	var buf bytes.Buffer
	l := zerolog.New(&buf)

	h := &Handler{logger: logger.Nop()}
	req := httptest.NewRequest(method, target, nil)
	req = req.WithContext(l.WithContext(req.Context()))

	rr := httptest.NewRecorder()
	h.withLogging(next).ServeHTTP(rr, req)

	return buf.String()
}

// TestWithLogging_RecordsRequestLine verifies that method, URI, status, size
// and a duration field all land in the access log entry.
func TestWithLogging_RecordsRequestLine(t *testing.T) {
	out := serveLogged(t, http.MethodPost, "/api/user/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"INVALID_CREDENTIALS"}`))
	})

	assert.Contains(t, out, `"method":"POST"`)
	assert.Contains(t, out, `"uri":"/api/user/login"`)
	assert.Contains(t, out, `"status":401`)
	assert.Contains(t, out, `"size":30`)
	assert.Contains(t, out, `"duration":`)
}

// TestWithLogging_ImplicitOKAndEmptyBody verifies the defaults when a
// handler writes neither a header nor a body.
func TestWithLogging_ImplicitOKAndEmptyBody(t *testing.T) {
	out := serveLogged(t, http.MethodPost, "/api/user/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	assert.Contains(t, out, `"status":204`)
	assert.Contains(t, out, `"size":0`)
}

// TestWithLogging_QueryStringPreserved verifies the logged URI keeps the
// raw query string.
func TestWithLogging_QueryStringPreserved(t *testing.T) {
	out := serveLogged(t, http.MethodGet, "/api/version/?verbose=1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("1.2.3"))
	})

	assert.Contains(t, out, `"uri":"/api/version/?verbose=1"`)
}

// TestWithLogging_PassesBodyThrough verifies the middleware never alters
// what the handler wrote.
func TestWithLogging_PassesBodyThrough(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)

	h := &Handler{logger: logger.Nop()}
	req := httptest.NewRequest(http.MethodGet, "/api/user/whoami", nil)
	req = req.WithContext(l.WithContext(req.Context()))

	rr := httptest.NewRecorder()
	h.withLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user_id":42}`))
	})).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"user_id":42}`, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

// TestWithLogging_OneEntryPerRequest verifies exactly one log line is
// emitted per request.
func TestWithLogging_OneEntryPerRequest(t *testing.T) {
	out := serveLogged(t, http.MethodGet, "/api/version/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	assert.Equal(t, 1, bytes.Count([]byte(out), []byte("\n")))
}
