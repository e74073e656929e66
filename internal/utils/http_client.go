// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package utils

import (
	"github.com/go-resty/resty/v2"
)

// HTTPClient wraps resty.Client by embedding, so the full resty API is
// available while leaving room for application-specific helpers. The API
// adapter configures one of these with the upstream base URL and timeout.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an HTTPClient around a freshly constructed
// resty.Client. Each call yields an independent instance with its own
// connection pool and settings.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: resty.New()}
}
