// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// errorBody is the JSON error envelope returned by the server on non-2xx
// responses.
type errorBody struct {
	Code              string `json:"code"`
	Message           string `json:"message"`
	RetryAfterSeconds int64  `json:"retry_after_seconds"`
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	detail := strings.TrimSpace(string(resp.Body()))
	var body errorBody
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Message != "" {
		detail = body.Message
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, detail)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, detail)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, detail)
	case http.StatusLocked:
		if body.RetryAfterSeconds > 0 {
			return fmt.Errorf("%w: %s (retry after %ds)", ErrAccountLocked, detail, body.RetryAfterSeconds)
		}
		return fmt.Errorf("%w: %s", ErrAccountLocked, detail)
	case http.StatusTooManyRequests:
		if body.RetryAfterSeconds > 0 {
			return fmt.Errorf("%w: %s (retry after %ds)", ErrRateLimited, detail, body.RetryAfterSeconds)
		}
		return fmt.Errorf("%w: %s", ErrRateLimited, detail)
	default:
		if resp.StatusCode() >= http.StatusInternalServerError {
			return fmt.Errorf("%w: %s", ErrInternalServerError, detail)
		}
		if detail == "" {
			detail = http.StatusText(resp.StatusCode())
		}
		return fmt.Errorf("http %d: %s", resp.StatusCode(), detail)
	}
}
