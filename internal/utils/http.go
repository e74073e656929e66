// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// WriteJSON marshals data, sets the application/json content type, writes
// statusCode, and sends the body. It returns the number of body bytes
// written. A marshal failure answers 500 and returns the wrapped error; the
// intended status is never sent in that case because nothing has been
// written yet.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}
