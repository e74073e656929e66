// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package http

import "net/http"

// responseData is a snapshot of a completed response, taken so the logging
// middleware can report status and size after the handler returns without
// holding on to the live writer.
type responseData struct {
	status int
	size   int

	// body holds only the slice passed to the most recent Write call,
	// not a concatenation of all writes.
	body []byte
}

// responseWriter decorates [http.ResponseWriter] to record the status code
// and the number of body bytes written. WriteHeader is forwarded to the
// underlying writer at most once; later calls are ignored, per the
// [http.ResponseWriter] contract.
type responseWriter struct {
	http.ResponseWriter

	status      int
	wroteHeader bool
	size        int
	body        []byte
}

func (w *responseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.status = statusCode
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

// Write forwards b to the underlying writer, implying a 200 status when
// WriteHeader was never called. size accumulates across calls; body is
// replaced on each one.
func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	w.body = b
	return n, err
}
