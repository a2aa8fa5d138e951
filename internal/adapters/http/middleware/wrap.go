// Package middleware holds the inbound HTTP pipeline. The server installs it
// in this order:
//
//	Recovery, RequestID, CorrelationID, CORS, OpenTelemetry, Logging, Timeout
//
// Every middleware is a func(http.Handler) http.Handler handed to the chi
// router's Use.
package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// wrap returns w as a chi WrapResponseWriter. When an outer middleware has
// already wrapped it, that wrapper is reused so the whole stack sees one
// status and byte count.
func wrap(w http.ResponseWriter, r *http.Request) chimw.WrapResponseWriter {
	if ww, ok := w.(chimw.WrapResponseWriter); ok {
		return ww
	}
	return chimw.NewWrapResponseWriter(w, r.ProtoMajor)
}

// statusOf reports the status sent through ww. A handler that never wrote
// anything gets the implicit 200 net/http would send.
func statusOf(ww chimw.WrapResponseWriter) int {
	if code := ww.Status(); code != 0 {
		return code
	}
	return http.StatusOK
}
