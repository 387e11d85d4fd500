// Package middleware provides HTTP middleware for the blood bank API.
package middleware

import (
	"net/http"
	"time"

	"github.com/JonMunkholm/BloodBank/internal/core"
	"github.com/JonMunkholm/BloodBank/internal/logging"
)

// Logger writes one structured access-log line per request.
//
// Log fields:
//   - method, path: request line
//   - status: response status code
//   - duration_ms: time spent in the handler chain
//   - ip: client address after TrustedRealIP
//   - user_id: caller identity, when Identity ran first
//   - user_agent: client user agent string
//
// RequestID and Identity must run before Logger so the line carries
// request_id and user_id.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ww, r)

		logging.FromContext(r.Context()).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", r.RemoteAddr,
			"user_id", core.GetActorIDFromContext(r.Context()),
			"user_agent", r.UserAgent(),
		)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.status = status
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
