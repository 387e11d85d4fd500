package web

// errors.go turns service errors into the JSON envelope.
//
// Every handler converts failures at its own boundary:
//  1. Handler gets an error from core.Service
//  2. Calls respondError(w, r, err, fallback)
//  3. statusFor picks the HTTP status from the error taxonomy
//  4. core.MapError supplies the user message and code
//  5. The technical error is logged with the request ID
//
// Raw error text only reaches the client for storage failures, in the
// "error" field, next to the endpoint's fallback message.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/BloodBank/internal/core"
	"github.com/JonMunkholm/BloodBank/internal/logging"
)

// envelope is the response body: success, message, and at most one
// payload key, plus code and error on failures.
type envelope map[string]any

func success(message string) envelope {
	return envelope{"success": true, "message": message}
}

func (e envelope) with(key string, payload any) envelope {
	e[key] = payload
	return e
}

// respondError logs err and writes the failure envelope.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	body := envelope{
		"success": false,
		"message": messageFor(err, status, userMsg, fallback),
		"code":    userMsg.Code,
	}
	if status >= http.StatusInternalServerError {
		body["error"] = err.Error()
	}
	writeJSON(w, status, body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInsufficientStock), errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, core.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error, status int, userMsg core.UserMessage, fallback string) string {
	switch {
	case status >= http.StatusInternalServerError:
		return fallback
	case errors.Is(err, core.ErrUnauthorized):
		return "Unauthorized Role"
	case errors.Is(err, core.ErrValidation):
		// Validation text is written for clients.
		return strings.TrimPrefix(err.Error(), core.ErrValidation.Error()+": ")
	default:
		return userMsg.Message
	}
}

// writeJSON encodes v as JSON with the given status.
// Encoding errors are only logged since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
