package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// failure is the envelope written when middleware rejects a request.
type failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func writeFailure(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(failure{Message: message, Code: code}); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
