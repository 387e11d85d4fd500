package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/BloodBank/internal/core"
	"github.com/JonMunkholm/BloodBank/internal/logging"
)

// AdminChecker is satisfied by *core.Service.
type AdminChecker interface {
	RequireAdmin(ctx context.Context, userID string) error
}

// AdminOnly lets the request through only when the caller is an admin.
// Rejections answer 401 and never reach next.
func AdminOnly(guard AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := core.GetActorIDFromContext(r.Context())

			logger := logging.WithFields(r.Context(), "path", r.URL.Path, "user_id", userID)

			err := guard.RequireAdmin(r.Context(), userID)
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, core.ErrUnauthorized):
				logger.Warn("admin: access denied")
				writeFailure(w, http.StatusUnauthorized, "Auth Failed", "AUTH001")
			default:
				logger.Error("admin: check failed", "error", err)
				writeFailure(w, http.StatusUnauthorized, "Auth Failed, ADMIN API", core.MapError(err).Code)
			}
		})
	}
}
