package middleware

import (
	"net/http"
	"strings"

	"github.com/JonMunkholm/BloodBank/internal/core"
)

// UserIDHeader carries the caller's account id, set by the upstream
// authenticator.
const UserIDHeader = "X-User-ID"

// Identity stores the caller id, client IP and user agent on the request
// context. Handlers read them back through the core context helpers.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = core.ContextWithIPAddress(ctx, r.RemoteAddr)
		ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
		if id := strings.TrimSpace(r.Header.Get(UserIDHeader)); id != "" {
			ctx = core.ContextWithActorID(ctx, id)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
