package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "evently/internal/delivery/http/helpers"
	"evently/internal/domain"
)

type contextKey string

const externalUserIDKey contextKey = "externalUserID"

// SetExternalUserID returns a context with the external user id set. Used by auth middleware.
func SetExternalUserID(ctx context.Context, externalID string) context.Context {
	return context.WithValue(ctx, externalUserIDKey, externalID)
}

// ExternalUserIDFromContext returns the authenticated user's external id from
// the context, if present. This is the identity-provider id, not the local
// user id; services resolve it to a local user.
func ExternalUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(externalUserIDKey).(string)
	return id, ok
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the
// external user id in the request context. If the token is missing or
// invalid, it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			externalID, err := verifier.Verify(token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetExternalUserID(r.Context(), externalID))
			next(w, r)
		}
	}
}
