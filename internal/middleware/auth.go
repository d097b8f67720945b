package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"meridian/internal/auth"
	"meridian/internal/domain/models"
	"meridian/internal/httputil"
)

// userLookup resolves the token subject (the user's email, per the token
// claim shape) to the user record whose id scopes every owned resource.
type userLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Auth validates the bearer token on every request, resolves its subject
// claim to a user record, and injects the user's id into the request
// context. Requests without a valid token, or whose subject no longer
// resolves to an active user, never reach the handler chain.
func Auth(verifier auth.JWTVerifier, users userLookup, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("token verification failed", "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			user, err := users.GetByEmail(r.Context(), claims.Subject)
			if err != nil || !user.IsActive {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			r = httputil.WithUserID(r, user.ID)
			next.ServeHTTP(w, r)
		})
	}
}
