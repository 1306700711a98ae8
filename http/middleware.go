package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sagarc03/noteshare"
)

type contextKey string

const userContextKey contextKey = "noteshare.user"

// RequireUser returns middleware that resolves the Authorization bearer token
// against the token store and stores the user id in the request context.
// Requests without a valid token are rejected.
func RequireUser(tokens noteshare.TokenStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || token == "" {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "Missing bearer token")
				return
			}

			userID, err := tokens.Lookup(token)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "Invalid bearer token")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFrom returns the authenticated user id stored by RequireUser.
func UserFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userContextKey).(uuid.UUID)
	return id, ok
}
