package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/ayush/second-brain/backend/internal/apperr"
	"github.com/ayush/second-brain/backend/internal/httpx"
)

// TokenHeader carries the session token on authenticated requests.
const TokenHeader = "token"

type ctxKey int

const userIDKey ctxKey = iota

// Verifier resolves a session token to a user id.
type Verifier interface {
	Verify(raw string) (string, error)
}

// RequireAuth validates the token header and injects the caller's user id
// into the request context.
func RequireAuth(tokens Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(TokenHeader)
			if raw == "" {
				httpx.Message(w, http.StatusUnauthorized, "Token Missing")
				return
			}

			userID, err := tokens.Verify(raw)
			if err != nil || userID == "" {
				if err != nil && !errors.Is(err, apperr.ErrUnauthenticated) {
					httpx.Message(w, http.StatusInternalServerError, "Server Error!")
					return
				}
				httpx.Message(w, http.StatusUnauthorized, "Invalid Token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user id, or "" when the request
// did not pass RequireAuth.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
