package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"budget/internal/shared/auth"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller derived from a verified bearer
// token. It is constructed once here and passed through the request
// context; handlers must never re-derive it from raw request state.
type Identity struct {
	UserID int64
	Email  string
}

// IdentityFrom extracts the caller identity placed by Auth. The second
// return is false when the request never passed the auth middleware.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// WithIdentity returns a context carrying the given identity. Exported
// for handler tests.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Auth verifies the bearer credential and attaches the caller identity.
// A missing credential and an invalid one both short-circuit with 401,
// with distinct messages. Token validity alone is sufficient; the user
// store is not consulted here.
func Auth(jwt *auth.JWT) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string

			// Try HttpOnly cookie first (browser requests)
			if cookie, err := r.Cookie("access_token"); err == nil {
				token = cookie.Value
			} else {
				// Fall back to Authorization header (API clients)
				authHeader := r.Header.Get("Authorization")
				if authHeader == "" {
					unauthorized(w, "No token provided. Please log in.")
					return
				}
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || parts[0] != "Bearer" {
					unauthorized(w, "Invalid authorization header format.")
					return
				}
				token = parts[1]
			}

			claims, err := jwt.Validate(token)
			if err != nil {
				unauthorized(w, "Invalid or expired token.")
				return
			}

			identity := Identity{UserID: claims.UserID, Email: claims.Email}
			ctx := WithIdentity(r.Context(), identity)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
