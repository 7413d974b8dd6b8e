package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fittrack/internal/service"
)

// Authenticator is the token check RequireSession delegates to; satisfied by
// service.AuthService.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (string, error)
}

// RequireSession guards protected routes. The token comes from the
// Authorization header ("Bearer <token>"); a missing header, a bad signature
// and a registry miss are reported separately so the client can distinguish
// a stale local token from a malformed one, but all three are 401.
func RequireSession(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				writeUnauthorized(w, "Missing token")
				return
			}
			userID, err := auth.Authenticate(r.Context(), raw)
			if err != nil {
				if errors.Is(err, service.ErrSessionExpired) {
					writeUnauthorized(w, "Session expired")
					return
				}
				writeUnauthorized(w, "Invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"message":"` + msg + `"}`))
}
