// internal/auth/middleware.go
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bookmanager/internal/logger"
)

type contextKey struct {
	name string
}

var userContextKey = &contextKey{"user"}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the user stored by BasicAuth.
func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userContextKey).(User)
	return user, ok
}

// BasicAuth rejects requests without valid basic credentials.
func BasicAuth(authn *Authenticator, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				unauthorized(w, "Missing Authorization Header")
				return
			}
			email, password, ok := r.BasicAuth()
			if !ok {
				unauthorized(w, "Invalid Authorization Header")
				return
			}

			user, err := authn.Authenticate(r.Context(), email, password)
			if err != nil {
				if errors.Is(err, ErrInvalidCredentials) {
					log.LogEvent("warn", "auth_failed", email, err.Error())
					unauthorized(w, "Invalid credentials")
					return
				}
				log.WithError(err).Error("Authentication lookup failed")
				writeError(w, http.StatusInternalServerError, "Authentication unavailable")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Basic realm="bookmanager", charset="UTF-8"`)
	writeError(w, http.StatusUnauthorized, msg)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
