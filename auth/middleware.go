package auth

import (
	"net/http"
	"strings"

	"github.com/santhiya1818/vibescape/apperror"
	"github.com/santhiya1818/vibescape/config"
)

// Middleware validates the bearer token on protected routes and attaches the
// decoded claims to the request context. A missing header is 401; a token
// that fails signature or expiry checks is 401 as well.
func Middleware(cfg *config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, r, apperror.NewAuthError("Access denied. No token provided.", nil))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				WriteError(w, r, apperror.NewAuthError("Authorization header format must be Bearer {token}", nil))
				return
			}

			claims, err := ParseToken(cfg.JWTSecret, parts[1])
			if err != nil {
				WriteError(w, r, apperror.NewAuthError("Invalid token.", err))
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContextWithClaims(r.Context(), claims)))
		})
	}
}

// RequireAdmin rejects requests whose session role is not admin. It must run
// after Middleware in the chain.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("Access denied. No token provided.", nil))
			return
		}
		if claims.Role != RoleAdmin {
			WriteError(w, r, apperror.NewForbiddenError("Access denied. Admin privileges required.", nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}
