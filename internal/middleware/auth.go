// internal/middleware/auth.go
package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dangerclosesec/socioplus/internal/auth"
	"github.com/dangerclosesec/socioplus/internal/model"
)

// TokenCookie is the cookie a session token may also be carried in.
const TokenCookie = "token"

// AuthMiddleware rejects requests without a valid session token and puts the
// caller's auth.Identity on the request context.
func AuthMiddleware(authService *auth.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := extractToken(r)
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, err.Error())
				return
			}

			identity, err := authService.IdentityFromToken(token)
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}

// OptionalAuth attaches the identity when a valid token is present and lets
// anonymous requests through untouched.
func OptionalAuth(authService *auth.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := extractToken(r)
			if err == nil {
				if identity, err := authService.IdentityFromToken(token); err == nil {
					r = r.WithContext(auth.WithIdentity(r.Context(), identity))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole allows only callers with the given role. It must run after
// AuthMiddleware.
func RequireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := auth.IdentityFromContext(r.Context())
			if !identity.IsAuthenticated() {
				respondWithError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if identity.Role != role {
				respondWithError(w, http.StatusForbidden, "Access denied. "+roleLabel(role)+" only.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type tokenError string

func (e tokenError) Error() string { return string(e) }

func extractToken(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", tokenError("Invalid authorization header")
		}
		return parts[1], nil
	}

	if cookie, err := r.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", tokenError("No authorization header")
}

func roleLabel(role model.Role) string {
	switch role {
	case model.RoleVolunteer:
		return "Volunteers"
	case model.RoleOrganization:
		return "Organizations"
	default:
		return string(role)
	}
}

// respondWithError sends a JSON error response
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]interface{}{"ok": false, "error": message})
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
