// Package middleware provides the HTTP middleware chain: request tracing and
// bearer-token authentication.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/woklearn/woklearn-api/internal/api/shared"
	"github.com/woklearn/woklearn-api/internal/redact"
	"github.com/woklearn/woklearn-api/internal/service/auth"
)

// AuthMiddleware provides bearer-token authentication for routes.
type AuthMiddleware struct {
	tokenService auth.TokenService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokenService auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate validates the bearer token from the Authorization header and
// adds the decoded claims to the request context for authorized requests.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.tokenService.ValidateToken(r.Context(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				slog.Error("failed to validate token", "error", redact.Error(err))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdministrator rejects callers whose token does not carry the
// administrator role. It must run after Authenticate. The check uses the
// role embedded at issuance time; a role change takes effect only when the
// user logs in again.
func (m *AuthMiddleware) RequireAdministrator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}

		if err := auth.Authorize(claims, auth.ScopeAdministratorOnly, uuid.Nil); err != nil {
			shared.RespondWithError(w, r, http.StatusForbidden, "Administrator privileges required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetClaims extracts the decoded token claims from the request context.
// Returns the claims and a boolean indicating if they were found.
func GetClaims(r *http.Request) (*auth.Claims, bool) {
	claims, ok := r.Context().Value(shared.UserClaimsContextKey).(*auth.Claims)
	return claims, ok
}

// GetUserID extracts the authenticated caller's user ID from the request
// context. Returns uuid.Nil and false when no claims are attached.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	claims, ok := GetClaims(r)
	if !ok || claims == nil {
		return uuid.Nil, false
	}
	return claims.UserID, true
}
