// Package middleware provides HTTP middleware for the account service's
// routes, most importantly bearer-token authentication with per-route
// scope requirements.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/treelinelabs/accounts-api/internal/api/shared"
	"github.com/treelinelabs/accounts-api/internal/domain"
	"github.com/treelinelabs/accounts-api/internal/service"
)

// AuthMiddleware resolves bearer tokens to users and enforces per-route
// scope requirements.
type AuthMiddleware struct {
	userService *service.UserService
	logger      *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(userService *service.UserService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		userService: userService,
		logger:      logger.With("component", "auth_middleware"),
	}
}

// RequireScopes returns middleware that validates the Authorization
// bearer token, checks every listed scope against the token's grants,
// and stores the resolved user in the request context. The checks and
// their failure kinds are those of UserService.AuthenticateRequest.
func (m *AuthMiddleware) RequireScopes(scopes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				shared.RespondWithAuthError(w, r, http.StatusUnauthorized, "Authorization header required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				shared.RespondWithAuthError(w, r, http.StatusUnauthorized, "Invalid authorization format")
				return
			}

			user, err := m.userService.AuthenticateRequest(r.Context(), parts[1], scopes)
			if err != nil {
				m.respondAuthFailure(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), shared.UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m *AuthMiddleware) respondAuthFailure(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		shared.RespondWithAuthError(w, r, http.StatusUnauthorized, "Could not validate credentials")
	case errors.Is(err, service.ErrInsufficientScope):
		shared.RespondWithAuthError(w, r, http.StatusUnauthorized, "Not enough permissions")
	case errors.Is(err, service.ErrInactiveAccount):
		shared.RespondWithError(w, r, http.StatusBadRequest, "Inactive user")
	default:
		m.logger.Error("failed to authenticate request", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
	}
}

// CurrentUser extracts the authenticated user from the request context.
// Returns the user and a boolean indicating if it was found.
func CurrentUser(r *http.Request) (*domain.User, bool) {
	user, ok := r.Context().Value(shared.UserContextKey).(*domain.User)
	return user, ok
}
