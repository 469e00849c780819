package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/treelinelabs/accounts-api/internal/api/shared"
	"github.com/treelinelabs/accounts-api/internal/service"
)

// refreshTokenHeader carries the refresh token on the refresh endpoint.
const refreshTokenHeader = "Refresh-Token"

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger.With("component", "auth_handler"),
	}
}

// Token handles POST /auth/token. The request body is the OAuth2
// password-grant form: username, password, and an optional space-separated
// scope list.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "username and password are required")
		return
	}

	scopes := strings.Fields(r.PostFormValue("scope"))

	pair, err := h.authService.Login(r.Context(), username, password, scopes)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Error("login failed", "error", err)
		}
		shared.RespondWithAuthError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, pair)
}

// RefreshToken handles POST /auth/refresh-token. The refresh token is
// carried in the Refresh-Token header.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	refreshToken := r.Header.Get(refreshTokenHeader)
	if refreshToken == "" {
		shared.RespondWithAuthError(w, r, http.StatusUnauthorized, "Refresh-Token header required")
		return
	}

	pair, err := h.authService.Refresh(r.Context(), refreshToken)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidRefreshToken) {
			h.logger.Error("token refresh failed", "error", err)
		}
		shared.RespondWithAuthError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, pair)
}
