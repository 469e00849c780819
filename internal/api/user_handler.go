package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/treelinelabs/accounts-api/internal/api/middleware"
	"github.com/treelinelabs/accounts-api/internal/api/shared"
	"github.com/treelinelabs/accounts-api/internal/service"
	"github.com/treelinelabs/accounts-api/internal/store"
)

// UserHandler handles user-related API requests.
type UserHandler struct {
	userService *service.UserService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(userService *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
		logger:      logger.With("component", "user_handler"),
	}
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userService.Register(r.Context(), service.RegisterParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			shared.RespondWithError(w, r, http.StatusUnprocessableEntity,
				"User "+req.Email+" is already registered")
			return
		}
		h.logger.Error("failed to register user", "error", err)
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewUserResponse(user))
}

// Me handles GET /users/me. The authentication middleware has already
// resolved the current user and enforced the "me" scope.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		shared.RespondWithAuthError(w, r, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// MyItems handles GET /users/me/items, the demonstrator for scope
// enforcement: it additionally requires the "items" scope.
func (h *UserHandler) MyItems(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		shared.RespondWithAuthError(w, r, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, []ItemResponse{
		{ItemID: "Foo", Owner: user.Email},
	})
}
