package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treelinelabs/accounts-api/internal/service"
	"github.com/treelinelabs/accounts-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusBadRequest},
		{"invalid refresh token", service.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{"unauthenticated", service.ErrUnauthenticated, http.StatusUnauthorized},
		{"insufficient scope", service.ErrInsufficientScope, http.StatusUnauthorized},
		{"inactive account", service.ErrInactiveAccount, http.StatusBadRequest},
		{"conflict", store.ErrConflict, http.StatusUnprocessableEntity},
		{"email exists carries conflict", store.ErrEmailExists, http.StatusUnprocessableEntity},
		{"not found", store.ErrNotFound, http.StatusNotFound},
		{"invalid query", store.ErrInvalidQuery, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"unclassified", fmt.Errorf("boom"), http.StatusInternalServerError},
		{"wrapped sentinel", fmt.Errorf("outer: %w", service.ErrUnauthenticated), http.StatusUnauthorized},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("never echoes internal error text", func(t *testing.T) {
		t.Parallel()

		internal := fmt.Errorf("pq: connection refused host=db-internal-01")
		msg := GetSafeErrorMessage(internal)
		assert.Equal(t, "An unexpected error occurred", msg)
	})

	t.Run("maps known kinds to fixed wording", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Incorrect username or password", GetSafeErrorMessage(service.ErrInvalidCredentials))
		assert.Equal(t, "Not enough permissions", GetSafeErrorMessage(service.ErrInsufficientScope))
		assert.Equal(t, "Inactive user", GetSafeErrorMessage(service.ErrInactiveAccount))
		assert.Equal(t, "Email is already registered", GetSafeErrorMessage(store.ErrEmailExists))
	})
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	v := validator.New()

	t.Run("names the offending field and rule", func(t *testing.T) {
		t.Parallel()

		req := CreateUserRequest{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "not-an-email",
			Password:  "s3cret-password",
		}
		err := v.Struct(req)
		require.Error(t, err)

		msg := SanitizeValidationError(err)
		assert.Contains(t, msg, "Email")
		assert.NotContains(t, msg, "CreateUserRequest", "struct names are internal detail")
	})

	t.Run("falls back to a generic message", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Validation error", SanitizeValidationError(fmt.Errorf("weird error shape")))
	})
}
