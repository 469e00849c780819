package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/treelinelabs/accounts-api/internal/service"
	"github.com/treelinelabs/accounts-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error kind. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication failures. Invalid credentials is a 400 rather than a
	// 401: the request was well-formed OAuth2 password-grant input that
	// simply failed verification.
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrInsufficientScope):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrInactiveAccount):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, store.ErrConflict):
		return http.StatusUnprocessableEntity

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, store.ErrInvalidQuery),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for the
// error kind. Invalid and expired tokens are deliberately collapsed into
// the same wording so the response reveals nothing about why the token
// was rejected.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Incorrect username or password"

	case errors.Is(err, service.ErrInvalidRefreshToken):
		return "Invalid refresh token"

	case errors.Is(err, service.ErrUnauthenticated):
		return "Could not validate credentials"

	case errors.Is(err, service.ErrInsufficientScope):
		return "Not enough permissions"

	case errors.Is(err, service.ErrInactiveAccount):
		return "Inactive user"

	case errors.Is(err, store.ErrEmailExists):
		return "Email is already registered"

	case errors.Is(err, store.ErrConflict):
		return "Resource already exists"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrInvalidQuery):
		return "Invalid query"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes internal details from validator errors
// and returns a user-friendly message naming the offending field.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'CreateUserRequest.Email' Error:Field
		// validation for 'Email' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	default:
		return "validation failed"
	}
}
