package service

import "errors"

// Common service errors - sentinel errors callers check with errors.Is().
// The API layer maps each to an HTTP status code and a sanitized message.
var (
	// ErrInvalidCredentials indicates authentication failed. It is a
	// single generic kind for both "no such user" and "wrong password" so
	// that callers cannot learn which half of the credential was wrong.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrInvalidRefreshToken indicates the presented refresh token was
	// rejected, or its subject no longer resolves to a user. Invalid and
	// expired tokens collapse into this one kind at the service boundary.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrUnauthenticated indicates a bearer token could not be validated
	// or its subject does not resolve to a known user.
	ErrUnauthenticated = errors.New("could not validate credentials")

	// ErrInsufficientScope indicates the token is valid but lacks a scope
	// the operation requires.
	ErrInsufficientScope = errors.New("not enough permissions")

	// ErrInactiveAccount indicates the resolved account has been
	// deactivated, regardless of token validity.
	ErrInactiveAccount = errors.New("inactive user")
)
