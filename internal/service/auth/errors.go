package auth

import "errors"

// Common authentication service errors.
//
// Invalid and expired are distinct kinds even though the API layer
// surfaces them identically: callers and tests must be able to tell a
// tampered signature from a token that simply aged out.
var (
	// ErrInvalidToken indicates the token is malformed or its signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrInvalidRefreshToken indicates the refresh token is malformed or its signature doesn't match
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrExpiredRefreshToken indicates the refresh token has expired
	ErrExpiredRefreshToken = errors.New("refresh token has expired")

	// ErrWrongTokenType indicates a token was presented in the wrong role,
	// e.g. an access token offered where a refresh token is required
	ErrWrongTokenType = errors.New("wrong token type")
)
