package auth

import (
	"context"
	"time"
)

// TokenService defines operations for issuing and verifying the signed,
// time-limited tokens that carry an identity claim and a scope list.
// Implementations are stateless and pure given their signing key and
// clock: no token is ever stored server-side, so validity is entirely a
// function of signature and expiry at verification time.
type TokenService interface {
	// IssueAccessToken creates a signed access token for the subject
	// carrying the given scopes.
	IssueAccessToken(ctx context.Context, subject string, scopes []string) (string, error)

	// IssueRefreshToken creates a signed refresh token for the subject.
	// Refresh tokens have a longer lifetime and carry no scopes.
	IssueRefreshToken(ctx context.Context, subject string) (string, error)

	// ValidateAccessToken verifies the access token's signature and expiry
	// and returns its claims. Fails with ErrExpiredToken past expiry and
	// ErrInvalidToken on a malformed token or bad signature.
	ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error)

	// ValidateRefreshToken verifies a refresh token and returns its
	// claims. Fails with ErrExpiredRefreshToken and ErrInvalidRefreshToken
	// analogously to access validation, and with ErrWrongTokenType when an
	// access token is presented instead.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the verified content of a token: who it was issued for, what
// the bearer may do, and when it stops being valid. It is the decoded
// result handed to callers, never re-serialized; the wire encoding lives
// on the implementation's claims struct.
type Claims struct {
	// Subject is the email of the user the token was issued for.
	Subject string

	// Scopes are the named permission units granted to the bearer.
	// Always empty on refresh tokens.
	Scopes []string

	// TokenType indicates the purpose of the token ("access" or "refresh").
	// Used to prevent token misuse across different contexts.
	TokenType string

	// Standard registered JWT claims
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// HasScope reports whether the given scope was granted to the bearer.
func (c *Claims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
