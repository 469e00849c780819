package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NewTestTokenService creates a token service with an injectable time
// function and no clock-skew leeway, for predictable expiry behavior in
// tests. Production code should use NewTokenService.
func NewTestTokenService(
	secret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	timeFunc func() time.Time,
) TokenService {
	return &hmacTokenService{
		signingKey: []byte(secret),
		method:     jwt.SigningMethodHS256,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		timeFunc:   timeFunc,
		clockSkew:  0,
	}
}
