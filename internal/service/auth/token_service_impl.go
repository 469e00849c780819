package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/treelinelabs/accounts-api/internal/platform/logger"
)

// Token type claim values.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// hmacTokenService is an implementation of TokenService using HMAC-SHA signing.
type hmacTokenService struct {
	signingKey []byte
	method     *jwt.SigningMethodHMAC
	accessTTL  time.Duration
	refreshTTL time.Duration
	timeFunc   func() time.Time // Injectable for testing
	clockSkew  time.Duration    // Allowed time difference for validation to handle clock drift
}

// tokenClaims defines the structure of the JWT claims we use.
type tokenClaims struct {
	Scopes    []string `json:"scopes,omitempty"`
	TokenType string   `json:"type"`
	jwt.RegisteredClaims
}

// Ensure hmacTokenService implements TokenService interface
var _ TokenService = (*hmacTokenService)(nil)

// NewTokenService creates a new token service using HMAC-SHA signing.
// algorithm names the signing method ("HS256", "HS384", or "HS512");
// accessTTL and refreshTTL are the independent lifetimes of the two token
// kinds.
func NewTokenService(
	secret string,
	algorithm string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) (TokenService, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("signing secret must be at least 32 characters")
	}

	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok || method == nil {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}

	return &hmacTokenService{
		signingKey: []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		timeFunc:   time.Now,
		clockSkew:  2 * time.Minute, // Tolerate minor clock drift between issuer and verifier
	}, nil
}

// IssueAccessToken creates a signed access token carrying the subject and
// the granted scopes.
func (s *hmacTokenService) IssueAccessToken(
	ctx context.Context,
	subject string,
	scopes []string,
) (string, error) {
	return s.issue(ctx, tokenTypeAccess, subject, scopes, s.accessTTL)
}

// IssueRefreshToken creates a signed refresh token carrying only the
// subject. The scope list is always empty on refresh tokens.
func (s *hmacTokenService) IssueRefreshToken(ctx context.Context, subject string) (string, error) {
	return s.issue(ctx, tokenTypeRefresh, subject, nil, s.refreshTTL)
}

func (s *hmacTokenService) issue(
	ctx context.Context,
	tokenType string,
	subject string,
	scopes []string,
	ttl time.Duration,
) (string, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	claims := tokenClaims{
		Scopes:    scopes,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.New().String(), // Unique token ID
		},
	}

	token := jwt.NewWithClaims(s.method, claims)
	signedToken, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign token",
			"error", err,
			"token_type", tokenType,
			"signing_method", s.method.Name)
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	return signedToken, nil
}

// ValidateAccessToken validates an access token and returns its claims.
// It verifies the token has type "access" and returns ErrWrongTokenType if not.
func (s *hmacTokenService) ValidateAccessToken(
	ctx context.Context,
	tokenString string,
) (*Claims, error) {
	return s.validate(ctx, tokenTypeAccess, tokenString, ErrInvalidToken, ErrExpiredToken)
}

// ValidateRefreshToken validates a refresh token and returns its claims.
// It verifies the token has type "refresh" and returns ErrWrongTokenType if not.
func (s *hmacTokenService) ValidateRefreshToken(
	ctx context.Context,
	tokenString string,
) (*Claims, error) {
	return s.validate(ctx, tokenTypeRefresh, tokenString, ErrInvalidRefreshToken, ErrExpiredRefreshToken)
}

func (s *hmacTokenService) validate(
	ctx context.Context,
	tokenType string,
	tokenString string,
	invalidErr error,
	expiredErr error,
) (*Claims, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{s.method.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time {
			return now // Use the injected time function for validation
		}),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&tokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		parserOpts...)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: token expired",
				"error", err,
				"token_type", tokenType)
			return nil, expiredErr
		case errors.Is(err, jwt.ErrTokenMalformed):
			log.Debug("token validation failed: malformed token",
				"error", err,
				"token_type", tokenType)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			log.Debug("token validation failed: invalid signature",
				"error", err,
				"token_type", tokenType)
		default:
			log.Debug("token validation failed: other validation error",
				"error", err,
				"token_type", tokenType,
				"error_type", fmt.Sprintf("%T", err))
		}
		return nil, invalidErr
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		log.Debug("token validation failed: invalid claims",
			"token_type", tokenType)
		return nil, invalidErr
	}

	if claims.TokenType != tokenType {
		log.Debug("token validation failed: wrong token type",
			"expected", tokenType,
			"actual", claims.TokenType)
		return nil, ErrWrongTokenType
	}

	return &Claims{
		Subject:   claims.Subject,
		Scopes:    claims.Scopes,
		TokenType: claims.TokenType,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	}, nil
}
