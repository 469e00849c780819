package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/treelinelabs/accounts-api/internal/service/auth"
	"github.com/treelinelabs/accounts-api/internal/store"
)

// TokenPair is the result of a successful login or refresh: a short-lived
// access token carrying the granted scopes and a longer-lived refresh
// token carrying none.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService orchestrates credential verification and token refresh. It
// holds no per-request state; every operation opens its own unit of work.
type AuthService struct {
	uowFactory store.UnitOfWorkFactory
	tokens     auth.TokenService
	hasher     auth.PasswordHasher
	logger     *slog.Logger
}

// NewAuthService creates a new AuthService with the given dependencies.
func NewAuthService(
	uowFactory store.UnitOfWorkFactory,
	tokens auth.TokenService,
	hasher auth.PasswordHasher,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		uowFactory: uowFactory,
		tokens:     tokens,
		hasher:     hasher,
		logger:     logger.With("component", "auth_service"),
	}
}

// Login verifies the email/password pair and issues a token pair whose
// access token carries the caller-requested scopes.
//
// Both an unknown email and a wrong password fail with the same
// ErrInvalidCredentials so the response does not reveal whether the
// account exists. The service does not currently check that the user is
// entitled to each requested scope; see DESIGN.md.
func (s *AuthService) Login(
	ctx context.Context,
	username string,
	password string,
	scopes []string,
) (*TokenPair, error) {
	var pair *TokenPair

	err := store.WithUnitOfWork(ctx, s.uowFactory, func(ctx context.Context, uow store.UnitOfWork) error {
		user, err := uow.Users().GetByEmail(ctx, username)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidCredentials
			}
			return fmt.Errorf("failed to look up user for login: %w", err)
		}

		if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
			return ErrInvalidCredentials
		}

		pair, err = s.issuePair(ctx, user.Email, scopes)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.logger.Debug("login rejected", "username", username)
		}
		return nil, err
	}

	s.logger.Info("login succeeded", "username", username)
	return pair, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair. The
// refresh token's own validity is checked before any unit of work is
// opened; the subject lookup then happens inside one scope.
//
// The new pair is issued with an empty scope list: refresh does not
// re-grant the scopes of the original access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		s.logger.Debug("refresh token rejected", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	}

	var pair *TokenPair

	err = store.WithUnitOfWork(ctx, s.uowFactory, func(ctx context.Context, uow store.UnitOfWork) error {
		user, err := uow.Users().GetByEmail(ctx, claims.Subject)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefreshToken
			}
			return fmt.Errorf("failed to look up user for refresh: %w", err)
		}

		pair, err = s.issuePair(ctx, user.Email, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("token pair refreshed", "subject", claims.Subject)
	return pair, nil
}

func (s *AuthService) issuePair(ctx context.Context, subject string, scopes []string) (*TokenPair, error) {
	accessToken, err := s.tokens.IssueAccessToken(ctx, subject, scopes)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, err := s.tokens.IssueRefreshToken(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}
