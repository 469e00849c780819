package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/treelinelabs/accounts-api/internal/domain"
	"github.com/treelinelabs/accounts-api/internal/service/auth"
	"github.com/treelinelabs/accounts-api/internal/store"
)

// RegisterParams carries the fields of a registration request. Password
// is plaintext here and nowhere else: it is hashed before the domain
// entity is constructed and never logged or persisted.
type RegisterParams struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UserService orchestrates account creation and current-user resolution.
type UserService struct {
	uowFactory store.UnitOfWorkFactory
	tokens     auth.TokenService
	hasher     auth.PasswordHasher
	logger     *slog.Logger
}

// NewUserService creates a new UserService with the given dependencies.
func NewUserService(
	uowFactory store.UnitOfWorkFactory,
	tokens auth.TokenService,
	hasher auth.PasswordHasher,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		uowFactory: uowFactory,
		tokens:     tokens,
		hasher:     hasher,
		logger:     logger.With("component", "user_service"),
	}
}

// Register creates a new account. The password is hashed with bcrypt, the
// user starts active and unverified, and the insert runs inside one
// committed unit of work. A duplicate email fails with a conflict naming
// the email; the returned user never carries the plaintext password.
func (s *UserService) Register(ctx context.Context, params RegisterParams) (*domain.User, error) {
	hashedPassword, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := domain.NewUser(params.FirstName, params.LastName, params.Email, hashedPassword)
	if err != nil {
		return nil, fmt.Errorf("invalid registration data: %w", err)
	}

	var created *domain.User

	err = store.WithUnitOfWork(ctx, s.uowFactory, func(ctx context.Context, uow store.UnitOfWork) error {
		created, err = uow.Users().Add(ctx, user)
		if err != nil {
			return err
		}
		return uow.Commit(ctx)
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			s.logger.Debug("registration rejected: email already registered",
				"email", params.Email)
			return nil, fmt.Errorf("user %s is already registered: %w", params.Email, err)
		}
		s.logger.Error("failed to register user",
			"error", err,
			"email", params.Email)
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("user registered",
		"user_id", created.ID,
		"email", created.Email)

	return created, nil
}

// AuthenticateRequest resolves a bearer token to the current user,
// enforcing the required scopes. The checks run in a fixed order, each a
// distinct failure kind:
//
//  1. signature and expiry   -> ErrUnauthenticated
//  2. subject existence      -> ErrUnauthenticated
//  3. scope sufficiency      -> ErrInsufficientScope
//  4. account active status  -> ErrInactiveAccount
func (s *UserService) AuthenticateRequest(
	ctx context.Context,
	bearerToken string,
	requiredScopes []string,
) (*domain.User, error) {
	claims, err := s.tokens.ValidateAccessToken(ctx, bearerToken)
	if err != nil {
		s.logger.Debug("bearer token rejected", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	var user *domain.User

	err = store.WithUnitOfWork(ctx, s.uowFactory, func(ctx context.Context, uow store.UnitOfWork) error {
		user, err = uow.Users().GetByEmail(ctx, claims.Subject)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUnauthenticated
			}
			return fmt.Errorf("failed to resolve token subject: %w", err)
		}

		for _, scope := range requiredScopes {
			if !claims.HasScope(scope) {
				s.logger.Debug("request lacks required scope",
					"subject", claims.Subject,
					"missing_scope", scope)
				return fmt.Errorf("%w: missing scope %q", ErrInsufficientScope, scope)
			}
		}

		if !user.IsActive {
			return ErrInactiveAccount
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}
