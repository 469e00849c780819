package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/treelinelabs/accounts-api/internal/domain"
	"github.com/treelinelabs/accounts-api/internal/store"
)

// userColumns is the allow-list of queryable columns for List filters.
// Field names match the JSON/domain field names, not internal SQL aliases.
var userColumns = map[string]struct{}{
	"id":          {},
	"first_name":  {},
	"last_name":   {},
	"email":       {},
	"is_active":   {},
	"is_verified": {},
}

const userSelectColumns = `id, first_name, last_name, email, hashed_password,
	is_active, is_verified, verified_at, created_at, updated_at`

// UserRepository implements store.UserRepository against PostgreSQL.
// It holds a non-owning reference to its DBTX; when constructed by a unit
// of work that reference is the unit of work's transaction.
type UserRepository struct {
	db store.DBTX
}

// NewUserRepository creates a user repository reading and writing through
// the given DBTX (a *sql.DB or a unit of work's *sql.Tx).
func NewUserRepository(db store.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure UserRepository implements store.UserRepository
var _ store.UserRepository = (*UserRepository)(nil)

// GetByID returns the user with the given id, or store.ErrUserNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userSelectColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", MapError(err))
	}

	return user, nil
}

// GetByEmail returns the user with the given email, or
// store.ErrUserNotFound. The match is a case-sensitive exact comparison
// against the unique email column.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userSelectColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", MapError(err))
	}

	return user, nil
}

// List returns all users matching the given equality filters. Unknown
// filter fields fail with store.ErrInvalidQuery before any SQL runs.
func (r *UserRepository) List(ctx context.Context, filters store.Filters) ([]*domain.User, error) {
	if err := filters.Validate(userColumns); err != nil {
		return nil, err
	}

	query := `SELECT ` + userSelectColumns + ` FROM users`
	var args []any

	if len(filters) > 0 {
		// Build the WHERE clause in sorted field order so the generated
		// SQL is deterministic.
		names := make([]string, 0, len(filters))
		for name := range filters {
			names = append(names, name)
		}
		sort.Strings(names)

		clauses := make([]string, 0, len(names))
		for i, name := range names {
			clauses = append(clauses, fmt.Sprintf("%s = $%d", name, i+1))
			args = append(args, filters[name])
		}
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", MapError(err))
	}

	return users, nil
}

// Add inserts the user and returns it with the server-generated id and
// timestamps populated. A duplicate email surfaces as store.ErrEmailExists.
func (r *UserRepository) Add(ctx context.Context, record *domain.User) (*domain.User, error) {
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO users (first_name, last_name, email, hashed_password, is_active, is_verified, verified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	created := *record
	err := r.db.QueryRowContext(ctx, query,
		record.FirstName,
		record.LastName,
		record.Email,
		record.HashedPassword,
		record.IsActive,
		record.IsVerified,
		record.VerifiedAt,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)

	if err != nil {
		if IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		return nil, fmt.Errorf("failed to insert user: %w", MapError(err))
	}

	return &created, nil
}

// Update persists changes to an already-identified user and returns the
// refreshed row. Returns store.ErrUserNotFound if the id does not exist.
func (r *UserRepository) Update(ctx context.Context, record *domain.User) (*domain.User, error) {
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, email = $3, hashed_password = $4,
			is_active = $5, is_verified = $6, verified_at = $7, updated_at = now()
		WHERE id = $8
		RETURNING ` + userSelectColumns

	updated, err := scanUser(r.db.QueryRowContext(ctx, query,
		record.FirstName,
		record.LastName,
		record.Email,
		record.HashedPassword,
		record.IsActive,
		record.IsVerified,
		record.VerifiedAt,
		record.ID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		if IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		return nil, fmt.Errorf("failed to update user: %w", MapError(err))
	}

	return updated, nil
}

// Delete removes the user with the given id within the current
// transaction. Deleting a missing id is a no-op.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", MapError(err))
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var verifiedAt sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.HashedPassword,
		&user.IsActive,
		&user.IsVerified,
		&verifiedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if verifiedAt.Valid {
		user.VerifiedAt = &verifiedAt.Time
	}

	return &user, nil
}
