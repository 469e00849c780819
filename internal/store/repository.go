package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/treelinelabs/accounts-api/internal/domain"
)

// Filters maps queryable field names to required values. List operations
// match rows where every named field equals the given value (logical AND).
// An empty Filters matches all rows.
type Filters map[string]any

// Validate checks every filter field against the entity's allow-list of
// queryable columns. Returns ErrInvalidQuery naming the first unknown
// field. Field names are checked in sorted order so the failure is
// deterministic regardless of map iteration.
func (f Filters) Validate(allowed map[string]struct{}) error {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, ok := allowed[name]; !ok {
			return fmt.Errorf("%w: unknown field %q", ErrInvalidQuery, name)
		}
	}
	return nil
}

// Repository is the generic CRUD contract over one entity type with an
// integer surrogate identity. None of its operations commit independently;
// all reads and writes go through the enclosing unit of work's
// transaction.
//
// Result ordering from List is unspecified; callers must not depend on it.
type Repository[T any] interface {
	// GetByID returns the entity with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*T, error)

	// List returns all entities matching the given equality filters.
	// Unknown filter fields fail with ErrInvalidQuery.
	List(ctx context.Context, filters Filters) ([]*T, error)

	// Add inserts the entity and returns it with server-generated fields
	// (identity, timestamps) populated. Returns ErrConflict when a
	// uniqueness constraint is violated.
	Add(ctx context.Context, record *T) (*T, error)

	// Update persists changes to an already-identified entity and returns
	// the refreshed row. Returns ErrNotFound if the id does not exist.
	Update(ctx context.Context, record *T) (*T, error)

	// Delete removes the entity with the given id. Deleting a missing id
	// is a no-op, not an error.
	Delete(ctx context.Context, id int64) error
}

// UserRepository is the user-specialized repository. GetByEmail is the
// canonical login lookup: a case-sensitive exact match on the unique
// email column.
type UserRepository interface {
	Repository[domain.User]

	// GetByEmail returns the user with the given email, or ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
