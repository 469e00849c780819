package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all repository implementations.
//
// "Not found" is deliberately a sentinel rather than a panic or a special
// return value: lookups for absent rows are a normal outcome and callers
// are expected to branch on errors.Is(err, ErrNotFound).
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when an operation would violate a uniqueness
	// constraint (e.g. a user with the same email).
	ErrConflict = errors.New("entity already exists")

	// ErrInvalidQuery is returned when a List call names a filter field
	// that is not in the entity's queryable allow-list.
	ErrInvalidQuery = errors.New("invalid query filter")

	// ErrInvalidEntity is returned when an entity fails a storage-level
	// constraint other than uniqueness (e.g. a not-null violation).
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUnitOfWorkDone is returned when Commit is called on a unit of
	// work that has already been committed or rolled back.
	ErrUnitOfWorkDone = errors.New("unit of work already completed")

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrEmailExists indicates that a user with the given email already
	// exists. Returned when an insert or update collides with the unique
	// index on email.
	ErrEmailExists = fmt.Errorf("%w: email", ErrConflict)
)

// IsNotFound reports whether the error is any kind of "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether the error is any kind of uniqueness conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
