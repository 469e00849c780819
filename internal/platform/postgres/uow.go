package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/treelinelabs/accounts-api/internal/store"
)

// uowState tracks where a unit of work is in its lifecycle. Each instance
// moves from active to exactly one terminal state.
type uowState int

const (
	uowActive uowState = iota
	uowCommitted
	uowRolledBack
)

// UnitOfWork implements store.UnitOfWork over a single *sql.Tx. It
// exclusively owns the transaction for its lifetime; the repositories it
// constructs hold a non-owning reference to the same transaction.
type UnitOfWork struct {
	tx    *sql.Tx
	users store.UserRepository
	state uowState
}

// Ensure UnitOfWork implements store.UnitOfWork
var _ store.UnitOfWork = (*UnitOfWork)(nil)

// Users returns the user repository bound to this unit of work's transaction.
func (u *UnitOfWork) Users() store.UserRepository {
	return u.users
}

// Commit durably commits the transaction. Valid only while active; a
// second Commit, or a Commit after Rollback, returns store.ErrUnitOfWorkDone.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.state != uowActive {
		return store.ErrUnitOfWorkDone
	}

	if err := u.tx.Commit(); err != nil {
		u.state = uowRolledBack
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.state = uowCommitted
	return nil
}

// Rollback discards all pending changes. Calling it on a completed unit
// of work is a no-op, which makes it safe to defer unconditionally.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.state != uowActive {
		return nil
	}

	u.state = uowRolledBack
	if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}

	return nil
}

// UnitOfWorkFactory begins PostgreSQL-backed units of work from a shared
// connection pool. The factory is safe for concurrent use; the units of
// work it produces are not.
type UnitOfWorkFactory struct {
	db *sql.DB
}

// NewUnitOfWorkFactory creates a factory over the given connection pool.
// The pool should be initialized and managed by the caller.
func NewUnitOfWorkFactory(db *sql.DB) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db}
}

// Ensure UnitOfWorkFactory implements store.UnitOfWorkFactory
var _ store.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)

// Begin acquires a transaction and constructs the repositories bound to it.
func (f *UnitOfWorkFactory) Begin(ctx context.Context) (store.UnitOfWork, error) {
	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &UnitOfWork{
		tx:    tx,
		users: NewUserRepository(tx),
		state: uowActive,
	}, nil
}
