package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/treelinelabs/accounts-api/internal/platform/logger"
)

// UnitOfWork owns one transactional session for the duration of a single
// logical operation and exposes repository handles bound to that session.
// Each instance traverses the state machine
//
//	active -> (committed | rolled back)
//
// exactly once. A unit of work must not be shared across concurrent
// callers or reused after Commit; repositories obtained from it must not
// be used outside its active window.
type UnitOfWork interface {
	// Users returns the user repository bound to this unit of work's
	// transaction.
	Users() UserRepository

	// Commit durably commits all pending repository operations. Valid only
	// while the unit of work is active; afterwards it returns
	// ErrUnitOfWorkDone.
	Commit(ctx context.Context) error

	// Rollback discards all pending changes. It is always safe to call:
	// after Commit, or after a previous Rollback, it is a no-op.
	Rollback(ctx context.Context) error
}

// UnitOfWorkFactory begins new units of work. Implementations acquire a
// transactional session and construct the repositories bound to it.
type UnitOfWorkFactory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

// UnitOfWorkFn is a function executed within the scope of a unit of work.
// The function must call uow.Commit itself when its writes should
// survive; a scope that exits without an explicit commit is rolled back.
type UnitOfWorkFn func(ctx context.Context, uow UnitOfWork) error

// WithUnitOfWork begins a unit of work, runs fn inside its scope, and
// guarantees rollback on every exit path — error, panic, or a normal
// return where fn never called Commit. This is a deliberate fail-closed
// default: partial multi-step writes never survive.
func WithUnitOfWork(ctx context.Context, factory UnitOfWorkFactory, fn UnitOfWorkFn) error {
	log := logger.FromContext(ctx)

	uow, err := factory.Begin(ctx)
	if err != nil {
		log.Error("failed to begin unit of work",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin unit of work: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := uow.Rollback(ctx); rbErr != nil {
				log.Error("failed to roll back unit of work after panic",
					slog.String("error", rbErr.Error()),
					slog.Any("panic", p))
			} else {
				log.Error("rolled back unit of work after panic",
					slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	if err := fn(ctx, uow); err != nil {
		if rbErr := uow.Rollback(ctx); rbErr != nil {
			log.Error("failed to roll back unit of work",
				slog.String("rollback_error", rbErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf(
				"error rolling back unit of work: %v (original error: %w)",
				rbErr,
				err,
			)
		}
		log.Debug("rolled back unit of work due to error",
			slog.String("error", err.Error()))
		return err
	}

	// Rollback after a successful fn is a no-op when fn committed, and
	// discards everything when it did not.
	if rbErr := uow.Rollback(ctx); rbErr != nil {
		log.Error("failed to roll back uncommitted unit of work",
			slog.String("error", rbErr.Error()))
		return fmt.Errorf("failed to roll back unit of work: %w", rbErr)
	}

	return nil
}
