package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treelinelabs/accounts-api/internal/domain"
	"github.com/treelinelabs/accounts-api/internal/store"
)

func newUser(t *testing.T, email string) *domain.User {
	t.Helper()

	user, err := domain.NewUser("Ada", "Lovelace", email, "hashed-password")
	require.NoError(t, err)
	return user
}

func TestOverlappingUnitsOfWorkDuplicateEmail(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	// Both units of work begin before either commits, so neither snapshot
	// contains the other's write.
	first, err := s.Begin(ctx)
	require.NoError(t, err)
	second, err := s.Begin(ctx)
	require.NoError(t, err)

	created, err := first.Users().Add(ctx, newUser(t, "ada@example.com"))
	require.NoError(t, err)
	_, err = second.Users().Add(ctx, newUser(t, "ada@example.com"))
	require.NoError(t, err, "the duplicate is invisible until commit")

	require.NoError(t, first.Commit(ctx))
	assert.ErrorIs(t, second.Commit(ctx), store.ErrEmailExists)

	// Exactly one row survives, and it is the winner's.
	assert.Equal(t, 1, s.Count())
	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	got, err := uow.Users().GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	require.NoError(t, uow.Rollback(ctx))
}

func TestOverlappingUnitsOfWorkDistinctEmails(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	first, err := s.Begin(ctx)
	require.NoError(t, err)
	second, err := s.Begin(ctx)
	require.NoError(t, err)

	createdA, err := first.Users().Add(ctx, newUser(t, "ada@example.com"))
	require.NoError(t, err)
	createdB, err := second.Users().Add(ctx, newUser(t, "grace@example.com"))
	require.NoError(t, err)

	assert.NotEqual(t, createdA.ID, createdB.ID, "identities are drawn from a shared counter")

	require.NoError(t, first.Commit(ctx))
	require.NoError(t, second.Commit(ctx))

	// Neither commit clobbers the other.
	assert.Equal(t, 2, s.Count())
}

func TestCommitAfterCompletion(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	uow, err := s.Begin(ctx)
	require.NoError(t, err)

	_, err = uow.Users().Add(ctx, newUser(t, "ada@example.com"))
	require.NoError(t, err)
	require.NoError(t, uow.Commit(ctx))

	assert.ErrorIs(t, uow.Commit(ctx), store.ErrUnitOfWorkDone)
	assert.NoError(t, uow.Rollback(ctx))
}

func TestRollbackDiscardsStagedWrites(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()

	uow, err := s.Begin(ctx)
	require.NoError(t, err)

	_, err = uow.Users().Add(ctx, newUser(t, "ada@example.com"))
	require.NoError(t, err)
	require.NoError(t, uow.Rollback(ctx))

	assert.Equal(t, 0, s.Count())
}

func TestDeleteIsStagedUntilCommit(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	seeded := s.SeedUser(newUser(t, "ada@example.com"))

	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.Users().Delete(ctx, seeded.ID))
	assert.Equal(t, 1, s.Count(), "delete is invisible until commit")

	require.NoError(t, uow.Commit(ctx))
	assert.Equal(t, 0, s.Count())
}
