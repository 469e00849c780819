// Package memstore provides an in-memory implementation of the store
// contracts for tests. It honors the same semantics as the PostgreSQL
// implementation: email uniqueness surfaces as store.ErrEmailExists,
// filter fields are validated against the allow-list, writes staged
// inside a unit of work only become visible to later units of work after
// an explicit Commit, and identities come from a counter shared across
// all units of work so concurrent sessions never collide. A duplicate
// email staged by two overlapping units of work is caught when the
// second one commits.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/treelinelabs/accounts-api/internal/domain"
	"github.com/treelinelabs/accounts-api/internal/store"
)

// userColumns mirrors the queryable allow-list of the PostgreSQL user
// repository.
var userColumns = map[string]struct{}{
	"id":          {},
	"first_name":  {},
	"last_name":   {},
	"email":       {},
	"is_active":   {},
	"is_verified": {},
}

// Store is an in-memory store.UnitOfWorkFactory.
// It is safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	users  map[int64]domain.User
	nextID int64

	// BeginErr, when set, is returned by Begin to simulate a failure
	// acquiring a transactional session.
	BeginErr error
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:  make(map[int64]domain.User),
		nextID: 1,
	}
}

// Ensure Store implements store.UnitOfWorkFactory
var _ store.UnitOfWorkFactory = (*Store)(nil)

// Begin snapshots the committed state into a new unit of work. Writes
// against the snapshot become durable only through Commit.
func (s *Store) Begin(ctx context.Context) (store.UnitOfWork, error) {
	if s.BeginErr != nil {
		return nil, s.BeginErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[int64]domain.User, len(s.users))
	for id, u := range s.users {
		snapshot[id] = u
	}

	uow := &unitOfWork{parent: s, state: uowActive}
	uow.users = &userRepository{
		parent:  s,
		users:   snapshot,
		writes:  make(map[int64]domain.User),
		deletes: make(map[int64]struct{}),
	}
	return uow, nil
}

// allocID hands out the next identity. IDs are drawn from the parent
// store even for uncommitted writes, matching how a database sequence
// advances independently of transaction outcome.
func (s *Store) allocID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	return id
}

// SeedUser inserts a user directly into committed state, bypassing any
// unit of work. Intended for test arrangement.
func (s *Store) SeedUser(u *domain.User) *domain.User {
	seeded := *u
	seeded.ID = s.allocID()
	now := time.Now().UTC()
	seeded.CreatedAt = now
	seeded.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[seeded.ID] = seeded
	return &seeded
}

// Count returns the number of committed users.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

type uowState int

const (
	uowActive uowState = iota
	uowCommitted
	uowRolledBack
)

type unitOfWork struct {
	parent *Store
	users  *userRepository
	state  uowState
}

var _ store.UnitOfWork = (*unitOfWork)(nil)

func (u *unitOfWork) Users() store.UserRepository {
	return u.users
}

// Commit applies the staged writes and deletes to committed state. Email
// uniqueness is re-checked against the committed rows at this point, so
// two overlapping units of work registering the same email yield exactly
// one success and one store.ErrEmailExists. A failed commit rolls the
// unit of work back, like its transactional counterpart.
func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.state != uowActive {
		return store.ErrUnitOfWorkDone
	}

	u.parent.mu.Lock()
	defer u.parent.mu.Unlock()

	for id, w := range u.users.writes {
		for otherID, other := range u.parent.users {
			if otherID != id && other.Email == w.Email {
				u.state = uowRolledBack
				return store.ErrEmailExists
			}
		}
	}

	for id, w := range u.users.writes {
		u.parent.users[id] = w
	}
	for id := range u.users.deletes {
		delete(u.parent.users, id)
	}

	u.state = uowCommitted
	return nil
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.state != uowActive {
		return nil
	}
	u.state = uowRolledBack
	return nil
}

type userRepository struct {
	parent *Store

	// users is the unit of work's working view: the snapshot taken at
	// Begin with this session's own writes and deletes applied. writes
	// and deletes are the staged mutations Commit pushes to the parent.
	users   map[int64]domain.User
	writes  map[int64]domain.User
	deletes map[int64]struct{}
}

var _ store.UserRepository = (*userRepository)(nil)

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		copied := u
		return &copied, nil
	}
	return nil, store.ErrUserNotFound
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (r *userRepository) List(ctx context.Context, filters store.Filters) ([]*domain.User, error) {
	if err := filters.Validate(userColumns); err != nil {
		return nil, err
	}

	var result []*domain.User
	for _, u := range r.users {
		if matches(u, filters) {
			copied := u
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *userRepository) Add(ctx context.Context, record *domain.User) (*domain.User, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}

	for _, u := range r.users {
		if u.Email == record.Email {
			return nil, store.ErrEmailExists
		}
	}

	created := *record
	created.ID = r.parent.allocID()
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.users[created.ID] = created
	r.writes[created.ID] = created

	copied := created
	return &copied, nil
}

func (r *userRepository) Update(ctx context.Context, record *domain.User) (*domain.User, error) {
	if _, ok := r.users[record.ID]; !ok {
		return nil, store.ErrUserNotFound
	}

	for id, u := range r.users {
		if id != record.ID && u.Email == record.Email {
			return nil, store.ErrEmailExists
		}
	}

	updated := *record
	updated.UpdatedAt = time.Now().UTC()

	r.users[updated.ID] = updated
	r.writes[updated.ID] = updated

	copied := updated
	return &copied, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	delete(r.users, id)
	delete(r.writes, id)
	r.deletes[id] = struct{}{}
	return nil
}

func matches(u domain.User, filters store.Filters) bool {
	for field, want := range filters {
		var got any
		switch field {
		case "id":
			got = u.ID
		case "first_name":
			got = u.FirstName
		case "last_name":
			got = u.LastName
		case "email":
			got = u.Email
		case "is_active":
			got = u.IsActive
		case "is_verified":
			got = u.IsVerified
		}
		if got != want {
			return false
		}
	}
	return true
}
