package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dwiprasetyo/user-management-api/internal/domain/entity"
	"github.com/dwiprasetyo/user-management-api/internal/domain/repository"
)

// UserRepository is an in-memory implementation used by tests and for running
// the API without Postgres. It mirrors the database semantics: generated UUID
// ids, case-insensitive unique emails, refreshed updated_at on every mutation.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*entity.User // keyed by id
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*entity.User)}
}

func (r *UserRepository) Insert(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findEmailLocked(u.Email) != nil {
		return repository.ErrDuplicateEmail
	}
	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u := r.findEmailLocked(email)
	if u == nil {
		return nil, repository.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.users[u.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	if other := r.findEmailLocked(u.Email); other != nil && other.ID != u.ID {
		return repository.ErrDuplicateEmail
	}
	u.CreatedAt = cur.CreatedAt
	u.UpdatedAt = time.Now().UTC()
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *UserRepository) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, cloneUser(u))
	}
	// newest first, matching the SQL ORDER BY created_at DESC
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return []*entity.User{}, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *UserRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

func (r *UserRepository) findEmailLocked(email string) *entity.User {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

var _ repository.UserRepository = (*UserRepository)(nil)
