package repository

import (
	"context"
	"sort"
	"sync"

	dom "github.com/tommy-mor/spare/internal/domain/user"
)

// MemoryUserRepository keeps users in process memory. Used when
// DB_DRIVER=memory and in tests.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]dom.User
	byEmail map[string]string
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]dom.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryUserRepository) GetById(_ context.Context, id string) (*dom.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, dom.ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*dom.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, dom.ErrNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *MemoryUserRepository) List(_ context.Context, filter dom.ListFilter) ([]dom.User, error) {
	r.mu.RLock()
	users := make([]dom.User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, u)
	}
	r.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	if filter.Limit <= 0 {
		return users, nil
	}
	if filter.Offset >= len(users) {
		return []dom.User{}, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(users) {
		end = len(users)
	}
	return users[filter.Offset:end], nil
}

func (r *MemoryUserRepository) Create(_ context.Context, u *dom.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[u.Email]; ok {
		return dom.ErrEmailTaken
	}
	r.byID[u.ID] = *u
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *MemoryUserRepository) Update(_ context.Context, u *dom.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byID[u.ID]
	if !ok {
		return dom.ErrNotFound
	}
	if owner, ok := r.byEmail[u.Email]; ok && owner != u.ID {
		return dom.ErrEmailTaken
	}

	delete(r.byEmail, old.Email)
	r.byID[u.ID] = *u
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return dom.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byEmail, u.Email)
	return nil
}
