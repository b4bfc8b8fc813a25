package repository

import (
	"context"
	"sync"

	"taskboard/internal/model"
)

// MemoryUserRepository holds the roster in seed order.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []model.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{}
}

func (r *MemoryUserRepository) List(_ context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.User(nil), r.users...), nil
}

func (r *MemoryUserRepository) Get(_ context.Context, id string) (model.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, true, nil
		}
	}
	return model.User{}, false, nil
}

// Insert adds u, replacing an existing entry with the same id.
func (r *MemoryUserRepository) Insert(_ context.Context, u model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].ID == u.ID {
			r.users[i] = u
			return nil
		}
	}
	r.users = append(r.users, u)
	return nil
}

func (r *MemoryUserRepository) Replace(_ context.Context, u model.User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].ID == u.ID {
			next := append([]model.User(nil), r.users...)
			next[i] = u
			r.users = next
			return true, nil
		}
	}
	return false, nil
}
