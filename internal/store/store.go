package store

import (
	"context"

	"taskboard/internal/model"
)

// TaskRepository is the storage backend behind TaskStore. Lookup misses are
// reported through the bool results, never as errors.
type TaskRepository interface {
	List(ctx context.Context) ([]model.Task, error)
	Get(ctx context.Context, id string) (model.Task, bool, error)
	Insert(ctx context.Context, t model.Task) error
	Replace(ctx context.Context, t model.Task) (bool, error)
	Update(ctx context.Context, id string, fn func(*model.Task)) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// UserRepository is the storage backend behind UserStore.
type UserRepository interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id string) (model.User, bool, error)
	Insert(ctx context.Context, u model.User) error
	Replace(ctx context.Context, u model.User) (bool, error)
}

// Publisher receives lifecycle events after a successful write.
type Publisher interface {
	Publish(routingKey string, payload any) error
}
