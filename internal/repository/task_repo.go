package repository

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"taskboard/internal/model"
)

// MemoryTaskRepository keeps tasks in insertion order. Every write swaps in a
// freshly built slice, so a slice returned by List is never mutated later.
type MemoryTaskRepository struct {
	mu     sync.RWMutex
	tasks  []model.Task
	logger *zap.Logger
}

func NewMemoryTaskRepository(logger *zap.Logger) *MemoryTaskRepository {
	return &MemoryTaskRepository{logger: logger}
}

func (r *MemoryTaskRepository) List(_ context.Context) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Task, len(r.tasks))
	for i, t := range r.tasks {
		out[i] = t.Clone()
	}
	return out, nil
}

func (r *MemoryTaskRepository) Get(_ context.Context, id string) (model.Task, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tasks {
		if t.ID == id {
			return t.Clone(), true, nil
		}
	}
	return model.Task{}, false, nil
}

func (r *MemoryTaskRepository) Insert(_ context.Context, t model.Task) error {
	r.logger.Debug("Inserting task",
		zap.String("task_id", t.ID),
		zap.String("user_id", t.UserID),
		zap.String("title", t.Title),
	)

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]model.Task, len(r.tasks), len(r.tasks)+1)
	copy(next, r.tasks)
	r.tasks = append(next, t.Clone())
	return nil
}

func (r *MemoryTaskRepository) Replace(ctx context.Context, t model.Task) (bool, error) {
	return r.Update(ctx, t.ID, func(cur *model.Task) {
		*cur = t.Clone()
	})
}

// Update applies fn to the task with id under the write lock.
func (r *MemoryTaskRepository) Update(_ context.Context, id string, fn func(*model.Task)) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		r.logger.Debug("Task not found for update", zap.String("task_id", id))
		return false, nil
	}

	next := make([]model.Task, len(r.tasks))
	copy(next, r.tasks)
	updated := next[idx].Clone()
	fn(&updated)
	updated.ID = id
	next[idx] = updated
	r.tasks = next
	return true, nil
}

func (r *MemoryTaskRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		r.logger.Debug("Task not found for delete", zap.String("task_id", id))
		return false, nil
	}

	next := make([]model.Task, 0, len(r.tasks)-1)
	next = append(next, r.tasks[:idx]...)
	r.tasks = append(next, r.tasks[idx+1:]...)
	return true, nil
}

func (r *MemoryTaskRepository) indexOf(id string) int {
	for i, t := range r.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
