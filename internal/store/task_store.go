package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/contracts/mq"
	"taskboard/internal/model"
	"taskboard/pkg/logger"
	"taskboard/pkg/metrics"
)

// TaskStore owns the task collection. It applies every status transition it
// is asked for; role and prior-status checks belong to the caller.
type TaskStore struct {
	repo      TaskRepository
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

type TaskStoreOption func(*TaskStore)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) TaskStoreOption {
	return func(s *TaskStore) { s.now = now }
}

// WithIDGenerator overrides task id generation (uuid v4 by default).
func WithIDGenerator(gen func() string) TaskStoreOption {
	return func(s *TaskStore) { s.newID = gen }
}

// WithPublisher sends lifecycle events to p.
func WithPublisher(p Publisher) TaskStoreOption {
	return func(s *TaskStore) { s.publisher = p }
}

func NewTaskStore(repo TaskRepository, logger *zap.Logger, opts ...TaskStoreOption) *TaskStore {
	s := &TaskStore{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tasks returns a snapshot of every task in insertion order.
func (s *TaskStore) Tasks(ctx context.Context) ([]model.Task, error) {
	return s.repo.List(ctx)
}

func (s *TaskStore) Task(ctx context.Context, id string) (model.Task, bool, error) {
	return s.repo.Get(ctx, id)
}

// AddTask stores a new pending task built from draft.
func (s *TaskStore) AddTask(ctx context.Context, draft model.TaskDraft) (model.Task, error) {
	log := logger.WithTrace(ctx, s.logger)

	id, err := s.freshID(ctx)
	if err != nil {
		return model.Task{}, fmt.Errorf("add task: %w", err)
	}

	t := model.Task{
		ID:          id,
		Title:       draft.Title,
		Description: draft.Description,
		Progress:    draft.Progress,
		Deadline:    draft.Deadline,
		Status:      model.StatusPending,
		UserID:      draft.UserID,
		Photos:      append([]string{}, draft.Photos...),
		CreatedAt:   s.now(),
	}
	if err := s.repo.Insert(ctx, t); err != nil {
		log.Error("AddTask: failed to insert task", zap.String("user_id", t.UserID), zap.Error(err))
		return model.Task{}, fmt.Errorf("add task: %w", err)
	}

	metrics.IncrementTaskOperation("add")
	log.Info("Task created",
		zap.String("task_id", t.ID),
		zap.String("user_id", t.UserID),
	)
	s.publish(ctx, mq.RoutingTaskCreated, mq.TaskCreatedPayload{
		TaskID:    t.ID,
		UserID:    t.UserID,
		Title:     t.Title,
		Deadline:  t.Deadline,
		CreatedAt: t.CreatedAt,
	})
	return t, nil
}

// freshID draws ids until one is not already taken.
func (s *TaskStore) freshID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 8; attempt++ {
		id := s.newID()
		_, taken, err := s.repo.Get(ctx, id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
	}
	return "", errors.New("could not generate a unique task id")
}

// UpdateTask replaces the stored task with the same id. Unknown ids are ignored.
func (s *TaskStore) UpdateTask(ctx context.Context, t model.Task) error {
	found, err := s.repo.Replace(ctx, t)
	if err != nil {
		return fmt.Errorf("update task %s: %w", t.ID, err)
	}
	if !s.applied(ctx, "update", t.ID, found) {
		return nil
	}
	s.publish(ctx, mq.RoutingTaskUpdated, mq.TaskUpdatedPayload{
		TaskID:   t.ID,
		UserID:   t.UserID,
		Progress: t.Progress,
	})
	return nil
}

// DeleteTask removes the task regardless of status. Unknown ids are ignored.
func (s *TaskStore) DeleteTask(ctx context.Context, id string) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if !s.applied(ctx, "delete", id, found) {
		return nil
	}
	s.publish(ctx, mq.RoutingTaskDeleted, mq.TaskDeletedPayload{TaskID: id})
	return nil
}

func (s *TaskStore) SubmitTask(ctx context.Context, id string) error {
	return s.transition(ctx, "submit", mq.RoutingTaskSubmitted, id, model.StatusSubmitted, nil)
}

func (s *TaskStore) ApproveTask(ctx context.Context, id, comment string) error {
	return s.transition(ctx, "approve", mq.RoutingTaskApproved, id, model.StatusApproved, &comment)
}

func (s *TaskStore) RejectTask(ctx context.Context, id, comment string) error {
	return s.transition(ctx, "reject", mq.RoutingTaskRejected, id, model.StatusRejected, &comment)
}

func (s *TaskStore) transition(ctx context.Context, op, routingKey, id string, status model.Status, comment *string) error {
	found, err := s.repo.Update(ctx, id, func(t *model.Task) {
		t.Status = status
		if comment != nil {
			c := *comment
			t.AdminComments = &c
		}
	})
	if err != nil {
		return fmt.Errorf("%s task %s: %w", op, id, err)
	}
	if !s.applied(ctx, op, id, found) {
		return nil
	}

	payload := mq.TaskStatusPayload{TaskID: id, Status: string(status)}
	if comment != nil {
		payload.Comment = *comment
	}
	s.publish(ctx, routingKey, payload)
	return nil
}

// applied logs and counts a write, returning found so callers can skip events for misses.
func (s *TaskStore) applied(ctx context.Context, op, id string, found bool) bool {
	log := logger.WithTrace(ctx, s.logger)
	if !found {
		log.Debug("Task not found, ignoring", zap.String("operation", op), zap.String("task_id", id))
		return false
	}
	metrics.IncrementTaskOperation(op)
	log.Info("Task "+op+" applied", zap.String("task_id", id))
	return true
}

func (s *TaskStore) publish(ctx context.Context, routingKey string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(routingKey, payload); err != nil {
		logger.WithTrace(ctx, s.logger).Warn("Failed to publish task event",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}
