package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/internal/store"
	"taskboard/internal/view"
	"taskboard/pkg/logger"
	"taskboard/pkg/rbac"
)

// Service enforces who may do what to a task before delegating to the
// permissive TaskStore.
type Service struct {
	tasks  *store.TaskStore
	users  *store.UserStore
	logger *zap.Logger
	now    func() time.Time
}

func NewService(tasks *store.TaskStore, users *store.UserStore, logger *zap.Logger) *Service {
	return &Service{
		tasks:  tasks,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock returns s using now for deadline validation.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// List returns the tasks actor may see.
func (s *Service) List(ctx context.Context, actor model.User) ([]model.Task, error) {
	all, err := s.tasks.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	return view.Visible(all, actor), nil
}

// Create validates in and stores a pending task owned by ownerID. Only admins
// may create on behalf of someone else; an empty ownerID means the actor.
func (s *Service) Create(ctx context.Context, actor model.User, ownerID string, in Input) (model.Task, error) {
	log := logger.WithTrace(ctx, s.logger)

	if err := s.check(actor, rbac.PermissionCreateTask, ""); err != nil {
		return model.Task{}, err
	}
	if ownerID == "" {
		ownerID = actor.ID
	}
	if ownerID != actor.ID {
		if err := s.check(actor, rbac.PermissionReadAllTasks, ""); err != nil {
			return model.Task{}, err
		}
		if _, ok, err := s.users.User(ctx, ownerID); err != nil {
			return model.Task{}, err
		} else if !ok {
			return model.Task{}, ErrUserNotFound
		}
	}

	if err := Validate(in, s.now(), true); err != nil {
		log.Warn("Create: invalid task", zap.String("user_id", actor.ID), zap.Error(err))
		return model.Task{}, err
	}

	return s.tasks.AddTask(ctx, model.TaskDraft{
		Title:       in.Title,
		Description: in.Description,
		Progress:    in.Progress,
		Deadline:    in.Deadline,
		UserID:      ownerID,
		Photos:      in.Photos,
	})
}

// Get returns the task if actor owns it or is an admin.
func (s *Service) Get(ctx context.Context, actor model.User, id string) (model.Task, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	if err := s.check(actor, rbac.PermissionReadTask, ""); err != nil {
		return model.Task{}, err
	}
	if t.UserID != actor.ID && !rbac.HasPermission(string(actor.Role), rbac.PermissionReadAllTasks) {
		return model.Task{}, &ForbiddenError{UserID: actor.ID, TaskID: id}
	}
	return t, nil
}

// Edit replaces the content fields. Owners lose edit rights once an admin has
// approved or rejected the task; admins can always edit.
func (s *Service) Edit(ctx context.Context, actor model.User, id string, in Input) (model.Task, error) {
	t, err := s.Get(ctx, actor, id)
	if err != nil {
		return model.Task{}, err
	}
	if err := s.check(actor, rbac.PermissionUpdateTask, id); err != nil {
		return model.Task{}, err
	}
	if !actor.IsAdmin() && t.Status.Finalized() {
		return model.Task{}, &TransitionError{TaskID: id, Action: "edit", From: t.Status}
	}
	if err := Validate(in, s.now(), !in.Deadline.Equal(t.Deadline)); err != nil {
		return model.Task{}, err
	}

	t.Title = in.Title
	t.Description = in.Description
	t.Progress = in.Progress
	t.Deadline = in.Deadline
	t.Photos = append([]string{}, in.Photos...)
	if err := s.tasks.UpdateTask(ctx, t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// Submit moves the owner's pending task to submitted.
func (s *Service) Submit(ctx context.Context, actor model.User, id string) (model.Task, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	if err := s.check(actor, rbac.PermissionSubmitTask, id); err != nil {
		return model.Task{}, err
	}
	if t.UserID != actor.ID {
		return model.Task{}, &ForbiddenError{UserID: actor.ID, TaskID: id}
	}
	if t.Status != model.StatusPending {
		return model.Task{}, &TransitionError{TaskID: id, Action: "submit", From: t.Status}
	}
	if err := s.tasks.SubmitTask(ctx, id); err != nil {
		return model.Task{}, err
	}
	return s.load(ctx, id)
}

func (s *Service) Approve(ctx context.Context, actor model.User, id, comment string) (model.Task, error) {
	return s.decide(ctx, actor, id, comment, rbac.PermissionApproveTask, "approve", s.tasks.ApproveTask)
}

func (s *Service) Reject(ctx context.Context, actor model.User, id, comment string) (model.Task, error) {
	return s.decide(ctx, actor, id, comment, rbac.PermissionRejectTask, "reject", s.tasks.RejectTask)
}

// Delete removes the task in any status. Admin only.
func (s *Service) Delete(ctx context.Context, actor model.User, id string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.check(actor, rbac.PermissionDeleteTask, id); err != nil {
		return err
	}
	return s.tasks.DeleteTask(ctx, id)
}

func (s *Service) decide(ctx context.Context, actor model.User, id, comment, permission, action string,
	apply func(context.Context, string, string) error) (model.Task, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	if err := s.check(actor, permission, id); err != nil {
		return model.Task{}, err
	}
	if t.Status != model.StatusSubmitted {
		return model.Task{}, &TransitionError{TaskID: id, Action: action, From: t.Status}
	}
	if err := apply(ctx, id, comment); err != nil {
		return model.Task{}, err
	}
	return s.load(ctx, id)
}

func (s *Service) load(ctx context.Context, id string) (model.Task, error) {
	t, ok, err := s.tasks.Task(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	if !ok {
		return model.Task{}, ErrTaskNotFound
	}
	return t, nil
}

func (s *Service) check(actor model.User, permission, taskID string) error {
	if err := rbac.CheckPermission(actor.ID, string(actor.Role), permission); err != nil {
		denied := err.(*rbac.PermissionDeniedError)
		s.logger.Warn("Permission denied",
			zap.String("user_id", actor.ID),
			zap.String("permission", permission),
			zap.String("task_id", taskID),
		)
		return &ForbiddenError{UserID: actor.ID, TaskID: taskID, Permission: denied}
	}
	return nil
}
