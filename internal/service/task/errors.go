package task

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"taskboard/internal/model"
	"taskboard/pkg/rbac"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrUserNotFound = errors.New("user not found")
)

// ForbiddenError is returned when the actor may not touch the task. Permission
// is set when the role lacks it outright; otherwise the actor failed an
// ownership check.
type ForbiddenError struct {
	UserID     string
	TaskID     string
	Permission *rbac.PermissionDeniedError
}

func (e *ForbiddenError) Error() string {
	if e.Permission != nil {
		return e.Permission.Error()
	}
	return fmt.Sprintf("user %s does not own task %s", e.UserID, e.TaskID)
}

func (e *ForbiddenError) Unwrap() error {
	if e.Permission == nil {
		return nil
	}
	return e.Permission
}

// TransitionError reports a workflow step attempted from the wrong status.
type TransitionError struct {
	TaskID string
	Action string
	From   model.Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s task %s in status %s", e.Action, e.TaskID, e.From)
}

// ValidationError carries one message per offending field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return "invalid task: " + strings.Join(names, ", ")
}
