package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskboard/contracts/mq"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

var fixedNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

type recordedEvent struct {
	routingKey string
	payload    any
}

type recorder struct{ events []recordedEvent }

func (r *recorder) Publish(routingKey string, payload any) error {
	r.events = append(r.events, recordedEvent{routingKey, payload})
	return nil
}

func (r *recorder) keys() []string {
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.routingKey
	}
	return out
}

func newTaskStore(t *testing.T, opts ...TaskStoreOption) (*TaskStore, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts = append([]TaskStoreOption{WithClock(func() time.Time { return fixedNow }), WithPublisher(rec)}, opts...)
	return NewTaskStore(repository.NewMemoryTaskRepository(zap.NewNop()), zap.NewNop(), opts...), rec
}

func draft(title, userID string) model.TaskDraft {
	return model.TaskDraft{
		Title:       title,
		Description: "description of " + title,
		Progress:    10,
		Deadline:    fixedNow.AddDate(0, 0, 3),
		UserID:      userID,
		Photos:      []string{"https://example.com/1.png"},
	}
}

func TestAddTaskAlwaysPendingWithUniqueID(t *testing.T) {
	ctx := context.Background()
	s, rec := newTaskStore(t)

	seen := map[string]bool{}
	for i, status := range model.Statuses {
		d := draft(fmt.Sprintf("t%d", i), "2")
		d.Status = status

		task, err := s.AddTask(ctx, d)
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, task.Status)
		assert.Equal(t, fixedNow, task.CreatedAt)
		assert.Nil(t, task.AdminComments)
		assert.NotEmpty(t, task.ID)
		assert.False(t, seen[task.ID], "duplicate id %s", task.ID)
		seen[task.ID] = true
	}

	tasks, err := s.Tasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 4)
	assert.Equal(t, "t0", tasks[0].Title)
	assert.Equal(t, "t3", tasks[3].Title)
	assert.Equal(t, []string{mq.RoutingTaskCreated, mq.RoutingTaskCreated, mq.RoutingTaskCreated, mq.RoutingTaskCreated}, rec.keys())
}

func TestAddTaskRetriesTakenIDs(t *testing.T) {
	ctx := context.Background()
	ids := []string{"dup", "dup", "fresh"}
	next := 0
	s, _ := newTaskStore(t, WithIDGenerator(func() string {
		id := ids[next]
		next++
		return id
	}))

	first, err := s.AddTask(ctx, draft("a", "2"))
	require.NoError(t, err)
	second, err := s.AddTask(ctx, draft("b", "2"))
	require.NoError(t, err)

	assert.Equal(t, "dup", first.ID)
	assert.Equal(t, "fresh", second.ID)
}

func TestSubmitThenApprove(t *testing.T) {
	ctx := context.Background()
	s, rec := newTaskStore(t)
	task, err := s.AddTask(ctx, draft("a", "2"))
	require.NoError(t, err)

	require.NoError(t, s.SubmitTask(ctx, task.ID))
	require.NoError(t, s.ApproveTask(ctx, task.ID, "ok"))

	got, ok, err := s.Task(ctx, task.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.StatusApproved, got.Status)
	require.NotNil(t, got.AdminComments)
	assert.Equal(t, "ok", *got.AdminComments)
	assert.Equal(t, []string{mq.RoutingTaskCreated, mq.RoutingTaskSubmitted, mq.RoutingTaskApproved}, rec.keys())
}

// The store applies transitions without checking the prior status.
func TestRejectThenApproveEndsApproved(t *testing.T) {
	ctx := context.Background()
	s, _ := newTaskStore(t)
	task, err := s.AddTask(ctx, draft("a", "2"))
	require.NoError(t, err)

	require.NoError(t, s.RejectTask(ctx, task.ID, "no"))
	require.NoError(t, s.ApproveTask(ctx, task.ID, ""))

	got, _, err := s.Task(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)
	require.NotNil(t, got.AdminComments)
	assert.Equal(t, "", *got.AdminComments)
}

func TestSubmitFromAnyStatus(t *testing.T) {
	ctx := context.Background()
	s, _ := newTaskStore(t)
	task, err := s.AddTask(ctx, draft("a", "2"))
	require.NoError(t, err)

	require.NoError(t, s.ApproveTask(ctx, task.ID, "done"))
	require.NoError(t, s.SubmitTask(ctx, task.ID))

	got, _, err := s.Task(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSubmitted, got.Status)
	assert.Equal(t, "done", *got.AdminComments, "submit leaves the comment in place")
}

func TestUnknownIDsAreSilentNoOps(t *testing.T) {
	ctx := context.Background()
	s, rec := newTaskStore(t)
	task, err := s.AddTask(ctx, draft("a", "2"))
	require.NoError(t, err)
	rec.events = nil

	assert.NoError(t, s.SubmitTask(ctx, "missing"))
	assert.NoError(t, s.ApproveTask(ctx, "missing", "x"))
	assert.NoError(t, s.RejectTask(ctx, "missing", "x"))
	assert.NoError(t, s.DeleteTask(ctx, "missing"))
	assert.NoError(t, s.UpdateTask(ctx, model.Task{ID: "missing", Title: "ghost"}))

	tasks, err := s.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task, tasks[0])
	assert.Empty(t, rec.events)
}

func TestUpdateTaskReplacesWholeValue(t *testing.T) {
	ctx := context.Background()
	s, _ := newTaskStore(t)
	task, err := s.AddTask(ctx, draft("a", "2"))
	require.NoError(t, err)

	edited := task
	edited.Title = "edited"
	edited.Progress = 100
	edited.Photos = nil
	require.NoError(t, s.UpdateTask(ctx, edited))

	got, _, err := s.Task(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Title)
	assert.Equal(t, 100, got.Progress)
	assert.Empty(t, got.Photos)
	assert.Equal(t, model.StatusPending, got.Status, "progress does not drive status")
}

func TestDeleteTaskIsUnconditional(t *testing.T) {
	ctx := context.Background()
	s, _ := newTaskStore(t)
	a, err := s.AddTask(ctx, draft("a", "2"))
	require.NoError(t, err)
	b, err := s.AddTask(ctx, draft("b", "3"))
	require.NoError(t, err)
	require.NoError(t, s.ApproveTask(ctx, a.ID, "fine"))

	require.NoError(t, s.DeleteTask(ctx, a.ID))

	tasks, err := s.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, b.ID, tasks[0].ID)
}
