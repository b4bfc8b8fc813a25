package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskboard/internal/model"
)

func newTask(id, userID string) model.Task {
	return model.Task{
		ID:          id,
		Title:       "Task " + id,
		Description: "desc",
		Deadline:    time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		Status:      model.StatusPending,
		UserID:      userID,
		Photos:      []string{"a", "b"},
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestMemoryTaskRepositoryKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTaskRepository(zap.NewNop())

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, repo.Insert(ctx, newTask(id, "2")))
	}

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids(tasks))
}

func TestMemoryTaskRepositorySnapshotsAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTaskRepository(zap.NewNop())
	require.NoError(t, repo.Insert(ctx, newTask("a", "2")))

	before, err := repo.List(ctx)
	require.NoError(t, err)
	before[0].Photos[0] = "mutated"

	_, err = repo.Update(ctx, "a", func(t *model.Task) { t.Progress = 80 })
	require.NoError(t, err)

	got, ok, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 80, got.Progress)
	assert.Equal(t, "a", got.Photos[0])
	assert.Equal(t, 0, before[0].Progress)
}

func TestMemoryTaskRepositoryReplaceAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTaskRepository(zap.NewNop())
	require.NoError(t, repo.Insert(ctx, newTask("a", "2")))
	require.NoError(t, repo.Insert(ctx, newTask("b", "3")))

	replacement := newTask("a", "2")
	replacement.Title = "renamed"
	found, err := repo.Replace(ctx, replacement)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.Replace(ctx, newTask("zzz", "2"))
	require.NoError(t, err)
	assert.False(t, found)

	found, err = repo.Delete(ctx, "a")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.Delete(ctx, "a")
	require.NoError(t, err)
	assert.False(t, found)

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(tasks))
}

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	require.NoError(t, repo.Insert(ctx, model.User{ID: "1", FullName: "Admin", Role: model.RoleAdmin}))
	require.NoError(t, repo.Insert(ctx, model.User{ID: "2", FullName: "John", Role: model.RoleUser}))

	found, err := repo.Replace(ctx, model.User{ID: "2", FullName: "Johnny", Role: model.RoleUser})
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.Replace(ctx, model.User{ID: "9"})
	require.NoError(t, err)
	assert.False(t, found)

	u, ok, err := repo.Get(ctx, "2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Johnny", u.FullName)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
