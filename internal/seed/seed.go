// Package seed builds the demo roster and a reproducible set of random tasks.
package seed

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/internal/store"
)

const (
	TasksPerAdmin = 3
	TasksPerUser  = 5

	RejectedComment = "Please revise and resubmit"
)

// Fixtures is what Build produces and Load writes.
type Fixtures struct {
	Users []model.User `json:"users" yaml:"users"`
	Tasks []model.Task `json:"tasks" yaml:"tasks"`
}

// Roster returns the three demo accounts.
func Roster() []model.User {
	return []model.User{
		{
			ID:           "1",
			FullName:     "Admin User",
			MobileNumber: "+1 (555) 123-4567",
			ProfilePhoto: "https://i.pravatar.cc/150?img=1",
			Role:         model.RoleAdmin,
		},
		{
			ID:           "2",
			FullName:     "John Doe",
			MobileNumber: "+1 (555) 987-6543",
			ProfilePhoto: "https://i.pravatar.cc/150?img=2",
			Role:         model.RoleUser,
		},
		{
			ID:           "3",
			FullName:     "Jane Smith",
			MobileNumber: "+1 (555) 567-1234",
			ProfilePhoto: "https://i.pravatar.cc/150?img=3",
			Role:         model.RoleUser,
		},
	}
}

// Build generates tasks for users relative to now. The same seed, users and
// now always give the same fixtures, ids included.
func Build(seed uint64, now time.Time, users []model.User) (Fixtures, error) {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	src := rand.NewChaCha8(key)
	r := rand.New(src)

	monthLater := now.AddDate(0, 1, 0)
	monthAgo := now.Add(-30 * 24 * time.Hour)

	f := Fixtures{Users: append([]model.User(nil), users...)}
	for _, u := range users {
		n := TasksPerUser
		if u.IsAdmin() {
			n = TasksPerAdmin
		}
		for i := 0; i < n; i++ {
			id, err := uuid.NewRandomFromReader(src)
			if err != nil {
				return Fixtures{}, fmt.Errorf("task id: %w", err)
			}

			status := model.Statuses[r.IntN(len(model.Statuses))]
			t := model.Task{
				ID:    id.String(),
				Title: fmt.Sprintf("Task %d for %s", i+1, u.FullName),
				Description: fmt.Sprintf("This is a detailed description for task %d assigned to %s. "+
					"It contains all the necessary information to complete the task successfully.", i+1, u.FullName),
				Progress:  r.IntN(101),
				Deadline:  between(r, now, monthLater),
				Status:    status,
				UserID:    u.ID,
				CreatedAt: between(r, monthAgo, now),
				Photos: []string{
					fmt.Sprintf("https://picsum.photos/seed/%s-%d-1/300/200", u.ID, i),
					fmt.Sprintf("https://picsum.photos/seed/%s-%d-2/300/200", u.ID, i),
				},
			}
			if status == model.StatusRejected {
				c := RejectedComment
				t.AdminComments = &c
			}
			f.Tasks = append(f.Tasks, t)
		}
	}
	return f, nil
}

// between picks a uniform instant in [from, to).
func between(r *rand.Rand, from, to time.Time) time.Time {
	span := to.Sub(from)
	if span <= 0 {
		return from
	}
	return from.Add(time.Duration(r.Int64N(int64(span))))
}

// EnsureRoster inserts the roster entries missing from users. Entries that
// already exist keep their stored profile.
func EnsureRoster(ctx context.Context, users store.UserRepository, roster []model.User, logger *zap.Logger) error {
	added := 0
	for _, u := range roster {
		_, found, err := users.Get(ctx, u.ID)
		if err != nil {
			return fmt.Errorf("seed: get user %s: %w", u.ID, err)
		}
		if found {
			continue
		}
		if err := users.Insert(ctx, u); err != nil {
			return fmt.Errorf("seed: insert user %s: %w", u.ID, err)
		}
		added++
	}
	if added > 0 {
		logger.Info("Roster seeded", zap.Int("added", added), zap.Int("roster", len(roster)))
	}
	return nil
}

// Load ensures f.Users and writes f.Tasks when the task repository is empty,
// so restarts against postgres do not duplicate fixtures.
func Load(ctx context.Context, users store.UserRepository, tasks store.TaskRepository, f Fixtures, logger *zap.Logger) error {
	if err := EnsureRoster(ctx, users, f.Users, logger); err != nil {
		return err
	}

	existing, err := tasks.List(ctx)
	if err != nil {
		return fmt.Errorf("seed: list tasks: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("Tasks already present, skipping seed", zap.Int("tasks", len(existing)))
		return nil
	}

	for _, t := range f.Tasks {
		if err := tasks.Insert(ctx, t); err != nil {
			return fmt.Errorf("seed: insert task %s: %w", t.ID, err)
		}
	}

	logger.Info("Seeded fixtures", zap.Int("users", len(f.Users)), zap.Int("tasks", len(f.Tasks)))
	return nil
}
