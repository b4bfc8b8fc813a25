package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/model"
)

var (
	now   = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	admin = model.User{ID: "1", FullName: "Admin User", Role: model.RoleAdmin}
	john  = model.User{ID: "2", FullName: "John Doe", Role: model.RoleUser}
	jane  = model.User{ID: "3", FullName: "Jane Smith", Role: model.RoleUser}
)

func task(id, userID string, status model.Status, progress int, deadline time.Time) model.Task {
	return model.Task{
		ID:          id,
		Title:       "Task " + id,
		Description: "description " + id,
		Progress:    progress,
		Deadline:    deadline,
		Status:      status,
		UserID:      userID,
	}
}

func ids(tasks []model.Task) []string {
	out := []string{}
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func fixture() []model.Task {
	return []model.Task{
		task("a", "2", model.StatusPending, 50, now.AddDate(0, 0, 3)),
		task("b", "2", model.StatusSubmitted, 100, now.AddDate(0, 0, 3)),
		task("c", "3", model.StatusApproved, 20, now.AddDate(0, 0, 10)),
		task("d", "3", model.StatusRejected, 0, now.AddDate(0, 0, 1)),
		task("e", "1", model.StatusSubmitted, 70, now.AddDate(0, 0, -2)),
	}
}

func TestVisible(t *testing.T) {
	tasks := fixture()

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(Visible(tasks, admin)))
	assert.Equal(t, []string{"a", "b"}, ids(Visible(tasks, john)))
	assert.Equal(t, []string{"c", "d"}, ids(Visible(tasks, jane)))
	assert.Empty(t, Visible(tasks, model.User{ID: "9", Role: model.RoleUser}))

	for _, u := range []model.User{john, jane} {
		for _, v := range Visible(tasks, u) {
			assert.Equal(t, u.ID, v.UserID)
		}
	}
}

func TestDeadlineApproachingCases(t *testing.T) {
	cases := []struct {
		name     string
		progress int
		deadline time.Time
		want     bool
	}{
		{"half done, due in three days", 50, now.AddDate(0, 0, 3), true},
		{"complete, due in three days", 100, now.AddDate(0, 0, 3), false},
		{"due in ten days", 50, now.AddDate(0, 0, 10), false},
		{"due right now", 10, now, true},
		{"due exactly a week out", 10, now.Add(ApproachingWindow), true},
		{"just past the window", 10, now.Add(ApproachingWindow + time.Second), false},
		{"overdue", 10, now.Add(-time.Minute), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tasks := []model.Task{task("x", john.ID, model.StatusPending, tc.progress, tc.deadline)}
			d := BuildDashboard(tasks, john, now)
			assert.Equal(t, tc.want, len(d.DeadlineApproaching) == 1)
		})
	}
}

func TestBuildDashboard(t *testing.T) {
	tasks := fixture()

	d := BuildDashboard(tasks, john, now)
	assert.Equal(t, 2, d.Total)
	assert.Equal(t, []string{"a"}, ids(d.Current))
	assert.Equal(t, []string{"b"}, ids(d.PendingApproval))
	assert.Equal(t, []string{"a"}, ids(d.DeadlineApproaching))

	d = BuildDashboard(tasks, admin, now)
	assert.Equal(t, 5, d.Total)
	assert.Equal(t, []string{"a", "c", "d", "e"}, ids(d.Current))
	assert.Equal(t, []string{"b", "e"}, ids(d.PendingApproval))
	assert.Equal(t, []string{"a", "d"}, ids(d.DeadlineApproaching))
}

func TestAdminSearchAndStatus(t *testing.T) {
	foo1 := task("f1", "2", model.StatusApproved, 100, now)
	foo1.Title = "Refactor FOO module"
	foo2 := task("f2", "3", model.StatusApproved, 100, now)
	foo2.Description = "touches the foo bar"
	foo3 := task("f3", "3", model.StatusRejected, 10, now)
	foo3.Title = "foo again"
	other := task("o", "2", model.StatusApproved, 100, now)
	tasks := []model.Task{foo1, other, foo2, foo3}

	got := AdminFilter{Search: "foo", Status: string(model.StatusApproved)}.Apply(tasks)
	assert.Equal(t, []string{"f1", "f2"}, ids(got))

	got = AdminFilter{Search: "foo", Status: All, UserID: "3"}.Apply(tasks)
	assert.Equal(t, []string{"f2", "f3"}, ids(got))

	assert.Len(t, AdminFilter{}.Apply(tasks), 4)
}

func TestBuildAdminTable(t *testing.T) {
	tasks := fixture()

	table := BuildAdminTable(tasks, AdminFilter{}, TabSubmitted)
	assert.Equal(t, TabSubmitted, table.Tab)
	assert.Equal(t, TabCounts{All: 5, Submitted: 2, Approved: 1, Rejected: 1}, table.Counts)
	assert.Equal(t, []string{"b", "e"}, ids(table.Tasks))

	table = BuildAdminTable(tasks, AdminFilter{UserID: "3"}, "")
	assert.Equal(t, TabAll, table.Tab)
	assert.Equal(t, TabCounts{All: 2, Approved: 1, Rejected: 1}, table.Counts)
	assert.Equal(t, []string{"c", "d"}, ids(table.Tasks))

	assert.True(t, TabRejected.Valid())
	assert.False(t, Tab("pending").Valid())
}

func TestCalendarEvents(t *testing.T) {
	tasks := fixture()

	events := CalendarEvents(tasks, john, DefaultCalendarFilter(john))
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].ID)
	assert.Equal(t, tasks[0].Deadline, events[0].Start)
	assert.Equal(t, tasks[0].Deadline.AddDate(0, 0, 1), events[0].End)
	assert.Equal(t, ColorPending, events[0].Color)
	assert.Equal(t, ColorSubmitted, events[1].Color)

	// a user cannot widen the calendar to somebody else's tasks
	events = CalendarEvents(tasks, john, CalendarFilter{UserID: "3", Status: All})
	assert.Empty(t, events)

	f := DefaultCalendarFilter(admin)
	assert.Equal(t, All, f.UserID)
	f.Status = string(model.StatusRejected)
	events = CalendarEvents(tasks, admin, f)
	require.Len(t, events, 1)
	assert.Equal(t, "d", events[0].ID)
	assert.Equal(t, ColorRejected, events[0].Color)

	assert.Equal(t, ColorApproved, StatusColor(model.StatusApproved))
	assert.Equal(t, ColorDefault, StatusColor("archived"))
}

func TestBuildProfile(t *testing.T) {
	tasks := fixture()
	tasks = append(tasks, task("g", "2", model.StatusApproved, 100, now))

	p := BuildProfile(tasks, john)
	assert.Equal(t, Profile{User: john, Total: 3, Completed: 2, Pending: 1, Approved: 1}, p)

	p = BuildProfile(tasks, admin)
	assert.Equal(t, 1, p.Total, "admins see only their own tasks on the profile")
}
