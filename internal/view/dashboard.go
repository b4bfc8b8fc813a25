package view

import (
	"time"

	"taskboard/internal/model"
)

// ApproachingWindow is how far ahead a deadline counts as approaching.
const ApproachingWindow = 7 * 24 * time.Hour

type Dashboard struct {
	Total               int          `json:"total"`
	Current             []model.Task `json:"current"`
	PendingApproval     []model.Task `json:"pending_approval"`
	DeadlineApproaching []model.Task `json:"deadline_approaching"`
}

// BuildDashboard buckets the tasks visible to user. A task may land in more
// than one bucket.
func BuildDashboard(tasks []model.Task, user model.User, now time.Time) Dashboard {
	visible := Visible(tasks, user)
	return Dashboard{
		Total:           len(visible),
		Current:         filter(visible, func(t model.Task) bool { return t.Progress < 100 }),
		PendingApproval: filter(visible, func(t model.Task) bool { return t.Status == model.StatusSubmitted }),
		DeadlineApproaching: filter(visible, func(t model.Task) bool {
			return t.Progress < 100 && DeadlineApproaching(t.Deadline, now)
		}),
	}
}

// DeadlineApproaching reports whether deadline falls in [now, now+7d], both ends included.
func DeadlineApproaching(deadline, now time.Time) bool {
	return !deadline.Before(now) && !deadline.After(now.Add(ApproachingWindow))
}
