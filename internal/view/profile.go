package view

import "taskboard/internal/model"

type Profile struct {
	User      model.User `json:"user"`
	Total     int        `json:"total"`
	Completed int        `json:"completed"`
	Pending   int        `json:"pending"`
	Approved  int        `json:"approved"`
}

// BuildProfile counts the user's own tasks, even for admins.
func BuildProfile(tasks []model.Task, user model.User) Profile {
	own := filter(tasks, func(t model.Task) bool { return t.UserID == user.ID })
	return Profile{
		User:      user,
		Total:     len(own),
		Completed: count(own, func(t model.Task) bool { return t.Progress == 100 }),
		Pending:   count(own, func(t model.Task) bool { return t.Status == model.StatusPending }),
		Approved:  count(own, func(t model.Task) bool { return t.Status == model.StatusApproved }),
	}
}
