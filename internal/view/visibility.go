// Package view derives dashboard, admin, calendar and profile data from task
// snapshots. Nothing here touches a store.
package view

import "taskboard/internal/model"

// Visible returns the tasks user may see: all of them for an admin, only
// their own otherwise. Order is preserved.
func Visible(tasks []model.Task, user model.User) []model.Task {
	return filter(tasks, func(t model.Task) bool { return user.IsAdmin() || t.UserID == user.ID })
}

func filter(tasks []model.Task, keep func(model.Task) bool) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func count(tasks []model.Task, match func(model.Task) bool) int {
	n := 0
	for _, t := range tasks {
		if match(t) {
			n++
		}
	}
	return n
}
