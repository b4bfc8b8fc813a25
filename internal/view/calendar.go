package view

import (
	"time"

	"taskboard/internal/model"
)

const (
	ColorPending   = "#ff9800"
	ColorSubmitted = "#2196f3"
	ColorApproved  = "#4caf50"
	ColorRejected  = "#f44336"
	ColorDefault   = "#9e9e9e"
)

type CalendarEvent struct {
	ID     string       `json:"id"`
	Title  string       `json:"title"`
	Start  time.Time    `json:"start"`
	End    time.Time    `json:"end"`
	Status model.Status `json:"status"`
	Color  string       `json:"color"`
}

type CalendarFilter struct {
	UserID string
	Status string
}

// DefaultCalendarFilter shows admins everyone and users themselves.
func DefaultCalendarFilter(user model.User) CalendarFilter {
	f := CalendarFilter{UserID: user.ID, Status: All}
	if user.IsAdmin() {
		f.UserID = All
	}
	return f
}

// CalendarEvents turns every visible task matching f into a one-day event
// starting at its deadline.
func CalendarEvents(tasks []model.Task, user model.User, f CalendarFilter) []CalendarEvent {
	events := []CalendarEvent{}
	for _, t := range Visible(tasks, user) {
		if !matchesOrAll(f.UserID, t.UserID) || !matchesOrAll(f.Status, string(t.Status)) {
			continue
		}
		events = append(events, CalendarEvent{
			ID:     t.ID,
			Title:  t.Title,
			Start:  t.Deadline,
			End:    t.Deadline.AddDate(0, 0, 1),
			Status: t.Status,
			Color:  StatusColor(t.Status),
		})
	}
	return events
}

func StatusColor(s model.Status) string {
	switch s {
	case model.StatusPending:
		return ColorPending
	case model.StatusSubmitted:
		return ColorSubmitted
	case model.StatusApproved:
		return ColorApproved
	case model.StatusRejected:
		return ColorRejected
	default:
		return ColorDefault
	}
}
