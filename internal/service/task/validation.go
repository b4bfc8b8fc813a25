package task

import (
	"strings"
	"time"
)

const (
	MsgTitleRequired       = "Title is required"
	MsgDescriptionRequired = "Description is required"
	MsgDeadlineInPast      = "Deadline cannot be in the past"
	MsgProgressRange       = "Progress must be between 0 and 100"
)

// Input is the editable content of a task.
type Input struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Progress    int       `json:"progress"`
	Deadline    time.Time `json:"deadline"`
	Photos      []string  `json:"photos"`
}

// Validate checks in against the form rules. The deadline is only checked
// when checkDeadline is set, so untouched deadlines on old tasks pass.
// Deadlines earlier today are still accepted.
func Validate(in Input, now time.Time, checkDeadline bool) error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = MsgTitleRequired
	}
	if strings.TrimSpace(in.Description) == "" {
		fields["description"] = MsgDescriptionRequired
	}
	if checkDeadline && in.Deadline.Before(startOfDay(now)) {
		fields["deadline"] = MsgDeadlineInPast
	}
	if in.Progress < 0 || in.Progress > 100 {
		fields["progress"] = MsgProgressRange
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
