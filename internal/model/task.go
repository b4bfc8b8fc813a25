package model

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Statuses lists every task status in workflow order.
var Statuses = []Status{StatusPending, StatusSubmitted, StatusApproved, StatusRejected}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Finalized reports whether an admin has already decided on the task.
func (s Status) Finalized() bool {
	return s == StatusApproved || s == StatusRejected
}

type Task struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Progress      int       `json:"progress"`
	Deadline      time.Time `json:"deadline"`
	Status        Status    `json:"status"`
	UserID        string    `json:"user_id"`
	Photos        []string  `json:"photos"`
	CreatedAt     time.Time `json:"created_at"`
	AdminComments *string   `json:"admin_comments,omitempty"` // set by approve/reject
}

// Clone returns a copy that shares no slices or pointers with t.
func (t Task) Clone() Task {
	c := t
	if t.Photos != nil {
		c.Photos = append([]string(nil), t.Photos...)
	}
	if t.AdminComments != nil {
		comment := *t.AdminComments
		c.AdminComments = &comment
	}
	return c
}

// TaskDraft is the input for creating a task. Status is accepted so callers
// can pass whatever their form carried, but creation always starts pending.
type TaskDraft struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Progress    int       `json:"progress"`
	Deadline    time.Time `json:"deadline"`
	UserID      string    `json:"user_id"`
	Photos      []string  `json:"photos"`
	Status      Status    `json:"status,omitempty"`
}
