package mq

import "time"

// Routing keys on the events exchange.
const (
	RoutingTaskCreated   = "task.created"
	RoutingTaskUpdated   = "task.updated"
	RoutingTaskDeleted   = "task.deleted"
	RoutingTaskSubmitted = "task.submitted"
	RoutingTaskApproved  = "task.approved"
	RoutingTaskRejected  = "task.rejected"
	RoutingUserSwitched  = "user.switched"
	RoutingUserUpdated   = "user.updated"
)

type TaskCreatedPayload struct {
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Deadline  time.Time `json:"deadline"`
	CreatedAt time.Time `json:"created_at"`
}

type TaskUpdatedPayload struct {
	TaskID   string `json:"task_id"`
	UserID   string `json:"user_id"`
	Progress int    `json:"progress"`
}

type TaskDeletedPayload struct {
	TaskID string `json:"task_id"`
}

// TaskStatusPayload is sent for submit, approve and reject.
type TaskStatusPayload struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
}

type UserSwitchedPayload struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type UserUpdatedPayload struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
}
