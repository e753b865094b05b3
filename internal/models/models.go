package models

import "time"

// DefaultAvatar is used when the login response carries no avatar
const DefaultAvatar = "/cloud-computing.png"

// User represents the signed-in user or a team member
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// Project represents a project shared by a set of members
type Project struct {
	ID          string
	Title       string
	Description string
	Status      ProjectStatus
	Members     []string // member user ids, display order preserved
	TasksCount  int
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Task represents a single task inside a project
type Task struct {
	ID             string
	Title          string
	Description    string
	Status         TaskStatus
	Priority       Priority
	AssignedTo     string
	AssignedToName string
	ProjectID      string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DueDate        *time.Time // nil when the task has no deadline
}

// IsOverdue reports whether the task is past its due date and still open
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != TaskCompleted
}

// TaskLog is one entry of a task's change history
type TaskLog struct {
	ID        string
	TaskID    string
	Action    string
	OldValue  string
	NewValue  string
	UserID    string
	UserName  string
	Timestamp time.Time
}

// Notification is a message shown to a single user
type Notification struct {
	ID        string
	Title     string
	Message   string
	Type      NotificationType
	Read      bool
	CreatedAt time.Time
	UserID    string
}
