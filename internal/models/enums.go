package models

import "strings"

// Role is the user's role in the organisation
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleDeveloper Role = "developer"
)

// ParseRole normalizes a role name, falling back to developer
func ParseRole(s string) Role {
	switch r := Role(normalize(s)); r {
	case RoleAdmin, RoleManager, RoleDeveloper:
		return r
	default:
		return RoleDeveloper
	}
}

// ProjectStatus is the lifecycle state of a project
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

// ProjectStatuses lists every project status in display order
var ProjectStatuses = []ProjectStatus{ProjectActive, ProjectCompleted, ProjectArchived}

// ProjectStatusFromCode maps the API's integer status; unknown codes are active
func ProjectStatusFromCode(code int) ProjectStatus {
	switch code {
	case 0:
		return ProjectActive
	case 1:
		return ProjectCompleted
	case 2:
		return ProjectArchived
	default:
		return ProjectActive
	}
}

// ParseProjectStatus maps a status name; unknown names are active
func ParseProjectStatus(s string) ProjectStatus {
	switch st := ProjectStatus(normalize(s)); st {
	case ProjectActive, ProjectCompleted, ProjectArchived:
		return st
	default:
		return ProjectActive
	}
}

// Code returns the integer the API uses for this status
func (s ProjectStatus) Code() int {
	switch s {
	case ProjectCompleted:
		return 1
	case ProjectArchived:
		return 2
	default:
		return 0
	}
}

// TaskStatus is the progress state of a task
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
)

// TaskStatuses lists every task status in workflow order
var TaskStatuses = []TaskStatus{TaskPending, TaskInProgress, TaskCompleted}

// ParseTaskStatus normalizes a wire status; unknown values are pending
func ParseTaskStatus(s string) TaskStatus {
	switch normalize(s) {
	case "pending":
		return TaskPending
	case "in-progress", "in_progress", "inprogress":
		return TaskInProgress
	case "completed":
		return TaskCompleted
	default:
		return TaskPending
	}
}

// TaskStatusFromCode maps an integer status; unknown codes are pending
func TaskStatusFromCode(code int) TaskStatus {
	switch code {
	case 1:
		return TaskInProgress
	case 2:
		return TaskCompleted
	default:
		return TaskPending
	}
}

// Code returns the integer the API uses for this status
func (s TaskStatus) Code() int {
	switch s {
	case TaskInProgress:
		return 1
	case TaskCompleted:
		return 2
	default:
		return 0
	}
}

// Next cycles pending -> in-progress -> completed -> pending
func (s TaskStatus) Next() TaskStatus {
	switch s {
	case TaskPending:
		return TaskInProgress
	case TaskInProgress:
		return TaskCompleted
	default:
		return TaskPending
	}
}

// Priority is the urgency of a task
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every priority from most to least urgent
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority normalizes a wire priority; unknown values are low
func ParsePriority(s string) Priority {
	switch p := Priority(normalize(s)); p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p
	default:
		return PriorityLow
	}
}

// PriorityFromCode maps an integer priority; unknown codes are low
func PriorityFromCode(code int) Priority {
	switch code {
	case 1:
		return PriorityMedium
	case 2:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// Code returns the integer the API uses for this priority
func (p Priority) Code() int {
	switch p {
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	default:
		return 0
	}
}

// NotificationType is the severity of a notification
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// ParseNotificationType normalizes a type name; unknown values are info
func ParseNotificationType(s string) NotificationType {
	switch t := NotificationType(normalize(s)); t {
	case NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError:
		return t
	default:
		return NotificationInfo
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
