// Package projection derives the visible subsets and aggregates of the
// entity stores. Every function is pure and is called on each render.
package projection

import (
	"strings"

	"github.com/tgienger/taskdash/internal/models"
)

// All is the filter value that never excludes anything
const All = "all"

// TaskFilter selects tasks by exact status, priority and assignee
type TaskFilter struct {
	Status     string
	Priority   string
	AssignedTo string
}

// DefaultTaskFilter passes every task
func DefaultTaskFilter() TaskFilter {
	return TaskFilter{Status: All, Priority: All, AssignedTo: All}
}

// TaskFilterUpdate is a partial filter change; nil fields are kept
type TaskFilterUpdate struct {
	Status     *string
	Priority   *string
	AssignedTo *string
}

// Merge applies the non-nil fields of u to f
func (f TaskFilter) Merge(u TaskFilterUpdate) TaskFilter {
	if u.Status != nil {
		f.Status = *u.Status
	}
	if u.Priority != nil {
		f.Priority = *u.Priority
	}
	if u.AssignedTo != nil {
		f.AssignedTo = *u.AssignedTo
	}
	return f
}

// IsAll reports whether the filter passes every task
func (f TaskFilter) IsAll() bool {
	return isAll(f.Status) && isAll(f.Priority) && isAll(f.AssignedTo)
}

// Match reports whether t passes every set field of f
func (f TaskFilter) Match(t models.Task) bool {
	if !isAll(f.Status) && string(t.Status) != f.Status {
		return false
	}
	if !isAll(f.Priority) && string(t.Priority) != f.Priority {
		return false
	}
	if !isAll(f.AssignedTo) && t.AssignedTo != f.AssignedTo {
		return false
	}
	return true
}

// FilterTasks returns the tasks matching f in their original order.
// A filter of all "all" values returns tasks unchanged.
func FilterTasks(tasks []models.Task, f TaskFilter) []models.Task {
	if f.IsAll() {
		return tasks
	}
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// TasksForProject narrows tasks to a single project
func TasksForProject(tasks []models.Task, projectID string) []models.Task {
	out := make([]models.Task, 0)
	for _, t := range tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out
}

// ProjectFilter selects projects by status and a free text search
type ProjectFilter struct {
	Status string
	Search string
}

// DefaultProjectFilter passes every project
func DefaultProjectFilter() ProjectFilter {
	return ProjectFilter{Status: All}
}

// Match reports whether p passes the filter. Search is a case-insensitive
// substring match on title or description.
func (f ProjectFilter) Match(p models.Project) bool {
	if !isAll(f.Status) && string(p.Status) != f.Status {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}

// FilterProjects returns the projects matching f in their original order
func FilterProjects(projects []models.Project, f ProjectFilter) []models.Project {
	if isAll(f.Status) && strings.TrimSpace(f.Search) == "" {
		return projects
	}
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// NotificationFilter is "all", "unread", "read" or a notification type
type NotificationFilter string

const (
	NotificationsAll    NotificationFilter = All
	NotificationsUnread NotificationFilter = "unread"
	NotificationsRead   NotificationFilter = "read"
)

// NotificationFilters lists the filters in the order the UI cycles them
var NotificationFilters = []NotificationFilter{
	NotificationsAll,
	NotificationsUnread,
	NotificationsRead,
	NotificationFilter(models.NotificationInfo),
	NotificationFilter(models.NotificationSuccess),
	NotificationFilter(models.NotificationWarning),
	NotificationFilter(models.NotificationError),
}

// Match reports whether n passes the filter
func (f NotificationFilter) Match(n models.Notification) bool {
	switch f {
	case NotificationsAll, "":
		return true
	case NotificationsUnread:
		return !n.Read
	case NotificationsRead:
		return n.Read
	default:
		return string(n.Type) == string(f)
	}
}

// FilterNotifications returns the notifications matching f in order
func FilterNotifications(notifications []models.Notification, f NotificationFilter) []models.Notification {
	out := make([]models.Notification, 0, len(notifications))
	for _, n := range notifications {
		if f.Match(n) {
			out = append(out, n)
		}
	}
	return out
}

// Cycle returns the value after current in options, wrapping around.
// A current value not in options yields the first option.
func Cycle[T comparable](options []T, current T) T {
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

func isAll(v string) bool {
	return v == "" || v == All
}
