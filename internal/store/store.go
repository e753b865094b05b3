// Package store holds the canonical in-memory state of the dashboard:
// projects, tasks, notifications and team members.
package store

import (
	"sync"

	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/projection"
)

// Store bundles the entity stores of one signed-in session
type Store struct {
	Projects      *Projects
	Tasks         *Tasks
	Notifications *Notifications
	Members       *Collection[models.User]
}

// New creates an empty store
func New() *Store {
	return &Store{
		Projects:      NewProjects(),
		Tasks:         NewTasks(),
		Notifications: NewNotifications(),
		Members:       NewCollection(func(u models.User) string { return u.ID }),
	}
}

// Reset empties every entity store, used when the session ends
func (s *Store) Reset() {
	s.Projects.Reset()
	s.Tasks.Reset()
	s.Notifications.ReplaceAll(nil)
	s.Members.Reset()
}

// MemberName resolves a user id to a display name, falling back to the id
func (s *Store) MemberName(id string) string {
	if u, ok := s.Members.Get(id); ok && u.Name != "" {
		return u.Name
	}
	return id
}

// Projects is the project collection plus the project opened in detail
type Projects struct {
	*Collection[models.Project]

	mu        sync.RWMutex
	currentID string
}

// NewProjects creates an empty project store
func NewProjects() *Projects {
	return &Projects{
		Collection: NewCollection(func(p models.Project) string { return p.ID }),
	}
}

// SetCurrent selects the project opened in detail, "" for none
func (p *Projects) SetCurrent(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentID = id
}

// Current returns the opened project; it reflects later replacements and
// disappears once the project is removed.
func (p *Projects) Current() (models.Project, bool) {
	p.mu.RLock()
	id := p.currentID
	p.mu.RUnlock()
	if id == "" {
		return models.Project{}, false
	}
	return p.Get(id)
}

// RemoveOne deletes a project and clears it as current
func (p *Projects) RemoveOne(id string) (models.Project, bool) {
	removed, ok := p.Collection.RemoveOne(id)
	p.mu.Lock()
	if p.currentID == id {
		p.currentID = ""
	}
	p.mu.Unlock()
	return removed, ok
}

// Reset empties the store and clears the current project
func (p *Projects) Reset() {
	p.Collection.Reset()
	p.SetCurrent("")
}

// Tasks is the task collection plus the list view state that belongs to it
type Tasks struct {
	*Collection[models.Task]

	mu      sync.RWMutex
	filters projection.TaskFilter
	page    int
	logs    []models.TaskLog
}

// NewTasks creates an empty task store with all filters open
func NewTasks() *Tasks {
	return &Tasks{
		Collection: NewCollection(func(t models.Task) string { return t.ID }),
		filters:    projection.DefaultTaskFilter(),
		page:       1,
	}
}

// Filters returns the current filter selection
func (t *Tasks) Filters() projection.TaskFilter {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.filters
}

// SetFilters merges a partial filter change and goes back to page 1
func (t *Tasks) SetFilters(u projection.TaskFilterUpdate) projection.TaskFilter {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.filters = t.filters.Merge(u)
	t.page = 1
	return t.filters
}

// Page returns the current 1-based page
func (t *Tasks) Page() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.page
}

// SetPage sets the current page, clamped to at least 1
func (t *Tasks) SetPage(page int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.page = max(page, 1)
}

// Visible returns the tasks passing the current filters
func (t *Tasks) Visible() []models.Task {
	return projection.FilterTasks(t.All(), t.Filters())
}

// AddLog records a history entry, newest first
func (t *Tasks) AddLog(l models.TaskLog) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logs = append([]models.TaskLog{l}, t.logs...)
}

// Logs returns the history of a task, newest first
func (t *Tasks) Logs(taskID string) []models.TaskLog {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []models.TaskLog
	for _, l := range t.logs {
		if l.TaskID == taskID {
			out = append(out, l)
		}
	}
	return out
}

// RemoveLogs forgets the history of a task
func (t *Tasks) RemoveLogs(taskID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	kept := t.logs[:0]
	for _, l := range t.logs {
		if l.TaskID != taskID {
			kept = append(kept, l)
		}
	}
	t.logs = kept
}

// RemoveByProject drops every task of a project and returns how many went
func (t *Tasks) RemoveByProject(projectID string) int {
	return t.RemoveWhere(func(task models.Task) bool { return task.ProjectID == projectID })
}

// Reset empties tasks and history and reopens all filters
func (t *Tasks) Reset() {
	t.Collection.Reset()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.filters = projection.DefaultTaskFilter()
	t.page = 1
	t.logs = nil
}
