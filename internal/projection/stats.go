package projection

import "github.com/tgienger/taskdash/internal/models"

// TaskStats counts tasks by status
type TaskStats struct {
	Total      int
	Completed  int
	InProgress int
	Pending    int
}

// CountTasks tallies tasks in a single pass
func CountTasks(tasks []models.Task) TaskStats {
	s := TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case models.TaskCompleted:
			s.Completed++
		case models.TaskInProgress:
			s.InProgress++
		case models.TaskPending:
			s.Pending++
		}
	}
	return s
}

// CompletionRate is the completed share of the tasks as a percentage
func (s TaskStats) CompletionRate() float64 {
	return CompletionRate(s.Completed, s.Total)
}

// ProjectStats counts projects by status
type ProjectStats struct {
	Total     int
	Active    int
	Completed int
	Archived  int
}

// CountProjects tallies projects in a single pass
func CountProjects(projects []models.Project) ProjectStats {
	s := ProjectStats{Total: len(projects)}
	for _, p := range projects {
		switch p.Status {
		case models.ProjectActive:
			s.Active++
		case models.ProjectCompleted:
			s.Completed++
		case models.ProjectArchived:
			s.Archived++
		}
	}
	return s
}

// CompletionRate returns completed/total*100, or 0 when total is 0
func CompletionRate(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// DashboardStats is the overview shown on the dashboard
type DashboardStats struct {
	Projects    ProjectStats
	Tasks       TaskStats
	Overdue     int
	UnreadCount int
}

// CompletionRate of all tasks on the dashboard
func (d DashboardStats) CompletionRate() float64 {
	return d.Tasks.CompletionRate()
}
