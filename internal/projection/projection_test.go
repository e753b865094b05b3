package projection_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/projection"
)

func sampleTasks() []models.Task {
	return []models.Task{
		{ID: "1", Status: models.TaskPending, Priority: models.PriorityHigh, AssignedTo: "u1", ProjectID: "p1"},
		{ID: "2", Status: models.TaskCompleted, Priority: models.PriorityLow, AssignedTo: "u2", ProjectID: "p1"},
		{ID: "3", Status: models.TaskInProgress, Priority: models.PriorityHigh, AssignedTo: "u2", ProjectID: "p2"},
		{ID: "4", Status: models.TaskCompleted, Priority: models.PriorityHigh, AssignedTo: "u1", ProjectID: "p2"},
		{ID: "5", Status: models.TaskPending, Priority: models.PriorityMedium, AssignedTo: "", ProjectID: "p2"},
	}
}

func ids(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestFilterTasks_AllIsIdentity(t *testing.T) {
	t.Parallel()

	tasks := sampleTasks()
	got := projection.FilterTasks(tasks, projection.DefaultTaskFilter())
	require.Equal(t, tasks, got)
}

func TestFilterTasks_Conjunctive(t *testing.T) {
	t.Parallel()

	f := projection.TaskFilter{Status: "completed", Priority: "high", AssignedTo: projection.All}
	require.Equal(t, []string{"4"}, ids(projection.FilterTasks(sampleTasks(), f)))

	f = projection.TaskFilter{Status: projection.All, Priority: "high", AssignedTo: "u2"}
	require.Equal(t, []string{"3"}, ids(projection.FilterTasks(sampleTasks(), f)))

	f = projection.TaskFilter{Status: "pending", Priority: projection.All, AssignedTo: projection.All}
	require.Equal(t, []string{"1", "5"}, ids(projection.FilterTasks(sampleTasks(), f)))
}

func TestFilterTasks_SubsetProperty(t *testing.T) {
	t.Parallel()

	statuses := []string{projection.All, "pending", "in-progress", "completed"}
	priorities := []string{projection.All, "high", "medium", "low"}
	assignees := []string{projection.All, "u1", "u2", "nobody"}

	tasks := sampleTasks()
	for _, s := range statuses {
		for _, p := range priorities {
			for _, a := range assignees {
				f := projection.TaskFilter{Status: s, Priority: p, AssignedTo: a}
				t.Run(fmt.Sprintf("%s/%s/%s", s, p, a), func(t *testing.T) {
					got := projection.FilterTasks(tasks, f)
					require.LessOrEqual(t, len(got), len(tasks))
					for _, task := range got {
						if s != projection.All {
							require.Equal(t, s, string(task.Status))
						}
						if p != projection.All {
							require.Equal(t, p, string(task.Priority))
						}
						if a != projection.All {
							require.Equal(t, a, task.AssignedTo)
						}
					}
					expected := 0
					for _, task := range tasks {
						if f.Match(task) {
							expected++
						}
					}
					require.Len(t, got, expected)
				})
			}
		}
	}
}

func TestTaskFilterMerge_KeepsUnsetFields(t *testing.T) {
	t.Parallel()

	high := "high"
	f := projection.TaskFilter{Status: "pending", Priority: projection.All, AssignedTo: "u1"}
	f = f.Merge(projection.TaskFilterUpdate{Priority: &high})
	require.Equal(t, projection.TaskFilter{Status: "pending", Priority: "high", AssignedTo: "u1"}, f)
}

func TestFilterProjects(t *testing.T) {
	t.Parallel()

	projects := []models.Project{
		{ID: "a", Title: "E-commerce Platform", Description: "online shop", Status: models.ProjectActive},
		{ID: "b", Title: "Mobile App", Description: "Shop companion", Status: models.ProjectArchived},
		{ID: "c", Title: "Internal Wiki", Description: "docs", Status: models.ProjectActive},
	}

	require.Equal(t, projects, projection.FilterProjects(projects, projection.DefaultProjectFilter()))

	got := projection.FilterProjects(projects, projection.ProjectFilter{Status: projection.All, Search: "SHOP"})
	require.Len(t, got, 2)

	got = projection.FilterProjects(projects, projection.ProjectFilter{Status: "active", Search: "shop"})
	require.Len(t, got, 1)
	require.Equal(t, "a", got[0].ID)
}

func TestFilterNotifications(t *testing.T) {
	t.Parallel()

	ns := []models.Notification{
		{ID: "1", Type: models.NotificationInfo, Read: false},
		{ID: "2", Type: models.NotificationSuccess, Read: true},
		{ID: "3", Type: models.NotificationWarning, Read: false},
	}

	require.Len(t, projection.FilterNotifications(ns, projection.NotificationsAll), 3)
	require.Len(t, projection.FilterNotifications(ns, projection.NotificationsUnread), 2)
	require.Len(t, projection.FilterNotifications(ns, projection.NotificationsRead), 1)
	got := projection.FilterNotifications(ns, projection.NotificationFilter(models.NotificationWarning))
	require.Len(t, got, 1)
	require.Equal(t, "3", got[0].ID)
}

func TestCountTasks(t *testing.T) {
	t.Parallel()

	s := projection.CountTasks(sampleTasks())
	require.Equal(t, projection.TaskStats{Total: 5, Completed: 2, InProgress: 1, Pending: 2}, s)
	require.InDelta(t, 40.0, s.CompletionRate(), 0.0001)
}

func TestCountProjects(t *testing.T) {
	t.Parallel()

	s := projection.CountProjects([]models.Project{
		{Status: models.ProjectActive},
		{Status: models.ProjectActive},
		{Status: models.ProjectArchived},
	})
	require.Equal(t, projection.ProjectStats{Total: 3, Active: 2, Archived: 1}, s)
}

func TestCompletionRate(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0.0, projection.CompletionRate(0, 0))
	require.Equal(t, 30.0, projection.CompletionRate(3, 10))
	require.Equal(t, 100.0, projection.CompletionRate(4, 4))
	require.Equal(t, 0.0, projection.TaskStats{}.CompletionRate())
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13}

	require.Equal(t, 3, projection.TotalPages(len(items), projection.ProjectsPerPage))
	require.Equal(t, 1, projection.TotalPages(0, projection.ProjectsPerPage))
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, projection.Paginate(items, 1, 6))
	require.Equal(t, []int{13}, projection.Paginate(items, 3, 6))
	require.Equal(t, []int{13}, projection.Paginate(items, 9, 6))
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, projection.Paginate(items, 0, 6))
	require.Empty(t, projection.Paginate([]int{}, 1, 6))
}

func TestCycle(t *testing.T) {
	t.Parallel()

	opts := []string{"all", "a", "b"}
	require.Equal(t, "a", projection.Cycle(opts, "all"))
	require.Equal(t, "all", projection.Cycle(opts, "b"))
	require.Equal(t, "all", projection.Cycle(opts, "zzz"))
}

func TestPermissions(t *testing.T) {
	t.Parallel()

	admin := models.User{ID: "a", Role: models.RoleAdmin}
	manager := models.User{ID: "m", Role: models.RoleManager}
	dev := models.User{ID: "d", Role: models.RoleDeveloper}
	own := models.Task{CreatedBy: "d"}
	foreign := models.Task{CreatedBy: "x"}

	require.True(t, projection.CanCreateProject(admin))
	require.False(t, projection.CanCreateProject(manager))
	require.True(t, projection.CanCreateTask(manager))
	require.False(t, projection.CanCreateTask(dev))
	require.True(t, projection.CanEditTask(dev, own))
	require.False(t, projection.CanEditTask(dev, foreign))
	require.True(t, projection.CanEditTask(manager, foreign))
	require.False(t, projection.CanDeleteTask(manager, foreign))
	require.True(t, projection.CanDeleteTask(dev, own))
	require.False(t, projection.CanDeleteTask(models.User{}, models.Task{}))
}
