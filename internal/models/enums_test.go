package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tgienger/taskdash/internal/models"
)

func TestProjectStatusFromCode(t *testing.T) {
	t.Parallel()

	require.Equal(t, models.ProjectActive, models.ProjectStatusFromCode(0))
	require.Equal(t, models.ProjectCompleted, models.ProjectStatusFromCode(1))
	require.Equal(t, models.ProjectArchived, models.ProjectStatusFromCode(2))
	require.Equal(t, models.ProjectActive, models.ProjectStatusFromCode(99))
	require.Equal(t, models.ProjectActive, models.ProjectStatusFromCode(-1))
}

func TestProjectStatusCode_InverseOfFromCode(t *testing.T) {
	t.Parallel()

	for _, s := range models.ProjectStatuses {
		require.Equal(t, s, models.ProjectStatusFromCode(s.Code()))
	}
}

func TestParseProjectStatus_UnknownFallsBackToActive(t *testing.T) {
	t.Parallel()

	require.Equal(t, models.ProjectArchived, models.ParseProjectStatus(" Archived "))
	require.Equal(t, models.ProjectActive, models.ParseProjectStatus("frozen"))
	require.Equal(t, models.ProjectActive, models.ParseProjectStatus(""))
}

func TestParsePriority(t *testing.T) {
	t.Parallel()

	require.Equal(t, models.PriorityHigh, models.ParsePriority("HIGH"))
	require.Equal(t, models.PriorityMedium, models.ParsePriority("Medium"))
	require.Equal(t, models.PriorityLow, models.ParsePriority("low"))
	require.Equal(t, models.PriorityLow, models.ParsePriority("urgent"))
	require.Equal(t, models.PriorityLow, models.ParsePriority(""))
}

func TestParseTaskStatus(t *testing.T) {
	t.Parallel()

	require.Equal(t, models.TaskInProgress, models.ParseTaskStatus("In-Progress"))
	require.Equal(t, models.TaskInProgress, models.ParseTaskStatus("in_progress"))
	require.Equal(t, models.TaskCompleted, models.ParseTaskStatus("COMPLETED"))
	require.Equal(t, models.TaskPending, models.ParseTaskStatus("blocked"))
}

func TestTaskCodes_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, s := range models.TaskStatuses {
		require.Equal(t, s, models.TaskStatusFromCode(s.Code()))
	}
	for _, p := range models.Priorities {
		require.Equal(t, p, models.PriorityFromCode(p.Code()))
	}
	require.Equal(t, models.TaskPending, models.TaskStatusFromCode(7))
	require.Equal(t, models.PriorityLow, models.PriorityFromCode(7))
}

func TestTaskStatusNext_Cycles(t *testing.T) {
	t.Parallel()

	s := models.TaskPending
	s = s.Next()
	require.Equal(t, models.TaskInProgress, s)
	s = s.Next()
	require.Equal(t, models.TaskCompleted, s)
	require.Equal(t, models.TaskPending, s.Next())
}

func TestParseRoleAndNotificationType(t *testing.T) {
	t.Parallel()

	require.Equal(t, models.RoleAdmin, models.ParseRole("Admin"))
	require.Equal(t, models.RoleDeveloper, models.ParseRole("intern"))
	require.Equal(t, models.NotificationWarning, models.ParseNotificationType("WARNING"))
	require.Equal(t, models.NotificationInfo, models.ParseNotificationType("loud"))
}

func TestTaskIsOverdue(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	require.False(t, models.Task{}.IsOverdue(now))
	require.True(t, models.Task{DueDate: &past, Status: models.TaskInProgress}.IsOverdue(now))
	require.False(t, models.Task{DueDate: &past, Status: models.TaskCompleted}.IsOverdue(now))
	require.False(t, models.Task{DueDate: &future}.IsOverdue(now))
}
