package db_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tgienger/taskdash/internal/db"
	"github.com/tgienger/taskdash/internal/models"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "nested", "taskdash.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestSettings(t *testing.T) {
	t.Parallel()
	database := openTestDB(t)

	v, err := database.GetSetting("session_token")
	require.NoError(t, err)
	require.Equal(t, "", v)

	require.NoError(t, database.SetSetting("session_token", "abc"))
	require.NoError(t, database.SetSetting("session_token", "def"))
	v, err = database.GetSetting("session_token")
	require.NoError(t, err)
	require.Equal(t, "def", v)

	require.NoError(t, database.DeleteSetting("session_token"))
	require.NoError(t, database.DeleteSetting("session_token"))
	v, err = database.GetSetting("session_token")
	require.NoError(t, err)
	require.Equal(t, "", v)
}

func TestSettings_SurviveReopen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "taskdash.db")

	first, err := db.Open(path)
	require.NoError(t, err)
	require.NoError(t, first.SetSetting("last_route", "tasks"))
	require.NoError(t, first.Close())

	second, err := db.Open(path)
	require.NoError(t, err)
	defer second.Close()
	v, err := second.GetSetting("last_route")
	require.NoError(t, err)
	require.Equal(t, "tasks", v)
}

func TestNotifications(t *testing.T) {
	t.Parallel()
	database := openTestDB(t)

	base := time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)
	older := models.Notification{ID: "n1", UserID: "u1", Title: "older", Type: models.NotificationInfo, CreatedAt: base}
	newer := models.Notification{ID: "n2", UserID: "u1", Title: "newer", Type: models.NotificationWarning, CreatedAt: base.Add(time.Hour)}
	other := models.Notification{ID: "n3", UserID: "u2", Title: "other", Type: models.NotificationSuccess, CreatedAt: base}

	for _, n := range []models.Notification{older, newer, other} {
		require.NoError(t, database.SaveNotification(n))
	}

	list, err := database.ListNotifications("u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "n2", list[0].ID)
	require.Equal(t, models.NotificationWarning, list[0].Type)
	require.Equal(t, "n1", list[1].ID)
	require.False(t, list[0].Read)

	require.NoError(t, database.MarkNotificationRead("n1"))
	list, err = database.ListNotifications("u1")
	require.NoError(t, err)
	require.True(t, list[1].Read)
	require.False(t, list[0].Read)

	require.NoError(t, database.MarkAllNotificationsRead("u1"))
	list, err = database.ListNotifications("u1")
	require.NoError(t, err)
	for _, n := range list {
		require.True(t, n.Read)
	}

	otherList, err := database.ListNotifications("u2")
	require.NoError(t, err)
	require.Len(t, otherList, 1)
	require.False(t, otherList[0].Read)

	require.NoError(t, database.DeleteNotification("n2"))
	list, err = database.ListNotifications("u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "n1", list[0].ID)
}

func TestTaskLogs(t *testing.T) {
	t.Parallel()
	database := openTestDB(t)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	entries := []models.TaskLog{
		{ID: "l1", TaskID: "t1", Action: "created", NewValue: "Write docs", UserID: "u1", UserName: "Admin", Timestamp: base},
		{ID: "l2", TaskID: "t1", Action: "status_changed", OldValue: "pending", NewValue: "in-progress", UserID: "u1", Timestamp: base.Add(time.Minute)},
		{ID: "l3", TaskID: "t2", Action: "created", NewValue: "Other", Timestamp: base},
	}
	for _, l := range entries {
		require.NoError(t, database.SaveTaskLog(l))
	}

	logs, err := database.ListTaskLogs("t1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, "l2", logs[0].ID)
	require.Equal(t, "in-progress", logs[0].NewValue)
	require.Equal(t, "l1", logs[1].ID)
	require.Equal(t, "Admin", logs[1].UserName)
	require.True(t, base.Equal(logs[1].Timestamp))

	require.NoError(t, database.DeleteTaskLogs("t1"))
	logs, err = database.ListTaskLogs("t1")
	require.NoError(t, err)
	require.Empty(t, logs)

	logs, err = database.ListTaskLogs("t2")
	require.NoError(t, err)
	require.Len(t, logs, 1)
}
