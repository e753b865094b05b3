package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/store"
)

func requireUnreadInvariant(t *testing.T, s *store.Notifications) {
	t.Helper()
	unread := 0
	for _, n := range s.All() {
		if !n.Read {
			unread++
		}
	}
	require.Equal(t, unread, s.UnreadCount())
}

func seededNotifications() *store.Notifications {
	s := store.NewNotifications()
	s.ReplaceAll([]models.Notification{
		{ID: "1", Read: false},
		{ID: "2", Read: false},
		{ID: "3", Read: true},
		{ID: "4", Read: false},
		{ID: "5", Read: true},
	})
	return s
}

func TestNotifications_UnreadCountInvariant(t *testing.T) {
	t.Parallel()

	cases := map[string]func(t *testing.T, s *store.Notifications){
		"replaceAll": func(t *testing.T, s *store.Notifications) {
			s.ReplaceAll([]models.Notification{{ID: "x"}, {ID: "y", Read: true}})
		},
		"insertOne unread": func(t *testing.T, s *store.Notifications) {
			s.InsertOne(models.Notification{ID: "new"})
		},
		"insertOne read": func(t *testing.T, s *store.Notifications) {
			s.InsertOne(models.Notification{ID: "new", Read: true})
		},
		"insertOne replaces existing unread with read": func(t *testing.T, s *store.Notifications) {
			s.InsertOne(models.Notification{ID: "1", Read: true})
		},
		"markAsRead unread": func(t *testing.T, s *store.Notifications) {
			require.True(t, s.MarkAsRead("1"))
		},
		"markAsRead already read": func(t *testing.T, s *store.Notifications) {
			require.False(t, s.MarkAsRead("3"))
		},
		"markAsRead missing": func(t *testing.T, s *store.Notifications) {
			require.False(t, s.MarkAsRead("missing"))
		},
		"markAllAsRead": func(t *testing.T, s *store.Notifications) {
			s.MarkAllAsRead()
		},
		"removeOne unread": func(t *testing.T, s *store.Notifications) {
			require.True(t, s.RemoveOne("2"))
		},
		"removeOne read": func(t *testing.T, s *store.Notifications) {
			require.True(t, s.RemoveOne("5"))
		},
		"removeOne missing": func(t *testing.T, s *store.Notifications) {
			require.False(t, s.RemoveOne("missing"))
		},
	}

	for name, op := range cases {
		t.Run(name, func(t *testing.T) {
			s := seededNotifications()
			requireUnreadInvariant(t, s)
			op(t, s)
			requireUnreadInvariant(t, s)
		})
	}
}

func TestNotifications_Counts(t *testing.T) {
	t.Parallel()
	s := seededNotifications()
	require.Equal(t, 3, s.UnreadCount())

	s.InsertOne(models.Notification{ID: "6"})
	require.Equal(t, 4, s.UnreadCount())
	require.Equal(t, "6", s.All()[0].ID)

	s.MarkAsRead("6")
	s.MarkAsRead("6")
	require.Equal(t, 3, s.UnreadCount())

	s.RemoveOne("3")
	require.Equal(t, 3, s.UnreadCount())

	s.RemoveOne("1")
	require.Equal(t, 2, s.UnreadCount())

	s.MarkAllAsRead()
	require.Equal(t, 0, s.UnreadCount())
	for _, n := range s.All() {
		require.True(t, n.Read)
	}
}

func TestNotifications_SequenceKeepsInvariant(t *testing.T) {
	t.Parallel()
	s := store.NewNotifications()

	s.InsertOne(models.Notification{ID: "a"})
	requireUnreadInvariant(t, s)
	s.InsertOne(models.Notification{ID: "b", Read: true})
	requireUnreadInvariant(t, s)
	s.InsertOne(models.Notification{ID: "c"})
	requireUnreadInvariant(t, s)
	s.MarkAsRead("a")
	requireUnreadInvariant(t, s)
	s.RemoveOne("c")
	requireUnreadInvariant(t, s)
	s.InsertOne(models.Notification{ID: "a"})
	requireUnreadInvariant(t, s)
	require.Equal(t, 1, s.UnreadCount())
}
