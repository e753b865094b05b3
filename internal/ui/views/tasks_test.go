package views

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/taskdash/internal/api"
	"github.com/tgienger/taskdash/internal/api/apitest"
	"github.com/tgienger/taskdash/internal/db"
	"github.com/tgienger/taskdash/internal/session"
	"github.com/tgienger/taskdash/internal/store"
	"github.com/tgienger/taskdash/internal/syncer"
)

func newSignedInSyncer(t *testing.T) (*syncer.Syncer, *apitest.Server) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	log := logrus.NewEntry(logger)

	database, err := db.Open(filepath.Join(t.TempDir(), "taskdash.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	srv := apitest.NewServer(t)
	sess := session.New(database, log)
	_, err = sess.Resolve()
	require.NoError(t, err)

	sc := syncer.New(api.New(srv.URL), store.New(), sess, database, log)
	_, err = sc.Login(context.Background(), apitest.Email, apitest.Password)
	require.NoError(t, err)
	return sc, srv
}

func typeKeys(m tea.Model, s string) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return cmd
}

func sendKey(m tea.Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func TestTaskForm_RequiresProjectWhenNoneIsOpen(t *testing.T) {
	t.Parallel()
	sc, srv := newSignedInSyncer(t)
	srv.SeedProjects(
		apitest.Record{"id": "p1", "name": "First", "status": 0},
		apitest.Record{"id": "p2", "name": "Second", "status": 0},
	)
	require.NoError(t, sc.FetchAll(context.Background()))

	v := NewTaskListView(sc)
	typeKeys(v, "n")
	require.True(t, v.Capturing())
	typeKeys(v, "Orphan")

	require.Nil(t, sendKey(v, tea.KeyCtrlS))
	require.ErrorIs(t, v.err, errNoProject)
	require.Empty(t, srv.Tasks())

	// tab over to the project field and pick the first project
	for j := 0; j < 5; j++ {
		sendKey(v, tea.KeyTab)
	}
	typeKeys(v, " ")
	first := sc.Store().Projects.All()[0].ID

	cmd := sendKey(v, tea.KeyCtrlS)
	require.NotNil(t, cmd)
	done, ok := cmd().(OpDone)
	require.True(t, ok)
	require.NoError(t, done.Err)

	tasks := srv.Tasks()
	require.Len(t, tasks, 1)
	require.Equal(t, "Orphan", tasks[0]["title"])
	require.Equal(t, first, tasks[0]["projectId"])
}

func TestTaskForm_DefaultsToOpenProject(t *testing.T) {
	t.Parallel()
	sc, srv := newSignedInSyncer(t)
	srv.SeedProjects(
		apitest.Record{"id": "p1", "name": "First", "status": 0},
		apitest.Record{"id": "p2", "name": "Second", "status": 0},
	)
	require.NoError(t, sc.FetchAll(context.Background()))
	sc.Store().Projects.SetCurrent("p2")

	v := NewTaskListView(sc)
	typeKeys(v, "n")
	typeKeys(v, "Scoped")
	cmd := sendKey(v, tea.KeyCtrlS)
	require.NotNil(t, cmd)
	require.NoError(t, cmd().(OpDone).Err)

	tasks := srv.Tasks()
	require.Len(t, tasks, 1)
	require.Equal(t, "p2", tasks[0]["projectId"])
}

func TestTaskDetail_HistoryLoadsOnOpenAndAfterWrites(t *testing.T) {
	t.Parallel()
	sc, srv := newSignedInSyncer(t)
	srv.SeedProjects(apitest.Record{"id": "p1", "name": "First", "status": 0})
	srv.SeedTasks(apitest.Record{"id": "a", "title": "A", "status": "pending", "projectId": "p1"})
	require.NoError(t, sc.FetchAll(context.Background()))

	v := NewTaskListView(sc)
	sendKey(v, tea.KeyEnter)
	require.Equal(t, "a", v.viewingID)
	require.Empty(t, v.history)

	cmd := typeKeys(v, "s")
	require.NotNil(t, cmd)
	v.Update(cmd())
	require.Len(t, v.history, 1)
	require.Equal(t, "status_changed", v.history[0].Action)
	require.Contains(t, v.View(), "status_changed")

	sendKey(v, tea.KeyEsc)
	require.Empty(t, v.viewingID)
	require.Nil(t, v.history)
}
