package ui

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
	"github.com/tgienger/taskdash/internal/ui/views"
)

type harness struct {
	srv *apitest.Server
	db  *db.DB
	log *logrus.Entry
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger, _ := test.NewNullLogger()
	database, err := db.Open(filepath.Join(t.TempDir(), "taskdash.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return &harness{srv: apitest.NewServer(t), db: database, log: logrus.NewEntry(logger)}
}

// start builds a fresh app over the shared database, as a restart would
func (h *harness) start(t *testing.T) (*App, *syncer.Syncer) {
	t.Helper()
	sc := syncer.New(api.New(h.srv.URL), store.New(), session.New(h.db, h.log), h.db, h.log)
	app := NewApp(sc, h.db, h.log)
	require.Contains(t, app.View(), "Loading...")

	msg := app.Init()()
	app.Update(msg)
	return app, sc
}

func press(app *App, s string) tea.Cmd {
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return cmd
}

func TestApp_AnonymousStartGoesToLogin(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	app, _ := h.start(t)

	require.Equal(t, session.RouteLogin, app.Route())

	// login owns every key, so digits do not switch views
	press(app, "2")
	require.Equal(t, session.RouteLogin, app.Route())
}

func TestApp_LoginThenNavigateIsRemembered(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.srv.SeedProjects(apitest.Record{"name": "Launch", "status": 0})

	app, sc := h.start(t)
	user, err := sc.Login(context.Background(), apitest.Email, apitest.Password)
	require.NoError(t, err)

	_, cmd := app.Update(views.LoggedIn{User: user})
	require.NotNil(t, cmd)
	require.Equal(t, session.RouteDashboard, app.Route())
	require.Contains(t, app.View(), "dashboard")

	app.Update(views.Refresh(sc)())
	require.Equal(t, 1, sc.Store().Projects.Len())
	require.Equal(t, 1, sc.Store().Members.Len())

	press(app, "2")
	require.Equal(t, session.RouteProjects, app.Route())
	last, err := h.db.GetSetting(LastRouteKey)
	require.NoError(t, err)
	require.Equal(t, "projects", last)

	restarted, _ := h.start(t)
	require.Equal(t, session.RouteProjects, restarted.Route())
}

func TestApp_LogoutReturnsToLogin(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	app, sc := h.start(t)
	user, err := sc.Login(context.Background(), apitest.Email, apitest.Password)
	require.NoError(t, err)
	app.Update(views.LoggedIn{User: user})

	press(app, "L")
	require.Equal(t, session.RouteLogin, app.Route())
	require.False(t, sc.Session().IsAuthenticated())

	restarted, _ := h.start(t)
	require.Equal(t, session.RouteLogin, restarted.Route())
}

func TestApp_OpenProjectShowsTasks(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	app, sc := h.start(t)
	user, err := sc.Login(context.Background(), apitest.Email, apitest.Password)
	require.NoError(t, err)
	app.Update(views.LoggedIn{User: user})

	app.Update(views.OpenProject{ID: "p1"})
	require.Equal(t, session.RouteTasks, app.Route())

	app.Update(views.Navigate{Route: session.RouteTeam})
	require.Equal(t, session.RouteTeam, app.Route())
}

func TestApp_ProfileUpdateRoundTrip(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	app, sc := h.start(t)
	user, err := sc.Login(context.Background(), apitest.Email, apitest.Password)
	require.NoError(t, err)
	app.Update(views.LoggedIn{User: user})

	press(app, "6")
	require.Equal(t, session.RouteSettings, app.Route())

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	// digits go into the focused field instead of switching views
	press(app, " ")
	press(app, "2")
	require.Equal(t, session.RouteSettings, app.Route())
	app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	u, ok := sc.Session().User()
	require.True(t, ok)
	require.Equal(t, "Admin User 2", u.Name)
	require.Contains(t, app.View(), "Admin User 2")

	restarted, rsc := h.start(t)
	require.Equal(t, session.RouteSettings, restarted.Route())
	u, ok = rsc.Session().User()
	require.True(t, ok)
	require.Equal(t, "Admin User 2", u.Name)
	require.Equal(t, apitest.Email, u.Email)
}
