package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/tgienger/taskdash/internal/api"
	"github.com/tgienger/taskdash/internal/session"
	"github.com/tgienger/taskdash/internal/syncer"
	"github.com/tgienger/taskdash/internal/ui/keys"
	"github.com/tgienger/taskdash/internal/ui/styles"
	"github.com/tgienger/taskdash/internal/ui/views"
)

// LastRouteKey is the setting that remembers the last opened view
const LastRouteKey = "last_route"

// Settings is the key-value store the app keeps UI state in
type Settings interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// screen is a top-level view. Capturing reports whether it currently
// consumes every key, which turns the global bindings off.
type screen interface {
	tea.Model
	Capturing() bool
}

type sessionResolvedMsg struct {
	snap session.Snapshot
	err  error
}

var navOrder = []session.Route{
	session.RouteDashboard,
	session.RouteProjects,
	session.RouteTasks,
	session.RouteNotifications,
	session.RouteTeam,
	session.RouteSettings,
}

type App struct {
	syncer   *syncer.Syncer
	settings Settings
	log      *logrus.Entry
	keys     keys.KeyMap
	styles   *styles.Styles

	route    session.Route
	screens  map[session.Route]screen
	resolved bool
	err      error
	width    int
	height   int
}

// NewApp creates the application
func NewApp(s *syncer.Syncer, settings Settings, log *logrus.Entry) *App {
	return &App{
		syncer:   s,
		settings: settings,
		log:      log.WithField("component", "ui"),
		keys:     keys.DefaultKeyMap(),
		styles:   styles.NewStyles(),
		route:    session.RouteDashboard,
		screens: map[session.Route]screen{
			session.RouteLogin:         views.NewLoginView(s),
			session.RouteDashboard:     views.NewDashboardView(s),
			session.RouteProjects:      views.NewProjectListView(s),
			session.RouteTasks:         views.NewTaskListView(s),
			session.RouteNotifications: views.NewNotificationsView(s),
			session.RouteTeam:          views.NewTeamView(s),
			session.RouteSettings:      views.NewSettingsView(s),
		},
	}
}

// Route returns the view currently shown
func (a *App) Route() session.Route { return a.route }

func (a *App) Init() tea.Cmd {
	sess := a.syncer.Session()
	return func() tea.Msg {
		snap, err := sess.Resolve()
		return sessionResolvedMsg{snap: snap, err: err}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// every screen keeps its size, not only the visible one
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: max(msg.Height-2, 0)}
		for _, s := range a.screens {
			s.Update(inner)
		}
		return a, nil

	case sessionResolvedMsg:
		a.resolved = true
		if msg.err != nil {
			a.err = msg.err
			a.log.WithError(msg.err).Error("could not restore session")
		}
		if last, err := a.settings.GetSetting(LastRouteKey); err == nil && last != "" {
			a.route = session.ParseRoute(last)
		}
		a.redirect()
		if msg.snap.IsAuthenticated {
			if err := a.syncer.LoadNotifications(); err != nil {
				a.log.WithError(err).Warn("could not load notifications")
			}
			return a, tea.Batch(a.current().Init(), views.Refresh(a.syncer))
		}
		return a, a.current().Init()

	case views.LoggedIn:
		a.err = nil
		a.redirect()
		return a, tea.Batch(a.current().Init(), views.Refresh(a.syncer))

	case views.Navigate:
		return a, a.navigate(msg.Route)

	case views.OpenProject:
		return a, a.navigate(session.RouteTasks)

	case views.OpDone:
		var cmds []tea.Cmd
		for _, s := range a.screens {
			_, cmd := s.Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case views.Fetched:
		a.err = msg.Err
		if msg.Err != nil && api.IsUnauthorized(msg.Err) {
			a.log.Warn("api rejected the session token")
		}
		a.screens[session.RouteTeam].Update(msg)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.route != session.RouteLogin && !a.current().Capturing() {
			if cmd, handled := a.handleGlobalKey(msg); handled {
				return a, cmd
			}
		}
	}

	_, cmd := a.current().Update(msg)
	return a, cmd
}

func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, a.keys.Refresh):
		return views.Refresh(a.syncer), true
	case key.Matches(msg, a.keys.Logout):
		if err := a.syncer.Logout(); err != nil {
			a.log.WithError(err).Error("logout")
		}
		a.err = nil
		a.redirect()
		return a.current().Init(), true
	case key.Matches(msg, a.keys.Dashboard):
		return a.navigate(session.RouteDashboard), true
	case key.Matches(msg, a.keys.Projects):
		return a.navigate(session.RouteProjects), true
	case key.Matches(msg, a.keys.Tasks):
		return a.navigate(session.RouteTasks), true
	case key.Matches(msg, a.keys.Notifications):
		return a.navigate(session.RouteNotifications), true
	case key.Matches(msg, a.keys.Team):
		return a.navigate(session.RouteTeam), true
	case key.Matches(msg, a.keys.Settings):
		return a.navigate(session.RouteSettings), true
	}
	return nil, false
}

func (a *App) current() screen {
	return a.screens[a.route]
}

// navigate switches views, honoring the redirect contract
func (a *App) navigate(r session.Route) tea.Cmd {
	a.route = r
	a.redirect()
	if a.route != session.RouteLogin {
		if err := a.settings.SetSetting(LastRouteKey, string(a.route)); err != nil {
			a.log.WithError(err).Warn("could not save last route")
		}
	}
	return a.current().Init()
}

func (a *App) redirect() {
	if next, ok := session.Redirect(a.route, a.syncer.Session().Snapshot()); ok {
		a.log.WithField("from", a.route).WithField("to", next).Debug("redirect")
		a.route = next
	}
}

func (a *App) View() string {
	if !a.resolved {
		return a.styles.TitleMuted.Render("Loading...")
	}
	if a.route == session.RouteLogin {
		return a.current().View()
	}
	return a.renderNav() + "\n" + a.current().View()
}

func (a *App) renderNav() string {
	s := a.styles
	parts := make([]string, 0, len(navOrder)+1)
	for i, r := range navOrder {
		label := string(r)
		if r == session.RouteNotifications {
			if n := a.syncer.Store().Notifications.UnreadCount(); n > 0 {
				label += " (" + strconv.Itoa(n) + ")"
			}
		}
		label = strconv.Itoa(i+1) + " " + label
		if r == a.route {
			parts = append(parts, s.NavActive.Render(label))
		} else {
			parts = append(parts, s.NavItem.Render(label))
		}
	}
	if u, ok := a.syncer.Session().User(); ok {
		parts = append(parts, s.TitleMuted.Render("  "+u.Name+" ("+string(u.Role)+") • L log out"))
	}
	nav := strings.Join(parts, "")
	if a.err != nil {
		nav += "\n" + s.ErrorText.Render(a.err.Error())
	}
	return nav
}
