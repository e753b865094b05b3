package session

// Route names a top-level view of the dashboard
type Route string

const (
	RouteLogin         Route = "login"
	RouteDashboard     Route = "dashboard"
	RouteProjects      Route = "projects"
	RouteTasks         Route = "tasks"
	RouteNotifications Route = "notifications"
	RouteTeam          Route = "team"
	RouteSettings      Route = "settings"
)

// Protected reports whether the route needs a signed-in user
func (r Route) Protected() bool {
	return r != RouteLogin
}

// ParseRoute maps a persisted route name, falling back to the dashboard
func ParseRoute(s string) Route {
	switch r := Route(s); r {
	case RouteLogin, RouteDashboard, RouteProjects, RouteTasks, RouteNotifications, RouteTeam, RouteSettings:
		return r
	default:
		return RouteDashboard
	}
}

// Redirect tells the router where to go for the current route and session.
// Nothing moves while the session is still loading.
func Redirect(current Route, snap Snapshot) (Route, bool) {
	switch {
	case snap.Loading:
		return current, false
	case snap.IsAuthenticated && current == RouteLogin:
		return RouteDashboard, true
	case !snap.IsAuthenticated && current.Protected():
		return RouteLogin, true
	default:
		return current, false
	}
}
