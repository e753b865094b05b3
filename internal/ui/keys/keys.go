package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding of the dashboard
type KeyMap struct {
	Quit   key.Binding
	Back   key.Binding
	Enter  key.Binding
	Tab    key.Binding
	Up     key.Binding
	Down   key.Binding
	PrevPg key.Binding
	NextPg key.Binding
	Help   key.Binding

	New     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Search  key.Binding
	Refresh key.Binding

	// filters
	Filter         key.Binding
	FilterPriority key.Binding
	FilterAssignee key.Binding
	ClearFilters   key.Binding

	Advance  key.Binding
	MarkRead key.Binding
	MarkAll  key.Binding

	// navigation between top-level views
	Dashboard     key.Binding
	Projects      key.Binding
	Tasks         key.Binding
	Notifications key.Binding
	Team          key.Binding
	Settings      key.Binding
	Logout        key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("↵", "select")),
		Tab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PrevPg: key.NewBinding(key.WithKeys("left", "h", "pgup"), key.WithHelp("←/h", "prev page")),
		NextPg: key.NewBinding(key.WithKeys("right", "l", "pgdown"), key.WithHelp("→/l", "next page")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),

		New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),

		Filter:         key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "status filter")),
		FilterPriority: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "priority filter")),
		FilterAssignee: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "assignee filter")),
		ClearFilters:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),

		Advance:  key.NewBinding(key.WithKeys(" ", "s"), key.WithHelp("space", "next status")),
		MarkRead: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mark read")),
		MarkAll:  key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "mark all read")),

		Dashboard:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "dashboard")),
		Projects:      key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "projects")),
		Tasks:         key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "tasks")),
		Notifications: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "notifications")),
		Team:          key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "team")),
		Settings:      key.NewBinding(key.WithKeys("6"), key.WithHelp("6", "settings")),
		Logout:        key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "log out")),
	}
}
