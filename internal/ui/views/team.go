package views

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/syncer"
	"github.com/tgienger/taskdash/internal/ui/styles"
)

type memberItem struct {
	user  models.User
	tasks int
}

func (i memberItem) Title() string       { return i.user.Name }
func (i memberItem) Description() string { return i.user.Email }
func (i memberItem) FilterValue() string { return i.user.Name + " " + i.user.Email }

type memberDelegate struct {
	styles *styles.Styles
	width  int
}

func (d memberDelegate) Height() int                               { return 2 }
func (d memberDelegate) Spacing() int                              { return 1 }
func (d memberDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d memberDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(memberItem)
	if !ok {
		return
	}

	width := max(d.width-4, 20)
	style := d.styles.ListItem
	if index == m.Index() {
		style = d.styles.ListSelected
	}

	title := style.Width(width).Render(valueOr(it.Title(), it.user.ID) + "  " +
		d.styles.RenderBadge(string(it.user.Role), styles.Current.Secondary))
	desc := style.Foreground(styles.Current.ForegroundDim).Width(width).
		Render(fmt.Sprintf("%s • %d assigned tasks", valueOr(it.Description(), "no email"), it.tasks))

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

// TeamView lists the members returned by the API
type TeamView struct {
	syncer   *syncer.Syncer
	styles   *styles.Styles
	list     list.Model
	delegate *memberDelegate
	width    int
	height   int
}

func NewTeamView(s *syncer.Syncer) *TeamView {
	st := styles.NewStyles()
	delegate := &memberDelegate{styles: st, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Team"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = st.Title
	l.SetShowHelp(false)
	// the app owns quitting
	l.KeyMap.Quit.SetEnabled(false)

	return &TeamView{syncer: s, styles: st, list: l, delegate: delegate}
}

func (v *TeamView) Init() tea.Cmd { return nil }

// Capturing is true while the list filter is being typed
func (v *TeamView) Capturing() bool {
	return v.list.FilterState() == list.Filtering
}

// reload rebuilds the list items from the member store
func (v *TeamView) reload() {
	st := v.syncer.Store()
	assigned := map[string]int{}
	for _, t := range st.Tasks.All() {
		assigned[t.AssignedTo]++
	}
	members := st.Members.All()
	items := make([]list.Item, len(members))
	for i, m := range members {
		items[i] = memberItem{user: m, tasks: assigned[m.ID]}
	}
	v.list.SetItems(items)
}

func (v *TeamView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-6)
		return v, nil
	case Fetched:
		v.reload()
		return v, nil
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *TeamView) View() string {
	if v.list.FilterState() == list.Unfiltered {
		v.reload()
	}
	banner := renderBanner(v.styles, v.syncer.Store().Members.Err())
	if len(v.list.Items()) == 0 {
		return banner + v.styles.TitleMuted.Render("No team members loaded. Press r to refresh.")
	}
	content := lipgloss.JoinVertical(lipgloss.Left, banner+v.list.View(), renderHelp(v.styles, "/", "filter", "r", "refresh"))
	return styles.CenterView(content, v.width, v.height)
}
