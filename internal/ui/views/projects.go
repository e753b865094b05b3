package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskdash/internal/api"
	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/projection"
	"github.com/tgienger/taskdash/internal/syncer"
	"github.com/tgienger/taskdash/internal/ui/keys"
	"github.com/tgienger/taskdash/internal/ui/styles"
)

var projectStatusFilters = []string{
	projection.All,
	string(models.ProjectActive),
	string(models.ProjectCompleted),
	string(models.ProjectArchived),
}

// ProjectListView pages through the projects with search and status filter
type ProjectListView struct {
	syncer *syncer.Syncer
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	filter    projection.ProjectFilter
	search    textinput.Model
	searching bool
	page      int
	cursor    int

	// create and edit share one form; editID is "" when creating
	formOpen bool
	editID   string
	newName  textinput.Model
	newDesc  textinput.Model
	focusIdx int // 0=name, 1=desc, 2=confirm

	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	busy bool
	err  error
}

func NewProjectListView(s *syncer.Syncer) *ProjectListView {
	search := textinput.New()
	search.Placeholder = "Search projects..."
	search.CharLimit = 100

	newName := textinput.New()
	newName.Placeholder = "Project name"
	newName.CharLimit = 100

	newDesc := textinput.New()
	newDesc.Placeholder = "Description (optional)"
	newDesc.CharLimit = 500

	return &ProjectListView{
		syncer:  s,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
		filter:  projection.DefaultProjectFilter(),
		search:  search,
		page:    1,
		newName: newName,
		newDesc: newDesc,
	}
}

func (v *ProjectListView) Init() tea.Cmd { return nil }

// Capturing reports whether keys currently go into a text field
func (v *ProjectListView) Capturing() bool {
	return v.searching || v.formOpen || v.confirmingDelete
}

// visible is the filtered list and the current page of it
func (v *ProjectListView) visible() ([]models.Project, []models.Project) {
	all := projection.FilterProjects(v.syncer.Store().Projects.All(), v.filter)
	v.page = projection.ClampPage(v.page, len(all), projection.ProjectsPerPage)
	page := projection.Paginate(all, v.page, projection.ProjectsPerPage)
	if v.cursor >= len(page) {
		v.cursor = max(len(page)-1, 0)
	}
	return all, page
}

func (v *ProjectListView) selected() (models.Project, bool) {
	_, page := v.visible()
	if len(page) == 0 {
		return models.Project{}, false
	}
	return page[v.cursor], true
}

func (v *ProjectListView) user() models.User {
	u, _ := v.syncer.Session().User()
	return u
}

func (v *ProjectListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case OpDone:
		// only the view that started the write waits for it
		if !v.busy {
			return v, nil
		}
		v.busy = false
		v.err = msg.Err
		if msg.Err == nil {
			v.formOpen = false
		}
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.formOpen {
			return v.updateForm(msg)
		}
		if v.searching {
			return v.updateSearch(msg)
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

func (v *ProjectListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	_, page := v.visible()

	switch {
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(page)-1 {
			v.cursor++
		}
	case key.Matches(msg, v.keys.PrevPg):
		v.page--
		v.cursor = 0
	case key.Matches(msg, v.keys.NextPg):
		v.page++
		v.cursor = 0
	case key.Matches(msg, v.keys.Search):
		v.searching = true
		v.search.Focus()
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Filter):
		v.filter.Status = projection.Cycle(projectStatusFilters, v.filter.Status)
		v.page, v.cursor = 1, 0
	case key.Matches(msg, v.keys.Back):
		v.filter = projection.DefaultProjectFilter()
		v.search.Reset()
		v.page, v.cursor = 1, 0
	case key.Matches(msg, v.keys.Enter):
		if p, ok := v.selected(); ok {
			v.syncer.Store().Projects.SetCurrent(p.ID)
			return v, func() tea.Msg { return OpenProject{ID: p.ID} }
		}
	case key.Matches(msg, v.keys.New):
		if projection.CanCreateProject(v.user()) {
			v.openForm(models.Project{})
			return v, textinput.Blink
		}
	case key.Matches(msg, v.keys.Edit):
		if p, ok := v.selected(); ok && projection.CanEditProject(v.user()) {
			v.openForm(p)
			return v, textinput.Blink
		}
	case key.Matches(msg, v.keys.Delete):
		if p, ok := v.selected(); ok && projection.CanEditProject(v.user()) {
			v.confirmingDelete = true
			v.deleteTargetID = p.ID
			v.deleteTargetName = p.Title
		}
	}
	return v, nil
}

func (v *ProjectListView) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
		v.searching = false
		v.search.Blur()
		return v, nil
	}
	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	v.filter.Search = v.search.Value()
	v.page, v.cursor = 1, 0
	return v, cmd
}

func (v *ProjectListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		v.busy = true
		id, s := v.deleteTargetID, v.syncer
		return v, run("delete project", func(ctx context.Context) error {
			return s.DeleteProject(ctx, id)
		})
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return v, nil
}

func (v *ProjectListView) openForm(p models.Project) {
	v.formOpen = true
	v.editID = p.ID
	v.focusIdx = 0
	v.err = nil
	v.newName.SetValue(p.Title)
	v.newDesc.SetValue(p.Description)
	v.updateFocus()
}

func (v *ProjectListView) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.formOpen = false
		v.err = nil
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.save()

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + 2) % 3
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 3
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < 2 {
			v.focusIdx++
			v.updateFocus()
			return v, nil
		}
		return v, v.save()
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.newName, cmd = v.newName.Update(msg)
	case 1:
		v.newDesc, cmd = v.newDesc.Update(msg)
	}
	return v, cmd
}

func (v *ProjectListView) save() tea.Cmd {
	name := strings.TrimSpace(v.newName.Value())
	if name == "" || v.busy {
		return nil
	}
	desc := strings.TrimSpace(v.newDesc.Value())
	v.busy = true
	s, id := v.syncer, v.editID

	if id == "" {
		members := []string{}
		if u := v.user(); u.ID != "" {
			members = append(members, u.ID)
		}
		return run("create project", func(ctx context.Context) error {
			_, err := s.CreateProject(ctx, api.ProjectInput{
				Title:       name,
				Description: desc,
				Members:     members,
				Status:      models.ProjectActive,
			})
			return err
		})
	}

	var members []string
	if p, ok := s.Store().Projects.Get(id); ok {
		members = p.Members
	}
	return run("update project", func(ctx context.Context) error {
		_, err := s.UpdateProject(ctx, id, api.ProjectUpdate{Title: name, Description: desc, Members: members})
		return err
	})
}

func (v *ProjectListView) updateFocus() {
	v.newName.Blur()
	v.newDesc.Blur()
	switch v.focusIdx {
	case 0:
		v.newName.Focus()
	case 1:
		v.newDesc.Focus()
	}
}

func (v *ProjectListView) View() string {
	if v.confirmingDelete {
		return renderConfirm(v.styles, v.width, v.height, "Delete Project?", v.deleteTargetName)
	}
	if v.formOpen {
		return v.renderForm()
	}

	s := v.styles
	st := v.syncer.Store()
	all, page := v.visible()
	contentWidth := styles.ContentWidth(v.width)

	searchStyle := s.Input
	if v.searching {
		searchStyle = s.InputFocused
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		searchStyle.Width(clamp(contentWidth-30, 10, 40)).Render(v.search.View()),
		"  ",
		s.Button.Render("Status: "+v.filter.Status),
	)

	var items []string
	for i, p := range page {
		items = append(items, v.renderProjectItem(p, i == v.cursor))
	}
	if len(all) == 0 {
		hint := "No projects match."
		if st.Projects.Len() == 0 {
			hint = "No projects yet."
			if projection.CanCreateProject(v.user()) {
				hint += " Press 'n' to create one."
			}
		}
		items = append(items, s.TitleMuted.Render(hint))
	}

	pager := s.TitleMuted.Render(fmt.Sprintf("Page %d of %d • %d projects",
		v.page, projection.TotalPages(len(all), projection.ProjectsPerPage), len(all)))

	var b strings.Builder
	b.WriteString(renderBanner(s, v.err, st.Projects.Err()))
	b.WriteString(s.Title.Render("Projects"))
	b.WriteString("\n")
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, items...))
	b.WriteString("\n")
	b.WriteString(pager)
	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *ProjectListView) renderProjectItem(p models.Project, selected bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)

	itemStyle := s.ListItem
	if selected {
		itemStyle = s.ListSelected
	}
	title := s.RenderBadge(string(p.Status), styles.ProjectStatusColor(p.Status)) + " " + p.Title
	meta := fmt.Sprintf("%d tasks • %d members • by %s",
		p.TasksCount, len(p.Members), v.syncer.Store().MemberName(p.CreatedBy))
	desc := valueOr(p.Description, "no description")

	return lipgloss.JoinVertical(lipgloss.Left,
		itemStyle.Width(width).Render(title),
		itemStyle.Width(width).Foreground(styles.Current.ForegroundDim).Render(desc+"  "+meta),
	) + "\n"
}

func (v *ProjectListView) renderForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	nameStyle, descStyle, btnStyle := s.Input, s.Input, s.Button
	switch v.focusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	title, button := "New Project", " Create "
	if v.editID != "" {
		title, button = "Edit Project", " Save "
	}
	status := ""
	if v.err != nil {
		status = s.ErrorText.Render(v.err.Error())
	}

	inputWidth := clamp(contentWidth-6, 20, 50)
	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(title),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.newName.View()),
		"",
		"Description:",
		descStyle.Width(inputWidth).Render(v.newDesc.View()),
		"",
		btnStyle.Render(button),
		"",
		status,
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderHelp() string {
	pairs := []string{"↵", "tasks", "/", "search", "f", "status", "←/→", "page"}
	if projection.CanCreateProject(v.user()) {
		pairs = append(pairs, "n", "new", "e", "edit", "d", "del")
	}
	return renderHelp(v.styles, pairs...)
}
