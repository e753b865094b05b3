package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
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

// TasksPerPage is the page size of the task list
const TasksPerPage = 8

const dueLayout = "2006-01-02"

var (
	taskStatusFilters = []string{
		projection.All,
		string(models.TaskPending),
		string(models.TaskInProgress),
		string(models.TaskCompleted),
	}
	priorityFilters = []string{
		projection.All,
		string(models.PriorityHigh),
		string(models.PriorityMedium),
		string(models.PriorityLow),
	}

	errBadDueDate = errors.New("due date must look like 2024-12-31")
	errNoProject  = errors.New("pick a project for the task")
)

// TaskListView lists tasks with filters, quick status changes and history
type TaskListView struct {
	syncer *syncer.Syncer
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	cursor int

	// Task creation/editing
	editing      bool
	editID       string
	editTitle    textinput.Model
	editDesc     textarea.Model
	editDue      textinput.Model
	editPriority models.Priority
	editAssignee string
	editProject  string
	editFocusIdx int // 0=title, 1=desc, 2=due, 3=priority, 4=assignee, 5=project, 6=save

	// read-only detail; history is loaded when it opens and after writes
	viewingID string
	history   []models.TaskLog

	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	busy bool
	err  error
}

// NewTaskListView creates a new task list view
func NewTaskListView(s *syncer.Syncer) *TaskListView {
	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description"
	editDesc.CharLimit = 1000
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	editDue := textinput.New()
	editDue.Placeholder = "YYYY-MM-DD (optional)"
	editDue.CharLimit = 10

	return &TaskListView{
		syncer:    s,
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
		editTitle: editTitle,
		editDesc:  editDesc,
		editDue:   editDue,
	}
}

func (v *TaskListView) Init() tea.Cmd { return nil }

// Capturing reports whether keys currently go into the form or a dialog
func (v *TaskListView) Capturing() bool {
	return v.editing || v.confirmingDelete
}

// Visible returns the filtered tasks of the open project (or of all
// projects when none is open) and the current page of them
func (v *TaskListView) Visible() ([]models.Task, []models.Task) {
	st := v.syncer.Store()
	tasks := st.Tasks.Visible()
	if p, ok := st.Projects.Current(); ok {
		tasks = projection.TasksForProject(tasks, p.ID)
	}
	page := projection.ClampPage(st.Tasks.Page(), len(tasks), TasksPerPage)
	if page != st.Tasks.Page() {
		st.Tasks.SetPage(page)
	}
	shown := projection.Paginate(tasks, page, TasksPerPage)
	if v.cursor >= len(shown) {
		v.cursor = max(len(shown)-1, 0)
	}
	return tasks, shown
}

func (v *TaskListView) selected() (models.Task, bool) {
	_, shown := v.Visible()
	if len(shown) == 0 {
		return models.Task{}, false
	}
	return shown[v.cursor], true
}

func (v *TaskListView) user() models.User {
	u, _ := v.syncer.Session().User()
	return u
}

func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.editDesc.SetWidth(clamp(styles.ContentWidth(msg.Width)-8, 20, 50))
		return v, nil

	case OpDone:
		if v.viewingID != "" {
			v.history = v.syncer.TaskHistory(v.viewingID)
		}
		// only the view that started the write waits for it
		if !v.busy {
			return v, nil
		}
		v.busy = false
		v.err = msg.Err
		if msg.Err == nil {
			v.editing = false
		}
		return v, nil

	case tea.KeyMsg:
		switch {
		case v.confirmingDelete:
			return v.updateConfirmDelete(msg)
		case v.editing:
			return v.updateEditing(msg)
		case v.viewingID != "":
			if key.Matches(msg, v.keys.Back) || key.Matches(msg, v.keys.Enter) {
				v.viewingID = ""
				v.history = nil
				return v, nil
			}
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := v.syncer.Store()
	_, shown := v.Visible()
	filters := st.Tasks.Filters()

	switch {
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(shown)-1 {
			v.cursor++
		}
	case key.Matches(msg, v.keys.PrevPg):
		st.Tasks.SetPage(st.Tasks.Page() - 1)
		v.cursor = 0
	case key.Matches(msg, v.keys.NextPg):
		st.Tasks.SetPage(st.Tasks.Page() + 1)
		v.cursor = 0

	case key.Matches(msg, v.keys.Filter):
		next := projection.Cycle(taskStatusFilters, filters.Status)
		st.Tasks.SetFilters(projection.TaskFilterUpdate{Status: &next})
		v.cursor = 0
	case key.Matches(msg, v.keys.FilterPriority):
		next := projection.Cycle(priorityFilters, filters.Priority)
		st.Tasks.SetFilters(projection.TaskFilterUpdate{Priority: &next})
		v.cursor = 0
	case key.Matches(msg, v.keys.FilterAssignee):
		options := []string{projection.All}
		for _, m := range st.Members.All() {
			options = append(options, m.ID)
		}
		next := projection.Cycle(options, filters.AssignedTo)
		st.Tasks.SetFilters(projection.TaskFilterUpdate{AssignedTo: &next})
		v.cursor = 0
	case key.Matches(msg, v.keys.ClearFilters):
		all := projection.All
		st.Tasks.SetFilters(projection.TaskFilterUpdate{Status: &all, Priority: &all, AssignedTo: &all})
		v.cursor = 0

	case key.Matches(msg, v.keys.Back):
		if _, ok := st.Projects.Current(); ok {
			st.Projects.SetCurrent("")
			v.cursor = 0
		}

	case key.Matches(msg, v.keys.Enter):
		if t, ok := v.selected(); ok {
			v.viewingID = t.ID
			v.history = v.syncer.TaskHistory(t.ID)
		}

	case key.Matches(msg, v.keys.Advance):
		if t, ok := v.selected(); ok && projection.CanEditTask(v.user(), t) && !v.busy {
			v.busy = true
			s, id, next := v.syncer, t.ID, t.Status.Next()
			return v, run("change status", func(ctx context.Context) error {
				_, err := s.SetTaskStatus(ctx, id, next)
				return err
			})
		}

	case key.Matches(msg, v.keys.New):
		if projection.CanCreateTask(v.user()) {
			task := models.Task{Priority: models.PriorityMedium}
			if p, ok := st.Projects.Current(); ok {
				task.ProjectID = p.ID
			}
			v.startEdit(task)
			return v, textinput.Blink
		}

	case key.Matches(msg, v.keys.Edit):
		if t, ok := v.selected(); ok && projection.CanEditTask(v.user(), t) {
			v.startEdit(t)
			return v, textinput.Blink
		}

	case key.Matches(msg, v.keys.Delete):
		if t, ok := v.selected(); ok && projection.CanDeleteTask(v.user(), t) {
			v.confirmingDelete = true
			v.deleteTargetID = t.ID
			v.deleteTargetName = t.Title
		}
	}
	return v, nil
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		v.busy = true
		s, id := v.syncer, v.deleteTargetID
		return v, run("delete task", func(ctx context.Context) error {
			return s.DeleteTask(ctx, id)
		})
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return v, nil
}

func (v *TaskListView) startEdit(t models.Task) {
	v.editing = true
	v.editID = t.ID
	v.editFocusIdx = 0
	v.err = nil
	v.editTitle.SetValue(t.Title)
	v.editDesc.SetValue(t.Description)
	v.editDue.Reset()
	if t.DueDate != nil {
		v.editDue.SetValue(t.DueDate.Format(dueLayout))
	}
	v.editPriority = t.Priority
	v.editAssignee = t.AssignedTo
	v.editProject = t.ProjectID
	v.updateEditFocus()
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		v.err = nil
		return v, nil
	case msg.String() == "ctrl+s":
		return v, v.saveTask()
	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % 7
		v.updateEditFocus()
		return v, nil
	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + 6) % 7
		v.updateEditFocus()
		return v, nil
	}

	switch v.editFocusIdx {
	case 3:
		if msg.String() == " " || key.Matches(msg, v.keys.Enter) {
			v.editPriority = projection.Cycle(models.Priorities, v.editPriority)
		}
		return v, nil
	case 4:
		if msg.String() == " " || key.Matches(msg, v.keys.Enter) {
			options := []string{""}
			for _, m := range v.syncer.Store().Members.All() {
				options = append(options, m.ID)
			}
			v.editAssignee = projection.Cycle(options, v.editAssignee)
		}
		return v, nil
	case 5:
		if msg.String() == " " || key.Matches(msg, v.keys.Enter) {
			options := []string{""}
			for _, p := range v.syncer.Store().Projects.All() {
				options = append(options, p.ID)
			}
			v.editProject = projection.Cycle(options, v.editProject)
		}
		return v, nil
	case 6:
		if key.Matches(msg, v.keys.Enter) {
			return v, v.saveTask()
		}
		return v, nil
	}

	if key.Matches(msg, v.keys.Enter) && v.editFocusIdx != 1 {
		v.editFocusIdx++
		v.updateEditFocus()
		return v, nil
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case 0:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case 1:
		v.editDesc, cmd = v.editDesc.Update(msg)
	case 2:
		v.editDue, cmd = v.editDue.Update(msg)
	}
	return v, cmd
}

func (v *TaskListView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	v.editDue.Blur()
	switch v.editFocusIdx {
	case 0:
		v.editTitle.Focus()
	case 1:
		v.editDesc.Focus()
	case 2:
		v.editDue.Focus()
	}
}

func (v *TaskListView) saveTask() tea.Cmd {
	title := strings.TrimSpace(v.editTitle.Value())
	if title == "" || v.busy {
		return nil
	}
	var due *time.Time
	if raw := strings.TrimSpace(v.editDue.Value()); raw != "" {
		d, err := time.Parse(dueLayout, raw)
		if err != nil {
			v.err = errBadDueDate
			return nil
		}
		due = &d
	}
	if v.editProject == "" {
		v.err = errNoProject
		return nil
	}
	desc := strings.TrimSpace(v.editDesc.Value())
	s := v.syncer
	st := s.Store()

	if v.editID == "" {
		in := api.TaskInput{
			Title:       title,
			Description: desc,
			DueDate:     due,
			Status:      models.TaskPending,
			Priority:    v.editPriority,
			AssignedTo:  v.editAssignee,
			ProjectID:   v.editProject,
		}
		v.busy = true
		return run("create task", func(ctx context.Context) error {
			_, err := s.CreateTask(ctx, in)
			return err
		})
	}

	task, ok := st.Tasks.Get(v.editID)
	if !ok {
		v.editing = false
		return nil
	}
	task.Title = title
	task.Description = desc
	task.DueDate = due
	task.Priority = v.editPriority
	task.AssignedTo = v.editAssignee
	task.AssignedToName = st.MemberName(v.editAssignee)
	task.ProjectID = v.editProject
	v.busy = true
	return run("update task", func(ctx context.Context) error {
		_, err := s.UpdateTask(ctx, task)
		return err
	})
}

func (v *TaskListView) View() string {
	if v.confirmingDelete {
		return renderConfirm(v.styles, v.width, v.height, "Delete Task?", v.deleteTargetName)
	}
	if v.editing {
		return v.renderEditForm()
	}
	if v.viewingID != "" {
		return v.renderTaskView()
	}

	s := v.styles
	st := v.syncer.Store()
	tasks, shown := v.Visible()
	now := time.Now()

	title := "All tasks"
	if p, ok := st.Projects.Current(); ok {
		title = p.Title
	}

	stats := projection.CountTasks(tasks)
	statLine := s.TitleMuted.Render(fmt.Sprintf("%d total • %d pending • %d in progress • %d completed • %.0f%% done",
		stats.Total, stats.Pending, stats.InProgress, stats.Completed, stats.CompletionRate()))

	f := st.Tasks.Filters()
	assignee := f.AssignedTo
	if assignee != projection.All {
		assignee = st.MemberName(assignee)
	}
	filterLine := lipgloss.JoinHorizontal(lipgloss.Center,
		s.Button.Render("Status: "+f.Status),
		" ",
		s.Button.Render("Priority: "+f.Priority),
		" ",
		s.Button.Render("Assignee: "+assignee),
	)

	var items []string
	for i, t := range shown {
		items = append(items, v.renderTaskItem(t, i == v.cursor, now))
	}
	if len(shown) == 0 {
		items = append(items, s.TitleMuted.Render("No tasks."))
	}

	pager := s.TitleMuted.Render(fmt.Sprintf("Page %d of %d",
		st.Tasks.Page(), projection.TotalPages(len(tasks), TasksPerPage)))

	var b strings.Builder
	b.WriteString(renderBanner(s, v.err, st.Tasks.Err()))
	b.WriteString(s.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(statLine)
	b.WriteString("\n")
	b.WriteString(filterLine)
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, items...))
	b.WriteString("\n")
	b.WriteString(pager)
	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderTaskItem(t models.Task, selected bool, now time.Time) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)

	itemStyle := s.ListItem
	if selected {
		itemStyle = s.ListSelected
	}
	assignee := "unassigned"
	if t.AssignedTo != "" {
		assignee = valueOr(t.AssignedToName, v.syncer.Store().MemberName(t.AssignedTo))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		itemStyle.Width(width).Render(renderTaskLine(s, t, now)),
		itemStyle.Width(width).Foreground(styles.Current.ForegroundDim).Render("→ "+assignee),
	)
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	st := v.syncer.Store()
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	field := func(idx int) lipgloss.Style {
		if v.editFocusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}
	btnStyle := s.Button
	if v.editFocusIdx == 6 {
		btnStyle = s.ButtonFocused
	}

	header := "New Task"
	if v.editID != "" {
		header = "Edit Task"
	}
	assignee := "unassigned"
	if v.editAssignee != "" {
		assignee = st.MemberName(v.editAssignee)
	}
	project := "none"
	if p, ok := st.Projects.Get(v.editProject); ok {
		project = p.Title
	}
	status := ""
	if v.err != nil {
		status = s.ErrorText.Render(v.err.Error())
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(header),
		"",
		"Title:",
		field(0).Width(inputWidth).Render(v.editTitle.View()),
		"Description:",
		field(1).Width(inputWidth).Render(v.editDesc.View()),
		"Due date:",
		field(2).Width(inputWidth).Render(v.editDue.View()),
		"Priority (space to change):",
		field(3).Width(inputWidth).Render(s.RenderBadge(string(v.editPriority), styles.PriorityColor(v.editPriority))),
		"Assignee (space to change):",
		field(4).Width(inputWidth).Render(assignee),
		"Project (space to change):",
		field(5).Width(inputWidth).Render(project),
		"",
		btnStyle.Render(" Save "),
		status,
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderTaskView() string {
	s := v.styles
	st := v.syncer.Store()
	t, ok := st.Tasks.Get(v.viewingID)
	if !ok {
		return s.TitleMuted.Render("This task no longer exists. Press esc.")
	}

	due := "none"
	if t.DueDate != nil {
		due = formatDate(*t.DueDate)
	}
	lines := []string{
		s.Title.Render(t.Title),
		s.RenderBadge(string(t.Status), styles.TaskStatusColor(t.Status)) + " " +
			s.RenderBadge(string(t.Priority), styles.PriorityColor(t.Priority)),
		"",
		valueOr(t.Description, s.TitleMuted.Render("no description")),
		"",
		s.StatLabel.Render("Assigned to: ") + valueOr(t.AssignedToName, st.MemberName(t.AssignedTo)),
		s.StatLabel.Render("Created by:  ") + st.MemberName(t.CreatedBy),
		s.StatLabel.Render("Due:         ") + due,
		s.StatLabel.Render("Updated:     ") + formatDate(t.UpdatedAt),
		"",
		s.Title.Render("History"),
	}
	if len(v.history) == 0 {
		lines = append(lines, s.TitleMuted.Render("No recorded changes"))
	}
	for _, l := range v.history {
		change := l.Action
		if l.OldValue != "" || l.NewValue != "" {
			change += fmt.Sprintf(": %s → %s", valueOr(l.OldValue, "-"), valueOr(l.NewValue, "-"))
		}
		lines = append(lines, s.TitleMuted.Render(l.Timestamp.Format("15:04"))+" "+valueOr(l.UserName, l.UserID)+" "+change)
	}
	lines = append(lines, "", s.TitleMuted.Render("esc: back"))

	return styles.CenterView(s.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)), v.width, v.height)
}

func (v *TaskListView) renderHelp() string {
	pairs := []string{"↵", "details", "space", "status", "f/p/a", "filters", "c", "clear", "←/→", "page"}
	if projection.CanCreateTask(v.user()) {
		pairs = append(pairs, "n", "new")
	}
	pairs = append(pairs, "e", "edit", "d", "del")
	if _, ok := v.syncer.Store().Projects.Current(); ok {
		pairs = append(pairs, "esc", "all tasks")
	}
	return renderHelp(v.styles, pairs...)
}
