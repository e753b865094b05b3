package views

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/projection"
	"github.com/tgienger/taskdash/internal/syncer"
	"github.com/tgienger/taskdash/internal/ui/styles"
)

// recentTasks is how many of the newest tasks the dashboard lists
const recentTasks = 5

// DashboardView summarizes projects, tasks and notifications
type DashboardView struct {
	syncer *syncer.Syncer
	styles *styles.Styles
	width  int
	height int
}

func NewDashboardView(s *syncer.Syncer) *DashboardView {
	return &DashboardView{syncer: s, styles: styles.NewStyles()}
}

func (v *DashboardView) Init() tea.Cmd { return nil }

func (v *DashboardView) Capturing() bool { return false }

func (v *DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		v.width = msg.Width
		v.height = msg.Height
	}
	return v, nil
}

// Stats computes the dashboard numbers from the current store contents
func (v *DashboardView) Stats(now time.Time) projection.DashboardStats {
	st := v.syncer.Store()
	tasks := st.Tasks.All()
	overdue := 0
	for _, t := range tasks {
		if t.IsOverdue(now) {
			overdue++
		}
	}
	return projection.DashboardStats{
		Projects:    projection.CountProjects(st.Projects.All()),
		Tasks:       projection.CountTasks(tasks),
		Overdue:     overdue,
		UnreadCount: st.Notifications.UnreadCount(),
	}
}

func (v *DashboardView) View() string {
	s := v.styles
	st := v.syncer.Store()
	stats := v.Stats(time.Now())

	greeting := "Welcome back"
	if u, ok := v.syncer.Session().User(); ok {
		greeting = "Welcome back, " + valueOr(u.Name, u.Email)
	}

	stat := func(label string, value any) string {
		return s.Box.Width(18).Render(lipgloss.JoinVertical(lipgloss.Left,
			s.StatValue.Render(fmt.Sprint(value)),
			s.StatLabel.Render(label),
		))
	}

	row1 := lipgloss.JoinHorizontal(lipgloss.Top,
		stat("projects", stats.Projects.Total),
		stat("active", stats.Projects.Active),
		stat("tasks", stats.Tasks.Total),
		stat("completed", stats.Tasks.Completed),
	)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top,
		stat("in progress", stats.Tasks.InProgress),
		stat("pending", stats.Tasks.Pending),
		stat("overdue", stats.Overdue),
		stat("unread", stats.UnreadCount),
	)

	rate := s.Title.Render(fmt.Sprintf("Completion rate: %.1f%%", stats.CompletionRate()))

	var recent []string
	tasks := st.Tasks.All()
	for _, t := range tasks[:min(recentTasks, len(tasks))] {
		recent = append(recent, s.ListItem.Render(renderTaskLine(s, t, time.Now())))
	}
	if len(recent) == 0 {
		recent = append(recent, s.TitleMuted.Render("No tasks yet"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		renderBanner(s, st.Projects.Err(), st.Tasks.Err(), st.Members.Err()),
		s.Title.Render(greeting),
		"",
		row1,
		row2,
		"",
		rate,
		"",
		s.Title.Render("Recent tasks"),
		lipgloss.JoinVertical(lipgloss.Left, recent...),
	)
	return styles.CenterView(content, v.width, v.height)
}

// renderTaskLine is the one-line form of a task used in lists
func renderTaskLine(s *styles.Styles, t models.Task, now time.Time) string {
	line := s.RenderBadge(string(t.Status), styles.TaskStatusColor(t.Status)) + " " +
		s.RenderBadge(string(t.Priority), styles.PriorityColor(t.Priority)) + " " +
		t.Title
	if t.DueDate != nil {
		due := "due " + formatDate(*t.DueDate)
		if t.IsOverdue(now) {
			due = s.Overdue.Render("overdue " + formatDate(*t.DueDate))
		} else {
			due = s.TitleMuted.Render(due)
		}
		line += "  " + due
	}
	return line
}
